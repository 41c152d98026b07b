package directory

import (
	"context"
	"database/sql"

	"org-directory/internal/logger"
	"org-directory/internal/model"
	"org-directory/internal/store"
	"org-directory/internal/taxonomy"
)

// SubtreeIDsByName：按名称（忽略大小写）找到全部种子节点，返回种子及其全部后代 id，升序
// 约束：无匹配时返回空切片而非错误；同名节点可出现在树的不同位置，全部纳入。
func SubtreeIDsByName(ctx context.Context, h store.Handle, name string) ([]int64, error) {
	const op = "subtree_ids_by_name"
	rows, err := h.QueryContext(ctx, `SELECT id FROM activities WHERE lower(name) = lower(CAST(? AS TEXT)) ORDER BY id`, name)
	if err != nil {
		return nil, storage(op, err)
	}
	seeds, err := scanIDs(rows)
	if err != nil {
		return nil, storage(op, err)
	}
	if len(seeds) == 0 {
		logger.L().Debug("activity_seed_miss", "name", name)
		return []int64{}, nil
	}
	forest, err := loadForest(ctx, h)
	if err != nil {
		return nil, storage(op, err)
	}
	ids := forest.Subtree(seeds...)
	logger.L().Debug("activity_subtree", "name", name, "seeds", len(seeds), "ids", len(ids))
	return ids, nil
}

// ListActivities：全部分类，按名称升序（同名按 id）
func ListActivities(ctx context.Context, h store.Handle) ([]model.Activity, error) {
	const op = "list_activities"
	rows, err := h.QueryContext(ctx, `SELECT id, name, parent_id FROM activities ORDER BY `+h.Dialect().ByteOrder("name")+`, id`)
	if err != nil {
		return nil, storage(op, err)
	}
	defer rows.Close()
	var out []model.Activity
	for rows.Next() {
		var a model.Activity
		var p sql.NullInt64
		if err := rows.Scan(&a.ID, &a.Name, &p); err != nil {
			return nil, storage(op, err)
		}
		if p.Valid {
			v := p.Int64
			a.ParentID = &v
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, storage(op, err)
	}
	return out, nil
}

// ActivityTree：分类森林的树形视图
func ActivityTree(ctx context.Context, h store.Handle) ([]taxonomy.Node, error) {
	acts, err := ListActivities(ctx, h)
	if err != nil {
		return nil, err
	}
	return taxonomy.Tree(acts), nil
}

// loadForest：一次读取全部父子边构建邻接表
func loadForest(ctx context.Context, h store.Handle) (*taxonomy.Forest, error) {
	rows, err := h.QueryContext(ctx, `SELECT id, COALESCE(parent_id, 0) FROM activities`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var edges []taxonomy.Edge
	for rows.Next() {
		var e taxonomy.Edge
		if err := rows.Scan(&e.ID, &e.Parent); err != nil {
			return nil, err
		}
		edges = append(edges, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return taxonomy.Build(edges), nil
}

func scanIDs(rows *sql.Rows) ([]int64, error) {
	defer rows.Close()
	var out []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}
