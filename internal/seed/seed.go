// 包 seed：从 YAML 装载目录数据（地址、分类、机构），用于本地初始化与测试夹具
// 约束：仅供离线导入使用，不对外暴露写接口；装载在单个事务中完成，失败整体回滚。
package seed

import (
	"context"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"org-directory/internal/logger"
	"org-directory/internal/model"
	"org-directory/internal/store"
)

// Organization：夹具中的机构，Activities 为分类 id 列表
type Organization struct {
	ID         int64    `yaml:"id"`
	Name       string   `yaml:"name"`
	AddressID  int64    `yaml:"address_id"`
	Phones     []string `yaml:"phones"`
	Activities []int64  `yaml:"activities"`
}

// Fixture：YAML 顶层结构
type Fixture struct {
	Addresses     []model.Address  `yaml:"addresses"`
	Activities    []model.Activity `yaml:"activities"`
	Organizations []Organization   `yaml:"organizations"`
}

// Decode：解析 YAML，未知字段视为错误
func Decode(r io.Reader) (*Fixture, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var f Fixture
	if err := dec.Decode(&f); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode fixture: %w", err)
	}
	return &f, nil
}

// LoadFile：读取文件并写入存储
func LoadFile(ctx context.Context, st *store.Store, path string) (*Fixture, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()
	f, err := Decode(fh)
	if err != nil {
		return nil, err
	}
	if err := st.Update(ctx, func(s *store.Session) error { return Apply(ctx, s, f) }); err != nil {
		return nil, err
	}
	return f, nil
}

// Apply：按 地址 → 分类（父先于子）→ 机构 → 电话/分类关系 的顺序写入
func Apply(ctx context.Context, e store.Execer, f *Fixture) error {
	for _, a := range f.Addresses {
		if _, err := e.ExecContext(ctx,
			`INSERT INTO addresses (id, country, city, street, house, building, lat, lon) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			a.ID, a.Country, a.City, a.Street, a.House, a.Building, a.Lat, a.Lon); err != nil {
			return fmt.Errorf("address %d: %w", a.ID, err)
		}
	}
	acts, err := parentsFirst(f.Activities)
	if err != nil {
		return err
	}
	for _, a := range acts {
		if _, err := e.ExecContext(ctx, `INSERT INTO activities (id, name, parent_id) VALUES (?, ?, ?)`, a.ID, a.Name, a.ParentID); err != nil {
			return fmt.Errorf("activity %d: %w", a.ID, err)
		}
	}
	for _, o := range f.Organizations {
		if _, err := e.ExecContext(ctx, `INSERT INTO organizations (id, name, address_id) VALUES (?, ?, ?)`, o.ID, o.Name, o.AddressID); err != nil {
			return fmt.Errorf("organization %d: %w", o.ID, err)
		}
		for _, p := range o.Phones {
			if _, err := e.ExecContext(ctx, `INSERT INTO organization_phones (organization_id, phone) VALUES (?, ?)`, o.ID, p); err != nil {
				return fmt.Errorf("organization %d phone %q: %w", o.ID, p, err)
			}
		}
		for _, aid := range o.Activities {
			if _, err := e.ExecContext(ctx, `INSERT INTO organization_activities (organization_id, activity_id) VALUES (?, ?)`, o.ID, aid); err != nil {
				return fmt.Errorf("organization %d activity %d: %w", o.ID, aid, err)
			}
		}
	}
	if e.Dialect() == store.Postgres {
		// 显式写入 id 后同步序列，避免后续自增冲突
		for _, t := range []string{"addresses", "activities", "organizations", "organization_phones"} {
			q := `SELECT setval(pg_get_serial_sequence('` + t + `', 'id'), COALESCE(MAX(id), 0) + 1, false) FROM ` + t
			if _, err := e.ExecContext(ctx, q); err != nil {
				return fmt.Errorf("sync sequence %s: %w", t, err)
			}
		}
	}
	logger.L().Info("seed_applied", "addresses", len(f.Addresses), "activities", len(f.Activities), "organizations", len(f.Organizations))
	return nil
}

// parentsFirst：按层级排序，父节点先于子节点；存在环或父节点缺失时报错
func parentsFirst(acts []model.Activity) ([]model.Activity, error) {
	known := make(map[int64]bool, len(acts))
	for _, a := range acts {
		known[a.ID] = true
	}
	done := make(map[int64]bool, len(acts))
	out := make([]model.Activity, 0, len(acts))
	pending := acts
	for len(pending) > 0 {
		var next []model.Activity
		for _, a := range pending {
			if a.ParentID != nil && !known[*a.ParentID] {
				return nil, fmt.Errorf("activity %d: unknown parent %d", a.ID, *a.ParentID)
			}
			if a.ParentID == nil || done[*a.ParentID] {
				done[a.ID] = true
				out = append(out, a)
				continue
			}
			next = append(next, a)
		}
		if len(next) == len(pending) {
			return nil, fmt.Errorf("activity cycle among %d activities", len(next))
		}
		pending = next
	}
	return out, nil
}
