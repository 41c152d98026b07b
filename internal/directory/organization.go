package directory

import (
	"context"
	"database/sql"
	"sort"
	"strings"

	"org-directory/internal/logger"
	"org-directory/internal/model"
	"org-directory/internal/store"
)

// OrgFilter：机构查询条件，多个条件之间为 AND
// 约束：切片为 nil 表示不过滤；非 nil 的空切片表示条件存在但无可匹配值，结果必为空。
// AddressID 与 AddressIDs 同时给出时同时收窄 address_id（等于该值且在集合内）。
type OrgFilter struct {
	AddressID   *int64
	AddressIDs  []int64
	ActivityIDs []int64
	Name        *string
	Page        Page
}

// QueryOrganizations：组合查询，按名称字节序升序、id 次序，先 offset 后 limit
// 约束：分类条件为“任一命中”，以 EXISTS 实现，同一机构不会重复；返回的机构均已急加载地址、电话、分类。
func QueryOrganizations(ctx context.Context, h store.Handle, f OrgFilter) ([]model.Organization, error) {
	const op = "query_organizations"
	if err := f.Page.validate(op); err != nil {
		return nil, err
	}
	if (f.AddressIDs != nil && len(f.AddressIDs) == 0) || (f.ActivityIDs != nil && len(f.ActivityIDs) == 0) {
		logger.L().Debug("org_query_empty_set")
		return []model.Organization{}, nil
	}
	d := h.Dialect()
	var where []string
	var args []any
	if f.AddressID != nil {
		where = append(where, "o.address_id = ?")
		args = append(args, *f.AddressID)
	}
	if f.AddressIDs != nil {
		ids := uniqueIDs(f.AddressIDs)
		where = append(where, "o.address_id IN ("+store.Placeholders(len(ids))+")")
		args = append(args, store.Int64Args(ids)...)
	}
	if f.Name != nil {
		where = append(where, "o.name = ?")
		args = append(args, *f.Name)
	}
	if f.ActivityIDs != nil {
		ids := uniqueIDs(f.ActivityIDs)
		where = append(where, `EXISTS (SELECT 1 FROM organization_activities oa
            WHERE oa.organization_id = o.id AND oa.activity_id IN (`+store.Placeholders(len(ids))+`))`)
		args = append(args, store.Int64Args(ids)...)
	}
	q := "SELECT o.id, o.name, o.address_id FROM organizations o"
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	limit, offset := f.Page.values()
	q += " ORDER BY " + d.ByteOrder("o.name") + ", o.id" + d.Paging(limit, offset)
	rows, err := h.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, storage(op, err)
	}
	orgs, err := scanOrgs(rows)
	if err != nil {
		return nil, storage(op, err)
	}
	if err := hydrate(ctx, h, orgs); err != nil {
		return nil, storage(op, err)
	}
	logger.L().Debug("org_query", "filters", len(where), "limit", limit, "offset", offset, "rows", len(orgs))
	return orgs, nil
}

// GetOrganization：按 id 读取
func GetOrganization(ctx context.Context, h store.Handle, id int64) (model.Organization, error) {
	return getOne(ctx, h, "get_organization", "o.id = ?", id)
}

// GetOrganizationByName：按名称精确读取（名称全局唯一）
func GetOrganizationByName(ctx context.Context, h store.Handle, name string) (model.Organization, error) {
	return getOne(ctx, h, "get_organization_by_name", "o.name = ?", name)
}

func getOne(ctx context.Context, h store.Handle, op, cond string, arg any) (model.Organization, error) {
	row := h.QueryRowContext(ctx, "SELECT o.id, o.name, o.address_id FROM organizations o WHERE "+cond, arg)
	var o model.Organization
	if err := scanOne(op, "organization", row, &o.ID, &o.Name, &o.AddressID); err != nil {
		return model.Organization{}, err
	}
	orgs := []model.Organization{o}
	if err := hydrate(ctx, h, orgs); err != nil {
		return model.Organization{}, storage(op, err)
	}
	return orgs[0], nil
}

func scanOrgs(rows *sql.Rows) ([]model.Organization, error) {
	defer rows.Close()
	out := []model.Organization{}
	seen := make(map[int64]bool)
	for rows.Next() {
		var o model.Organization
		if err := rows.Scan(&o.ID, &o.Name, &o.AddressID); err != nil {
			return nil, err
		}
		if seen[o.ID] {
			continue
		}
		seen[o.ID] = true
		out = append(out, o)
	}
	return out, rows.Err()
}

// hydrate：批量急加载地址、电话（号码升序）、分类（名称升序）
func hydrate(ctx context.Context, h store.Handle, orgs []model.Organization) error {
	if len(orgs) == 0 {
		return nil
	}
	d := h.Dialect()
	orgIDs := make([]int64, 0, len(orgs))
	addrIDs := make([]int64, 0, len(orgs))
	idx := make(map[int64]int, len(orgs))
	for i := range orgs {
		orgs[i].Phones = []model.Phone{}
		orgs[i].Activities = []model.Activity{}
		idx[orgs[i].ID] = i
		orgIDs = append(orgIDs, orgs[i].ID)
		addrIDs = append(addrIDs, orgs[i].AddressID)
	}
	addrs, err := addressesByIDs(ctx, h, uniqueIDs(addrIDs))
	if err != nil {
		return err
	}
	for i := range orgs {
		orgs[i].Address = addrs[orgs[i].AddressID]
	}

	in := store.Placeholders(len(orgIDs))
	args := store.Int64Args(orgIDs)
	rows, err := h.QueryContext(ctx, `SELECT id, organization_id, phone FROM organization_phones
        WHERE organization_id IN (`+in+`) ORDER BY organization_id, `+d.ByteOrder("phone")+`, id`, args...)
	if err != nil {
		return err
	}
	if err := func() error {
		defer rows.Close()
		for rows.Next() {
			var p model.Phone
			if err := rows.Scan(&p.ID, &p.OrganizationID, &p.Phone); err != nil {
				return err
			}
			if i, ok := idx[p.OrganizationID]; ok {
				orgs[i].Phones = append(orgs[i].Phones, p)
			}
		}
		return rows.Err()
	}(); err != nil {
		return err
	}

	rows, err = h.QueryContext(ctx, `SELECT oa.organization_id, a.id, a.name, a.parent_id
        FROM organization_activities oa JOIN activities a ON a.id = oa.activity_id
        WHERE oa.organization_id IN (`+in+`) ORDER BY oa.organization_id, `+d.ByteOrder("a.name")+`, a.id`, args...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var orgID int64
		var a model.Activity
		var p sql.NullInt64
		if err := rows.Scan(&orgID, &a.ID, &a.Name, &p); err != nil {
			return err
		}
		if p.Valid {
			v := p.Int64
			a.ParentID = &v
		}
		if i, ok := idx[orgID]; ok {
			orgs[i].Activities = append(orgs[i].Activities, a)
		}
	}
	return rows.Err()
}

// uniqueIDs：去重并升序，缩短 IN 列表
func uniqueIDs(ids []int64) []int64 {
	out := make([]int64, 0, len(ids))
	seen := make(map[int64]bool, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
