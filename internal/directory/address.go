// 包 directory：查询引擎（地址解析、半径检索、分类子树、机构组合查询）
// 约束：引擎无状态，只读；每个操作使用调用方提供的 store.Handle，不自行获取连接。
package directory

import (
	"context"
	"database/sql"

	"org-directory/internal/logger"
	"org-directory/internal/model"
	"org-directory/internal/store"
)

const addressColumns = "a.id, a.country, a.city, a.street, a.house, a.building, a.lat, a.lon"

// AddressKey：结构化地址
// 约束：文本字段由调用方去除首尾空白；Building 为 nil 时只匹配无楼栋号的地址。
type AddressKey struct {
	Country  string
	City     string
	Street   string
	House    int
	Building *int
}

// ResolveAddress：按结构化地址精确查找，返回地址 id
// 约束：country/city/street 忽略大小写比较（lower），不做重音或区域折叠；house 精确匹配。
func ResolveAddress(ctx context.Context, h store.Handle, k AddressKey) (int64, error) {
	const op = "resolve_address"
	q := `SELECT a.id FROM addresses a
        WHERE lower(a.country) = lower(CAST(? AS TEXT))
          AND lower(a.city) = lower(CAST(? AS TEXT))
          AND lower(a.street) = lower(CAST(? AS TEXT))
          AND a.house = ?`
	args := []any{k.Country, k.City, k.Street, k.House}
	if k.Building == nil {
		q += " AND a.building IS NULL"
	} else {
		q += " AND a.building = ?"
		args = append(args, *k.Building)
	}
	var id int64
	if err := scanOne(op, "address", h.QueryRowContext(ctx, q, args...), &id); err != nil {
		logger.L().Debug("address_resolve_miss", "country", k.Country, "city", k.City, "street", k.Street, "house", k.House, "err", err)
		return 0, err
	}
	logger.L().Debug("address_resolve_hit", "id", id)
	return id, nil
}

// ListAddresses：全部地址，按 country, city, street, house, building 升序，building 为空排最后
func ListAddresses(ctx context.Context, h store.Handle) ([]model.Address, error) {
	const op = "list_addresses"
	d := h.Dialect()
	q := `SELECT ` + addressColumns + ` FROM addresses a
        ORDER BY ` + d.ByteOrder("a.country") + `, ` + d.ByteOrder("a.city") + `, ` + d.ByteOrder("a.street") +
		`, a.house, a.building ASC NULLS LAST, a.id`
	rows, err := h.QueryContext(ctx, q)
	if err != nil {
		return nil, storage(op, err)
	}
	out, err := scanAddresses(rows)
	if err != nil {
		return nil, storage(op, err)
	}
	return out, nil
}

// GetAddress：按 id 读取地址
func GetAddress(ctx context.Context, h store.Handle, id int64) (model.Address, error) {
	row := h.QueryRowContext(ctx, `SELECT `+addressColumns+` FROM addresses a WHERE a.id = ?`, id)
	var a model.Address
	if err := scanOne("get_address", "address", row, addressDest(&a)...); err != nil {
		return model.Address{}, err
	}
	return a, nil
}

// addressesByIDs：批量读取，供机构急加载使用
func addressesByIDs(ctx context.Context, h store.Handle, ids []int64) (map[int64]model.Address, error) {
	out := make(map[int64]model.Address, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := h.QueryContext(ctx, `SELECT `+addressColumns+` FROM addresses a WHERE a.id IN (`+store.Placeholders(len(ids))+`)`, store.Int64Args(ids)...)
	if err != nil {
		return nil, err
	}
	list, err := scanAddresses(rows)
	if err != nil {
		return nil, err
	}
	for _, a := range list {
		out[a.ID] = a
	}
	return out, nil
}

func addressDest(a *model.Address) []any {
	return []any{&a.ID, &a.Country, &a.City, &a.Street, &a.House, nullInt(&a.Building), nullFloat(&a.Lat), nullFloat(&a.Lon)}
}

func scanAddresses(rows *sql.Rows) ([]model.Address, error) {
	defer rows.Close()
	var out []model.Address
	for rows.Next() {
		var a model.Address
		if err := rows.Scan(addressDest(&a)...); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// scanFunc：以函数实现 sql.Scanner，用于可空列到指针字段的转换
type scanFunc func(v any) error

func (f scanFunc) Scan(v any) error { return f(v) }

func nullInt(dst **int) sql.Scanner {
	return scanFunc(func(v any) error {
		var n sql.NullInt64
		if err := n.Scan(v); err != nil {
			return err
		}
		if n.Valid {
			i := int(n.Int64)
			*dst = &i
		} else {
			*dst = nil
		}
		return nil
	})
}

func nullFloat(dst **float64) sql.Scanner {
	return scanFunc(func(v any) error {
		var n sql.NullFloat64
		if err := n.Scan(v); err != nil {
			return err
		}
		if n.Valid {
			f := n.Float64
			*dst = &f
		} else {
			*dst = nil
		}
		return nil
	})
}
