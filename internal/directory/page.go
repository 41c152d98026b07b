package directory

// Page：分页参数，均为可选
// 约束：先 Offset 后 Limit；负值非法；Limit 为 0 表示不限制。
type Page struct {
	Limit  *int
	Offset *int
}

// Paged：便捷构造
func Paged(limit, offset int) Page { return Page{Limit: &limit, Offset: &offset} }

func (p Page) validate(op string) error {
	if p.Limit != nil && *p.Limit < 0 {
		return invalid(op, "limit must be >= 0, got %d", *p.Limit)
	}
	if p.Offset != nil && *p.Offset < 0 {
		return invalid(op, "offset must be >= 0, got %d", *p.Offset)
	}
	return nil
}

func (p Page) values() (limit, offset int) {
	if p.Limit != nil {
		limit = *p.Limit
	}
	if p.Offset != nil {
		offset = *p.Offset
	}
	return limit, offset
}

// apply：对内存中已排序的结果分页
func apply[T any](p Page, items []T) []T {
	limit, offset := p.values()
	if offset >= len(items) {
		return items[:0]
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
