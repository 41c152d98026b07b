package store

import (
	"fmt"
	"strconv"
	"strings"
)

// Dialect：SQL 方言，决定驱动名、占位符与排序规则
type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

// ParseDialect：解析配置中的驱动名（忽略大小写），未知值返回错误
func ParseDialect(s string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "sqlite", "sqlite3":
		return SQLite, nil
	case "postgres", "postgresql", "pg":
		return Postgres, nil
	}
	return "", fmt.Errorf("unsupported db driver %q", s)
}

// DriverName：database/sql 注册名（lib/pq 为 postgres，modernc 为 sqlite）
func (d Dialect) DriverName() string { return string(d) }

// Rebind：将 ? 占位符改写为方言形式
// 约束：查询文本统一以 ? 书写；单引号字符串与双引号标识符内的 ? 不改写。
func (d Dialect) Rebind(q string) string {
	if d != Postgres || !strings.Contains(q, "?") {
		return q
	}
	var b strings.Builder
	b.Grow(len(q) + 8)
	n := 0
	var quote byte
	for i := 0; i < len(q); i++ {
		c := q[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case c == '?':
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

// ByteOrder：按字节序比较的列表达式，用于 ORDER BY
// Postgres 默认排序规则随库 locale 变化，显式使用 "C"；SQLite 默认 BINARY。
func (d Dialect) ByteOrder(col string) string {
	if d == Postgres {
		return col + ` COLLATE "C"`
	}
	return col
}

// Paging：生成 LIMIT/OFFSET 子句；limit<=0 表示不限制
func (d Dialect) Paging(limit, offset int) string {
	if limit <= 0 && offset <= 0 {
		return ""
	}
	lim := strconv.Itoa(limit)
	if limit <= 0 {
		if d == Postgres {
			lim = "ALL"
		} else {
			lim = "-1"
		}
	}
	if offset <= 0 {
		return " LIMIT " + lim
	}
	return " LIMIT " + lim + " OFFSET " + strconv.Itoa(offset)
}

// Placeholders：n 个以逗号分隔的 ?，用于 IN 列表
func Placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

// Int64Args：将 id 列表展开为查询参数
func Int64Args(ids []int64) []any {
	out := make([]any, len(ids))
	for i, v := range ids {
		out[i] = v
	}
	return out
}
