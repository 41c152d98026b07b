package directory

import (
	"database/sql"
	"errors"
	"fmt"
)

// Kind：错误分类
type Kind string

const (
	// KindNotFound：查找命中 0 行，属于正常结果
	KindNotFound Kind = "NOT_FOUND"
	// KindInvalidInput：调用方违反前置条件，未发起任何存储操作
	KindInvalidInput Kind = "INVALID_INPUT"
	// KindStorage：连接或执行失败，原样向上传递，不重试
	KindStorage Kind = "STORAGE"
)

// Error：引擎统一错误结构
type Error struct {
	Kind Kind
	Op   string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	s := "[" + string(e.Kind) + "] " + e.Op
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *Error) Unwrap() error { return e.Err }

// Is：按 Kind 匹配，使 errors.Is(err, ErrNotFound) 可用
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Op == "" && t.Kind == e.Kind
}

var (
	ErrNotFound     = &Error{Kind: KindNotFound}
	ErrInvalidInput = &Error{Kind: KindInvalidInput}
	ErrStorage      = &Error{Kind: KindStorage}
)

func notFound(op, msg string) error { return &Error{Kind: KindNotFound, Op: op, Msg: msg} }

func invalid(op, format string, args ...any) error {
	return &Error{Kind: KindInvalidInput, Op: op, Msg: fmt.Sprintf(format, args...)}
}

// storage：包装驱动错误；sql.ErrNoRows 不应走到这里
func storage(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: KindStorage, Op: op, Err: err}
}

// KindOf：提取错误分类，非引擎错误返回空
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// scanOne：单行查询；ErrNoRows 转为 NotFound，其余视为存储失败
func scanOne(op, what string, row *sql.Row, dest ...any) error {
	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return notFound(op, what+" not found")
		}
		return storage(op, err)
	}
	return nil
}
