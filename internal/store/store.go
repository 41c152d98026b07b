// 包 store: 数据库访问入口，持有连接池与方言；查询引擎只通过 Handle 访问存储
package store

import (
	"context"
	"database/sql"
	"fmt"

	"org-directory/internal/logger"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Handle：引擎操作所需的最小查询能力
// 约束：查询文本以 ? 书写，由实现方按方言改写；*Store 与 *Session 均实现该接口。
type Handle interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	Dialect() Dialect
}

// Execer：写路径（建表、导入种子数据）
type Execer interface {
	Handle
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Store: 进程级上下文对象，持有连接池；显式传递给各调用方，不使用全局变量
type Store struct {
	db      *sql.DB
	dialect Dialect
}

// AttachDB：包装已打开的连接池
func AttachDB(db *sql.DB, d Dialect) *Store { return &Store{db: db, dialect: d} }

// Open: 按方言打开数据库并配置连接池
// 约束：SQLite 仅保留单连接（内存库每个连接互相独立），并开启外键检查。
func Open(d Dialect, dsn string) (*Store, error) {
	db, err := sql.Open(d.DriverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", d, err)
	}
	switch d {
	case SQLite:
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
		pragmas := []string{
			"PRAGMA foreign_keys = ON",
			"PRAGMA busy_timeout = 5000",
		}
		for _, p := range pragmas {
			if _, err := db.Exec(p); err != nil {
				_ = db.Close()
				return nil, fmt.Errorf("set pragma: %w", err)
			}
		}
	default:
		db.SetMaxOpenConns(50)
		db.SetMaxIdleConns(25)
	}
	logger.L().Debug("db_open", "dialect", string(d))
	return &Store{db: db, dialect: d}, nil
}

// SetPool：覆盖 Postgres 连接池大小，非正数保持原值；SQLite 固定单连接，忽略
func (s *Store) SetPool(maxOpen, maxIdle int) {
	if s.dialect != Postgres {
		return
	}
	if maxOpen > 0 {
		s.db.SetMaxOpenConns(maxOpen)
	}
	if maxIdle > 0 {
		s.db.SetMaxIdleConns(maxIdle)
	}
}

// Close: 关闭数据库连接
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) DB() *sql.DB { return s.db }

func (s *Store) Dialect() Dialect { return s.dialect }

// Ping：启动自检，等价于 SELECT 1
func (s *Store) Ping(ctx context.Context) error {
	var one int
	return s.db.QueryRowContext(ctx, "SELECT 1").Scan(&one)
}

func (s *Store) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return s.db.QueryContext(ctx, s.dialect.Rebind(query), args...)
}

func (s *Store) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return s.db.QueryRowContext(ctx, s.dialect.Rebind(query), args...)
}

func (s *Store) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return s.db.ExecContext(ctx, s.dialect.Rebind(query), args...)
}

// Session：一次作用域内的事务句柄
type Session struct {
	tx      *sql.Tx
	dialect Dialect
}

func (s *Session) Dialect() Dialect { return s.dialect }

func (s *Session) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return s.tx.QueryContext(ctx, s.dialect.Rebind(query), args...)
}

func (s *Session) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return s.tx.QueryRowContext(ctx, s.dialect.Rebind(query), args...)
}

func (s *Session) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return s.tx.ExecContext(ctx, s.dialect.Rebind(query), args...)
}

// View：只读作用域。开启事务执行 fn，无论成功或失败都回滚释放连接
func (s *Store) View(ctx context.Context, fn func(*Session) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()
	return fn(&Session{tx: tx, dialect: s.dialect})
}

// Update：写作用域，fn 返回 nil 时提交，否则回滚
func (s *Store) Update(ctx context.Context, fn func(*Session) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	if err := fn(&Session{tx: tx, dialect: s.dialect}); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
