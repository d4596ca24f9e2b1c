// 包 store 提供下载台账（SQLite）：记录已抓取的附件地址与落盘位置，
// 重复运行导入时跳过已经在磁盘上的文件。
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Ledger 封装 *sql.DB，基于 modernc.org/sqlite（纯 Go 实现）。
type Ledger struct {
	db *sql.DB
}

// Open 打开台账数据库并执行幂等建表。
func Open(path string) (*Ledger, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open ledger %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	l := &Ledger{db: db}
	if err := l.migrate(); err != nil {
		return nil, fmt.Errorf("migrate ledger: %w", err)
	}
	return l, nil
}

func (l *Ledger) Close() error { return l.db.Close() }

func (l *Ledger) migrate() error {
	_, err := l.db.Exec(`CREATE TABLE IF NOT EXISTS downloads (
        url TEXT PRIMARY KEY,
        path TEXT NOT NULL,
        size INTEGER NOT NULL,
        fetched_at TIMESTAMP NOT NULL
    );`)
	if err != nil {
		return fmt.Errorf("exec migrate: %w", err)
	}
	return nil
}

// Record 登记一次成功下载（同地址覆盖更新）。
func (l *Ledger) Record(ctx context.Context, url, path string, size int64) error {
	_, err := l.db.ExecContext(ctx, `INSERT INTO downloads(url, path, size, fetched_at)
        VALUES(?,?,?,?)
        ON CONFLICT(url) DO UPDATE SET path=excluded.path, size=excluded.size, fetched_at=excluded.fetched_at`,
		url, path, size, time.Now())
	if err != nil {
		return fmt.Errorf("record download %s: %w", url, err)
	}
	return nil
}

// Lookup 查询地址是否已登记，返回登记的落盘路径。
func (l *Ledger) Lookup(ctx context.Context, url string) (string, bool, error) {
	var path string
	err := l.db.QueryRowContext(ctx, `SELECT path FROM downloads WHERE url = ?`, url).Scan(&path)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("lookup download %s: %w", url, err)
	}
	return path, true, nil
}

// Count 返回台账条数（测试与统计用）。
func (l *Ledger) Count(ctx context.Context) (int, error) {
	var n int
	if err := l.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM downloads`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count downloads: %w", err)
	}
	return n, nil
}
