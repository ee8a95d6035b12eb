package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/cx-miguel-neiva/cwv-audit/internal/export"
	"github.com/cx-miguel-neiva/cwv-audit/internal/handler"
	"github.com/cx-miguel-neiva/cwv-audit/internal/model"
	"github.com/cx-miguel-neiva/cwv-audit/plugins"
	_ "modernc.org/sqlite"
)

// FileType names the database file that holds every table of a run.
const FileType = "Results"

type Connection struct {
	*sql.DB
}

// NewConnection opens the database and creates the bookkeeping schema.
func NewConnection(dbPath string) (*Connection, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	schema := `
    CREATE TABLE IF NOT EXISTS exports (
        name TEXT PRIMARY KEY,
        domain TEXT NOT NULL,
        row_count INTEGER NOT NULL,
        created_at TEXT NOT NULL
    );`

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Connection{db}, nil
}

// QuoteIdent quotes a column or table name for use in SQL.
func QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// SaveTable replaces the named table with the rows of t. Every column is
// TEXT; absent and empty values are stored as NULL.
func (c *Connection) SaveTable(ctx context.Context, name, domain string, t model.Table) (int, error) {
	tx, err := c.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+QuoteIdent(name)); err != nil {
		return 0, fmt.Errorf("failed to drop table %s: %w", name, err)
	}

	columns := t.Columns
	if len(columns) == 0 {
		columns = []string{handler.ColTitle}
	}
	defs := make([]string, len(columns))
	quoted := make([]string, len(columns))
	placeholders := make([]string, len(columns))
	for i, col := range columns {
		quoted[i] = QuoteIdent(col)
		defs[i] = quoted[i] + " TEXT"
		placeholders[i] = "?"
	}

	create := fmt.Sprintf("CREATE TABLE %s (%s)", QuoteIdent(name), strings.Join(defs, ", "))
	if _, err := tx.ExecContext(ctx, create); err != nil {
		return 0, fmt.Errorf("failed to create table %s: %w", name, err)
	}

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		QuoteIdent(name), strings.Join(quoted, ", "), strings.Join(placeholders, ", ")))
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	var insertedCount int
	for _, row := range t.Rows {
		args := make([]any, len(columns))
		for i, col := range columns {
			if v, ok := row.Get(col); ok {
				if s := handler.ToStr(v); s != "" {
					args[i] = s
				}
			}
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return 0, fmt.Errorf("failed to insert into %s: %w", name, err)
		}
		insertedCount++
	}

	_, err = tx.ExecContext(ctx, `
        INSERT INTO exports(name, domain, row_count, created_at) VALUES(?, ?, ?, ?)
        ON CONFLICT(name) DO UPDATE SET domain=excluded.domain, row_count=excluded.row_count, created_at=excluded.created_at`,
		name, domain, insertedCount, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return 0, fmt.Errorf("failed to record export: %w", err)
	}

	return insertedCount, tx.Commit()
}

type exportSummary struct {
	Name     string `json:"name"`
	Domain   string `json:"domain"`
	RowCount int    `json:"rowCount"`
}

// exportSummaries lists the tables written to this database.
func (c *Connection) exportSummaries() ([]exportSummary, error) {
	rows, err := c.Query("SELECT name, domain, row_count FROM exports ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []exportSummary
	for rows.Next() {
		var summary exportSummary
		if err := rows.Scan(&summary.Name, &summary.Domain, &summary.RowCount); err != nil {
			return nil, err
		}
		summaries = append(summaries, summary)
	}
	return summaries, rows.Err()
}

// tableColumns returns the column names of a table in definition order.
func (c *Connection) tableColumns(table string) ([]string, error) {
	rows, err := c.Query("SELECT name FROM pragma_table_info(?) ORDER BY cid", table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []string
	for rows.Next() {
		var column string
		if err := rows.Scan(&column); err != nil {
			return nil, err
		}
		columns = append(columns, column)
	}
	return columns, rows.Err()
}

// SQLite exports all tables of a run into one database file.
type SQLite struct{}

func (SQLite) Format() string { return "sqlite" }

func (SQLite) Path(e plugins.Export) string {
	e.Type = FileType
	return export.FilePath(e, "db")
}

func (SQLite) Write(ctx context.Context, path string, e plugins.Export) error {
	conn, err := NewConnection(path)
	if err != nil {
		return err
	}
	defer conn.Close()

	if _, err := conn.SaveTable(ctx, strings.ToLower(e.Type), export.Domain(e.Domain), e.Table); err != nil {
		return err
	}
	return conn.Close()
}
