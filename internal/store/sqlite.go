package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/pitchforge/pitchforge/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS saved_items (
	id              TEXT PRIMARY KEY,
	title           TEXT NOT NULL,
	type            TEXT NOT NULL,
	elements        TEXT NOT NULL,
	content         TEXT,
	questions       TEXT,
	financial_model TEXT,
	competitor_data TEXT,
	created_at      DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at      DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_saved_items_type ON saved_items(type);
CREATE INDEX IF NOT EXISTS idx_saved_items_created_at ON saved_items(created_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Save(ctx context.Context, item *model.SavedItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}
	item.UpdatedAt = now

	cols, err := marshalItem(item)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO saved_items (id, title, type, elements, content, questions, financial_model, competitor_data, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   title = excluded.title,
		   content = excluded.content,
		   questions = excluded.questions,
		   financial_model = excluded.financial_model,
		   competitor_data = excluded.competitor_data,
		   updated_at = excluded.updated_at`,
		item.ID, item.Title, string(item.Type), cols.elements, cols.content,
		cols.questions, cols.financialModel, cols.competitorData,
		item.CreatedAt, item.UpdatedAt,
	)
	return eris.Wrapf(err, "sqlite: save item %s", item.ID)
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (*model.SavedItem, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, title, type, elements, content, questions, financial_model, competitor_data, created_at, updated_at
		 FROM saved_items WHERE id = ?`,
		id,
	)
	item, err := scanItem(row)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get item %s", id)
	}
	return item, nil
}

func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]model.SavedItem, error) {
	query := `SELECT id, title, type, elements, content, questions, financial_model, competitor_data, created_at, updated_at
		FROM saved_items WHERE 1=1`
	var args []any

	if filter.Type != "" {
		query += ` AND type = ?`
		args = append(args, string(filter.Type))
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list items")
	}
	defer rows.Close()

	var items []model.SavedItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan item")
		}
		items = append(items, *item)
	}
	return items, eris.Wrap(rows.Err(), "sqlite: list items iterate")
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM saved_items WHERE id = ?`, id)
	if err != nil {
		return eris.Wrapf(err, "sqlite: delete item %s", id)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "sqlite: rows affected")
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// helpers

type itemColumns struct {
	elements       string
	content        sql.NullString
	questions      sql.NullString
	financialModel sql.NullString
	competitorData sql.NullString
}

func marshalItem(item *model.SavedItem) (itemColumns, error) {
	var cols itemColumns

	elementsJSON, err := json.Marshal(item.Elements)
	if err != nil {
		return cols, eris.Wrap(err, "marshal elements")
	}
	cols.elements = string(elementsJSON)

	if item.Content != "" {
		cols.content = sql.NullString{String: item.Content, Valid: true}
	}
	if item.Questions != nil {
		b, err := json.Marshal(item.Questions)
		if err != nil {
			return cols, eris.Wrap(err, "marshal questions")
		}
		cols.questions = sql.NullString{String: string(b), Valid: true}
	}
	if item.FinancialModel != nil {
		b, err := json.Marshal(item.FinancialModel)
		if err != nil {
			return cols, eris.Wrap(err, "marshal financial model")
		}
		cols.financialModel = sql.NullString{String: string(b), Valid: true}
	}
	if item.CompetitorData != nil {
		b, err := json.Marshal(item.CompetitorData)
		if err != nil {
			return cols, eris.Wrap(err, "marshal competitor data")
		}
		cols.competitorData = sql.NullString{String: string(b), Valid: true}
	}
	return cols, nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanItem(row scannable) (*model.SavedItem, error) {
	var (
		item           model.SavedItem
		itemType       string
		elementsJSON   string
		content        sql.NullString
		questions      sql.NullString
		financialModel sql.NullString
		competitorData sql.NullString
	)

	err := row.Scan(&item.ID, &item.Title, &itemType, &elementsJSON, &content,
		&questions, &financialModel, &competitorData, &item.CreatedAt, &item.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	item.Type = model.SavedItemType(itemType)
	if err := json.Unmarshal([]byte(elementsJSON), &item.Elements); err != nil {
		return nil, eris.Wrap(err, "unmarshal elements")
	}
	item.Content = content.String
	if questions.Valid {
		if err := json.Unmarshal([]byte(questions.String), &item.Questions); err != nil {
			return nil, eris.Wrap(err, "unmarshal questions")
		}
	}
	if financialModel.Valid {
		item.FinancialModel = &model.FinancialModel{}
		if err := json.Unmarshal([]byte(financialModel.String), item.FinancialModel); err != nil {
			return nil, eris.Wrap(err, "unmarshal financial model")
		}
	}
	if competitorData.Valid {
		item.CompetitorData = &model.CompetitorAnalysis{}
		if err := json.Unmarshal([]byte(competitorData.String), item.CompetitorData); err != nil {
			return nil, eris.Wrap(err, "unmarshal competitor data")
		}
	}
	return &item, nil
}
