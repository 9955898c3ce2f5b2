// Package store handles SQLite persistence of data views.
package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/MitjaBezensek/chart/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// ErrNotFound is returned when a named dataset does not exist.
var ErrNotFound = errors.New("dataset not found")

// Store wraps SQLite access for datasets.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db, now: time.Now}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS datasets (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			category_column TEXT NOT NULL,
			value_column TEXT NOT NULL,
			created_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS dataset_rows (
			dataset_id INTEGER NOT NULL,
			position INTEGER NOT NULL,
			category TEXT NOT NULL,
			value REAL,
			PRIMARY KEY (dataset_id, position)
		);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// SaveDataset stores the first category and value column of dv under name,
// replacing any dataset with the same name.
func (s *Store) SaveDataset(ctx context.Context, name string, dv *model.DataView) (id int64, err error) {
	if dv == nil || dv.Categorical == nil || len(dv.Categorical.Values) == 0 {
		return 0, errors.New("data view has no value column")
	}
	var categories model.CategoryColumn
	if len(dv.Categorical.Categories) > 0 {
		categories = dv.Categorical.Categories[0]
	}
	values := dv.Categorical.Values[0]

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	if _, err = tx.ExecContext(ctx,
		`DELETE FROM dataset_rows WHERE dataset_id IN (SELECT id FROM datasets WHERE name = ?)`, name); err != nil {
		return 0, err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM datasets WHERE name = ?`, name); err != nil {
		return 0, err
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO datasets (name, category_column, value_column, created_at) VALUES (?, ?, ?, ?)`,
		name,
		categories.Source.DisplayName,
		values.Source.DisplayName,
		s.now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, err
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, err
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO dataset_rows (dataset_id, position, category, value) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer func() {
		if cerr := stmt.Close(); cerr != nil {
			// Best-effort statement close.
			_ = cerr
		}
	}()
	for i, v := range values.Values {
		category := ""
		if i < len(categories.Values) {
			category = categories.Values[i]
		}
		var value sql.NullFloat64
		if v != nil {
			value = sql.NullFloat64{Float64: *v, Valid: true}
		}
		if _, err = stmt.ExecContext(ctx, id, i, category, value); err != nil {
			return 0, err
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// LoadDataView returns the named dataset as a data view.
func (s *Store) LoadDataView(ctx context.Context, name string) (*model.DataView, error) {
	var id int64
	var categoryColumn, valueColumn string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, category_column, value_column FROM datasets WHERE name = ?`, name,
	).Scan(&id, &categoryColumn, &valueColumn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT category, value FROM dataset_rows WHERE dataset_id = ? ORDER BY position ASC`, id)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	categories := model.CategoryColumn{Source: model.ColumnMeta{DisplayName: categoryColumn, QueryName: categoryColumn}}
	values := model.ValueColumn{Source: model.ColumnMeta{DisplayName: valueColumn, QueryName: valueColumn}}
	for rows.Next() {
		var category string
		var value sql.NullFloat64
		if err := rows.Scan(&category, &value); err != nil {
			return nil, err
		}
		categories.Values = append(categories.Values, category)
		if value.Valid {
			v := value.Float64
			values.Values = append(values.Values, &v)
		} else {
			values.Values = append(values.Values, nil)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &model.DataView{
		Categorical: &model.Categorical{
			Categories: []model.CategoryColumn{categories},
			Values:     []model.ValueColumn{values},
		},
	}, nil
}

// ListDatasets returns every stored dataset ordered by name.
func (s *Store) ListDatasets(ctx context.Context) ([]model.DatasetInfo, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT d.id, d.name, d.created_at, COUNT(r.position)
		FROM datasets d
		LEFT JOIN dataset_rows r ON r.dataset_id = d.id
		GROUP BY d.id
		ORDER BY d.name ASC`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.DatasetInfo
	for rows.Next() {
		var info model.DatasetInfo
		var createdAt string
		if err := rows.Scan(&info.ID, &info.Name, &createdAt, &info.Rows); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, err
		}
		info.CreatedAt = parsed
		result = append(result, info)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// DeleteDataset removes the named dataset.
func (s *Store) DeleteDataset(ctx context.Context, name string) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	if _, err = tx.ExecContext(ctx,
		`DELETE FROM dataset_rows WHERE dataset_id IN (SELECT id FROM datasets WHERE name = ?)`, name); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM datasets WHERE name = ?`, name)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		err = ErrNotFound
		return err
	}
	return tx.Commit()
}
