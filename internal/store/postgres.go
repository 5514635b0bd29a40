package store

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	emptyJSONArray = "[]"

	listFormsSQL = `SELECT name, description, engine, fields, updated_at FROM forms ORDER BY name`
	getFormSQL   = `SELECT name, description, engine, fields, updated_at FROM forms WHERE name = $1`
	upsertSQL    = `INSERT INTO forms (name, description, engine, fields, updated_at)
VALUES ($1, $2, $3, $4, now())
ON CONFLICT (name) DO UPDATE
SET description = EXCLUDED.description,
    engine = EXCLUDED.engine,
    fields = EXCLUDED.fields,
    updated_at = now()`
	deleteSQL = `DELETE FROM forms WHERE name = $1`
)

// PostgresStore is a PostgreSQL implementation of the Store interface.
// Fields are kept as a jsonb document per form.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL-backed store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// ListForms retrieves every form from the database ordered by name.
func (p *PostgresStore) ListForms(ctx context.Context) ([]Form, error) {
	rows, err := p.pool.Query(ctx, listFormsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	forms := make([]Form, 0)
	for rows.Next() {
		form, err := scanForm(rows)
		if err != nil {
			return nil, err
		}
		forms = append(forms, form)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return forms, nil
}

// GetForm retrieves a single form by name from the database.
func (p *PostgresStore) GetForm(ctx context.Context, name string) (*Form, error) {
	form, err := scanForm(p.pool.QueryRow(ctx, getFormSQL, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &form, nil
}

// UpsertForm creates or replaces a form in the database.
func (p *PostgresStore) UpsertForm(ctx context.Context, params UpsertParams) error {
	fieldsBytes, err := json.Marshal(ensureFieldsInitialized(params.Fields))
	if err != nil {
		return err
	}
	_, err = p.pool.Exec(ctx, upsertSQL, params.Name, params.Description, params.Engine, fieldsBytes)
	return err
}

// DeleteForm removes a form from the database.
func (p *PostgresStore) DeleteForm(ctx context.Context, name string) error {
	_, err := p.pool.Exec(ctx, deleteSQL, name)
	return err
}

// Close closes the database connection pool.
func (p *PostgresStore) Close() error {
	p.pool.Close()
	return nil
}

// scanForm converts one database row to a Form.
func scanForm(row pgx.Row) (Form, error) {
	var (
		form   Form
		fields []byte
	)
	if err := row.Scan(&form.Name, &form.Description, &form.Engine, &fields, &form.UpdatedAt); err != nil {
		return Form{}, err
	}
	return decodeFields(form, fields)
}

func decodeFields(form Form, raw []byte) (Form, error) {
	if len(raw) == 0 {
		raw = []byte(emptyJSONArray)
	}
	if err := json.Unmarshal(raw, &form.Fields); err != nil {
		return Form{}, err
	}
	form.Fields = ensureFieldsInitialized(form.Fields)
	return form, nil
}
