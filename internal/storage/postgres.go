package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yourname/symptomtracker/internal"
)

type PostgresStorage struct {
	pool   *pgxpool.Pool
	logger internal.Logger
}

func NewPostgresStorage(dsn string, logger internal.Logger) (*PostgresStorage, error) {
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		logger.Errorf("failed to connect to postgres: %v", err)
		return nil, err
	}
	return &PostgresStorage{pool: pool, logger: logger}, nil
}

func (p *PostgresStorage) Close() error {
	p.pool.Close()
	return nil
}

const symptomColumns = `id, user_id, name, category, severity, to_char(date, 'YYYY-MM-DD'), time, notes, food_action, custom_fields, created_at`

func scanSymptom(row pgx.Row) (*internal.SymptomRecord, error) {
	var r internal.SymptomRecord
	var custom map[string]string
	if err := row.Scan(&r.ID, &r.UserID, &r.Name, &r.Category, &r.Severity, &r.Date, &r.Time, &r.Notes, &r.FoodAction, &custom, &r.CreatedAt); err != nil {
		return nil, err
	}
	r.CustomFields = internal.CustomFieldsFromStrings(custom)
	return &r, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// --- SymptomRepository ---
func (p *PostgresStorage) InsertSymptom(ctx context.Context, rec *internal.SymptomRecord) error {
	_, err := p.pool.Exec(ctx, `INSERT INTO symptoms (id, user_id, name, category, severity, date, time, notes, food_action, custom_fields, created_at) VALUES ($1, $2, $3, $4, $5, $6::date, $7, $8, $9, $10, $11)`,
		rec.ID, rec.UserID, rec.Name, rec.Category, rec.Severity, rec.Date, rec.Time, rec.Notes, rec.FoodAction, rec.CustomFields.Strings(), rec.CreatedAt)
	if err != nil {
		p.logger.Errorf("failed to insert symptom: %v", err)
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return err
	}
	return nil
}

func (p *PostgresStorage) GetSymptom(ctx context.Context, userID, id string) (*internal.SymptomRecord, error) {
	row := p.pool.QueryRow(ctx, `SELECT `+symptomColumns+` FROM symptoms WHERE id = $1 AND user_id = $2`, id, userID)
	r, err := scanSymptom(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		p.logger.Errorf("failed to load symptom: %v", err)
		return nil, err
	}
	return r, nil
}

func (p *PostgresStorage) UpdateSymptom(ctx context.Context, userID, id string, patch *internal.SymptomPatch) (*internal.SymptomRecord, error) {
	var custom any
	if len(patch.CustomFields) > 0 {
		custom = patch.CustomFields.Strings()
	}
	row := p.pool.QueryRow(ctx, `UPDATE symptoms SET
		name = COALESCE($3, name),
		category = COALESCE($4, category),
		severity = COALESCE($5, severity),
		date = COALESCE($6::date, date),
		time = COALESCE($7, time),
		notes = COALESCE($8, notes),
		food_action = COALESCE($9, food_action),
		custom_fields = custom_fields || COALESCE($10::jsonb, '{}'::jsonb)
		WHERE id = $1 AND user_id = $2
		RETURNING `+symptomColumns,
		id, userID, patch.Name, patch.Category, patch.Severity, patch.Date, patch.Time, patch.Notes, patch.FoodAction, custom)
	r, err := scanSymptom(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		p.logger.Errorf("failed to update symptom: %v", err)
		return nil, err
	}
	return r, nil
}

func (p *PostgresStorage) DeleteSymptom(ctx context.Context, userID, id string) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM symptoms WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		p.logger.Errorf("failed to delete symptom: %v", err)
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *PostgresStorage) ListSymptoms(ctx context.Context, userID string, rng DateRange) ([]internal.SymptomRecord, error) {
	query := `SELECT ` + symptomColumns + ` FROM symptoms WHERE user_id = $1`
	args := []any{userID}
	if rng.From != "" {
		args = append(args, rng.From)
		query += fmt.Sprintf(" AND date >= $%d::date", len(args))
	}
	if rng.To != "" {
		args = append(args, rng.To)
		query += fmt.Sprintf(" AND date <= $%d::date", len(args))
	}
	query += " ORDER BY date DESC, created_at DESC"

	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		p.logger.Errorf("failed to query symptoms: %v", err)
		return nil, err
	}
	defer rows.Close()

	recs := []internal.SymptomRecord{}
	for rows.Next() {
		r, err := scanSymptom(rows)
		if err != nil {
			p.logger.Errorf("failed to scan symptom: %v", err)
			return nil, err
		}
		recs = append(recs, *r)
	}
	return recs, rows.Err()
}

// --- CustomFieldRepository ---
func (p *PostgresStorage) CreateField(ctx context.Context, def *internal.CustomFieldDefinition) error {
	_, err := p.pool.Exec(ctx, `INSERT INTO custom_fields (id, user_id, name, display_name, type, created_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		def.ID, def.UserID, def.Name, def.DisplayName, string(def.Type), def.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		p.logger.Errorf("failed to insert custom field: %v", err)
		return err
	}
	return nil
}

func (p *PostgresStorage) ListFields(ctx context.Context, userID string) ([]internal.CustomFieldDefinition, error) {
	rows, err := p.pool.Query(ctx, `SELECT id, user_id, name, display_name, type, created_at FROM custom_fields WHERE user_id = $1 ORDER BY created_at, name`, userID)
	if err != nil {
		p.logger.Errorf("failed to query custom fields: %v", err)
		return nil, err
	}
	defer rows.Close()

	defs := []internal.CustomFieldDefinition{}
	for rows.Next() {
		var d internal.CustomFieldDefinition
		var typ string
		if err := rows.Scan(&d.ID, &d.UserID, &d.Name, &d.DisplayName, &typ, &d.CreatedAt); err != nil {
			p.logger.Errorf("failed to scan custom field: %v", err)
			return nil, err
		}
		d.Type = internal.FieldType(typ)
		defs = append(defs, d)
	}
	return defs, rows.Err()
}

func (p *PostgresStorage) DeleteField(ctx context.Context, userID, id string) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM custom_fields WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		p.logger.Errorf("failed to delete custom field: %v", err)
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Compile-time assertions ---
var _ SymptomRepository = (*PostgresStorage)(nil)
var _ CustomFieldRepository = (*PostgresStorage)(nil)
