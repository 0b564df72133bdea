package postgres

import (
	"context"
	"database/sql"

	"kioskdesk/internal/database"
	"kioskdesk/internal/model"
	"kioskdesk/internal/repository"
)

// KioskPostgres is a PostgreSQL implementation of repository.KioskRepository.
type KioskPostgres struct {
	db *sql.DB
}

// NewKioskPostgres creates a new KioskPostgres repository.
func NewKioskPostgres(db *sql.DB) *KioskPostgres {
	return &KioskPostgres{db: db}
}

var _ repository.KioskRepository = (*KioskPostgres)(nil)

const kioskColumns = `id, workspace_id, serial_number, name, location, status, notes, created_at, updated_at`

const insertKiosk = `
	INSERT INTO kiosks (id, workspace_id, serial_number, name, location, status, notes, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
`

func scanKiosk(row scanner) (*model.Kiosk, error) {
	var k model.Kiosk
	if err := row.Scan(
		&k.ID,
		&k.WorkspaceID,
		&k.SerialNumber,
		&k.Name,
		&k.Location,
		&k.Status,
		&k.Notes,
		&k.CreatedAt,
		&k.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &k, nil
}

func kioskArgs(k *model.Kiosk) []any {
	return []any{k.ID, k.WorkspaceID, k.SerialNumber, k.Name, k.Location, string(k.Status), k.Notes, k.CreatedAt, k.UpdatedAt}
}

// Create inserts a kiosk. A serial number already used in the workspace yields repository.ErrDuplicate.
func (r *KioskPostgres) Create(ctx context.Context, k *model.Kiosk) (*model.Kiosk, error) {
	out, err := scanKiosk(r.db.QueryRowContext(ctx, insertKiosk+` RETURNING `+kioskColumns, kioskArgs(k)...))
	if err != nil {
		return nil, mapError(err)
	}
	return out, nil
}

func (r *KioskPostgres) BulkCreate(ctx context.Context, ks []model.Kiosk) error {
	err := database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, insertKiosk)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for i := range ks {
			if _, err := stmt.ExecContext(ctx, kioskArgs(&ks[i])...); err != nil {
				return err
			}
		}
		return nil
	})
	return mapError(err)
}

func (r *KioskPostgres) FindByID(ctx context.Context, workspaceID, id string) (*model.Kiosk, error) {
	const q = `SELECT ` + kioskColumns + ` FROM kiosks WHERE workspace_id = $1 AND id = $2`
	return scanKiosk(r.db.QueryRowContext(ctx, q, workspaceID, id))
}

// List returns kiosks ordered by name using LIMIT/OFFSET pagination and a total count.
func (r *KioskPostgres) List(ctx context.Context, workspaceID string, f repository.KioskFilter, pq repository.PageQuery) (*repository.PageResult[model.Kiosk], error) {
	var w whereBuilder
	w.add("workspace_id = ?", workspaceID)
	if f.Status != "" {
		w.add("status = ?", string(f.Status))
	}
	if f.Search != "" {
		w.add("(name ILIKE ? OR serial_number ILIKE ? OR location ILIKE ?)", containsPattern(f.Search))
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM kiosks WHERE `+w.String(), w.args...).Scan(&total); err != nil {
		return nil, err
	}

	q := `SELECT ` + kioskColumns + ` FROM kiosks WHERE ` + w.String() +
		` ORDER BY name, id LIMIT ` + w.next(1) + ` OFFSET ` + w.next(2)
	rows, err := r.db.QueryContext(ctx, q, append(w.args, pq.Limit, pq.Offset)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items, err := collectKiosks(rows)
	if err != nil {
		return nil, err
	}
	return &repository.PageResult[model.Kiosk]{Items: items, Total: total}, nil
}

func (r *KioskPostgres) ListAll(ctx context.Context, workspaceID string) ([]model.Kiosk, error) {
	const q = `SELECT ` + kioskColumns + ` FROM kiosks WHERE workspace_id = $1 ORDER BY serial_number`
	rows, err := r.db.QueryContext(ctx, q, workspaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectKiosks(rows)
}

func collectKiosks(rows *sql.Rows) ([]model.Kiosk, error) {
	items := make([]model.Kiosk, 0)
	for rows.Next() {
		k, err := scanKiosk(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *k)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *KioskPostgres) Update(ctx context.Context, k *model.Kiosk) (*model.Kiosk, error) {
	const q = `
		UPDATE kiosks
		SET serial_number = $3, name = $4, location = $5, status = $6, notes = $7, updated_at = $8
		WHERE workspace_id = $1 AND id = $2
		RETURNING ` + kioskColumns
	out, err := scanKiosk(r.db.QueryRowContext(ctx, q,
		k.WorkspaceID, k.ID, k.SerialNumber, k.Name, k.Location, string(k.Status), k.Notes, k.UpdatedAt,
	))
	if err != nil {
		return nil, mapError(err)
	}
	return out, nil
}

// Delete removes a kiosk. A kiosk that still has tickets yields repository.ErrReferenced.
func (r *KioskPostgres) Delete(ctx context.Context, workspaceID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM kiosks WHERE workspace_id = $1 AND id = $2`, workspaceID, id)
	if err != nil {
		return mapError(err)
	}
	return expectAffected(res)
}
