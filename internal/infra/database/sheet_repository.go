package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/xavierca1/lead-outreach/internal/entity"
)

type SheetRepository struct {
	DB *sql.DB
}

func NewSheetRepository(db *sql.DB) *SheetRepository {
	return &SheetRepository{DB: db}
}

const sheetSelect = `
	SELECT s.id, s.user_id, s.sheet_name, s.file_ext, s.signature_id, s.uploaded_at,
	       (SELECT count(*) FROM lead_rows r WHERE r.sheet_id = s.id)
	FROM lead_sheets s`

func scanSheet(sc scanner) (*entity.LeadSheet, error) {
	s := &entity.LeadSheet{}
	err := sc.Scan(&s.ID, &s.UserID, &s.SheetName, &s.FileExt, &s.SignatureID, &s.UploadedAt, &s.RowCount)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *SheetRepository) Create(ctx context.Context, s *entity.LeadSheet) error {
	query := `
		INSERT INTO lead_sheets (id, user_id, sheet_name, file_ext, signature_id, uploaded_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.DB.ExecContext(ctx, query, s.ID, s.UserID, s.SheetName, s.FileExt, s.SignatureID, s.UploadedAt)
	if err != nil {
		return fmt.Errorf("create lead sheet: %w", err)
	}
	return nil
}

func (r *SheetRepository) FindByID(ctx context.Context, userID, id string) (*entity.LeadSheet, error) {
	row := r.DB.QueryRowContext(ctx, sheetSelect+` WHERE s.id = $1 AND s.user_id = $2`, id, userID)
	s, err := scanSheet(row)
	if err != nil {
		return nil, mapErr(err)
	}
	return s, nil
}

func (r *SheetRepository) List(ctx context.Context, userID string) ([]*entity.LeadSheet, error) {
	rows, err := r.DB.QueryContext(ctx, sheetSelect+` WHERE s.user_id = $1 ORDER BY s.uploaded_at DESC`, userID)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var out []*entity.LeadSheet
	for rows.Next() {
		s, err := scanSheet(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lead sheet: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Update saves name and signature. Rows carry a copy of the sheet name, so a
// rename is propagated to them in the same transaction.
func (r *SheetRepository) Update(ctx context.Context, s *entity.LeadSheet) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE lead_sheets SET sheet_name = $3, signature_id = $4 WHERE id = $1 AND user_id = $2`,
		s.ID, s.UserID, s.SheetName, s.SignatureID,
	)
	if err != nil {
		return mapErr(err)
	}
	if err := affectedOrNotFound(res); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE lead_rows SET sheet_name = $2 WHERE sheet_id = $1 AND sheet_name <> $2`,
		s.ID, s.SheetName,
	); err != nil {
		return fmt.Errorf("propagate sheet name: %w", err)
	}
	return tx.Commit()
}

func (r *SheetRepository) Delete(ctx context.Context, userID, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM lead_sheets WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return mapErr(err)
	}
	return affectedOrNotFound(res)
}
