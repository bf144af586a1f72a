package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/xavierca1/lead-outreach/internal/entity"
)

type SignatureRepository struct {
	DB *sql.DB
}

func NewSignatureRepository(db *sql.DB) *SignatureRepository {
	return &SignatureRepository{DB: db}
}

const signatureColumns = `id, user_id, name, content, created_at, updated_at`

func scanSignature(sc scanner) (*entity.Signature, error) {
	s := &entity.Signature{}
	if err := sc.Scan(&s.ID, &s.UserID, &s.Name, &s.Content, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *SignatureRepository) Create(ctx context.Context, s *entity.Signature) error {
	query := `INSERT INTO signatures (` + signatureColumns + `) VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.DB.ExecContext(ctx, query, s.ID, s.UserID, s.Name, s.Content, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create signature: %w", err)
	}
	return nil
}

func (r *SignatureRepository) FindByID(ctx context.Context, userID, id string) (*entity.Signature, error) {
	query := `SELECT ` + signatureColumns + ` FROM signatures WHERE id = $1 AND user_id = $2`
	s, err := scanSignature(r.DB.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		return nil, mapErr(err)
	}
	return s, nil
}

func (r *SignatureRepository) List(ctx context.Context, userID string) ([]*entity.Signature, error) {
	query := `SELECT ` + signatureColumns + ` FROM signatures WHERE user_id = $1 ORDER BY created_at ASC`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var out []*entity.Signature
	for rows.Next() {
		s, err := scanSignature(rows)
		if err != nil {
			return nil, fmt.Errorf("scan signature: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *SignatureRepository) Update(ctx context.Context, s *entity.Signature) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE signatures SET name = $3, content = $4, updated_at = $5 WHERE id = $1 AND user_id = $2`,
		s.ID, s.UserID, s.Name, s.Content, s.UpdatedAt,
	)
	if err != nil {
		return mapErr(err)
	}
	return affectedOrNotFound(res)
}

func (r *SignatureRepository) Delete(ctx context.Context, userID, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM signatures WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return mapErr(err)
	}
	return affectedOrNotFound(res)
}
