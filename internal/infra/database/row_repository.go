package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/xavierca1/lead-outreach/internal/entity"
	"github.com/xavierca1/lead-outreach/internal/usecase"
)

type RowRepository struct {
	DB *sql.DB
}

func NewRowRepository(db *sql.DB) *RowRepository {
	return &RowRepository{DB: db}
}

const rowColumns = `id, sheet_id, user_id, sheet_name, row_index, business_email, website_url, email_status, has_replied, created_at, updated_at`

// sortColumns whitelists the sortable API fields.
var sortColumns = map[string]string{
	"rowIndex":      "row_index",
	"businessEmail": "business_email",
	"websiteUrl":    "website_url",
	"emailStatus":   "email_status",
	"createdAt":     "created_at",
}

func scanRow(sc scanner) (*entity.LeadRow, error) {
	r := &entity.LeadRow{}
	err := sc.Scan(
		&r.ID, &r.SheetID, &r.UserID, &r.SheetName, &r.RowIndex,
		&r.BusinessEmail, &r.WebsiteURL, &r.EmailStatus, &r.HasReplied,
		&r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func collectRows(rows *sql.Rows) ([]*entity.LeadRow, error) {
	defer rows.Close()
	var out []*entity.LeadRow
	for rows.Next() {
		r, err := scanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lead row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// AppendRows numbers rows from the sheet's current max row_index + 1 and
// inserts them in one statement, under the sheet lock.
func (r *RowRepository) AppendRows(ctx context.Context, sheetID string, rows []*entity.LeadRow) error {
	if len(rows) == 0 {
		return nil
	}

	return withSheetLock(ctx, r.DB, sheetID, func(tx *sql.Tx) error {
		var next int
		err := tx.QueryRowContext(ctx,
			`SELECT COALESCE(MAX(row_index), -1) + 1 FROM lead_rows WHERE sheet_id = $1`, sheetID,
		).Scan(&next)
		if err != nil {
			return fmt.Errorf("read max row index: %w", err)
		}

		const cols = 11
		values := make([]string, 0, len(rows))
		args := make([]any, 0, len(rows)*cols)
		for i, row := range rows {
			row.SheetID = sheetID
			row.RowIndex = next + i

			ph := make([]string, cols)
			for j := range ph {
				ph[j] = fmt.Sprintf("$%d", i*cols+j+1)
			}
			values = append(values, "("+strings.Join(ph, ", ")+")")
			args = append(args,
				row.ID, row.SheetID, row.UserID, row.SheetName, row.RowIndex,
				row.BusinessEmail, row.WebsiteURL, row.EmailStatus, row.HasReplied,
				row.CreatedAt, row.UpdatedAt,
			)
		}

		query := `INSERT INTO lead_rows (` + rowColumns + `) VALUES ` + strings.Join(values, ", ")
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert %d lead rows: %w", len(rows), err)
		}
		return nil
	})
}

func (r *RowRepository) List(ctx context.Context, userID, sheetID string, q usecase.RowQuery) ([]*entity.LeadRow, int, error) {
	where := []string{"sheet_id = $1", "user_id = $2"}
	args := []any{sheetID, userID}

	if q.Search != "" {
		args = append(args, likePattern(q.Search))
		n := len(args)
		where = append(where, fmt.Sprintf("(business_email ILIKE $%d OR website_url ILIKE $%d)", n, n))
	}
	if q.HasEmail != nil {
		where = append(where, nullCheck("business_email", *q.HasEmail))
	}
	if q.HasURL != nil {
		where = append(where, nullCheck("website_url", *q.HasURL))
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT count(*) FROM lead_rows WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, mapErr(err)
	}

	col, ok := sortColumns[q.SortBy]
	if !ok {
		col = "row_index"
	}
	dir := "ASC"
	if strings.EqualFold(q.SortOrder, "desc") {
		dir = "DESC"
	}

	pageSize := max(q.PageSize, 1)
	offset := (max(q.Page, 1) - 1) * pageSize
	args = append(args, pageSize, offset)

	query := fmt.Sprintf(`SELECT %s FROM lead_rows WHERE %s ORDER BY %s %s NULLS LAST, id ASC LIMIT $%d OFFSET $%d`,
		rowColumns, cond, col, dir, len(args)-1, len(args))

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, mapErr(err)
	}
	out, err := collectRows(rows)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func nullCheck(col string, present bool) string {
	if present {
		return col + " IS NOT NULL"
	}
	return col + " IS NULL"
}

func (r *RowRepository) FindByID(ctx context.Context, userID, sheetID, rowID string) (*entity.LeadRow, error) {
	query := `SELECT ` + rowColumns + ` FROM lead_rows WHERE id = $1 AND sheet_id = $2 AND user_id = $3`
	row, err := scanRow(r.DB.QueryRowContext(ctx, query, rowID, sheetID, userID))
	if err != nil {
		return nil, mapErr(err)
	}
	return row, nil
}

// FindByIDs returns the rows of ids that belong to the sheet. Unknown or
// malformed ids are simply absent from the result.
func (r *RowRepository) FindByIDs(ctx context.Context, userID, sheetID string, ids []string) ([]*entity.LeadRow, error) {
	query := `SELECT ` + rowColumns + ` FROM lead_rows
		WHERE sheet_id = $1 AND user_id = $2 AND id::text = ANY($3)
		ORDER BY row_index ASC`
	rows, err := r.DB.QueryContext(ctx, query, sheetID, userID, pq.Array(ids))
	if err != nil {
		return nil, mapErr(err)
	}
	return collectRows(rows)
}

func (r *RowRepository) FirstN(ctx context.Context, userID, sheetID string, n int) ([]*entity.LeadRow, error) {
	query := `SELECT ` + rowColumns + ` FROM lead_rows
		WHERE sheet_id = $1 AND user_id = $2
		ORDER BY row_index ASC, id ASC
		LIMIT $3`
	rows, err := r.DB.QueryContext(ctx, query, sheetID, userID, n)
	if err != nil {
		return nil, mapErr(err)
	}
	return collectRows(rows)
}

func (r *RowRepository) Update(ctx context.Context, row *entity.LeadRow) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE lead_rows SET business_email = $3, website_url = $4, updated_at = $5 WHERE id = $1 AND user_id = $2`,
		row.ID, row.UserID, row.BusinessEmail, row.WebsiteURL, row.UpdatedAt,
	)
	if err != nil {
		return mapErr(err)
	}
	return affectedOrNotFound(res)
}

func (r *RowRepository) Delete(ctx context.Context, userID, sheetID string, ids []string) (int, error) {
	res, err := r.DB.ExecContext(ctx,
		`DELETE FROM lead_rows WHERE sheet_id = $1 AND user_id = $2 AND id::text = ANY($3)`,
		sheetID, userID, pq.Array(ids),
	)
	if err != nil {
		return 0, mapErr(err)
	}
	n, err := res.RowsAffected()
	return int(n), err
}

func (r *RowRepository) DeleteBySheet(ctx context.Context, userID, sheetID string) (int, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM lead_rows WHERE sheet_id = $1 AND user_id = $2`, sheetID, userID)
	if err != nil {
		return 0, mapErr(err)
	}
	n, err := res.RowsAffected()
	return int(n), err
}

// Reindex renumbers the sheet to 0..N-1 in current row_index order and
// returns how many rows moved. All moves are applied in one statement.
func (r *RowRepository) Reindex(ctx context.Context, userID, sheetID string) (int, error) {
	var changed int
	err := withSheetLock(ctx, r.DB, sheetID, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx,
			`SELECT id, row_index FROM lead_rows WHERE sheet_id = $1 AND user_id = $2 ORDER BY row_index ASC, created_at ASC, id ASC`,
			sheetID, userID,
		)
		if err != nil {
			return mapErr(err)
		}

		var current []entity.RowPosition
		for rows.Next() {
			var p entity.RowPosition
			if err := rows.Scan(&p.ID, &p.RowIndex); err != nil {
				rows.Close()
				return fmt.Errorf("scan row position: %w", err)
			}
			current = append(current, p)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}

		plan := entity.ReindexPlan(current)
		if len(plan) == 0 {
			return nil
		}

		ids := make([]string, len(plan))
		idx := make([]int64, len(plan))
		for i, p := range plan {
			ids[i] = p.ID
			idx[i] = int64(p.RowIndex)
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE lead_rows AS r
			SET row_index = c.idx, updated_at = now()
			FROM unnest($1::uuid[], $2::int[]) AS c(id, idx)
			WHERE r.id = c.id`,
			pq.Array(ids), pq.Array(idx),
		)
		if err != nil {
			return fmt.Errorf("apply reindex: %w", err)
		}
		changed = len(plan)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return changed, nil
}

func (r *RowRepository) SetEmailStatus(ctx context.Context, rowIDs []string, status entity.RowStatus) error {
	if len(rowIDs) == 0 {
		return nil
	}
	_, err := r.DB.ExecContext(ctx,
		`UPDATE lead_rows SET email_status = $1, updated_at = now() WHERE id::text = ANY($2)`,
		string(status), pq.Array(rowIDs),
	)
	if err != nil {
		return fmt.Errorf("set email status: %w", err)
	}
	return nil
}

// ReplaceEmailStatus sets status to `to` on the rows that still hold `from`.
func (r *RowRepository) ReplaceEmailStatus(ctx context.Context, rowIDs []string, from, to entity.RowStatus) error {
	if len(rowIDs) == 0 {
		return nil
	}
	_, err := r.DB.ExecContext(ctx,
		`UPDATE lead_rows SET email_status = $1, updated_at = now() WHERE id::text = ANY($2) AND email_status = $3`,
		string(to), pq.Array(rowIDs), string(from),
	)
	if err != nil {
		return fmt.Errorf("replace email status: %w", err)
	}
	return nil
}
