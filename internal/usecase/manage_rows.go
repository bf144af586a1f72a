package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/xavierca1/lead-outreach/internal/entity"
)

const (
	DefaultPageSize  = 50
	MaxRowsPerAdd    = 1000
	MaxRowsPerDelete = 1000
)

type ManageRowsUseCase struct {
	Sheets SheetRepository
	Rows   RowRepository
}

func NewManageRowsUseCase(sheets SheetRepository, rows RowRepository) *ManageRowsUseCase {
	return &ManageRowsUseCase{Sheets: sheets, Rows: rows}
}

func (uc *ManageRowsUseCase) List(ctx context.Context, userID, sheetID string, q RowQuery) (*RowsPage, error) {
	if q.Page == 0 {
		q.Page = 1
	}
	if q.PageSize == 0 {
		q.PageSize = DefaultPageSize
	}
	if q.SortBy == "" {
		q.SortBy = "rowIndex"
	}
	if q.SortOrder == "" {
		q.SortOrder = "asc"
	}
	q.Search = strings.TrimSpace(q.Search)
	if err := check(q); err != nil {
		return nil, err
	}

	if _, err := uc.Sheets.FindByID(ctx, userID, sheetID); err != nil {
		return nil, storageError("lead file", err)
	}

	rows, total, err := uc.Rows.List(ctx, userID, sheetID, q)
	if err != nil {
		return nil, storageError("rows", err)
	}
	if rows == nil {
		rows = []*entity.LeadRow{}
	}
	return &RowsPage{Rows: rows, Total: total}, nil
}

// Add appends manually entered rows after the current last row. No
// eligibility filtering is applied; a row needs an email or a website.
func (uc *ManageRowsUseCase) Add(ctx context.Context, userID, sheetID string, inputs []NewRowInput) ([]*entity.LeadRow, error) {
	if len(inputs) == 0 {
		return nil, validationError("at least one row is required")
	}
	if len(inputs) > MaxRowsPerAdd {
		return nil, validationError("too many rows in one request")
	}

	sheet, err := uc.Sheets.FindByID(ctx, userID, sheetID)
	if err != nil {
		return nil, storageError("lead file", err)
	}

	rows := make([]*entity.LeadRow, 0, len(inputs))
	for _, in := range inputs {
		if err := check(in); err != nil {
			return nil, err
		}
		email, site := clean(in.BusinessEmail), clean(in.WebsiteURL)
		if email == nil && site == nil {
			return nil, validationError("businessEmail or websiteUrl is required")
		}
		rows = append(rows, entity.NewLeadRow(sheet, email, site))
	}

	for start := 0; start < len(rows); start += InsertChunkSize {
		end := min(start+InsertChunkSize, len(rows))
		if err := uc.Rows.AppendRows(ctx, sheet.ID, rows[start:end]); err != nil {
			return nil, storageError("rows", err)
		}
	}
	return rows, nil
}

// Update edits the email and/or website of a row. An empty string clears
// the field.
func (uc *ManageRowsUseCase) Update(ctx context.Context, userID, sheetID, rowID string, in UpdateRowInput) (*entity.LeadRow, error) {
	if err := check(in); err != nil {
		return nil, err
	}
	if in.BusinessEmail == nil && in.WebsiteURL == nil {
		return nil, validationError("nothing to update")
	}

	row, err := uc.Rows.FindByID(ctx, userID, sheetID, rowID)
	if err != nil {
		return nil, storageError("row", err)
	}
	if in.BusinessEmail != nil {
		row.BusinessEmail = clean(in.BusinessEmail)
	}
	if in.WebsiteURL != nil {
		row.WebsiteURL = clean(in.WebsiteURL)
	}
	row.UpdatedAt = time.Now().UTC()

	if err := uc.Rows.Update(ctx, row); err != nil {
		return nil, storageError("row", err)
	}
	return row, nil
}

func (uc *ManageRowsUseCase) Delete(ctx context.Context, userID, sheetID string, ids []string) (int, error) {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return 0, validationError("ids is required")
	}
	if len(ids) > MaxRowsPerDelete {
		return 0, validationError("too many ids in one request")
	}
	if _, err := uc.Sheets.FindByID(ctx, userID, sheetID); err != nil {
		return 0, storageError("lead file", err)
	}

	n, err := uc.Rows.Delete(ctx, userID, sheetID, ids)
	if err != nil {
		return 0, storageError("rows", err)
	}
	return n, nil
}

// Reindex renumbers the sheet's rows to 0..N-1 keeping their order.
func (uc *ManageRowsUseCase) Reindex(ctx context.Context, userID, sheetID string) (int, error) {
	if _, err := uc.Sheets.FindByID(ctx, userID, sheetID); err != nil {
		return 0, storageError("lead file", err)
	}

	n, err := uc.Rows.Reindex(ctx, userID, sheetID)
	if err != nil {
		return 0, storageError("rows", err)
	}

	logrus.WithFields(logrus.Fields{"sheet_id": sheetID, "updated": n}).Info("rows reindexed")
	return n, nil
}

func clean(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// uniqueIDs drops blanks and duplicates, keeping first-seen order.
func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
