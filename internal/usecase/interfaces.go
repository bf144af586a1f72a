package usecase

import (
	"context"
	"time"

	"github.com/xavierca1/lead-outreach/internal/entity"
	"github.com/xavierca1/lead-outreach/internal/infra/integration/n8n"
	"github.com/xavierca1/lead-outreach/internal/infra/spreadsheet"
)

// Every repository method that takes a userID must scope its query by it;
// a record owned by someone else is reported as entity.ErrNotFound.

type SheetRepository interface {
	Create(ctx context.Context, s *entity.LeadSheet) error
	FindByID(ctx context.Context, userID, id string) (*entity.LeadSheet, error)
	List(ctx context.Context, userID string) ([]*entity.LeadSheet, error)
	Update(ctx context.Context, s *entity.LeadSheet) error
	Delete(ctx context.Context, userID, id string) error
}

type RowRepository interface {
	// AppendRows assigns rowIndex max+1.. to rows, in slice order, and
	// inserts them. Assignment and insert are serialised per sheet.
	AppendRows(ctx context.Context, sheetID string, rows []*entity.LeadRow) error
	List(ctx context.Context, userID, sheetID string, q RowQuery) ([]*entity.LeadRow, int, error)
	FindByID(ctx context.Context, userID, sheetID, rowID string) (*entity.LeadRow, error)
	FindByIDs(ctx context.Context, userID, sheetID string, ids []string) ([]*entity.LeadRow, error)
	FirstN(ctx context.Context, userID, sheetID string, n int) ([]*entity.LeadRow, error)
	Update(ctx context.Context, r *entity.LeadRow) error
	Delete(ctx context.Context, userID, sheetID string, ids []string) (int, error)
	DeleteBySheet(ctx context.Context, userID, sheetID string) (int, error)
	Reindex(ctx context.Context, userID, sheetID string) (int, error)
	SetEmailStatus(ctx context.Context, rowIDs []string, status entity.RowStatus) error
	// ReplaceEmailStatus only touches rows whose status is still from.
	ReplaceEmailStatus(ctx context.Context, rowIDs []string, from, to entity.RowStatus) error
}

type RunRepository interface {
	Create(ctx context.Context, r *entity.ActionRun) error
	FindByID(ctx context.Context, userID, sheetID, id string) (*entity.ActionRun, error)
	FindByToken(ctx context.Context, token string) (*entity.ActionRun, error)
	// SetState applies the move only when entity.RunState.CanMoveTo allows it
	// from the stored state, and returns the state stored afterwards.
	SetState(ctx context.Context, id string, state entity.RunState, dispatchErr *string) (entity.RunState, error)
	// MergeStatus sets statuses[rowID] only if the key already exists and
	// returns the updated run.
	MergeStatus(ctx context.Context, id, rowID string, status entity.RunRowStatus) (*entity.ActionRun, error)
	ExpireCreated(ctx context.Context, olderThan time.Duration) ([]string, error)
}

type SignatureRepository interface {
	Create(ctx context.Context, s *entity.Signature) error
	FindByID(ctx context.Context, userID, id string) (*entity.Signature, error)
	List(ctx context.Context, userID string) ([]*entity.Signature, error)
	Update(ctx context.Context, s *entity.Signature) error
	Delete(ctx context.Context, userID, id string) error
}

type SpreadsheetParser interface {
	Parse(file []byte, fileName string) (*spreadsheet.Result, error)
}

// Dispatcher hands a job to the workflow engine.
type Dispatcher interface {
	Dispatch(ctx context.Context, job n8n.JobPayload) error
}

type AlertService interface {
	SendDispatchFailed(run *entity.ActionRun, sheetName, reason string) error
}

type TokenGenerator func() (string, error)
