package handlers

import (
	"context"

	"github.com/xavierca1/lead-outreach/internal/entity"
	"github.com/xavierca1/lead-outreach/internal/usecase"
)

type LeadImporter interface {
	ParseHeaders(file []byte, fileName string) ([]string, error)
	Execute(ctx context.Context, input usecase.ImportInput) (*usecase.ImportOutput, error)
}

type SheetManager interface {
	List(ctx context.Context, userID string) ([]*entity.LeadSheet, error)
	Get(ctx context.Context, userID, id string) (*entity.LeadSheet, error)
	Create(ctx context.Context, userID string, in usecase.SheetInput) (*entity.LeadSheet, error)
	Update(ctx context.Context, userID, id string, in usecase.SheetPatch) (*entity.LeadSheet, error)
	Delete(ctx context.Context, userID, id string) error
}

type RowManager interface {
	List(ctx context.Context, userID, sheetID string, q usecase.RowQuery) (*usecase.RowsPage, error)
	Add(ctx context.Context, userID, sheetID string, inputs []usecase.NewRowInput) ([]*entity.LeadRow, error)
	Update(ctx context.Context, userID, sheetID, rowID string, in usecase.UpdateRowInput) (*entity.LeadRow, error)
	Delete(ctx context.Context, userID, sheetID string, ids []string) (int, error)
	Reindex(ctx context.Context, userID, sheetID string) (int, error)
}

type ActionRunner interface {
	Execute(ctx context.Context, userID, sheetID string, in usecase.RunActionInput) (*usecase.RunActionOutput, error)
	Get(ctx context.Context, userID, sheetID, runID string) (*entity.ActionRun, error)
}

type CallbackProcessor interface {
	Execute(ctx context.Context, in usecase.CallbackInput) error
}

type SignatureManager interface {
	List(ctx context.Context, userID string) ([]*entity.Signature, error)
	Create(ctx context.Context, userID string, in usecase.SignatureInput) (*entity.Signature, error)
	Update(ctx context.Context, userID, id string, in usecase.SignaturePatch) (*entity.Signature, error)
	Delete(ctx context.Context, userID, id string) error
}
