package usecase

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/xavierca1/lead-outreach/internal/entity"
	"github.com/xavierca1/lead-outreach/internal/infra/integration/n8n"
	"github.com/xavierca1/lead-outreach/internal/infra/spreadsheet"
)

type MockSheetRepository struct {
	mock.Mock
}

func (m *MockSheetRepository) Create(ctx context.Context, s *entity.LeadSheet) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockSheetRepository) FindByID(ctx context.Context, userID, id string) (*entity.LeadSheet, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.LeadSheet), args.Error(1)
}

func (m *MockSheetRepository) List(ctx context.Context, userID string) ([]*entity.LeadSheet, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.LeadSheet), args.Error(1)
}

func (m *MockSheetRepository) Update(ctx context.Context, s *entity.LeadSheet) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockSheetRepository) Delete(ctx context.Context, userID, id string) error {
	return m.Called(ctx, userID, id).Error(0)
}

type MockRowRepository struct {
	mock.Mock
}

func (m *MockRowRepository) AppendRows(ctx context.Context, sheetID string, rows []*entity.LeadRow) error {
	return m.Called(ctx, sheetID, rows).Error(0)
}

func (m *MockRowRepository) List(ctx context.Context, userID, sheetID string, q RowQuery) ([]*entity.LeadRow, int, error) {
	args := m.Called(ctx, userID, sheetID, q)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*entity.LeadRow), args.Int(1), args.Error(2)
}

func (m *MockRowRepository) FindByID(ctx context.Context, userID, sheetID, rowID string) (*entity.LeadRow, error) {
	args := m.Called(ctx, userID, sheetID, rowID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.LeadRow), args.Error(1)
}

func (m *MockRowRepository) FindByIDs(ctx context.Context, userID, sheetID string, ids []string) ([]*entity.LeadRow, error) {
	args := m.Called(ctx, userID, sheetID, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.LeadRow), args.Error(1)
}

func (m *MockRowRepository) FirstN(ctx context.Context, userID, sheetID string, n int) ([]*entity.LeadRow, error) {
	args := m.Called(ctx, userID, sheetID, n)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.LeadRow), args.Error(1)
}

func (m *MockRowRepository) Update(ctx context.Context, r *entity.LeadRow) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockRowRepository) Delete(ctx context.Context, userID, sheetID string, ids []string) (int, error) {
	args := m.Called(ctx, userID, sheetID, ids)
	return args.Int(0), args.Error(1)
}

func (m *MockRowRepository) DeleteBySheet(ctx context.Context, userID, sheetID string) (int, error) {
	args := m.Called(ctx, userID, sheetID)
	return args.Int(0), args.Error(1)
}

func (m *MockRowRepository) Reindex(ctx context.Context, userID, sheetID string) (int, error) {
	args := m.Called(ctx, userID, sheetID)
	return args.Int(0), args.Error(1)
}

func (m *MockRowRepository) SetEmailStatus(ctx context.Context, rowIDs []string, status entity.RowStatus) error {
	return m.Called(ctx, rowIDs, status).Error(0)
}

func (m *MockRowRepository) ReplaceEmailStatus(ctx context.Context, rowIDs []string, from, to entity.RowStatus) error {
	return m.Called(ctx, rowIDs, from, to).Error(0)
}

type MockRunRepository struct {
	mock.Mock
}

func (m *MockRunRepository) Create(ctx context.Context, r *entity.ActionRun) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockRunRepository) FindByID(ctx context.Context, userID, sheetID, id string) (*entity.ActionRun, error) {
	args := m.Called(ctx, userID, sheetID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ActionRun), args.Error(1)
}

func (m *MockRunRepository) FindByToken(ctx context.Context, token string) (*entity.ActionRun, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ActionRun), args.Error(1)
}

func (m *MockRunRepository) SetState(ctx context.Context, id string, state entity.RunState, dispatchErr *string) (entity.RunState, error) {
	args := m.Called(ctx, id, state, dispatchErr)
	return args.Get(0).(entity.RunState), args.Error(1)
}

func (m *MockRunRepository) MergeStatus(ctx context.Context, id, rowID string, status entity.RunRowStatus) (*entity.ActionRun, error) {
	args := m.Called(ctx, id, rowID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ActionRun), args.Error(1)
}

func (m *MockRunRepository) ExpireCreated(ctx context.Context, olderThan time.Duration) ([]string, error) {
	args := m.Called(ctx, olderThan)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type MockSignatureRepository struct {
	mock.Mock
}

func (m *MockSignatureRepository) Create(ctx context.Context, s *entity.Signature) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockSignatureRepository) FindByID(ctx context.Context, userID, id string) (*entity.Signature, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Signature), args.Error(1)
}

func (m *MockSignatureRepository) List(ctx context.Context, userID string) ([]*entity.Signature, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Signature), args.Error(1)
}

func (m *MockSignatureRepository) Update(ctx context.Context, s *entity.Signature) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockSignatureRepository) Delete(ctx context.Context, userID, id string) error {
	return m.Called(ctx, userID, id).Error(0)
}

type MockParser struct {
	mock.Mock
}

func (m *MockParser) Parse(file []byte, fileName string) (*spreadsheet.Result, error) {
	args := m.Called(file, fileName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*spreadsheet.Result), args.Error(1)
}

type MockDispatcher struct {
	mock.Mock
}

func (m *MockDispatcher) Dispatch(ctx context.Context, job n8n.JobPayload) error {
	return m.Called(ctx, job).Error(0)
}

type MockAlertService struct {
	mock.Mock
}

func (m *MockAlertService) SendDispatchFailed(run *entity.ActionRun, sheetName, reason string) error {
	return m.Called(run, sheetName, reason).Error(0)
}

func strPtr(s string) *string { return &s }
