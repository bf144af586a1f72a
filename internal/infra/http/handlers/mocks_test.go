package handlers

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/xavierca1/lead-outreach/internal/entity"
	"github.com/xavierca1/lead-outreach/internal/usecase"
)

type mockImporter struct{ mock.Mock }

func (m *mockImporter) ParseHeaders(file []byte, fileName string) ([]string, error) {
	args := m.Called(file, fileName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *mockImporter) Execute(ctx context.Context, in usecase.ImportInput) (*usecase.ImportOutput, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.ImportOutput), args.Error(1)
}

type mockRows struct{ mock.Mock }

func (m *mockRows) List(ctx context.Context, userID, sheetID string, q usecase.RowQuery) (*usecase.RowsPage, error) {
	args := m.Called(ctx, userID, sheetID, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.RowsPage), args.Error(1)
}

func (m *mockRows) Add(ctx context.Context, userID, sheetID string, in []usecase.NewRowInput) ([]*entity.LeadRow, error) {
	args := m.Called(ctx, userID, sheetID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.LeadRow), args.Error(1)
}

func (m *mockRows) Update(ctx context.Context, userID, sheetID, rowID string, in usecase.UpdateRowInput) (*entity.LeadRow, error) {
	args := m.Called(ctx, userID, sheetID, rowID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.LeadRow), args.Error(1)
}

func (m *mockRows) Delete(ctx context.Context, userID, sheetID string, ids []string) (int, error) {
	args := m.Called(ctx, userID, sheetID, ids)
	return args.Int(0), args.Error(1)
}

func (m *mockRows) Reindex(ctx context.Context, userID, sheetID string) (int, error) {
	args := m.Called(ctx, userID, sheetID)
	return args.Int(0), args.Error(1)
}

type mockRunner struct{ mock.Mock }

func (m *mockRunner) Execute(ctx context.Context, userID, sheetID string, in usecase.RunActionInput) (*usecase.RunActionOutput, error) {
	args := m.Called(ctx, userID, sheetID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.RunActionOutput), args.Error(1)
}

func (m *mockRunner) Get(ctx context.Context, userID, sheetID, runID string) (*entity.ActionRun, error) {
	args := m.Called(ctx, userID, sheetID, runID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ActionRun), args.Error(1)
}

type mockCallbacks struct{ mock.Mock }

func (m *mockCallbacks) Execute(ctx context.Context, in usecase.CallbackInput) error {
	return m.Called(ctx, in).Error(0)
}

type fakePinger struct{ err error }

func (f fakePinger) PingContext(context.Context) error { return f.err }

type fakeBroker bool

func (f fakeBroker) Healthy() bool { return bool(f) }
