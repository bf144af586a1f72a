package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/lead-outreach/internal/entity"
)

func callbackRun() *entity.ActionRun {
	run := entity.NewActionRun("sheet-1", "user-1", entity.ActionSendMail, []string{"r1", "r2"}, "tok")
	run.State = entity.RunStateDispatched
	return run
}

func withStatus(run *entity.ActionRun, rowID string, s entity.RunRowStatus) *entity.ActionRun {
	cp := *run
	cp.Statuses = make(map[string]entity.RunRowStatus, len(run.Statuses))
	for k, v := range run.Statuses {
		cp.Statuses[k] = v
	}
	cp.Statuses[rowID] = s
	return &cp
}

func TestCallbackUpdatesRunAndRow(t *testing.T) {
	ctx := context.Background()
	runs, rows := new(MockRunRepository), new(MockRowRepository)
	uc := NewHandleCallbackUseCase(runs, rows)
	run := callbackRun()

	runs.On("FindByToken", ctx, "tok").Return(run, nil)
	runs.On("MergeStatus", ctx, run.ID, "r1", entity.RunRowCompleted).Return(withStatus(run, "r1", entity.RunRowCompleted), nil)
	rows.On("SetEmailStatus", ctx, []string{"r1"}, entity.RowStatusCompleted).Return(nil)

	err := uc.Execute(ctx, CallbackInput{Token: "tok", RowID: "r1", Status: "completed"})

	require.NoError(t, err)
	runs.AssertExpectations(t)
	rows.AssertExpectations(t)
	runs.AssertNotCalled(t, "SetState", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCallbackCompletesRunWhenAllRowsAreTerminal(t *testing.T) {
	ctx := context.Background()
	runs, rows := new(MockRunRepository), new(MockRowRepository)
	uc := NewHandleCallbackUseCase(runs, rows)
	run := withStatus(callbackRun(), "r1", entity.RunRowCompleted)

	runs.On("FindByToken", ctx, "tok").Return(run, nil)
	runs.On("MergeStatus", ctx, run.ID, "r2", entity.RunRowFailed).Return(withStatus(run, "r2", entity.RunRowFailed), nil)
	runs.On("SetState", ctx, run.ID, entity.RunStateCompleted, (*string)(nil)).Return(entity.RunStateCompleted, nil)
	rows.On("SetEmailStatus", ctx, []string{"r2"}, entity.RowStatusFailed).Return(nil)

	err := uc.Execute(ctx, CallbackInput{Token: "tok", RowID: "r2", Status: "failed"})

	require.NoError(t, err)
	runs.AssertExpectations(t)
}

func TestCallbackIsIdempotent(t *testing.T) {
	ctx := context.Background()
	runs, rows := new(MockRunRepository), new(MockRowRepository)
	uc := NewHandleCallbackUseCase(runs, rows)
	run := callbackRun()
	after := withStatus(run, "r1", entity.RunRowCompleted)

	runs.On("FindByToken", ctx, "tok").Return(run, nil)
	runs.On("MergeStatus", ctx, run.ID, "r1", entity.RunRowCompleted).Return(after, nil)
	rows.On("SetEmailStatus", ctx, []string{"r1"}, entity.RowStatusCompleted).Return(nil)

	in := CallbackInput{Token: "tok", RowID: "r1", Status: "completed"}
	require.NoError(t, uc.Execute(ctx, in))
	require.NoError(t, uc.Execute(ctx, in))

	runs.AssertNumberOfCalls(t, "MergeStatus", 2)
	assert.Equal(t, entity.RunRowCompleted, after.Statuses["r1"])
	assert.Equal(t, entity.RunRowPending, after.Statuses["r2"])
}

func TestCallbackUnknownTokenMutatesNothing(t *testing.T) {
	ctx := context.Background()
	runs, rows := new(MockRunRepository), new(MockRowRepository)
	uc := NewHandleCallbackUseCase(runs, rows)

	runs.On("FindByToken", ctx, "forged").Return(nil, entity.ErrNotFound)

	err := uc.Execute(ctx, CallbackInput{Token: "forged", RowID: "r1", Status: "completed"})

	var domainErr *DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, CodeNotFound, domainErr.Code)
	runs.AssertNotCalled(t, "MergeStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	rows.AssertNotCalled(t, "SetEmailStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestCallbackMissingToken(t *testing.T) {
	uc := NewHandleCallbackUseCase(new(MockRunRepository), new(MockRowRepository))

	err := uc.Execute(context.Background(), CallbackInput{Token: "  ", RowID: "r1", Status: "completed"})

	var domainErr *DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, CodeUnauthorized, domainErr.Code)
}

func TestCallbackRejectsRowOutsideRun(t *testing.T) {
	ctx := context.Background()
	runs, rows := new(MockRunRepository), new(MockRowRepository)
	uc := NewHandleCallbackUseCase(runs, rows)
	runs.On("FindByToken", ctx, "tok").Return(callbackRun(), nil)

	err := uc.Execute(ctx, CallbackInput{Token: "tok", RowID: "r9", Status: "completed"})

	var domainErr *DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, CodeValidation, domainErr.Code)
	runs.AssertNotCalled(t, "MergeStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCallbackRejectsUnknownStatus(t *testing.T) {
	runs := new(MockRunRepository)
	uc := NewHandleCallbackUseCase(runs, new(MockRowRepository))

	err := uc.Execute(context.Background(), CallbackInput{Token: "tok", RowID: "r1", Status: "bounced"})

	assert.True(t, IsDomainError(err))
	runs.AssertNotCalled(t, "FindByToken", mock.Anything, mock.Anything)
}

func TestCallbackRowUpdateFailureIsTolerated(t *testing.T) {
	ctx := context.Background()
	runs, rows := new(MockRunRepository), new(MockRowRepository)
	uc := NewHandleCallbackUseCase(runs, rows)
	run := callbackRun()

	runs.On("FindByToken", ctx, "tok").Return(run, nil)
	runs.On("MergeStatus", ctx, run.ID, "r1", entity.RunRowFailed).Return(withStatus(run, "r1", entity.RunRowFailed), nil)
	rows.On("SetEmailStatus", ctx, []string{"r1"}, entity.RowStatusFailed).Return(errors.New("row deleted"))

	err := uc.Execute(ctx, CallbackInput{Token: "tok", RowID: "r1", Status: "failed"})

	assert.NoError(t, err)
}

func TestCallbackRunSaveFailureIsReported(t *testing.T) {
	ctx := context.Background()
	runs, rows := new(MockRunRepository), new(MockRowRepository)
	uc := NewHandleCallbackUseCase(runs, rows)
	run := callbackRun()

	runs.On("FindByToken", ctx, "tok").Return(run, nil)
	runs.On("MergeStatus", ctx, run.ID, "r1", entity.RunRowFailed).Return(nil, errors.New("deadlock"))

	err := uc.Execute(ctx, CallbackInput{Token: "tok", RowID: "r1", Status: "failed"})

	var techErr *TechnicalError
	require.True(t, errors.As(err, &techErr))
	assert.Equal(t, CodeStorage, techErr.Code)
	rows.AssertNotCalled(t, "SetEmailStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestCallbackCompletesSweptRun(t *testing.T) {
	ctx := context.Background()
	runs, rows := new(MockRunRepository), new(MockRowRepository)
	uc := NewHandleCallbackUseCase(runs, rows)
	swept := "dispatch did not complete"
	run := withStatus(callbackRun(), "r1", entity.RunRowCompleted)
	run.State = entity.RunStateDispatchFailed
	run.DispatchError = &swept

	runs.On("FindByToken", ctx, "tok").Return(run, nil)
	runs.On("MergeStatus", ctx, run.ID, "r2", entity.RunRowCompleted).Return(withStatus(run, "r2", entity.RunRowCompleted), nil)
	runs.On("SetState", ctx, run.ID, entity.RunStateCompleted, &swept).Return(entity.RunStateCompleted, nil)
	rows.On("SetEmailStatus", ctx, []string{"r2"}, entity.RowStatusCompleted).Return(nil)

	err := uc.Execute(ctx, CallbackInput{Token: "tok", RowID: "r2", Status: "completed"})

	require.NoError(t, err)
	runs.AssertExpectations(t)
	rows.AssertExpectations(t)
}
