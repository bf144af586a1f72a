package usecase

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/xavierca1/lead-outreach/internal/entity"
)

type HandleCallbackUseCase struct {
	Runs RunRepository
	Rows RowRepository
}

func NewHandleCallbackUseCase(runs RunRepository, rows RowRepository) *HandleCallbackUseCase {
	return &HandleCallbackUseCase{Runs: runs, Rows: rows}
}

// Execute applies one engine report. The run's status map is the source of
// truth and must be saved; the row's emailStatus is updated best-effort so
// the engine is never asked to retry because of it. Replaying the same
// report gives the same end state.
func (uc *HandleCallbackUseCase) Execute(ctx context.Context, in CallbackInput) error {
	in.Token = strings.TrimSpace(in.Token)
	if in.Token == "" {
		return &DomainError{Code: CodeUnauthorized, Message: "missing callback token"}
	}
	if err := check(in); err != nil {
		return err
	}

	run, err := uc.Runs.FindByToken(ctx, in.Token)
	if err != nil {
		return storageError("run", err)
	}
	if !run.HasRow(in.RowID) {
		return validationError("row is not part of this run")
	}

	status := entity.RunRowStatus(in.Status)
	log := logrus.WithFields(logrus.Fields{"run_id": run.ID, "row_id": in.RowID, "status": status})

	updated, err := uc.Runs.MergeStatus(ctx, run.ID, in.RowID, status)
	if err != nil {
		return storageError("run", err)
	}

	if updated.AllDone() && updated.State != entity.RunStateCompleted {
		if _, err := uc.Runs.SetState(ctx, updated.ID, entity.RunStateCompleted, updated.DispatchError); err != nil {
			log.WithError(err).Warn("run finished but state not saved")
		}
	}

	rowStatus, _ := entity.RowStatusFor(status)
	if err := uc.Rows.SetEmailStatus(ctx, []string{in.RowID}, rowStatus); err != nil {
		log.WithError(err).Warn("row status not updated")
	}

	log.Debug("callback applied")
	return nil
}
