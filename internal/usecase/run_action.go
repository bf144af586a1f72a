package usecase

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/xavierca1/lead-outreach/internal/entity"
	"github.com/xavierca1/lead-outreach/internal/infra/integration/n8n"
)

// MaxRunRows caps how many rows one run may target.
const MaxRunRows = 500

const callbackTokenBytes = 32

// NewCallbackToken returns 256 random bits, URL-safe encoded.
func NewCallbackToken() (string, error) {
	b := make([]byte, callbackTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate callback token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

type RunActionUseCase struct {
	Sheets          SheetRepository
	Rows            RowRepository
	Runs            RunRepository
	Signatures      SignatureRepository
	Dispatcher      Dispatcher
	Alerts          AlertService
	NewToken        TokenGenerator
	CallbackBaseURL string
}

func NewRunActionUseCase(
	sheets SheetRepository,
	rows RowRepository,
	runs RunRepository,
	signatures SignatureRepository,
	dispatcher Dispatcher,
	alerts AlertService,
	callbackBaseURL string,
) *RunActionUseCase {
	return &RunActionUseCase{
		Sheets:          sheets,
		Rows:            rows,
		Runs:            runs,
		Signatures:      signatures,
		Dispatcher:      dispatcher,
		Alerts:          alerts,
		NewToken:        NewCallbackToken,
		CallbackBaseURL: strings.TrimRight(callbackBaseURL, "/"),
	}
}

// Execute persists an ActionRun for the selected rows and hands the job to
// the workflow engine. If the hand-off fails the run is kept and marked
// dispatch_failed, and a DISPATCH_FAILED error is returned.
func (uc *RunActionUseCase) Execute(ctx context.Context, userID, sheetID string, in RunActionInput) (*RunActionOutput, error) {
	if err := check(in); err != nil {
		return nil, err
	}

	sheet, err := uc.Sheets.FindByID(ctx, userID, sheetID)
	if err != nil {
		return nil, storageError("lead file", err)
	}

	rows, err := uc.selectRows(ctx, userID, sheetID, in)
	if err != nil {
		return nil, err
	}

	signature := ""
	if sheet.SignatureID != nil {
		sig, err := uc.Signatures.FindByID(ctx, userID, *sheet.SignatureID)
		switch {
		case err == nil:
			signature = sig.Content
		case storageIsNotFound(err):
			// Dangling reference; send without signature.
		default:
			return nil, storageError("signature", err)
		}
	}

	token, err := uc.NewToken()
	if err != nil {
		return nil, &TechnicalError{Code: CodeStorage, Message: "could not create run", Err: err}
	}

	rowIDs := make([]string, len(rows))
	leads := make([]n8n.Lead, len(rows))
	for i, r := range rows {
		rowIDs[i] = r.ID
		leads[i] = n8n.Lead{RowID: r.ID, BusinessEmail: r.BusinessEmail, WebsiteURL: r.WebsiteURL}
	}

	run := entity.NewActionRun(sheet.ID, userID, in.Action, rowIDs, token)
	job := n8n.JobPayload{
		JobID:            run.ID,
		Action:           run.Action,
		UserID:           userID,
		CallbackURL:      uc.CallbackBaseURL + "/n8n-callback?token=" + url.QueryEscape(token),
		CallbackToken:    token,
		SignatureContent: signature,
		Leads:            leads,
	}

	log := logrus.WithFields(logrus.Fields{"user_id": userID, "sheet_id": sheet.ID, "run_id": run.ID})

	// Rows are reset before the hand-off: the engine may report back before
	// Dispatch returns, and nothing may overwrite what it reports.
	var dispatchErr, cause error
	txn := NewTransaction()
	txn.AddOperation("create_run", func(ctx context.Context) error {
		return uc.Runs.Create(ctx, run)
	})
	txn.AddCompensation("mark_dispatch_failed", func(ctx context.Context) error {
		msg := cause.Error()
		state, err := uc.Runs.SetState(context.WithoutCancel(ctx), run.ID, entity.RunStateDispatchFailed, &msg)
		if err != nil {
			return err
		}
		run.State = state
		if state == entity.RunStateDispatchFailed {
			run.DispatchError = &msg
		}
		return nil
	})
	txn.AddOperation("mark_rows_pending", func(ctx context.Context) error {
		cause = uc.Rows.SetEmailStatus(ctx, rowIDs, entity.RowStatusPending)
		return cause
	})
	txn.AddCompensation("restore_row_status", func(ctx context.Context) error {
		return uc.restoreRowStatus(context.WithoutCancel(ctx), rows)
	})
	txn.AddOperation("dispatch", func(ctx context.Context) error {
		dispatchErr = uc.Dispatcher.Dispatch(ctx, job)
		cause = dispatchErr
		return dispatchErr
	})

	if err := txn.Execute(ctx); err != nil {
		if dispatchErr == nil {
			return nil, storageError("run", err)
		}
		log.WithError(dispatchErr).Error("workflow dispatch failed")
		uc.alert(run, sheet.SheetName, dispatchErr)
		return nil, &TechnicalError{
			Code:    CodeDispatchFailed,
			Message: "failed to trigger the outreach workflow",
			Details: "job " + run.ID + " was marked " + string(run.State),
			Err:     dispatchErr,
		}
	}

	// The engine has the job from here on. If the state cannot be saved the
	// run stays "created" until the sweeper marks it dispatch_failed; its
	// callbacks still complete it.
	state, err := uc.Runs.SetState(ctx, run.ID, entity.RunStateDispatched, nil)
	switch {
	case err != nil:
		log.WithError(err).Error("run dispatched but state not saved")
		run.State = entity.RunStateDispatched
	case state != entity.RunStateDispatched:
		// Callbacks already moved the run on.
		if fresh, ferr := uc.Runs.FindByID(ctx, userID, sheet.ID, run.ID); ferr == nil {
			run = fresh
		}
		run.State = state
	default:
		run.State = state
	}

	log.WithField("rows", len(rowIDs)).Info("run dispatched")
	return &RunActionOutput{JobID: run.ID, State: run.State, Statuses: run.Statuses}, nil
}

// Get returns a run of the caller's sheet.
func (uc *RunActionUseCase) Get(ctx context.Context, userID, sheetID, runID string) (*entity.ActionRun, error) {
	run, err := uc.Runs.FindByID(ctx, userID, sheetID, runID)
	if err != nil {
		return nil, storageError("run", err)
	}
	return run, nil
}

func (uc *RunActionUseCase) selectRows(ctx context.Context, userID, sheetID string, in RunActionInput) ([]*entity.LeadRow, error) {
	ids := uniqueIDs(in.RowIDs)

	switch {
	case len(ids) > 0:
		if len(ids) > MaxRunRows {
			ids = ids[:MaxRunRows]
		}
		found, err := uc.Rows.FindByIDs(ctx, userID, sheetID, ids)
		if err != nil {
			return nil, storageError("rows", err)
		}
		byID := make(map[string]*entity.LeadRow, len(found))
		for _, r := range found {
			byID[r.ID] = r
		}
		rows := make([]*entity.LeadRow, 0, len(ids))
		for _, id := range ids {
			r, ok := byID[id]
			if !ok {
				return nil, validationError(fmt.Sprintf("row %s does not belong to this lead file", id))
			}
			rows = append(rows, r)
		}
		return rows, nil

	case in.RowCount > 0:
		rows, err := uc.Rows.FirstN(ctx, userID, sheetID, min(in.RowCount, MaxRunRows))
		if err != nil {
			return nil, storageError("rows", err)
		}
		if len(rows) == 0 {
			return nil, validationError("lead file has no rows")
		}
		return rows, nil
	}

	return nil, validationError("rowIds or rowCount is required")
}

// restoreRowStatus puts back the status rows had before the run, on rows
// that are still Pending.
func (uc *RunActionUseCase) restoreRowStatus(ctx context.Context, rows []*entity.LeadRow) error {
	prior := make(map[entity.RowStatus][]string)
	for _, r := range rows {
		if r.EmailStatus == "" || r.EmailStatus == entity.RowStatusPending {
			continue
		}
		prior[r.EmailStatus] = append(prior[r.EmailStatus], r.ID)
	}
	for status, ids := range prior {
		if err := uc.Rows.ReplaceEmailStatus(ctx, ids, entity.RowStatusPending, status); err != nil {
			return err
		}
	}
	return nil
}

func (uc *RunActionUseCase) alert(run *entity.ActionRun, sheetName string, cause error) {
	if uc.Alerts == nil {
		return
	}
	if err := uc.Alerts.SendDispatchFailed(run, sheetName, cause.Error()); err != nil {
		logrus.WithError(err).WithField("run_id", run.ID).Warn("dispatch alert not sent")
	}
}
