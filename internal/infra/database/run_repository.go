package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/xavierca1/lead-outreach/internal/entity"
)

// Message stored on runs expired by the stale-run sweeper.
const staleDispatchError = "dispatch did not complete"

type RunRepository struct {
	DB *sql.DB
}

func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{DB: db}
}

const runColumns = `id, sheet_id, user_id, action, row_ids, statuses, callback_token, state, dispatch_error, created_at, updated_at`

func scanRun(sc scanner) (*entity.ActionRun, error) {
	run := &entity.ActionRun{}
	var statuses []byte
	err := sc.Scan(
		&run.ID, &run.SheetID, &run.UserID, &run.Action, pq.Array(&run.RowIDs), &statuses,
		&run.CallbackToken, &run.State, &run.DispatchError, &run.CreatedAt, &run.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(statuses, &run.Statuses); err != nil {
		return nil, fmt.Errorf("decode run statuses: %w", err)
	}
	return run, nil
}

func (r *RunRepository) Create(ctx context.Context, run *entity.ActionRun) error {
	statuses, err := json.Marshal(run.Statuses)
	if err != nil {
		return fmt.Errorf("encode run statuses: %w", err)
	}

	query := `INSERT INTO action_runs (` + runColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err = r.DB.ExecContext(ctx, query,
		run.ID, run.SheetID, run.UserID, run.Action, pq.Array(run.RowIDs), statuses,
		run.CallbackToken, string(run.State), run.DispatchError, run.CreatedAt, run.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create action run: %w", err)
	}
	return nil
}

func (r *RunRepository) FindByID(ctx context.Context, userID, sheetID, id string) (*entity.ActionRun, error) {
	query := `SELECT ` + runColumns + ` FROM action_runs WHERE id = $1 AND sheet_id = $2 AND user_id = $3`
	run, err := scanRun(r.DB.QueryRowContext(ctx, query, id, sheetID, userID))
	if err != nil {
		return nil, mapErr(err)
	}
	return run, nil
}

func (r *RunRepository) FindByToken(ctx context.Context, token string) (*entity.ActionRun, error) {
	query := `SELECT ` + runColumns + ` FROM action_runs WHERE callback_token = $1`
	run, err := scanRun(r.DB.QueryRowContext(ctx, query, token))
	if err != nil {
		return nil, mapErr(err)
	}
	return run, nil
}

// SetState moves a run to state when its stored state allows the move and
// returns the state stored afterwards. A refused move is not an error; the
// current state is returned unchanged.
func (r *RunRepository) SetState(ctx context.Context, id string, state entity.RunState, dispatchErr *string) (entity.RunState, error) {
	prior := entity.PriorStates(state)
	from := make([]string, len(prior))
	for i, s := range prior {
		from[i] = string(s)
	}

	var stored entity.RunState
	err := r.DB.QueryRowContext(ctx, `
		UPDATE action_runs
		SET state = $2, dispatch_error = $3, updated_at = now()
		WHERE id = $1 AND state = ANY($4)
		RETURNING state`,
		id, string(state), dispatchErr, pq.Array(from),
	).Scan(&stored)
	if err == nil {
		return stored, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", mapErr(err)
	}

	if err := r.DB.QueryRowContext(ctx, `SELECT state FROM action_runs WHERE id = $1`, id).Scan(&stored); err != nil {
		return "", mapErr(err)
	}
	return stored, nil
}

// MergeStatus writes one key of statuses in place. The `?` guard makes the
// update a no-op for keys the run was not created with.
func (r *RunRepository) MergeStatus(ctx context.Context, id, rowID string, status entity.RunRowStatus) (*entity.ActionRun, error) {
	query := `
		UPDATE action_runs
		SET statuses = jsonb_set(statuses, ARRAY[$2::text], to_jsonb($3::text)), updated_at = now()
		WHERE id = $1 AND statuses ? $2
		RETURNING ` + runColumns

	run, err := scanRun(r.DB.QueryRowContext(ctx, query, id, rowID, string(status)))
	if err != nil {
		return nil, mapErr(err)
	}
	return run, nil
}

// ExpireCreated moves runs stuck in "created" for longer than olderThan to
// "dispatch_failed" and returns their ids.
func (r *RunRepository) ExpireCreated(ctx context.Context, olderThan time.Duration) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx, `
		UPDATE action_runs
		SET state = $1, dispatch_error = $2, updated_at = now()
		WHERE state = $3 AND created_at < now() - make_interval(secs => $4)
		RETURNING id`,
		string(entity.RunStateDispatchFailed), staleDispatchError, string(entity.RunStateCreated), olderThan.Seconds(),
	)
	if err != nil {
		return nil, fmt.Errorf("expire created runs: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
