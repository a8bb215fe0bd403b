// Package execqueue assigns pending execution-queue rows to a ready runtime
// session. The materializer knows how to transition a queue entry once it
// is told who picked it up (events.NameExecutionAssigned); it has no
// opinion on who that should be. This package is the scheduler that makes
// that choice, polling the persisted store the way the teacher's outbox
// worker polls for ready rows.
package execqueue

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"

	"github.com/nbsync/notebook-order/internal/events"
	"github.com/nbsync/notebook-order/internal/materializer"
	"github.com/nbsync/notebook-order/internal/model"
	"github.com/nbsync/notebook-order/internal/store"
)

const selectPendingSQL = `
SELECT id, cell_id FROM execution_queue
WHERE status = 'pending'
ORDER BY id ASC
FOR UPDATE SKIP LOCKED
LIMIT $1`

const selectReadySessionSQL = `
SELECT session_id FROM runtime_sessions
WHERE status = 'ready' AND is_active AND can_execute_code
LIMIT 1
FOR UPDATE SKIP LOCKED`

// Config controls batch size and polling cadence.
type Config struct {
	BatchSize int
	Interval  time.Duration
}

// DB is the subset of *sql.DB the dispatcher needs to claim rows with
// FOR UPDATE SKIP LOCKED. Only the Postgres-backed store exposes this;
// the SQLite backend has no concurrent dispatcher to race against, so
// callers running on SQLite simply never start a Worker.
type DB interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// Worker claims pending execution-queue entries and assigns each to a
// ready runtime session, applying the resulting ExecutionAssigned
// transition through the materializer and the persisted store.
type Worker struct {
	db    DB
	store store.Store
	log   zerolog.Logger
	cfg   Config
}

// NewWorker constructs a Worker. db must be the same database the given
// store is backed by, so claims and applies observe each other.
func NewWorker(db DB, s store.Store, cfg Config, log zerolog.Logger) *Worker {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 10
	}
	if cfg.Interval <= 0 {
		cfg.Interval = time.Second
	}
	return &Worker{db: db, store: s, log: log, cfg: cfg}
}

// Run polls until ctx is canceled.
func (w *Worker) Run(ctx context.Context) error {
	w.log.Info().Int("batch", w.cfg.BatchSize).Dur("interval", w.cfg.Interval).Msg("execqueue dispatcher starting")
	ticker := time.NewTicker(w.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("execqueue dispatcher stopping")
			return ctx.Err()
		case <-ticker.C:
			if err := w.dispatchOnce(ctx); err != nil {
				w.log.Error().Err(err).Msg("execqueue dispatchOnce")
			}
		}
	}
}

type claim struct {
	queueID string
	cellID  string
}

// dispatchOnce claims a batch of pending rows and a ready runtime session
// per row, in a single transaction so two dispatcher instances never hand
// the same row to the same (or different) session twice.
func (w *Worker) dispatchOnce(ctx context.Context) error {
	return backoff.Retry(func() error {
		return w.dispatchBatch(ctx)
	}, backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3), ctx))
}

func (w *Worker) dispatchBatch(ctx context.Context) error {
	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	claims, err := w.claimBatch(ctx, tx)
	if err != nil {
		return err
	}
	if len(claims) == 0 {
		return tx.Commit()
	}

	assignments := make(map[string]string, len(claims)) // queueID -> sessionID
	for _, c := range claims {
		sessionID, err := w.claimSession(ctx, tx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				break // no more free sessions this cycle; leave remaining rows pending
			}
			return err
		}
		assignments[c.queueID] = sessionID
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	for queueID, sessionID := range assignments {
		if err := w.assign(ctx, queueID, sessionID); err != nil {
			w.log.Error().Err(err).Str("queueId", queueID).Str("sessionId", sessionID).Msg("execqueue assign")
		}
	}
	return nil
}

func (w *Worker) claimBatch(ctx context.Context, tx *sql.Tx) ([]claim, error) {
	rows, err := tx.QueryContext(ctx, selectPendingSQL, w.cfg.BatchSize)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []claim
	for rows.Next() {
		var c claim
		if err := rows.Scan(&c.queueID, &c.cellID); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (w *Worker) claimSession(ctx context.Context, tx *sql.Tx) (string, error) {
	var sessionID string
	err := tx.QueryRowContext(ctx, selectReadySessionSQL).Scan(&sessionID)
	return sessionID, err
}

// assign runs the ExecutionAssigned event through the materializer and
// applies the resulting ops through the persisted store, outside the
// claiming transaction: the claim only needs to hold the row lock long
// enough to pick a session, not for the duration of the store write.
func (w *Worker) assign(ctx context.Context, queueID, sessionID string) error {
	ev := events.New(events.NameExecutionAssigned, events.ExecutionAssignedArgs{
		QueueID:                queueID,
		AssignedRuntimeSession: sessionID,
	})
	ops, err := materializer.Reduce(nilHandle{}, ev)
	if err != nil {
		return fmt.Errorf("reduce ExecutionAssigned: %w", err)
	}
	if len(ops) == 0 {
		return nil
	}
	return w.store.Apply(ctx, ops)
}

// nilHandle satisfies query.Handle for reducers that never dereference it.
// reduceExecutionAssigned is pure over its args and never calls h; every
// method here would panic if that ever changes, which is the point.
type nilHandle struct{}

func (nilHandle) PendingClear(string) (model.PendingClear, bool) { panic("execqueue: unexpected Handle use") }
func (nilHandle) Output(string) (model.Output, bool)             { panic("execqueue: unexpected Handle use") }
func (nilHandle) OutputsByDisplayID(string) []model.Output       { panic("execqueue: unexpected Handle use") }
func (nilHandle) Cell(string) (model.Cell, bool)                 { panic("execqueue: unexpected Handle use") }
func (nilHandle) ExecutionQueueEntry(string) (model.ExecutionQueueEntry, bool) {
	panic("execqueue: unexpected Handle use")
}
