// Package sqlite implements store.Store against an embedded SQLite database
// via modernc.org/sqlite, grounded on the teacher's storage/sqlite adapter
// idiom: raw database/sql, `?` placeholders, manual scan helpers. Used by
// cmd/notebookctl import for local work and by fast tests that want a real
// SQL backend without a Postgres server.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/nbsync/notebook-order/internal/model"
	"github.com/nbsync/notebook-order/internal/tables"
)

//go:embed schema.sql
var schemaSQL string

// Open opens (or creates) a SQLite database at path with WAL journaling.
func Open(path string) (*sql.DB, error) {
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, err
			}
		}
	}
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if path == ":memory:" {
		// A fresh connection to ":memory:" gets its own empty database, so the
		// pool must never hand out more than one at a time.
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// Bootstrap creates every table in schema.sql if it does not already exist.
func Bootstrap(ctx context.Context, db *sql.DB) error {
	for _, stmt := range strings.Split(schemaSQL, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("sqlite bootstrap: %w", err)
		}
	}
	return nil
}

// Store implements store.Store against a single SQLite database holding one
// notebook's tables.
type Store struct{ db *sql.DB }

// NewWithDB constructs a SQLite-backed store from an existing connection.
func NewWithDB(db *sql.DB) *Store { return &Store{db: db} }

// HealthPing implements health.HealthPinger.
func (s *Store) HealthPing(ctx context.Context) error { return s.db.PingContext(ctx) }

// DB exposes the underlying connection for health-checker fallbacks.
func (s *Store) DB() interface{} { return s.db }

func (s *Store) Close() error { return s.db.Close() }

// Apply commits ops atomically, replaying them in order within one
// transaction (see postgres.Store.Apply for why ordering matters).
func (s *Store) Apply(ctx context.Context, ops []tables.Op) error {
	if len(ops) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, op := range ops {
		if err := applyOne(ctx, tx, op); err != nil {
			return fmt.Errorf("sqlite apply %T: %w", op, err)
		}
	}
	return tx.Commit()
}

func applyOne(ctx context.Context, tx *sql.Tx, op tables.Op) error {
	switch o := op.(type) {
	case tables.UpsertCell:
		return upsertCell(ctx, tx, o.Cell)
	case tables.UpdateCell:
		return updateCell(ctx, tx, o.ID, o.Fields)
	case tables.DeleteCell:
		_, err := tx.ExecContext(ctx, `DELETE FROM cells WHERE id = ?`, o.ID)
		return err
	case tables.UpsertOutput:
		return upsertOutput(ctx, tx, o.Output)
	case tables.UpdateOutputRepresentation:
		return updateOutputRepresentation(ctx, tx, o)
	case tables.DeleteOutputsForCell:
		if _, err := tx.ExecContext(ctx, `DELETE FROM output_deltas WHERE output_id IN (SELECT id FROM outputs WHERE cell_id = ?)`, o.CellID); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `DELETE FROM outputs WHERE cell_id = ?`, o.CellID)
		return err
	case tables.UpsertOutputDelta:
		_, err := tx.ExecContext(ctx, `
			INSERT INTO output_deltas (id, output_id, delta, sequence_number) VALUES (?,?,?,?)
			ON CONFLICT (id) DO UPDATE SET delta = excluded.delta, sequence_number = excluded.sequence_number
		`, o.Delta.ID, o.Delta.OutputID, o.Delta.Delta, o.Delta.SequenceNumber)
		return err
	case tables.AppendTerminalData:
		_, err := tx.ExecContext(ctx, `UPDATE outputs SET data = COALESCE(data, '') || ? WHERE id = ?`, o.Delta, o.OutputID)
		return err
	case tables.UpsertPendingClear:
		_, err := tx.ExecContext(ctx, `
			INSERT INTO pending_clears (cell_id, cleared_by) VALUES (?,?)
			ON CONFLICT (cell_id) DO UPDATE SET cleared_by = excluded.cleared_by
		`, o.PendingClear.CellID, o.PendingClear.ClearedBy)
		return err
	case tables.DeletePendingClear:
		_, err := tx.ExecContext(ctx, `DELETE FROM pending_clears WHERE cell_id = ?`, o.CellID)
		return err
	case tables.UpsertRuntimeSession:
		return upsertRuntimeSession(ctx, tx, o.Session)
	case tables.UpdateRuntimeSession:
		return updateRuntimeSession(ctx, tx, o.SessionID, o.Fields)
	case tables.UpsertExecutionQueueEntry:
		return upsertExecutionQueueEntry(ctx, tx, o.Entry)
	case tables.UpdateExecutionQueueEntry:
		return updateExecutionQueueEntry(ctx, tx, o.ID, o.Fields)
	case tables.UpsertPresence:
		_, err := tx.ExecContext(ctx, `
			INSERT INTO presence (user_id, cell_id) VALUES (?,?)
			ON CONFLICT (user_id) DO UPDATE SET cell_id = excluded.cell_id
		`, o.Presence.UserID, o.Presence.CellID)
		return err
	case tables.UpsertActor:
		_, err := tx.ExecContext(ctx, `
			INSERT INTO actors (id, type, display_name) VALUES (?,?,?)
			ON CONFLICT (id) DO UPDATE SET type = excluded.type, display_name = excluded.display_name
		`, o.Actor.ID, string(o.Actor.Type), o.Actor.DisplayName)
		return err
	case tables.UpsertNotebookMetadata:
		_, err := tx.ExecContext(ctx, `
			INSERT INTO notebook_metadata (key, value) VALUES (?,?)
			ON CONFLICT (key) DO UPDATE SET value = excluded.value
		`, o.Key, o.Value)
		return err
	case tables.UpsertToolApproval:
		argsJSON, err := json.Marshal(o.Approval.ToolArgs)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO tool_approvals (id, cell_id, tool_name, tool_args, status, responded_by)
			VALUES (?,?,?,?,?,?)
			ON CONFLICT (id) DO UPDATE SET cell_id = excluded.cell_id, tool_name = excluded.tool_name,
				tool_args = excluded.tool_args, status = excluded.status, responded_by = excluded.responded_by
		`, o.Approval.ID, o.Approval.CellID, o.Approval.ToolName, string(argsJSON), string(o.Approval.Status), o.Approval.RespondedBy)
		return err
	case tables.UpdateToolApproval:
		_, err := tx.ExecContext(ctx, `UPDATE tool_approvals SET status = ?, responded_by = ? WHERE id = ?`,
			string(o.Status), o.RespondedBy, o.ID)
		return err
	case tables.UpsertUiState:
		valueJSON, err := json.Marshal(o.State.Value)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO ui_state (key, value) VALUES (?,?)
			ON CONFLICT (key) DO UPDATE SET value = excluded.value
		`, o.State.Key, string(valueJSON))
		return err
	default:
		return fmt.Errorf("unhandled table op %T", op)
	}
}

func upsertCell(ctx context.Context, tx *sql.Tx, c model.Cell) error {
	settingsJSON, err := json.Marshal(c.AISettings)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO cells (id, cell_type, source, fractional_index, execution_count, execution_state,
			assigned_runtime_session, sql_connection_id, sql_result_variable, ai_provider, ai_model,
			ai_settings, source_visible, output_visible, ai_context_visible, created_by, last_execution_duration_ms)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)
		ON CONFLICT (id) DO UPDATE SET
			cell_type = excluded.cell_type, source = excluded.source, fractional_index = excluded.fractional_index,
			execution_count = excluded.execution_count, execution_state = excluded.execution_state,
			assigned_runtime_session = excluded.assigned_runtime_session, sql_connection_id = excluded.sql_connection_id,
			sql_result_variable = excluded.sql_result_variable, ai_provider = excluded.ai_provider,
			ai_model = excluded.ai_model, ai_settings = excluded.ai_settings, source_visible = excluded.source_visible,
			output_visible = excluded.output_visible, ai_context_visible = excluded.ai_context_visible,
			created_by = excluded.created_by, last_execution_duration_ms = excluded.last_execution_duration_ms
	`, c.ID, string(c.CellType), c.Source, c.FractionalIndex, c.ExecutionCount, string(c.ExecutionState),
		c.AssignedRuntimeSession, c.SQLConnectionID, c.SQLResultVariable, c.AIProvider, c.AIModel,
		string(settingsJSON), c.SourceVisible, c.OutputVisible, c.AIContextVisible, c.CreatedBy, c.LastExecutionDurationMs)
	return err
}

func updateCell(ctx context.Context, tx *sql.Tx, id string, f tables.CellFields) error {
	sets := []string{}
	args := []interface{}{}
	add := func(col string, val interface{}) {
		sets = append(sets, col+" = ?")
		args = append(args, val)
	}
	if f.Source != nil {
		add("source", *f.Source)
	}
	if f.CellType != nil {
		add("cell_type", string(*f.CellType))
	}
	if f.FractionalIndex != nil {
		add("fractional_index", *f.FractionalIndex)
	}
	if f.ExecutionCount != nil {
		add("execution_count", *f.ExecutionCount)
	}
	if f.ExecutionState != nil {
		add("execution_state", string(*f.ExecutionState))
	}
	if f.AssignedRuntimeSession != nil {
		add("assigned_runtime_session", *f.AssignedRuntimeSession)
	}
	if f.SQLConnectionID != nil {
		add("sql_connection_id", *f.SQLConnectionID)
	}
	if f.SQLResultVariable != nil {
		add("sql_result_variable", *f.SQLResultVariable)
	}
	if f.AIProvider != nil {
		add("ai_provider", *f.AIProvider)
	}
	if f.AIModel != nil {
		add("ai_model", *f.AIModel)
	}
	if f.AISettings != nil {
		b, err := json.Marshal(*f.AISettings)
		if err != nil {
			return err
		}
		add("ai_settings", string(b))
	}
	if f.SourceVisible != nil {
		add("source_visible", *f.SourceVisible)
	}
	if f.OutputVisible != nil {
		add("output_visible", *f.OutputVisible)
	}
	if f.AIContextVisible != nil {
		add("ai_context_visible", *f.AIContextVisible)
	}
	if f.LastExecutionDurationMs != nil {
		add("last_execution_duration_ms", *f.LastExecutionDurationMs)
	}
	if len(sets) == 0 {
		return nil
	}
	query := fmt.Sprintf("UPDATE cells SET %s WHERE id = ?", strings.Join(sets, ", "))
	_, err := tx.ExecContext(ctx, query, append(args, id)...)
	return err
}

func upsertOutput(ctx context.Context, tx *sql.Tx, o model.Output) error {
	metaJSON, err := json.Marshal(o.Metadata)
	if err != nil {
		return err
	}
	repsJSON, err := json.Marshal(o.Representations)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO outputs (id, cell_id, output_type, position, stream_name, execution_count, display_id,
			data, artifact_id, mime_type, metadata, representations)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?)
		ON CONFLICT (id) DO UPDATE SET
			cell_id = excluded.cell_id, output_type = excluded.output_type, position = excluded.position,
			stream_name = excluded.stream_name, execution_count = excluded.execution_count,
			display_id = excluded.display_id, data = excluded.data, artifact_id = excluded.artifact_id,
			mime_type = excluded.mime_type, metadata = excluded.metadata, representations = excluded.representations
	`, o.ID, o.CellID, string(o.OutputType), o.Position, o.StreamName, o.ExecutionCount, o.DisplayID,
		o.Data, o.ArtifactID, o.MimeType, string(metaJSON), string(repsJSON))
	return err
}

func updateOutputRepresentation(ctx context.Context, tx *sql.Tx, o tables.UpdateOutputRepresentation) error {
	repsJSON, err := json.Marshal(o.Representations)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `
		UPDATE outputs SET representations = ?, data = ?, mime_type = ? WHERE display_id = ?
	`, string(repsJSON), o.Data, o.MimeType, o.DisplayID)
	return err
}

func upsertRuntimeSession(ctx context.Context, tx *sql.Tx, rs model.RuntimeSession) error {
	modelsJSON, err := json.Marshal(rs.AvailableAIModels)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO runtime_sessions (session_id, runtime_id, runtime_type, status, is_active,
			can_execute_code, can_execute_sql, can_execute_ai, available_ai_models)
		VALUES (?,?,?,?,?,?,?,?,?)
		ON CONFLICT (session_id) DO UPDATE SET
			runtime_id = excluded.runtime_id, runtime_type = excluded.runtime_type, status = excluded.status,
			is_active = excluded.is_active, can_execute_code = excluded.can_execute_code,
			can_execute_sql = excluded.can_execute_sql, can_execute_ai = excluded.can_execute_ai,
			available_ai_models = excluded.available_ai_models
	`, rs.SessionID, rs.RuntimeID, rs.RuntimeType, string(rs.Status), rs.IsActive,
		rs.CanExecuteCode, rs.CanExecuteSQL, rs.CanExecuteAI, string(modelsJSON))
	return err
}

func updateRuntimeSession(ctx context.Context, tx *sql.Tx, sessionID string, f tables.RuntimeSessionFields) error {
	sets := []string{}
	args := []interface{}{}
	add := func(col string, val interface{}) {
		sets = append(sets, col+" = ?")
		args = append(args, val)
	}
	if f.Status != nil {
		add("status", string(*f.Status))
	}
	if f.IsActive != nil {
		add("is_active", *f.IsActive)
	}
	if len(sets) == 0 {
		return nil
	}
	query := fmt.Sprintf("UPDATE runtime_sessions SET %s WHERE session_id = ?", strings.Join(sets, ", "))
	_, err := tx.ExecContext(ctx, query, append(args, sessionID)...)
	return err
}

func upsertExecutionQueueEntry(ctx context.Context, tx *sql.Tx, e model.ExecutionQueueEntry) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO execution_queue (id, cell_id, execution_count, requested_by, status,
			assigned_runtime_session, started_at, completed_at, execution_duration_ms)
		VALUES (?,?,?,?,?,?,?,?,?)
		ON CONFLICT (id) DO UPDATE SET
			cell_id = excluded.cell_id, execution_count = excluded.execution_count, requested_by = excluded.requested_by,
			status = excluded.status, assigned_runtime_session = excluded.assigned_runtime_session,
			started_at = excluded.started_at, completed_at = excluded.completed_at,
			execution_duration_ms = excluded.execution_duration_ms
	`, e.ID, e.CellID, e.ExecutionCount, e.RequestedBy, string(e.Status),
		e.AssignedRuntimeSession, formatTimePtr(e.StartedAt), formatTimePtr(e.CompletedAt), e.ExecutionDurationMs)
	return err
}

func updateExecutionQueueEntry(ctx context.Context, tx *sql.Tx, id string, f tables.ExecutionQueueFields) error {
	sets := []string{}
	args := []interface{}{}
	add := func(col string, val interface{}) {
		sets = append(sets, col+" = ?")
		args = append(args, val)
	}
	if f.Status != nil {
		add("status", string(*f.Status))
	}
	if f.AssignedRuntimeSession != nil {
		add("assigned_runtime_session", *f.AssignedRuntimeSession)
	}
	if f.StartedAt != nil {
		add("started_at", formatTimePtr(*f.StartedAt))
	}
	if f.CompletedAt != nil {
		add("completed_at", formatTimePtr(*f.CompletedAt))
	}
	if f.ExecutionDurationMs != nil {
		add("execution_duration_ms", *f.ExecutionDurationMs)
	}
	if len(sets) == 0 {
		return nil
	}
	query := fmt.Sprintf("UPDATE execution_queue SET %s WHERE id = ?", strings.Join(sets, ", "))
	_, err := tx.ExecContext(ctx, query, append(args, id)...)
	return err
}

func formatTimePtr(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTimePtr(s sql.NullString) (*time.Time, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// --- reads ---

func (s *Store) Cells(ctx context.Context) ([]model.Cell, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, cell_type, source, fractional_index, execution_count, execution_state,
			assigned_runtime_session, sql_connection_id, sql_result_variable, ai_provider, ai_model,
			ai_settings, source_visible, output_visible, ai_context_visible, created_by, last_execution_duration_ms
		FROM cells
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []model.Cell
	for rows.Next() {
		c, err := scanCell(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) Cell(ctx context.Context, id string) (model.Cell, bool, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, cell_type, source, fractional_index, execution_count, execution_state,
			assigned_runtime_session, sql_connection_id, sql_result_variable, ai_provider, ai_model,
			ai_settings, source_visible, output_visible, ai_context_visible, created_by, last_execution_duration_ms
		FROM cells WHERE id = ?
	`, id)
	c, err := scanCell(row)
	if err == sql.ErrNoRows {
		return model.Cell{}, false, nil
	}
	if err != nil {
		return model.Cell{}, false, err
	}
	return c, true, nil
}

type scannable interface {
	Scan(dest ...interface{}) error
}

func scanCell(row scannable) (model.Cell, error) {
	var c model.Cell
	var cellType, execState string
	var settingsJSON sql.NullString
	if err := row.Scan(&c.ID, &cellType, &c.Source, &c.FractionalIndex, &c.ExecutionCount, &execState,
		&c.AssignedRuntimeSession, &c.SQLConnectionID, &c.SQLResultVariable, &c.AIProvider, &c.AIModel,
		&settingsJSON, &c.SourceVisible, &c.OutputVisible, &c.AIContextVisible, &c.CreatedBy, &c.LastExecutionDurationMs); err != nil {
		return model.Cell{}, err
	}
	c.CellType = model.CellType(cellType)
	c.ExecutionState = model.ExecutionState(execState)
	if settingsJSON.Valid && settingsJSON.String != "" {
		_ = json.Unmarshal([]byte(settingsJSON.String), &c.AISettings)
	}
	return c, nil
}

func (s *Store) OutputsForCell(ctx context.Context, cellID string) ([]model.Output, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, cell_id, output_type, position, stream_name, execution_count, display_id,
			data, artifact_id, mime_type, metadata, representations
		FROM outputs WHERE cell_id = ? ORDER BY position
	`, cellID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []model.Output
	for rows.Next() {
		o, err := scanOutput(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (s *Store) Output(ctx context.Context, id string) (model.Output, bool, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, cell_id, output_type, position, stream_name, execution_count, display_id,
			data, artifact_id, mime_type, metadata, representations
		FROM outputs WHERE id = ?
	`, id)
	o, err := scanOutput(row)
	if err == sql.ErrNoRows {
		return model.Output{}, false, nil
	}
	if err != nil {
		return model.Output{}, false, err
	}
	return o, true, nil
}

func (s *Store) OutputsByDisplayID(ctx context.Context, displayID string) ([]model.Output, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, cell_id, output_type, position, stream_name, execution_count, display_id,
			data, artifact_id, mime_type, metadata, representations
		FROM outputs WHERE display_id = ?
	`, displayID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []model.Output
	for rows.Next() {
		o, err := scanOutput(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func scanOutput(row scannable) (model.Output, error) {
	var o model.Output
	var outputType string
	var metaJSON, repsJSON sql.NullString
	if err := row.Scan(&o.ID, &o.CellID, &outputType, &o.Position, &o.StreamName, &o.ExecutionCount, &o.DisplayID,
		&o.Data, &o.ArtifactID, &o.MimeType, &metaJSON, &repsJSON); err != nil {
		return model.Output{}, err
	}
	o.OutputType = model.OutputType(outputType)
	if metaJSON.Valid && metaJSON.String != "" {
		_ = json.Unmarshal([]byte(metaJSON.String), &o.Metadata)
	}
	if repsJSON.Valid && repsJSON.String != "" {
		_ = json.Unmarshal([]byte(repsJSON.String), &o.Representations)
	}
	return o, nil
}

func (s *Store) OutputDeltasForOutput(ctx context.Context, outputID string) ([]model.OutputDelta, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, output_id, delta, sequence_number FROM output_deltas WHERE output_id = ? ORDER BY sequence_number
	`, outputID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []model.OutputDelta
	for rows.Next() {
		var d model.OutputDelta
		if err := rows.Scan(&d.ID, &d.OutputID, &d.Delta, &d.SequenceNumber); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *Store) PendingClear(ctx context.Context, cellID string) (model.PendingClear, bool, error) {
	var p model.PendingClear
	p.CellID = cellID
	err := s.db.QueryRowContext(ctx, `SELECT cleared_by FROM pending_clears WHERE cell_id = ?`, cellID).Scan(&p.ClearedBy)
	if err == sql.ErrNoRows {
		return model.PendingClear{}, false, nil
	}
	if err != nil {
		return model.PendingClear{}, false, err
	}
	return p, true, nil
}

func (s *Store) ExecutionQueueForCell(ctx context.Context, cellID string) ([]model.ExecutionQueueEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, cell_id, execution_count, requested_by, status, assigned_runtime_session,
			started_at, completed_at, execution_duration_ms
		FROM execution_queue WHERE cell_id = ?
	`, cellID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []model.ExecutionQueueEntry
	for rows.Next() {
		e, err := scanQueueEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Store) ExecutionQueueEntry(ctx context.Context, id string) (model.ExecutionQueueEntry, bool, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, cell_id, execution_count, requested_by, status, assigned_runtime_session,
			started_at, completed_at, execution_duration_ms
		FROM execution_queue WHERE id = ?
	`, id)
	e, err := scanQueueEntry(row)
	if err == sql.ErrNoRows {
		return model.ExecutionQueueEntry{}, false, nil
	}
	if err != nil {
		return model.ExecutionQueueEntry{}, false, err
	}
	return e, true, nil
}

func scanQueueEntry(row scannable) (model.ExecutionQueueEntry, error) {
	var e model.ExecutionQueueEntry
	var status string
	var startedAt, completedAt sql.NullString
	if err := row.Scan(&e.ID, &e.CellID, &e.ExecutionCount, &e.RequestedBy, &status, &e.AssignedRuntimeSession,
		&startedAt, &completedAt, &e.ExecutionDurationMs); err != nil {
		return model.ExecutionQueueEntry{}, err
	}
	e.Status = model.ExecutionQueueStatus(status)
	started, err := parseTimePtr(startedAt)
	if err != nil {
		return model.ExecutionQueueEntry{}, err
	}
	e.StartedAt = started
	completed, err := parseTimePtr(completedAt)
	if err != nil {
		return model.ExecutionQueueEntry{}, err
	}
	e.CompletedAt = completed
	return e, nil
}

func (s *Store) RuntimeSessions(ctx context.Context) ([]model.RuntimeSession, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT session_id, runtime_id, runtime_type, status, is_active, can_execute_code,
			can_execute_sql, can_execute_ai, available_ai_models
		FROM runtime_sessions
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []model.RuntimeSession
	for rows.Next() {
		rs, err := scanRuntimeSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rs)
	}
	return out, rows.Err()
}

func (s *Store) RuntimeSession(ctx context.Context, sessionID string) (model.RuntimeSession, bool, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT session_id, runtime_id, runtime_type, status, is_active, can_execute_code,
			can_execute_sql, can_execute_ai, available_ai_models
		FROM runtime_sessions WHERE session_id = ?
	`, sessionID)
	rs, err := scanRuntimeSession(row)
	if err == sql.ErrNoRows {
		return model.RuntimeSession{}, false, nil
	}
	if err != nil {
		return model.RuntimeSession{}, false, err
	}
	return rs, true, nil
}

func scanRuntimeSession(row scannable) (model.RuntimeSession, error) {
	var rs model.RuntimeSession
	var status string
	var modelsJSON sql.NullString
	if err := row.Scan(&rs.SessionID, &rs.RuntimeID, &rs.RuntimeType, &status, &rs.IsActive,
		&rs.CanExecuteCode, &rs.CanExecuteSQL, &rs.CanExecuteAI, &modelsJSON); err != nil {
		return model.RuntimeSession{}, err
	}
	rs.Status = model.RuntimeSessionStatus(status)
	if modelsJSON.Valid && modelsJSON.String != "" {
		_ = json.Unmarshal([]byte(modelsJSON.String), &rs.AvailableAIModels)
	}
	return rs, nil
}

func (s *Store) Presences(ctx context.Context) ([]model.Presence, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT user_id, cell_id FROM presence`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []model.Presence
	for rows.Next() {
		var p model.Presence
		if err := rows.Scan(&p.UserID, &p.CellID); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) Actors(ctx context.Context) ([]model.Actor, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, type, display_name FROM actors`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []model.Actor
	for rows.Next() {
		a, err := scanActor(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *Store) Actor(ctx context.Context, id string) (model.Actor, bool, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, type, display_name FROM actors WHERE id = ?`, id)
	a, err := scanActor(row)
	if err == sql.ErrNoRows {
		return model.Actor{}, false, nil
	}
	if err != nil {
		return model.Actor{}, false, err
	}
	return a, true, nil
}

func scanActor(row scannable) (model.Actor, error) {
	var a model.Actor
	var actorType string
	if err := row.Scan(&a.ID, &actorType, &a.DisplayName); err != nil {
		return model.Actor{}, err
	}
	a.Type = model.ActorType(actorType)
	return a, nil
}

func (s *Store) ToolApproval(ctx context.Context, id string) (model.ToolApproval, bool, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, cell_id, tool_name, tool_args, status, responded_by FROM tool_approvals WHERE id = ?
	`, id)
	a, err := scanToolApproval(row)
	if err == sql.ErrNoRows {
		return model.ToolApproval{}, false, nil
	}
	if err != nil {
		return model.ToolApproval{}, false, err
	}
	return a, true, nil
}

func (s *Store) ToolApprovalsForCell(ctx context.Context, cellID string) ([]model.ToolApproval, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, cell_id, tool_name, tool_args, status, responded_by FROM tool_approvals WHERE cell_id = ?
	`, cellID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []model.ToolApproval
	for rows.Next() {
		a, err := scanToolApproval(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func scanToolApproval(row scannable) (model.ToolApproval, error) {
	var a model.ToolApproval
	var status string
	var argsJSON sql.NullString
	if err := row.Scan(&a.ID, &a.CellID, &a.ToolName, &argsJSON, &status, &a.RespondedBy); err != nil {
		return model.ToolApproval{}, err
	}
	a.Status = model.ToolApprovalStatus(status)
	if argsJSON.Valid && argsJSON.String != "" {
		_ = json.Unmarshal([]byte(argsJSON.String), &a.ToolArgs)
	}
	return a, nil
}

func (s *Store) UiState(ctx context.Context) ([]model.UiState, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM ui_state`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []model.UiState
	for rows.Next() {
		var key string
		var valueJSON sql.NullString
		if err := rows.Scan(&key, &valueJSON); err != nil {
			return nil, err
		}
		var value interface{}
		if valueJSON.Valid && valueJSON.String != "" {
			_ = json.Unmarshal([]byte(valueJSON.String), &value)
		}
		out = append(out, model.UiState{Key: key, Value: value})
	}
	return out, rows.Err()
}

func (s *Store) NotebookMetadata(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM notebook_metadata`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	out := map[string]string{}
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, rows.Err()
}
