// Package postgres implements store.Store against PostgreSQL via database/sql
// using the pgx stdlib driver, applying the materializer's table operations
// as plain SQL statements inside a single transaction per batch.
package postgres

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/nbsync/notebook-order/internal/model"
	"github.com/nbsync/notebook-order/internal/tables"
)

//go:embed schema.sql
var schemaSQL string

// Open opens a PostgreSQL connection using the pgx stdlib driver and verifies
// connectivity.
func Open(dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres DSN is empty")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
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
			return fmt.Errorf("postgres bootstrap: %w", err)
		}
	}
	return nil
}

// Store implements the notebook-order store.Store interface against a
// single Postgres database holding one notebook's tables.
type Store struct{ db *sql.DB }

// NewWithDB constructs a Postgres-backed store from an existing connection.
func NewWithDB(db *sql.DB) *Store { return &Store{db: db} }

// HealthPing implements health.HealthPinger.
func (s *Store) HealthPing(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// DB exposes the underlying connection for health-checker fallbacks.
func (s *Store) DB() interface{} { return s.db }

func (s *Store) Close() error { return s.db.Close() }

// Apply commits ops atomically: the whole batch lands in one transaction, and
// ops are replayed in order so a later op can observe an earlier op's write
// within the same batch (e.g. display-id fan-out updates).
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
			return fmt.Errorf("postgres apply %T: %w", op, err)
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
		_, err := tx.ExecContext(ctx, `DELETE FROM cells WHERE id = $1`, o.ID)
		return err
	case tables.UpsertOutput:
		return upsertOutput(ctx, tx, o.Output)
	case tables.UpdateOutputRepresentation:
		return updateOutputRepresentation(ctx, tx, o)
	case tables.DeleteOutputsForCell:
		if _, err := tx.ExecContext(ctx, `DELETE FROM output_deltas WHERE output_id IN (SELECT id FROM outputs WHERE cell_id = $1)`, o.CellID); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `DELETE FROM outputs WHERE cell_id = $1`, o.CellID)
		return err
	case tables.UpsertOutputDelta:
		_, err := tx.ExecContext(ctx, `
			INSERT INTO output_deltas (id, output_id, delta, sequence_number) VALUES ($1,$2,$3,$4)
			ON CONFLICT (id) DO UPDATE SET delta = EXCLUDED.delta, sequence_number = EXCLUDED.sequence_number
		`, o.Delta.ID, o.Delta.OutputID, o.Delta.Delta, o.Delta.SequenceNumber)
		return err
	case tables.AppendTerminalData:
		_, err := tx.ExecContext(ctx, `UPDATE outputs SET data = COALESCE(data, '') || $2 WHERE id = $1`, o.OutputID, o.Delta)
		return err
	case tables.UpsertPendingClear:
		_, err := tx.ExecContext(ctx, `
			INSERT INTO pending_clears (cell_id, cleared_by) VALUES ($1,$2)
			ON CONFLICT (cell_id) DO UPDATE SET cleared_by = EXCLUDED.cleared_by
		`, o.PendingClear.CellID, o.PendingClear.ClearedBy)
		return err
	case tables.DeletePendingClear:
		_, err := tx.ExecContext(ctx, `DELETE FROM pending_clears WHERE cell_id = $1`, o.CellID)
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
			INSERT INTO presence (user_id, cell_id) VALUES ($1,$2)
			ON CONFLICT (user_id) DO UPDATE SET cell_id = EXCLUDED.cell_id
		`, o.Presence.UserID, o.Presence.CellID)
		return err
	case tables.UpsertActor:
		_, err := tx.ExecContext(ctx, `
			INSERT INTO actors (id, type, display_name) VALUES ($1,$2,$3)
			ON CONFLICT (id) DO UPDATE SET type = EXCLUDED.type, display_name = EXCLUDED.display_name
		`, o.Actor.ID, string(o.Actor.Type), o.Actor.DisplayName)
		return err
	case tables.UpsertNotebookMetadata:
		_, err := tx.ExecContext(ctx, `
			INSERT INTO notebook_metadata (key, value) VALUES ($1,$2)
			ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
		`, o.Key, o.Value)
		return err
	case tables.UpsertToolApproval:
		argsJSON, err := json.Marshal(o.Approval.ToolArgs)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO tool_approvals (id, cell_id, tool_name, tool_args, status, responded_by)
			VALUES ($1,$2,$3,$4,$5,$6)
			ON CONFLICT (id) DO UPDATE SET cell_id = EXCLUDED.cell_id, tool_name = EXCLUDED.tool_name,
				tool_args = EXCLUDED.tool_args, status = EXCLUDED.status, responded_by = EXCLUDED.responded_by
		`, o.Approval.ID, o.Approval.CellID, o.Approval.ToolName, argsJSON, string(o.Approval.Status), o.Approval.RespondedBy)
		return err
	case tables.UpdateToolApproval:
		_, err := tx.ExecContext(ctx, `UPDATE tool_approvals SET status = $2, responded_by = $3 WHERE id = $1`,
			o.ID, string(o.Status), o.RespondedBy)
		return err
	case tables.UpsertUiState:
		valueJSON, err := json.Marshal(o.State.Value)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO ui_state (key, value) VALUES ($1,$2)
			ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
		`, o.State.Key, valueJSON)
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
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
		ON CONFLICT (id) DO UPDATE SET
			cell_type = EXCLUDED.cell_type, source = EXCLUDED.source, fractional_index = EXCLUDED.fractional_index,
			execution_count = EXCLUDED.execution_count, execution_state = EXCLUDED.execution_state,
			assigned_runtime_session = EXCLUDED.assigned_runtime_session, sql_connection_id = EXCLUDED.sql_connection_id,
			sql_result_variable = EXCLUDED.sql_result_variable, ai_provider = EXCLUDED.ai_provider,
			ai_model = EXCLUDED.ai_model, ai_settings = EXCLUDED.ai_settings, source_visible = EXCLUDED.source_visible,
			output_visible = EXCLUDED.output_visible, ai_context_visible = EXCLUDED.ai_context_visible,
			created_by = EXCLUDED.created_by, last_execution_duration_ms = EXCLUDED.last_execution_duration_ms
	`, c.ID, string(c.CellType), c.Source, c.FractionalIndex, c.ExecutionCount, string(c.ExecutionState),
		c.AssignedRuntimeSession, c.SQLConnectionID, c.SQLResultVariable, c.AIProvider, c.AIModel,
		settingsJSON, c.SourceVisible, c.OutputVisible, c.AIContextVisible, c.CreatedBy, c.LastExecutionDurationMs)
	return err
}

func updateCell(ctx context.Context, tx *sql.Tx, id string, f tables.CellFields) error {
	sets := []string{}
	args := []interface{}{}
	add := func(col string, val interface{}) {
		args = append(args, val)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)+1))
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
		add("ai_settings", b)
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
	query := fmt.Sprintf("UPDATE cells SET %s WHERE id = $1", strings.Join(sets, ", "))
	_, err := tx.ExecContext(ctx, query, append([]interface{}{id}, args...)...)
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
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		ON CONFLICT (id) DO UPDATE SET
			cell_id = EXCLUDED.cell_id, output_type = EXCLUDED.output_type, position = EXCLUDED.position,
			stream_name = EXCLUDED.stream_name, execution_count = EXCLUDED.execution_count,
			display_id = EXCLUDED.display_id, data = EXCLUDED.data, artifact_id = EXCLUDED.artifact_id,
			mime_type = EXCLUDED.mime_type, metadata = EXCLUDED.metadata, representations = EXCLUDED.representations
	`, o.ID, o.CellID, string(o.OutputType), o.Position, o.StreamName, o.ExecutionCount, o.DisplayID,
		o.Data, o.ArtifactID, o.MimeType, metaJSON, repsJSON)
	return err
}

func updateOutputRepresentation(ctx context.Context, tx *sql.Tx, o tables.UpdateOutputRepresentation) error {
	repsJSON, err := json.Marshal(o.Representations)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `
		UPDATE outputs SET representations = $2, data = $3, mime_type = $4 WHERE display_id = $1
	`, o.DisplayID, repsJSON, o.Data, o.MimeType)
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
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		ON CONFLICT (session_id) DO UPDATE SET
			runtime_id = EXCLUDED.runtime_id, runtime_type = EXCLUDED.runtime_type, status = EXCLUDED.status,
			is_active = EXCLUDED.is_active, can_execute_code = EXCLUDED.can_execute_code,
			can_execute_sql = EXCLUDED.can_execute_sql, can_execute_ai = EXCLUDED.can_execute_ai,
			available_ai_models = EXCLUDED.available_ai_models
	`, rs.SessionID, rs.RuntimeID, rs.RuntimeType, string(rs.Status), rs.IsActive,
		rs.CanExecuteCode, rs.CanExecuteSQL, rs.CanExecuteAI, modelsJSON)
	return err
}

func updateRuntimeSession(ctx context.Context, tx *sql.Tx, sessionID string, f tables.RuntimeSessionFields) error {
	sets := []string{}
	args := []interface{}{}
	add := func(col string, val interface{}) {
		args = append(args, val)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)+1))
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
	query := fmt.Sprintf("UPDATE runtime_sessions SET %s WHERE session_id = $1", strings.Join(sets, ", "))
	_, err := tx.ExecContext(ctx, query, append([]interface{}{sessionID}, args...)...)
	return err
}

func upsertExecutionQueueEntry(ctx context.Context, tx *sql.Tx, e model.ExecutionQueueEntry) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO execution_queue (id, cell_id, execution_count, requested_by, status,
			assigned_runtime_session, started_at, completed_at, execution_duration_ms)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		ON CONFLICT (id) DO UPDATE SET
			cell_id = EXCLUDED.cell_id, execution_count = EXCLUDED.execution_count, requested_by = EXCLUDED.requested_by,
			status = EXCLUDED.status, assigned_runtime_session = EXCLUDED.assigned_runtime_session,
			started_at = EXCLUDED.started_at, completed_at = EXCLUDED.completed_at,
			execution_duration_ms = EXCLUDED.execution_duration_ms
	`, e.ID, e.CellID, e.ExecutionCount, e.RequestedBy, string(e.Status),
		e.AssignedRuntimeSession, e.StartedAt, e.CompletedAt, e.ExecutionDurationMs)
	return err
}

func updateExecutionQueueEntry(ctx context.Context, tx *sql.Tx, id string, f tables.ExecutionQueueFields) error {
	sets := []string{}
	args := []interface{}{}
	add := func(col string, val interface{}) {
		args = append(args, val)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)+1))
	}
	if f.Status != nil {
		add("status", string(*f.Status))
	}
	if f.AssignedRuntimeSession != nil {
		add("assigned_runtime_session", *f.AssignedRuntimeSession)
	}
	if f.StartedAt != nil {
		add("started_at", *f.StartedAt)
	}
	if f.CompletedAt != nil {
		add("completed_at", *f.CompletedAt)
	}
	if f.ExecutionDurationMs != nil {
		add("execution_duration_ms", *f.ExecutionDurationMs)
	}
	if len(sets) == 0 {
		return nil
	}
	query := fmt.Sprintf("UPDATE execution_queue SET %s WHERE id = $1", strings.Join(sets, ", "))
	_, err := tx.ExecContext(ctx, query, append([]interface{}{id}, args...)...)
	return err
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
		FROM cells WHERE id = $1
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
	var settingsJSON []byte
	if err := row.Scan(&c.ID, &cellType, &c.Source, &c.FractionalIndex, &c.ExecutionCount, &execState,
		&c.AssignedRuntimeSession, &c.SQLConnectionID, &c.SQLResultVariable, &c.AIProvider, &c.AIModel,
		&settingsJSON, &c.SourceVisible, &c.OutputVisible, &c.AIContextVisible, &c.CreatedBy, &c.LastExecutionDurationMs); err != nil {
		return model.Cell{}, err
	}
	c.CellType = model.CellType(cellType)
	c.ExecutionState = model.ExecutionState(execState)
	if len(settingsJSON) > 0 {
		_ = json.Unmarshal(settingsJSON, &c.AISettings)
	}
	return c, nil
}

func (s *Store) OutputsForCell(ctx context.Context, cellID string) ([]model.Output, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, cell_id, output_type, position, stream_name, execution_count, display_id,
			data, artifact_id, mime_type, metadata, representations
		FROM outputs WHERE cell_id = $1 ORDER BY position
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
		FROM outputs WHERE id = $1
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
		FROM outputs WHERE display_id = $1
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
	var metaJSON, repsJSON []byte
	if err := row.Scan(&o.ID, &o.CellID, &outputType, &o.Position, &o.StreamName, &o.ExecutionCount, &o.DisplayID,
		&o.Data, &o.ArtifactID, &o.MimeType, &metaJSON, &repsJSON); err != nil {
		return model.Output{}, err
	}
	o.OutputType = model.OutputType(outputType)
	if len(metaJSON) > 0 {
		_ = json.Unmarshal(metaJSON, &o.Metadata)
	}
	if len(repsJSON) > 0 {
		_ = json.Unmarshal(repsJSON, &o.Representations)
	}
	return o, nil
}

func (s *Store) OutputDeltasForOutput(ctx context.Context, outputID string) ([]model.OutputDelta, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, output_id, delta, sequence_number FROM output_deltas WHERE output_id = $1 ORDER BY sequence_number
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
	err := s.db.QueryRowContext(ctx, `SELECT cleared_by FROM pending_clears WHERE cell_id = $1`, cellID).Scan(&p.ClearedBy)
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
		FROM execution_queue WHERE cell_id = $1
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
		FROM execution_queue WHERE id = $1
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
	var startedAt, completedAt sql.NullTime
	if err := row.Scan(&e.ID, &e.CellID, &e.ExecutionCount, &e.RequestedBy, &status, &e.AssignedRuntimeSession,
		&startedAt, &completedAt, &e.ExecutionDurationMs); err != nil {
		return model.ExecutionQueueEntry{}, err
	}
	e.Status = model.ExecutionQueueStatus(status)
	if startedAt.Valid {
		t := startedAt.Time
		e.StartedAt = &t
	}
	if completedAt.Valid {
		t := completedAt.Time
		e.CompletedAt = &t
	}
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
		FROM runtime_sessions WHERE session_id = $1
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
	var modelsJSON []byte
	if err := row.Scan(&rs.SessionID, &rs.RuntimeID, &rs.RuntimeType, &status, &rs.IsActive,
		&rs.CanExecuteCode, &rs.CanExecuteSQL, &rs.CanExecuteAI, &modelsJSON); err != nil {
		return model.RuntimeSession{}, err
	}
	rs.Status = model.RuntimeSessionStatus(status)
	if len(modelsJSON) > 0 {
		_ = json.Unmarshal(modelsJSON, &rs.AvailableAIModels)
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
	row := s.db.QueryRowContext(ctx, `SELECT id, type, display_name FROM actors WHERE id = $1`, id)
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
		SELECT id, cell_id, tool_name, tool_args, status, responded_by FROM tool_approvals WHERE id = $1
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
		SELECT id, cell_id, tool_name, tool_args, status, responded_by FROM tool_approvals WHERE cell_id = $1
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
	var argsJSON []byte
	if err := row.Scan(&a.ID, &a.CellID, &a.ToolName, &argsJSON, &status, &a.RespondedBy); err != nil {
		return model.ToolApproval{}, err
	}
	a.Status = model.ToolApprovalStatus(status)
	if len(argsJSON) > 0 {
		_ = json.Unmarshal(argsJSON, &a.ToolArgs)
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
		var valueJSON []byte
		if err := rows.Scan(&key, &valueJSON); err != nil {
			return nil, err
		}
		var value interface{}
		if len(valueJSON) > 0 {
			_ = json.Unmarshal(valueJSON, &value)
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
