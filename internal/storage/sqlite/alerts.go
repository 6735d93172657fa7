package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/teampulse/pulse/internal/types"
)

// InsertAlertIfAbsent persists the alert unless an alert with the same
// (workspace, type, title) already exists inside the dedup window.
//
// The check-then-insert runs inside a BEGIN IMMEDIATE transaction.
// IMMEDIATE acquires the write lock up front, so concurrent engine runs
// serialize here and cannot both pass the existence check.
func (s *SQLiteStorage) InsertAlertIfAbsent(ctx context.Context, alert *types.Alert, dedupWindow time.Duration) (bool, error) {
	if err := alert.Validate(); err != nil {
		return false, fmt.Errorf("validation failed: %w", err)
	}

	if alert.ID == "" {
		alert.ID = uuid.New().String()
	}
	if alert.CreatedAt.IsZero() {
		alert.CreatedAt = time.Now().UTC()
	}

	metadataJSON, err := json.Marshal(alert.Metadata)
	if err != nil {
		return false, fmt.Errorf("failed to marshal metadata: %w", err)
	}

	// Dedicated connection: BEGIN IMMEDIATE and COMMIT are raw SQL and
	// must run on the same connection as the queries between them.
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to acquire connection: %w", err)
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, "BEGIN IMMEDIATE"); err != nil {
		return false, fmt.Errorf("failed to begin immediate transaction: %w", err)
	}

	committed := false
	defer func() {
		if !committed {
			_, _ = conn.ExecContext(context.Background(), "ROLLBACK")
		}
	}()

	cutoff := alert.CreatedAt.Add(-dedupWindow)

	var existing int
	err = conn.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM alerts
		WHERE workspace = ? AND type = ? AND title = ? AND created_at > ?
	`, alert.Workspace, alert.Type, alert.Title, cutoff).Scan(&existing)
	if err != nil {
		return false, fmt.Errorf("failed to check for duplicate alert: %w", err)
	}

	if existing > 0 {
		if _, err := conn.ExecContext(ctx, "COMMIT"); err != nil {
			return false, fmt.Errorf("failed to commit transaction: %w", err)
		}
		committed = true
		return false, nil
	}

	_, err = conn.ExecContext(ctx, `
		INSERT INTO alerts (id, workspace, type, severity, title, description, metadata, created_at, resolved)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, 0)
	`, alert.ID, alert.Workspace, alert.Type, alert.Severity, alert.Title,
		alert.Description, string(metadataJSON), alert.CreatedAt)
	if err != nil {
		return false, fmt.Errorf("failed to insert alert: %w", err)
	}

	if _, err := conn.ExecContext(ctx, "COMMIT"); err != nil {
		return false, fmt.Errorf("failed to commit transaction: %w", err)
	}
	committed = true

	return true, nil
}

// ListUnresolvedCriticalAlertsOlderThan returns unresolved critical
// alerts created before the cutoff, oldest first.
func (s *SQLiteStorage) ListUnresolvedCriticalAlertsOlderThan(ctx context.Context, workspace string, cutoff time.Time) ([]*types.Alert, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, workspace, type, severity, title, description, metadata, created_at, resolved, resolved_at
		FROM alerts
		WHERE workspace = ? AND severity = ? AND resolved = 0 AND created_at < ?
		ORDER BY created_at ASC
	`, workspace, types.SeverityCritical, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to list unresolved critical alerts: %w", err)
	}
	defer rows.Close()

	return scanAlerts(rows)
}

// ExistsEscalationFor reports whether an escalation alert referencing
// the given original alert id already exists. The check is keyed by id,
// never by title matching.
func (s *SQLiteStorage) ExistsEscalationFor(ctx context.Context, alertID string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM alerts
		WHERE type = ? AND json_extract(metadata, '$.original_alert_id') = ?
	`, types.AlertEscalation, alertID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check for escalation: %w", err)
	}
	return count > 0, nil
}

// ListAlerts returns a workspace's alerts, newest first. Resolved
// alerts are included only when includeResolved is set.
func (s *SQLiteStorage) ListAlerts(ctx context.Context, workspace string, includeResolved bool) ([]*types.Alert, error) {
	query := `
		SELECT id, workspace, type, severity, title, description, metadata, created_at, resolved, resolved_at
		FROM alerts
		WHERE workspace = ?
	`
	if !includeResolved {
		query += " AND resolved = 0"
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, workspace)
	if err != nil {
		return nil, fmt.Errorf("failed to list alerts: %w", err)
	}
	defer rows.Close()

	return scanAlerts(rows)
}

// ResolveAlert marks an alert resolved. Resolution is terminal for the
// engine; reopening is out of scope.
func (s *SQLiteStorage) ResolveAlert(ctx context.Context, alertID string) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE alerts SET resolved = 1, resolved_at = ? WHERE id = ? AND resolved = 0
	`, time.Now().UTC(), alertID)
	if err != nil {
		return fmt.Errorf("failed to resolve alert: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check resolve result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("alert %s not found or already resolved", alertID)
	}
	return nil
}

func scanAlerts(rows *sql.Rows) ([]*types.Alert, error) {
	var alerts []*types.Alert
	for rows.Next() {
		var alert types.Alert
		var metadataJSON string
		var resolvedAt sql.NullTime

		err := rows.Scan(&alert.ID, &alert.Workspace, &alert.Type, &alert.Severity,
			&alert.Title, &alert.Description, &metadataJSON, &alert.CreatedAt,
			&alert.Resolved, &resolvedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan alert: %w", err)
		}

		if metadataJSON != "" && metadataJSON != "null" {
			if err := json.Unmarshal([]byte(metadataJSON), &alert.Metadata); err != nil {
				return nil, fmt.Errorf("failed to parse alert metadata: %w", err)
			}
		}
		if resolvedAt.Valid {
			alert.ResolvedAt = &resolvedAt.Time
		}

		alerts = append(alerts, &alert)
	}

	return alerts, rows.Err()
}
