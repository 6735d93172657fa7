package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/teampulse/pulse/internal/types"
)

// InsertAlertIfAbsent persists the alert unless an alert with the same
// (workspace, type, title) already exists inside the dedup window.
//
// Unlike the sqlite backend this needs no explicit transaction: the
// check and the insert run as a single INSERT ... SELECT ... WHERE NOT
// EXISTS statement, so concurrent engine runs cannot both insert.
func (s *PostgresStorage) InsertAlertIfAbsent(ctx context.Context, alert *types.Alert, dedupWindow time.Duration) (bool, error) {
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

	cutoff := alert.CreatedAt.Add(-dedupWindow)

	tag, err := s.pool.Exec(ctx, `
		INSERT INTO alerts (id, workspace, type, severity, title, description, metadata, created_at, resolved)
		SELECT $1, $2, $3, $4, $5, $6, $7, $8, false
		WHERE NOT EXISTS (
			SELECT 1 FROM alerts
			WHERE workspace = $2 AND type = $3 AND title = $5 AND created_at > $9
		)
	`, alert.ID, alert.Workspace, alert.Type, alert.Severity, alert.Title,
		alert.Description, string(metadataJSON), alert.CreatedAt, cutoff)
	if err != nil {
		return false, fmt.Errorf("failed to insert alert: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

// ListUnresolvedCriticalAlertsOlderThan returns unresolved critical
// alerts created before the cutoff, oldest first.
func (s *PostgresStorage) ListUnresolvedCriticalAlertsOlderThan(ctx context.Context, workspace string, cutoff time.Time) ([]*types.Alert, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, workspace, type, severity, title, description, metadata, created_at, resolved, resolved_at
		FROM alerts
		WHERE workspace = $1 AND severity = $2 AND resolved = false AND created_at < $3
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
func (s *PostgresStorage) ExistsEscalationFor(ctx context.Context, alertID string) (bool, error) {
	var count int
	err := s.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM alerts
		WHERE type = $1 AND metadata->>'original_alert_id' = $2
	`, types.AlertEscalation, alertID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check for escalation: %w", err)
	}
	return count > 0, nil
}

// ListAlerts returns a workspace's alerts, newest first. Resolved
// alerts are included only when includeResolved is set.
func (s *PostgresStorage) ListAlerts(ctx context.Context, workspace string, includeResolved bool) ([]*types.Alert, error) {
	query := `
		SELECT id, workspace, type, severity, title, description, metadata, created_at, resolved, resolved_at
		FROM alerts
		WHERE workspace = $1
	`
	if !includeResolved {
		query += " AND resolved = false"
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.pool.Query(ctx, query, workspace)
	if err != nil {
		return nil, fmt.Errorf("failed to list alerts: %w", err)
	}
	defer rows.Close()

	return scanAlerts(rows)
}

// ResolveAlert marks an alert resolved. Resolution is terminal for the
// engine; reopening is out of scope.
func (s *PostgresStorage) ResolveAlert(ctx context.Context, alertID string) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE alerts SET resolved = true, resolved_at = $1 WHERE id = $2 AND resolved = false
	`, time.Now().UTC(), alertID)
	if err != nil {
		return fmt.Errorf("failed to resolve alert: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("alert %s not found or already resolved", alertID)
	}
	return nil
}

func scanAlerts(rows pgx.Rows) ([]*types.Alert, error) {
	var alerts []*types.Alert
	for rows.Next() {
		var alert types.Alert
		var metadataJSON []byte
		var resolvedAt *time.Time

		err := rows.Scan(&alert.ID, &alert.Workspace, &alert.Type, &alert.Severity,
			&alert.Title, &alert.Description, &metadataJSON, &alert.CreatedAt,
			&alert.Resolved, &resolvedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan alert: %w", err)
		}

		if len(metadataJSON) > 0 && string(metadataJSON) != "null" {
			if err := json.Unmarshal(metadataJSON, &alert.Metadata); err != nil {
				return nil, fmt.Errorf("failed to parse alert metadata: %w", err)
			}
		}
		alert.ResolvedAt = resolvedAt

		alerts = append(alerts, &alert)
	}

	return alerts, rows.Err()
}
