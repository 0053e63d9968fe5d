package storage

import (
	"context"
	"fmt"
	"time"
)

// ResolverDecision is one audit record of a gate decision during resolution.
type ResolverDecision struct {
	Query      string
	Code       string
	Action     string
	Reason     string
	Detail     string
	Confidence float64
	CreatedAt  time.Time
}

// LogResolverDecision appends a gate decision to the audit log. Best-effort:
// callers typically ignore the error apart from logging it, a lost audit row
// must never fail a resolution.
func (db *DB) LogResolverDecision(ctx context.Context, d ResolverDecision) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO resolver_decisions (query, product_code, action, reason, detail, confidence)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, toText(d.Query), toText(d.Code), d.Action, d.Reason, toText(d.Detail), d.Confidence)
	if err != nil {
		return fmt.Errorf("log resolver decision: %w", err)
	}

	return nil
}

// DecisionReasonStat aggregates audit rows per blocking/boosting reason.
type DecisionReasonStat struct {
	Action string
	Reason string
	Count  int
}

// GetDecisionStats returns decision counts by action and reason since the
// given time, most frequent first.
func (db *DB) GetDecisionStats(ctx context.Context, since time.Time, limit int) ([]DecisionReasonStat, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT action, reason, COUNT(*)::int
		FROM resolver_decisions
		WHERE created_at >= $1
		GROUP BY action, reason
		ORDER BY COUNT(*) DESC
		LIMIT $2
	`, since, limit)
	if err != nil {
		return nil, fmt.Errorf("query decision stats: %w", err)
	}
	defer rows.Close()

	stats := make([]DecisionReasonStat, 0, limit)

	for rows.Next() {
		var entry DecisionReasonStat
		if err := rows.Scan(&entry.Action, &entry.Reason, &entry.Count); err != nil {
			return nil, fmt.Errorf("scan decision stat row: %w", err)
		}

		stats = append(stats, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate decision stat rows: %w", err)
	}

	return stats, nil
}
