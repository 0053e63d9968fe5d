package resolver

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/mealgram/nutrition-bot/internal/core/match"
	"github.com/mealgram/nutrition-bot/internal/platform/observability"
	"github.com/mealgram/nutrition-bot/internal/storage"
)

// DecisionSink persists gate decisions for later analysis.
type DecisionSink interface {
	LogResolverDecision(ctx context.Context, d storage.ResolverDecision) error
}

// gateObserver bridges gate decisions to logs, metrics and the audit table.
// One observer is created per resolution so every decision carries the query
// it was made for. Persisting is best-effort: a lost audit row must not fail
// the resolution, so sink errors are only logged.
type gateObserver struct {
	ctx    context.Context
	query  string
	sink   DecisionSink
	logger *zerolog.Logger
}

func (o *gateObserver) Observe(d match.Decision) {
	o.logger.Debug().
		Str("query", o.query).
		Str("code", d.Code).
		Str("product", d.Name).
		Str("action", d.Action).
		Str("reason", d.Reason).
		Str("detail", d.Detail).
		Float64("confidence", d.Confidence).
		Strs("tags", d.Tags).
		Msg("gate decision")

	observability.GateDecisions.WithLabelValues(d.Action, d.Reason).Inc()

	if o.sink == nil {
		return
	}

	err := o.sink.LogResolverDecision(o.ctx, storage.ResolverDecision{
		Query:      o.query,
		Code:       d.Code,
		Action:     d.Action,
		Reason:     d.Reason,
		Detail:     d.Detail,
		Confidence: d.Confidence,
	})
	if err != nil {
		o.logger.Warn().Err(err).Str("code", d.Code).Msg("failed to persist gate decision")
	}
}
