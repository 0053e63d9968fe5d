package match

// Default score adjustments, overridable from configuration.
const (
	DefaultMatchBoost      = 3.0
	DefaultConflictPenalty = 5.0
)

// Gate evaluates search candidates against the expected brand and
// category/form. It is stateless apart from its configuration and safe for
// concurrent use.
type Gate struct {
	matchBoost      float64
	conflictPenalty float64
	hardBlocks      bool
	obs             Observer
}

// GateOptions configures a Gate. Zero boost/penalty values fall back to the
// defaults; a nil Observer falls back to NopObserver.
type GateOptions struct {
	MatchBoost      float64
	ConflictPenalty float64
	HardBlocks      bool
	Observer        Observer
}

// NewGate creates a gate with the given options.
func NewGate(opts GateOptions) *Gate {
	boost := opts.MatchBoost
	if boost <= 0 {
		boost = DefaultMatchBoost
	}

	penalty := opts.ConflictPenalty
	if penalty <= 0 {
		penalty = DefaultConflictPenalty
	}

	obs := opts.Observer
	if obs == nil {
		obs = NopObserver()
	}

	return &Gate{
		matchBoost:      boost,
		conflictPenalty: penalty,
		hardBlocks:      opts.HardBlocks,
		obs:             obs,
	}
}
