package match

// Decision actions reported to the observer.
const (
	ActionBlocked   = "blocked"
	ActionSalvaged  = "salvaged"
	ActionBoosted   = "boosted"
	ActionPenalized = "penalized"
)

// Blocking and annotation reasons.
const (
	ReasonBrandMismatch    = "brand_mismatch"
	ReasonCategoryConflict = "category_conflict"
	ReasonFormIncompatible = "form_incompatible"
	ReasonCategoryMatch    = "category_match"
)

// Decision describes one gating decision for observability. It is a side
// channel: dropping every Decision on the floor must not change gate output.
type Decision struct {
	Code       string
	Name       string
	Action     string
	Reason     string
	Detail     string
	Confidence float64
	Tags       []string
}

// Observer receives gate decisions. Implementations live outside this
// package so the matching core stays free of concrete logging and metrics
// dependencies.
type Observer interface {
	Observe(d Decision)
}

type noopObserver struct{}

func (noopObserver) Observe(Decision) {}

// NopObserver returns an observer that discards every decision.
func NopObserver() Observer {
	return noopObserver{}
}
