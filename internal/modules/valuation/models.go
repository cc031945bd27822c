package valuation

// Method identifies a valuation model.
type Method string

const (
	MethodPE     Method = "pe"
	MethodPB     Method = "pb"
	MethodDDM    Method = "ddm"
	MethodGraham Method = "graham"
	MethodDCF    Method = "dcf"
)

// Estimate is the result of one valuation model run against a snapshot.
// Estimates are immutable once produced; concurrent analyses of the same
// snapshot may share them freely.
type Estimate struct {
	Method     Method             `json:"method"`
	FairValue  float64            `json:"fair_value"`
	InputsUsed map[string]float64 `json:"inputs_used"`
	// Outputs carries the model's secondary figures (growth-adjusted fair
	// value, PEG ratio, margin-of-safety price, ...) keyed by name.
	Outputs map[string]float64 `json:"outputs,omitempty"`
}

// ModelFailure records a model that could not produce an estimate because
// its parameter combination was mathematically invalid. Missing inputs are
// not failures; those models are simply skipped.
type ModelFailure struct {
	Method Method `json:"method"`
	Reason string `json:"reason"`
}

// Aggregated is the combined view over every usable estimate.
// When no model produced a usable fair value, Available is false and
// AverageFairValue/UpsidePercent are meaningless and must not be consumed.
type Aggregated struct {
	Available        bool           `json:"available"`
	AverageFairValue float64        `json:"average_fair_value"`
	CurrentPrice     float64        `json:"current_price"`
	UpsidePercent    float64        `json:"upside_percent"`
	Components       []Estimate     `json:"components"`
	Failures         []ModelFailure `json:"failures,omitempty"`
}

// Upside returns the upside percentage and whether it is defined.
func (a *Aggregated) Upside() (float64, bool) {
	if !a.Available {
		return 0, false
	}
	return a.UpsidePercent, true
}
