package scoring

// DefaultIncorrectChoicePenalty is the fraction of max score deducted
// per share of incorrect selections on a multi-select choice question.
// Kept as a named constant so callers can override it via Options.
const DefaultIncorrectChoicePenalty = 0.5

// DefaultRoundingPrecision is the number of decimal places used for
// percentages and rounded scores.
const DefaultRoundingPrecision = 2

// Options configures a Calculator. Construct via DefaultOptions and
// adjust; the zero value disables every branch, so sparse external
// input must go through Overrides instead. Passing nil to NewCalculator
// uses DefaultOptions.
type Options struct {
	// StrictMode makes a missing response to a required question an
	// error instead of a silent zero.
	StrictMode bool
	// PartialCredit enables the proportional credit branches (multi
	// select, text length falloff, number range falloff, composite
	// threshold scaling).
	PartialCredit bool
	// TimeBasedScoring enables the time bonus/penalty adjustment when
	// both Context.TimeSpent and Question.ExpectedTime are present.
	TimeBasedScoring bool
	// WeightedScoring applies question and section weight multipliers.
	WeightedScoring bool
	// RoundingPrecision is the number of decimal places for percentages
	// and rounded scores. Negative values fall back to the default.
	RoundingPrecision int
	// IncorrectChoicePenalty overrides the multi-select penalty factor.
	// Zero falls back to DefaultIncorrectChoicePenalty.
	IncorrectChoicePenalty float64
}

// DefaultOptions returns the standard configuration: lenient, partial
// credit and weighting on, time-based scoring off.
func DefaultOptions() Options {
	return Options{
		StrictMode:             false,
		PartialCredit:          true,
		TimeBasedScoring:       false,
		WeightedScoring:        true,
		RoundingPrecision:      DefaultRoundingPrecision,
		IncorrectChoicePenalty: DefaultIncorrectChoicePenalty,
	}
}

// normalized resolves fallback values once, so scoring never re-derives
// defaults per call.
func (o Options) normalized() Options {
	if o.RoundingPrecision < 0 {
		o.RoundingPrecision = DefaultRoundingPrecision
	}
	if o.IncorrectChoicePenalty <= 0 {
		o.IncorrectChoicePenalty = DefaultIncorrectChoicePenalty
	}
	return o
}

// Overrides is the wire form of Options for callers that supply only
// some fields, typically decoded from JSON. Nil fields keep their
// defaults, so `{"strictMode":true}` does not silently switch off
// partial credit or weighting.
type Overrides struct {
	StrictMode             *bool    `json:"strictMode,omitempty"`
	PartialCredit          *bool    `json:"partialCredit,omitempty"`
	TimeBasedScoring       *bool    `json:"timeBasedScoring,omitempty"`
	WeightedScoring        *bool    `json:"weightedScoring,omitempty"`
	RoundingPrecision      *int     `json:"roundingPrecision,omitempty"`
	IncorrectChoicePenalty *float64 `json:"incorrectChoicePenalty,omitempty"`
}

// Resolve overlays the supplied fields onto DefaultOptions.
func (o *Overrides) Resolve() Options {
	opts := DefaultOptions()
	if o == nil {
		return opts
	}
	if o.StrictMode != nil {
		opts.StrictMode = *o.StrictMode
	}
	if o.PartialCredit != nil {
		opts.PartialCredit = *o.PartialCredit
	}
	if o.TimeBasedScoring != nil {
		opts.TimeBasedScoring = *o.TimeBasedScoring
	}
	if o.WeightedScoring != nil {
		opts.WeightedScoring = *o.WeightedScoring
	}
	if o.RoundingPrecision != nil {
		opts.RoundingPrecision = *o.RoundingPrecision
	}
	if o.IncorrectChoicePenalty != nil {
		opts.IncorrectChoicePenalty = *o.IncorrectChoicePenalty
	}
	return opts.normalized()
}

// Context carries per-invocation scoring context supplied by the caller.
type Context struct {
	// TimeSpent is the time in seconds spent on the question being
	// scored. Only read when time-based scoring is enabled.
	TimeSpent float64
}
