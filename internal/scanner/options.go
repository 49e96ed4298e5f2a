package scanner

// Options is the pure scan configuration; it is passed explicitly into every
// scan and never read from ambient state.
type Options struct {
	// BaseCurrency is the currency profit is reported in and the one
	// cross-currency cycles start and end in.
	BaseCurrency string
	// MinProfit drops opportunities below this total profit.
	MinProfit float64
	// SameIntermediateStore forces leg 2 and leg 3 of a cycle into the same
	// store.
	SameIntermediateStore bool
	// HideWarnings drops any opportunity carrying a warning.
	HideWarnings bool
	// CorrectProfit clamps same-currency quantities to what the buyer can
	// actually afford.
	CorrectProfit bool
	// MaxCombos caps the number of leg combinations the cycle scan examines;
	// zero means the default cap.
	MaxCombos int
}

// FXParams is the caller-supplied rate for the fixed-rate scan, expressed as
// two positive magnitudes: RateA units of CurrencyA are worth RateB units of
// CurrencyB.
type FXParams struct {
	CurrencyA string
	CurrencyB string
	RateA     float64
	RateB     float64
}
