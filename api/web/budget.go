package web

import "encoding/json"

// Polling and timeout tuning shared by every async form. The browser reads
// these from data attributes so the page script and the server never
// disagree on them.
const (
	// PollIntervalMillis is the fixed delay between task status fetches.
	PollIntervalMillis = 2000

	// BudgetBaseMillis is the floor of the watchdog timeout for any
	// submitted job.
	BudgetBaseMillis = 120000
	// BudgetURLExtraMillis is added when the job has to fetch a remote
	// page first.
	BudgetURLExtraMillis = 60000
	// BudgetPerUnitMillis is added per generated unit: one variant, one
	// captioned image.
	BudgetPerUnitMillis = 45000

	// FetchRetryLimit is how many consecutive failed status fetches the
	// poller tolerates before it gives up on the row.
	FetchRetryLimit = 3
	// FetchRetryBaseMillis is the first retry delay; each further retry
	// doubles it.
	FetchRetryBaseMillis = 2000
)

// EstimateBudget computes the watchdog timeout for one submission.
func EstimateBudget(hasURL bool, units int) int64 {
	estimate := int64(BudgetBaseMillis)
	if hasURL {
		estimate += BudgetURLExtraMillis
	}
	if units > 0 {
		estimate += int64(units) * BudgetPerUnitMillis
	}
	return estimate
}

// PollConfig is serialized into a form's data-poll attribute. It carries
// the budget constants too, so the page script recomputes estimates from
// server-owned numbers instead of duplicating them.
type PollConfig struct {
	IntervalMillis  int   `json:"intervalMs"`
	BudgetMillis    int64 `json:"budgetMs"`
	RetryLimit      int   `json:"retryLimit"`
	RetryBaseMillis int   `json:"retryBaseMs"`
	BaseMillis      int   `json:"baseMs"`
	URLExtraMillis  int   `json:"urlExtraMs"`
	PerUnitMillis   int   `json:"perUnitMs"`
}

// NewPollConfig builds the poll settings for a form. BudgetMillis is the
// estimate for the form's render-time shape; forms with budget-bearing
// inputs recompute it client-side from the embedded constants.
func NewPollConfig(hasURL bool, units int) PollConfig {
	return PollConfig{
		IntervalMillis:  PollIntervalMillis,
		BudgetMillis:    EstimateBudget(hasURL, units),
		RetryLimit:      FetchRetryLimit,
		RetryBaseMillis: FetchRetryBaseMillis,
		BaseMillis:      BudgetBaseMillis,
		URLExtraMillis:  BudgetURLExtraMillis,
		PerUnitMillis:   BudgetPerUnitMillis,
	}
}

// Attr renders the config as the JSON the data attribute carries.
func (c PollConfig) Attr() string {
	data, err := json.Marshal(c)
	if err != nil {
		return "{}"
	}
	return string(data)
}
