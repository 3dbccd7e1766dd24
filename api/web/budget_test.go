package web

import (
	"encoding/json"
	"testing"
)

func TestEstimateBudgetBase(t *testing.T) {
	if got := EstimateBudget(false, 0); got != 120000 {
		t.Errorf("EstimateBudget(false, 0) = %d, want base 120000", got)
	}
}

func TestEstimateBudgetURLSource(t *testing.T) {
	if got := EstimateBudget(true, 0); got != 180000 {
		t.Errorf("EstimateBudget(true, 0) = %d, want base plus url extra", got)
	}
}

func TestEstimateBudgetCaptionBatch(t *testing.T) {
	// Two images fetched by URL: 120000 + 60000 + 2*45000.
	if got := EstimateBudget(true, 2); got != 270000 {
		t.Errorf("EstimateBudget(true, 2) = %d, want 270000", got)
	}
}

func TestEstimateBudgetVariants(t *testing.T) {
	if got := EstimateBudget(false, 4); got != 300000 {
		t.Errorf("EstimateBudget(false, 4) = %d, want 120000 + 4*45000", got)
	}
}

func TestPollConfigAttr(t *testing.T) {
	attr := NewPollConfig(true, 2).Attr()

	var parsed PollConfig
	if err := json.Unmarshal([]byte(attr), &parsed); err != nil {
		t.Fatalf("attr is not valid json: %v", err)
	}
	if parsed.IntervalMillis != 2000 {
		t.Errorf("intervalMs = %d, want fixed 2000", parsed.IntervalMillis)
	}
	if parsed.BudgetMillis != 270000 {
		t.Errorf("budgetMs = %d, want 270000", parsed.BudgetMillis)
	}
	// A failed status fetch retries with doubling delays, then the row is
	// marked failed. Chosen behavior, asserted here so a change is loud.
	if parsed.RetryLimit != 3 {
		t.Errorf("retryLimit = %d, want 3", parsed.RetryLimit)
	}
	if parsed.RetryBaseMillis != 2000 {
		t.Errorf("retryBaseMs = %d, want 2000", parsed.RetryBaseMillis)
	}
	if parsed.BaseMillis != 120000 || parsed.URLExtraMillis != 60000 || parsed.PerUnitMillis != 45000 {
		t.Errorf("budget constants = %d/%d/%d", parsed.BaseMillis, parsed.URLExtraMillis, parsed.PerUnitMillis)
	}
}
