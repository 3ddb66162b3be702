package http

import (
	"net/url"
	"testing"
	"time"
)

func TestParseMonthParams(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		query     string
		wantYear  int
		wantMonth int
		wantValid bool
	}{
		{"both provided", "year=2024&month=2", 2024, 2, true},
		{"defaults to now", "", 2025, 6, true},
		{"only month", "month=12", 2025, 12, true},
		{"garbage ignored", "year=abc&month=xyz", 2025, 6, true},
		{"month out of range", "month=13", 2025, 13, false},
		{"month zero", "month=0", 2025, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, _ := url.ParseQuery(tt.query)
			got := ParseMonthParams(q, now)
			if got.Year != tt.wantYear || got.Month != tt.wantMonth {
				t.Errorf("ParseMonthParams() = %+v, want %d-%d", got, tt.wantYear, tt.wantMonth)
			}
			if got.Valid() != tt.wantValid {
				t.Errorf("Valid() = %v, want %v", got.Valid(), tt.wantValid)
			}
		})
	}
}
