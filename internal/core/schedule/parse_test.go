package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/taskwright/internal/core/extract"
)

func TestParseTimeEstimate(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
		ok   bool
	}{
		{"hours", "2 hours", 120, true},
		{"single hour", "1 hour", 60, true},
		{"minutes", "30 minutes", 30, true},
		{"range means the midpoint", "1-3 hours", 120, true},
		{"minute range rounds", "15-30 minutes", 23, true},
		{"range with to", "1 to 2 hours", 90, true},
		{"fractional hours", "1.5 hours", 90, true},
		{"hours plus minutes", "1 hour 30 minutes", 90, true},
		{"short minute unit", "90 min", 90, true},
		{"bare m suffix", "45m", 45, true},
		{"bare h suffix", "2h", 120, true},
		{"embedded in sentence", "should take about 2 hours I think", 120, true},
		{"empty", "", 0, false},
		{"no duration", "sometime soon", 0, false},
		{"zero", "0 minutes", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseTimeEstimate(tt.text)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDate(t *testing.T) {
	// A Wednesday afternoon.
	now := time.Date(2026, time.March, 4, 15, 30, 0, 0, time.UTC)

	day := func(d int) time.Time {
		return time.Date(2026, time.March, d, 0, 0, 0, 0, time.UTC)
	}

	tests := []struct {
		name string
		text string
		want time.Time
		ok   bool
	}{
		{"today", "today", day(4), true},
		{"tonight is still today", "tonight", day(4), true},
		{"tomorrow", "tomorrow", day(5), true},
		{"upcoming weekday", "friday", day(6), true},
		{"weekday is case-insensitive", "Friday", day(6), true},
		{"same weekday rolls a full week", "wednesday", day(11), true},
		{"next weekday", "next monday", day(9), true},
		{"next week", "next week", day(11), true},
		{"next month", "next month", time.Date(2026, time.April, 4, 0, 0, 0, 0, time.UTC), true},
		{"iso date", "2026-03-15", day(15), true},
		{"us date", "3/15/2026", day(15), true},
		{"numeric without year", "3/15", day(15), true},
		{"dashed numeric", "3-15-2026", day(15), true},
		{"dashed without year", "3-15", day(15), true},
		{"month and day without year", "March 5", day(5), true},
		{"ordinal day suffix", "March 5th", day(5), true},
		{"abbreviated month with period", "Mar. 5", day(5), true},
		{"day of month", "5th of March", day(5), true},
		{"day before month", "5 March", day(5), true},
		{"empty", "", time.Time{}, false},
		{"unparseable", "whenever", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDate(tt.text, now)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.True(t, tt.want.Equal(got), "want %v, got %v", tt.want, got)
			}
		})
	}
}

// Every date reference the extractor recognizes must resolve to a due
// date, otherwise a confirmed task silently loses its deadline.
func TestParseDateResolvesExtractedHints(t *testing.T) {
	now := time.Date(2026, time.March, 4, 15, 30, 0, 0, time.UTC)

	messages := []string{
		"finish the slides today",
		"call mom tomorrow",
		"report due friday",
		"review the draft next monday",
		"plan the offsite next week",
		"renew the lease next month",
		"submit the form by 2026-03-15",
		"submit the form by 3/15",
		"submit the form by 3/15/2026",
		"dentist visit on March 5th",
		"dentist visit on Mar. 5",
		"rent is due 5th of March",
	}

	for _, msg := range messages {
		t.Run(msg, func(t *testing.T) {
			hint := extract.ExtractDate(msg)
			require.NotNil(t, hint)

			_, ok := ParseDate(hint.Raw, now)
			assert.True(t, ok, "hint %q did not resolve", hint.Raw)
		})
	}
}
