package task

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOverdue(t *testing.T) {
	now := time.Date(2026, time.March, 4, 12, 0, 0, 0, time.UTC)
	past := now.AddDate(0, 0, -1)
	future := now.AddDate(0, 0, 1)

	tests := []struct {
		name string
		task Task
		want bool
	}{
		{"past due and pending", Task{Status: StatusPending, DueDate: &past}, true},
		{"past due and in progress", Task{Status: StatusInProgress, DueDate: &past}, true},
		{"past due but completed", Task{Status: StatusCompleted, DueDate: &past}, false},
		{"future due", Task{Status: StatusPending, DueDate: &future}, false},
		{"no due date", Task{Status: StatusPending}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.task.Overdue(now))
		})
	}
}

func TestDueOn(t *testing.T) {
	morning := time.Date(2026, time.March, 4, 8, 0, 0, 0, time.UTC)
	evening := time.Date(2026, time.March, 4, 22, 0, 0, 0, time.UTC)
	nextDay := time.Date(2026, time.March, 5, 8, 0, 0, 0, time.UTC)

	tk := Task{DueDate: &morning}
	assert.True(t, tk.DueOn(evening), "same calendar day regardless of hour")
	assert.False(t, tk.DueOn(nextDay))
	assert.False(t, (&Task{}).DueOn(morning))
}

func TestFilterMatches(t *testing.T) {
	due := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)
	tk := Task{
		Status:   StatusPending,
		Category: CategoryWork,
		Priority: PriorityHigh,
		FolioID:  "folio-1",
		DueDate:  &due,
	}

	otherDay := due.AddDate(0, 0, 1)

	tests := []struct {
		name   string
		filter Filter
		want   bool
	}{
		{"zero filter matches all", Filter{}, true},
		{"status match", Filter{Status: StatusPending}, true},
		{"status mismatch", Filter{Status: StatusCompleted}, false},
		{"category match", Filter{Category: CategoryWork}, true},
		{"priority mismatch", Filter{Priority: PriorityLow}, false},
		{"folio match", Filter{FolioID: "folio-1"}, true},
		{"folio mismatch", Filter{FolioID: "folio-2"}, false},
		{"due day match", Filter{DueOn: &due}, true},
		{"due day mismatch", Filter{DueOn: &otherDay}, false},
		{"all fields", Filter{Status: StatusPending, Category: CategoryWork, Priority: PriorityHigh, FolioID: "folio-1"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Matches(&tk))
		})
	}
}

func TestValid(t *testing.T) {
	for _, c := range Categories() {
		assert.True(t, c.Valid(), "category %q", c)
	}
	assert.False(t, Category("nope").Valid())

	assert.True(t, StatusInProgress.Valid())
	assert.False(t, Status("paused").Valid())

	assert.True(t, PriorityUrgent.Valid())
	assert.False(t, Priority("critical").Valid())
}
