package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/taskwright/internal/core/task"
)

func TestByType(t *testing.T) {
	tmpl, ok := ByType("meeting")
	require.True(t, ok)
	assert.Equal(t, "Meeting Preparation", tmpl.Name)
	assert.Equal(t, task.CategoryWork, tmpl.Category)
	assert.NotEmpty(t, tmpl.Subtasks)

	_, ok = ByType("nonexistent")
	assert.False(t, ok)
}

func TestAll(t *testing.T) {
	all := All()
	assert.Len(t, all, 8)

	seen := make(map[string]bool)
	for _, tmpl := range all {
		assert.False(t, seen[tmpl.Type], "duplicate type %q", tmpl.Type)
		seen[tmpl.Type] = true
		assert.NotEmpty(t, tmpl.Name)
		assert.NotEmpty(t, tmpl.Subtasks)
		assert.NotEmpty(t, tmpl.EstimatedTime)
	}
}

func TestDetect(t *testing.T) {
	t.Run("single trigger", func(t *testing.T) {
		got := Detect("Call Bob about the budget", "")

		require.Len(t, got, 1)
		assert.Equal(t, "communication", got[0].Type)
	})

	t.Run("ranked by keyword relevance and truncated", func(t *testing.T) {
		got := Detect("Email Bob to book a doctor appointment and buy groceries", "")

		require.Len(t, got, MaxSuggestions)
		assert.Equal(t, "appointment", got[0].Type)
		assert.Equal(t, "shopping", got[1].Type)
	})

	t.Run("context contributes to matching", func(t *testing.T) {
		got := Detect("Prep for tomorrow", "we have a standup meeting with the team")

		require.NotEmpty(t, got)
		assert.Equal(t, "meeting", got[0].Type)
	})

	t.Run("no trigger matches", func(t *testing.T) {
		assert.Empty(t, Detect("Tidy the garage", ""))
	})
}

func TestFindRelated(t *testing.T) {
	tasks := []task.Task{
		{ID: 1, Title: "Call Bob about the budget", Category: task.CategoryWork, Status: task.StatusCompleted},
		{ID: 2, Title: "Call Bob about the budget", Category: task.CategoryWork, Status: task.StatusPending},
		{ID: 3, Title: "Water the plants", Category: task.CategoryWork, Status: task.StatusPending},
		{ID: 4, Title: "Feed the cat", Category: task.CategoryPersonal, Status: task.StatusPending},
		{ID: 5, Title: "Budget report meeting", Category: task.CategoryPersonal, Status: task.StatusInProgress},
	}

	t.Run("ranks by similarity with category bonus", func(t *testing.T) {
		got := FindRelated(tasks, "Call Bob about budget report", task.CategoryWork, 10)

		require.Len(t, got, 3)

		assert.Equal(t, int64(2), got[0].Task.ID)
		assert.Equal(t, ReasonSimilarContent, got[0].Reason)
		assert.InDelta(t, 0.95, got[0].Score, 1e-9)

		assert.Equal(t, int64(5), got[1].Task.ID)
		assert.Equal(t, ReasonRelatedKeywords, got[1].Reason)
		assert.InDelta(t, 0.4, got[1].Score, 1e-9)

		assert.Equal(t, int64(3), got[2].Task.ID)
		assert.Equal(t, ReasonSameCategory, got[2].Reason)
		assert.InDelta(t, 0.2, got[2].Score, 1e-9)
	})

	t.Run("completed tasks are skipped", func(t *testing.T) {
		got := FindRelated(tasks, "Call Bob about budget report", task.CategoryWork, 10)
		for _, r := range got {
			assert.NotEqual(t, int64(1), r.Task.ID)
		}
	})

	t.Run("limit truncates", func(t *testing.T) {
		got := FindRelated(tasks, "Call Bob about budget report", task.CategoryWork, 1)

		require.Len(t, got, 1)
		assert.Equal(t, int64(2), got[0].Task.ID)
	})

	t.Run("dissimilar other-category tasks excluded", func(t *testing.T) {
		got := FindRelated(tasks, "Call Bob about budget report", task.CategoryGeneral, 10)

		require.Len(t, got, 2)
		assert.Equal(t, int64(2), got[0].Task.ID)
		assert.Equal(t, int64(5), got[1].Task.ID)
	})

	t.Run("no tasks", func(t *testing.T) {
		assert.Empty(t, FindRelated(nil, "anything at all", task.CategoryWork, 5))
	})
}

func TestJaccard(t *testing.T) {
	a := tokenize("call bob about the budget")
	b := tokenize("call bob about budget report")

	assert.InDelta(t, 0.75, jaccard(a, b), 1e-9)
	assert.Equal(t, 1.0, jaccard(a, a))
	assert.Equal(t, 0.0, jaccard(a, tokenize("")))
	assert.Equal(t, 0.0, jaccard(tokenize(""), tokenize("")))
}
