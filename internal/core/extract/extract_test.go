package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/taskwright/internal/core/task"
)

func TestExtract(t *testing.T) {
	t.Run("overlapping phrasings collapse to one candidate", func(t *testing.T) {
		got := Extract("I need to call Bob about the budget by Friday.", Options{})

		require.Len(t, got, 1)
		c := got[0]
		assert.Equal(t, "Call Bob about the budget", c.Text)
		assert.Equal(t, IntentObligation, c.Intent)
		assert.Equal(t, 1.0, c.Confidence)
		assert.Equal(t, task.CategoryWork, c.Category)
		require.NotNil(t, c.Date)
		assert.Equal(t, "Friday", c.Date.Raw)
		assert.Equal(t, DateConfidence, c.Date.Confidence)
	})

	t.Run("caps at max candidates", func(t *testing.T) {
		msg := "I need to email the client. I should review the report. " +
			"Remember to buy groceries. Don't forget to pay the bill."

		got := Extract(msg, Options{})
		assert.Len(t, got, 3)

		got = Extract(msg, Options{MaxCandidates: 10})
		assert.Len(t, got, 4)
	})

	t.Run("sorted by confidence descending", func(t *testing.T) {
		got := Extract("I need to finish the Henderson proposal. I should tidy the garage.", Options{})

		require.Len(t, got, 2)
		assert.Equal(t, "Finish the Henderson proposal", got[0].Text)
		assert.Equal(t, "Tidy the garage", got[1].Text)
		assert.Greater(t, got[0].Confidence, got[1].Confidence)
	})

	t.Run("drops candidates at or below the confidence floor", func(t *testing.T) {
		got := Extract("I need to do something sometime", Options{})
		assert.Empty(t, got)
	})

	t.Run("explicit zero floor keeps low-confidence candidates", func(t *testing.T) {
		floor := 0.0
		got := Extract("I need to do something sometime", Options{MinConfidence: &floor})
		require.Len(t, got, 1)
		assert.Equal(t, "Do something sometime", got[0].Text)
	})

	t.Run("no actionable phrasing", func(t *testing.T) {
		assert.Empty(t, Extract("The weather was lovely yesterday.", Options{}))
		assert.Empty(t, Extract("", Options{}))
	})

	t.Run("confidence stays within bounds", func(t *testing.T) {
		msgs := []string{
			"I need to call Dr. Martinez about the insurance claim by tomorrow",
			"I should probably fix stuff",
			"Remember to " + strings.Repeat("review the long report and ", 6) + "submit it",
		}
		floor := 0.01
		for _, msg := range msgs {
			for _, c := range Extract(msg, Options{MinConfidence: &floor}) {
				assert.Greater(t, c.Confidence, 0.0, "candidate %q", c.Text)
				assert.LessOrEqual(t, c.Confidence, 1.0, "candidate %q", c.Text)
			}
		}
	})
}

func TestClean(t *testing.T) {
	tests := []struct {
		name string
		span string
		want string
	}{
		{"collapses whitespace", "clean   the \t garage", "Clean the garage"},
		{"strips leading filler", "i need to clean the garage", "Clean the garage"},
		{"strips filler repeatedly", "I need to remember to buy milk", "Buy milk"},
		{"strips trailing deadline", "call mom by tomorrow", "Call mom"},
		{"strips filler then deadline", "that email the team before friday", "Email the team"},
		{"capitalizes first letter", "pay the bill", "Pay the bill"},
		{"already clean", "Submit the form", "Submit the form"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Clean(tt.span))
		})
	}
}

func TestConfidence(t *testing.T) {
	tests := []struct {
		name    string
		cleaned string
		want    float64
	}{
		{"action verb and proper noun", "Call Bob about the budget", 1.0},
		{"action verb only", "Email the client", 0.8},
		{"no signals", "Tidy the garage", 0.5},
		{"vague word", "Do something useful", 0.3},
		{"short text penalty", "Fix it", 0.6},
		{"long text penalty", "Tidy " + strings.Repeat("the garage and ", 7) + "the shed", 0.4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Confidence(tt.cleaned), 1e-9)
		})
	}
}

func TestCategorize(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		context string
		want    task.Category
	}{
		{"work keywords", "Call the client about the budget report", "", task.CategoryWork},
		{"personal keywords", "Buy groceries for dinner", "", task.CategoryPersonal},
		{"creative keywords", "Edit the podcast recording", "", task.CategoryCreative},
		{"administrative keywords", "Renew the passport", "", task.CategoryAdministrative},
		{"no keyword hits", "Do the thing", "", task.CategoryGeneral},
		{"tied scores", "Email the client about the dentist", "", task.CategoryGeneral},
		{"context contributes", "Prepare the slides", "for the client meeting", task.CategoryWork},
		{"personal time overrides work win", "Review the client report", "this weekend", task.CategoryPersonal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Categorize(tt.text, tt.context))
		})
	}
}

func TestExtractDate(t *testing.T) {
	tests := []struct {
		name    string
		context string
		want    string
	}{
		{"relative day", "do it tomorrow", "tomorrow"},
		{"weekday", "send it by Friday please", "Friday"},
		{"next period", "let's meet next week", "next week"},
		{"iso date", "due 2026-03-15 at the latest", "2026-03-15"},
		{"numeric date", "submit on 3/15", "3/15"},
		{"month name", "the party is March 5th", "March 5th"},
		{"relative beats weekday", "tomorrow or Friday", "tomorrow"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractDate(tt.context)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Raw)
			assert.Equal(t, DateConfidence, got.Confidence)
		})
	}

	t.Run("no date returns nil", func(t *testing.T) {
		assert.Nil(t, ExtractDate("nothing temporal here"))
	})
}
