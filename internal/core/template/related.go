package template

import (
	"sort"
	"strings"

	"github.com/colonyops/taskwright/internal/core/task"
)

// Reasons a task is considered related to a candidate.
const (
	ReasonSimilarContent  = "Similar content"
	ReasonSameCategory    = "Same category"
	ReasonRelatedKeywords = "Related keywords"
)

// RelatedTask is an existing task ranked by similarity to a candidate.
type RelatedTask struct {
	Task   task.Task `json:"task"`
	Score  float64   `json:"score"`
	Reason string    `json:"reason"`
}

// similarity thresholds for inclusion and reason tagging.
const (
	includeThreshold = 0.3
	similarThreshold = 0.5
	categoryBonus    = 0.2
)

var stopWords = map[string]bool{
	"the": true, "and": true, "for": true, "with": true, "about": true,
	"that": true, "this": true, "from": true, "have": true, "will": true,
	"need": true, "some": true, "them": true, "then": true, "than": true,
	"are": true, "was": true, "were": true, "been": true, "into": true,
	"your": true, "what": true, "when": true, "where": true, "should": true,
}

// FindRelated ranks non-completed tasks by Jaccard similarity of their
// title and description tokens against the candidate text. A matching
// category earns a bonus and is itself grounds for inclusion.
func FindRelated(tasks []task.Task, text string, category task.Category, limit int) []RelatedTask {
	candidate := tokenize(text)

	var out []RelatedTask
	for _, t := range tasks {
		if t.Status == task.StatusCompleted {
			continue
		}

		sim := jaccard(candidate, tokenize(t.Title+" "+t.Description))
		sameCategory := category != "" && t.Category == category

		if sim <= includeThreshold && !sameCategory {
			continue
		}

		score := sim
		if sameCategory {
			score += categoryBonus
		}

		reason := ReasonRelatedKeywords
		switch {
		case sim > similarThreshold:
			reason = ReasonSimilarContent
		case sameCategory:
			reason = ReasonSameCategory
		}

		out = append(out, RelatedTask{Task: t, Score: score, Reason: reason})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// tokenize lower-cases, splits on non-letter/digit runs, and drops stop
// words and tokens of length <= 2.
func tokenize(s string) map[string]bool {
	tokens := make(map[string]bool)
	for _, tok := range strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !('a' <= r && r <= 'z' || '0' <= r && r <= '9')
	}) {
		if len(tok) <= 2 || stopWords[tok] {
			continue
		}
		tokens[tok] = true
	}
	return tokens
}

// jaccard is intersection over union of two token sets.
func jaccard(a, b map[string]bool) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	inter := 0
	for tok := range a {
		if b[tok] {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}
