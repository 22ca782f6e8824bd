package extract

import (
	"strings"

	"github.com/colonyops/taskwright/internal/core/task"
)

// categoryKeywords drive the scoring heuristic. Each hit counts one point
// for its category.
var categoryKeywords = map[task.Category][]string{
	task.CategoryWork: {
		"meeting", "client", "project", "deadline", "report", "presentation",
		"budget", "boss", "colleague", "office", "proposal", "contract",
		"invoice", "standup", "review", "sprint", "work",
	},
	task.CategoryPersonal: {
		"family", "friend", "home", "doctor", "dentist", "grocery",
		"groceries", "birthday", "gym", "workout", "vacation", "dinner",
		"kids", "pet", "house", "weekend",
	},
	task.CategoryCreative: {
		"design", "write", "writing", "draw", "paint", "music", "blog",
		"photo", "video", "creative", "art", "compose", "sketch", "edit",
		"record", "podcast",
	},
	task.CategoryAdministrative: {
		"tax", "taxes", "insurance", "bank", "bill", "bills", "renew",
		"license", "registration", "form", "paperwork", "appointment",
		"file", "submit", "passport", "visa",
	},
}

// personalTimeMarkers override a work win when the text clearly points at
// personal time.
var personalTimeMarkers = []string{"weekend", "evening", "personal time", "day off"}

// Categorize scores the combined text and context against each category's
// keyword list and returns the category with the strictly highest score.
// Ties and all-zero scores resolve to general.
func Categorize(text, context string) task.Category {
	combined := strings.ToLower(text + " " + context)

	scores := make(map[task.Category]int, len(categoryKeywords))
	for cat, words := range categoryKeywords {
		for _, w := range words {
			if containsWord(combined, w) {
				scores[cat]++
			}
		}
	}

	best := task.CategoryGeneral
	bestScore := 0
	tied := false
	for _, cat := range []task.Category{
		task.CategoryWork,
		task.CategoryPersonal,
		task.CategoryCreative,
		task.CategoryAdministrative,
	} {
		switch {
		case scores[cat] > bestScore:
			best, bestScore, tied = cat, scores[cat], false
		case scores[cat] == bestScore && bestScore > 0:
			tied = true
		}
	}
	if bestScore == 0 || tied {
		return task.CategoryGeneral
	}

	// A work win with explicit personal-time wording is usually a personal
	// errand mentioned in a work conversation.
	if best == task.CategoryWork && scores[task.CategoryPersonal] > 0 {
		for _, marker := range personalTimeMarkers {
			if strings.Contains(combined, marker) {
				return task.CategoryPersonal
			}
		}
	}

	return best
}
