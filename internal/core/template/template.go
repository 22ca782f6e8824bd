// Package template detects applicable task templates for extracted task
// text and ranks existing tasks by similarity.
package template

import (
	"regexp"
	"sort"
	"strings"

	"github.com/colonyops/taskwright/internal/core/task"
)

// Template is a fixed checklist and time estimate associated with a
// detected task intent. Immutable; optionally attached to a task at
// creation or confirmation time.
type Template struct {
	Type          string        `json:"type"`
	Name          string        `json:"name"`
	Icon          string        `json:"icon"`
	Subtasks      []string      `json:"subtasks"`
	EstimatedTime string        `json:"estimated_time"`
	Category      task.Category `json:"category"`
}

// entry pairs a template with its trigger pattern and relevance keywords.
// Keyword lists are distinct from, but overlap with, the trigger patterns.
type entry struct {
	template Template
	trigger  *regexp.Regexp
	keywords []string
}

// catalog holds the eight built-in templates in detection order.
var catalog = []entry{
	{
		template: Template{
			Type: "meeting", Name: "Meeting Preparation", Icon: "📅",
			Subtasks: []string{
				"Review agenda",
				"Prepare talking points",
				"Gather relevant documents",
				"Send calendar invite",
				"Book meeting room or call link",
			},
			EstimatedTime: "30-60 minutes",
			Category:      task.CategoryWork,
		},
		trigger:  regexp.MustCompile(`(?i)\b(meeting|meet with|sync|standup|1:1|one-on-one|catch up with)\b`),
		keywords: []string{"meeting", "agenda", "attendees", "discuss", "sync", "standup", "room", "invite"},
	},
	{
		template: Template{
			Type: "communication", Name: "Communication", Icon: "📞",
			Subtasks: []string{
				"Draft key points",
				"Make contact",
				"Note outcomes",
				"Schedule follow-up if needed",
			},
			EstimatedTime: "15-30 minutes",
			Category:      task.CategoryWork,
		},
		trigger:  regexp.MustCompile(`(?i)\b(call|phone|email|text|message|contact|reach out|follow up)\b`),
		keywords: []string{"call", "phone", "email", "message", "contact", "reply", "respond", "follow"},
	},
	{
		template: Template{
			Type: "research", Name: "Research", Icon: "🔍",
			Subtasks: []string{
				"Define the question",
				"Gather sources",
				"Take notes",
				"Summarize findings",
			},
			EstimatedTime: "1-2 hours",
			Category:      task.CategoryWork,
		},
		trigger:  regexp.MustCompile(`(?i)\b(research|investigate|look into|find out|compare|evaluate)\b`),
		keywords: []string{"research", "investigate", "compare", "options", "sources", "findings", "learn"},
	},
	{
		template: Template{
			Type: "shopping", Name: "Shopping", Icon: "🛒",
			Subtasks: []string{
				"Make a list",
				"Check what's already on hand",
				"Compare prices",
				"Make the purchase",
			},
			EstimatedTime: "30-60 minutes",
			Category:      task.CategoryPersonal,
		},
		trigger:  regexp.MustCompile(`(?i)\b(buy|purchase|shop|shopping|order|groceries|grocery)\b`),
		keywords: []string{"buy", "purchase", "shop", "order", "store", "groceries", "list", "price"},
	},
	{
		template: Template{
			Type: "appointment", Name: "Appointment", Icon: "🏥",
			Subtasks: []string{
				"Find provider contact info",
				"Check availability",
				"Book the appointment",
				"Add to calendar",
			},
			EstimatedTime: "10-20 minutes",
			Category:      task.CategoryPersonal,
		},
		trigger:  regexp.MustCompile(`(?i)\b(appointment|doctor|dentist|checkup|check-up|book.{0,20}(?:visit|slot))\b`),
		keywords: []string{"appointment", "doctor", "dentist", "book", "visit", "calendar", "checkup"},
	},
	{
		template: Template{
			Type: "writing", Name: "Writing", Icon: "✍️",
			Subtasks: []string{
				"Outline main points",
				"Write first draft",
				"Revise and edit",
				"Final review",
			},
			EstimatedTime: "1-3 hours",
			Category:      task.CategoryCreative,
		},
		trigger:  regexp.MustCompile(`(?i)\b(write|draft|blog|article|essay|report|document|post)\b`),
		keywords: []string{"write", "draft", "blog", "article", "outline", "edit", "publish", "document"},
	},
	{
		template: Template{
			Type: "administrative", Name: "Administrative", Icon: "📋",
			Subtasks: []string{
				"Gather required documents",
				"Fill out forms",
				"Submit or file",
				"Keep confirmation",
			},
			EstimatedTime: "30-90 minutes",
			Category:      task.CategoryAdministrative,
		},
		trigger:  regexp.MustCompile(`(?i)\b(tax|taxes|insurance|renew|license|registration|form|paperwork|bill|bank)\b`),
		keywords: []string{"tax", "insurance", "renew", "form", "paperwork", "submit", "file", "bill", "deadline"},
	},
	{
		template: Template{
			Type: "learning", Name: "Learning", Icon: "📚",
			Subtasks: []string{
				"Pick learning material",
				"Set aside study time",
				"Work through material",
				"Practice or apply",
			},
			EstimatedTime: "1-2 hours",
			Category:      task.CategoryPersonal,
		},
		trigger:  regexp.MustCompile(`(?i)\b(learn|study|course|tutorial|practice|read up on)\b`),
		keywords: []string{"learn", "study", "course", "tutorial", "practice", "chapter", "lesson", "skill"},
	},
}

// MaxSuggestions caps how many templates Detect returns.
const MaxSuggestions = 2

// ByType returns the built-in template with the given type.
func ByType(typ string) (Template, bool) {
	for _, e := range catalog {
		if e.template.Type == typ {
			return e.template, true
		}
	}
	return Template{}, false
}

// All returns every built-in template in detection order.
func All() []Template {
	out := make([]Template, 0, len(catalog))
	for _, e := range catalog {
		out = append(out, e.template)
	}
	return out
}

// Detect returns templates whose trigger matches the combined text and
// context, ranked by keyword relevance, truncated to MaxSuggestions. Ties
// keep detection order.
func Detect(text, context string) []Template {
	combined := strings.ToLower(text + " " + context)

	type scored struct {
		template Template
		score    int
	}
	var matched []scored
	for _, e := range catalog {
		if !e.trigger.MatchString(combined) {
			continue
		}
		score := 0
		for _, kw := range e.keywords {
			if strings.Contains(combined, kw) {
				score++
			}
		}
		matched = append(matched, scored{e.template, score})
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].score > matched[j].score
	})

	if len(matched) > MaxSuggestions {
		matched = matched[:MaxSuggestions]
	}

	out := make([]Template, len(matched))
	for i, m := range matched {
		out[i] = m.template
	}
	return out
}
