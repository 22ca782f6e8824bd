// Package extract finds candidate task phrases in free-form message text.
//
// Extraction is rule-based: an ordered table of intent-tagged phrase
// patterns produces candidate spans, which are cleaned, scored with a
// confidence heuristic, categorized, and de-duplicated. All functions are
// pure over their inputs.
package extract

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/colonyops/taskwright/internal/core/task"
)

// Intent tags the kind of phrasing that produced a candidate.
type Intent string

// Extraction rule intents.
const (
	IntentObligation    Intent = "obligation"
	IntentReminder      Intent = "reminder"
	IntentCommunication Intent = "communication"
	IntentPlanning      Intent = "planning"
	IntentDeadline      Intent = "deadline"
)

// DateHint is a date reference found in the surrounding text. Confidence is
// fixed when a pattern matches; extraction never fails, only returns nil.
type DateHint struct {
	Raw        string  `json:"raw"`
	Confidence float64 `json:"confidence"`
}

// Candidate is an extracted, not-yet-confirmed task proposal. It is
// transient and never persisted.
type Candidate struct {
	Text          string        `json:"text"`
	OriginalMatch string        `json:"original_match"`
	Intent        Intent        `json:"intent"`
	Confidence    float64       `json:"confidence"`
	Category      task.Category `json:"category"`
	Date          *DateHint     `json:"date,omitempty"`
	Context       string        `json:"context"`
}

// rule pairs a phrase pattern with the intent it signals. The pattern's
// first capture group is the candidate span.
type rule struct {
	intent  Intent
	pattern *regexp.Regexp
}

// rules is matched in order; earlier intents are more specific phrasings.
var rules = []rule{
	{IntentObligation, regexp.MustCompile(`(?i)\bI\s+(?:need|have)\s+to\s+([^.!?\n]{4,199})`)},
	{IntentObligation, regexp.MustCompile(`(?i)\bI\s+should\s+([^.!?\n]{4,199})`)},
	{IntentObligation, regexp.MustCompile(`(?i)\bI\s+must\s+([^.!?\n]{4,199})`)},
	{IntentReminder, regexp.MustCompile(`(?i)\bremember\s+to\s+([^.!?\n]{4,199})`)},
	{IntentReminder, regexp.MustCompile(`(?i)\bdon'?t\s+forget\s+to\s+([^.!?\n]{4,199})`)},
	{IntentCommunication, regexp.MustCompile(`(?i)\b((?:call|phone|email|text|message|contact|follow\s+up\s+with)\s+[^.!?\n]{1,190})`)},
	{IntentPlanning, regexp.MustCompile(`(?i)\b((?:plan|schedule|organize|arrange|book|set\s+up)\s+[^.!?\n]{1,190})`)},
	{IntentDeadline, regexp.MustCompile(`(?i)([^.!?\n]{4,150}?\s+(?:by|before|due)\s+[^.!?\n]{2,48})`)},
}

// leadingFiller is stripped from the front of a candidate span during
// cleaning so that differently-phrased matches of the same task collapse
// to one candidate.
var leadingFiller = []string{
	"i need to ",
	"i have to ",
	"i should ",
	"i must ",
	"remember to ",
	"don't forget to ",
	"dont forget to ",
	"to ",
	"that ",
}

// trailingDeadline matches a deadline clause at the end of a span, e.g.
// "... by Friday" or "... before tomorrow". The clause is stripped from the
// candidate text; the date itself is recovered by ExtractDate over the
// full message.
var trailingDeadline = regexp.MustCompile(`(?i)\s+(?:by|before|due)\s+(?:today|tomorrow|tonight|next\s+\w+|end\s+of\s+\w+|(?:mon|tues|wednes|thurs|fri|satur|sun)day|\d\S*)\b[^.!?\n]*$`)

var whitespace = regexp.MustCompile(`\s+`)

const (
	minSpanLen = 4
	maxSpanLen = 199

	// MinConfidence is the default floor below which candidates are dropped.
	MinConfidence = 0.3

	// MaxCandidates is the default cap on returned candidates.
	MaxCandidates = 3
)

// Options tunes extraction limits. The zero value uses the defaults. A
// non-nil MinConfidence replaces the default floor; a pointer to zero
// keeps every candidate with positive confidence.
type Options struct {
	MaxCandidates int
	MinConfidence *float64
}

func (o Options) withDefaults() Options {
	if o.MaxCandidates == 0 {
		o.MaxCandidates = MaxCandidates
	}
	if o.MinConfidence == nil {
		floor := float64(MinConfidence)
		o.MinConfidence = &floor
	}
	return o
}

// Extract returns candidate tasks found in text, sorted by confidence
// descending, de-duplicated case-insensitively by cleaned text, capped at
// the configured maximum.
func Extract(text string, opts Options) []Candidate {
	opts = opts.withDefaults()

	var (
		out  []Candidate
		seen = make(map[string]bool)
	)

	for _, r := range rules {
		for _, m := range r.pattern.FindAllStringSubmatch(text, -1) {
			span := strings.TrimSpace(m[1])
			if len(span) < minSpanLen || len(span) > maxSpanLen {
				continue
			}

			cleaned := Clean(span)
			if len(cleaned) < minSpanLen {
				continue
			}

			key := strings.ToLower(cleaned)
			if seen[key] {
				continue
			}

			conf := Confidence(cleaned)
			if conf <= *opts.MinConfidence {
				continue
			}

			seen[key] = true
			out = append(out, Candidate{
				Text:          cleaned,
				OriginalMatch: m[0],
				Intent:        r.intent,
				Confidence:    conf,
				Category:      Categorize(cleaned, text),
				Date:          ExtractDate(text),
				Context:       text,
			})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Confidence > out[j].Confidence
	})

	if len(out) > opts.MaxCandidates {
		out = out[:opts.MaxCandidates]
	}
	return out
}

// Clean normalizes a raw candidate span: strips leading filler phrases and
// any trailing deadline clause, collapses whitespace, and capitalizes the
// first letter.
func Clean(span string) string {
	s := whitespace.ReplaceAllString(strings.TrimSpace(span), " ")

	for stripped := true; stripped; {
		stripped = false
		lower := strings.ToLower(s)
		for _, prefix := range leadingFiller {
			if strings.HasPrefix(lower, prefix) {
				s = strings.TrimSpace(s[len(prefix):])
				stripped = true
				break
			}
		}
	}

	s = strings.TrimSpace(trailingDeadline.ReplaceAllString(s, ""))

	runes := []rune(s)
	if len(runes) > 0 {
		runes[0] = unicode.ToUpper(runes[0])
	}
	return string(runes)
}

// actionVerbs boost confidence when present in the cleaned text.
var actionVerbs = []string{
	"call", "email", "send", "buy", "schedule", "book", "write", "review",
	"finish", "complete", "submit", "prepare", "organize", "clean", "fix",
	"update", "check", "plan", "research", "pay",
}

// vagueWords reduce confidence; they signal musing rather than intent.
var vagueWords = []string{
	"something", "anything", "stuff", "things", "maybe", "probably",
	"possibly", "somehow", "whatever", "someday",
}

// properNoun matches a capitalized word that is not at the start of the
// text, a weak signal that the task names a specific person or thing.
var properNoun = regexp.MustCompile(`\s[A-Z][a-z]+`)

// Confidence scores a cleaned candidate in [0, 1]. Base 0.5; additive
// heuristics for action verbs and proper nouns, subtractive for vague
// wording and degenerate lengths.
func Confidence(cleaned string) float64 {
	score := 0.5
	lower := strings.ToLower(cleaned)

	for _, v := range actionVerbs {
		if containsWord(lower, v) {
			score += 0.3
			break
		}
	}

	if properNoun.MatchString(cleaned) {
		score += 0.2
	}

	for _, v := range vagueWords {
		if containsWord(lower, v) {
			score -= 0.2
			break
		}
	}

	if len(cleaned) < 10 {
		score -= 0.2
	}
	if len(cleaned) > 100 {
		score -= 0.1
	}

	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

// containsWord reports whether lower contains w on word boundaries.
func containsWord(lower, w string) bool {
	idx := 0
	for {
		i := strings.Index(lower[idx:], w)
		if i < 0 {
			return false
		}
		i += idx
		startOK := i == 0 || !isWordRune(lower[i-1])
		end := i + len(w)
		endOK := end == len(lower) || !isWordRune(lower[end])
		if startOK && endOK {
			return true
		}
		idx = i + 1
	}
}

func isWordRune(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}
