package extract

import "regexp"

// DateConfidence is the fixed confidence assigned to any matched date
// reference. Pattern matching says where a date is, not that the parse of
// it is certain.
const DateConfidence = 0.7

// datePatterns are tried in order; the first match wins. Relative terms
// beat weekday names beat numeric and textual formats.
var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(today|tomorrow|tonight)\b`),
	regexp.MustCompile(`(?i)\b(?:next\s+)?((?:mon|tues|wednes|thurs|fri|satur|sun)day)\b`),
	regexp.MustCompile(`(?i)\b(next\s+(?:week|month))\b`),
	regexp.MustCompile(`\b(\d{4}-\d{2}-\d{2})\b`),
	regexp.MustCompile(`\b(\d{1,2}[/-]\d{1,2}(?:[/-]\d{2,4})?)\b`),
	regexp.MustCompile(`(?i)\b((?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s+\d{1,2}(?:st|nd|rd|th)?)\b`),
	regexp.MustCompile(`(?i)\b(\d{1,2}(?:st|nd|rd|th)?\s+(?:of\s+)?(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*)\b`),
}

// ExtractDate scans context for a date reference. Returns nil when nothing
// matches; this function never fails.
func ExtractDate(context string) *DateHint {
	for _, p := range datePatterns {
		if m := p.FindStringSubmatch(context); m != nil {
			return &DateHint{Raw: m[1], Confidence: DateConfidence}
		}
	}
	return nil
}
