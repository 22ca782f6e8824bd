// Package learning maintains bounded accuracy histories per task category
// and per template type, and derives corrected time estimates from them.
package learning

import (
	"math"
	"sort"
	"time"
)

// DefaultWindow is how many recent outcomes each buffer retains.
const DefaultWindow = 20

// Thresholds for trusting a buffer when improving an estimate.
const (
	MinTemplateSamples = 3
	MinCategorySamples = 5
)

// Record is one observed estimate-vs-actual outcome.
type Record struct {
	Estimated   int       `json:"estimated"`
	Actual      int       `json:"actual"`
	Accuracy    float64   `json:"accuracy"`
	Ratio       float64   `json:"ratio"`
	TaskTitle   string    `json:"task_title"`
	CompletedAt time.Time `json:"completed_at"`
}

// Buffer is a fixed-capacity sequence of records with eviction-on-push:
// pushing onto a full buffer drops the oldest record.
type Buffer struct {
	capacity int
	records  []Record
}

// NewBuffer creates a buffer holding at most capacity records. A
// non-positive capacity falls back to DefaultWindow.
func NewBuffer(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = DefaultWindow
	}
	return &Buffer{capacity: capacity}
}

// Push appends a record, evicting the oldest if the buffer is full.
func (b *Buffer) Push(r Record) {
	if len(b.records) == b.capacity {
		copy(b.records, b.records[1:])
		b.records[len(b.records)-1] = r
		return
	}
	b.records = append(b.records, r)
}

// Len returns the current number of records.
func (b *Buffer) Len() int { return len(b.records) }

// Records returns a copy of the current window, oldest first.
func (b *Buffer) Records() []Record {
	out := make([]Record, len(b.records))
	copy(out, b.records)
	return out
}

// AverageAccuracy is the simple mean accuracy over the current window.
func (b *Buffer) AverageAccuracy() float64 {
	if len(b.records) == 0 {
		return 0
	}
	sum := 0.0
	for _, r := range b.records {
		sum += r.Accuracy
	}
	return sum / float64(len(b.records))
}

// AverageRatio is the simple mean actual/estimated ratio over the window.
func (b *Buffer) AverageRatio() float64 {
	if len(b.records) == 0 {
		return 0
	}
	sum := 0.0
	for _, r := range b.records {
		sum += r.Ratio
	}
	return sum / float64(len(b.records))
}

// Stats is the adaptive model: one buffer per category key and one per
// template-type key. Mutated only on task completion.
type Stats struct {
	window     int
	categories map[string]*Buffer
	templates  map[string]*Buffer
}

// NewStats creates an empty model with the given window size per buffer.
func NewStats(window int) *Stats {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Stats{
		window:     window,
		categories: make(map[string]*Buffer),
		templates:  make(map[string]*Buffer),
	}
}

// Observe records an outcome into the category buffer and, when
// templateType is non-empty, the template buffer.
func (s *Stats) Observe(category, templateType string, r Record) {
	if category != "" {
		s.bucket(s.categories, category).Push(r)
	}
	if templateType != "" {
		s.bucket(s.templates, templateType).Push(r)
	}
}

func (s *Stats) bucket(m map[string]*Buffer, key string) *Buffer {
	b, ok := m[key]
	if !ok {
		b = NewBuffer(s.window)
		m[key] = b
	}
	return b
}

// OverallAccuracy is the sample-size-weighted mean accuracy across all
// category buffers.
func (s *Stats) OverallAccuracy() float64 {
	samples := 0
	sum := 0.0
	for _, b := range s.categories {
		samples += b.Len()
		sum += b.AverageAccuracy() * float64(b.Len())
	}
	if samples == 0 {
		return 0
	}
	return sum / float64(samples)
}

// Estimate sources.
const (
	SourceTemplate = "template"
	SourceCategory = "category"
	SourceNone     = "none"
)

// Estimate is a corrected time estimate with its provenance.
type Estimate struct {
	Original   int     `json:"original"`
	Adjusted   int     `json:"adjusted"`
	Confidence float64 `json:"confidence"`
	Source     string  `json:"source"`
}

// Improve corrects an estimate using accumulated history. The
// template-specific buffer is preferred when it has at least
// MinTemplateSamples records; otherwise the category buffer is used when
// it has at least MinCategorySamples. With neither, the original estimate
// passes through at zero confidence.
func (s *Stats) Improve(category, templateType string, original int) Estimate {
	var (
		ratio      float64
		confidence float64
		source     = SourceNone
	)

	if b := s.templates[templateType]; templateType != "" && b != nil && b.Len() >= MinTemplateSamples {
		ratio = b.AverageRatio()
		confidence = math.Min(float64(b.Len())/10.0, 1.0)
		source = SourceTemplate
	} else if b := s.categories[category]; category != "" && b != nil && b.Len() >= MinCategorySamples {
		ratio = b.AverageRatio()
		confidence = math.Min(float64(b.Len())/15.0, 0.8)
		source = SourceCategory
	} else {
		return Estimate{Original: original, Adjusted: original, Confidence: 0, Source: source}
	}

	finalRatio := 1 + (ratio-1)*confidence
	adjusted := int(math.Round(float64(original) * finalRatio))
	return Estimate{Original: original, Adjusted: adjusted, Confidence: confidence, Source: source}
}

// KeyStats summarizes one buffer for reporting.
type KeyStats struct {
	Key             string  `json:"key"`
	SampleSize      int     `json:"sample_size"`
	AverageAccuracy float64 `json:"average_accuracy"`
	AverageRatio    float64 `json:"average_ratio"`
}

// Summary is a point-in-time view of the whole model.
type Summary struct {
	Categories      []KeyStats `json:"categories"`
	Templates       []KeyStats `json:"templates"`
	OverallAccuracy float64    `json:"overall_accuracy"`
}

// Summarize reports per-key sample sizes and means, keys sorted
// alphabetically.
func (s *Stats) Summarize() Summary {
	return Summary{
		Categories:      summarize(s.categories),
		Templates:       summarize(s.templates),
		OverallAccuracy: s.OverallAccuracy(),
	}
}

func summarize(m map[string]*Buffer) []KeyStats {
	out := make([]KeyStats, 0, len(m))
	for key, b := range m {
		if b.Len() == 0 {
			continue
		}
		out = append(out, KeyStats{
			Key:             key,
			SampleSize:      b.Len(),
			AverageAccuracy: b.AverageAccuracy(),
			AverageRatio:    b.AverageRatio(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
