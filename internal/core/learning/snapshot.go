package learning

// Snapshot is the JSON-serializable form of the model, persisted as part
// of the whole-state save.
type Snapshot struct {
	Categories map[string][]Record `json:"categories,omitempty"`
	Templates  map[string][]Record `json:"templates,omitempty"`
}

// Snapshot captures the current windows, oldest record first.
func (s *Stats) Snapshot() Snapshot {
	return Snapshot{
		Categories: snapshotBuffers(s.categories),
		Templates:  snapshotBuffers(s.templates),
	}
}

func snapshotBuffers(m map[string]*Buffer) map[string][]Record {
	if len(m) == 0 {
		return nil
	}
	out := make(map[string][]Record, len(m))
	for key, b := range m {
		if b.Len() > 0 {
			out[key] = b.Records()
		}
	}
	return out
}

// FromSnapshot rebuilds a model from persisted state. Records beyond the
// window are dropped oldest-first by the buffer's own eviction.
func FromSnapshot(sn Snapshot, window int) *Stats {
	s := NewStats(window)
	for key, records := range sn.Categories {
		for _, r := range records {
			s.bucket(s.categories, key).Push(r)
		}
	}
	for key, records := range sn.Templates {
		for _, r := range records {
			s.bucket(s.templates, key).Push(r)
		}
	}
	return s
}
