package lint

// AnalyzerSet is an ordered collection of analyzers run together in one pass.
// Running analyzers as a batch lets the engine share compilation traversal.
// A set is immutable once built.
type AnalyzerSet struct {
	analyzers []Analyzer
}

// NewAnalyzerSet builds a set from the given analyzers, keeping their order.
// Nil analyzers and repeats of an already-seen ID are dropped (first wins).
func NewAnalyzerSet(analyzers ...Analyzer) *AnalyzerSet {
	set := &AnalyzerSet{analyzers: make([]Analyzer, 0, len(analyzers))}
	seen := make(map[string]bool, len(analyzers))
	for _, a := range analyzers {
		if a == nil || seen[a.ID()] {
			continue
		}
		seen[a.ID()] = true
		set.analyzers = append(set.analyzers, a)
	}
	return set
}

// Len returns the number of analyzers in the set.
func (s *AnalyzerSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.analyzers)
}

// Analyzers returns a copy of the analyzers in set order.
func (s *AnalyzerSet) Analyzers() []Analyzer {
	if s == nil {
		return nil
	}
	out := make([]Analyzer, len(s.analyzers))
	copy(out, s.analyzers)
	return out
}

// IDs returns the analyzer IDs in set order.
func (s *AnalyzerSet) IDs() []string {
	if s == nil {
		return nil
	}
	ids := make([]string, len(s.analyzers))
	for i, a := range s.analyzers {
		ids[i] = a.ID()
	}
	return ids
}

// Contains reports whether an analyzer with the given ID is in the set.
func (s *AnalyzerSet) Contains(id string) bool {
	if s == nil {
		return false
	}
	for _, a := range s.analyzers {
		if a.ID() == id {
			return true
		}
	}
	return false
}

// Without returns a new set that excludes disabled analyzers.
func (s *AnalyzerSet) Without(opts *Options) *AnalyzerSet {
	if s == nil {
		return NewAnalyzerSet()
	}
	kept := make([]Analyzer, 0, len(s.analyzers))
	for _, a := range s.analyzers {
		if !opts.IsDisabled(a.ID()) {
			kept = append(kept, a)
		}
	}
	return &AnalyzerSet{analyzers: kept}
}
