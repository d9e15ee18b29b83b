// Package records defines the bibliographic record model shared by the
// parser, the merge engine and the serializer.
package records

// Record is one parsed bibliographic entry. Records are values and are never
// mutated after the parser creates them.
type Record struct {
	// Type is the entry type as written after '@', e.g. "article".
	Type string `json:"type" yaml:"type"`

	// Key is the citation key, the first field of the body.
	Key string `json:"key" yaml:"key"`

	// Body is the verbatim brace-enclosed text, outer braces included.
	Body string `json:"-" yaml:"-"`

	// Source is the path of the file the record was parsed from.
	Source string `json:"source,omitempty" yaml:"source,omitempty"`

	// Line is the 1-based line of the record's '@' in Source.
	Line int `json:"line,omitempty" yaml:"line,omitempty"`
}

// Set is the ordered sequence of records parsed from one source file.
// Keys are not required to be unique within a set.
type Set struct {
	Source  string   `json:"source" yaml:"source"`
	Records []Record `json:"records" yaml:"records"`
}

// Len returns the number of records in the set.
func (s Set) Len() int {
	return len(s.Records)
}

// Keys returns the citation keys of the set in parse order.
func (s Set) Keys() []string {
	keys := make([]string, len(s.Records))
	for i, r := range s.Records {
		keys[i] = r.Key
	}
	return keys
}

// Total returns the number of records across sets.
func Total(sets []Set) int {
	n := 0
	for _, s := range sets {
		n += s.Len()
	}
	return n
}
