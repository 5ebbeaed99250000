package models

// UnknownColumnName is reported when a column index has no mapping entry.
const UnknownColumnName = "Unknown"

// MappingEntry assigns one source column to a transaction field.
type MappingEntry struct {
	ColumnIndex    int         `json:"column_index" yaml:"column_index"`
	ColumnName     string      `json:"column_name" yaml:"column_name"`
	ExampleContent string      `json:"example_content,omitempty" yaml:"example_content,omitempty"`
	Target         TargetField `json:"target_field,omitempty" yaml:"target_field,omitempty"`
}

// ColumnMapping is the ordered set of column assignments for one source.
// It is a value: every change produces a new mapping.
type ColumnMapping struct {
	entries []MappingEntry
}

// NewColumnMapping builds a mapping from entries. The slice is copied.
func NewColumnMapping(entries []MappingEntry) ColumnMapping {
	cp := make([]MappingEntry, len(entries))
	copy(cp, entries)
	return ColumnMapping{entries: cp}
}

// Entries returns a copy of the mapping entries.
func (m ColumnMapping) Entries() []MappingEntry {
	cp := make([]MappingEntry, len(m.entries))
	copy(cp, m.entries)
	return cp
}

// Len returns the number of entries.
func (m ColumnMapping) Len() int {
	return len(m.entries)
}

// IsEmpty reports whether the mapping has no entries.
func (m ColumnMapping) IsEmpty() bool {
	return len(m.entries) == 0
}

// Index returns the column index assigned to field. When several entries share
// the field the last one wins, which only matters for unvalidated mappings.
func (m ColumnMapping) Index(field TargetField) (int, bool) {
	idx, found := 0, false
	for _, e := range m.entries {
		if e.Target == field && field.IsSet() {
			idx, found = e.ColumnIndex, true
		}
	}
	return idx, found
}

// ColumnName returns the display name of the column at index.
func (m ColumnMapping) ColumnName(index int) string {
	for _, e := range m.entries {
		if e.ColumnIndex == index {
			return e.ColumnName
		}
	}
	return UnknownColumnName
}

// Targets returns the assigned fields in entry order, duplicates included.
func (m ColumnMapping) Targets() []TargetField {
	var targets []TargetField
	for _, e := range m.entries {
		if e.Target.IsSet() {
			targets = append(targets, e.Target)
		}
	}
	return targets
}

// WithTarget returns a copy of the mapping where the entry for column index is
// assigned to field. The second result is false when no entry has that index.
func (m ColumnMapping) WithTarget(index int, field TargetField) (ColumnMapping, bool) {
	out := m.Entries()
	for i := range out {
		if out[i].ColumnIndex == index {
			out[i].Target = field
			return ColumnMapping{entries: out}, true
		}
	}
	return m, false
}
