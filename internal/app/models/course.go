package models

// Course is one record from a college's external course catalog.
// The catalog schema is not under our control: beyond SubjectGroupName and
// SemesterName a record may carry arbitrary fields, which are preserved
// verbatim and passed through into the recommendation prompt.
type Course map[string]any

// SubjectGroupName returns the course's subject group, or "" when the field
// is absent or not a string.
func (c Course) SubjectGroupName() string {
	s, _ := c["SubjectGroupName"].(string)
	return s
}

// SemesterName returns the course's semester, or "" when the field is absent
// or not a string.
func (c Course) SemesterName() string {
	s, _ := c["SemesterName"].(string)
	return s
}
