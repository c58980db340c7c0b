package match

import "strings"

// Descriptor carries the structured attributes identifying one card for
// search and scoring purposes. Subject is the only required field.
type Descriptor struct {
	Year     string
	Brand    string
	Subject  string
	Number   string
	Variety  string
	Parallel string
	Signed   bool
	Grade    string
	Numbered string // serial numbering as printed, e.g. "05/49"
}

// Validate reports whether the descriptor can drive a lookup.
func (d Descriptor) Validate() error {
	if strings.TrimSpace(d.Subject) == "" {
		return errSubjectRequired
	}
	return nil
}

// LastName returns the final whitespace-separated token of the subject name.
func (d Descriptor) LastName() string {
	fields := strings.Fields(d.Subject)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}
