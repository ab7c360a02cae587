// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Triple is one subject-predicate-object statement of the extracted graph.
// All three fields are opaque identifiers.
type Triple struct {
	Subject   string `json:"subject" yaml:"subject"`
	Predicate string `json:"predicate" yaml:"predicate"`
	Object    string `json:"object" yaml:"object"`
}

// Less orders triples by subject, predicate, then object.
func (t Triple) Less(o Triple) bool {
	if t.Subject != o.Subject {
		return t.Subject < o.Subject
	}
	if t.Predicate != o.Predicate {
		return t.Predicate < o.Predicate
	}
	return t.Object < o.Object
}
