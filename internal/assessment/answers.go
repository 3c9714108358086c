package assessment

import "slices"

// Answer is a recorded response: a single option label for boolean and
// single_choice questions, or an ordered label set for checkbox
// questions. Insertion order is preserved; it is not semantically
// significant except for the multi-select routing tie-break.
type Answer struct {
	Labels []string `json:"labels"`
	Multi  bool     `json:"multi,omitempty"`
}

// Single builds a scalar answer.
func Single(label string) Answer {
	return Answer{Labels: []string{label}}
}

// MultiSelect builds a checkbox answer from labels in selection order.
func MultiSelect(labels ...string) Answer {
	return Answer{Labels: slices.Clone(labels), Multi: true}
}

// First returns the first selected label, or "" when empty.
func (a Answer) First() string {
	if len(a.Labels) == 0 {
		return ""
	}
	return a.Labels[0]
}

// Has reports whether label is selected.
func (a Answer) Has(label string) bool {
	return slices.Contains(a.Labels, label)
}

// IsEmpty reports whether nothing is selected.
func (a Answer) IsEmpty() bool {
	return len(a.Labels) == 0
}

// Equal reports label-for-label equality, including order.
func (a Answer) Equal(b Answer) bool {
	return a.Multi == b.Multi && slices.Equal(a.Labels, b.Labels)
}

// clone returns an independent copy.
func (a Answer) clone() Answer {
	return Answer{Labels: slices.Clone(a.Labels), Multi: a.Multi}
}

// AnswerStore maps question ids to the user's current answers.
// Absence of an entry means "unanswered".
type AnswerStore struct {
	byQuestion map[string]Answer
}

// NewAnswerStore creates an empty store.
func NewAnswerStore() *AnswerStore {
	return &AnswerStore{byQuestion: make(map[string]Answer)}
}

// Get returns the answer for a question id.
func (s *AnswerStore) Get(id string) (Answer, bool) {
	a, ok := s.byQuestion[id]
	return a, ok
}

// Set records the answer for a question id, replacing any prior value.
func (s *AnswerStore) Set(id string, a Answer) {
	s.byQuestion[id] = a.clone()
}

// Clear removes the stored answer for a question id.
func (s *AnswerStore) Clear(id string) {
	delete(s.byQuestion, id)
}

// Len returns the number of answered questions.
func (s *AnswerStore) Len() int {
	return len(s.byQuestion)
}

// Map returns a copy of all stored answers, for serialization.
func (s *AnswerStore) Map() map[string]Answer {
	out := make(map[string]Answer, len(s.byQuestion))
	for id, a := range s.byQuestion {
		out[id] = a.clone()
	}
	return out
}

// Restore replaces the store contents, for deserialization.
func (s *AnswerStore) Restore(m map[string]Answer) {
	s.byQuestion = make(map[string]Answer, len(m))
	for id, a := range m {
		s.byQuestion[id] = a.clone()
	}
}
