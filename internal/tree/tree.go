package tree

import (
	"fmt"
	"slices"
)

// ErrNotFound is returned by Lookup for identifiers that do not resolve
// to a question. Callers treat it as "route to summary", never as a
// fatal condition.
var ErrNotFound = fmt.Errorf("question not found")

// Tree holds the decision tree with precomputed indices.
// Read-only after construction.
type Tree struct {
	doc          Document
	byID         map[string]*Question
	subQuestions map[string]bool
	endpoints    map[string]bool
	phaseByID    map[int]Phase
}

// New builds a Tree from a parsed document. It indexes questions by id,
// derives the sub-question set (non-endpoint targets of fan-out
// questions) and the endpoint set. The document is assumed to have
// passed Validate.
func New(doc Document) *Tree {
	t := &Tree{
		doc:          doc,
		byID:         make(map[string]*Question, len(doc.Questions)),
		subQuestions: make(map[string]bool),
		endpoints:    make(map[string]bool),
		phaseByID:    make(map[int]Phase, len(doc.Phases)),
	}

	for i := range t.doc.Questions {
		q := &t.doc.Questions[i]
		if q.Kind == "" {
			q.Kind = KindQuestion
		}
		t.byID[q.ID] = q
		if q.IsEndpoint() {
			t.endpoints[q.ID] = true
		}
	}

	// Sub-questions: every visitable target of a fan-out question's
	// option routing. Leaving one of these while branches are pending
	// drains the pending-route queue instead of following its own spec.
	for i := range t.doc.Questions {
		q := &t.doc.Questions[i]
		if !q.FanOut {
			continue
		}
		for _, target := range q.Routing.ByOption {
			if t.endpoints[target] || IsTerminal(target) {
				continue
			}
			if _, ok := t.byID[target]; ok && target != q.NoneSkipTo {
				t.subQuestions[target] = true
			}
		}
	}

	for _, p := range doc.Phases {
		t.phaseByID[p.ID] = p
	}

	return t
}

// Lookup returns the question with the given id, or ErrNotFound.
func (t *Tree) Lookup(id string) (*Question, error) {
	q, ok := t.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return q, nil
}

// First returns the head of the declared question sequence, skipping
// endpoints.
func (t *Tree) First() *Question {
	for i := range t.doc.Questions {
		if !t.doc.Questions[i].IsEndpoint() {
			return &t.doc.Questions[i]
		}
	}
	return nil
}

// IsSubQuestion reports whether id belongs to the derived set of
// fan-out branch questions.
func (t *Tree) IsSubQuestion(id string) bool {
	return t.subQuestions[id]
}

// IsEndpoint reports whether id names an injection-only endpoint.
func (t *Tree) IsEndpoint(id string) bool {
	return t.endpoints[id]
}

// SubQuestions returns the derived sub-question id set.
func (t *Tree) SubQuestions() map[string]bool {
	out := make(map[string]bool, len(t.subQuestions))
	for id := range t.subQuestions {
		out[id] = true
	}
	return out
}

// Questions returns the declared question sequence.
func (t *Tree) Questions() []Question {
	return slices.Clone(t.doc.Questions)
}

// Phases returns the declared timeline phases in document order.
func (t *Tree) Phases() []Phase {
	return slices.Clone(t.doc.Phases)
}

// PhaseByID returns the phase with the given numeric id.
func (t *Tree) PhaseByID(id int) (Phase, bool) {
	p, ok := t.phaseByID[id]
	return p, ok
}

// Title returns the document title.
func (t *Tree) Title() string {
	return t.doc.Title
}

// LastUpdated returns the document's "last updated" display label.
func (t *Tree) LastUpdated() string {
	return t.doc.LastUpdated
}

// FinalItems returns the reserved final-items question, or nil when the
// document does not declare one.
func (t *Tree) FinalItems() *Question {
	return t.byID[IDFinalItems]
}

// Len returns the number of visitable questions, used for rough
// progress estimation in the UI.
func (t *Tree) Len() int {
	n := 0
	for i := range t.doc.Questions {
		if !t.doc.Questions[i].IsEndpoint() {
			n++
		}
	}
	return n
}
