package assessment

import (
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/compliz/internal/tree"
)

// stateVersion is bumped when the serialized State layout changes.
const stateVersion = 1

// Session owns all mutable state of one assessment: the answer store,
// the checklist, the history stack and the pending-route queue.
// Lifecycle is one assessment: created on start, replaced on restart,
// serialized wholesale through State/Restore. All operations are
// synchronous and run to completion; the session is driven by a single
// interactive actor and is not safe for concurrent use.
type Session struct {
	tree      *tree.Tree
	answers   *AnswerStore
	checklist *Checklist
	history   *History
	resolver  *Resolver

	id        string
	currentID string
	// entryPending is the queue as it stood when currentID became
	// current; it is what history frames snapshot.
	entryPending []string
	complete     bool
	startedAt    time.Time
}

// New starts a fresh assessment positioned on the tree's first
// question.
func New(t *tree.Tree) *Session {
	answers := NewAnswerStore()
	checklist := NewChecklist()
	s := &Session{
		tree:      t,
		answers:   answers,
		checklist: checklist,
		history:   NewHistory(),
		resolver:  NewResolver(t, answers, checklist),
		id:        uuid.New().String(),
		startedAt: time.Now(),
	}
	if first := t.First(); first != nil {
		s.currentID = first.ID
	} else {
		s.complete = true
	}
	return s
}

// ID returns the assessment's uuid.
func (s *Session) ID() string {
	return s.id
}

// Tree returns the decision tree backing this session.
func (s *Session) Tree() *tree.Tree {
	return s.tree
}

// CurrentQuestion returns the question awaiting an answer, or nil once
// the assessment is complete.
func (s *Session) CurrentQuestion() *tree.Question {
	if s.complete {
		return nil
	}
	q, err := s.tree.Lookup(s.currentID)
	if err != nil {
		return nil
	}
	return q
}

// CurrentAnswer returns the stored answer for the current question.
func (s *Session) CurrentAnswer() (Answer, bool) {
	return s.answers.Get(s.currentID)
}

// AnswerFor returns the stored answer for any question id.
func (s *Session) AnswerFor(id string) (Answer, bool) {
	return s.answers.Get(id)
}

// Answer records an answer for a question and rebuilds its checklist
// contribution. Answering a fan-out question also reconciles endpoint
// injections and stale branches immediately, so deselection purges
// downstream state even before the user advances.
func (s *Session) Answer(questionID string, ans Answer) error {
	q, err := s.tree.Lookup(questionID)
	if err != nil {
		return fmt.Errorf("answer: %w", err)
	}
	if q.IsEndpoint() {
		return fmt.Errorf("answer: %q is an endpoint, not a question", questionID)
	}

	s.answers.Set(questionID, ans)
	s.checklist.Apply(q, ans)

	if q.FanOut {
		s.resolver.SyncFanOut(q)
	}
	return nil
}

// Advance moves to the next question. Reaching a terminal sentinel, or
// an identifier that does not resolve, completes the assessment.
func (s *Session) Advance() {
	if s.complete {
		return
	}

	q, err := s.tree.Lookup(s.currentID)
	if err != nil {
		s.finish()
		return
	}

	ans, _ := s.answers.Get(q.ID)
	next := s.resolver.Next(q)

	s.history.Push(Frame{
		QuestionID: q.ID,
		Answer:     ans,
		Pending:    s.entryPending,
	})

	if tree.IsTerminal(next) {
		s.finish()
		return
	}
	if _, err := s.tree.Lookup(next); err != nil {
		// Dangling identifier: recover by completing, never fail.
		s.finish()
		return
	}

	s.currentID = next
	s.entryPending = s.resolver.Pending()
}

// Retreat steps back to the previously visited question, restoring the
// pending-route queue to its snapshot from before that question was
// visited. Returns false when there is nothing to go back to.
func (s *Session) Retreat() bool {
	frame, ok := s.history.Pop()
	if !ok {
		return false
	}

	if s.complete {
		s.complete = false
		// The unconditional final items belong to the summary only.
		s.checklist.RemoveOrigin(tree.IDFinalItems)
	}

	s.currentID = frame.QuestionID
	s.resolver.SetPending(frame.Pending)
	s.entryPending = slices.Clone(frame.Pending)
	return true
}

// IsComplete reports whether a terminal state has been reached.
func (s *Session) IsComplete() bool {
	return s.complete
}

// Checklist returns the accumulated entries in display order.
func (s *Session) Checklist() []Entry {
	return s.checklist.Entries()
}

// Pending returns a copy of the live pending-route queue.
func (s *Session) Pending() []string {
	return s.resolver.Pending()
}

// Progress returns how many substantive questions have been answered
// (info and summary visits excluded) and the total visitable question
// count, for the progress display.
func (s *Session) Progress() (answered, total int) {
	for _, f := range s.history.Frames() {
		q, err := s.tree.Lookup(f.QuestionID)
		if err != nil {
			continue
		}
		if q.Type == tree.TypeInfo || q.Type == tree.TypeSummary {
			continue
		}
		answered++
	}
	return answered, s.tree.Len()
}

// finish transitions to the terminal state and appends the reserved
// final items not already present by text.
func (s *Session) finish() {
	s.complete = true
	if fq := s.tree.FinalItems(); fq != nil {
		s.checklist.AppendFinal(fq)
	}
}

// State is the wholesale serialized form of a session. Round-tripping
// through State must reproduce resolver behavior identically; in
// particular the pending-route queue and its per-frame snapshots
// survive, so backward navigation after a reload behaves the same.
type State struct {
	AssessmentID string            `json:"assessmentId"`
	Answers      map[string]Answer `json:"answers"`
	Checklist    []Entry           `json:"checklist"`
	History      []Frame           `json:"history"`
	CurrentID    string            `json:"currentId"`
	Pending      []string          `json:"pending,omitempty"`
	EntryPending []string          `json:"entryPending,omitempty"`
	Complete     bool              `json:"complete,omitempty"`
	StartedAt    time.Time         `json:"startedAt"`
	SavedAt      time.Time         `json:"savedAt"`
	Version      int               `json:"version"`
}

// State captures the full session for persistence.
func (s *Session) State() State {
	return State{
		AssessmentID: s.id,
		Answers:      s.answers.Map(),
		Checklist:    s.checklist.Entries(),
		History:      s.history.Frames(),
		CurrentID:    s.currentID,
		Pending:      s.resolver.Pending(),
		EntryPending: slices.Clone(s.entryPending),
		Complete:     s.complete,
		StartedAt:    s.startedAt,
		SavedAt:      time.Now(),
		Version:      stateVersion,
	}
}

// Restore rebuilds a session from a persisted state against the given
// tree. The state's current question must resolve unless the session
// was already complete.
func Restore(t *tree.Tree, st State) (*Session, error) {
	if st.AssessmentID == "" {
		return nil, fmt.Errorf("restore session: missing assessment id")
	}
	if !st.Complete {
		if _, err := t.Lookup(st.CurrentID); err != nil {
			return nil, fmt.Errorf("restore session: current question: %w", err)
		}
	}

	answers := NewAnswerStore()
	answers.Restore(st.Answers)
	checklist := NewChecklist()
	checklist.Restore(st.Checklist)
	history := NewHistory()
	history.Restore(st.History)

	resolver := NewResolver(t, answers, checklist)
	resolver.SetPending(st.Pending)

	s := &Session{
		tree:         t,
		answers:      answers,
		checklist:    checklist,
		history:      history,
		resolver:     resolver,
		id:           st.AssessmentID,
		currentID:    st.CurrentID,
		entryPending: slices.Clone(st.EntryPending),
		complete:     st.Complete,
		startedAt:    st.StartedAt,
	}
	return s, nil
}
