package tree

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Reserved identifiers. Routing may target these; they never resolve to
// a Question.
const (
	// IDSummary ends the assessment and shows the checklist.
	IDSummary = "summary"
	// IDEndDetermination ends the assessment when a fan-out resolves to
	// no remaining branches.
	IDEndDetermination = "end_determination"
	// IDFinalItems names the question whose checklist templates are
	// appended unconditionally when the assessment completes.
	IDFinalItems = "q10_final"
)

// IsTerminal reports whether id is one of the terminal sentinels.
func IsTerminal(id string) bool {
	return id == IDSummary || id == IDEndDetermination
}

// QuestionType describes how a question collects its answer.
type QuestionType string

const (
	TypeBoolean      QuestionType = "boolean"
	TypeSingleChoice QuestionType = "single_choice"
	TypeCheckbox     QuestionType = "checkbox"
	TypeInfo         QuestionType = "info"
	TypeSummary      QuestionType = "summary"
)

// Kind distinguishes visitable questions from injection-only endpoints.
// An endpoint only contributes checklist items; it is never displayed
// and never becomes the current question.
type Kind string

const (
	KindQuestion Kind = "question"
	KindEndpoint Kind = "endpoint"
)

// Priority is the enumerated urgency of a checklist item. The source
// document carries free-form labels ("REQUIRED", "CRITICAL - submit
// early", ...); ParsePriority maps them by substring so existing tree
// documents keep working.
type Priority int

const (
	PriorityInfo Priority = iota
	PriorityOptional
	PriorityRecommended
	PriorityRequired
	PriorityCritical
)

// ParsePriority maps a free-form priority label to a Priority.
// Matching is by case-insensitive substring, most urgent first.
func ParsePriority(label string) Priority {
	u := strings.ToUpper(label)
	switch {
	case strings.Contains(u, "CRITICAL"):
		return PriorityCritical
	case strings.Contains(u, "REQUIRED"):
		return PriorityRequired
	case strings.Contains(u, "RECOMMENDED"):
		return PriorityRecommended
	case strings.Contains(u, "OPTIONAL"):
		return PriorityOptional
	default:
		return PriorityInfo
	}
}

// Label returns the canonical display label for a priority.
func (p Priority) Label() string {
	switch p {
	case PriorityCritical:
		return "CRITICAL"
	case PriorityRequired:
		return "REQUIRED"
	case PriorityRecommended:
		return "RECOMMENDED"
	case PriorityOptional:
		return "OPTIONAL"
	default:
		return "INFO"
	}
}

// Routing is a question's routing specification: absent (route to
// summary), a single unconditional next id, or a map from option label
// to next id. In JSON it is either a string or an object.
type Routing struct {
	Next     string
	ByOption map[string]string
}

// IsZero reports whether no routing was declared.
func (r Routing) IsZero() bool {
	return r.Next == "" && r.ByOption == nil
}

// UnmarshalJSON accepts either a bare string or an option→id object.
func (r *Routing) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		r.Next = s
		r.ByOption = nil
		return nil
	}
	var m map[string]string
	if err := json.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("routing must be a string or an object of option→id: %w", err)
	}
	r.Next = ""
	r.ByOption = m
	return nil
}

// MarshalJSON emits the compact form the loader accepts.
func (r Routing) MarshalJSON() ([]byte, error) {
	if r.ByOption != nil {
		return json.Marshal(r.ByOption)
	}
	if r.Next != "" {
		return json.Marshal(r.Next)
	}
	return []byte("null"), nil
}

// ItemTemplate is a checklist item attached to a question option.
type ItemTemplate struct {
	Text     string   `json:"text"`
	Priority string   `json:"priority,omitempty"`
	Order    int      `json:"order,omitempty"` // 0 = unset, sorts as 999
	Contact  string   `json:"contact,omitempty"`
	Link     string   `json:"link,omitempty"`
	Timeline string   `json:"timeline,omitempty"`
	Duration string   `json:"duration,omitempty"`
	Phase    int      `json:"phase,omitempty"`
	Track    string   `json:"track,omitempty"`
	Note     string   `json:"note,omitempty"`
	Details  []string `json:"details,omitempty"`
}

// Question is a single node of the decision tree.
type Question struct {
	ID       string       `json:"id"`
	Text     string       `json:"text"`
	Help     string       `json:"help,omitempty"`
	Type     QuestionType `json:"type"`
	Kind     Kind         `json:"kind,omitempty"` // defaults to question
	Options  []string     `json:"options,omitempty"`
	Routing  Routing      `json:"routing,omitempty"`
	FanOut   bool         `json:"fanOut,omitempty"`
	// NoneOption / NoneSkipTo implement the "none of the above" skip:
	// when the multi-select answer is exactly the NoneOption singleton,
	// routing bypasses the declared follow-ups and goes to NoneSkipTo.
	NoneOption string `json:"noneOption,omitempty"`
	NoneSkipTo string `json:"noneSkipTo,omitempty"`
	// Checklist maps option label → item templates contributed when
	// that option is selected. Endpoints use the "*" label.
	Checklist map[string][]ItemTemplate `json:"checklist,omitempty"`
}

// IsEndpoint reports whether the question is injection-only.
func (q *Question) IsEndpoint() bool {
	return q.Kind == KindEndpoint
}

// AllTemplates returns every template of the question, iterating the
// declared option order first and any remaining labels after, so the
// result is deterministic. Used for endpoint injection and the final
// unconditional items.
func (q *Question) AllTemplates() []ItemTemplate {
	var out []ItemTemplate
	seen := make(map[string]bool, len(q.Checklist))
	for _, opt := range q.Options {
		if items, ok := q.Checklist[opt]; ok {
			out = append(out, items...)
			seen[opt] = true
		}
	}
	// Labels outside the option list ("*" on endpoints) in sorted order.
	var rest []string
	for label := range q.Checklist {
		if !seen[label] {
			rest = append(rest, label)
		}
	}
	sort.Strings(rest)
	for _, label := range rest {
		out = append(out, q.Checklist[label]...)
	}
	return out
}

// Phase is a timeline phase used to group checklist output. The core
// treats the id as an opaque integer tag on checklist entries.
type Phase struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Icon     string `json:"icon,omitempty"`
	Note     string `json:"note,omitempty"`
	Parallel bool   `json:"parallel,omitempty"`
}

// Document is the on-disk decision-tree document.
type Document struct {
	Title       string     `json:"title"`
	LastUpdated string     `json:"lastUpdated,omitempty"`
	Phases      []Phase    `json:"phases,omitempty"`
	Questions   []Question `json:"questions"`
}
