package assessment

import (
	"slices"
	"sort"

	"github.com/abhisek/compliz/internal/tree"
)

// unorderedRank is the effective sort order for items with no explicit
// order, so they sink below every ordered item.
const unorderedRank = 999

// Entry is a checklist item instantiated from a template, carrying a
// back-reference to the question whose answer produced it. Entries are
// value objects; dedup compares exact item text.
type Entry struct {
	QuestionID   string            `json:"questionId"`
	QuestionText string            `json:"questionText"`
	Item         tree.ItemTemplate `json:"item"`
}

// rank returns the entry's effective sort order.
func (e Entry) rank() int {
	if e.Item.Order == 0 {
		return unorderedRank
	}
	return e.Item.Order
}

// Priority returns the parsed priority of the entry's item.
func (e Entry) Priority() tree.Priority {
	return tree.ParsePriority(e.Item.Priority)
}

// Checklist accumulates entries as questions are answered. All
// mutation re-sorts the list ascending by order, keeping insertion
// order among equals.
type Checklist struct {
	entries []Entry
}

// NewChecklist creates an empty checklist.
func NewChecklist() *Checklist {
	return &Checklist{}
}

// Apply replaces every entry originating from q with the templates
// selected by ans. Labels without templates contribute nothing.
func (c *Checklist) Apply(q *tree.Question, ans Answer) {
	c.removeOrigin(q.ID)
	for _, label := range ans.Labels {
		for _, item := range q.Checklist[label] {
			c.entries = append(c.entries, Entry{
				QuestionID:   q.ID,
				QuestionText: q.Text,
				Item:         item,
			})
		}
	}
	c.sort()
}

// InjectEndpoint appends the endpoint's templates without it ever
// becoming the current question. Items whose text is already present
// anywhere in the checklist are skipped.
func (c *Checklist) InjectEndpoint(ep *tree.Question) {
	for _, item := range ep.AllTemplates() {
		if c.HasText(item.Text) {
			continue
		}
		c.entries = append(c.entries, Entry{
			QuestionID:   ep.ID,
			QuestionText: ep.Text,
			Item:         item,
		})
	}
	c.sort()
}

// AppendFinal adds the reserved final question's templates, skipping
// any item text already present. Called once at summary time.
func (c *Checklist) AppendFinal(q *tree.Question) {
	c.InjectEndpoint(q)
}

// RemoveOrigin purges every entry originating from the given question
// or endpoint id.
func (c *Checklist) RemoveOrigin(id string) {
	c.removeOrigin(id)
}

func (c *Checklist) removeOrigin(id string) {
	c.entries = slices.DeleteFunc(c.entries, func(e Entry) bool {
		return e.QuestionID == id
	})
}

// HasText reports whether any entry carries exactly the given text.
func (c *Checklist) HasText(text string) bool {
	for _, e := range c.entries {
		if e.Item.Text == text {
			return true
		}
	}
	return false
}

// HasOrigin reports whether any entry originates from the given id.
func (c *Checklist) HasOrigin(id string) bool {
	for _, e := range c.entries {
		if e.QuestionID == id {
			return true
		}
	}
	return false
}

// Entries returns a copy of the current entries in display order.
func (c *Checklist) Entries() []Entry {
	return slices.Clone(c.entries)
}

// Len returns the number of entries.
func (c *Checklist) Len() int {
	return len(c.entries)
}

// Restore replaces the checklist contents, for deserialization.
func (c *Checklist) Restore(entries []Entry) {
	c.entries = slices.Clone(entries)
	c.sort()
}

func (c *Checklist) sort() {
	sort.SliceStable(c.entries, func(i, j int) bool {
		return c.entries[i].rank() < c.entries[j].rank()
	})
}
