package assessment

import (
	"slices"

	"github.com/abhisek/compliz/internal/tree"
)

// Resolver computes the next question id from the current question,
// the stored answers and the pending-route queue. It owns the queue:
// fan-out resolution replaces it, sub-question transitions drain it,
// history restoration overwrites it.
type Resolver struct {
	tree      *tree.Tree
	answers   *AnswerStore
	checklist *Checklist
	pending   []string
}

// NewResolver wires a resolver over shared session state.
func NewResolver(t *tree.Tree, answers *AnswerStore, checklist *Checklist) *Resolver {
	return &Resolver{tree: t, answers: answers, checklist: checklist}
}

// Pending returns a copy of the pending-route queue.
func (r *Resolver) Pending() []string {
	return slices.Clone(r.pending)
}

// SetPending replaces the live queue, used when restoring a history
// frame or a persisted session.
func (r *Resolver) SetPending(ids []string) {
	r.pending = slices.Clone(ids)
}

// Next returns the id of the question that follows q, or a terminal
// sentinel. It never fails: unanswered or unmapped states fall through
// to summary.
func (r *Resolver) Next(q *tree.Question) string {
	if q.FanOut {
		return r.resolveFanOut(q)
	}

	// Draining: leaving a fan-out branch while siblings are still owed
	// a visit overrides the question's own routing.
	if r.tree.IsSubQuestion(q.ID) && len(r.pending) > 0 {
		next := r.pending[0]
		r.pending = r.pending[1:]
		return next
	}

	return r.routeOf(q)
}

// routeOf applies the question's declared routing specification.
func (r *Resolver) routeOf(q *tree.Question) string {
	spec := q.Routing
	if spec.IsZero() {
		return tree.IDSummary
	}
	if spec.Next != "" {
		return spec.Next
	}

	ans, ok := r.answers.Get(q.ID)
	if !ok || ans.IsEmpty() {
		return tree.IDSummary
	}

	// Multi-select on a non-fan-out question routes by the first
	// selected option only. Selection order silently changes the
	// route; kept for compatibility with existing tree documents.
	if target, ok := spec.ByOption[ans.First()]; ok {
		return target
	}
	return tree.IDSummary
}

// resolveFanOut handles a fan-out question: sync endpoint injections
// and stale-branch cleanup, apply the none-of-the-above skip, then
// split the resolved targets into an immediate next question and a
// replacement pending-route queue.
func (r *Resolver) resolveFanOut(q *tree.Question) string {
	r.SyncFanOut(q)

	ans, _ := r.answers.Get(q.ID)

	if q.NoneOption != "" && len(ans.Labels) == 1 && ans.Labels[0] == q.NoneOption {
		r.pending = nil
		return q.NoneSkipTo
	}

	targets := r.visitableTargets(q, ans)
	if len(targets) == 0 {
		r.pending = nil
		return tree.IDEndDetermination
	}

	r.pending = slices.Clone(targets[1:])
	return targets[0]
}

// visitableTargets resolves the selected options of a fan-out question
// into an ordered route list: declared option order, endpoints
// excluded, duplicates collapsed first-selection-wins.
func (r *Resolver) visitableTargets(q *tree.Question, ans Answer) []string {
	var targets []string
	for _, opt := range q.Options {
		if !ans.Has(opt) {
			continue
		}
		target, ok := q.Routing.ByOption[opt]
		if !ok || tree.IsTerminal(target) || r.tree.IsEndpoint(target) {
			continue
		}
		if !slices.Contains(targets, target) {
			targets = append(targets, target)
		}
	}
	return targets
}

// SyncFanOut reconciles derived state with the fan-out question's
// current answer set. It fires on every answer change, including
// deselection:
//   - selected options routed to endpoints inject their checklist
//     templates (deduplicated by text) without a visit;
//   - endpoints no longer routed to lose their injected entries;
//   - sub-questions no longer among the resolved targets lose their
//     stored answer and checklist entries.
func (r *Resolver) SyncFanOut(q *tree.Question) {
	ans, _ := r.answers.Get(q.ID)

	// Injection follows the declared option order so entries from
	// distinct endpoints land in a stable, reproducible order.
	selectedTargets := make(map[string]bool)
	for _, opt := range q.Options {
		if !ans.Has(opt) {
			continue
		}
		target, ok := q.Routing.ByOption[opt]
		if !ok {
			continue
		}
		if r.tree.IsEndpoint(target) && !selectedTargets[target] {
			if ep, err := r.tree.Lookup(target); err == nil {
				r.checklist.InjectEndpoint(ep)
			}
		}
		selectedTargets[target] = true
	}

	for _, target := range q.Routing.ByOption {
		if selectedTargets[target] {
			continue
		}
		if r.tree.IsEndpoint(target) {
			r.checklist.RemoveOrigin(target)
			continue
		}
		if r.tree.IsSubQuestion(target) {
			r.answers.Clear(target)
			r.checklist.RemoveOrigin(target)
		}
	}
}
