package tree

import (
	"fmt"
	"sort"
	"strings"
)

// Validate performs all structural checks on a document.
// Returns a combined error describing all problems found, or nil.
func Validate(doc Document) error {
	var errs []string

	idSet := make(map[string]bool, len(doc.Questions))
	for _, q := range doc.Questions {
		if q.ID == "" {
			errs = append(errs, "question with empty id")
			continue
		}
		if idSet[q.ID] {
			errs = append(errs, fmt.Sprintf("duplicate question id: %q", q.ID))
		}
		idSet[q.ID] = true
		if IsTerminal(q.ID) {
			errs = append(errs, fmt.Sprintf("question id %q collides with a reserved sentinel", q.ID))
		}
	}

	resolves := func(id string) bool {
		return IsTerminal(id) || idSet[id]
	}

	endpointSet := make(map[string]bool)
	for _, q := range doc.Questions {
		if q.Kind == KindEndpoint {
			endpointSet[q.ID] = true
		}
	}

	for _, q := range doc.Questions {
		prefix := fmt.Sprintf("question %q", q.ID)

		switch q.Type {
		case TypeBoolean, TypeSingleChoice, TypeCheckbox, TypeInfo, TypeSummary:
		default:
			errs = append(errs, fmt.Sprintf("%s: unknown type %q", prefix, q.Type))
		}

		if (q.Type == TypeBoolean || q.Type == TypeSingleChoice || q.Type == TypeCheckbox) && len(q.Options) == 0 && q.Kind != KindEndpoint {
			errs = append(errs, fmt.Sprintf("%s: type %q requires options", prefix, q.Type))
		}

		// Every routing target must resolve to a question or sentinel.
		if q.Routing.Next != "" && !resolves(q.Routing.Next) {
			errs = append(errs, fmt.Sprintf("%s routes to nonexistent question %q", prefix, q.Routing.Next))
		}
		optSet := make(map[string]bool, len(q.Options))
		for _, o := range q.Options {
			optSet[o] = true
		}
		for opt, target := range q.Routing.ByOption {
			if !resolves(target) {
				errs = append(errs, fmt.Sprintf("%s option %q routes to nonexistent question %q", prefix, opt, target))
			}
			if len(q.Options) > 0 && !optSet[opt] {
				errs = append(errs, fmt.Sprintf("%s routes undeclared option %q", prefix, opt))
			}
		}

		if q.FanOut {
			if q.Type != TypeCheckbox {
				errs = append(errs, fmt.Sprintf("%s: fan-out requires type checkbox, got %q", prefix, q.Type))
			}
			if q.Routing.ByOption == nil {
				errs = append(errs, fmt.Sprintf("%s: fan-out requires conditional routing", prefix))
			}
		}

		if q.NoneOption != "" {
			if !optSet[q.NoneOption] {
				errs = append(errs, fmt.Sprintf("%s: noneOption %q is not a declared option", prefix, q.NoneOption))
			}
			if q.NoneSkipTo == "" {
				errs = append(errs, fmt.Sprintf("%s: noneOption declared without noneSkipTo", prefix))
			} else if !resolves(q.NoneSkipTo) {
				errs = append(errs, fmt.Sprintf("%s: noneSkipTo %q does not resolve", prefix, q.NoneSkipTo))
			}
		}

		if q.Kind == KindEndpoint {
			// Endpoints only contribute checklist items.
			if !q.Routing.IsZero() {
				errs = append(errs, fmt.Sprintf("%s: endpoint must not declare routing", prefix))
			}
			if len(q.Checklist) == 0 {
				errs = append(errs, fmt.Sprintf("%s: endpoint contributes no checklist items", prefix))
			}
		}

		// Checklist labels must be declared options on visitable questions.
		if q.Kind != KindEndpoint && len(q.Options) > 0 && q.ID != IDFinalItems {
			for label := range q.Checklist {
				if !optSet[label] {
					errs = append(errs, fmt.Sprintf("%s: checklist label %q is not a declared option", prefix, label))
				}
			}
		}
	}

	// Endpoints must only be reached from fan-out routing, never plain routing.
	for _, q := range doc.Questions {
		if q.FanOut {
			continue
		}
		if endpointSet[q.Routing.Next] {
			errs = append(errs, fmt.Sprintf("question %q routes unconditionally into endpoint %q", q.ID, q.Routing.Next))
		}
		for opt, target := range q.Routing.ByOption {
			if endpointSet[target] {
				errs = append(errs, fmt.Sprintf("question %q option %q routes into endpoint %q outside fan-out", q.ID, opt, target))
			}
		}
	}

	// Phase ids must be unique; checklist phase tags must resolve.
	phaseSet := make(map[int]bool, len(doc.Phases))
	for _, p := range doc.Phases {
		if phaseSet[p.ID] {
			errs = append(errs, fmt.Sprintf("duplicate phase id: %d", p.ID))
		}
		phaseSet[p.ID] = true
	}
	for _, q := range doc.Questions {
		textCount := make(map[string]int)
		for label, items := range q.Checklist {
			for _, item := range items {
				if item.Text == "" {
					errs = append(errs, fmt.Sprintf("question %q label %q: checklist item with empty text", q.ID, label))
				}
				if item.Phase != 0 && len(doc.Phases) > 0 && !phaseSet[item.Phase] {
					errs = append(errs, fmt.Sprintf("question %q label %q: unknown phase %d", q.ID, label, item.Phase))
				}
				textCount[item.Text]++
			}
		}
		// Multi-select questions can apply several labels at once, so a
		// text repeated across labels would yield duplicate entries.
		if q.Type == TypeCheckbox {
			var dups []string
			for text, n := range textCount {
				if n > 1 {
					dups = append(dups, text)
				}
			}
			sort.Strings(dups)
			for _, text := range dups {
				errs = append(errs, fmt.Sprintf("question %q: checklist item %q declared more than once", q.ID, text))
			}
		}
	}

	if len(doc.Questions) == 0 {
		errs = append(errs, "document declares no questions")
	}

	if len(errs) > 0 {
		return fmt.Errorf("decision tree validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}
