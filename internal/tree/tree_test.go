package tree

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestDefault_Loads(t *testing.T) {
	tr, err := Default()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tr.Title() == "" {
		t.Error("expected a non-empty title")
	}
	if first := tr.First(); first == nil || first.ID != "q1" {
		t.Errorf("First() = %v, want q1", first)
	}
	if tr.Len() == 0 {
		t.Error("expected a non-zero visitable question count")
	}
	if tr.FinalItems() == nil {
		t.Error("expected the final-items question to exist")
	}
}

func TestDefault_DerivedSets(t *testing.T) {
	tr, err := Default()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, id := range []string{"q5_drug", "q5_device", "q5_intl"} {
		if !tr.IsSubQuestion(id) {
			t.Errorf("expected %q to be a sub-question", id)
		}
	}
	// The none-of-the-above skip target is a normal question even though
	// it appears in the fan-out routing map.
	if tr.IsSubQuestion("q7") {
		t.Error("q7 is the none-skip target and must not be a sub-question")
	}
	for _, id := range []string{"ep_genetic", "ep_radiation"} {
		if !tr.IsEndpoint(id) {
			t.Errorf("expected %q to be an endpoint", id)
		}
	}
	// Endpoints are never offered as visitable questions.
	if q := tr.First(); q != nil && q.IsEndpoint() {
		t.Error("First() returned an endpoint")
	}
}

func TestLookup_NotFound(t *testing.T) {
	tr, err := Default()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err = tr.Lookup("no-such-question")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestIsTerminal(t *testing.T) {
	if !IsTerminal(IDSummary) || !IsTerminal(IDEndDetermination) {
		t.Error("sentinels must be terminal")
	}
	if IsTerminal("q1") || IsTerminal("") {
		t.Error("ordinary ids must not be terminal")
	}
}

func TestParsePriority(t *testing.T) {
	tests := []struct {
		label string
		want  Priority
	}{
		{"CRITICAL - Start early", PriorityCritical},
		{"Required", PriorityRequired},
		{"required for funded studies", PriorityRequired},
		{"Strongly recommended", PriorityRecommended},
		{"Optional", PriorityOptional},
		{"", PriorityInfo},
		{"for your information", PriorityInfo},
	}
	for _, tt := range tests {
		if got := ParsePriority(tt.label); got != tt.want {
			t.Errorf("ParsePriority(%q) = %v, want %v", tt.label, got, tt.want)
		}
	}
}

func TestPriority_Ordering(t *testing.T) {
	if !(PriorityCritical > PriorityRequired &&
		PriorityRequired > PriorityRecommended &&
		PriorityRecommended > PriorityOptional &&
		PriorityOptional > PriorityInfo) {
		t.Error("priority constants are not ordered most urgent first")
	}
}

func TestRouting_UnmarshalString(t *testing.T) {
	var r Routing
	if err := json.Unmarshal([]byte(`"q2"`), &r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Next != "q2" || r.ByOption != nil {
		t.Errorf("got %+v, want Next=q2", r)
	}
}

func TestRouting_UnmarshalObject(t *testing.T) {
	var r Routing
	if err := json.Unmarshal([]byte(`{"Yes":"q2","No":"summary"}`), &r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Next != "" || r.ByOption["Yes"] != "q2" || r.ByOption["No"] != "summary" {
		t.Errorf("got %+v", r)
	}
}

func TestRouting_UnmarshalInvalid(t *testing.T) {
	var r Routing
	if err := json.Unmarshal([]byte(`42`), &r); err == nil {
		t.Error("expected error for non-string, non-object routing")
	}
}

func TestAllTemplates_Order(t *testing.T) {
	q := Question{
		ID:      "q",
		Options: []string{"b", "a"},
		Checklist: map[string][]ItemTemplate{
			"a": {{Text: "from a"}},
			"b": {{Text: "from b"}},
			"*": {{Text: "wildcard"}},
		},
	}
	got := q.AllTemplates()
	want := []string{"from b", "from a", "wildcard"}
	if len(got) != len(want) {
		t.Fatalf("got %d templates, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].Text != want[i] {
			t.Errorf("template %d = %q, want %q", i, got[i].Text, want[i])
		}
	}
}

func validDoc() Document {
	return Document{
		Title: "test",
		Questions: []Question{
			{ID: "q1", Text: "t", Type: TypeBoolean, Options: []string{"Yes", "No"},
				Routing: Routing{ByOption: map[string]string{"Yes": "q2", "No": "summary"}}},
			{ID: "q2", Text: "t", Type: TypeInfo, Routing: Routing{Next: "summary"}},
		},
	}
}

func TestValidate_OK(t *testing.T) {
	if err := Validate(validDoc()); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidate_Failures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Document)
		want   string
	}{
		{
			name:   "duplicate id",
			mutate: func(d *Document) { d.Questions[1].ID = "q1" },
			want:   "duplicate question id",
		},
		{
			name:   "sentinel collision",
			mutate: func(d *Document) { d.Questions[1].ID = "summary" },
			want:   "reserved sentinel",
		},
		{
			name:   "dangling route",
			mutate: func(d *Document) { d.Questions[1].Routing.Next = "ghost" },
			want:   "nonexistent question",
		},
		{
			name:   "undeclared option route",
			mutate: func(d *Document) { d.Questions[0].Routing.ByOption["Maybe"] = "q2" },
			want:   "undeclared option",
		},
		{
			name: "fan-out on non-checkbox",
			mutate: func(d *Document) {
				d.Questions[0].FanOut = true
			},
			want: "fan-out requires type checkbox",
		},
		{
			name: "none option undeclared",
			mutate: func(d *Document) {
				d.Questions[0].NoneOption = "None"
				d.Questions[0].NoneSkipTo = "q2"
			},
			want: "not a declared option",
		},
		{
			name: "endpoint with routing",
			mutate: func(d *Document) {
				d.Questions = append(d.Questions, Question{
					ID: "ep", Text: "t", Type: TypeInfo, Kind: KindEndpoint,
					Routing:   Routing{Next: "summary"},
					Checklist: map[string][]ItemTemplate{"*": {{Text: "x"}}},
				})
			},
			want: "endpoint must not declare routing",
		},
		{
			name: "endpoint without items",
			mutate: func(d *Document) {
				d.Questions = append(d.Questions, Question{
					ID: "ep", Text: "t", Type: TypeInfo, Kind: KindEndpoint,
				})
			},
			want: "contributes no checklist items",
		},
		{
			name: "endpoint reached outside fan-out",
			mutate: func(d *Document) {
				d.Questions = append(d.Questions, Question{
					ID: "ep", Text: "t", Type: TypeInfo, Kind: KindEndpoint,
					Checklist: map[string][]ItemTemplate{"*": {{Text: "x"}}},
				})
				d.Questions[1].Routing.Next = "ep"
			},
			want: "routes unconditionally into endpoint",
		},
		{
			name: "empty item text",
			mutate: func(d *Document) {
				d.Questions[0].Checklist = map[string][]ItemTemplate{"Yes": {{Text: ""}}}
			},
			want: "empty text",
		},
		{
			name: "unknown phase tag",
			mutate: func(d *Document) {
				d.Phases = []Phase{{ID: 1, Name: "one"}}
				d.Questions[0].Checklist = map[string][]ItemTemplate{"Yes": {{Text: "x", Phase: 9}}}
			},
			want: "unknown phase",
		},
		{
			name: "duplicate item text on multi-select",
			mutate: func(d *Document) {
				d.Questions[0].Type = TypeCheckbox
				d.Questions[0].Checklist = map[string][]ItemTemplate{
					"Yes": {{Text: "same item"}},
					"No":  {{Text: "same item"}},
				}
			},
			want: "declared more than once",
		},
		{
			name:   "no questions",
			mutate: func(d *Document) { d.Questions = nil },
			want:   "no questions",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := validDoc()
			tt.mutate(&doc)
			err := Validate(doc)
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestParse_InvalidJSON(t *testing.T) {
	_, err := Parse([]byte("{not json"), "test")
	var le *LoadError
	if !errors.As(err, &le) {
		t.Fatalf("got %v, want *LoadError", err)
	}
	if le.Source != "test" {
		t.Errorf("source = %q, want test", le.Source)
	}
}

func TestParse_SchemaViolation(t *testing.T) {
	// Valid JSON with the wrong shape: questions must be an array.
	_, err := Parse([]byte(`{"title":"x","questions":{}}`), "test")
	var le *LoadError
	if !errors.As(err, &le) {
		t.Fatalf("got %v, want *LoadError", err)
	}
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile("/nonexistent/tree.json")
	var le *LoadError
	if !errors.As(err, &le) {
		t.Fatalf("got %v, want *LoadError", err)
	}
}
