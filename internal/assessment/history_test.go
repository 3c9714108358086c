package assessment

import (
	"slices"
	"testing"
)

func TestHistory_PushCopiesSnapshots(t *testing.T) {
	h := NewHistory()
	pending := []string{"a", "b"}
	h.Push(Frame{QuestionID: "q", Answer: MultiSelect("x"), Pending: pending})

	// Mutating the caller's slice must not reach the stored frame.
	pending[0] = "mutated"

	f, ok := h.Pop()
	if !ok {
		t.Fatal("pop failed")
	}
	if !slices.Equal(f.Pending, []string{"a", "b"}) {
		t.Errorf("pending = %v, want [a b]", f.Pending)
	}
}

func TestHistory_PopOrder(t *testing.T) {
	h := NewHistory()
	h.Push(Frame{QuestionID: "first"})
	h.Push(Frame{QuestionID: "second"})

	f, _ := h.Pop()
	if f.QuestionID != "second" {
		t.Errorf("got %q, want second", f.QuestionID)
	}
	f, _ = h.Pop()
	if f.QuestionID != "first" {
		t.Errorf("got %q, want first", f.QuestionID)
	}
	if _, ok := h.Pop(); ok {
		t.Error("pop on empty stack succeeded")
	}
}

func TestHistory_FramesRoundTrip(t *testing.T) {
	h := NewHistory()
	h.Push(Frame{QuestionID: "a", Answer: Single("Yes")})
	h.Push(Frame{QuestionID: "b", Pending: []string{"c"}})

	fresh := NewHistory()
	fresh.Restore(h.Frames())
	if fresh.Len() != 2 {
		t.Fatalf("len = %d, want 2", fresh.Len())
	}
	f, _ := fresh.Pop()
	if f.QuestionID != "b" || !slices.Equal(f.Pending, []string{"c"}) {
		t.Errorf("got %+v", f)
	}
}

func TestAnswer_Accessors(t *testing.T) {
	a := Single("Yes")
	if a.First() != "Yes" || !a.Has("Yes") || a.IsEmpty() || a.Multi {
		t.Errorf("unexpected single answer state: %+v", a)
	}

	m := MultiSelect("a", "b")
	if m.First() != "a" || !m.Has("b") || m.Has("c") || !m.Multi {
		t.Errorf("unexpected multi answer state: %+v", m)
	}

	var zero Answer
	if !zero.IsEmpty() || zero.First() != "" {
		t.Errorf("unexpected zero answer state: %+v", zero)
	}
}

func TestAnswerStore_SetGetClear(t *testing.T) {
	st := NewAnswerStore()
	st.Set("q", Single("Yes"))

	got, ok := st.Get("q")
	if !ok || got.First() != "Yes" {
		t.Fatalf("got %+v, ok=%v", got, ok)
	}

	st.Clear("q")
	if _, ok := st.Get("q"); ok {
		t.Error("answer survived Clear")
	}
}
