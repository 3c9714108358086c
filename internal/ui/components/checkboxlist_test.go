package components

import (
	"slices"
	"testing"
)

func TestCheckboxList_ToggleKeepsSelectionOrder(t *testing.T) {
	c := NewCheckboxList([]string{"a", "b", "c"})
	c.toggle("c")
	c.toggle("a")

	if got := c.Selected(); !slices.Equal(got, []string{"c", "a"}) {
		t.Errorf("selected = %v, want [c a]", got)
	}

	c.toggle("c")
	if got := c.Selected(); !slices.Equal(got, []string{"a"}) {
		t.Errorf("selected = %v, want [a]", got)
	}
}

func TestCheckboxList_ExclusiveOption(t *testing.T) {
	c := NewCheckboxList([]string{"a", "b", "None"})
	c.Exclusive = "None"

	c.toggle("a")
	c.toggle("b")
	c.toggle("None")
	if got := c.Selected(); !slices.Equal(got, []string{"None"}) {
		t.Errorf("selected = %v, want [None] after exclusive toggle", got)
	}

	c.toggle("a")
	if got := c.Selected(); !slices.Equal(got, []string{"a"}) {
		t.Errorf("selected = %v, want [a] after leaving exclusive", got)
	}
}

func TestCheckboxList_SetSelectedDropsUnknown(t *testing.T) {
	c := NewCheckboxList([]string{"a", "b"})
	c.SetSelected([]string{"b", "ghost", "a"})
	if got := c.Selected(); !slices.Equal(got, []string{"b", "a"}) {
		t.Errorf("selected = %v, want [b a]", got)
	}
}
