package domain

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestSelectionToggle(t *testing.T) {
	var s Selection

	if !s.Toggle(4) {
		t.Fatal("first toggle should select")
	}
	if !s.Has(4) || s.Len() != 1 {
		t.Fatalf("expected {4}, got %v", s.IDs())
	}
	if s.Toggle(4) {
		t.Fatal("second toggle should deselect")
	}
	if s.Has(4) || s.Len() != 0 {
		t.Fatalf("expected empty selection, got %v", s.IDs())
	}
}

func TestSelectionToggleVisible(t *testing.T) {
	tests := []struct {
		name     string
		start    []int
		visible  []int
		want     []int
		selected bool
	}{
		{name: "none selected selects page", start: nil, visible: []int{1, 2, 3}, want: []int{1, 2, 3}, selected: true},
		{name: "partial selection completes page", start: []int{2, 9}, visible: []int{1, 2, 3}, want: []int{1, 2, 3, 9}, selected: true},
		{name: "full page deselects only page", start: []int{1, 2, 3, 9}, visible: []int{1, 2, 3}, want: []int{9}, selected: false},
		{name: "empty page is a no-op", start: []int{5}, visible: nil, want: []int{5}, selected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSelection(tt.start...)
			got := s.ToggleVisible(tt.visible)
			if got != tt.selected {
				t.Errorf("ToggleVisible returned %v, want %v", got, tt.selected)
			}
			if diff := cmp.Diff(tt.want, s.IDs(), cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("selection mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSelectionToggleVisibleTwiceRestores(t *testing.T) {
	visible := []int{11, 12, 13, 14}
	for _, start := range [][]int{nil, {11}, {3, 12, 14}, {100}} {
		s := NewSelection(start...)
		before := s.IDs()

		s.ToggleVisible(visible)
		if !s.AllSelected(visible) {
			t.Fatalf("start %v: page not fully selected after first toggle", start)
		}
		s.ToggleVisible(visible)
		for _, id := range visible {
			if s.Has(id) {
				t.Fatalf("start %v: %d still selected after second toggle", start, id)
			}
		}
		for _, id := range before {
			if !contains(visible, id) && !s.Has(id) {
				t.Fatalf("start %v: off-page id %d lost", start, id)
			}
		}
	}
}

func TestSelectionAllSelected(t *testing.T) {
	s := NewSelection(1, 2)
	if s.AllSelected(nil) {
		t.Error("empty page reported as all selected")
	}
	if !s.AllSelected([]int{1, 2}) {
		t.Error("expected all selected")
	}
	if s.AllSelected([]int{1, 2, 3}) {
		t.Error("expected partial selection")
	}
}

func TestSelectionPrune(t *testing.T) {
	s := NewSelection(1, 2, 3, 4)
	dropped := s.Prune(func(id int) bool { return id%2 == 0 })

	if diff := cmp.Diff([]int{1, 3}, dropped); diff != "" {
		t.Errorf("dropped mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{2, 4}, s.IDs()); diff != "" {
		t.Errorf("remaining mismatch (-want +got):\n%s", diff)
	}
}

func TestSelectionClear(t *testing.T) {
	s := NewSelection(7, 8)
	s.Clear()
	if s.Len() != 0 {
		t.Fatalf("expected empty selection, got %v", s.IDs())
	}
}

func contains(ids []int, id int) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
