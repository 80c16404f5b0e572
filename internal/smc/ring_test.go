package smc

import "testing"

func TestBoundedList_NewestFirst(t *testing.T) {
	l := newBoundedList[int](3)
	for v := 1; v <= 3; v++ {
		if evicted := l.PushFront(v); evicted {
			t.Fatalf("push %d: unexpected eviction", v)
		}
	}
	if got := l.Items(); got[0] != 3 || got[1] != 2 || got[2] != 1 {
		t.Fatalf("expected [3 2 1], got %v", got)
	}
	if !l.PushFront(4) {
		t.Fatal("push onto a full list should evict")
	}
	if got := l.Items(); len(got) != 3 || got[0] != 4 || got[2] != 2 {
		t.Fatalf("expected [4 3 2], got %v", got)
	}
}

func TestBoundedList_NeverExceedsCapacity(t *testing.T) {
	l := newBoundedList[int](fairValueGapCap)
	for v := 0; v < 250; v++ {
		l.PushFront(v)
		if l.Len() > l.Cap() {
			t.Fatalf("len %d exceeds cap %d", l.Len(), l.Cap())
		}
	}
	if l.Len() != 200 {
		t.Fatalf("expected 200 entries, got %d", l.Len())
	}
	if l.At(0) != 249 || l.At(199) != 50 {
		t.Errorf("expected newest 249 and oldest 50, got %d and %d", l.At(0), l.At(199))
	}
}

func TestBoundedList_RemoveIfKeepsOrder(t *testing.T) {
	l := newBoundedList[int](5)
	for v := 1; v <= 7; v++ { // wraps the ring
		l.PushFront(v)
	}
	removed := l.RemoveIf(func(v int) bool { return v%2 == 0 })
	if removed != 2 {
		t.Fatalf("expected 2 removed, got %d", removed)
	}
	got := l.Items()
	want := []int{7, 5, 3}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
	l.PushFront(9)
	if l.At(0) != 9 || l.Len() != 4 {
		t.Errorf("push after removal: got %v", l.Items())
	}
}

func TestBoundedList_Head(t *testing.T) {
	l := newBoundedList[int](10)
	for v := 1; v <= 4; v++ {
		l.PushFront(v)
	}
	if got := l.Head(2); len(got) != 2 || got[0] != 4 || got[1] != 3 {
		t.Errorf("head(2): got %v", got)
	}
	if got := l.Head(9); len(got) != 4 {
		t.Errorf("head(9) should clamp to len, got %v", got)
	}
	if got := l.Head(0); len(got) != 0 {
		t.Errorf("head(0) should be empty, got %v", got)
	}
}
