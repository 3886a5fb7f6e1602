package eventlog

import "testing"

func TestRecentReturnsInOrderBeforeWrap(t *testing.T) {
	l := New(5)
	for i := int64(1); i <= 3; i++ {
		l.Append(Event{Tick: i, Category: "test", Message: "m"})
	}

	got := l.Recent(10)
	if len(got) != 3 {
		t.Fatalf("Recent(10) returned %d events, want 3", len(got))
	}
	for i, e := range got {
		if e.Tick != int64(i+1) {
			t.Fatalf("Recent()[%d].Tick = %d, want %d", i, e.Tick, i+1)
		}
	}
}

func TestRecentWrapsAndDropsOldest(t *testing.T) {
	l := New(3)
	for i := int64(1); i <= 5; i++ {
		l.Append(Event{Tick: i})
	}

	got := l.Recent(3)
	if len(got) != 3 {
		t.Fatalf("Recent(3) returned %d events, want 3", len(got))
	}
	wantTicks := []int64{3, 4, 5}
	for i, e := range got {
		if e.Tick != wantTicks[i] {
			t.Fatalf("Recent()[%d].Tick = %d, want %d", i, e.Tick, wantTicks[i])
		}
	}
}

func TestRecentCapAtZeroOrNegativeFloorsToOne(t *testing.T) {
	l := New(0)
	l.Append(Event{Tick: 1})
	l.Append(Event{Tick: 2})
	got := l.Recent(10)
	if len(got) != 1 || got[0].Tick != 2 {
		t.Fatalf("Recent() on a floored-to-1 log = %+v, want single event tick=2", got)
	}
}

func TestHumanizeFormatsTickWithCommas(t *testing.T) {
	s := Humanize(Event{Tick: 1204, Category: "death", Message: "goblin slain"})
	want := "[tick 1,204] death: goblin slain"
	if s != want {
		t.Fatalf("Humanize() = %q, want %q", s, want)
	}
}
