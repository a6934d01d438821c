package entity

import (
	"testing"
	"time"
)

func TestEventIsFull(t *testing.T) {
	tests := []struct {
		name    string
		max     int
		current int
		want    bool
	}{
		{"unlimited is never full", 0, 50, false},
		{"below capacity", 5, 4, false},
		{"at capacity", 5, 5, true},
		{"over capacity", 5, 6, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := Event{MaxParticipants: tt.max, CurrentParticipants: tt.current}
			if got := e.IsFull(); got != tt.want {
				t.Errorf("IsFull() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEventIsPast(t *testing.T) {
	now := time.Now()

	past := Event{Date: now.Add(-time.Minute)}
	if !past.IsPast(now) {
		t.Error("event before now should be past")
	}

	future := Event{Date: now.Add(time.Minute)}
	if future.IsPast(now) {
		t.Error("event after now should not be past")
	}
}

func TestDisplayParticipants(t *testing.T) {
	// The creator participates implicitly and has no join record, so the
	// displayed count is always one ahead of the stored counter.
	e := Event{CurrentParticipants: 3}
	if got := e.DisplayParticipants(); got != 4 {
		t.Errorf("DisplayParticipants() = %d, want 4", got)
	}

	fresh := Event{}
	if got := fresh.DisplayParticipants(); got != 1 {
		t.Errorf("fresh event should display 1, got %d", got)
	}
}

func TestEventCategoryLabel(t *testing.T) {
	if got := CategorySports.Label("ja"); got != "スポーツ" {
		t.Errorf("japanese label = %q", got)
	}
	if got := CategorySports.Label("en"); got != "Sports" {
		t.Errorf("english label = %q", got)
	}
	if got := EventCategory("mystery").Label("en"); got != "mystery" {
		t.Errorf("unknown category should fall back to raw value, got %q", got)
	}
}

func TestEventCategoryValid(t *testing.T) {
	if !CategoryKaraoke.Valid() {
		t.Error("karaoke should be a valid category")
	}
	if EventCategory("mystery").Valid() {
		t.Error("unknown category should be invalid")
	}
}
