package service

import (
	"testing"
	"time"
)

func TestParseDateQuery(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  time.Time
		ok    bool
	}{
		{"date form", "date:2026-09-01", time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), true},
		{"date form with space", "date: 2026-09-01", time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), true},
		{"plain text", "karaoke night", time.Time{}, false},
		{"empty", "", time.Time{}, false},
		{"malformed date", "date:tomorrow", time.Time{}, false},
		{"wrong order", "2026-09-01:date", time.Time{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseDateQuery(tt.query)
			if ok != tt.ok {
				t.Fatalf("parseDateQuery(%q) ok = %v, want %v", tt.query, ok, tt.ok)
			}
			if ok && !got.Equal(tt.want) {
				t.Errorf("parseDateQuery(%q) = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}
