package service

import (
	"testing"
	"time"
)

func TestIsUnread(t *testing.T) {
	now := time.Now()
	earlier := now.Add(-time.Hour)
	later := now.Add(time.Hour)

	tests := []struct {
		name          string
		lastMessageAt time.Time
		lastRead      *time.Time
		want          bool
	}{
		{"empty conversation never unread", time.Time{}, nil, false},
		{"empty conversation with read mark", time.Time{}, &now, false},
		{"never read with messages", now, nil, true},
		{"read before last message", later, &now, true},
		{"read after last message", earlier, &now, false},
		{"read exactly at last message", now, &now, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUnread(tt.lastMessageAt, tt.lastRead); got != tt.want {
				t.Errorf("IsUnread = %v, want %v", got, tt.want)
			}
		})
	}
}
