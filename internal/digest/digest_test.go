package digest

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hellodap/dap-backend/internal/entity"
)

func TestWindowIsPreviousJSTDay(t *testing.T) {
	// 2026-09-01 03:00 JST is 2026-08-31 18:00 UTC.
	now := time.Date(2026, 8, 31, 18, 0, 0, 0, time.UTC)

	from, to := Window(now)

	wantFrom := time.Date(2026, 8, 31, 0, 0, 0, 0, jst)
	wantTo := time.Date(2026, 9, 1, 0, 0, 0, 0, jst)
	if !from.Equal(wantFrom) {
		t.Errorf("from = %v, want %v", from, wantFrom)
	}
	if !to.Equal(wantTo) {
		t.Errorf("to = %v, want %v", to, wantTo)
	}
	if to.Sub(from) != 24*time.Hour {
		t.Errorf("window is %v, want 24h", to.Sub(from))
	}
}

func TestWindowJustBeforeJSTMidnight(t *testing.T) {
	// 23:59 JST still belongs to the same JST day.
	now := time.Date(2026, 9, 1, 14, 59, 0, 0, time.UTC) // 23:59 JST
	from, _ := Window(now)
	if !from.Equal(time.Date(2026, 8, 31, 0, 0, 0, 0, jst)) {
		t.Errorf("from = %v", from)
	}
}

type stubSource struct {
	recipients []Recipient
	likes      map[uuid.UUID]int64
	messages   map[uuid.UUID]int64
	upcoming   []entity.Event
}

func (s *stubSource) ListRecipients(ctx context.Context) ([]Recipient, error) {
	return s.recipients, nil
}

func (s *stubSource) LikesReceived(ctx context.Context, userID uuid.UUID, from, to time.Time) (int64, error) {
	return s.likes[userID], nil
}

func (s *stubSource) MessagesReceived(ctx context.Context, userID uuid.UUID, from, to time.Time) (int64, error) {
	return s.messages[userID], nil
}

func (s *stubSource) UnreadConversations(ctx context.Context, userID uuid.UUID) (int64, error) {
	return 0, nil
}

func (s *stubSource) JoinsOnOwnEvents(ctx context.Context, userID uuid.UUID, from, to time.Time) (int64, error) {
	return 0, nil
}

func (s *stubSource) CommentsOnOwnEvents(ctx context.Context, userID uuid.UUID, from, to time.Time) (int64, error) {
	return 0, nil
}

func (s *stubSource) EventsCreated(ctx context.Context, from, to time.Time) (int64, error) {
	return 0, nil
}

func (s *stubSource) NewSignups(ctx context.Context, from, to time.Time) (int64, error) {
	return 0, nil
}

func (s *stubSource) TotalMatches(ctx context.Context, userID uuid.UUID) (int64, error) {
	return 2, nil
}

func (s *stubSource) UpcomingEvents(ctx context.Context, after time.Time, limit int) ([]entity.Event, error) {
	return s.upcoming, nil
}

type recordingMailer struct {
	sent []string
}

func (m *recordingMailer) Send(to, subject, htmlBody string) error {
	m.sent = append(m.sent, to)
	return nil
}

func TestRunSkipsUsersWithoutActivity(t *testing.T) {
	active := Recipient{ID: uuid.New(), Email: "active@example.com", FirstName: "Aiko"}
	idle := Recipient{ID: uuid.New(), Email: "idle@example.com", FirstName: "Ben"}

	source := &stubSource{
		recipients: []Recipient{active, idle},
		likes:      map[uuid.UUID]int64{active.ID: 3},
		messages:   map[uuid.UUID]int64{},
	}
	mail := &recordingMailer{}

	if err := NewAggregator(source, mail).Run(context.Background(), time.Now()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(mail.sent) != 1 || mail.sent[0] != active.Email {
		t.Errorf("sent to %v, want only %s", mail.sent, active.Email)
	}
}

func TestHasActivity(t *testing.T) {
	var d Digest
	if d.HasActivity() {
		t.Error("zero digest should have no activity")
	}

	d.TotalMatches = 5
	if d.HasActivity() {
		t.Error("total matches alone must not trigger a send")
	}

	d.MessagesReceived = 1
	if !d.HasActivity() {
		t.Error("a windowed signal should count as activity")
	}
}

func TestRenderIncludesSignalsAndUpcoming(t *testing.T) {
	d := &Digest{
		Recipient:        Recipient{FirstName: "Aiko"},
		From:             time.Date(2026, 8, 31, 0, 0, 0, 0, jst),
		LikesReceived:    2,
		MessagesReceived: 1,
		TotalMatches:     3,
		UpcomingEvents: []entity.Event{
			{Title: "Hanami picnic", Date: time.Date(2026, 9, 5, 12, 0, 0, 0, jst), Location: "Yoyogi Park"},
		},
	}

	subject, body, err := Render(d)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(subject, "Aug 31") {
		t.Errorf("subject %q missing window date", subject)
	}
	for _, want := range []string{"Aiko", "Hanami picnic", "Yoyogi Park", "2</strong> new people like you"} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q", want)
		}
	}
}

func TestRenderSkipsZeroSignals(t *testing.T) {
	d := &Digest{
		Recipient:     Recipient{FirstName: "Ben"},
		From:          time.Date(2026, 8, 31, 0, 0, 0, 0, jst),
		LikesReceived: 1,
	}

	_, body, err := Render(d)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if strings.Contains(body, "message") {
		t.Error("zero message count should not be rendered")
	}
	if strings.Contains(body, "Upcoming events") {
		t.Error("empty upcoming list should not be rendered")
	}
}
