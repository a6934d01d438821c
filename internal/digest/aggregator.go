package digest

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/hellodap/dap-backend/internal/entity"
	"github.com/hellodap/dap-backend/internal/repository"
	"github.com/hellodap/dap-backend/internal/service"
	"github.com/hellodap/dap-backend/pkg/mailer"
)

const upcomingEventsLimit = 5

// Recipient is one user the daily digest may be sent to.
type Recipient struct {
	ID        uuid.UUID
	Email     string
	FirstName string
}

// Digest is the per-user daily summary. Activity fields are confined to
// the reporting window; TotalMatches and UpcomingEvents are context shown
// alongside and never trigger a send on their own.
type Digest struct {
	Recipient Recipient
	From, To  time.Time

	LikesReceived       int64
	MessagesReceived    int64
	UnreadConversations int64
	JoinsOnOwnEvents    int64
	CommentsOnOwnEvents int64
	EventsCreated       int64
	NewSignups          int64

	TotalMatches   int64
	UpcomingEvents []entity.Event
}

// HasActivity reports whether any windowed signal is non-zero. A digest
// without activity is skipped rather than sent empty.
func (d *Digest) HasActivity() bool {
	return d.LikesReceived > 0 ||
		d.MessagesReceived > 0 ||
		d.UnreadConversations > 0 ||
		d.JoinsOnOwnEvents > 0 ||
		d.CommentsOnOwnEvents > 0 ||
		d.EventsCreated > 0 ||
		d.NewSignups > 0
}

// Source supplies the counts the aggregator needs. It exists so tests can
// stub activity without a database.
type Source interface {
	ListRecipients(ctx context.Context) ([]Recipient, error)
	LikesReceived(ctx context.Context, userID uuid.UUID, from, to time.Time) (int64, error)
	MessagesReceived(ctx context.Context, userID uuid.UUID, from, to time.Time) (int64, error)
	UnreadConversations(ctx context.Context, userID uuid.UUID) (int64, error)
	JoinsOnOwnEvents(ctx context.Context, userID uuid.UUID, from, to time.Time) (int64, error)
	CommentsOnOwnEvents(ctx context.Context, userID uuid.UUID, from, to time.Time) (int64, error)
	EventsCreated(ctx context.Context, from, to time.Time) (int64, error)
	NewSignups(ctx context.Context, from, to time.Time) (int64, error)
	TotalMatches(ctx context.Context, userID uuid.UUID) (int64, error)
	UpcomingEvents(ctx context.Context, after time.Time, limit int) ([]entity.Event, error)
}

// jst is the reporting timezone; the digest day runs midnight to midnight
// Japan time regardless of server locale.
var jst = time.FixedZone("JST", 9*60*60)

// Window returns the previous full JST day relative to now.
func Window(now time.Time) (from, to time.Time) {
	local := now.In(jst)
	to = time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, jst)
	from = to.AddDate(0, 0, -1)
	return from, to
}

// Aggregator builds and delivers daily digests.
type Aggregator struct {
	source Source
	mail   mailer.Mailer
}

func NewAggregator(source Source, mail mailer.Mailer) *Aggregator {
	return &Aggregator{source: source, mail: mail}
}

// Run assembles the digest for every recipient and sends the non-empty
// ones. One user failing never stops the batch.
func (a *Aggregator) Run(ctx context.Context, now time.Time) error {
	from, to := Window(now)

	recipients, err := a.source.ListRecipients(ctx)
	if err != nil {
		return err
	}

	// Community-wide counts are shared across all recipients.
	eventsCreated, err := a.source.EventsCreated(ctx, from, to)
	if err != nil {
		return err
	}
	signups, err := a.source.NewSignups(ctx, from, to)
	if err != nil {
		return err
	}
	upcoming, err := a.source.UpcomingEvents(ctx, now, upcomingEventsLimit)
	if err != nil {
		return err
	}

	for _, recipient := range recipients {
		digest, err := a.build(ctx, recipient, from, to)
		if err != nil {
			log.Printf("digest build failed for user %s: %v", recipient.ID, err)
			continue
		}
		digest.EventsCreated = eventsCreated
		digest.NewSignups = signups
		digest.UpcomingEvents = upcoming

		if !digest.HasActivity() {
			continue
		}

		subject, body, err := Render(digest)
		if err != nil {
			log.Printf("digest render failed for user %s: %v", recipient.ID, err)
			continue
		}
		if err := a.mail.Send(recipient.Email, subject, body); err != nil {
			log.Printf("digest delivery failed for user %s: %v", recipient.ID, err)
		}
	}
	return nil
}

func (a *Aggregator) build(ctx context.Context, recipient Recipient, from, to time.Time) (*Digest, error) {
	digest := &Digest{Recipient: recipient, From: from, To: to}

	var err error
	if digest.LikesReceived, err = a.source.LikesReceived(ctx, recipient.ID, from, to); err != nil {
		return nil, err
	}
	if digest.MessagesReceived, err = a.source.MessagesReceived(ctx, recipient.ID, from, to); err != nil {
		return nil, err
	}
	if digest.UnreadConversations, err = a.source.UnreadConversations(ctx, recipient.ID); err != nil {
		return nil, err
	}
	if digest.JoinsOnOwnEvents, err = a.source.JoinsOnOwnEvents(ctx, recipient.ID, from, to); err != nil {
		return nil, err
	}
	if digest.CommentsOnOwnEvents, err = a.source.CommentsOnOwnEvents(ctx, recipient.ID, from, to); err != nil {
		return nil, err
	}
	if digest.TotalMatches, err = a.source.TotalMatches(ctx, recipient.ID); err != nil {
		return nil, err
	}
	return digest, nil
}

// repoSource is the production Source backed by the repositories.
type repoSource struct {
	userRepo          repository.UserRepository
	matchRepo         repository.MatchRepository
	messageRepo       repository.MessageRepository
	eventRepo         repository.EventRepository
	participationRepo repository.ParticipationRepository
}

func NewRepoSource(
	userRepo repository.UserRepository,
	matchRepo repository.MatchRepository,
	messageRepo repository.MessageRepository,
	eventRepo repository.EventRepository,
	participationRepo repository.ParticipationRepository,
) Source {
	return &repoSource{
		userRepo:          userRepo,
		matchRepo:         matchRepo,
		messageRepo:       messageRepo,
		eventRepo:         eventRepo,
		participationRepo: participationRepo,
	}
}

func (s *repoSource) ListRecipients(ctx context.Context) ([]Recipient, error) {
	users, err := s.userRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	recipients := make([]Recipient, 0, len(users))
	for _, user := range users {
		if user.Email == "" {
			continue
		}
		recipient := Recipient{ID: user.ID, Email: user.Email}
		if user.Profile != nil {
			recipient.FirstName = user.Profile.FirstName
		}
		recipients = append(recipients, recipient)
	}
	return recipients, nil
}

func (s *repoSource) LikesReceived(ctx context.Context, userID uuid.UUID, from, to time.Time) (int64, error) {
	return s.matchRepo.CountLikesReceivedBetween(ctx, userID, from, to)
}

func (s *repoSource) MessagesReceived(ctx context.Context, userID uuid.UUID, from, to time.Time) (int64, error) {
	return s.messageRepo.CountReceivedBetween(ctx, userID, from, to)
}

func (s *repoSource) UnreadConversations(ctx context.Context, userID uuid.UUID) (int64, error) {
	matches, err := s.matchRepo.ListMatchesForUser(ctx, userID)
	if err != nil {
		return 0, err
	}

	var unread int64
	for i := range matches {
		lastAt, err := s.messageRepo.LastMessageAt(ctx, matches[i].ID)
		if err != nil {
			return 0, err
		}
		if service.IsUnread(lastAt, matches[i].LastReadFor(userID)) {
			unread++
		}
	}
	return unread, nil
}

func (s *repoSource) JoinsOnOwnEvents(ctx context.Context, userID uuid.UUID, from, to time.Time) (int64, error) {
	return s.participationRepo.CountJoinsOnEventsOf(ctx, userID, from, to)
}

func (s *repoSource) CommentsOnOwnEvents(ctx context.Context, userID uuid.UUID, from, to time.Time) (int64, error) {
	return s.eventRepo.CountCommentsOnEventsOf(ctx, userID, from, to)
}

func (s *repoSource) EventsCreated(ctx context.Context, from, to time.Time) (int64, error) {
	return s.eventRepo.CountCreatedBetween(ctx, from, to)
}

func (s *repoSource) NewSignups(ctx context.Context, from, to time.Time) (int64, error) {
	return s.userRepo.CountCreatedBetween(ctx, from, to)
}

func (s *repoSource) TotalMatches(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.matchRepo.CountMatchesForUser(ctx, userID)
}

func (s *repoSource) UpcomingEvents(ctx context.Context, after time.Time, limit int) ([]entity.Event, error) {
	return s.eventRepo.ListUpcoming(ctx, after, limit)
}
