package service

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hellodap/dap-backend/internal/entity"
	"github.com/hellodap/dap-backend/internal/repository"
	"github.com/hellodap/dap-backend/pkg/apperror"
	"github.com/redis/go-redis/v9"
)

// joinGuardTTL bounds how long a join can be considered in flight. A
// crashed request releases its slot after this window even without an
// explicit unlock.
const joinGuardTTL = 10 * time.Second

const participantCountKeyPrefix = "event:participants:"

type ParticipationService interface {
	// Join registers the user on the event. A second join attempt for the
	// same pair while the first is still in flight returns ErrJoinInFlight
	// without touching the counter.
	Join(ctx context.Context, eventID, userID uuid.UUID) error
	Leave(ctx context.Context, eventID, userID uuid.UUID) error
	IsJoined(ctx context.Context, eventID, userID uuid.UUID) (bool, error)

	// ParticipantCount reads the cached counter, falling back to the
	// database when the cache is cold or unavailable.
	ParticipantCount(ctx context.Context, eventID uuid.UUID) (int64, error)

	// StartCountSyncWorker periodically reconciles cached counters against
	// the participation table until ctx is cancelled.
	StartCountSyncWorker(ctx context.Context, interval time.Duration)
}

type participationService struct {
	repo        repository.ParticipationRepository
	eventRepo   repository.EventRepository
	userRepo    repository.UserRepository
	notifier    NotificationService
	redisClient *redis.Client

	// inFlight backs the join guard when redis is not configured.
	inFlight sync.Map
}

func NewParticipationService(
	repo repository.ParticipationRepository,
	eventRepo repository.EventRepository,
	userRepo repository.UserRepository,
	notifier NotificationService,
	redisClient *redis.Client,
) ParticipationService {
	return &participationService{
		repo:        repo,
		eventRepo:   eventRepo,
		userRepo:    userRepo,
		notifier:    notifier,
		redisClient: redisClient,
	}
}

func (s *participationService) Join(ctx context.Context, eventID, userID uuid.UUID) error {
	acquired, release, err := s.acquireJoinGuard(ctx, eventID, userID)
	if err != nil {
		return err
	}
	if !acquired {
		return apperror.ErrJoinInFlight
	}
	defer release()

	if err := s.repo.Join(ctx, eventID, userID, time.Now()); err != nil {
		return err
	}

	s.bumpCachedCount(ctx, eventID, 1)
	s.notifyCreator(ctx, eventID, userID)
	return nil
}

func (s *participationService) Leave(ctx context.Context, eventID, userID uuid.UUID) error {
	if err := s.repo.Leave(ctx, eventID, userID); err != nil {
		return err
	}
	s.bumpCachedCount(ctx, eventID, -1)
	return nil
}

func (s *participationService) IsJoined(ctx context.Context, eventID, userID uuid.UUID) (bool, error) {
	return s.repo.IsJoined(ctx, eventID, userID)
}

func (s *participationService) ParticipantCount(ctx context.Context, eventID uuid.UUID) (int64, error) {
	if s.redisClient != nil {
		val, err := s.redisClient.Get(ctx, participantCountKey(eventID)).Result()
		if err == nil {
			if count, parseErr := strconv.ParseInt(val, 10, 64); parseErr == nil {
				return count, nil
			}
		}
	}

	count, err := s.repo.CountForEvent(ctx, eventID)
	if err != nil {
		return 0, err
	}
	if s.redisClient != nil {
		s.redisClient.Set(ctx, participantCountKey(eventID), count, 0)
	}
	return count, nil
}

func (s *participationService) StartCountSyncWorker(ctx context.Context, interval time.Duration) {
	if s.redisClient == nil {
		return
	}
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.syncCounts(ctx)
			}
		}
	}()
}

// syncCounts walks the cached counter keys and rewrites each from the
// database, so drift from missed increments heals on its own.
func (s *participationService) syncCounts(ctx context.Context) {
	iter := s.redisClient.Scan(ctx, 0, participantCountKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		eventID, err := uuid.Parse(key[len(participantCountKeyPrefix):])
		if err != nil {
			s.redisClient.Del(ctx, key)
			continue
		}

		count, err := s.repo.CountForEvent(ctx, eventID)
		if err != nil {
			log.Printf("participant count sync failed for event %s: %v", eventID, err)
			continue
		}
		s.redisClient.Set(ctx, key, count, 0)
	}
	if err := iter.Err(); err != nil {
		log.Printf("participant count scan failed: %v", err)
	}
}

// acquireJoinGuard claims the (event, user) join slot. It returns whether
// the slot was free and a release func that must be called once the join
// settles. With redis available the guard also covers multiple instances;
// otherwise an in-process map serves single-instance deployments.
func (s *participationService) acquireJoinGuard(ctx context.Context, eventID, userID uuid.UUID) (bool, func(), error) {
	if s.redisClient != nil {
		key := fmt.Sprintf("event_join:%s:%s", eventID.String(), userID.String())
		wasSet, err := s.redisClient.SetNX(ctx, key, "locked", joinGuardTTL).Result()
		if err != nil {
			return false, nil, fmt.Errorf("failed to acquire join guard in redis: %w", err)
		}
		if !wasSet {
			return false, nil, nil
		}
		return true, func() {
			s.redisClient.Del(context.Background(), key)
		}, nil
	}

	key := eventID.String() + ":" + userID.String()
	if _, loaded := s.inFlight.LoadOrStore(key, struct{}{}); loaded {
		return false, nil, nil
	}
	return true, func() {
		s.inFlight.Delete(key)
	}, nil
}

func (s *participationService) bumpCachedCount(ctx context.Context, eventID uuid.UUID, delta int64) {
	if s.redisClient == nil {
		return
	}
	key := participantCountKey(eventID)
	if delta > 0 {
		s.redisClient.IncrBy(ctx, key, delta)
		return
	}
	// Decrement only an existing key so a cold cache never goes negative.
	if err := s.redisClient.Get(ctx, key).Err(); err == nil {
		s.redisClient.DecrBy(ctx, key, -delta)
	}
}

func (s *participationService) notifyCreator(ctx context.Context, eventID, userID uuid.UUID) {
	if s.notifier == nil {
		return
	}

	event, err := s.eventRepo.FindByID(ctx, eventID)
	if err != nil {
		return
	}

	actor, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return
	}
	actorName := "Someone"
	if actor.Profile != nil {
		actorName = actor.Profile.FullName()
	}

	notification := &entity.Notification{
		UserID:     event.CreatorID,
		ActorID:    userID,
		EntityID:   eventID,
		EntityType: "event",
		Type:       entity.NotificationEventJoin,
		Message:    fmt.Sprintf("%s joined your event \"%s\"", actorName, event.Title),
	}
	if err := s.notifier.CreateNotification(ctx, notification); err != nil {
		log.Printf("failed to create join notification for event %s: %v", eventID, err)
	}
}

func participantCountKey(eventID uuid.UUID) string {
	return participantCountKeyPrefix + eventID.String()
}
