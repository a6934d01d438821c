package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hellodap/dap-backend/internal/dto"
	"github.com/hellodap/dap-backend/internal/entity"
	"github.com/hellodap/dap-backend/internal/repository"
	"github.com/hellodap/dap-backend/pkg/apperror"
	"github.com/hellodap/dap-backend/pkg/storage"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	actionCreateEvent = "create_event"

	// datePrefix triggers the day-lookup branch of the search box.
	datePrefix = "date:"
)

type EventService interface {
	CreateEvent(ctx context.Context, creatorID uuid.UUID, req dto.CreateEventRequest, image io.Reader, imageName string) (*dto.EventResponse, error)
	GetEvent(ctx context.Context, eventID, viewerID uuid.UUID) (*dto.EventResponse, error)
	UpdateEvent(ctx context.Context, eventID, userID uuid.UUID, req dto.UpdateEventRequest, image io.Reader, imageName string) (*dto.EventResponse, error)
	DeleteEvent(ctx context.Context, eventID, userID uuid.UUID) error

	ListEvents(ctx context.Context, viewerID uuid.UUID, filter dto.EventListFilter) (*dto.PaginatedEventResponse, error)

	AddComment(ctx context.Context, eventID, userID uuid.UUID, req dto.CreateCommentRequest) (*dto.CommentResponse, error)
	ListComments(ctx context.Context, eventID uuid.UUID) ([]dto.CommentResponse, error)
	DeleteComment(ctx context.Context, commentID, userID uuid.UUID) error
}

type eventService struct {
	eventRepo         repository.EventRepository
	participationRepo repository.ParticipationRepository
	userRepo          repository.UserRepository
	searchService     SearchService
	notifier          NotificationService
	imageStorage      storage.ImageStorage
	redisClient       *redis.Client
	createLimit       time.Duration
}

func NewEventService(
	eventRepo repository.EventRepository,
	participationRepo repository.ParticipationRepository,
	userRepo repository.UserRepository,
	searchService SearchService,
	notifier NotificationService,
	imageStorage storage.ImageStorage,
	redisClient *redis.Client,
	createLimit time.Duration,
) EventService {
	return &eventService{
		eventRepo:         eventRepo,
		participationRepo: participationRepo,
		userRepo:          userRepo,
		searchService:     searchService,
		notifier:          notifier,
		imageStorage:      imageStorage,
		redisClient:       redisClient,
		createLimit:       createLimit,
	}
}

func (s *eventService) CreateEvent(ctx context.Context, creatorID uuid.UUID, req dto.CreateEventRequest, image io.Reader, imageName string) (*dto.EventResponse, error) {
	if !req.Category.Valid() {
		return nil, apperror.New(400, "unknown event category", apperror.ErrBadRequest)
	}

	allowed, err := CheckAndSetRateLimit(ctx, s.redisClient, creatorID, actionCreateEvent, s.createLimit)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, apperror.New(429, "you are creating events too quickly, try again shortly", apperror.ErrRateLimitExceeded)
	}

	event := entity.Event{
		CreatorID:       creatorID,
		Title:           strings.TrimSpace(req.Title),
		Description:     req.Description,
		Date:            req.Date,
		Location:        req.Location,
		MapLink:         req.MapLink,
		FormURL:         req.FormURL,
		MaxParticipants: req.MaxParticipants,
		Category:        req.Category,
	}

	if image != nil && s.imageStorage != nil {
		url, err := s.imageStorage.UploadImage(ctx, image, storage.FolderEventImages, imageName)
		if err != nil {
			return nil, fmt.Errorf("failed to upload event image: %w", err)
		}
		event.ImageURL = &url
	}

	if err := s.eventRepo.Create(ctx, &event); err != nil {
		// Give the slot back so a failed create doesn't consume the window.
		if clearErr := ClearRateLimit(ctx, s.redisClient, creatorID, actionCreateEvent); clearErr != nil {
			log.Printf("failed to clear create_event rate limit: %v", clearErr)
		}
		return nil, err
	}

	if s.searchService != nil {
		if err := s.searchService.IndexEvent(&event); err != nil {
			log.Printf("event %s created but not indexed: %v", event.ID, err)
		}
	}

	resp := s.toEventResponse(&event, false)
	return &resp, nil
}

func (s *eventService) GetEvent(ctx context.Context, eventID, viewerID uuid.UUID) (*dto.EventResponse, error) {
	event, err := s.eventRepo.FindByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	joined := event.CreatorID == viewerID
	if !joined {
		joined, err = s.participationRepo.IsJoined(ctx, eventID, viewerID)
		if err != nil {
			return nil, err
		}
	}

	resp := s.toEventResponse(event, joined)
	return &resp, nil
}

func (s *eventService) UpdateEvent(ctx context.Context, eventID, userID uuid.UUID, req dto.UpdateEventRequest, image io.Reader, imageName string) (*dto.EventResponse, error) {
	event, err := s.ownedEvent(ctx, eventID, userID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		event.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.Date != nil {
		event.Date = *req.Date
	}
	if req.Location != nil {
		event.Location = *req.Location
	}
	if req.MapLink != nil {
		event.MapLink = req.MapLink
	}
	if req.FormURL != nil {
		event.FormURL = req.FormURL
	}
	if req.MaxParticipants != nil {
		event.MaxParticipants = *req.MaxParticipants
	}
	if req.Category != nil {
		if !req.Category.Valid() {
			return nil, apperror.New(400, "unknown event category", apperror.ErrBadRequest)
		}
		event.Category = *req.Category
	}

	if image != nil && s.imageStorage != nil {
		url, err := s.imageStorage.UploadImage(ctx, image, storage.FolderEventImages, imageName)
		if err != nil {
			return nil, fmt.Errorf("failed to upload event image: %w", err)
		}
		event.ImageURL = &url
	}

	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, err
	}

	if s.searchService != nil {
		if err := s.searchService.IndexEvent(event); err != nil {
			log.Printf("event %s updated but not re-indexed: %v", event.ID, err)
		}
	}

	resp := s.toEventResponse(event, false)
	return &resp, nil
}

func (s *eventService) DeleteEvent(ctx context.Context, eventID, userID uuid.UUID) error {
	if _, err := s.ownedEvent(ctx, eventID, userID); err != nil {
		return err
	}

	if err := s.eventRepo.Delete(ctx, eventID); err != nil {
		return err
	}

	if s.searchService != nil {
		if err := s.searchService.DeleteEvent(eventID); err != nil {
			log.Printf("event %s deleted but still indexed: %v", eventID, err)
		}
	}
	return nil
}

func (s *eventService) ListEvents(ctx context.Context, viewerID uuid.UUID, filter dto.EventListFilter) (*dto.PaginatedEventResponse, error) {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 10
	}

	events, err := s.resolveEvents(ctx, filter.Search, page, limit)
	if err != nil {
		return nil, err
	}

	joinedIDs, err := s.participationRepo.ListEventIDsForUser(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	joinedSet := make(map[uuid.UUID]struct{}, len(joinedIDs))
	for _, id := range joinedIDs {
		joinedSet[id] = struct{}{}
	}

	data := make([]dto.EventResponse, 0, len(events))
	for i := range events {
		event := &events[i]
		_, joined := joinedSet[event.ID]
		data = append(data, s.toEventResponse(event, joined || event.CreatorID == viewerID))
	}

	return &dto.PaginatedEventResponse{
		Data: data,
		Meta: dto.PaginationMeta{
			CurrentPage: page,
			TotalItems:  int64(len(data)),
			Limit:       limit,
		},
	}, nil
}

// resolveEvents picks the lookup strategy for the search box: a
// "date:YYYY-MM-DD" query lists that day directly, any other text goes
// through the search index, and an empty box pages the full list.
func (s *eventService) resolveEvents(ctx context.Context, search string, page, limit int) ([]entity.Event, error) {
	query := strings.TrimSpace(search)

	if day, ok := parseDateQuery(query); ok {
		return s.eventRepo.ListByDate(ctx, day)
	}

	if query != "" && s.searchService != nil {
		ids, err := s.searchService.SearchEvents(query, limit*page)
		if err != nil {
			log.Printf("event search degraded to listing: %v", err)
			return s.eventRepo.List(ctx, limit, (page-1)*limit)
		}

		start := (page - 1) * limit
		if start >= len(ids) {
			return []entity.Event{}, nil
		}
		end := start + limit
		if end > len(ids) {
			end = len(ids)
		}
		return s.eventRepo.ListByIDs(ctx, ids[start:end])
	}

	return s.eventRepo.List(ctx, limit, (page-1)*limit)
}

// parseDateQuery recognizes the "date:YYYY-MM-DD" search form.
func parseDateQuery(query string) (time.Time, bool) {
	if !strings.HasPrefix(query, datePrefix) {
		return time.Time{}, false
	}
	day, err := time.Parse("2006-01-02", strings.TrimSpace(strings.TrimPrefix(query, datePrefix)))
	if err != nil {
		return time.Time{}, false
	}
	return day, true
}

func (s *eventService) AddComment(ctx context.Context, eventID, userID uuid.UUID, req dto.CreateCommentRequest) (*dto.CommentResponse, error) {
	event, err := s.eventRepo.FindByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	comment := entity.EventComment{
		EventID: eventID,
		UserID:  userID,
		Body:    strings.TrimSpace(req.Body),
	}
	if comment.Body == "" {
		return nil, apperror.New(400, "comment body cannot be empty", apperror.ErrBadRequest)
	}

	if err := s.eventRepo.CreateComment(ctx, &comment); err != nil {
		return nil, err
	}

	if s.notifier != nil && event.CreatorID != userID {
		s.notifyComment(ctx, event, userID)
	}

	resp := toCommentResponse(&comment)
	return &resp, nil
}

func (s *eventService) notifyComment(ctx context.Context, event *entity.Event, actorID uuid.UUID) {
	actor, err := s.userRepo.FindByID(ctx, actorID)
	if err != nil {
		return
	}
	actorName := "Someone"
	if actor.Profile != nil {
		actorName = actor.Profile.FullName()
	}

	notification := &entity.Notification{
		UserID:     event.CreatorID,
		ActorID:    actorID,
		EntityID:   event.ID,
		EntityType: "event",
		Type:       entity.NotificationEventComment,
		Message:    fmt.Sprintf("%s commented on your event \"%s\"", actorName, event.Title),
	}
	if err := s.notifier.CreateNotification(ctx, notification); err != nil {
		log.Printf("failed to create comment notification for event %s: %v", event.ID, err)
	}
}

func (s *eventService) ListComments(ctx context.Context, eventID uuid.UUID) ([]dto.CommentResponse, error) {
	comments, err := s.eventRepo.ListComments(ctx, eventID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.CommentResponse, 0, len(comments))
	for i := range comments {
		responses = append(responses, toCommentResponse(&comments[i]))
	}
	return responses, nil
}

func (s *eventService) DeleteComment(ctx context.Context, commentID, userID uuid.UUID) error {
	if err := s.eventRepo.DeleteComment(ctx, commentID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.ErrNotFound
		}
		return err
	}
	return nil
}

func (s *eventService) ownedEvent(ctx context.Context, eventID, userID uuid.UUID) (*entity.Event, error) {
	event, err := s.eventRepo.FindByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}
	if event.CreatorID != userID {
		return nil, apperror.ErrForbidden
	}
	return event, nil
}

func (s *eventService) toEventResponse(event *entity.Event, joined bool) dto.EventResponse {
	creatorName := ""
	if event.Creator != nil && event.Creator.Profile != nil {
		creatorName = event.Creator.Profile.FullName()
	}

	return dto.EventResponse{
		ID:                  event.ID,
		CreatorID:           event.CreatorID,
		CreatorName:         creatorName,
		Title:               event.Title,
		Description:         event.Description,
		Date:                event.Date,
		Location:            event.Location,
		MapLink:             event.MapLink,
		FormURL:             event.FormURL,
		ImageURL:            event.ImageURL,
		Category:            event.Category,
		CategoryLabelEN:     event.Category.Label("en"),
		CategoryLabelJA:     event.Category.Label("ja"),
		MaxParticipants:     event.MaxParticipants,
		DisplayParticipants: event.DisplayParticipants(),
		IsFull:              event.IsFull(),
		IsPast:              event.IsPast(time.Now()),
		Joined:              joined,
		CreatedAt:           event.CreatedAt,
	}
}

func toCommentResponse(comment *entity.EventComment) dto.CommentResponse {
	authorName := ""
	if comment.User != nil && comment.User.Profile != nil {
		authorName = comment.User.Profile.FullName()
	}
	return dto.CommentResponse{
		ID:         comment.ID,
		EventID:    comment.EventID,
		UserID:     comment.UserID,
		AuthorName: authorName,
		Body:       comment.Body,
		CreatedAt:  comment.CreatedAt,
	}
}
