package service

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/hellodap/dap-backend/internal/entity"
	"github.com/meilisearch/meilisearch-go"
)

const eventsIndex = "events"

// SearchService keeps the Meilisearch events index in sync and answers
// free-text queries with matching event IDs. Indexing failures are logged,
// never surfaced: the database stays the system of record.
type SearchService interface {
	IndexEvent(event *entity.Event) error
	DeleteEvent(id uuid.UUID) error
	SearchEvents(query string, limit int) ([]uuid.UUID, error)
}

type searchService struct {
	client meilisearch.ServiceManager
}

func NewSearchService(client meilisearch.ServiceManager) SearchService {
	s := &searchService{client: client}
	s.initIndexes()
	return s
}

func (s *searchService) initIndexes() {
	sortableAttrs := []string{"date", "created_at"}
	if _, err := s.client.Index(eventsIndex).UpdateSortableAttributes(&sortableAttrs); err != nil {
		log.Printf("Failed to update events sortable attributes: %v", err)
	}
}

type eventDocument struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Location    string `json:"location"`
	Category    string `json:"category"`
	Date        int64  `json:"date"`
	CreatedAt   int64  `json:"created_at"`
}

func (s *searchService) IndexEvent(event *entity.Event) error {
	doc := eventDocument{
		ID:          event.ID.String(),
		Title:       event.Title,
		Description: event.Description,
		Location:    event.Location,
		Category:    string(event.Category),
		Date:        event.Date.Unix(),
		CreatedAt:   event.CreatedAt.Unix(),
	}

	if _, err := s.client.Index(eventsIndex).AddDocuments([]eventDocument{doc}, nil); err != nil {
		log.Printf("Failed to index event %s: %v", event.ID, err)
		return err
	}
	return nil
}

func (s *searchService) DeleteEvent(id uuid.UUID) error {
	if _, err := s.client.Index(eventsIndex).DeleteDocument(id.String()); err != nil {
		log.Printf("Failed to delete event %s from index: %v", id, err)
		return err
	}
	return nil
}

func (s *searchService) SearchEvents(query string, limit int) ([]uuid.UUID, error) {
	resp, err := s.client.Index(eventsIndex).Search(query, &meilisearch.SearchRequest{
		Limit: int64(limit),
		Sort:  []string{"date:asc"},
	})
	if err != nil {
		return nil, fmt.Errorf("meilisearch query failed: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(resp.Hits))
	for _, hit := range resp.Hits {
		raw, ok := hit["id"]
		if !ok {
			continue
		}
		var idStr string
		if err := json.Unmarshal(raw, &idStr); err != nil {
			continue
		}
		id, err := uuid.Parse(idStr)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}
