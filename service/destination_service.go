// file: service/destination_service.go

package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"go-forum-api/model"
	"go-forum-api/repository"
	"time"
)

// ErrDestinationNotFound is returned when the requested destination does not exist.
var ErrDestinationNotFound = errors.New("destination not found")

// ErrNotOwner is returned when a caller tries to modify someone else's
// destination without the admin role.
var ErrNotOwner = errors.New("caller does not own this destination")

const destinationListCacheKey = "destinations:all"

// DestinationService carries the forum's sample content entity. The listing
// uses a cache-aside strategy; every write invalidates the cached list.
type DestinationService struct {
	repo  repository.IDestinationRepository
	cache ICacheClient
}

func NewDestinationService(repo repository.IDestinationRepository, cache ICacheClient) *DestinationService {
	return &DestinationService{repo: repo, cache: cache}
}

// CreateDestination saves a new destination owned by userID and invalidates the list cache.
func (s *DestinationService) CreateDestination(userID int, name, content string) (*model.Destination, error) {
	destination := &model.Destination{
		UserID:  userID,
		Name:    name,
		Content: content,
	}

	if err := s.repo.CreateDestination(destination); err != nil {
		return nil, err
	}

	s.cache.Del(context.Background(), destinationListCacheKey)

	return destination, nil
}

// ListDestinations returns every destination, utilizing a cache-aside strategy.
func (s *DestinationService) ListDestinations() ([]*model.Destination, error) {
	ctx := context.Background()

	// 1. Try to get data from Redis.
	cached, err := s.cache.Get(ctx, destinationListCacheKey).Result()
	if err == nil {
		var destinations []*model.Destination
		if err := json.Unmarshal([]byte(cached), &destinations); err == nil {
			return destinations, nil
		}
	}

	// 2. Cache miss. Fetch from the database.
	destinations, err := s.repo.GetAllDestinations()
	if err != nil {
		return nil, err
	}

	// 3. Store the result in Redis for future requests.
	data, err := json.Marshal(destinations)
	if err == nil {
		s.cache.Set(ctx, destinationListCacheKey, data, 10*time.Minute)
	}

	return destinations, nil
}

// UpdateDestination changes a destination's content. Only the owner or an
// admin may do so; authorization is recomputed here from the role claims,
// never from client-supplied identifiers.
func (s *DestinationService) UpdateDestination(id, callerID int, callerIsAdmin bool, content string) (*model.Destination, error) {
	destination, err := s.repo.GetDestinationByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDestinationNotFound
		}
		return nil, err
	}

	if destination.UserID != callerID && !callerIsAdmin {
		return nil, ErrNotOwner
	}

	if err := s.repo.UpdateDestinationContent(id, content); err != nil {
		return nil, err
	}
	destination.Content = content

	s.cache.Del(context.Background(), destinationListCacheKey)

	return destination, nil
}

// DeleteDestination removes a destination with the same owner-or-admin rule.
func (s *DestinationService) DeleteDestination(id, callerID int, callerIsAdmin bool) error {
	destination, err := s.repo.GetDestinationByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrDestinationNotFound
		}
		return err
	}

	if destination.UserID != callerID && !callerIsAdmin {
		return ErrNotOwner
	}

	if err := s.repo.DeleteDestination(id); err != nil {
		return err
	}

	s.cache.Del(context.Background(), destinationListCacheKey)

	return nil
}
