package catalog

import (
	"context"
	"fmt"

	"ms-event-dashboard/internal/logger"
	"ms-event-dashboard/internal/models"
)

const (
	facilitatorsKey = "catalog:facilitators"
	calendarsKey    = "catalog:calendars"
)

// Store loads the raw catalogs from the record store.
type Store interface {
	Facilitators(ctx context.Context) ([]models.Facilitator, error)
	Calendars(ctx context.Context) ([]models.Calendar, error)
}

// Service serves the facilitator and calendar catalogs cache-aside: the
// catalogs change rarely, so editor sessions should not each pay a
// table scan.
type Service struct {
	DB     Store
	Cache  *Cache
	Logger *logger.Logger
}

func NewService(db Store, cache *Cache, log *logger.Logger) *Service {
	return &Service{DB: db, Cache: cache, Logger: log}
}

func (s *Service) Facilitators(ctx context.Context) ([]models.Facilitator, error) {
	var cached []models.Facilitator
	if s.Cache != nil && s.Cache.Get(ctx, facilitatorsKey, &cached) {
		return cached, nil
	}

	facilitators, err := s.DB.Facilitators(ctx)
	if err != nil {
		return nil, fmt.Errorf("load facilitators: %w", err)
	}
	if s.Cache != nil {
		s.Cache.Set(ctx, facilitatorsKey, facilitators)
	}
	if s.Logger != nil {
		s.Logger.Debug("CATALOG", fmt.Sprintf("loaded %d facilitators from store", len(facilitators)))
	}
	return facilitators, nil
}

func (s *Service) Calendars(ctx context.Context) ([]models.Calendar, error) {
	var cached []models.Calendar
	if s.Cache != nil && s.Cache.Get(ctx, calendarsKey, &cached) {
		return cached, nil
	}

	calendars, err := s.DB.Calendars(ctx)
	if err != nil {
		return nil, fmt.Errorf("load calendars: %w", err)
	}
	if s.Cache != nil {
		s.Cache.Set(ctx, calendarsKey, calendars)
	}
	if s.Logger != nil {
		s.Logger.Debug("CATALOG", fmt.Sprintf("loaded %d calendars from store", len(calendars)))
	}
	return calendars, nil
}
