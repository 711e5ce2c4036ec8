package app

import (
	"context"
	"errors"
	"slices"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"hotel_listing/internal/domain"
)

// LocationService maintains the state to cities directory.
type LocationService struct {
	locs  domain.LocationRepository
	cache domain.Cache
}

func NewLocationService(l domain.LocationRepository, c domain.Cache) *LocationService {
	return &LocationService{locs: l, cache: c}
}

// GetStates returns distinct state names, sorted.
func (s *LocationService) GetStates(ctx context.Context) ([]string, error) {
	all, err := s.locs.ListLocations(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(all))
	for _, l := range all {
		if !slices.Contains(out, l.State) {
			out = append(out, l.State)
		}
	}
	sort.Strings(out)
	return out, nil
}

// GetCities returns the sorted cities of a state, or an empty list for an
// unknown one.
func (s *LocationService) GetCities(ctx context.Context, state string) ([]string, error) {
	state = strings.TrimSpace(state)
	if state == "" {
		return nil, domain.NewValidationError("State parameter is required").WithField("state", "required")
	}
	l, err := s.locs.FindByState(ctx, state)
	if errors.Is(err, domain.ErrNotFound) {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}
	cities := append([]string{}, l.Cities...)
	sort.Strings(cities)
	return cities, nil
}

// AddLocation creates the state or appends the city to it.
func (s *LocationService) AddLocation(ctx context.Context, in LocationInput) (domain.Location, error) {
	if err := in.Validate(); err != nil {
		return domain.Location{}, err
	}
	l, err := s.locs.FindByState(ctx, in.State)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		l = domain.Location{State: in.State, Cities: []string{in.City}}
		if err := s.locs.CreateLocation(ctx, &l); err != nil {
			return domain.Location{}, err
		}
	case err != nil:
		return domain.Location{}, err
	case l.HasCity(in.City):
		return domain.Location{}, domain.Conflictf("City already exists in this state")
	default:
		l.Cities = append(l.Cities, in.City)
		if err := s.locs.SaveCities(ctx, l.ID, l.Cities); err != nil {
			return domain.Location{}, err
		}
	}
	s.invalidate(ctx)
	return l, nil
}

// ListLocations returns every location sorted by state.
func (s *LocationService) ListLocations(ctx context.Context) ([]domain.Location, error) {
	all, err := s.locs.ListLocations(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].State < all[j].State })
	return all, nil
}

// DeleteCity removes one city from a state. Hotels referencing the location
// keep their reference.
func (s *LocationService) DeleteCity(ctx context.Context, state, city string) error {
	in := LocationInput{State: state, City: city}
	if err := in.Validate(); err != nil {
		return domain.NewValidationError("Both state and city parameters are required")
	}
	l, err := s.locs.FindByState(ctx, in.State)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.NotFoundf("State not found")
	}
	if err != nil {
		return err
	}
	cities := slices.DeleteFunc(slices.Clone(l.Cities), func(c string) bool { return c == in.City })
	if err := s.locs.SaveCities(ctx, l.ID, cities); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// Resolve returns ids of locations matching the optional state and city.
func (s *LocationService) Resolve(ctx context.Context, state, city *string) ([]int64, error) {
	return s.locs.FindIDs(ctx, state, city)
}

// Ensure returns the location for state, adding city to it when missing.
// A new state gets a new location.
func (s *LocationService) Ensure(ctx context.Context, state, city string) (domain.Location, error) {
	l, err := s.locs.FindByState(ctx, state)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		l = domain.Location{State: state, Cities: []string{city}}
		if err := s.locs.CreateLocation(ctx, &l); err != nil {
			return domain.Location{}, err
		}
	case err != nil:
		return domain.Location{}, err
	case l.HasCity(city):
		return l, nil
	default:
		l.Cities = append(l.Cities, city)
		if err := s.locs.SaveCities(ctx, l.ID, l.Cities); err != nil {
			return domain.Location{}, err
		}
	}
	s.invalidate(ctx)
	return l, nil
}

// invalidate drops cached hotels; their embedded locations may be stale.
func (s *LocationService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DelPrefix(ctx, "hotel"); err != nil {
		log.Warn().Err(err).Msg("cache invalidation failed")
	}
}
