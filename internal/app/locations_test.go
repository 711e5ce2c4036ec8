package app_test

import (
	"context"
	"errors"
	"slices"
	"testing"

	"hotel_listing/internal/app"
	"hotel_listing/internal/domain"
)

func TestLocations_StatesAndCities(t *testing.T) {
	locs := newMemLocations(
		domain.Location{State: "Lagos", Cities: []string{"Ikeja"}},
		domain.Location{State: "Abuja", Cities: []string{"Garki"}},
	)
	s := app.NewLocationService(locs, nil)
	ctx := context.Background()

	states, err := s.GetStates(ctx)
	if err != nil || !slices.Equal(states, []string{"Abuja", "Lagos"}) {
		t.Fatalf("states=%v err=%v", states, err)
	}
	cities, err := s.GetCities(ctx, "Lagos")
	if err != nil || !slices.Equal(cities, []string{"Ikeja"}) {
		t.Fatalf("cities=%v err=%v", cities, err)
	}
	cities, err = s.GetCities(ctx, "Nowhere")
	if err != nil || cities == nil || len(cities) != 0 {
		t.Fatalf("unknown state should give empty list, got %v %v", cities, err)
	}
	var verr *domain.ValidationError
	if _, err := s.GetCities(ctx, ""); !errors.As(err, &verr) || verr.Message != "State parameter is required" {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestLocations_AddLocation(t *testing.T) {
	locs := newMemLocations()
	cache := newMemCache()
	s := app.NewLocationService(locs, cache)
	ctx := context.Background()

	l, err := s.AddLocation(ctx, app.LocationInput{State: "Kogi", City: "Lokoja"})
	if err != nil || l.ID == 0 {
		t.Fatalf("create: %+v %v", l, err)
	}
	l, err = s.AddLocation(ctx, app.LocationInput{State: "Kogi", City: "Okene"})
	if err != nil || !slices.Equal(l.Cities, []string{"Lokoja", "Okene"}) {
		t.Fatalf("append: %+v %v", l, err)
	}
	if _, err := s.AddLocation(ctx, app.LocationInput{State: "Kogi", City: "Okene"}); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	all, _ := locs.ListLocations(ctx)
	if len(all) != 1 {
		t.Fatalf("state must not be duplicated: %+v", all)
	}
	if len(cache.prefixes) == 0 {
		t.Fatalf("writes should invalidate hotel caches")
	}
}

func TestLocations_DeleteCity(t *testing.T) {
	locs := newMemLocations(domain.Location{State: "Kogi", Cities: []string{"Lokoja", "Okene"}})
	s := app.NewLocationService(locs, nil)
	ctx := context.Background()

	if err := s.DeleteCity(ctx, "Kogi", "Okene"); err != nil {
		t.Fatalf("err: %v", err)
	}
	cities, _ := s.GetCities(ctx, "Kogi")
	if !slices.Equal(cities, []string{"Lokoja"}) {
		t.Fatalf("cities: %v", cities)
	}
	if err := s.DeleteCity(ctx, "Lagos", "Ikeja"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	var verr *domain.ValidationError
	if err := s.DeleteCity(ctx, "Kogi", ""); !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestLocations_EnsureAndResolve(t *testing.T) {
	locs := newMemLocations(domain.Location{State: "Kogi", Cities: []string{"Lokoja"}})
	s := app.NewLocationService(locs, nil)
	ctx := context.Background()

	l, err := s.Ensure(ctx, "Kogi", "Okene")
	if err != nil || l.ID != 1 || !l.HasCity("Okene") {
		t.Fatalf("ensure existing state: %+v %v", l, err)
	}
	n, err := s.Ensure(ctx, "Lagos", "Ikeja")
	if err != nil || n.ID == 1 {
		t.Fatalf("ensure new state: %+v %v", n, err)
	}
	got, err := s.Resolve(ctx, nil, ptr("Okene"))
	if err != nil || !slices.Equal(got, []int64{1}) {
		t.Fatalf("resolve: %v %v", got, err)
	}
	list, _ := s.ListLocations(ctx)
	if len(list) != 2 || list[0].State != "Kogi" || list[1].State != "Lagos" {
		t.Fatalf("list: %+v", list)
	}
}
