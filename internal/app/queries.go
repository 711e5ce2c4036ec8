package app

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"hotel_listing/internal/domain"
)

type QueryService struct {
	hotels   domain.HotelRepository
	locs     domain.LocationRepository
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewQueryService(h domain.HotelRepository, l domain.LocationRepository, c domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{hotels: h, locs: l, cache: c, cacheTTL: ttl}
}

// ListHotels applies location, price, amenity and text criteria and returns
// one page, newest first.
func (s *QueryService) ListHotels(ctx context.Context, c domain.HotelCriteria) (domain.HotelsPage, error) {
	if c.Page < 1 {
		c.Page = 1
	}
	if c.Limit < 1 {
		c.Limit = DefaultListLimit
	}
	key := listCacheKey(c)
	var out domain.HotelsPage
	if s.cacheGet(ctx, key, &out) {
		return out, nil
	}

	var locIDs []int64
	if c.State != nil || c.City != nil {
		ids, err := s.locs.FindIDs(ctx, c.State, c.City)
		if err != nil {
			return domain.HotelsPage{}, err
		}
		if len(ids) == 0 {
			return domain.HotelsPage{Items: []domain.HotelView{}, Page: c.Page}, nil
		}
		locIDs = ids
	}
	f := ComposeHotelFilter(c, locIDs)

	var (
		hotels []domain.Hotel
		total  int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		hotels, err = s.hotels.FindHotels(gctx, f)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.hotels.CountHotels(gctx, f)
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.HotelsPage{}, err
	}

	views, err := s.annotate(ctx, hotels)
	if err != nil {
		return domain.HotelsPage{}, err
	}
	out = domain.HotelsPage{Items: views, Total: total, Page: c.Page, Pages: Paginate(total, c.Limit)}
	s.cacheSet(ctx, key, out)
	return out, nil
}

// SearchHotels is the relevance-ranked variant: flat limit, no offset.
func (s *QueryService) SearchHotels(ctx context.Context, text string, limit int) ([]domain.HotelView, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, domain.NewValidationError("Please provide a search query").WithField("q", "required")
	}
	if limit < 1 {
		limit = DefaultSearchLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	key := searchCacheKey(text, limit)
	var out []domain.HotelView
	if s.cacheGet(ctx, key, &out) {
		return out, nil
	}
	hotels, err := s.hotels.SearchHotels(ctx, text, limit)
	if err != nil {
		return nil, err
	}
	out, err = s.annotate(ctx, hotels)
	if err != nil {
		return nil, err
	}
	s.cacheSet(ctx, key, out)
	return out, nil
}

func (s *QueryService) GetHotel(ctx context.Context, id int64) (domain.HotelView, error) {
	key := hotelCacheKey(id)
	var hv domain.HotelView
	if s.cacheGet(ctx, key, &hv) {
		return hv, nil
	}
	h, err := s.hotels.GetHotel(ctx, id)
	if err != nil {
		return domain.HotelView{}, err
	}
	views, err := s.annotate(ctx, []domain.Hotel{h})
	if err != nil {
		return domain.HotelView{}, err
	}
	s.cacheSet(ctx, key, views[0])
	return views[0], nil
}

func (s *QueryService) Enums() domain.Enums { return domain.ReferenceEnums() }

// annotate resolves locations in one round trip and derives price ranges.
func (s *QueryService) annotate(ctx context.Context, hotels []domain.Hotel) ([]domain.HotelView, error) {
	out := make([]domain.HotelView, 0, len(hotels))
	if len(hotels) == 0 {
		return out, nil
	}
	ids := make([]int64, 0, len(hotels))
	seen := make(map[int64]struct{}, len(hotels))
	for _, h := range hotels {
		if _, ok := seen[h.LocationID]; !ok {
			seen[h.LocationID] = struct{}{}
			ids = append(ids, h.LocationID)
		}
	}
	locs, err := s.locs.GetLocations(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]*domain.Location, len(locs))
	for i := range locs {
		byID[locs[i].ID] = &locs[i]
	}
	for _, h := range hotels {
		out = append(out, domain.NewHotelView(h, byID[h.LocationID]))
	}
	return out, nil
}

func (s *QueryService) cacheGet(ctx context.Context, key string, dst any) bool {
	if s.cache == nil {
		return false
	}
	ok, err := s.cache.Get(ctx, key, dst)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache get failed")
		return false
	}
	return ok
}

func (s *QueryService) cacheSet(ctx context.Context, key string, v any) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, v, int(s.cacheTTL.Seconds())); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache set failed")
	}
}
