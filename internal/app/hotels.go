package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"hotel_listing/internal/domain"
)

type HotelService struct {
	hotels domain.HotelRepository
	locs   *LocationService
	repo   domain.LocationRepository
	media  domain.MediaHost
	cache  domain.Cache
	folder string
	now    func() time.Time
}

func NewHotelService(h domain.HotelRepository, l domain.LocationRepository, m domain.MediaHost, c domain.Cache, folder string) *HotelService {
	return &HotelService{
		hotels: h,
		locs:   NewLocationService(l, c),
		repo:   l,
		media:  m,
		cache:  c,
		folder: folder,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *HotelService) Create(ctx context.Context, in CreateHotelInput, files []domain.StagedFile) (domain.HotelView, error) {
	loc, err := s.locs.Ensure(ctx, in.State, in.City)
	if err != nil {
		return domain.HotelView{}, fmt.Errorf("ensure location: %w", err)
	}
	images := s.uploadAll(ctx, files)
	if len(images) > domain.MaxImages {
		images = images[:domain.MaxImages]
	}
	now := s.now()
	h := domain.Hotel{
		Name:        in.Name,
		LocationID:  loc.ID,
		Description: in.Description,
		Contact: domain.Contact{
			Phone:    in.Phone,
			WhatsApp: in.WhatsApp,
			Address:  in.Address,
		},
		WhatsAppTemplate: in.WhatsAppTemplate,
		Amenities:        nonNil(in.Amenities),
		Rooms:            in.Rooms,
		Images:           images,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.hotels.CreateHotel(ctx, &h); err != nil {
		return domain.HotelView{}, err
	}
	s.invalidate(ctx, 0)
	log.Info().Int64("hotel_id", h.ID).Int("images", len(images)).Msg("hotel created")
	return domain.NewHotelView(h, &loc), nil
}

// Update applies a partial update; the last writer wins.
func (s *HotelService) Update(ctx context.Context, id int64, in UpdateHotelInput, files []domain.StagedFile) (domain.HotelView, error) {
	h, err := s.hotels.GetHotel(ctx, id)
	if err != nil {
		return domain.HotelView{}, err
	}
	if in.Name != nil {
		h.Name = *in.Name
	}
	if in.Description != nil {
		h.Description = *in.Description
	}
	if in.WhatsAppTemplate != nil {
		h.WhatsAppTemplate = *in.WhatsAppTemplate
	}
	if in.Phone != nil {
		h.Contact.Phone = *in.Phone
	}
	if in.WhatsApp != nil {
		h.Contact.WhatsApp = *in.WhatsApp
	}
	if in.Address != nil {
		h.Contact.Address = *in.Address
	}
	if in.Rooms != nil {
		h.Rooms = in.Rooms
	}
	if in.Amenities != nil {
		h.Amenities = in.Amenities
	}

	var loc *domain.Location
	if in.State != nil && in.City != nil {
		l, err := s.locs.Ensure(ctx, *in.State, *in.City)
		if err != nil {
			return domain.HotelView{}, fmt.Errorf("ensure location: %w", err)
		}
		h.LocationID = l.ID
		loc = &l
	}

	if len(files) > 0 {
		h.Images = append(h.Images, s.uploadAll(ctx, files)...)
	}
	if len(h.Images) > domain.MaxImages {
		return domain.HotelView{}, domain.NewValidationError(fmt.Sprintf("Maximum %d images allowed", domain.MaxImages)).
			WithField("images", "too many").
			WithDetail("imagesCount", len(h.Images))
	}

	h.UpdatedAt = s.now()
	if err := s.hotels.UpdateHotel(ctx, &h); err != nil {
		return domain.HotelView{}, err
	}
	s.invalidate(ctx, id)

	if loc == nil {
		locs, err := s.repo.GetLocations(ctx, []int64{h.LocationID})
		if err != nil {
			return domain.HotelView{}, err
		}
		if len(locs) > 0 {
			loc = &locs[0]
		}
	}
	return domain.NewHotelView(h, loc), nil
}

// Delete removes the hotel after a best-effort cleanup of its hosted images.
func (s *HotelService) Delete(ctx context.Context, id int64) error {
	h, err := s.hotels.GetHotel(ctx, id)
	if err != nil {
		return err
	}
	for _, u := range h.Images {
		pid := PublicIDFromURL(s.folder, u)
		if pid == "" {
			continue
		}
		if err := s.media.Destroy(ctx, pid); err != nil {
			log.Warn().Err(err).Int64("hotel_id", id).Str("public_id", pid).Msg("image cleanup failed")
		}
	}
	if err := s.hotels.DeleteHotel(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	log.Info().Int64("hotel_id", id).Msg("hotel deleted")
	return nil
}

func (s *HotelService) Enums() domain.Enums { return domain.ReferenceEnums() }

// uploadAll pushes staged files one at a time. Failed uploads are dropped;
// every staged file is removed whatever the outcome.
func (s *HotelService) uploadAll(ctx context.Context, files []domain.StagedFile) []string {
	urls := make([]string, 0, len(files))
	for _, f := range files {
		img, err := s.media.Upload(ctx, f.Path, s.folder)
		if err != nil {
			log.Warn().Err(err).Str("file", f.OriginalName).Msg("image upload failed")
		} else if img.URL != "" {
			urls = append(urls, img.URL)
		}
		if err := os.Remove(f.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Warn().Err(err).Str("path", f.Path).Msg("remove staged file")
		}
	}
	return urls
}

func (s *HotelService) invalidate(ctx context.Context, id int64) {
	if s.cache == nil {
		return
	}
	if id > 0 {
		if err := s.cache.Del(ctx, hotelCacheKey(id)); err != nil {
			log.Warn().Err(err).Int64("hotel_id", id).Msg("cache del failed")
		}
	}
	if err := s.cache.DelPrefix(ctx, "hotels:"); err != nil {
		log.Warn().Err(err).Msg("cache invalidation failed")
	}
}

// PublicIDFromURL derives the media host id of a hosted image from its URL:
// the folder plus the last path segment without its extension.
func PublicIDFromURL(folder, rawURL string) string {
	if i := strings.IndexAny(rawURL, "?#"); i >= 0 {
		rawURL = rawURL[:i]
	}
	base := path.Base(rawURL)
	if base == "." || base == "/" || base == "" {
		return ""
	}
	base = strings.TrimSuffix(base, path.Ext(base))
	if folder == "" {
		return base
	}
	return folder + "/" + base
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
