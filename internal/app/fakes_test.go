package app_test

import (
	"context"
	"encoding/json"
	"errors"
	"slices"
	"sort"
	"strings"
	"sync"

	"hotel_listing/internal/domain"
)

// ---- hotels ----

type memHotels struct {
	mu    sync.Mutex
	next  int64
	rows  map[int64]domain.Hotel
	finds int
	errOn string
}

func newMemHotels(hs ...domain.Hotel) *memHotels {
	m := &memHotels{rows: map[int64]domain.Hotel{}}
	for _, h := range hs {
		h := h
		if h.ID == 0 {
			m.next++
			h.ID = m.next
		} else if h.ID > m.next {
			m.next = h.ID
		}
		m.rows[h.ID] = h
	}
	return m
}

func (m *memHotels) fail(op string) error {
	if m.errOn == op {
		return errors.New(op + " failed")
	}
	return nil
}

func (m *memHotels) CreateHotel(ctx context.Context, h *domain.Hotel) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("create"); err != nil {
		return err
	}
	m.next++
	h.ID = m.next
	m.rows[h.ID] = *h
	return nil
}

func (m *memHotels) UpdateHotel(ctx context.Context, h *domain.Hotel) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[h.ID]; !ok {
		return domain.ErrNotFound
	}
	m.rows[h.ID] = *h
	return nil
}

func (m *memHotels) DeleteHotel(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rows, id)
	return nil
}

func (m *memHotels) GetHotel(ctx context.Context, id int64) (domain.Hotel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.rows[id]
	if !ok {
		return domain.Hotel{}, domain.NotFoundf("Hotel not found")
	}
	return h, nil
}

func (m *memHotels) matching(f domain.HotelFilter) []domain.Hotel {
	var out []domain.Hotel
	for _, h := range m.rows {
		if f.LocationIDs != nil && !slices.Contains(f.LocationIDs, h.LocationID) {
			continue
		}
		if f.MinPrice != nil || f.MaxPrice != nil {
			ok := slices.ContainsFunc(h.Rooms, func(r domain.Room) bool {
				return (f.MinPrice == nil || r.Price >= *f.MinPrice) && (f.MaxPrice == nil || r.Price <= *f.MaxPrice)
			})
			if !ok {
				continue
			}
		}
		all := true
		for _, a := range f.Amenities {
			if !slices.Contains(h.Amenities, a) {
				all = false
			}
		}
		if !all {
			continue
		}
		if f.Text != nil {
			t := strings.ToLower(*f.Text)
			if !strings.Contains(strings.ToLower(h.Name), t) && !strings.Contains(strings.ToLower(h.Description), t) {
				continue
			}
		}
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (m *memHotels) FindHotels(ctx context.Context, f domain.HotelFilter) ([]domain.Hotel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("find"); err != nil {
		return nil, err
	}
	m.finds++
	all := m.matching(f)
	if f.Offset >= len(all) {
		return []domain.Hotel{}, nil
	}
	end := min(f.Offset+f.Limit, len(all))
	return all[f.Offset:end], nil
}

func (m *memHotels) CountHotels(ctx context.Context, f domain.HotelFilter) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.matching(f)), nil
}

func (m *memHotels) SearchHotels(ctx context.Context, text string, limit int) ([]domain.Hotel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.finds++
	out := m.matching(domain.HotelFilter{Text: &text})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memHotels) HotelNameExists(ctx context.Context, name string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, h := range m.rows {
		if h.Name == name {
			return true, nil
		}
	}
	return false, nil
}

// ---- locations ----

type memLocations struct {
	mu   sync.Mutex
	next int64
	rows []domain.Location
}

func newMemLocations(ls ...domain.Location) *memLocations {
	m := &memLocations{}
	for _, l := range ls {
		m.next++
		l.ID = m.next
		m.rows = append(m.rows, l)
	}
	return m
}

func (m *memLocations) ListLocations(ctx context.Context) ([]domain.Location, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.rows), nil
}

func (m *memLocations) GetLocations(ctx context.Context, ids []int64) ([]domain.Location, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Location
	for _, l := range m.rows {
		if slices.Contains(ids, l.ID) {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *memLocations) FindByState(ctx context.Context, state string) (domain.Location, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, l := range m.rows {
		if l.State == state {
			l.Cities = slices.Clone(l.Cities)
			return l, nil
		}
	}
	return domain.Location{}, domain.ErrNotFound
}

func (m *memLocations) FindIDs(ctx context.Context, state, city *string) ([]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []int64{}
	for _, l := range m.rows {
		if state != nil && l.State != *state {
			continue
		}
		if city != nil && !l.HasCity(*city) {
			continue
		}
		out = append(out, l.ID)
	}
	return out, nil
}

func (m *memLocations) CreateLocation(ctx context.Context, l *domain.Location) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if r.State == l.State {
			return domain.ErrConflict
		}
	}
	m.next++
	l.ID = m.next
	m.rows = append(m.rows, *l)
	return nil
}

func (m *memLocations) SaveCities(ctx context.Context, id int64, cities []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.rows {
		if m.rows[i].ID == id {
			m.rows[i].Cities = slices.Clone(cities)
			return nil
		}
	}
	return domain.ErrNotFound
}

// ---- users ----

type memUsers struct {
	mu   sync.Mutex
	next int64
	rows map[int64]domain.User
}

func newMemUsers() *memUsers { return &memUsers{rows: map[int64]domain.User{}} }

func (m *memUsers) CreateUser(ctx context.Context, u *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if r.Email == u.Email {
			return domain.ErrConflict
		}
	}
	m.next++
	u.ID = m.next
	m.rows[u.ID] = *u
	return nil
}

func (m *memUsers) UpdateUser(ctx context.Context, u *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[u.ID]; !ok {
		return domain.ErrNotFound
	}
	m.rows[u.ID] = *u
	return nil
}

func (m *memUsers) DeleteUser(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rows, id)
	return nil
}

func (m *memUsers) GetUser(ctx context.Context, id int64) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.rows[id]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return u, nil
}

func (m *memUsers) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.rows {
		if u.Email == email {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrNotFound
}

func (m *memUsers) ListUsers(ctx context.Context, c domain.UserCriteria) ([]domain.User, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var all []domain.User
	for _, u := range m.rows {
		if u.ID == c.ExcludeID {
			continue
		}
		if c.Search != nil {
			s := strings.ToLower(*c.Search)
			if !strings.Contains(strings.ToLower(u.Name), s) && !strings.Contains(strings.ToLower(u.Email), s) {
				continue
			}
		}
		all = append(all, u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	total := len(all)
	if c.Offset >= total {
		return nil, total, nil
	}
	return all[c.Offset:min(c.Offset+c.Limit, total)], total, nil
}

// ---- cache ----

type memCache struct {
	mu       sync.Mutex
	store    map[string][]byte
	dels     []string
	prefixes []string
	failGet  bool
}

func newMemCache() *memCache { return &memCache{store: map[string][]byte{}} }

func (c *memCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failGet {
		return false, errors.New("cache down")
	}
	b, ok := c.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *memCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.store[key] = b
	return nil
}

func (c *memCache) Del(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dels = append(c.dels, key)
	delete(c.store, key)
	return nil
}

func (c *memCache) DelPrefix(ctx context.Context, prefix string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prefixes = append(c.prefixes, prefix)
	for k := range c.store {
		if strings.HasPrefix(k, prefix) {
			delete(c.store, k)
		}
	}
	return nil
}

func (c *memCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.store)
}

// ---- media ----

type fakeMedia struct {
	mu        sync.Mutex
	failOn    map[string]bool
	uploaded  []string
	destroyed []string
}

func (f *fakeMedia) Upload(ctx context.Context, localPath, folder string) (domain.UploadedImage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failOn[localPath] {
		return domain.UploadedImage{}, &domain.UpstreamError{Service: "media", Op: "upload", Err: errors.New("boom")}
	}
	f.uploaded = append(f.uploaded, localPath)
	name := localPath[strings.LastIndex(localPath, "/")+1:]
	name = strings.TrimSuffix(name, ".jpg")
	return domain.UploadedImage{
		URL:      "https://res.example.com/demo/image/upload/v1/" + folder + "/" + name + ".jpg",
		PublicID: folder + "/" + name,
	}, nil
}

func (f *fakeMedia) Destroy(ctx context.Context, publicID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failOn[publicID] {
		return errors.New("destroy failed")
	}
	f.destroyed = append(f.destroyed, publicID)
	return nil
}

func ptr[T any](v T) *T { return &v }
