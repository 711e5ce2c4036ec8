package app

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"math"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"hotel_listing/internal/domain"
)

const (
	DefaultListLimit   = 20
	DefaultSearchLimit = 10
	MaxLimit           = 100
)

// NormalizeCriteria turns raw query values into criteria. Malformed or
// negative numbers are treated as absent rather than rejected.
func NormalizeCriteria(q url.Values, defaultLimit int) domain.HotelCriteria {
	c := domain.HotelCriteria{
		State:    optString(q.Get("state")),
		City:     optString(q.Get("city")),
		MinPrice: optPrice(q.Get("minPrice")),
		MaxPrice: optPrice(q.Get("maxPrice")),
		Text:     optString(q.Get("q")),
		Page:     intOr(q.Get("page"), 1),
		Limit:    intOr(q.Get("limit"), defaultLimit),
	}
	if c.Limit > MaxLimit {
		c.Limit = MaxLimit
	}
	for _, raw := range q["amenities"] {
		for _, a := range strings.Split(raw, ",") {
			if a = strings.TrimSpace(a); a != "" && !slices.Contains(c.Amenities, a) {
				c.Amenities = append(c.Amenities, a)
			}
		}
	}
	return c
}

// ComposeHotelFilter builds store predicates. locationIDs is the resolved
// set for state/city criteria and is ignored when neither is given.
func ComposeHotelFilter(c domain.HotelCriteria, locationIDs []int64) domain.HotelFilter {
	f := domain.HotelFilter{
		MinPrice:  c.MinPrice,
		MaxPrice:  c.MaxPrice,
		Amenities: c.Amenities,
		Text:      c.Text,
		Limit:     c.Limit,
		Offset:    pageOffset(c.Page, c.Limit),
	}
	if c.State != nil || c.City != nil {
		f.LocationIDs = make([]int64, 0, len(locationIDs))
		f.LocationIDs = append(f.LocationIDs, locationIDs...)
	}
	return f
}

// pageOffset is (page-1)*limit. A product that would overflow saturates at
// math.MaxInt so an absurd page still lands past the last row.
func pageOffset(page, limit int) int {
	if page <= 1 || limit <= 0 {
		return 0
	}
	if page-1 > math.MaxInt/limit {
		return math.MaxInt
	}
	return (page - 1) * limit
}

// Paginate returns ceil(total/limit).
func Paginate(total, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return int(math.Ceil(float64(total) / float64(limit)))
}

func listCacheKey(c domain.HotelCriteria) string {
	amen := slices.Clone(c.Amenities)
	slices.Sort(amen)
	sig := strings.Join([]string{
		derefOr(c.State), derefOr(c.City),
		floatKey(c.MinPrice), floatKey(c.MaxPrice),
		strings.Join(amen, ","), derefOr(c.Text),
		strconv.Itoa(c.Page), strconv.Itoa(c.Limit),
	}, "|")
	return "hotels:list:" + digest(sig)
}

func searchCacheKey(text string, limit int) string {
	return "hotels:search:" + digest(fmt.Sprintf("%s|%d", text, limit))
}

func hotelCacheKey(id int64) string { return fmt.Sprintf("hotel:%d", id) }

func digest(s string) string {
	sum := sha1.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

func optString(s string) *string {
	if s = strings.TrimSpace(s); s == "" {
		return nil
	}
	return &s
}

func optPrice(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return nil
	}
	return &f
}

func intOr(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return def
	}
	return n
}

func derefOr(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func floatKey(p *float64) string {
	if p == nil {
		return ""
	}
	return strconv.FormatFloat(*p, 'f', -1, 64)
}
