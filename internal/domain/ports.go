package domain

import "context"

type HotelRepository interface {
	// Write paths
	CreateHotel(ctx context.Context, h *Hotel) error
	UpdateHotel(ctx context.Context, h *Hotel) error
	DeleteHotel(ctx context.Context, id int64) error

	// Read paths
	GetHotel(ctx context.Context, id int64) (Hotel, error)
	FindHotels(ctx context.Context, f HotelFilter) ([]Hotel, error)
	CountHotels(ctx context.Context, f HotelFilter) (int, error)
	SearchHotels(ctx context.Context, text string, limit int) ([]Hotel, error)
	HotelNameExists(ctx context.Context, name string) (bool, error)
}

type LocationRepository interface {
	ListLocations(ctx context.Context) ([]Location, error)
	GetLocations(ctx context.Context, ids []int64) ([]Location, error)
	FindByState(ctx context.Context, state string) (Location, error)
	FindIDs(ctx context.Context, state, city *string) ([]int64, error)
	CreateLocation(ctx context.Context, l *Location) error
	SaveCities(ctx context.Context, id int64, cities []string) error
}

type UserRepository interface {
	CreateUser(ctx context.Context, u *User) error
	UpdateUser(ctx context.Context, u *User) error
	DeleteUser(ctx context.Context, id int64) error
	GetUser(ctx context.Context, id int64) (User, error)
	FindByEmail(ctx context.Context, email string) (User, error)
	ListUsers(ctx context.Context, c UserCriteria) ([]User, int, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
	DelPrefix(ctx context.Context, prefix string) error
}

// UploadedImage is what the media host returns for a stored file.
type UploadedImage struct {
	URL      string
	PublicID string
}

type MediaHost interface {
	Upload(ctx context.Context, localPath, folder string) (UploadedImage, error)
	Destroy(ctx context.Context, publicID string) error
}

// StagedFile is an uploaded file parked on local disk until it is pushed to
// the media host.
type StagedFile struct {
	Path         string
	OriginalName string
}
