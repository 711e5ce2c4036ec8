package main

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"hotel_listing/internal/adapters/observability"
	redisad "hotel_listing/internal/adapters/redis"
	"hotel_listing/internal/app"
	"hotel_listing/internal/domain"
	"hotel_listing/internal/shared"
	mysqlrepo "hotel_listing/internal/storage/mysql"
)

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	// 1) initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	log.Info().
		Int("workers", cfg.SeedWorkers).
		Int("hotels", len(lokojaHotels)).
		Msg("seeder starting")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	repo := mysqlrepo.New(db)
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cache.Close()

	created, err := seedHotels(ctx, repo, app.NewLocationService(repo, cache), cfg.SeedWorkers)
	if err != nil {
		log.Fatal().Err(err).Msg("seeding hotels failed")
	}
	log.Info().Int("created", created).Msg("hotel seeding completed")
	if created > 0 {
		if err := cache.DelPrefix(ctx, "hotels:"); err != nil {
			log.Warn().Err(err).Msg("cache invalidation failed")
		}
	}

	if cfg.SeedAdminEmail != "" {
		if err := seedAdmin(ctx, app.NewUserService(repo, cfg.BcryptCost), cfg.SeedAdminEmail, cfg.SeedAdminPassword); err != nil {
			log.Fatal().Err(err).Msg("seeding admin failed")
		}
	}
}

type locationEnsurer interface {
	Ensure(ctx context.Context, state, city string) (domain.Location, error)
}

// seedHotels inserts the reference hotels that are not there yet and returns
// how many were created. Individual insert failures are logged and skipped.
func seedHotels(ctx context.Context, hotels domain.HotelRepository, locs locationEnsurer, workers int) (int, error) {
	loc, err := locs.Ensure(ctx, seedState, seedCity)
	if err != nil {
		return 0, err
	}
	if workers < 1 {
		workers = 1
	}

	sem := semaphore.NewWeighted(int64(workers))
	var (
		wg      sync.WaitGroup
		created atomic.Int32
	)
	now := time.Now().UTC()
	for i, s := range lokojaHotels {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			wg.Wait()
			return int(created.Load()), err
		}
		wg.Add(1)
		go func(s seedHotel, at time.Time) {
			defer wg.Done()
			defer sem.Release(1)

			exists, err := hotels.HotelNameExists(ctx, s.Name)
			if err != nil {
				log.Warn().Err(err).Str("hotel", s.Name).Msg("existence check failed")
				return
			}
			if exists {
				log.Info().Str("hotel", s.Name).Msg("skipping, already exists")
				return
			}
			h := s.hotel(loc.ID)
			h.CreatedAt, h.UpdatedAt = at, at
			if err := hotels.CreateHotel(ctx, &h); err != nil {
				log.Warn().Err(err).Str("hotel", s.Name).Msg("insert failed")
				return
			}
			created.Add(1)
			log.Info().Int64("id", h.ID).Str("hotel", s.Name).Msg("created")
		}(s, now.Add(time.Duration(i)*time.Millisecond))
	}
	wg.Wait()
	return int(created.Load()), nil
}

type userCreator interface {
	Create(ctx context.Context, in app.CreateUserInput) (domain.User, error)
}

func seedAdmin(ctx context.Context, users userCreator, email, password string) error {
	u, err := users.Create(ctx, app.CreateUserInput{Name: "Administrator", Email: email, Password: password, Role: domain.RoleAdmin})
	if errors.Is(err, domain.ErrConflict) {
		log.Info().Str("email", email).Msg("admin already exists")
		return nil
	}
	if err != nil {
		return err
	}
	log.Info().Int64("id", u.ID).Msg("admin created")
	return nil
}
