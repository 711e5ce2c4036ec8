package shared_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"hotel_listing/internal/shared"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "dev")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("CACHE_TTL_SECONDS", "")

	c := shared.Load()

	assert.True(t, c.IsDev())
	assert.False(t, c.IsProduction())
	assert.NotEmpty(t, c.JWTSecret, "dev falls back to a development secret")
	assert.Equal(t, 7*24*time.Hour, c.JWTTTL)
	assert.Equal(t, "token", c.CookieName)
	assert.Equal(t, "hotel_images", c.MediaFolder)
	assert.Equal(t, 300*time.Second, c.CacheTTL)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("JWT_TTL_HOURS", "2")
	t.Setenv("BCRYPT_COST", "not-a-number")
	t.Setenv("UPLOAD_DIR", "/var/tmp/uploads")

	c := shared.Load()

	assert.True(t, c.IsProduction())
	assert.Equal(t, "s3cret", c.JWTSecret)
	assert.Equal(t, 2*time.Hour, c.JWTTTL)
	assert.Equal(t, 10, c.BcryptCost, "malformed ints keep the default")
	assert.Equal(t, "/var/tmp/uploads", c.UploadDir)
}

func TestLoad_ProdWithoutSecret(t *testing.T) {
	t.Setenv("APP_ENV", "prod")
	t.Setenv("JWT_SECRET", "")

	c := shared.Load()
	assert.Empty(t, c.JWTSecret)
}
