package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestFromViperDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	cfg := fromViper(v)
	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, "/api", cfg.APIPrefix)
	assert.Equal(t, time.Hour, cfg.JWT.Expiration)
	assert.Equal(t, int64(10*1024*1024), cfg.Uploads.MaxFileBytes)
	assert.Equal(t, 10*time.Minute, cfg.Cache.TTL)
	assert.NotEmpty(t, cfg.Envelope.Secret)
	assert.Nil(t, cfg.CORS.AllowedOrigins)
}

func TestFromViperOverrides(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("JWT_EXPIRATION", "not-a-duration")
	v.Set("CACHE_TTL", "90s")
	v.Set("ALLOWED_ORIGINS", "http://a.test, ,http://b.test")
	v.Set("UPLOAD_MAX_SIZE", -1)
	v.Set("ENVELOPE_SECRET", "shared")

	cfg := fromViper(v)
	assert.Equal(t, time.Hour, cfg.JWT.Expiration)
	assert.Equal(t, 90*time.Second, cfg.Cache.TTL)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, int64(10*1024*1024), cfg.Uploads.MaxFileBytes)
	assert.Equal(t, "shared", cfg.Envelope.Secret)
}
