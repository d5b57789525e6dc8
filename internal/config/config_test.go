package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/consultation-booking-service/internal/domain"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
[database]
user = "booking"
dbname = "booking"

[schedule]
timezone = "Europe/Moscow"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.HTTPPort)
	assert.Equal(t, "host=localhost port=5432 user=booking password= dbname=booking sslmode=disable", cfg.Database.DSN())
	assert.Equal(t, "/metrics", cfg.Metrics.Path)

	loc, err := cfg.Schedule.Location()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Moscow", loc.String())

	hours, err := cfg.Schedule.DefaultWorkingHours()
	require.NoError(t, err)
	assert.Equal(t, 60, hours.SessionDurationMinutes)
}

func TestLoad_Overrides(t *testing.T) {
	path := writeConfig(t, `
[server]
http_port = 9090

[database]
user = "booking"
dbname = "booking"

[schedule]
work_start = "10:00"
work_end = "16:00"
session_duration_minutes = 45

[client]
role = "client"
user_id = 42
bulk_concurrency = 2
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.HTTPPort)
	assert.Equal(t, "client", cfg.Client.Role)
	assert.Equal(t, int64(42), cfg.Client.UserID)
	assert.Equal(t, 2, cfg.Client.BulkConcurrency)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{name: "missing db", content: ``, wantErr: "database.dbname"},
		{name: "bad timezone", content: "[database]\nuser=\"u\"\ndbname=\"d\"\n[schedule]\ntimezone=\"Mars/Olympus\"", wantErr: "schedule.timezone"},
		{name: "bad duration", content: "[database]\nuser=\"u\"\ndbname=\"d\"\n[schedule]\nsession_duration_minutes=200", wantErr: domain.ErrInvalidConfiguration.Error()},
		{name: "bad role", content: "[database]\nuser=\"u\"\ndbname=\"d\"\n[client]\nrole=\"root\"", wantErr: "client.role"},
		{name: "broken toml", content: "[server", wantErr: "decode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, `
[database]
user = "booking"
password = "from-file"
dbname = "booking"

[redis]
addr = "localhost:6379"
`)
	dotenv := "BOOKING_DB_PASSWORD=from-dotenv\nBOOKING_REDIS_ADDR=redis:6379\n"
	require.NoError(t, os.WriteFile(filepath.Join(filepath.Dir(path), ".env"), []byte(dotenv), 0o600))
	t.Setenv(EnvRedisAddr, "cache:6380")
	t.Setenv(EnvHTTPPort, "8181")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.Database.Password)
	assert.Equal(t, "cache:6380", cfg.Redis.Addr, "process env wins over .env")
	assert.Equal(t, 8181, cfg.Server.HTTPPort)
}

func TestLoad_BadEnvPort(t *testing.T) {
	path := writeConfig(t, "[database]\nuser=\"u\"\ndbname=\"d\"")
	t.Setenv(EnvHTTPPort, "eighty")

	_, err := Load(path)
	assert.ErrorContains(t, err, EnvHTTPPort)
}
