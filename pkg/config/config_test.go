package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/maps-scraper/internal/entity"
)

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.True(t, cfg.Headless)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, 5, cfg.ReviewsPerCategory)
	assert.Equal(t, []entity.Query{{Text: "pims Москва", Category: "moscow_pims"}}, cfg.Queries)
	assert.Equal(t, 25*time.Second, cfg.Browser.ActionTimeout)
	assert.Equal(t, 300, cfg.Loader.Cap)
	assert.Equal(t, 100*time.Millisecond, cfg.Loader.StepPause)
	assert.Equal(t, 10, cfg.Controller.MinItems)
	assert.Equal(t, "output.csv", cfg.Output.CSVPath)
	assert.Equal(t, "screenshots", cfg.Diagnostics.Dir)
}

func TestLoad_EnvOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("MAPS_SCRAPER_HEADLESS", "false")
	t.Setenv("MAPS_SCRAPER_MAX_RETRIES", "1")
	t.Setenv("MAPS_SCRAPER_LOADER_PASS_PAUSE", "250ms")
	t.Setenv("MAPS_SCRAPER_REDIS_ADDR", "localhost:6379")
	t.Setenv("MAPS_SCRAPER_QUERIES", "кафе Москва|moscow_cafe; бары")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.False(t, cfg.Headless)
	assert.Equal(t, 1, cfg.MaxRetries)
	assert.Equal(t, 250*time.Millisecond, cfg.Loader.PassPause)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, []entity.Query{
		{Text: "кафе Москва", Category: "moscow_cafe"},
		{Text: "бары", Category: "бары"},
	}, cfg.Queries)
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scraper.yaml")
	content := `
max_retries: 2
queries:
  - text: "pims Казань"
    category: kazan_pims
output:
  csv_path: /tmp/out.csv
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.MaxRetries)
	assert.Equal(t, []entity.Query{{Text: "pims Казань", Category: "kazan_pims"}}, cfg.Queries)
	assert.Equal(t, "/tmp/out.csv", cfg.Output.CSVPath)
	assert.Equal(t, "listings", cfg.Output.Table)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	chdir(t, t.TempDir())
	cfg, err := Load("")
	require.NoError(t, err)

	bad := *cfg
	bad.MaxRetries = -1
	assert.Error(t, bad.Validate())

	bad = *cfg
	bad.Loader.Cap = 0
	assert.Error(t, bad.Validate())

	bad = *cfg
	bad.Controller.QueryPauseMax = time.Second
	assert.Error(t, bad.Validate())

	bad = *cfg
	bad.Queries = []entity.Query{{Text: " "}}
	assert.Error(t, bad.Validate())

	bad = *cfg
	bad.Enrich.LinksFrom = "s3"
	assert.Error(t, bad.Validate())
}

func TestParseQueries_EmptyText(t *testing.T) {
	_, err := ParseQueries("|cat")
	assert.Error(t, err)
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
