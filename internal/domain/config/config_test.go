package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerr "tidemark/internal/domain/errors"
)

func TestDefaultValidates(t *testing.T) {
	t.Parallel()
	assert.NoError(t, Default().Validate())
}

func TestValidate(t *testing.T) {
	t.Parallel()

	t.Run("empty title", func(t *testing.T) {
		t.Parallel()
		cfg := Default()
		cfg.Site.Title = ""
		err := cfg.Validate()
		require.Error(t, err)
		assert.True(t, errors.Is(err, domainerr.ErrInvalid))
	})

	t.Run("bad site url", func(t *testing.T) {
		t.Parallel()
		cfg := Default()
		cfg.Site.SiteURL = "ftp://example.com"
		assert.Error(t, cfg.Validate())
	})

	t.Run("base path must start with slash", func(t *testing.T) {
		t.Parallel()
		cfg := Default()
		cfg.Build.BasePath = "blog/"
		assert.Error(t, cfg.Validate())
	})
}

func TestLoadOverridesDefaults(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "site.yaml")
	data := `
site:
  title: My Site
  site_url: https://example.com
build:
  source_dir: posts
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "My Site", cfg.Site.Title)
	assert.Equal(t, "https://example.com", cfg.Site.SiteURL)
	assert.Equal(t, "posts", cfg.Build.SourceDir)
	// 没写到的字段保留默认值
	assert.Equal(t, "public", cfg.Build.PublicDir)
	assert.Equal(t, "default", cfg.Site.Theme)
	assert.False(t, cfg.Build.Now.IsZero())
}

func TestLoadOrDefaultMissingFile(t *testing.T) {
	t.Parallel()

	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default().Site.Title, cfg.Site.Title)
}
