package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	siteerrors "git.home.luguber.info/inful/sitegen/internal/errors"
)

func TestLoad_Defaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sitegen.yaml")
	require.NoError(t, os.WriteFile(path, []byte("site:\n  title: Example\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "Example", cfg.Site.Title)
	require.Equal(t, "./site", cfg.Source.Directory)
	require.Equal(t, ".tmpl", cfg.Source.TemplateExt)
	require.Equal(t, "partials", cfg.Source.PartialsDir)
	require.Equal(t, "assets", cfg.Source.AssetsDir)
	require.Equal(t, "layout", cfg.Source.DefaultLayout)
	require.Equal(t, "./public", cfg.Output.Directory)
	require.Equal(t, DefaultRootFiles, cfg.Source.RootFiles)
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	require.True(t, siteerrors.IsCategory(err, siteerrors.CategoryConfig))
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("SITEGEN_TEST_TITLE", "From Env")
	path := filepath.Join(t.TempDir(), "sitegen.yaml")
	require.NoError(t, os.WriteFile(path, []byte("site:\n  title: ${SITEGEN_TEST_TITLE}\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "From Env", cfg.Site.Title)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sitegen.yaml")
	require.NoError(t, os.WriteFile(path, []byte(": not yaml ["), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestInit_WritesLoadableConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sitegen.yaml")
	require.NoError(t, Init(path, false))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "My Site", cfg.Site.Title)
	require.Equal(t, "./public", cfg.Output.Directory)
}

func TestInit_RefusesOverwriteWithoutForce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sitegen.yaml")
	require.NoError(t, Init(path, false))

	err := Init(path, false)
	require.Error(t, err)
	require.Contains(t, err.Error(), "--force")

	require.NoError(t, Init(path, true))
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.Equal(t, "./site", cfg.Source.Directory)
	require.Equal(t, "./public", cfg.Output.Directory)
}
