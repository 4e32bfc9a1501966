package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, []string{"CC", "MF", "CL"}, cfg.Products)
	assert.Equal(t, "soc_dem", cfg.Database.Tables.Demographics)
	assert.Nil(t, cfg.Selection.TopRatio)
	assert.Nil(t, cfg.Selection.TopN)
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
products: [CC]
artifacts_dir: /opt/models
selection:
  top_n: 25
database:
  dsn: postgres://localhost/clients
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"CC"}, cfg.Products)
	assert.Equal(t, "/opt/models", cfg.Artifacts)
	assert.Equal(t, "postgres://localhost/clients", cfg.Database.DSN)
	require.NotNil(t, cfg.Selection.TopN)
	assert.Equal(t, 25, *cfg.Selection.TopN)
	assert.Nil(t, cfg.Selection.TopRatio)
	// untouched defaults survive
	assert.Equal(t, "inflow_outflow", cfg.Database.Tables.Flows)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("products: ["), 0644))
	_, err = Load(path)
	assert.Error(t, err)

	path = filepath.Join(t.TempDir(), "empty-products.yaml")
	require.NoError(t, os.WriteFile(path, []byte("products: []"), 0644))
	_, err = Load(path)
	assert.Error(t, err)
}
