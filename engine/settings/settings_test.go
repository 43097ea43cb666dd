package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1siamBot/isogrid/engine/placement"
	"github.com/1siamBot/isogrid/engine/viewport"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)

	want := Default()
	want.applyEnv(os.Getenv)
	assert.Equal(t, want, s)
	assert.Equal(t, 30, s.Viewport.VisibleTiles)
	assert.Equal(t, 0.2, s.Viewport.WaterFraction)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "isogrid.json")
	body := `{
		"viewport": {"tile_width": 32, "tile_height": 32, "visible_tiles": 30, "water_fraction": 0.2,
		             "viewport_width": 800, "viewport_height": 600,
		             "water": {"axis": 1, "edge": 1}},
		"camera": {"zoom": 1.2}
	}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 32.0, s.Viewport.TileWidth)
	assert.Equal(t, viewport.AxisColumn, s.Viewport.Water.Axis)
	assert.Equal(t, viewport.EdgeNear, s.Viewport.Water.Edge)
	assert.Equal(t, 1.2, s.Camera.Zoom)
	assert.Equal(t, 0.5, s.Camera.MinZoom, "unset fields keep defaults")

	tl, err := s.NewTiler()
	require.NoError(t, err)
	assert.Equal(t, viewport.TerrainWater, tl.Classify(5, 0))
	assert.Equal(t, viewport.TerrainLand, tl.Classify(6, 0))
}

func TestLoadRejectsMisconfiguration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "isogrid.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"viewport": {"water_fraction": 1.5}}`), 0644))

	_, err := Load(path)
	require.ErrorIs(t, err, viewport.ErrInvalidConfig)
}

func TestLoadRejectsBadZoomRange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "isogrid.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"camera": {"min_zoom": 3, "max_zoom": 1}}`), 0644))

	_, err := Load(path)
	require.ErrorIs(t, err, viewport.ErrInvalidConfig)
}

func TestLoadRejectsBadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "isogrid.json")
	require.NoError(t, os.WriteFile(path, []byte(`{`), 0644))
	_, err := Load(path)
	require.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"ISOGRID_ADDR":    ":9999",
		"ISOGRID_DB_TYPE": "postgres",
		"DATABASE_URL":    "postgres://localhost/iso",
	}
	s := Default()
	s.applyEnv(func(k string) string { return env[k] })
	assert.Equal(t, ":9999", s.Server.Addr)
	assert.Equal(t, "postgres", s.Store.Type)
	assert.Equal(t, "postgres://localhost/iso", s.Store.DatabaseURL)
	assert.Equal(t, "boards.json", s.Store.File)
}

func TestValidateUnknownStore(t *testing.T) {
	s := Default()
	s.Store.Type = "redis"
	require.Error(t, s.Validate())
}

func TestOpenJSONStore(t *testing.T) {
	s := Default()
	s.Store.File = filepath.Join(t.TempDir(), "boards.json")
	store, err := s.OpenStore()
	require.NoError(t, err)
	defer store.Close()
	assert.IsType(t, &placement.JSONStore{}, store)
}

func TestNewController(t *testing.T) {
	ctrl, err := Default().NewController()
	require.NoError(t, err)
	assert.Equal(t, 0.8, ctrl.Camera.Zoom)
	assert.Equal(t, 0.001, ctrl.Sensitivity)
}
