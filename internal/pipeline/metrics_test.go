package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMetrics(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metrics.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"fid": 48.75, "intra_lpips": 0.4312}`), 0o644))

	m, err := loadMetrics(path)
	require.NoError(t, err)
	assert.InDelta(t, 48.75, m.FID, 1e-9)
	assert.InDelta(t, 0.4312, m.IntraLPIPS, 1e-9)
}

func TestLoadMetricsMissingFile(t *testing.T) {
	_, err := loadMetrics(filepath.Join(t.TempDir(), "metrics.json"))
	assert.Error(t, err)
}

func TestLoadMetricsMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metrics.json")
	require.NoError(t, os.WriteFile(path, []byte("FID: 48.75"), 0o644))

	_, err := loadMetrics(path)
	assert.Error(t, err)
}
