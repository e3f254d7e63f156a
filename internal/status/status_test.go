package status

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func thermal(t *testing.T, content string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "temp")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	old := ThermalZone
	ThermalZone = path
	t.Cleanup(func() { ThermalZone = old })
}

func TestReadTemp(t *testing.T) {
	thermal(t, "43802\n")
	assert.InDelta(t, 43.802, readTemp(ThermalZone), 1e-9)

	thermal(t, "hot")
	assert.True(t, math.IsNaN(readTemp(ThermalZone)))

	assert.True(t, math.IsNaN(readTemp(filepath.Join(t.TempDir(), "missing"))))
}

func TestReportString(t *testing.T) {
	r := Report{
		Uptime: 90 * time.Minute,
		Loads:  [3]float64{0.5, 0.25, 0.125},
		TempC:  43.802,
		Chimes: 7,
	}
	assert.Equal(t, "up 1h30m0s, load 0.50 0.25 0.12, temp 43.8C, chimes played: 7", r.String())

	r.TempC = math.NaN()
	assert.Contains(t, r.String(), "temp n/a")
}

func TestCheck(t *testing.T) {
	thermal(t, "51000")
	r := New(func() int64 { return 3 }).Check()

	assert.EqualValues(t, 3, r.Chimes)
	assert.InDelta(t, 51.0, r.TempC, 1e-9)
	if runtime.GOOS == "linux" {
		assert.Greater(t, r.Uptime, time.Duration(0))
	}
}

func TestCheckWithoutCounter(t *testing.T) {
	thermal(t, "51000")
	assert.Zero(t, New(nil).Check().Chimes)
}

func TestRunStops(t *testing.T) {
	thermal(t, "51000")
	calls := 0
	s := New(func() int64 {
		calls++
		return 0
	})

	ctx, cancel := context.WithTimeout(context.Background(), 55*time.Millisecond)
	defer cancel()

	require.NoError(t, s.Run(ctx, 10*time.Millisecond))
	assert.GreaterOrEqual(t, calls, 2)
}
