package experiments

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kristbsy/alpha-scuffed/searcher"
)

func TestWriteSearchMetrics(t *testing.T) {
	root := t.TempDir()
	w, err := NewWriter(root)
	require.NoError(t, err)
	require.NotEmpty(t, w.RunID())
	require.DirExists(t, w.BaseDir())

	metrics := []searcher.SearchMetric{
		{Simulations: 1000, Duration: 12 * time.Millisecond, Rollouts: 990, TerminalVisits: 10, TreeSize: 4000},
		{Simulations: 1000, Duration: 9 * time.Millisecond, Rollouts: 800, TerminalVisits: 200, TreeSize: 2500},
	}
	require.NoError(t, w.WriteSearchMetrics(metrics))

	f, err := os.Open(filepath.Join(w.BaseDir(), "search_metrics.csv"))
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3, "Header plus one row per search")
	require.Equal(t, []string{"search", "simulations", "duration_ms", "rollouts", "terminal_visits", "tree_size"}, records[0])
	require.Equal(t, []string{"0", "1000", "12", "990", "10", "4000"}, records[1])
	require.Equal(t, []string{"1", "1000", "9", "800", "200", "2500"}, records[2])
}

func TestWritersGetDistinctRunDirs(t *testing.T) {
	root := t.TempDir()
	a, err := NewWriter(root)
	require.NoError(t, err)
	b, err := NewWriter(root)
	require.NoError(t, err)

	require.NotEqual(t, a.BaseDir(), b.BaseDir())
}
