package experiments

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"

	"github.com/kristbsy/alpha-scuffed/searcher"
)

// Writer dumps search metrics for one self-play run into a dedicated
// directory, so runs can be compared afterwards.
type Writer struct {
	baseDir string
	runID   string
}

func NewWriter(root string) (*Writer, error) {
	runID := uuid.NewString()
	baseDir := filepath.Join(root, runID)
	err := os.MkdirAll(baseDir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create run directory: %w", err)
	}

	return &Writer{
		baseDir: baseDir,
		runID:   runID,
	}, nil
}

func (w *Writer) RunID() string {
	return w.runID
}

func (w *Writer) BaseDir() string {
	return w.baseDir
}

// WriteSearchMetrics writes one CSV row per search.
func (w *Writer) WriteSearchMetrics(metrics []searcher.SearchMetric) error {
	path := filepath.Join(w.baseDir, "search_metrics.csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create search metrics file: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	defer writer.Flush()

	header := []string{"search", "simulations", "duration_ms", "rollouts", "terminal_visits", "tree_size"}
	err = writer.Write(header)
	if err != nil {
		return fmt.Errorf("failed to write search metrics header: %w", err)
	}

	for i, m := range metrics {
		record := []string{
			strconv.Itoa(i),
			strconv.Itoa(m.Simulations),
			strconv.FormatInt(m.Duration.Milliseconds(), 10),
			strconv.Itoa(m.Rollouts),
			strconv.Itoa(m.TerminalVisits),
			strconv.Itoa(m.TreeSize),
		}
		err = writer.Write(record)
		if err != nil {
			return fmt.Errorf("failed to write search metric %d: %w", i, err)
		}
	}
	return writer.Error()
}
