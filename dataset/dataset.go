package dataset

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/kristbsy/alpha-scuffed/searcher"
)

// Dataset holds the training examples harvested from self-play: one row per
// searched position.
type Dataset struct {
	GameStates [][]float64
	VisitStats [][]float64
	Scores     []float64
}

func (d *Dataset) Append(stats searcher.GameStats) {
	d.GameStates = append(d.GameStates, stats.GameState)
	d.VisitStats = append(d.VisitStats, stats.NodeVisits)
	d.Scores = append(d.Scores, stats.Score)
}

func (d *Dataset) Len() int {
	return len(d.Scores)
}

// Softmax normalizes each visit row into a probability distribution.
func Softmax(rows [][]float64) [][]float64 {
	out := make([][]float64, len(rows))
	for i, row := range rows {
		next := make([]float64, len(row))
		maxVal := math.Inf(-1)
		for _, v := range row {
			maxVal = math.Max(maxVal, v)
		}
		sum := 0.0
		for j, v := range row {
			next[j] = math.Exp(v - maxVal)
			sum += next[j]
		}
		for j := range next {
			next[j] /= sum
		}
		out[i] = next
	}
	return out
}

// serializedDataset is the on-disk form: rows flattened into single arrays
// with explicit widths, so a loader can validate dimensions.
type serializedDataset struct {
	GameStates  []float64 `json:"game_states"`
	NodeVisits  []float64 `json:"node_visits"`
	Scores      []float64 `json:"scores"`
	StatesWidth int       `json:"states_width"`
	VisitsWidth int       `json:"visits_width"`
}

// Save writes the dataset as pretty-printed JSON. All rows must share the
// same widths.
func (d *Dataset) Save(path string) error {
	if d.Len() == 0 {
		return fmt.Errorf("refusing to save empty dataset")
	}
	if len(d.GameStates) != d.Len() || len(d.VisitStats) != d.Len() {
		return fmt.Errorf("dataset rows out of sync: %d states, %d visits, %d scores",
			len(d.GameStates), len(d.VisitStats), d.Len())
	}

	out := serializedDataset{
		StatesWidth: len(d.GameStates[0]),
		VisitsWidth: len(d.VisitStats[0]),
		Scores:      d.Scores,
	}
	for i := range d.GameStates {
		if len(d.GameStates[i]) != out.StatesWidth {
			return fmt.Errorf("state row %d has width %d, expected %d", i, len(d.GameStates[i]), out.StatesWidth)
		}
		if len(d.VisitStats[i]) != out.VisitsWidth {
			return fmt.Errorf("visit row %d has width %d, expected %d", i, len(d.VisitStats[i]), out.VisitsWidth)
		}
		out.GameStates = append(out.GameStates, d.GameStates[i]...)
		out.NodeVisits = append(out.NodeVisits, d.VisitStats[i]...)
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal dataset: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write dataset: %w", err)
	}
	return nil
}

// Load reads a dataset back, checking the recorded widths against the
// expected ones.
func Load(path string, statesWidth, visitsWidth int) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset: %w", err)
	}
	var in serializedDataset
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("failed to unmarshal dataset: %w", err)
	}

	if in.StatesWidth != statesWidth {
		return nil, fmt.Errorf("wrong state width on loaded dataset, expected %d, got %d", statesWidth, in.StatesWidth)
	}
	if in.VisitsWidth != visitsWidth {
		return nil, fmt.Errorf("wrong visits width on loaded dataset, expected %d, got %d", visitsWidth, in.VisitsWidth)
	}
	if len(in.GameStates)%statesWidth != 0 || len(in.NodeVisits)%visitsWidth != 0 {
		return nil, fmt.Errorf("flattened arrays are not a whole number of rows")
	}
	if len(in.GameStates)/statesWidth != len(in.Scores) || len(in.NodeVisits)/visitsWidth != len(in.Scores) {
		return nil, fmt.Errorf("row counts do not match score count %d", len(in.Scores))
	}

	d := &Dataset{Scores: in.Scores}
	for i := 0; i < len(in.Scores); i++ {
		d.GameStates = append(d.GameStates, in.GameStates[i*statesWidth:(i+1)*statesWidth])
		d.VisitStats = append(d.VisitStats, in.NodeVisits[i*visitsWidth:(i+1)*visitsWidth])
	}
	return d, nil
}
