package trader

import (
	"encoding/json"
	"os"
	"time"

	"ScalpSentinel/internal/model"
)

// LoadCapitalState reads the capital state from a JSON file. A missing file
// yields a fresh state funded with initialCapital.
func LoadCapitalState(filePath string, initialCapital float64) (*model.CapitalState, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return &model.CapitalState{
				InitialCapital:   initialCapital,
				AvailableCapital: initialCapital,
			}, nil
		}
		return nil, err
	}
	var state model.CapitalState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, err
	}
	if state.InitialCapital == 0 {
		state.InitialCapital = initialCapital
		state.AvailableCapital = initialCapital
	}
	return &state, nil
}

// SaveCapitalState writes the capital state to a JSON file.
func SaveCapitalState(filePath string, state *model.CapitalState) error {
	state.UpdatedAt = time.Now()
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filePath, data, 0644)
}
