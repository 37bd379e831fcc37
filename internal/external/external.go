// Package external loads aggregated real-world spending data produced
// by the finance-tracking collaborator.
package external

import (
	"encoding/json"
	"os"

	"CoopSim/internal/model"
)

// LoadAggregatedData reads aggregated spending data from a JSON file.
// The file is expected to be pre-transformed: category mapping applied
// and spending bucketed by week.
func LoadAggregatedData(path string) (*model.AggregatedData, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var data model.AggregatedData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, err
	}
	if len(data.WeeklySpending) == 0 {
		return nil, model.NewConfigError("external.weekly_spending", "no weekly spending observations in %s", path)
	}
	if data.ActiveParticipants <= 0 {
		return nil, model.NewConfigError("external.active_participants", "must be positive, got %d", data.ActiveParticipants)
	}
	return &data, nil
}
