package recorder

import "CoopSim/internal/model"

// Recorder persists simulation output for later analysis.
type Recorder interface {
	RecordSnapshot(run string, snap *model.WeeklySnapshot) error
	RecordValidation(report *model.ValidationReport) error
	RecordCalibration(report *model.CalibrationReport) error
	Close() error
}
