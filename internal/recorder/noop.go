package recorder

import "CoopSim/internal/model"

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordSnapshot(_ string, _ *model.WeeklySnapshot) error { return nil }
func (n *NoopRecorder) RecordValidation(_ *model.ValidationReport) error       { return nil }
func (n *NoopRecorder) RecordCalibration(_ *model.CalibrationReport) error     { return nil }
func (n *NoopRecorder) Close() error                                           { return nil }
