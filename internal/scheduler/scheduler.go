package scheduler

import (
	"fmt"
	"log"
	"sync"

	"CoopSim/internal/calibrate"
	"CoopSim/internal/config"
	"CoopSim/internal/external"
	"CoopSim/internal/model"
	"CoopSim/internal/recorder"
	"CoopSim/internal/validate"

	"github.com/robfig/cron/v3"
)

// Scheduler manages the recurring validation and calibration tasks.
type Scheduler struct {
	Cron     *cron.Cron
	Config   *config.Config
	Recorder recorder.Recorder

	mu sync.Mutex
	// lastReports holds the most recent validation report per model,
	// consumed by the calibration task.
	lastReports map[string]*model.ValidationReport
}

// NewScheduler creates a new Scheduler.
func NewScheduler(cfg *config.Config, rec recorder.Recorder) *Scheduler {
	return &Scheduler{
		Cron:        cron.New(cron.WithSeconds()),
		Config:      cfg,
		Recorder:    rec,
		lastReports: make(map[string]*model.ValidationReport),
	}
}

// RegisterAll registers the validation and calibration tasks.
func (s *Scheduler) RegisterAll() error {
	if _, err := s.Cron.AddFunc(s.Config.Schedule.ValidationCron, s.validationTask); err != nil {
		return fmt.Errorf("register validation task: %w", err)
	}
	if _, err := s.Cron.AddFunc(s.Config.Schedule.CalibrationCron, s.calibrationTask); err != nil {
		return fmt.Errorf("register calibration task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

// RunValidationNow executes the validation task immediately (for manual
// trigger / RUN_ON_START).
func (s *Scheduler) RunValidationNow() {
	s.validationTask()
}

func (s *Scheduler) validationTask() {
	log.Println("[INFO] running validation task")
	if len(s.Config.Projections) == 0 {
		log.Println("[WARN] no projection models configured, skipping validation")
		return
	}

	v := validate.NewValidator(s.Config.SimConfig(), s.Config.Simulation.HorizonWeeks)
	reports, err := v.CompareModels(s.Config.Projections)
	if err != nil {
		log.Printf("[ERROR] validation run: %v", err)
		return
	}

	s.mu.Lock()
	for _, report := range reports {
		s.lastReports[report.Model] = report
	}
	s.mu.Unlock()

	for _, report := range reports {
		log.Printf("[INFO] validated %s: revenue variance %+.1f%%, risk %s",
			report.Model, report.Variance.RevenueVariance, report.RiskAssessment.RiskLevel)
		if err := s.Recorder.RecordValidation(report); err != nil {
			log.Printf("[ERROR] record validation: %v", err)
		}
	}
}

func (s *Scheduler) calibrationTask() {
	log.Println("[INFO] running calibration task")
	if s.Config.External.DataFile == "" {
		log.Println("[WARN] no external data file configured, skipping calibration")
		return
	}
	data, err := external.LoadAggregatedData(s.Config.External.DataFile)
	if err != nil {
		log.Printf("[ERROR] load external data: %v", err)
		return
	}

	engine := calibrate.NewEngine(s.Config.SimConfig())
	for _, pm := range s.Config.Projections {
		s.mu.Lock()
		validation := s.lastReports[pm.Name]
		s.mu.Unlock()
		if validation == nil {
			log.Printf("[WARN] no validation report for %s yet, skipping calibration", pm.Name)
			continue
		}

		report, err := engine.Calibrate(pm.Name, data, validation, pm.PopulationSize)
		if err != nil {
			log.Printf("[ERROR] calibrate %s: %v", pm.Name, err)
			continue
		}
		log.Printf("[INFO] calibrated %s: confidence %s (%.0f), %d adjustments",
			report.Model, report.Overall.ConfidenceLevel, report.Overall.ConfidenceScore,
			len(report.ParameterAdjustments))
		if err := s.Recorder.RecordCalibration(report); err != nil {
			log.Printf("[ERROR] record calibration: %v", err)
		}
	}
}
