package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"CoopSim/internal/model"
)

// SQLiteRecorder persists simulation output to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode for better concurrent read performance (dashboards read while the daemon writes).
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS weekly_snapshots (
			id                       INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp                INTEGER NOT NULL,
			run                      TEXT NOT NULL,
			week                     INTEGER NOT NULL,
			tokens_distributed       REAL,
			total_supply_distributed REAL,
			total_spend              REAL,
			savings_generated        REAL,
			open_orders              INTEGER,
			fulfilled_orders         INTEGER,
			total_staked             REAL,
			total_interest_accrued   REAL,
			active_locks             INTEGER,
			proposals_active         INTEGER,
			proposals_passed         INTEGER,
			votes_cast               INTEGER,
			governance_participation REAL,
			participation_rate       REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_snapshots_run_week ON weekly_snapshots(run, week)`,

		`CREATE TABLE IF NOT EXISTS validation_reports (
			id                  INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp           INTEGER NOT NULL,
			model               TEXT NOT NULL,
			actual_revenue      REAL,
			actual_profit       REAL,
			actual_roi          REAL,
			break_even_week     INTEGER,
			break_even_months   REAL,
			revenue_variance    REAL,
			roi_variance        REAL,
			break_even_variance REAL,
			risk_level          TEXT,
			confidence_level    TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_validation_model ON validation_reports(model, timestamp)`,

		`CREATE TABLE IF NOT EXISTS calibration_reports (
			id               INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp        INTEGER NOT NULL,
			model            TEXT NOT NULL,
			confidence_level TEXT,
			confidence_score REAL,
			average_variance REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_calibration_model ON calibration_reports(model, timestamp)`,

		`CREATE TABLE IF NOT EXISTS parameter_adjustments (
			id                 INTEGER PRIMARY KEY AUTOINCREMENT,
			calibration_id     INTEGER NOT NULL,
			parameter          TEXT NOT NULL,
			baseline           REAL,
			calibrated         REAL,
			adjustment_percent REAL,
			confidence         TEXT,
			reasoning          TEXT,
			FOREIGN KEY (calibration_id) REFERENCES calibration_reports(id)
		)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordSnapshot(run string, snap *model.WeeklySnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO weekly_snapshots
		(timestamp, run, week, tokens_distributed, total_supply_distributed,
		 total_spend, savings_generated, open_orders, fulfilled_orders,
		 total_staked, total_interest_accrued, active_locks,
		 proposals_active, proposals_passed, votes_cast,
		 governance_participation, participation_rate)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		time.Now().Unix(), run, snap.Week,
		snap.TokensDistributed, snap.TotalSupplyDistributed,
		snap.TotalSpend, snap.SavingsGenerated,
		snap.OpenOrders, snap.FulfilledOrders,
		snap.TotalStaked, snap.TotalInterestAccrued, snap.ActiveLocks,
		snap.ProposalsActive, snap.ProposalsPassed, snap.VotesCast,
		snap.GovernanceParticipation, snap.ParticipationRate,
	)
	return err
}

func (r *SQLiteRecorder) RecordValidation(report *model.ValidationReport) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO validation_reports
		(timestamp, model, actual_revenue, actual_profit, actual_roi,
		 break_even_week, break_even_months,
		 revenue_variance, roi_variance, break_even_variance,
		 risk_level, confidence_level)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
		time.Now().Unix(), report.Model,
		report.Actual.Revenue, report.Actual.Profit, report.Actual.ROI,
		report.Actual.BreakEvenWeek, report.Actual.BreakEvenMonths,
		report.Variance.RevenueVariance, report.Variance.ROIVariance,
		report.Variance.BreakEvenVariance,
		string(report.RiskAssessment.RiskLevel),
		string(report.RiskAssessment.ConfidenceLevel),
	)
	return err
}

func (r *SQLiteRecorder) RecordCalibration(report *model.CalibrationReport) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	res, err := r.db.Exec(`INSERT INTO calibration_reports
		(timestamp, model, confidence_level, confidence_score, average_variance)
		VALUES (?,?,?,?,?)`,
		time.Now().Unix(), report.Model,
		string(report.Overall.ConfidenceLevel),
		report.Overall.ConfidenceScore, report.Overall.AverageVariance,
	)
	if err != nil {
		return err
	}
	calibrationID, err := res.LastInsertId()
	if err != nil {
		return err
	}
	for _, adj := range report.ParameterAdjustments {
		if _, err := r.db.Exec(`INSERT INTO parameter_adjustments
			(calibration_id, parameter, baseline, calibrated, adjustment_percent, confidence, reasoning)
			VALUES (?,?,?,?,?,?,?)`,
			calibrationID, adj.Parameter, adj.Baseline, adj.Calibrated,
			adj.AdjustmentPercent, string(adj.Confidence), adj.Reasoning,
		); err != nil {
			return err
		}
	}
	return nil
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
