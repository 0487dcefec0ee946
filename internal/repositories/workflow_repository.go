package repositories

import (
	"database/sql"
	"fmt"
	"strings"

	intconfig "rentalgw/internal/config"
	intdb "rentalgw/internal/db"
	"rentalgw/internal/domain/models"
)

// WorkflowRepository persists the audit trail of booking-payment runs.
type WorkflowRepository struct {
	DB *sql.DB
}

func (r WorkflowRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func (r WorkflowRepository) table() string {
	return "booking_workflows"
}

// EnsureTable creates the audit table when missing.
func (r WorkflowRepository) EnsureTable() error {
	db := r.db()
	if db == nil {
		return fmt.Errorf("db not available")
	}
	if intdb.HasTable(db, r.table()) {
		return nil
	}
	ddl := `
CREATE TABLE IF NOT EXISTS booking_workflows (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	workflow_id VARCHAR(64) NOT NULL,
	booking_code VARCHAR(50) NOT NULL,
	reservation_id VARCHAR(100) NOT NULL DEFAULT '',
	stage VARCHAR(20) NOT NULL,
	status VARCHAR(20) NOT NULL,
	method VARCHAR(20) NOT NULL DEFAULT '',
	amount VARCHAR(20) NOT NULL DEFAULT '',
	currency VARCHAR(10) NOT NULL DEFAULT '',
	renter_name VARCHAR(255) NOT NULL DEFAULT '',
	renter_email VARCHAR(255) NOT NULL DEFAULT '',
	failure_reason TEXT,
	started_at TIMESTAMP NULL,
	finished_at TIMESTAMP NULL,
	UNIQUE KEY uniq_workflow (workflow_id),
	KEY idx_booking_code (booking_code)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;
`
	_, err := db.Exec(ddl)
	return err
}

// Insert records a freshly started run.
func (r WorkflowRepository) Insert(rec models.WorkflowRecord) error {
	db := r.db()
	if db == nil {
		return fmt.Errorf("db not available")
	}
	if err := r.EnsureTable(); err != nil {
		return err
	}
	_, err := db.Exec(`
		INSERT INTO booking_workflows
			(workflow_id, booking_code, reservation_id, stage, status, method, amount, currency, renter_name, renter_email, failure_reason, started_at)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?)
		ON DUPLICATE KEY UPDATE stage=VALUES(stage), status=VALUES(status)`,
		rec.WorkflowID,
		rec.BookingCode,
		rec.ReservationID,
		rec.Stage,
		rec.Status,
		rec.Method,
		rec.Amount,
		rec.Currency,
		rec.RenterName,
		rec.RenterEmail,
		intdb.NullIfEmpty(rec.FailureReason),
		rec.StartedAt,
	)
	return err
}

// Update syncs stage transitions and the terminal outcome onto the row.
func (r WorkflowRepository) Update(rec models.WorkflowRecord) error {
	db := r.db()
	if db == nil {
		return fmt.Errorf("db not available")
	}
	sets := []string{"reservation_id=?", "stage=?", "status=?", "amount=?"}
	args := []any{rec.ReservationID, rec.Stage, rec.Status, rec.Amount}
	// tables created before failure_reason existed stay updatable
	if intdb.HasColumn(db, r.table(), "failure_reason") {
		sets = append(sets, "failure_reason=?")
		args = append(args, intdb.NullIfEmpty(rec.FailureReason))
	}
	var finished any
	if !rec.FinishedAt.IsZero() {
		finished = rec.FinishedAt
	}
	sets = append(sets, "finished_at=?")
	args = append(args, finished, rec.WorkflowID)

	_, err := db.Exec(
		"UPDATE booking_workflows SET "+strings.Join(sets, ", ")+" WHERE workflow_id=?",
		args...,
	)
	return err
}

// GetByWorkflowID fetches one run's audit row.
func (r WorkflowRepository) GetByWorkflowID(workflowID string) (models.WorkflowRecord, error) {
	db := r.db()
	if db == nil {
		return models.WorkflowRecord{}, fmt.Errorf("db not available")
	}

	query := `
		SELECT workflow_id,
		       COALESCE(booking_code,''),
		       COALESCE(reservation_id,''),
		       COALESCE(stage,''),
		       COALESCE(status,''),
		       COALESCE(method,''),
		       COALESCE(amount,''),
		       COALESCE(currency,''),
		       COALESCE(renter_name,''),
		       COALESCE(renter_email,''),
		       COALESCE(failure_reason,''),
		       started_at,
		       COALESCE(finished_at, started_at)
		FROM ` + r.table() + `
		WHERE workflow_id=? LIMIT 1`

	var rec models.WorkflowRecord
	if err := db.QueryRow(query, workflowID).Scan(
		&rec.WorkflowID,
		&rec.BookingCode,
		&rec.ReservationID,
		&rec.Stage,
		&rec.Status,
		&rec.Method,
		&rec.Amount,
		&rec.Currency,
		&rec.RenterName,
		&rec.RenterEmail,
		&rec.FailureReason,
		&rec.StartedAt,
		&rec.FinishedAt,
	); err != nil {
		return models.WorkflowRecord{}, err
	}
	return rec, nil
}

// ListRecent returns the newest runs for the dashboard table.
func (r WorkflowRepository) ListRecent(limit int) ([]models.WorkflowRecord, error) {
	db := r.db()
	if db == nil {
		return nil, fmt.Errorf("db not available")
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	query := `
		SELECT workflow_id,
		       COALESCE(booking_code,''),
		       COALESCE(reservation_id,''),
		       COALESCE(stage,''),
		       COALESCE(status,''),
		       COALESCE(method,''),
		       COALESCE(amount,''),
		       COALESCE(currency,''),
		       COALESCE(renter_name,''),
		       COALESCE(renter_email,''),
		       COALESCE(failure_reason,''),
		       started_at,
		       COALESCE(finished_at, started_at)
		FROM ` + r.table() + `
		ORDER BY started_at DESC
		LIMIT ?`

	rows, err := db.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.WorkflowRecord
	for rows.Next() {
		var rec models.WorkflowRecord
		if err := rows.Scan(
			&rec.WorkflowID,
			&rec.BookingCode,
			&rec.ReservationID,
			&rec.Stage,
			&rec.Status,
			&rec.Method,
			&rec.Amount,
			&rec.Currency,
			&rec.RenterName,
			&rec.RenterEmail,
			&rec.FailureReason,
			&rec.StartedAt,
			&rec.FinishedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
