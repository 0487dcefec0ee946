package repositories

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"rentalgw/internal/domain/models"
)

func sampleRecord() models.WorkflowRecord {
	return models.WorkflowRecord{
		WorkflowID:  "wf-123",
		BookingCode: "HRE-2025-000001",
		Stage:       "reserve",
		Status:      "running",
		Method:      "redirect",
		Amount:      "150.00",
		Currency:    "USD",
		RenterName:  "John Doe",
		RenterEmail: "john@example.com",
		StartedAt:   time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestWorkflowInsertCreatesTableWhenMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("information_schema\\.tables").WithArgs("booking_workflows").
		WillReturnRows(sqlmock.NewRows([]string{"table_name"}))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS booking_workflows").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO booking_workflows").
		WillReturnResult(sqlmock.NewResult(1, 1))

	repo := WorkflowRepository{DB: db}
	if err := repo.Insert(sampleRecord()); err != nil {
		t.Fatalf("insert error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestWorkflowUpdateWritesTerminalOutcome(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	rec := sampleRecord()
	rec.ReservationID = "res-42"
	rec.Stage = "poll"
	rec.Status = "succeeded"
	rec.FinishedAt = rec.StartedAt.Add(30 * time.Second)

	mock.ExpectQuery("information_schema\\.columns").WithArgs("booking_workflows", "failure_reason").
		WillReturnRows(sqlmock.NewRows([]string{"column_name"}).AddRow("failure_reason"))
	mock.ExpectExec("UPDATE booking_workflows").
		WithArgs("res-42", "poll", "succeeded", "150.00", nil, rec.FinishedAt, "wf-123").
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := WorkflowRepository{DB: db}
	if err := repo.Update(rec); err != nil {
		t.Fatalf("update error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestWorkflowUpdateSkipsMissingFailureReasonColumn(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	rec := sampleRecord()
	rec.Stage = "poll"
	rec.Status = "failed"
	rec.FailureReason = "payment reported failed"
	rec.FinishedAt = rec.StartedAt.Add(30 * time.Second)

	mock.ExpectQuery("information_schema\\.columns").WithArgs("booking_workflows", "failure_reason").
		WillReturnRows(sqlmock.NewRows([]string{"column_name"}))
	mock.ExpectExec("UPDATE booking_workflows").
		WithArgs("", "poll", "failed", "150.00", rec.FinishedAt, "wf-123").
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := WorkflowRepository{DB: db}
	if err := repo.Update(rec); err != nil {
		t.Fatalf("update error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestWorkflowGetByWorkflowID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	started := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{
		"workflow_id", "booking_code", "reservation_id", "stage", "status", "method",
		"amount", "currency", "renter_name", "renter_email", "failure_reason",
		"started_at", "finished_at",
	}).AddRow("wf-123", "HRE-2025-000001", "res-42", "poll", "succeeded", "redirect",
		"150.00", "USD", "John Doe", "john@example.com", "", started, started.Add(time.Minute))

	mock.ExpectQuery("SELECT workflow_id").WithArgs("wf-123").WillReturnRows(rows)

	repo := WorkflowRepository{DB: db}
	rec, err := repo.GetByWorkflowID("wf-123")
	if err != nil {
		t.Fatalf("get error: %v", err)
	}
	if rec.BookingCode != "HRE-2025-000001" || rec.Status != "succeeded" || rec.ReservationID != "res-42" {
		t.Fatalf("unexpected record: %+v", rec)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
