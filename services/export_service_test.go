package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/vnkhanh/csat-survey/models"
	"github.com/vnkhanh/csat-survey/testutil"
)

func seedExportData(t *testing.T, recorder *AnswerRecorder, customerID uint) {
	t.Helper()
	err := recorder.Record(context.Background(), customerID, []AnswerInput{
		{QuestionID: 1, Response: "Good"},
		{QuestionID: 2, Response: "Muy amables, gracias"},
	})
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}
}

func TestExportCSV(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewExportService(db, t.TempDir(), testutil.Logger())
	ctx := context.Background()

	testutil.CreateQuestion(t, db, 1, "Rate us", "Bad", "OK", "Good")
	testutil.CreateQuestion(t, db, 2, "Comments")
	customer := testutil.CreateCustomer(t, db, "Lucía")
	seedExportData(t, NewAnswerRecorder(db), customer.ID)

	job, err := svc.CreateJob(ctx, "")
	if err != nil {
		t.Fatalf("CreateJob failed: %v", err)
	}
	if job.Format != FormatCSV || job.Status != models.ExportQueued {
		t.Errorf("Unexpected job: %+v", job)
	}
	svc.Wait()

	done, err := svc.Get(ctx, job.JobID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if done.Status != models.ExportDone || done.FilePath == nil {
		t.Fatalf("Expected done job with file, got %+v (error_msg=%v)", done, done.ErrorMsg)
	}

	f, err := os.Open(*done.FilePath)
	if err != nil {
		t.Fatalf("Failed to open export: %v", err)
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("Failed to parse CSV: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("Expected header + 2 rows, got %d", len(records))
	}
	if records[1][2] != "Lucía" || records[1][4] != "Rate us" || records[1][5] != "Good" {
		t.Errorf("Unexpected first row: %v", records[1])
	}
	if records[2][5] != "Muy amables, gracias" {
		t.Errorf("Unexpected second row: %v", records[2])
	}
}

func TestExportXLSX(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewExportService(db, t.TempDir(), testutil.Logger())
	ctx := context.Background()

	testutil.CreateQuestion(t, db, 1, "Rate us", "Bad", "OK", "Good")
	customer := testutil.CreateCustomer(t, db, "Mateo")
	seedExportData(t, NewAnswerRecorder(db), customer.ID)

	job, err := svc.CreateJob(ctx, "XLSX")
	if err != nil {
		t.Fatalf("CreateJob failed: %v", err)
	}
	svc.Wait()

	done, err := svc.Get(ctx, job.JobID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if done.Status != models.ExportDone || done.FilePath == nil {
		t.Fatalf("Expected done job, got %+v", done)
	}

	book, err := excelize.OpenFile(*done.FilePath)
	if err != nil {
		t.Fatalf("Failed to open xlsx: %v", err)
	}
	defer book.Close()
	rows, err := book.GetRows("Respuestas")
	if err != nil {
		t.Fatalf("GetRows failed: %v", err)
	}
	if len(rows) != 3 || rows[0][0] != "id_respuesta" || rows[1][5] != "Good" {
		t.Errorf("Unexpected sheet contents: %v", rows)
	}
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewExportService(db, t.TempDir(), testutil.Logger())

	if _, err := svc.CreateJob(context.Background(), "pdf"); !errors.Is(err, ErrValidation) {
		t.Errorf("Expected ErrValidation, got %v", err)
	}
	if _, err := svc.Get(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestExportLogsStatusWriteFailure(t *testing.T) {
	db := testutil.SetupTestDB(t)
	var logs bytes.Buffer
	svc := NewExportService(db, t.TempDir(), slog.New(slog.NewTextHandler(&logs, nil)))

	boom := errors.New("status write refused")
	err := db.Callback().Update().Before("gorm:update").Register("test:fail_job_status", func(tx *gorm.DB) {
		if tx.Statement.Table == "export_jobs" {
			tx.AddError(boom)
		}
	})
	if err != nil {
		t.Fatalf("Failed to register callback: %v", err)
	}

	job, err := svc.CreateJob(context.Background(), FormatCSV)
	if err != nil {
		t.Fatalf("CreateJob failed: %v", err)
	}
	svc.Wait()

	out := logs.String()
	if !strings.Contains(out, "export status update failed") || !strings.Contains(out, boom.Error()) {
		t.Errorf("Expected status write failure to be logged, got:\n%s", out)
	}

	got, err := svc.Get(context.Background(), job.JobID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Status != models.ExportQueued {
		t.Errorf("Expected status to stay %q, got %q", models.ExportQueued, got.Status)
	}
}
