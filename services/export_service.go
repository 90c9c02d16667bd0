package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/vnkhanh/csat-survey/models"
)

const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

var exportHeader = []string{"id_respuesta", "id_cliente", "nombre_cliente", "id_pregunta", "texto_pregunta", "respuesta", "fecha"}

type exportRow struct {
	AnswerID     uint
	CustomerID   uint
	CustomerName string
	QuestionID   uint
	Prompt       string
	Response     string
	AnsweredAt   time.Time
}

func (r exportRow) cells() []string {
	return []string{
		strconv.FormatUint(uint64(r.AnswerID), 10),
		strconv.FormatUint(uint64(r.CustomerID), 10),
		r.CustomerName,
		strconv.FormatUint(uint64(r.QuestionID), 10),
		r.Prompt,
		r.Response,
		r.AnsweredAt.Format(time.RFC3339),
	}
}

// ExportService xuất toàn bộ câu trả lời ra file CSV hoặc XLSX trong job chạy nền.
type ExportService struct {
	db     *gorm.DB
	outDir string
	log    *slog.Logger
	wg     sync.WaitGroup
}

func NewExportService(db *gorm.DB, outDir string, log *slog.Logger) *ExportService {
	return &ExportService{db: db, outDir: outDir, log: log}
}

// CreateJob tạo job export và bắt đầu xử lý.
func (s *ExportService) CreateJob(ctx context.Context, format string) (models.ExportJob, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = FormatCSV
	}
	if format != FormatCSV && format != FormatXLSX {
		return models.ExportJob{}, validationErr("formato debe ser csv o xlsx")
	}

	job := models.ExportJob{
		JobID:  uuid.New().String(),
		Format: format,
		Status: models.ExportQueued,
	}
	if err := s.db.WithContext(ctx).Create(&job).Error; err != nil {
		return models.ExportJob{}, storageErr("create export job", err)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.process(context.Background(), job.JobID)
	}()
	return job, nil
}

// Wait chờ tới khi mọi job đã chạy xong.
func (s *ExportService) Wait() {
	s.wg.Wait()
}

func (s *ExportService) Get(ctx context.Context, jobID string) (models.ExportJob, error) {
	var job models.ExportJob
	err := s.db.WithContext(ctx).First(&job, "job_id = ?", jobID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.ExportJob{}, fmt.Errorf("export job %s: %w", jobID, ErrNotFound)
	}
	if err != nil {
		return models.ExportJob{}, storageErr("get export job", err)
	}
	return job, nil
}

func (s *ExportService) process(ctx context.Context, jobID string) {
	log := s.log.With("job_id", jobID)
	db := s.db.WithContext(ctx)

	var job models.ExportJob
	if err := db.First(&job, "job_id = ?", jobID).Error; err != nil {
		log.Error("export job vanished", "error", err)
		return
	}
	setStatus := func(fields map[string]interface{}) {
		if err := db.Model(&job).Updates(fields).Error; err != nil {
			log.Error("export status update failed", "status", fields["status"], "error", err)
		}
	}
	setStatus(map[string]interface{}{"status": models.ExportProcessing})

	fail := func(err error) {
		log.Error("export failed", "error", err)
		setStatus(map[string]interface{}{"status": models.ExportFailed, "error_msg": err.Error()})
	}

	rows, err := s.loadRows(ctx)
	if err != nil {
		fail(err)
		return
	}

	if err := os.MkdirAll(s.outDir, 0o755); err != nil {
		fail(err)
		return
	}
	outPath := filepath.Join(s.outDir, fmt.Sprintf("export_%s.%s", job.JobID, job.Format))

	switch job.Format {
	case FormatXLSX:
		err = writeXLSX(outPath, rows)
	default:
		err = writeCSV(outPath, rows)
	}
	if err != nil {
		fail(err)
		return
	}

	setStatus(map[string]interface{}{"status": models.ExportDone, "file_path": outPath})
	log.Info("export done", "rows", len(rows), "path", outPath)
}

func (s *ExportService) loadRows(ctx context.Context) ([]exportRow, error) {
	var rows []exportRow
	err := s.db.WithContext(ctx).
		Table("respuestas AS r").
		Select(`r.id_respuesta AS answer_id, r.id_cliente AS customer_id, c.nombre_cliente AS customer_name,
			r.id_pregunta AS question_id, COALESCE(p.texto_pregunta, '') AS prompt,
			r.respuesta AS response, r.fecha AS answered_at`).
		Joins("JOIN clientes c ON c.id_cliente = r.id_cliente").
		Joins("LEFT JOIN preguntas p ON p.id_pregunta = r.id_pregunta").
		Order("r.id_respuesta").
		Scan(&rows).Error
	if err != nil {
		return nil, storageErr("load export rows", err)
	}
	return rows, nil
}

func writeCSV(path string, rows []exportRow) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(exportHeader); err != nil {
		return err
	}
	for _, r := range rows {
		if err := w.Write(r.cells()); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func writeXLSX(path string, rows []exportRow) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Respuestas"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	header := make([]interface{}, len(exportHeader))
	for i, h := range exportHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := make([]interface{}, 0, len(exportHeader))
		for _, v := range r.cells() {
			values = append(values, v)
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
	}
	return f.SaveAs(path)
}
