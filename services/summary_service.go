package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/vnkhanh/csat-survey/models"
)

type ResponseCount struct {
	Response string  `json:"respuesta"`
	Count    int     `json:"cantidad"`
	Percent  float64 `json:"porcentaje"`
}

type QuestionSummary struct {
	QuestionID uint            `json:"id_pregunta"`
	Prompt     string          `json:"texto_pregunta"`
	Scale      []string        `json:"opciones,omitempty"`
	Total      int             `json:"total"`
	Counts     []ResponseCount `json:"respuestas"`
}

type Summary struct {
	TokensIssued    int64             `json:"encuestas_generadas"`
	TokensCompleted int64             `json:"encuestas_respondidas"`
	Questions       []QuestionSummary `json:"preguntas"`
}

// SummaryService thống kê câu trả lời theo từng câu hỏi.
type SummaryService struct {
	db      *gorm.DB
	catalog *QuestionCatalog
}

func NewSummaryService(db *gorm.DB, catalog *QuestionCatalog) *SummaryService {
	return &SummaryService{db: db, catalog: catalog}
}

func (s *SummaryService) Summary(ctx context.Context) (Summary, error) {
	db := s.db.WithContext(ctx)

	var out Summary
	if err := db.Model(&models.SurveyToken{}).Count(&out.TokensIssued).Error; err != nil {
		return Summary{}, storageErr("count tokens", err)
	}
	if err := db.Model(&models.SurveyToken{}).Where("respondida = ?", true).
		Count(&out.TokensCompleted).Error; err != nil {
		return Summary{}, storageErr("count completed", err)
	}

	questions, err := s.catalog.List(ctx)
	if err != nil {
		return Summary{}, err
	}

	for _, q := range questions {
		var rows []struct {
			Response string
			Total    int
		}
		if err := db.Model(&models.Answer{}).
			Select("respuesta AS response, COUNT(*) AS total").
			Where("id_pregunta = ?", q.ID).
			Group("respuesta").
			Order("total DESC").
			Scan(&rows).Error; err != nil {
			return Summary{}, storageErr("aggregate answers", err)
		}

		qs := QuestionSummary{QuestionID: q.ID, Prompt: q.Prompt, Scale: q.Choices()}
		for _, r := range rows {
			qs.Total += r.Total
		}
		for _, r := range rows {
			qs.Counts = append(qs.Counts, ResponseCount{
				Response: r.Response,
				Count:    r.Total,
				Percent:  float64(r.Total) * 100 / float64(qs.Total),
			})
		}
		out.Questions = append(out.Questions, qs)
	}
	return out, nil
}
