package services

import (
	"context"
	"log/slog"

	"gorm.io/gorm"

	"github.com/vnkhanh/csat-survey/models"
)

// QuestionCatalog là danh sách câu hỏi khảo sát (chỉ đọc).
type QuestionCatalog struct {
	db  *gorm.DB
	log *slog.Logger
}

func NewQuestionCatalog(db *gorm.DB, log *slog.Logger) *QuestionCatalog {
	return &QuestionCatalog{db: db, log: log}
}

// List trả về câu hỏi theo orden rồi id. Không có câu hỏi thì trả ErrEmptyCatalog.
func (c *QuestionCatalog) List(ctx context.Context) ([]models.Question, error) {
	var questions []models.Question
	if err := c.db.WithContext(ctx).
		Order("orden ASC").
		Order("id_pregunta ASC").
		Find(&questions).Error; err != nil {
		return nil, storageErr("list questions", err)
	}
	if len(questions) == 0 {
		c.log.Warn("question catalog is empty")
		return nil, ErrEmptyCatalog
	}
	return questions, nil
}
