package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/vnkhanh/csat-survey/models"
)

// AnswerInput là một cặp {câu hỏi, câu trả lời} được gửi lên.
type AnswerInput struct {
	QuestionID uint   `json:"id_pregunta"`
	Response   string `json:"respuesta"`
}

// AnswerRecorder chỉ thêm dòng trả lời; id câu hỏi lưu nguyên, không đối chiếu catalog.
type AnswerRecorder struct {
	db *gorm.DB
}

func NewAnswerRecorder(db *gorm.DB) *AnswerRecorder {
	return &AnswerRecorder{db: db}
}

func (r *AnswerRecorder) WithTx(tx *gorm.DB) *AnswerRecorder {
	return &AnswerRecorder{db: tx}
}

func (r *AnswerRecorder) Record(ctx context.Context, customerID uint, answers []AnswerInput) error {
	if len(answers) == 0 {
		return nil
	}
	rows := make([]models.Answer, 0, len(answers))
	for _, a := range answers {
		rows = append(rows, models.Answer{
			CustomerID: customerID,
			QuestionID: a.QuestionID,
			Response:   a.Response,
		})
	}
	if err := r.db.WithContext(ctx).Create(&rows).Error; err != nil {
		return storageErr(fmt.Sprintf("insert %d answers", len(rows)), err)
	}
	return nil
}

// ListByCustomer trả về câu trả lời của một khách hàng, không đảm bảo thứ tự.
func (r *AnswerRecorder) ListByCustomer(ctx context.Context, customerID uint) ([]models.Answer, error) {
	var rows []models.Answer
	if err := r.db.WithContext(ctx).Where("id_cliente = ?", customerID).Find(&rows).Error; err != nil {
		return nil, storageErr("list answers", err)
	}
	return rows, nil
}
