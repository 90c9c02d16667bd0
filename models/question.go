package models

import "strings"

// Question: Scale rỗng nghĩa là câu hỏi tự luận.
type Question struct {
	ID       uint   `gorm:"column:id_pregunta;primaryKey;autoIncrement" json:"id_pregunta"`
	Prompt   string `gorm:"column:texto_pregunta;type:text;not null" json:"texto_pregunta"`
	Scale    string `gorm:"column:escala_respuesta;type:text" json:"escala_respuesta"`
	Position int    `gorm:"column:orden;default:0" json:"orden"`
}

func (Question) TableName() string {
	return "preguntas"
}

// Choices tách escala_respuesta (phân cách bằng dấu phẩy) thành danh sách đáp án.
// Câu tự luận trả về nil.
func (q Question) Choices() []string {
	return SplitScale(q.Scale)
}

// IsScale cho biết câu hỏi có tập đáp án cố định.
func (q Question) IsScale() bool {
	return len(q.Choices()) > 0
}

func SplitScale(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if label := strings.TrimSpace(part); label != "" {
			out = append(out, label)
		}
	}
	return out
}

func JoinScale(choices []string) string {
	return strings.Join(choices, ",")
}
