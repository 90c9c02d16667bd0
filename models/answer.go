package models

import (
	"time"
)

type Answer struct {
	ID         uint      `gorm:"column:id_respuesta;primaryKey;autoIncrement" json:"id_respuesta"`
	CustomerID uint      `gorm:"column:id_cliente;not null;index" json:"id_cliente"`
	QuestionID uint      `gorm:"column:id_pregunta;not null;index" json:"id_pregunta"`
	Response   string    `gorm:"column:respuesta;type:text" json:"respuesta"`
	CreatedAt  time.Time `gorm:"column:fecha;autoCreateTime" json:"fecha"`
}

func (Answer) TableName() string {
	return "respuestas"
}
