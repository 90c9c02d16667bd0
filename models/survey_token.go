package models

import "time"

// SurveyToken là link khảo sát dùng một lần của khách hàng.
// Completed chỉ đổi đúng một lần từ false sang true.
type SurveyToken struct {
	ID          uint       `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	CustomerID  uint       `gorm:"column:id_cliente;not null;uniqueIndex" json:"id_cliente"`
	Token       string     `gorm:"column:token;size:64;not null;uniqueIndex" json:"token"`
	Completed   bool       `gorm:"column:respondida;not null;default:false" json:"respondida"`
	CreatedAt   time.Time  `gorm:"column:fecha_creacion;autoCreateTime" json:"fecha_creacion"`
	CompletedAt *time.Time `gorm:"column:fecha_respuesta" json:"fecha_respuesta"`

	Customer *Customer `gorm:"foreignKey:CustomerID;references:ID" json:"-"`
}

func (SurveyToken) TableName() string {
	return "encuestas_clientes"
}
