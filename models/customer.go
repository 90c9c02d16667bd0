package models

import "time"

// Customer được tạo bởi quy trình onboarding bên ngoài, ở đây chỉ đọc.
type Customer struct {
	ID        uint      `gorm:"column:id_cliente;primaryKey;autoIncrement" json:"id_cliente"`
	Name      string    `gorm:"column:nombre_cliente;size:150;not null" json:"nombre_cliente"`
	CreatedAt time.Time `gorm:"column:fecha_creacion;autoCreateTime" json:"fecha_creacion"`

	Tokens  []SurveyToken `gorm:"foreignKey:CustomerID" json:"-"`
	Answers []Answer      `gorm:"foreignKey:CustomerID" json:"-"`
}

func (Customer) TableName() string {
	return "clientes"
}
