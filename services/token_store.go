package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/vnkhanh/csat-survey/models"
	"github.com/vnkhanh/csat-survey/utils"
)

// TokenInfo là thông tin mà một token khảo sát trỏ tới.
type TokenInfo struct {
	CustomerID  uint
	DisplayName string
	Completed   bool
}

// TokenStore lưu token khảo sát trong bảng encuestas_clientes.
type TokenStore struct {
	db       *gorm.DB
	log      *slog.Logger
	newToken func() string
}

func NewTokenStore(db *gorm.DB, log *slog.Logger) *TokenStore {
	return &TokenStore{db: db, log: log, newToken: utils.GenerateSurveyToken}
}

// WithTx trả về bản sao store gắn với transaction tx.
func (s *TokenStore) WithTx(tx *gorm.DB) *TokenStore {
	cp := *s
	cp.db = tx
	return &cp
}

// Generate tạo token khảo sát duy nhất của khách hàng.
func (s *TokenStore) Generate(ctx context.Context, customerID uint) (string, error) {
	var token string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.SurveyToken{}).
			Where("id_cliente = ?", customerID).
			Count(&count).Error; err != nil {
			return storageErr("count tokens", err)
		}
		if count > 0 {
			return fmt.Errorf("customer %d: %w", customerID, ErrDuplicate)
		}

		row := models.SurveyToken{
			CustomerID: customerID,
			Token:      s.newToken(),
			Completed:  false,
		}
		if err := tx.Create(&row).Error; err != nil {
			// unique index trên id_cliente chặn trường hợp race sau bước đếm
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("customer %d: %w", customerID, ErrDuplicate)
			}
			return storageErr("insert token", err)
		}
		token = row.Token
		return nil
	})
	if err != nil {
		return "", err
	}

	s.log.Info("survey token generated", "customer_id", customerID)
	return token, nil
}

// Resolve tìm token kèm tên khách hàng sở hữu.
func (s *TokenStore) Resolve(ctx context.Context, token string) (TokenInfo, error) {
	var row struct {
		CustomerID  uint
		DisplayName string
		Completed   bool
	}
	res := s.db.WithContext(ctx).
		Table("encuestas_clientes AS ec").
		Select("ec.id_cliente AS customer_id, c.nombre_cliente AS display_name, ec.respondida AS completed").
		Joins("JOIN clientes c ON c.id_cliente = ec.id_cliente").
		Where("ec.token = ?", token).
		Limit(1).
		Scan(&row)
	if res.Error != nil {
		return TokenInfo{}, storageErr("resolve token", res.Error)
	}
	if res.RowsAffected == 0 {
		return TokenInfo{}, fmt.Errorf("token: %w", ErrNotFound)
	}
	return TokenInfo(row), nil
}

// MarkCompleted đổi respondida từ false sang true. Update có điều kiện nên khi
// nhiều request chạy song song chỉ đúng một request thấy RowsAffected == 1.
func (s *TokenStore) MarkCompleted(ctx context.Context, token string) error {
	now := time.Now()
	res := s.db.WithContext(ctx).
		Model(&models.SurveyToken{}).
		Where("token = ? AND respondida = ?", token, false).
		Updates(map[string]interface{}{"respondida": true, "fecha_respuesta": now})
	if res.Error != nil {
		return storageErr("mark completed", res.Error)
	}
	if res.RowsAffected == 1 {
		return nil
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.SurveyToken{}).
		Where("token = ?", token).
		Count(&count).Error; err != nil {
		return storageErr("count token", err)
	}
	if count == 0 {
		return fmt.Errorf("token: %w", ErrNotFound)
	}
	return ErrAlreadyCompleted
}

// List trả về toàn bộ token, mới nhất trước.
func (s *TokenStore) List(ctx context.Context) ([]models.SurveyToken, error) {
	var rows []models.SurveyToken
	if err := s.db.WithContext(ctx).Order("id DESC").Find(&rows).Error; err != nil {
		return nil, storageErr("list tokens", err)
	}
	return rows, nil
}

// CustomersWithoutToken trả về khách hàng chưa từng nhận link khảo sát.
func (s *TokenStore) CustomersWithoutToken(ctx context.Context) ([]models.Customer, error) {
	var customers []models.Customer
	err := s.db.WithContext(ctx).
		Where("id_cliente NOT IN (?)", s.db.Model(&models.SurveyToken{}).Select("id_cliente")).
		Order("id_cliente").
		Find(&customers).Error
	if err != nil {
		return nil, storageErr("pending customers", err)
	}
	return customers, nil
}
