package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"gorm.io/gorm"

	"github.com/vnkhanh/csat-survey/models"
)

// Session chứa mọi thứ client cần để hiển thị toàn bộ khảo sát.
type Session struct {
	CustomerID  uint
	DisplayName string
	Questions   []models.Question
}

// PageStatus cho biết vì sao trang khảo sát có thể không được trả về.
type PageStatus int

const (
	PageAvailable PageStatus = iota
	PageMissingToken
	PageUnknownToken
	PageAlreadyAnswered
)

// SessionService đưa token qua các trạng thái UNKNOWN -> ACTIVE -> COMPLETED.
type SessionService struct {
	db       *gorm.DB
	tokens   *TokenStore
	catalog  *QuestionCatalog
	recorder *AnswerRecorder
	log      *slog.Logger
}

func NewSessionService(db *gorm.DB, tokens *TokenStore, catalog *QuestionCatalog, recorder *AnswerRecorder, log *slog.Logger) *SessionService {
	return &SessionService{
		db:       db,
		tokens:   tokens,
		catalog:  catalog,
		recorder: recorder,
		log:      log,
	}
}

// ValidateToken trả về khách hàng của token ACTIVE. Token không tồn tại hoặc
// đã dùng đều trả ErrSessionUnavailable.
func (s *SessionService) ValidateToken(ctx context.Context, token string) (TokenInfo, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return TokenInfo{}, fmt.Errorf("missing token: %w", ErrSessionUnavailable)
	}
	info, err := s.tokens.Resolve(ctx, token)
	if errors.Is(err, ErrNotFound) {
		return TokenInfo{}, fmt.Errorf("unknown token: %w", ErrSessionUnavailable)
	}
	if err != nil {
		return TokenInfo{}, err
	}
	if info.Completed {
		return TokenInfo{}, fmt.Errorf("token already used: %w", ErrSessionUnavailable)
	}
	return info, nil
}

// BeginSession trả về thông tin khách hàng cùng toàn bộ câu hỏi.
func (s *SessionService) BeginSession(ctx context.Context, token string) (Session, error) {
	info, err := s.ValidateToken(ctx, token)
	if err != nil {
		return Session{}, err
	}

	questions, err := s.catalog.List(ctx)
	if errors.Is(err, ErrEmptyCatalog) {
		return Session{}, fmt.Errorf("%w: %w", ErrSessionUnavailable, ErrEmptyCatalog)
	}
	if err != nil {
		return Session{}, err
	}

	return Session{
		CustomerID:  info.CustomerID,
		DisplayName: info.DisplayName,
		Questions:   questions,
	}, nil
}

// SubmitAnswers lưu câu trả lời và đánh dấu token trong cùng một transaction.
// Bước đánh dấu có điều kiện là điểm commit: thua race thì câu trả lời bị rollback.
func (s *SessionService) SubmitAnswers(ctx context.Context, token string, answers []AnswerInput) error {
	if len(answers) == 0 {
		return validationErr("at least one answer is required")
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return validationErr("token is required")
	}

	var customerID uint
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tokens := s.tokens.WithTx(tx)

		info, err := tokens.Resolve(ctx, token)
		if errors.Is(err, ErrNotFound) {
			return fmt.Errorf("unknown token: %w", ErrSessionUnavailable)
		}
		if err != nil {
			return err
		}
		if info.Completed {
			return fmt.Errorf("token already used: %w", ErrSessionUnavailable)
		}
		customerID = info.CustomerID

		if err := s.recorder.WithTx(tx).Record(ctx, info.CustomerID, answers); err != nil {
			return err
		}

		err = tokens.MarkCompleted(ctx, token)
		if errors.Is(err, ErrAlreadyCompleted) || errors.Is(err, ErrNotFound) {
			return fmt.Errorf("%w: %w", ErrSessionUnavailable, err)
		}
		return err
	})
	if err != nil {
		if errors.Is(err, ErrSessionUnavailable) {
			s.log.Info("submission rejected", "reason", err.Error())
		} else {
			s.log.Error("submission failed", "error", err)
		}
		return err
	}

	s.log.Info("survey completed", "customer_id", customerID, "answers", len(answers))
	return nil
}

// PageStatus kiểm tra trang khảo sát có được trả về cho token hay không,
// phân biệt thiếu token, token lạ và token đã dùng.
func (s *SessionService) PageStatus(ctx context.Context, token string) (PageStatus, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return PageMissingToken, nil
	}
	info, err := s.tokens.Resolve(ctx, token)
	if errors.Is(err, ErrNotFound) {
		return PageUnknownToken, nil
	}
	if err != nil {
		return PageAvailable, err
	}
	if info.Completed {
		return PageAlreadyAnswered, nil
	}
	return PageAvailable, nil
}
