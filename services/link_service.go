package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/vnkhanh/csat-survey/utils"
)

// Link là link khảo sát đã tạo cho một khách hàng.
type Link struct {
	CustomerID uint   `json:"id_cliente"`
	URL        string `json:"enlace"`
}

// LinkService tạo token hàng loạt cho khách hàng chưa có.
type LinkService struct {
	tokens  *TokenStore
	baseURL string
	log     *slog.Logger
}

func NewLinkService(tokens *TokenStore, baseURL string, log *slog.Logger) *LinkService {
	return &LinkService{tokens: tokens, baseURL: baseURL, log: log}
}

func (s *LinkService) GenerateLinks(ctx context.Context) ([]Link, error) {
	customers, err := s.tokens.CustomersWithoutToken(ctx)
	if err != nil {
		return nil, err
	}
	if len(customers) == 0 {
		return nil, ErrNoPendingCustomers
	}

	links := make([]Link, 0, len(customers))
	for _, c := range customers {
		token, err := s.tokens.Generate(ctx, c.ID)
		if errors.Is(err, ErrDuplicate) {
			// một lần chạy song song đã tạo trước
			s.log.Warn("skipping customer with existing token", "customer_id", c.ID)
			continue
		}
		if err != nil {
			return nil, err
		}
		links = append(links, Link{CustomerID: c.ID, URL: utils.SurveyLink(s.baseURL, token)})
	}
	if len(links) == 0 {
		return nil, ErrNoPendingCustomers
	}

	s.log.Info("survey links generated", "count", len(links))
	return links, nil
}
