// Package client điều khiển phiên khảo sát bên ngoài trình duyệt.
// PageController giữ state machine của trang và chỉ gọi server qua SessionAPI.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

type Question struct {
	ID      uint     `json:"id_pregunta"`
	Prompt  string   `json:"texto_pregunta"`
	Choices []string `json:"opciones"`
}

// IsScale cho biết câu hỏi trả lời bằng cách chọn đáp án.
func (q Question) IsScale() bool { return len(q.Choices) > 0 }

type Session struct {
	CustomerID   uint       `json:"id_cliente"`
	CustomerName string     `json:"nombre_cliente"`
	Questions    []Question `json:"preguntas"`
}

type Answer struct {
	QuestionID uint   `json:"id_pregunta"`
	Response   string `json:"respuesta"`
}

// SessionAPI là phần API server mà PageController cần.
type SessionAPI interface {
	BeginSession(ctx context.Context, token string) (Session, error)
	SubmitAnswers(ctx context.Context, token string, answers []Answer) (string, error)
}

// APIError giữ nguyên thông điệp {error} của server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// APIClient cài đặt SessionAPI qua HTTP API khảo sát.
type APIClient struct {
	baseURL string
	http    *http.Client
}

func NewAPIClient(baseURL string, httpClient *http.Client) *APIClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &APIClient{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

func (c *APIClient) BeginSession(ctx context.Context, token string) (Session, error) {
	endpoint := c.baseURL + "/api/sesion?token=" + url.QueryEscape(token)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Session{}, err
	}

	var session Session
	if err := c.do(req, &session); err != nil {
		return Session{}, err
	}
	return session, nil
}

func (c *APIClient) SubmitAnswers(ctx context.Context, token string, answers []Answer) (string, error) {
	body, err := json.Marshal(struct {
		Token   string   `json:"token"`
		Answers []Answer `json:"respuestas"`
	}{token, answers})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/guardar-respuesta", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	var resp struct {
		Message string `json:"message"`
	}
	if err := c.do(req, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

func (c *APIClient) do(req *http.Request, out interface{}) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var body struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body.Error == "" {
			body.Error = http.StatusText(resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Message: body.Error}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", req.URL.Path, err)
	}
	return nil
}
