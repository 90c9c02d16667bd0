package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/vnkhanh/csat-survey/config"
	"github.com/vnkhanh/csat-survey/models"
)

// SetupTestDB mở DB SQLite in-memory mới với đủ bảng.
// Một kết nối duy nhất giữ DB in-memory sống và tuần tự hoá các lệnh ghi.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := config.Migrate(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	return db
}

// Logger trả về logger bỏ qua mọi log.
func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func CreateCustomer(t *testing.T, db *gorm.DB, name string) models.Customer {
	t.Helper()

	c := models.Customer{Name: name}
	if err := db.Create(&c).Error; err != nil {
		t.Fatalf("Failed to create test customer: %v", err)
	}
	return c
}

// CreateQuestion thêm câu hỏi; không có choices là câu tự luận.
func CreateQuestion(t *testing.T, db *gorm.DB, id uint, prompt string, choices ...string) models.Question {
	t.Helper()

	q := models.Question{ID: id, Prompt: prompt, Scale: models.JoinScale(choices), Position: int(id)}
	if err := db.Create(&q).Error; err != nil {
		t.Fatalf("Failed to create test question: %v", err)
	}
	return q
}

// CreateToken thêm trực tiếp token khảo sát cho khách hàng.
func CreateToken(t *testing.T, db *gorm.DB, customerID uint, token string, completed bool) models.SurveyToken {
	t.Helper()

	row := models.SurveyToken{CustomerID: customerID, Token: token, Completed: completed}
	if err := db.Create(&row).Error; err != nil {
		t.Fatalf("Failed to create test token: %v", err)
	}
	return row
}

// TokenCompleted đọc cờ respondida của token.
func TokenCompleted(t *testing.T, db *gorm.DB, token string) bool {
	t.Helper()

	var row models.SurveyToken
	if err := db.Where("token = ?", token).First(&row).Error; err != nil {
		t.Fatalf("Failed to load token %q: %v", token, err)
	}
	return row.Completed
}

// CountAnswers đếm số câu trả lời của khách hàng.
func CountAnswers(t *testing.T, db *gorm.DB, customerID uint) int64 {
	t.Helper()

	var n int64
	if err := db.Model(&models.Answer{}).Where("id_cliente = ?", customerID).Count(&n).Error; err != nil {
		t.Fatalf("Failed to count answers: %v", err)
	}
	return n
}

// MakeRequest tạo HTTP request cho test
func MakeRequest(method, path string, body interface{}) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	return req
}

// AssertStatus kiểm tra status code của response
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decode body của response vào struct truyền vào
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
