package utils

import (
	"strings"

	"github.com/google/uuid"
)

// GenerateSurveyToken trả về 32 ký tự hex ngẫu nhiên (UUID v4 bỏ dấu gạch).
func GenerateSurveyToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// SurveyLink ghép link khảo sát gửi cho khách hàng.
func SurveyLink(baseURL, token string) string {
	return strings.TrimRight(baseURL, "/") + "/encuesta?token=" + token
}
