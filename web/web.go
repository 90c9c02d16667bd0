// Package web nhúng trang khảo sát và file tĩnh.
package web

import (
	"embed"
	"io/fs"
)

//go:embed static
var files embed.FS

// Static trả về thư mục static làm gốc.
func Static() fs.FS {
	sub, err := fs.Sub(files, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// SurveyPage trả về HTML trang khảo sát.
func SurveyPage() ([]byte, error) {
	return files.ReadFile("static/index.html")
}

// ThanksPage trả về trang cảm ơn sau khi khảo sát kết thúc hoặc không khả dụng.
func ThanksPage() ([]byte, error) {
	return files.ReadFile("static/gracias.html")
}
