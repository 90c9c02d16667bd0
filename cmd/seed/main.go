package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/vnkhanh/csat-survey/config"
	"github.com/vnkhanh/csat-survey/models"
)

type seedOptions struct {
	file  string
	reset bool
}

type seedQuestion struct {
	Prompt  string   `json:"texto_pregunta"`
	Choices []string `json:"opciones"`
}

type seedData struct {
	Customers []string       `json:"clientes"`
	Questions []seedQuestion `json:"preguntas"`
}

var defaultData = seedData{
	Customers: []string{"Constructora Andina S.A.S.", "Edificio Torre Norte", "Centro Comercial El Prado"},
	Questions: []seedQuestion{
		{Prompt: "¿Qué tan satisfecho está con el servicio de mantenimiento?", Choices: []string{"Muy insatisfecho", "Insatisfecho", "Neutral", "Satisfecho", "Muy satisfecho"}},
		{Prompt: "¿El técnico llegó en el horario acordado?", Choices: []string{"Sí", "No"}},
		{Prompt: "¿Qué tan probable es que nos recomiende?", Choices: []string{"0", "1", "2", "3", "4", "5", "6", "7", "8", "9", "10"}},
		{Prompt: "¿Tiene algún comentario adicional?"},
	},
}

func parseFlags() seedOptions {
	var opts seedOptions
	flag.StringVar(&opts.file, "file", "", "JSON file with clientes and preguntas (defaults to a built-in sample)")
	flag.BoolVar(&opts.reset, "reset", false, "delete existing survey data before seeding")
	flag.Parse()
	return opts
}

func loadData(path string) (seedData, error) {
	if path == "" {
		return defaultData, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return seedData{}, fmt.Errorf("read seed file: %w", err)
	}
	var data seedData
	if err := json.Unmarshal(raw, &data); err != nil {
		return seedData{}, fmt.Errorf("parse seed file: %w", err)
	}
	if err := validate(data); err != nil {
		return seedData{}, err
	}
	return data, nil
}

// validate chặn đáp án chứa dấu phẩy vì escala_respuesta lưu dạng "a,b,c".
func validate(data seedData) error {
	for _, q := range data.Questions {
		if strings.TrimSpace(q.Prompt) == "" {
			return errors.New("question with empty texto_pregunta")
		}
		for _, choice := range q.Choices {
			if strings.TrimSpace(choice) == "" {
				return fmt.Errorf("question %q: empty choice", q.Prompt)
			}
			if strings.Contains(choice, ",") {
				return fmt.Errorf("question %q: choice %q must not contain a comma", q.Prompt, choice)
			}
		}
	}
	return nil
}

// apply ghi dữ liệu seed trong một transaction. Câu hỏi mới được đánh số
// tiếp theo orden lớn nhất hiện có.
func apply(ctx context.Context, db *gorm.DB, data seedData, reset bool) error {
	if err := validate(data); err != nil {
		return err
	}
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if reset {
			for _, model := range []interface{}{&models.Answer{}, &models.SurveyToken{}, &models.Question{}, &models.Customer{}} {
				if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
					return fmt.Errorf("reset: %w", err)
				}
			}
		}

		for _, name := range data.Customers {
			if err := tx.Create(&models.Customer{Name: name}).Error; err != nil {
				return fmt.Errorf("create customer %q: %w", name, err)
			}
		}

		var maxPos int
		if err := tx.Model(&models.Question{}).Select("COALESCE(MAX(orden), 0)").Scan(&maxPos).Error; err != nil {
			return fmt.Errorf("read question order: %w", err)
		}
		for i, q := range data.Questions {
			row := models.Question{Prompt: q.Prompt, Scale: models.JoinScale(q.Choices), Position: maxPos + i + 1}
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("create question %q: %w", q.Prompt, err)
			}
		}
		return nil
	})
}

func main() {
	opts := parseFlags()
	cfg := config.Load()
	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))

	data, err := loadData(opts.file)
	if err != nil {
		log.Error("seed data unavailable", "error", err)
		os.Exit(1)
	}

	db, err := config.ConnectDB(cfg.Database, log)
	if err != nil {
		log.Error("database connection failed", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	if err := apply(ctx, db, data, opts.reset); err != nil {
		log.Error("seeding failed", "error", err)
		os.Exit(1)
	}
	log.Info("seed completed", "customers", len(data.Customers), "questions", len(data.Questions), "reset", opts.reset)
}
