package services

import (
	"context"
	"errors"
	"testing"

	"github.com/vnkhanh/csat-survey/models"
	"github.com/vnkhanh/csat-survey/testutil"
)

func TestQuestionCatalogEmpty(t *testing.T) {
	db := testutil.SetupTestDB(t)
	catalog := NewQuestionCatalog(db, testutil.Logger())

	if _, err := catalog.List(context.Background()); !errors.Is(err, ErrEmptyCatalog) {
		t.Errorf("Expected ErrEmptyCatalog, got %v", err)
	}
}

func TestQuestionCatalogOrder(t *testing.T) {
	db := testutil.SetupTestDB(t)
	catalog := NewQuestionCatalog(db, testutil.Logger())

	// orden được ưu tiên hơn id
	for _, q := range []models.Question{
		{ID: 1, Prompt: "Tercera", Position: 3},
		{ID: 2, Prompt: "Primera", Position: 1, Scale: "Malo, Regular ,Bueno"},
		{ID: 3, Prompt: "Segunda", Position: 2},
	} {
		if err := db.Create(&q).Error; err != nil {
			t.Fatalf("Failed to create question: %v", err)
		}
	}

	questions, err := catalog.List(context.Background())
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	var prompts []string
	for _, q := range questions {
		prompts = append(prompts, q.Prompt)
	}
	want := []string{"Primera", "Segunda", "Tercera"}
	for i := range want {
		if prompts[i] != want[i] {
			t.Fatalf("Expected order %v, got %v", want, prompts)
		}
	}

	choices := questions[0].Choices()
	if len(choices) != 3 || choices[0] != "Malo" || choices[1] != "Regular" || choices[2] != "Bueno" {
		t.Errorf("Unexpected choices: %q", choices)
	}
	if questions[1].IsScale() {
		t.Error("Expected free-text question")
	}
}
