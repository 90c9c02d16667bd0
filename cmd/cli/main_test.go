package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/vnkhanh/csat-survey/client"
)

type stubAPI struct {
	submitted []client.Answer
}

func (s *stubAPI) BeginSession(ctx context.Context, token string) (client.Session, error) {
	return client.Session{
		CustomerName: "Ana",
		Questions: []client.Question{
			{ID: 1, Prompt: "Rate us", Choices: []string{"Bad", "OK", "Good"}},
			{ID: 2, Prompt: "Comments"},
		},
	}, nil
}

func (s *stubAPI) SubmitAnswers(ctx context.Context, token string, answers []client.Answer) (string, error) {
	s.submitted = answers
	return "Respuestas guardadas correctamente", nil
}

func TestRun(t *testing.T) {
	api := &stubAPI{}
	var out bytes.Buffer
	p := client.NewPageController(api, &terminalView{out: &out}, "http://localhost:3000/encuesta?token=tok")

	input := strings.Join([]string{
		"",   // chấp nhận
		"9",  // ngoài phạm vi
		"3",  // Good
		":n",
		"10", // câu tự luận nhập số
		":e",
	}, "\n") + "\n"

	if err := run(context.Background(), p, strings.NewReader(input), &out); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if p.State() != client.StateDone {
		t.Fatalf("Expected DONE, got %s\n%s", p.State(), out.String())
	}
	want := []client.Answer{{QuestionID: 1, Response: "Good"}, {QuestionID: 2, Response: "10"}}
	if len(api.submitted) != 2 || api.submitted[0] != want[0] || api.submitted[1] != want[1] {
		t.Errorf("Unexpected submission: %+v", api.submitted)
	}
	if !strings.Contains(out.String(), "Opción no válida.") {
		t.Errorf("Expected invalid choice notice, got:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "Ana") {
		t.Errorf("Expected greeting, got:\n%s", out.String())
	}
}

func TestRunAcceptsChoiceLabel(t *testing.T) {
	api := &stubAPI{}
	var out bytes.Buffer
	p := client.NewPageController(api, &terminalView{out: &out}, "http://localhost:3000/encuesta?token=tok")

	input := strings.Join([]string{"", "Excelente", "OK", ":n", ":e"}, "\n") + "\n"
	if err := run(context.Background(), p, strings.NewReader(input), &out); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if p.State() != client.StateDone {
		t.Fatalf("Expected DONE, got %s\n%s", p.State(), out.String())
	}
	if len(api.submitted) != 1 || api.submitted[0] != (client.Answer{QuestionID: 1, Response: "OK"}) {
		t.Errorf("Unexpected submission: %+v", api.submitted)
	}
	if !strings.Contains(out.String(), "Opción no válida.") {
		t.Errorf("Expected notice for unknown label, got:\n%s", out.String())
	}
}
