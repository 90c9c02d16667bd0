package controllers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vnkhanh/csat-survey/services"
	"github.com/vnkhanh/csat-survey/testutil"
)

func setupSurveyRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.SetupTestDB(t)
	log := testutil.Logger()
	tokens := services.NewTokenStore(db, log)
	catalog := services.NewQuestionCatalog(db, log)
	session := services.NewSessionService(db, tokens, catalog, services.NewAnswerRecorder(db), log)
	h := NewSurveyController(session, catalog, log)

	r := gin.New()
	r.GET("/encuesta", h.SurveyPage)
	r.GET("/api/validar-token", h.ValidateToken)
	r.GET("/api/sesion", h.GetSession)
	r.GET("/api/preguntas", h.GetQuestions)
	r.POST("/api/guardar-respuesta", h.SubmitAnswers)
	return r, db
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGetSession(t *testing.T) {
	r, db := setupSurveyRouter(t)
	ana := testutil.CreateCustomer(t, db, "Ana")
	testutil.CreateToken(t, db, ana.ID, "tok-ana", false)
	testutil.CreateQuestion(t, db, 1, "¿Cómo calificaría el servicio?", "Malo", "Regular", "Bueno")
	testutil.CreateQuestion(t, db, 2, "Comentarios")

	w := serve(r, testutil.MakeRequest("GET", "/api/sesion?token=tok-ana", nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp SessionResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.CustomerID != ana.ID || resp.CustomerName != "Ana" {
		t.Errorf("Unexpected customer: %+v", resp)
	}
	if len(resp.Questions) != 2 {
		t.Fatalf("Expected 2 questions, got %d", len(resp.Questions))
	}
	scale := resp.Questions[0]
	if scale.Scale == nil || *scale.Scale != "Malo,Regular,Bueno" || len(scale.Choices) != 3 {
		t.Errorf("Unexpected scale question: %+v", scale)
	}
	free := resp.Questions[1]
	if free.Scale != nil || len(free.Choices) != 0 {
		t.Errorf("Expected free-text question, got %+v", free)
	}
}

func TestGetSession_Unavailable(t *testing.T) {
	r, db := setupSurveyRouter(t)
	c := testutil.CreateCustomer(t, db, "Luis")
	testutil.CreateToken(t, db, c.ID, "used", true)
	testutil.CreateQuestion(t, db, 1, "Comentarios")

	tests := []struct {
		name string
		path string
	}{
		{"missing token", "/api/sesion"},
		{"unknown token", "/api/sesion?token=nope"},
		{"already answered", "/api/sesion?token=used"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(r, testutil.MakeRequest("GET", tt.path, nil))
			testutil.AssertStatus(t, w, http.StatusBadRequest)

			var resp map[string]string
			testutil.AssertJSON(t, w, &resp)
			if resp["error"] != msgSessionUnavailable {
				t.Errorf("Expected %q, got %q", msgSessionUnavailable, resp["error"])
			}
		})
	}
}

func TestGetSession_EmptyCatalog(t *testing.T) {
	r, db := setupSurveyRouter(t)
	c := testutil.CreateCustomer(t, db, "Ana")
	testutil.CreateToken(t, db, c.ID, "tok", false)

	w := serve(r, testutil.MakeRequest("GET", "/api/sesion?token=tok", nil))
	testutil.AssertStatus(t, w, http.StatusBadRequest)
}

func TestValidateToken(t *testing.T) {
	r, db := setupSurveyRouter(t)
	c := testutil.CreateCustomer(t, db, "Marta")
	testutil.CreateToken(t, db, c.ID, "tok-marta", false)

	w := serve(r, testutil.MakeRequest("GET", "/api/validar-token?token=tok-marta", nil))
	testutil.AssertStatus(t, w, http.StatusOK)
	var resp struct {
		ID   uint   `json:"id_cliente"`
		Name string `json:"nombre_cliente"`
	}
	testutil.AssertJSON(t, w, &resp)
	if resp.ID != c.ID || resp.Name != "Marta" {
		t.Errorf("Unexpected response: %+v", resp)
	}

	w = serve(r, testutil.MakeRequest("GET", "/api/validar-token", nil))
	testutil.AssertStatus(t, w, http.StatusBadRequest)

	w = serve(r, testutil.MakeRequest("GET", "/api/validar-token?token=otro", nil))
	testutil.AssertStatus(t, w, http.StatusBadRequest)
}

func TestGetQuestions(t *testing.T) {
	r, db := setupSurveyRouter(t)

	w := serve(r, testutil.MakeRequest("GET", "/api/preguntas", nil))
	testutil.AssertStatus(t, w, http.StatusNotFound)
	var errResp map[string]string
	testutil.AssertJSON(t, w, &errResp)
	if errResp["error"] != msgNoQuestions {
		t.Errorf("Expected %q, got %q", msgNoQuestions, errResp["error"])
	}

	testutil.CreateQuestion(t, db, 2, "Comentarios")
	testutil.CreateQuestion(t, db, 1, "Calificación", "1", "2", "3")

	w = serve(r, testutil.MakeRequest("GET", "/api/preguntas", nil))
	testutil.AssertStatus(t, w, http.StatusOK)
	var questions []QuestionResponse
	testutil.AssertJSON(t, w, &questions)
	if len(questions) != 2 || questions[0].ID != 1 || questions[1].ID != 2 {
		t.Errorf("Expected questions ordered by position, got %+v", questions)
	}
}

func TestSubmitAnswers(t *testing.T) {
	r, db := setupSurveyRouter(t)
	c := testutil.CreateCustomer(t, db, "Ana")
	testutil.CreateToken(t, db, c.ID, "tok-ana", false)
	testutil.CreateQuestion(t, db, 1, "Calificación", "Malo", "Bueno")
	testutil.CreateQuestion(t, db, 2, "Comentarios")

	body := SubmitRequest{
		Token: "tok-ana",
		Answers: []services.AnswerInput{
			{QuestionID: 1, Response: "Bueno"},
			{QuestionID: 2, Response: "Todo bien"},
		},
	}

	w := serve(r, testutil.MakeRequest("POST", "/api/guardar-respuesta", body))
	testutil.AssertStatus(t, w, http.StatusOK)
	if !testutil.TokenCompleted(t, db, "tok-ana") {
		t.Error("Expected token to be marked as answered")
	}
	if n := testutil.CountAnswers(t, db, c.ID); n != 2 {
		t.Errorf("Expected 2 answers, got %d", n)
	}

	// Lần gửi thứ hai phải bị từ chối
	w = serve(r, testutil.MakeRequest("POST", "/api/guardar-respuesta", body))
	testutil.AssertStatus(t, w, http.StatusBadRequest)
	var resp map[string]string
	testutil.AssertJSON(t, w, &resp)
	if resp["error"] != msgSessionUnavailable {
		t.Errorf("Expected %q, got %q", msgSessionUnavailable, resp["error"])
	}
	if n := testutil.CountAnswers(t, db, c.ID); n != 2 {
		t.Errorf("Expected answers unchanged, got %d", n)
	}
}

func TestSubmitAnswers_Invalid(t *testing.T) {
	r, db := setupSurveyRouter(t)
	c := testutil.CreateCustomer(t, db, "Ana")
	testutil.CreateToken(t, db, c.ID, "tok-ana", false)

	tests := []struct {
		name string
		body interface{}
	}{
		{"no answers", SubmitRequest{Token: "tok-ana"}},
		{"no token", SubmitRequest{Answers: []services.AnswerInput{{QuestionID: 1, Response: "x"}}}},
		{"wrong shape", map[string]interface{}{"token": 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(r, testutil.MakeRequest("POST", "/api/guardar-respuesta", tt.body))
			testutil.AssertStatus(t, w, http.StatusBadRequest)

			var resp map[string]string
			testutil.AssertJSON(t, w, &resp)
			if resp["error"] != msgIncompleteData {
				t.Errorf("Expected %q, got %q", msgIncompleteData, resp["error"])
			}
		})
	}

	if testutil.TokenCompleted(t, db, "tok-ana") {
		t.Error("Token must stay active after rejected submissions")
	}
}

func TestSurveyPage(t *testing.T) {
	r, db := setupSurveyRouter(t)
	c1 := testutil.CreateCustomer(t, db, "Ana")
	c2 := testutil.CreateCustomer(t, db, "Luis")
	testutil.CreateToken(t, db, c1.ID, "active", false)
	testutil.CreateToken(t, db, c2.ID, "used", true)

	tests := []struct {
		name     string
		path     string
		status   int
		contains string
	}{
		{"missing token", "/encuesta", http.StatusBadRequest, "Token requerido"},
		{"unknown token", "/encuesta?token=nope", http.StatusNotFound, "Token inválido"},
		{"already answered", "/encuesta?token=used", http.StatusBadRequest, "Encuesta ya respondida"},
		{"active token", "/encuesta?token=active", http.StatusOK, "survey-form"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(r, testutil.MakeRequest("GET", tt.path, nil))
			testutil.AssertStatus(t, w, tt.status)
			if !strings.Contains(w.Body.String(), tt.contains) {
				t.Errorf("Expected body to contain %q, got %q", tt.contains, w.Body.String())
			}
		})
	}
}
