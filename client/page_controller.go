package client

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

const (
	ThanksPage      = "/gracias.html"
	PrivacyURL      = "https://www.otis.com/es/co/politica-de-privacidad/"
	DefaultGreeting = "Estimado Cliente"

	msgMissingToken  = "Token no válido. Acceso denegado."
	msgNoQuestions   = "No se encontraron preguntas."
	msgLoadFailed    = "Ocurrió un error al cargar la encuesta."
	msgNeedAnswer    = "Debe responder al menos una pregunta."
	msgSubmitFailed  = "Hubo un problema guardando las respuestas."
	msgSubmitSuccess = "Respuestas guardadas correctamente."
)

var (
	ErrInvalidState = errors.New("action not allowed in current state")
	ErrNotScale     = errors.New("question has no choices")
	ErrNotFreeText  = errors.New("question expects a choice")
	ErrUnknownLabel = errors.New("label is not one of the question choices")
	ErrNoAnswers    = errors.New("at least one answer is required")
)

type State int

const (
	StateLoading State = iota
	StateWelcome
	StateInProgress
	StateSubmitting
	StateDone
	StateError
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "LOADING"
	case StateWelcome:
		return "WELCOME"
	case StateInProgress:
		return "IN_PROGRESS"
	case StateSubmitting:
		return "SUBMITTING"
	case StateDone:
		return "DONE"
	case StateError:
		return "ERROR"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// QuestionView là dữ liệu View cần để hiển thị câu hỏi hiện tại.
type QuestionView struct {
	Index       int
	Total       int
	Question    Question
	Selected    string // đáp án đã chọn (câu hỏi thang đo)
	Text        string // nội dung đã nhập (câu tự luận)
	CanPrevious bool
	IsLast      bool // Submit thay cho Next
}

type View interface {
	ShowWelcome(greeting, privacyURL string)
	ShowQuestion(q QuestionView)
	SetBusy(busy bool)
	Alert(message string)
	Redirect(path string)
}

// PageController là state machine của trang khảo sát. Không an toàn khi dùng
// song song; trang gọi nó từ một event loop duy nhất.
type PageController struct {
	api   SessionAPI
	view  View
	token string

	state   State
	session Session
	index   int
	answers map[uint]string
}

// NewPageController tạo controller cho trang pageURL; token lấy từ query string.
func NewPageController(api SessionAPI, view View, pageURL string) *PageController {
	var token string
	if u, err := url.Parse(pageURL); err == nil {
		token = strings.TrimSpace(u.Query().Get("token"))
	}
	return &PageController{
		api:     api,
		view:    view,
		token:   token,
		state:   StateLoading,
		answers: make(map[uint]string),
	}
}

func (p *PageController) State() State { return p.state }

func (p *PageController) Index() int { return p.index }

// Answers trả về câu trả lời theo thứ tự câu hỏi.
func (p *PageController) Answers() []Answer {
	out := make([]Answer, 0, len(p.answers))
	for _, q := range p.session.Questions {
		if v, ok := p.answers[q.ID]; ok {
			out = append(out, Answer{QuestionID: q.ID, Response: v})
		}
	}
	return out
}

// Load bắt đầu phiên. Lỗi bất kỳ chuyển sang ERROR và redirect.
func (p *PageController) Load(ctx context.Context) error {
	if p.state != StateLoading {
		return ErrInvalidState
	}
	if p.token == "" {
		p.fail(msgMissingToken)
		return fmt.Errorf("load: %s", msgMissingToken)
	}

	session, err := p.api.BeginSession(ctx, p.token)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			p.fail(apiErr.Message)
		} else {
			p.fail(msgLoadFailed)
		}
		return fmt.Errorf("load: %w", err)
	}
	if len(session.Questions) == 0 {
		p.fail(msgNoQuestions)
		return fmt.Errorf("load: %s", msgNoQuestions)
	}

	p.session = session
	p.state = StateWelcome
	p.view.ShowWelcome(greeting(session.CustomerName), PrivacyURL)
	return nil
}

func greeting(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultGreeting
	}
	return fmt.Sprintf("Esperamos que estés teniendo un gran día %s, su opinión es muy importante para nosotros.", name)
}

// Accept xác nhận lời chào và hiển thị câu hỏi đầu tiên.
func (p *PageController) Accept() error {
	if p.state != StateWelcome {
		return ErrInvalidState
	}
	p.state = StateInProgress
	p.index = 0
	p.render()
	return nil
}

func (p *PageController) SelectChoice(label string) error {
	q, err := p.current()
	if err != nil {
		return err
	}
	if !q.IsScale() {
		return ErrNotScale
	}
	for _, choice := range q.Choices {
		if choice == label {
			p.answers[q.ID] = label
			p.render()
			return nil
		}
	}
	return ErrUnknownLabel
}

// SelectChoiceAt chọn đáp án ở vị trí i (tính từ 0).
func (p *PageController) SelectChoiceAt(i int) error {
	q, err := p.current()
	if err != nil {
		return err
	}
	if !q.IsScale() {
		return ErrNotScale
	}
	if i < 0 || i >= len(q.Choices) {
		return ErrUnknownLabel
	}
	return p.SelectChoice(q.Choices[i])
}

// TypeText lưu nội dung tự luận; chuỗi rỗng thì xoá câu trả lời.
func (p *PageController) TypeText(text string) error {
	q, err := p.current()
	if err != nil {
		return err
	}
	if q.IsScale() {
		return ErrNotFreeText
	}
	if strings.TrimSpace(text) == "" {
		delete(p.answers, q.ID)
		return nil
	}
	p.answers[q.ID] = text
	return nil
}

func (p *PageController) Next() error {
	if p.state != StateInProgress {
		return ErrInvalidState
	}
	if p.index < p.lastIndex() {
		p.index++
	}
	p.render()
	return nil
}

func (p *PageController) Previous() error {
	if p.state != StateInProgress {
		return ErrInvalidState
	}
	if p.index > 0 {
		p.index--
	}
	p.render()
	return nil
}

// Submit gửi câu trả lời. Chỉ cho phép ở câu hỏi cuối.
func (p *PageController) Submit(ctx context.Context) error {
	if p.state != StateInProgress || p.index != p.lastIndex() {
		return ErrInvalidState
	}

	answers := p.Answers()
	if len(answers) == 0 {
		p.view.Alert("❌ " + msgNeedAnswer)
		return ErrNoAnswers
	}

	p.state = StateSubmitting
	p.view.SetBusy(true)

	message, err := p.api.SubmitAnswers(ctx, p.token, answers)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			p.view.Alert("❌ Error: " + apiErr.Message)
		} else {
			p.view.Alert("❌ " + msgSubmitFailed)
		}
		p.state = StateInProgress
		p.index = p.lastIndex()
		p.view.SetBusy(false)
		p.render()
		return fmt.Errorf("submit: %w", err)
	}

	if message == "" {
		message = msgSubmitSuccess
	}
	p.state = StateDone
	p.view.Alert("✅ " + message)
	p.view.Redirect(ThanksPage)
	return nil
}

func (p *PageController) current() (Question, error) {
	if p.state != StateInProgress {
		return Question{}, ErrInvalidState
	}
	return p.session.Questions[p.index], nil
}

func (p *PageController) lastIndex() int {
	return len(p.session.Questions) - 1
}

func (p *PageController) render() {
	q := p.session.Questions[p.index]
	v := QuestionView{
		Index:       p.index,
		Total:       len(p.session.Questions),
		Question:    q,
		CanPrevious: p.index > 0,
		IsLast:      p.index == p.lastIndex(),
	}
	if q.IsScale() {
		v.Selected = p.answers[q.ID]
	} else {
		v.Text = p.answers[q.ID]
	}
	p.view.ShowQuestion(v)
}

func (p *PageController) fail(message string) {
	p.state = StateError
	p.view.Alert("❌ " + message)
	p.view.Redirect(ThanksPage)
}
