package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/vnkhanh/csat-survey/client"
)

// terminalView hiển thị khảo sát trên terminal.
type terminalView struct {
	out io.Writer
}

func (v *terminalView) ShowWelcome(greeting, privacyURL string) {
	fmt.Fprintln(v.out, "== Encuesta de Satisfacción ==")
	fmt.Fprintln(v.out, greeting)
	fmt.Fprintln(v.out, "Aviso de privacidad:", privacyURL)
	fmt.Fprintln(v.out, "Presione Enter para aceptar.")
}

func (v *terminalView) ShowQuestion(q client.QuestionView) {
	fmt.Fprintf(v.out, "\n[%d/%d] %s\n", q.Index+1, q.Total, q.Question.Prompt)
	if q.Question.IsScale() {
		for i, choice := range q.Question.Choices {
			mark := " "
			if choice == q.Selected {
				mark = "x"
			}
			fmt.Fprintf(v.out, "  (%s) %d. %s\n", mark, i+1, choice)
		}
	} else if q.Text != "" {
		fmt.Fprintf(v.out, "  respuesta actual: %s\n", q.Text)
	}

	cmds := []string{}
	if q.CanPrevious {
		cmds = append(cmds, ":p anterior")
	}
	if q.IsLast {
		cmds = append(cmds, ":e enviar")
	} else {
		cmds = append(cmds, ":n siguiente")
	}
	cmds = append(cmds, ":q salir")
	fmt.Fprintln(v.out, "  "+strings.Join(cmds, "  "))
}

func (v *terminalView) SetBusy(busy bool) {
	if busy {
		fmt.Fprintln(v.out, "Enviando...")
	}
}

func (v *terminalView) Alert(message string) {
	fmt.Fprintln(v.out, message)
}

func (v *terminalView) Redirect(path string) {
	fmt.Fprintln(v.out, "->", path)
}

// run đọc lệnh từ in cho tới khi khảo sát kết thúc hoặc hết input.
func run(ctx context.Context, p *client.PageController, in io.Reader, out io.Writer) error {
	if err := p.Load(ctx); err != nil {
		return err
	}

	scanner := bufio.NewScanner(in)
	if !scanner.Scan() {
		return io.ErrUnexpectedEOF
	}
	if err := p.Accept(); err != nil {
		return err
	}

	for p.State() == client.StateInProgress && scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		var err error
		switch line {
		case "":
			continue
		case ":q":
			return nil
		case ":n":
			err = p.Next()
		case ":p":
			err = p.Previous()
		case ":e":
			err = p.Submit(ctx)
			if errors.Is(err, client.ErrNoAnswers) {
				err = nil
			}
		default:
			err = answer(p, line)
		}
		switch {
		case errors.Is(err, client.ErrUnknownLabel):
			fmt.Fprintln(out, "Opción no válida.")
		case err != nil:
			slog.Debug("command failed", "input", line, "error", err)
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	return nil
}

func answer(p *client.PageController, line string) error {
	if n, err := strconv.Atoi(line); err == nil {
		if err := p.SelectChoiceAt(n - 1); !errors.Is(err, client.ErrNotScale) {
			return err
		}
	}
	err := p.TypeText(line)
	if errors.Is(err, client.ErrNotFreeText) {
		// câu hỏi thang đo: cho phép gõ đúng tên đáp án
		return p.SelectChoice(line)
	}
	return err
}

func main() {
	link := flag.String("link", "", "survey link, e.g. http://localhost:3000/encuesta?token=...")
	flag.Parse()

	u, err := url.Parse(*link)
	if *link == "" || err != nil {
		fmt.Fprintln(os.Stderr, "usage: cli -link <enlace de encuesta>")
		os.Exit(2)
	}
	base := u.Scheme + "://" + u.Host

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	view := &terminalView{out: os.Stdout}
	p := client.NewPageController(client.NewAPIClient(base, nil), view, *link)
	if err := run(ctx, p, os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
