package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"probability-quiz-service/internal/app"
	"probability-quiz-service/internal/config"
	"probability-quiz-service/internal/domain"
	"probability-quiz-service/internal/logging"
)

// NewPlayCmd runs the quiz in the terminal.
func NewPlayCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "play",
		Short: "Take the quiz in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			// a terminal attempt lives as long as the process
			cfg.Quiz.SessionTTL = "0s"
			logger := logging.NewWithWriter(cmd.ErrOrStderr(), "quiz-service", cfg.Log.Env, "warn")
			d, err := buildService(ctx, cfg, logger, "http://localhost:"+cfg.Server.Port+"/", false)
			if err != nil {
				return err
			}
			defer d.Close()
			return runPlay(ctx, d.service, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

func runPlay(ctx context.Context, service *app.QuizService, in io.Reader, out io.Writer) error {
	view, err := service.Start(ctx, "")
	if err != nil {
		return err
	}
	sessionID := view.SessionID
	defer service.End(ctx, sessionID)

	events, cancel, err := service.Subscribe(ctx, sessionID)
	if err != nil {
		return err
	}
	defer cancel()
	<-events

	lines := bufio.NewScanner(in)
	read := func(prompt string) (string, bool) {
		fmt.Fprint(out, prompt)
		if !lines.Scan() {
			fmt.Fprintln(out)
			return "", false
		}
		return strings.TrimSpace(lines.Text()), true
	}

	for {
		if view.Finished {
			printFinal(out, view)
			line, ok := read("Пройти ещё раз — r, выход — q: ")
			if !ok || strings.EqualFold(line, "q") {
				return nil
			}
			if strings.EqualFold(line, "r") {
				if view, err = service.Reset(ctx, sessionID); err != nil {
					return err
				}
				drain(events)
			}
			continue
		}

		printQuestion(out, view)
		if view.Answered {
			label := "следующий вопрос"
			if view.IsLast {
				label = "завершить тест"
			}
			line, ok := read(fmt.Sprintf("Enter — %s, q — выход: ", label))
			if !ok || strings.EqualFold(line, "q") {
				return nil
			}
			if view, err = service.Advance(ctx, sessionID); err != nil {
				return err
			}
			drain(events)
			continue
		}

		line, ok := read(fmt.Sprintf("Ваш ответ (1-%d): ", len(view.Question.Options)))
		if !ok || strings.EqualFold(line, "q") {
			return nil
		}
		choice, err := strconv.Atoi(line)
		if err != nil {
			fmt.Fprintln(out, "Введите номер варианта.")
			continue
		}
		next, _, err := service.SubmitAnswer(ctx, sessionID, choice-1)
		if err != nil {
			fmt.Fprintf(out, "Нет такого варианта: %d\n", choice)
			continue
		}
		view = next
		for _, ev := range drain(events) {
			if ev.Type == app.EventResult {
				printToast(out, ev.Result)
			}
		}
	}
}

// drain empties whatever the session has already published.
func drain(events <-chan app.Event) []app.Event {
	var out []app.Event
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return out
			}
			out = append(out, ev)
		default:
			return out
		}
	}
}

func printQuestion(out io.Writer, v domain.SessionView) {
	q := v.Question
	fmt.Fprintf(out, "\n%s  [%d/%d]\n", v.Title, v.Score, v.TotalQuestions)
	fmt.Fprintf(out, "Вопрос %d из %d  %d%%\n", v.QuestionNumber, v.TotalQuestions, v.ProgressPercent)
	fmt.Fprintf(out, "[%s]\n%s\n", q.Category, q.Prompt)
	for i, option := range q.Options {
		mark := " "
		if v.Answered && q.CorrectAnswer != nil {
			switch {
			case i == *q.CorrectAnswer:
				mark = "✓"
			case v.SelectedAnswer != nil && i == *v.SelectedAnswer:
				mark = "✗"
			}
		}
		fmt.Fprintf(out, "  %s %d) %s\n", mark, i+1, option)
	}
}

func printToast(out io.Writer, r *domain.AnswerResult) {
	if r.Correct {
		fmt.Fprintf(out, "Правильно! %s\n", r.Explanation)
		return
	}
	fmt.Fprintf(out, "Неверно. %s\n", r.Explanation)
}

func printFinal(out io.Writer, v domain.SessionView) {
	fmt.Fprintln(out, "\nТест завершён!")
	fmt.Fprintf(out, "%d/%d\n", v.Score, v.TotalQuestions)
	fmt.Fprintf(out, "Правильных ответов: %d%%\n", v.FinalPercent)
	if v.ShareQR != "" {
		fmt.Fprintf(out, "Поделиться тестом: %s\n", v.ShareQR)
	}
}
