package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"pawcheck/internal/domain"
	"pawcheck/internal/flow"

	"github.com/spf13/cobra"
)

// errCancelled ends an interactive session without recording anything.
var errCancelled = errors.New("assessment cancelled, nothing recorded")

func newRunCommand(opts *options, sess *session) *cobra.Command {
	var petID string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Answer the questionnaire interactively",
		Long: `Run asks the visible questions one at a time. Answer yes/no questions
with y or n and frequency questions with 1 (없음), 2 (가끔) or 3 (자주).
Enter :b to go back, :s to skip and :q to quit without saving.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			ctrl := flow.NewController(sess.bank)

			if err := interview(cmd, ctrl, bufio.NewScanner(cmd.InOrStdin()), out); err != nil {
				if errors.Is(err, errCancelled) {
					fmt.Fprintln(out, err.Error())
					return nil
				}
				return err
			}

			answers := ctrl.VisibleAnswers()
			var (
				result *domain.AssessmentResult
				err    error
			)
			if petID != "" {
				result, err = sess.service.Submit(cmd.Context(), petID, answers)
			} else {
				result, err = sess.service.Evaluate(cmd.Context(), answers)
			}
			if result == nil {
				return err
			}

			fmt.Fprintln(out)
			if opts.jsonOutput {
				if werr := writeJSON(out, result); werr != nil {
					return werr
				}
			} else {
				printResult(out, sess.bank, result)
			}
			if err == nil && petID != "" {
				fmt.Fprintf(out, "\nSaved to %s's history.\n", petID)
			}
			return err
		},
	}

	cmd.Flags().StringVar(&petID, "pet", "", "record the result for this pet")
	return cmd
}

// interview drives ctrl until it is terminal. End of input or a cancelled
// context returns errCancelled.
func interview(cmd *cobra.Command, ctrl *flow.Controller, in *bufio.Scanner, out io.Writer) error {
	for !ctrl.Terminal() {
		if err := cmd.Context().Err(); err != nil {
			return errCancelled
		}
		q, ok := ctrl.Current()
		if !ok {
			return nil
		}

		pos, total := ctrl.Progress()
		fmt.Fprintf(out, "\n[%d/%d] %s\n", pos, total, q.Text)
		fmt.Fprintf(out, "  %s > ", prompt(q))

		if !in.Scan() {
			return errCancelled
		}
		line := strings.TrimSpace(in.Text())

		switch line {
		case "":
			continue
		case ":q":
			return errCancelled
		case ":b":
			ctrl.Prev()
			continue
		case ":s":
			if err := ctrl.Skip(); err != nil {
				return err
			}
			continue
		}

		answer, err := parseAnswer(q, line)
		if err != nil {
			fmt.Fprintf(out, "  %v\n", err)
			continue
		}
		if err := ctrl.Answer(answer); err != nil {
			fmt.Fprintf(out, "  %v\n", err)
			continue
		}
		if err := ctrl.Next(); err != nil {
			return err
		}
	}
	return nil
}

func prompt(q domain.Question) string {
	switch q.Type {
	case domain.QuestionTypeBool:
		return "y/n"
	case domain.QuestionTypeChoice:
		labels := make([]string, len(domain.Choices))
		for i, c := range domain.Choices {
			labels[i] = fmt.Sprintf("%d %s", i+1, c)
		}
		return strings.Join(labels, " / ")
	}
	return ":s"
}

func parseAnswer(q domain.Question, line string) (domain.Answer, error) {
	switch q.Type {
	case domain.QuestionTypeBool:
		switch strings.ToLower(line) {
		case "y", "yes", "예", "네", "true":
			return domain.BoolAnswer(true), nil
		case "n", "no", "아니오", "아니요", "false":
			return domain.BoolAnswer(false), nil
		}
		return domain.Answer{}, fmt.Errorf("answer y or n")
	case domain.QuestionTypeChoice:
		if n, err := strconv.Atoi(line); err == nil && n >= 1 && n <= len(domain.Choices) {
			return domain.ChoiceAnswer(domain.Choices[n-1]), nil
		}
		if c := domain.Choice(line); c.Valid() {
			return domain.ChoiceAnswer(c), nil
		}
		return domain.Answer{}, fmt.Errorf("answer 1-%d", len(domain.Choices))
	}
	return domain.Answer{}, fmt.Errorf("this question cannot be answered, enter :s to skip")
}
