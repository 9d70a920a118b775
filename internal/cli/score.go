package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"pawcheck/internal/domain"
	"pawcheck/internal/dto"

	"github.com/spf13/cobra"
)

func newScoreCommand(opts *options, sess *session) *cobra.Command {
	var (
		answersPath string
		petID       string
	)

	cmd := &cobra.Command{
		Use:   "score --answers <file.json>",
		Short: "Score a saved answer file",
		Long: `Score reads answers keyed by question id, either bare or wrapped as
{"answers": {...}}. Use "-" to read stdin. With --pet the result is also
recorded in that pet's history.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			answers, err := readAnswers(cmd.InOrStdin(), answersPath)
			if err != nil {
				return err
			}

			var result *domain.AssessmentResult
			if petID != "" {
				result, err = sess.service.Submit(cmd.Context(), petID, answers)
			} else {
				result, err = sess.service.Evaluate(cmd.Context(), answers)
			}
			if result == nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.jsonOutput {
				if werr := writeJSON(out, result); werr != nil {
					return werr
				}
			} else {
				printResult(out, sess.bank, result)
			}
			// A failed write still prints the computed result first.
			return err
		},
	}

	cmd.Flags().StringVar(&answersPath, "answers", "", "answers JSON file, or - for stdin")
	cmd.Flags().StringVar(&petID, "pet", "", "record the result for this pet")
	_ = cmd.MarkFlagRequired("answers")
	return cmd
}

func readAnswers(stdin io.Reader, path string) (domain.AnswerMap, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read answers: %w", err)
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("parse answers: %w", err)
	}
	if _, wrapped := probe["answers"]; wrapped {
		var req dto.AnswersRequest
		if err := json.Unmarshal(data, &req); err != nil {
			return nil, fmt.Errorf("parse answers: %w", err)
		}
		return req.Answers, nil
	}

	var answers domain.AnswerMap
	if err := json.Unmarshal(data, &answers); err != nil {
		return nil, fmt.Errorf("parse answers: %w", err)
	}
	return answers, nil
}
