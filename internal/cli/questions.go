package cli

import (
	"fmt"
	"strings"

	"pawcheck/internal/domain"

	"github.com/spf13/cobra"
)

func newQuestionsCommand(opts *options, sess *session) *cobra.Command {
	return &cobra.Command{
		Use:   "questions",
		Short: "List the question bank",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if opts.jsonOutput {
				return writeJSON(out, sess.bank)
			}

			fmt.Fprintf(out, "Question bank %s, %d questions\n", sess.bank.Version, len(sess.bank.Questions))
			for _, q := range sess.bank.Questions {
				flag := " "
				if q.RedFlag {
					flag = "!"
				}
				fmt.Fprintf(out, "%s %-24s %-6s w=%-4g [%s] %s\n", flag, q.ID, q.Type, q.Weight, joinTags(q.Tags), q.Text)
				if q.ShowIf != nil {
					fmt.Fprintf(out, "  %24s shown if %s\n", "", describeCondition(q.ShowIf))
				}
			}
			return nil
		},
	}
}

func joinTags(tags []domain.Category) string {
	parts := make([]string, len(tags))
	for i, t := range tags {
		parts[i] = string(t)
	}
	return strings.Join(parts, ",")
}

func describeCondition(c *domain.Condition) string {
	describe := func(rules []domain.Rule, sep string) string {
		parts := make([]string, len(rules))
		for i, r := range rules {
			parts[i] = fmt.Sprintf("%s = %s", r.QuestionID, r.Is)
		}
		return strings.Join(parts, sep)
	}
	var out []string
	if len(c.Any) > 0 {
		out = append(out, "("+describe(c.Any, " or ")+")")
	}
	if len(c.All) > 0 {
		out = append(out, "("+describe(c.All, " and ")+")")
	}
	if len(out) == 0 {
		return "always"
	}
	return strings.Join(out, " and ")
}
