package cli

import (
	"github.com/spf13/cobra"
)

func newHistoryCommand(opts *options, sess *session) *cobra.Command {
	var (
		petID string
		limit int
	)

	cmd := &cobra.Command{
		Use:   "history --pet <id>",
		Short: "Show a pet's recorded assessments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			results, err := sess.service.History(cmd.Context(), petID, limit)
			if err != nil {
				return err
			}
			if opts.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), results)
			}
			printHistory(cmd.OutOrStdout(), petID, results)
			return nil
		},
	}

	cmd.Flags().StringVar(&petID, "pet", "", "pet id")
	cmd.Flags().IntVar(&limit, "limit", 0, "number of results (default: all retained)")
	_ = cmd.MarkFlagRequired("pet")
	return cmd
}
