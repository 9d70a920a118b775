// Package cli implements the assess command line tool. It drives the same
// service as the HTTP API with a file-backed history.
package cli

import (
	"fmt"
	"io"

	"pawcheck/internal/config"
	"pawcheck/internal/domain"
	"pawcheck/internal/filestore"
	"pawcheck/internal/logger"
	"pawcheck/internal/questionbank"
	"pawcheck/internal/service"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type options struct {
	configPath  string
	bankPath    string
	historyFile string
	retention   int
	verbose     bool
	jsonOutput  bool
}

// session is built once per invocation by the root PersistentPreRunE.
type session struct {
	bank    *domain.QuestionBank
	service service.AssessmentService
}

// NewRootCommand creates the assess root command.
func NewRootCommand() *cobra.Command {
	opts := &options{}
	sess := &session{}

	cmd := &cobra.Command{
		Use:   "assess",
		Short: "Dog health self-assessment",
		Long: `assess walks through the health questionnaire, scores the answers per
body system, lists suspected conditions and keeps a short history per pet
in a local JSON file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return sess.open(opts, cmd.ErrOrStderr())
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "config file (default: ./config.yaml or ./config/config.yaml)")
	flags.StringVar(&opts.bankPath, "bank", "", "question bank JSON (default: embedded bank)")
	flags.StringVar(&opts.historyFile, "history-file", "", "history file (default: assessment.history_file)")
	flags.IntVar(&opts.retention, "retention", 0, "results kept per pet (default: assessment.history_limit)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log to stderr")
	flags.BoolVar(&opts.jsonOutput, "json", false, "print JSON instead of text")

	cmd.AddCommand(
		newQuestionsCommand(opts, sess),
		newScoreCommand(opts, sess),
		newHistoryCommand(opts, sess),
		newRunCommand(opts, sess),
	)
	return cmd
}

func (s *session) open(opts *options, logOut io.Writer) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	if opts.verbose {
		cfg.Logger.Level = "debug"
		if err := logger.InitializeTo(cfg.Logger, logOut); err != nil {
			return err
		}
	}

	bankPath := cfg.Assessment.BankPath
	if opts.bankPath != "" {
		bankPath = opts.bankPath
	}
	if bankPath == "" {
		s.bank, err = questionbank.Default()
	} else {
		s.bank, err = questionbank.Load(bankPath)
	}
	if err != nil {
		return fmt.Errorf("load question bank: %w", err)
	}

	historyFile := cfg.Assessment.HistoryFile
	if opts.historyFile != "" {
		historyFile = opts.historyFile
	}
	retention := cfg.Assessment.HistoryLimit
	if opts.retention > 0 {
		retention = opts.retention
	}

	recorder := filestore.NewRecorder(historyFile, retention)
	s.service = service.NewAssessmentService(s.bank, recorder, nil, retention)
	logger.Get().Debug("Session ready",
		zap.String("bank_version", s.bank.Version),
		zap.String("history_file", recorder.Path()),
		zap.Int("retention", retention),
	)
	return nil
}
