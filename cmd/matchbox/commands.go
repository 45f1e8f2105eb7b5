package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/agenthands/matchbox/internal/config"
	"github.com/agenthands/matchbox/internal/core"
	"github.com/agenthands/matchbox/internal/core/model"
	"github.com/agenthands/matchbox/internal/core/solver"
)

type options struct {
	seasonPath     string
	configPath     string
	maxAssignments int
	timeout        time.Duration
	verbose        bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "matchbox",
		Short:         "Deduce the remaining perfect-match pairings of a season",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&opts.seasonPath, "season", "s", "", "season file (.json, .yaml or .yml)")
	root.PersistentFlags().StringVar(&opts.configPath, "config", config.Path(), "config file")
	root.PersistentFlags().IntVar(&opts.maxAssignments, "max-assignments", -1, "assignment ceiling, 0 disables it (default from config)")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", 0, "solve timeout (default from config)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log solver progress to stderr")
	_ = root.MarkPersistentFlagRequired("season")

	root.AddCommand(
		reportCmd(opts, "solve", "Enumerate every pairing consistent with the evidence",
			func(r *core.Report) interface{} { return r.Result }),
		reportCmd(opts, "analyze", "Show possible and certain partners per contestant",
			func(r *core.Report) interface{} { return r.Analysis }),
		reportCmd(opts, "probabilities", "Score observed couples by share of solutions",
			func(r *core.Report) interface{} { return r.Probabilities }),
		reportCmd(opts, "report", "Print the full evaluation",
			func(r *core.Report) interface{} { return r }),
	)
	return root
}

func reportCmd(opts *options, use, short string, pick func(*core.Report) interface{}) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := evaluate(cmd.Context(), opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), pick(report))
		},
	}
}

func evaluate(ctx context.Context, opts *options, logOut io.Writer) (*core.Report, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	if opts.maxAssignments >= 0 {
		cfg.Solver.MaxAssignments = opts.maxAssignments
	}
	if opts.timeout > 0 {
		cfg.Solver.Timeout = config.Duration(opts.timeout)
	}

	logger := zap.NewNop()
	if opts.verbose {
		// stdout carries the JSON result, so progress goes to stderr.
		enc := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
		logger = zap.New(zapcore.NewCore(enc, zapcore.AddSync(logOut), zapcore.DebugLevel))
	}

	season, err := loadSeason(opts.seasonPath)
	if err != nil {
		return nil, err
	}

	s := solver.New(solver.WithLogger(logger), solver.WithMaxAssignments(cfg.Solver.MaxAssignments))
	return core.NewEngine(nil, nil, s, cfg.Solver.Timeout.Std(), logger).Evaluate(ctx, season)
}

// loadSeason decodes a season file, choosing YAML or JSON by extension.
func loadSeason(path string) (*model.Season, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read season file: %w", err)
	}
	var season model.Season
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &season)
	default:
		err = json.Unmarshal(data, &season)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse season file %s: %w", path, err)
	}
	return &season, nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
