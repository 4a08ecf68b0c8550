// tripwire replays scripted agent tool-request scenarios against a boundary
// configuration and writes the instrumentation artifacts for analysis.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/triage-ai/tripwire/internal/boundary"
	"github.com/triage-ai/tripwire/internal/scenario"
	"github.com/triage-ai/tripwire/internal/session"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "tripwire",
		Short:         "Policy-enforced tool execution sandbox for agent boundary studies",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newRunCmd())
	root.AddCommand(newBoundariesCmd())
	return root
}

func newRunCmd() *cobra.Command {
	var (
		scenarioPath string
		outDir       string
		boundaryName string
		seed         string
		logLevel     string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Replay a scripted scenario and write run artifacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := mustBuildLogger(logLevel)
			defer logger.Sync() //nolint:errcheck // best-effort flush

			sc, err := scenario.Load(scenarioPath)
			if err != nil {
				return err
			}

			preset := sc.Boundary
			if boundaryName != "" {
				preset = boundaryName
			}
			cfg, err := boundary.Preset(preset)
			if err != nil {
				return err
			}

			if seed == "" {
				seed = sc.Seed
			}

			state := session.NewGameState(sc.Players)
			sess := session.New(cfg, state, seed, logger)

			logger.Info("starting run",
				zap.String("scenario", sc.Name),
				zap.String("boundary", cfg.Name),
				zap.String("run_id", sess.RunID()),
				zap.Int("steps", len(sc.Steps)),
			)

			for i, step := range sc.Steps {
				result, err := sess.HandleToolRequest(step.Caller, step.Phase, step.Turn, step.Tool, step.Args)
				if err != nil {
					return fmt.Errorf("step %d: %w", i, err)
				}
				if !result.Success {
					logger.Debug("step denied",
						zap.Int("step", i),
						zap.String("caller", step.Caller),
						zap.String("tool", step.Tool),
						zap.String("error", result.Error),
					)
				}
			}

			runDir := filepath.Join(outDir, sess.RunID())
			if err := sess.WriteArtifacts(runDir); err != nil {
				return err
			}

			summary := sess.Events().Summary()
			logger.Info("run complete",
				zap.String("dir", runDir),
				zap.Int("tool_attempts", summary.TotalToolAttempts),
				zap.Int("denied", summary.Outcomes.Denied),
				zap.Float64("denial_rate", summary.DenialRate),
				zap.Int("secrets_discovered", summary.SecretsDiscovered),
			)
			return nil
		},
	}

	cmd.Flags().StringVar(&scenarioPath, "scenario", "", "path to the scenario YAML file")
	cmd.Flags().StringVar(&outDir, "out", "runs", "directory to write run artifacts under")
	cmd.Flags().StringVar(&boundaryName, "boundary", "", "override the scenario's boundary preset")
	cmd.Flags().StringVar(&seed, "seed", "", "override the scenario's entropy seed")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	_ = cmd.MarkFlagRequired("scenario")
	return cmd
}

func newBoundariesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "boundaries",
		Short: "List the available boundary presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range boundary.PresetNames() {
				cfg, err := boundary.Preset(name)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(),
					"%-8s roles_table=%-5t private_messages=%-5t redaction=%-5t misroute=%.2f phase_restrictions=%t\n",
					cfg.Name,
					cfg.RolesTableAccessible,
					cfg.PrivateMessagesAccessible,
					cfg.LogRedactionEnabled,
					cfg.MisrouteProbability,
					cfg.EnforcePhaseRestrictions,
				)
			}
			return nil
		},
	}
}

func mustBuildLogger(level string) *zap.Logger {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapLevel)
	logger, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	return logger
}
