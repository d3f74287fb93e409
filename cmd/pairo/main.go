// Package main provides the CLI entrypoint for pairo.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/hanmaum/pairo/internal/config"
	"github.com/hanmaum/pairo/internal/deck"
	"github.com/hanmaum/pairo/internal/model"
	"github.com/hanmaum/pairo/internal/session"
	"github.com/hanmaum/pairo/internal/speech"
	"github.com/hanmaum/pairo/internal/stats"
	"github.com/hanmaum/pairo/internal/store"
	"github.com/hanmaum/pairo/internal/tui"
)

const (
	defaultMatchDelayMs    = 600
	defaultMismatchDelayMs = 1800
	defaultTimeoutSlack    = 1.5
)

var (
	playLevel           string
	playVoice           bool
	playVoiceCommand    string
	playDB              string
	playMatchDelayMs    int
	playMismatchDelayMs int
	playTimeoutSlack    float64

	statsLevel string
	statsLast  int
	statsDB    string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "pairo",
		Short:         "Tile-matching memory game with adaptive difficulty",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPlayCmd,
	}

	rootCmd.Flags().StringVar(&playLevel, "level", "", "difficulty override (easy, medium, hard)")
	rootCmd.Flags().BoolVar(&playVoice, "voice", true, "spoken feedback")
	rootCmd.Flags().StringVar(&playVoiceCommand, "voice-command", "", "external TTS command, phrase appended")
	rootCmd.Flags().StringVar(&playDB, "db", config.DefaultDBPath(), "database path")
	rootCmd.Flags().IntVar(&playMatchDelayMs, "match-delay-ms", defaultMatchDelayMs, "reveal time after a match")
	rootCmd.Flags().IntVar(&playMismatchDelayMs, "mismatch-delay-ms", defaultMismatchDelayMs, "reveal time after a mismatch")
	rootCmd.Flags().Float64Var(&playTimeoutSlack, "timeout-slack", defaultTimeoutSlack, "deadline multiplier over target seconds")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newStatsCmd())

	return rootCmd
}

func runPlayCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "voice-command", &playVoiceCommand, fileCfg.Game.VoiceCommand)
	applyIntConfig(cmd, "match-delay-ms", &playMatchDelayMs, fileCfg.Game.MatchDelayMs)
	applyIntConfig(cmd, "mismatch-delay-ms", &playMismatchDelayMs, fileCfg.Game.MismatchDelayMs)
	applyFloatConfig(cmd, "timeout-slack", &playTimeoutSlack, fileCfg.Game.TimeoutSlack)

	// Level and voice live in the store; flags and config file only
	// override when set explicitly.
	var levelOverride *string
	if cmd.Flags().Changed("level") {
		levelOverride = &playLevel
	} else if fileCfg.Game.Level != nil {
		levelOverride = fileCfg.Game.Level
	}
	var voiceOverride *bool
	if cmd.Flags().Changed("voice") {
		voiceOverride = &playVoice
	} else if fileCfg.Game.Voice != nil {
		voiceOverride = fileCfg.Game.Voice
	}

	if err := validatePlayOptions(levelOverride); err != nil {
		return err
	}

	opts := session.Options{
		MatchDelay:    time.Duration(playMatchDelayMs) * time.Millisecond,
		MismatchDelay: time.Duration(playMismatchDelayMs) * time.Millisecond,
		TimeoutSlack:  playTimeoutSlack,
	}

	// The game stays playable without persistence; it just forgets
	// between runs.
	var sessStore session.Store = session.NullStore{}
	var roundLog session.RoundLog
	st, err := store.Open(playDB)
	if err != nil {
		logErrf("failed to open db, continuing without persistence: %v\n", err)
	} else {
		defer func() {
			if cerr := st.Close(); cerr != nil {
				logErrf("failed to close db: %v\n", cerr)
			}
		}()
		sessStore = st
		roundLog = st
	}

	var announcer session.Announcer = speech.Noop{}
	if c := speech.NewCommand(playVoiceCommand); c != nil {
		announcer = c
	}

	sess, err := session.New(sessStore, roundLog, announcer, deck.New(), opts)
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	if voiceOverride != nil {
		sess.SetVoiceEnabled(*voiceOverride)
	}
	if levelOverride != nil {
		idx, ok := model.LevelIndex(model.Levels(), *levelOverride)
		if !ok {
			return fmt.Errorf("unknown level %q", *levelOverride)
		}
		if err := sess.SetDifficulty(idx); err != nil {
			return fmt.Errorf("failed to set level: %w", err)
		}
	}

	program := tea.NewProgram(tui.NewModel(sess), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show round history",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsLevel, "level", "", "level filter (easy, medium, hard)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N rounds")
	cmd.Flags().StringVar(&statsDB, "db", config.DefaultDBPath(), "database path")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	if statsLevel != "" {
		if _, ok := model.LevelIndex(model.Levels(), statsLevel); !ok {
			return fmt.Errorf("unknown level %q", statsLevel)
		}
	}
	if statsLast < 0 {
		return fmt.Errorf("--last must be >= 0")
	}

	st, err := store.Open(statsDB)
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	rounds, err := st.ListRounds(context.Background(), model.StatsConfig{Level: statsLevel, Last: statsLast})
	if err != nil {
		return fmt.Errorf("failed to list rounds: %w", err)
	}
	return stats.RenderReport(cmd.OutOrStdout(), rounds, model.Levels(), stats.TerminalWidth())
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# pairo configuration
# Uncomment a value to enable it. CLI flags override config values.

[game]
# level = "medium"          # Difficulty override (easy, medium, hard)
# voice = true              # Spoken feedback
# voice-command = "espeak"  # External TTS command, the phrase is appended
# match-delay-ms = %d      # Reveal time after a match
# mismatch-delay-ms = %d  # Reveal time after a mismatch
# timeout-slack = %.1f       # Deadline = target seconds x slack
`,
		defaultMatchDelayMs,
		defaultMismatchDelayMs,
		defaultTimeoutSlack,
	)
}

func validatePlayOptions(levelOverride *string) error {
	if levelOverride != nil {
		if _, ok := model.LevelIndex(model.Levels(), *levelOverride); !ok {
			return fmt.Errorf("unknown level %q (available: easy, medium, hard)", *levelOverride)
		}
	}
	if playMatchDelayMs <= 0 {
		return fmt.Errorf("--match-delay-ms must be > 0")
	}
	if playMismatchDelayMs <= 0 {
		return fmt.Errorf("--mismatch-delay-ms must be > 0")
	}
	if playTimeoutSlack < 1 {
		return fmt.Errorf("--timeout-slack must be >= 1")
	}
	return nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
