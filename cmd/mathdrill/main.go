// Package main provides the CLI entrypoint for mathdrill.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/mathdrill/internal/adaptive"
	"github.com/verte-zerg/mathdrill/internal/config"
	"github.com/verte-zerg/mathdrill/internal/console"
	"github.com/verte-zerg/mathdrill/internal/model"
	"github.com/verte-zerg/mathdrill/internal/puzzle"
	"github.com/verte-zerg/mathdrill/internal/session"
	"github.com/verte-zerg/mathdrill/internal/stats"
	"github.com/verte-zerg/mathdrill/internal/store"
	"github.com/verte-zerg/mathdrill/internal/tui"
)

const (
	defaultMinAttempts = 2
	defaultCurveWindow = 5
	defaultReportWidth = 80
	defaultDifficulty  = "easy"
	defaultEditor      = "vi"
	sinceLayout        = "2006-01-02"
	interruptedMessage = "Session interrupted by user."
)

var (
	practiceName        string
	practiceDifficulty  string
	practicePuzzles     int
	practiceWindow      int
	practiceHigh        float64
	practiceLow         float64
	practiceMinAttempts int
	practiceSeed        int64
	practicePlain       bool
	practiceNoSave      bool

	statsName        string
	statsSince       string
	statsLast        int
	statsCurveWindow int
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "mathdrill",
		Short:         "Adaptive arithmetic practice",
		SilenceUsage:  true,
		SilenceErrors: false,
		Args:          cobra.NoArgs,
		RunE:          runPracticeCmd,
	}

	rootCmd.Flags().StringVar(&practiceName, "name", "", "learner name (prompted when unset)")
	rootCmd.Flags().StringVar(&practiceDifficulty, "difficulty", defaultDifficulty, "starting difficulty: easy|medium|hard|1|2|3 (prompted when unset)")
	rootCmd.Flags().IntVar(&practicePuzzles, "puzzles", session.DefaultPuzzles, "number of puzzles per session")
	rootCmd.Flags().IntVar(&practiceWindow, "window", session.DefaultWindow, "number of recent attempts used for adaptation")
	rootCmd.Flags().Float64Var(&practiceHigh, "high", adaptive.DefaultHighAccuracy, "accuracy percent that moves difficulty up")
	rootCmd.Flags().Float64Var(&practiceLow, "low", adaptive.DefaultLowAccuracy, "accuracy percent that moves difficulty down")
	rootCmd.Flags().IntVar(&practiceMinAttempts, "min-attempts", defaultMinAttempts, "attempts required before adapting")
	rootCmd.Flags().Int64Var(&practiceSeed, "seed", 0, "puzzle generator seed (0 = clock)")
	rootCmd.Flags().BoolVar(&practicePlain, "plain", false, "use the line-oriented console instead of the TUI")
	rootCmd.Flags().BoolVar(&practiceNoSave, "no-save", false, "do not store the session")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newStatsCmd())

	return rootCmd
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "name", &practiceName, fileCfg.Practice.Name)
	applyStringConfig(cmd, "difficulty", &practiceDifficulty, fileCfg.Practice.Difficulty)
	applyIntConfig(cmd, "puzzles", &practicePuzzles, fileCfg.Practice.Puzzles)
	applyIntConfig(cmd, "window", &practiceWindow, fileCfg.Practice.Window)
	applyInt64Config(cmd, "seed", &practiceSeed, fileCfg.Practice.Seed)
	applyBoolConfig(cmd, "plain", &practicePlain, fileCfg.Practice.Plain)
	applyBoolConfig(cmd, "no-save", &practiceNoSave, fileCfg.Practice.NoSave)
	applyFloatConfig(cmd, "high", &practiceHigh, fileCfg.Adaptation.High)
	applyFloatConfig(cmd, "low", &practiceLow, fileCfg.Adaptation.Low)
	applyIntConfig(cmd, "min-attempts", &practiceMinAttempts, fileCfg.Adaptation.MinAttempts)

	difficulty, err := model.ParseDifficulty(practiceDifficulty)
	if err != nil {
		return fmt.Errorf("invalid --difficulty value: %w", err)
	}
	cfg := model.Config{
		Name:        strings.TrimSpace(practiceName),
		Difficulty:  difficulty,
		Puzzles:     practicePuzzles,
		Window:      practiceWindow,
		HighAcc:     practiceHigh,
		LowAcc:      practiceLow,
		MinAttempts: practiceMinAttempts,
		Seed:        practiceSeed,
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}

	opts := session.Options{
		Config:        cfg,
		AskName:       cfg.Name == "" && fileCfg.Practice.Name == nil,
		AskDifficulty: !cmd.Flags().Changed("difficulty") && fileCfg.Practice.Difficulty == nil,
		Source:        newSource(cfg.Seed),
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	var sess *session.Session
	if practicePlain || !term.IsTerminal(int(os.Stdin.Fd())) {
		sess, err = console.New(cmd.InOrStdin(), cmd.OutOrStdout()).Run(ctx, opts)
	} else {
		sess, err = runTUI(cmd.OutOrStdout(), opts)
	}
	if errors.Is(err, console.ErrInputClosed) {
		logErrln("input closed before the session started")
		return nil
	}
	if sess == nil {
		return err
	}
	if err != nil {
		logErrf("%v\n", err)
	}
	if practiceNoSave || len(sess.Records()) == 0 {
		return nil
	}
	saveSession(ctx, sess)
	return nil
}

func newSource(seed int64) session.Source {
	if seed == 0 {
		return puzzle.New()
	}
	return puzzle.NewSeeded(seed)
}

func runTUI(out io.Writer, opts session.Options) (*session.Session, error) {
	m := tui.NewModel(opts)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return nil, fmt.Errorf("failed to run TUI: %w", err)
	}
	if err := m.Err(); err != nil {
		return nil, err
	}
	sess := m.Session()
	if sess == nil {
		return nil, nil
	}
	if m.Interrupted() {
		if _, err := fmt.Fprintf(out, "\n%s\n", interruptedMessage); err != nil {
			return sess, fmt.Errorf("failed to write output: %w", err)
		}
	}
	if err := stats.RenderSessionSummary(out, sess.Summary(), sess.History()); err != nil {
		return sess, fmt.Errorf("failed to write summary: %w", err)
	}
	return sess, nil
}

func saveSession(ctx context.Context, sess *session.Session) {
	// Saving must finish even after Ctrl+C cancelled the practice context.
	ctx = context.WithoutCancel(ctx)
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		logErrf("failed to open db: %v\n", err)
		return
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()
	if _, err := st.InsertSession(ctx, sess.Stats(), sess.Records()); err != nil {
		logErrf("failed to save session: %v\n", err)
	}
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
	if err := ensureConfigFile(path); err != nil {
		return err
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = defaultEditor
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

func ensureConfigFile(path string) error {
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
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show stats for stored sessions",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsName, "name", "", "learner name filter")
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N sessions")
	cmd.Flags().IntVar(&statsCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildStatsConfig(statsName, statsSince, statsLast, statsCurveWindow)
	if err != nil {
		return err
	}

	storePath := config.DefaultDBPath()
	st, err := store.Open(storePath)
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	report, err := stats.BuildReport(cmd.Context(), st, cfg)
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}
	if err := stats.RenderReport(cmd.OutOrStdout(), report, cfg.CurveWindow, terminalWidth()); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

func buildStatsConfig(name, since string, last, curveWindow int) (model.StatsConfig, error) {
	var sinceTime *time.Time
	if since != "" {
		parsed, err := time.ParseInLocation(sinceLayout, since, time.Local)
		if err != nil {
			return model.StatsConfig{}, fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}
	if last < 0 {
		return model.StatsConfig{}, fmt.Errorf("--last must be >= 0")
	}
	if curveWindow <= 0 {
		return model.StatsConfig{}, fmt.Errorf("--curve-window must be > 0")
	}
	return model.StatsConfig{
		Name:        strings.TrimSpace(name),
		Since:       sinceTime,
		Last:        last,
		CurveWindow: curveWindow,
	}, nil
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return defaultReportWidth
	}
	return width
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

func applyInt64Config(cmd *cobra.Command, name string, target, value *int64) {
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

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# mathdrill configuration
# Uncomment a value to enable it. CLI flags override config values.

[practice]
# name = "Learner"        # Skip the name prompt
# difficulty = %q       # Skip the difficulty menu (easy|medium|hard)
# puzzles = %d            # Puzzles per session
# window = %d              # Recent attempts used for adaptation
# seed = 0                # Puzzle generator seed (0 = clock)
# plain = false           # Always use the line-oriented console
# no-save = false         # Do not store sessions

[adaptation]
# high = %.0f               # Accuracy percent that moves difficulty up
# low = %.0f                # Accuracy percent that moves difficulty down
# min-attempts = %d        # Attempts required before adapting
`,
		defaultDifficulty,
		session.DefaultPuzzles,
		session.DefaultWindow,
		adaptive.DefaultHighAccuracy,
		adaptive.DefaultLowAccuracy,
		defaultMinAttempts,
	)
}

func validateConfig(cfg model.Config) error {
	if cfg.Puzzles <= 0 {
		return fmt.Errorf("--puzzles must be > 0")
	}
	if cfg.Window <= 0 {
		return fmt.Errorf("--window must be > 0")
	}
	if cfg.MinAttempts <= 0 {
		return fmt.Errorf("--min-attempts must be > 0")
	}
	if cfg.HighAcc < 0 || cfg.HighAcc > 100 {
		return fmt.Errorf("--high must be between 0 and 100")
	}
	if cfg.LowAcc < 0 || cfg.LowAcc > 100 {
		return fmt.Errorf("--low must be between 0 and 100")
	}
	if cfg.LowAcc >= cfg.HighAcc {
		return fmt.Errorf("--low must be < --high")
	}
	return nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
