// Package main provides the CLI entrypoint for ghosttype.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/ghosttype/ghosttype/internal/config"
	"github.com/ghosttype/ghosttype/internal/engine"
	"github.com/ghosttype/ghosttype/internal/logging"
	"github.com/ghosttype/ghosttype/internal/model"
	"github.com/ghosttype/ghosttype/internal/runner"
	"github.com/ghosttype/ghosttype/internal/runsui"
	"github.com/ghosttype/ghosttype/internal/sample"
	"github.com/ghosttype/ghosttype/internal/sink"
	"github.com/ghosttype/ghosttype/internal/stats"
	"github.com/ghosttype/ghosttype/internal/store"
	"github.com/ghosttype/ghosttype/internal/tui"
	"github.com/ghosttype/ghosttype/internal/watch"
)

const (
	defaultCurveWindow = 10
	defaultSampleWords = 25
	defaultSampleCaps  = 0.15
	defaultSamplePunct = 0.15
	defaultTopRuns     = 5
	defaultDebounce    = 250 * time.Millisecond
)

const defaultSamplePunctSet = ".,!?;:"

var (
	typeText        string
	typeFile        string
	typeStdin       bool
	typeMinDelay    int
	typeMaxDelay    int
	typeTypoRate    float64
	typeStreakRate  float64
	typeStreakDecay float64
	typePause       int
	typeNoTypos     bool
	typeSeed        uint64
	typeCountdown   int
	typePlain       bool
	typeQuiet       bool
	typeOut         string
	typeNoDelay     bool
	typeNoRecord    bool
	typeVerbose     bool

	watchDebounce  time.Duration
	watchTruncate  bool
	watchCountdown int
	watchLogFile   string
	watchNoRecord  bool
	watchVerbose   bool

	sampleWords    int
	sampleCaps     float64
	samplePunct    float64
	samplePunctSet string
	sampleWordlist string
	sampleSeed     uint64
	sampleWeighted bool

	runsPlain       bool
	runsSource      string
	runsSince       string
	runsLast        int
	runsTop         int
	runsCurveWindow int
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "ghosttype [text]",
		Short:         "Human-like typing simulator",
		SilenceUsage:  true,
		SilenceErrors: false,
		Args:          cobra.ArbitraryArgs,
		RunE:          runTypeCmd,
	}

	defaults := engine.DefaultConfig()
	rootCmd.Flags().StringVarP(&typeText, "text", "t", "", "text to type")
	rootCmd.Flags().StringVarP(&typeFile, "file", "f", "", "type the contents of a file")
	rootCmd.Flags().BoolVar(&typeStdin, "stdin", false, "read the text from stdin")
	rootCmd.Flags().IntVar(&typeMinDelay, "min-delay", defaults.MinDelayMs, "minimum keystroke delay (ms)")
	rootCmd.Flags().IntVar(&typeMaxDelay, "max-delay", defaults.MaxDelayMs, "maximum keystroke delay (ms)")
	rootCmd.Flags().Float64Var(&typeTypoRate, "typo-rate", defaults.TypoProbability, "typo probability per character (0-1)")
	rootCmd.Flags().Float64Var(&typeStreakRate, "streak-rate", defaults.StreakProbability, "typo probability while a streak is open (0-1)")
	rootCmd.Flags().Float64Var(&typeStreakDecay, "streak-decay", defaults.StreakDecay, "typo probability decay after a clean character (0-1)")
	rootCmd.Flags().IntVar(&typePause, "correction-pause", defaults.CorrectionPauseMs, "pause before a correction burst (ms)")
	rootCmd.Flags().BoolVar(&typeNoTypos, "no-typos", false, "disable typos entirely")
	rootCmd.Flags().Uint64Var(&typeSeed, "seed", 0, "random seed (0 picks one)")
	rootCmd.Flags().IntVar(&typeCountdown, "countdown", 0, "seconds to wait before typing")
	rootCmd.Flags().BoolVar(&typePlain, "plain", false, "type straight to stdout instead of the TUI")
	rootCmd.Flags().BoolVar(&typeQuiet, "quiet", false, "suppress the run summary")
	rootCmd.Flags().StringVar(&typeOut, "out", "", "append a JSONL event script to a file (implies --plain)")
	rootCmd.Flags().BoolVar(&typeNoDelay, "no-delay", false, "emit without pacing")
	rootCmd.Flags().BoolVar(&typeNoRecord, "no-record", false, "skip recording the run")
	rootCmd.Flags().BoolVar(&typeVerbose, "verbose", false, "log actions to stderr (plain mode)")

	rootCmd.AddCommand(newWatchCmd())
	rootCmd.AddCommand(newSampleCmd())
	rootCmd.AddCommand(newRunsCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func runTypeCmd(cmd *cobra.Command, args []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyIntConfig(cmd, "min-delay", &typeMinDelay, fileCfg.Typing.MinDelay)
	applyIntConfig(cmd, "max-delay", &typeMaxDelay, fileCfg.Typing.MaxDelay)
	applyFloatConfig(cmd, "typo-rate", &typeTypoRate, fileCfg.Typing.TypoRate)
	applyFloatConfig(cmd, "streak-rate", &typeStreakRate, fileCfg.Typing.StreakRate)
	applyFloatConfig(cmd, "streak-decay", &typeStreakDecay, fileCfg.Typing.StreakDecay)
	applyIntConfig(cmd, "correction-pause", &typePause, fileCfg.Typing.CorrectionPause)
	applyIntConfig(cmd, "countdown", &typeCountdown, fileCfg.Typing.Countdown)
	applyBoolConfig(cmd, "quiet", &typeQuiet, fileCfg.Typing.Quiet)

	cfg, err := buildTypingConfig(fileCfg)
	if err != nil {
		return err
	}

	if typeText == "" && len(args) > 0 {
		typeText = strings.Join(args, " ")
	}
	text, source, err := resolveInput()
	if err != nil {
		return err
	}
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("input is empty")
	}

	var sess *engine.Session
	if typeSeed != 0 {
		sess, err = engine.NewSessionSeeded(text, cfg, typeSeed)
	} else {
		sess, err = engine.NewSession(text, cfg)
	}
	if err != nil {
		return err
	}

	var st *store.Store
	if !typeNoRecord {
		st = openStore()
	}
	if st != nil {
		defer func() {
			if cerr := st.Close(); cerr != nil {
				logErrf("failed to close run history: %v\n", cerr)
			}
		}()
	}

	useTUI := typeOut == "" && !typePlain && !typeNoDelay && term.IsTerminal(int(os.Stdout.Fd()))
	if useTUI {
		m := tui.NewModel(sess, cfg, text, st, source, typeCountdown, typeNoDelay)
		program := tea.NewProgram(m, tea.WithAltScreen())
		final, err := program.Run()
		if err != nil {
			return fmt.Errorf("failed to run TUI: %w", err)
		}
		if fm, ok := final.(*tui.Model); ok {
			printSummary(sess.Position(), fm.Metrics(), fm.WallMs(), sess.Seed(), fm.Canceled())
		}
		return nil
	}
	return runPlain(sess, cfg, source, st)
}

func runPlain(sess *engine.Session, cfg engine.Config, source string, st *store.Store) error {
	out, closeSinks, err := buildSinks()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := logging.New(typeVerbose, "")
	defer func() {
		// Best-effort flush; stderr sync fails on some platforms.
		_ = log.Sync()
	}()

	// Live progress goes to stderr, but only when the typed text itself is
	// not already visible on the terminal.
	var progress io.Writer
	if !typeQuiet && term.IsTerminal(int(os.Stderr.Fd())) && !term.IsTerminal(int(os.Stdout.Fd())) {
		progress = os.Stderr
	}

	startedAt := time.Now()
	res, err := runner.Run(ctx, sess, out, runner.Options{
		NoDelay:   typeNoDelay,
		Countdown: typeCountdown,
		Progress:  progress,
		Log:       log,
	})
	if cerr := closeSinks(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}
	if term.IsTerminal(int(os.Stdout.Fd())) {
		logOut("\n")
	}

	if st != nil && !res.Canceled {
		rec := buildRunRecord(sess, cfg, source, res, startedAt)
		if ierr := st.InsertRun(context.Background(), rec); ierr != nil {
			logErrf("failed to save run: %v\n", ierr)
		}
	}
	printSummary(sess.Position(), res.Metrics, res.WallMs, sess.Seed(), res.Canceled)
	return nil
}

func buildSinks() (sink.Sink, func() error, error) {
	sinks := []sink.Sink{sink.Terminal(os.Stdout)}
	var scriptFile *os.File
	if typeOut != "" {
		f, err := os.OpenFile(typeOut, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open %s: %w", typeOut, err)
		}
		scriptFile = f
		sinks = append(sinks, sink.Script(f))
	}
	out := sink.Multi(sinks...)
	closeAll := func() error {
		err := out.Close()
		if scriptFile != nil {
			if cerr := scriptFile.Close(); cerr != nil && err == nil {
				err = cerr
			}
		}
		return err
	}
	return out, closeAll, nil
}

func resolveInput() (text, source string, err error) {
	switch {
	case typeText != "":
		return typeText, "text", nil
	case typeFile != "":
		data, err := os.ReadFile(typeFile)
		if err != nil {
			return "", "", fmt.Errorf("failed to read %s: %w", typeFile, err)
		}
		return strings.TrimSuffix(string(data), "\n"), "file", nil
	case typeStdin || !term.IsTerminal(int(os.Stdin.Fd())):
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return strings.TrimSuffix(string(data), "\n"), "stdin", nil
	default:
		return "", "", fmt.Errorf("no input: pass --text, --file, or pipe to --stdin")
	}
}

// buildTypingConfig merges defaults, the config file, and flags into an
// engine configuration. Flag merging has already run, so the type* vars hold
// the effective typing values.
func buildTypingConfig(fileCfg config.FileConfig) (engine.Config, error) {
	if typeMinDelay > typeMaxDelay {
		logErrf("note: --min-delay %d exceeds --max-delay %d, swapping\n", typeMinDelay, typeMaxDelay)
		typeMinDelay, typeMaxDelay = typeMaxDelay, typeMinDelay
	}
	cfg := engine.DefaultConfig()
	cfg.MinDelayMs = typeMinDelay
	cfg.MaxDelayMs = typeMaxDelay
	cfg.TypoProbability = typeTypoRate
	cfg.StreakProbability = typeStreakRate
	cfg.StreakDecay = typeStreakDecay
	cfg.CorrectionPauseMs = typePause
	if typeNoTypos {
		cfg.TypoProbability = 0
	}
	if err := applyFileSections(&cfg, fileCfg); err != nil {
		return engine.Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return engine.Config{}, err
	}
	return cfg, nil
}

// watchConfig builds the engine configuration for watch mode, which has no
// typing flags of its own and takes everything from the config file.
func watchConfig(fileCfg config.FileConfig) (engine.Config, error) {
	cfg := engine.DefaultConfig()
	if v := fileCfg.Typing.MinDelay; v != nil {
		cfg.MinDelayMs = *v
	}
	if v := fileCfg.Typing.MaxDelay; v != nil {
		cfg.MaxDelayMs = *v
	}
	if v := fileCfg.Typing.TypoRate; v != nil {
		cfg.TypoProbability = *v
	}
	if v := fileCfg.Typing.StreakRate; v != nil {
		cfg.StreakProbability = *v
	}
	if v := fileCfg.Typing.StreakDecay; v != nil {
		cfg.StreakDecay = *v
	}
	if v := fileCfg.Typing.CorrectionPause; v != nil {
		cfg.CorrectionPauseMs = *v
	}
	if err := applyFileSections(&cfg, fileCfg); err != nil {
		return engine.Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return engine.Config{}, err
	}
	return cfg, nil
}

func applyFileSections(cfg *engine.Config, fileCfg config.FileConfig) error {
	applyModifierConfig(&cfg.Modifiers, fileCfg.Modifiers)
	overrides, err := config.AdjacencyOverrides(fileCfg.Adjacency)
	if err != nil {
		return fmt.Errorf("invalid [adjacency] config: %w", err)
	}
	for key, neighbors := range overrides {
		cfg.Adjacency[key] = neighbors
	}
	return nil
}

func applyModifierConfig(mods *engine.Modifiers, fileMods config.ModifiersConfig) {
	if v := fileMods.Newline; v != nil {
		mods.Newline = *v
	}
	if v := fileMods.Special; v != nil {
		mods.Special = *v
	}
	if v := fileMods.Punctuation; v != nil {
		mods.Punctuation = *v
	}
	if v := fileMods.Uppercase; v != nil {
		mods.Uppercase = *v
	}
	if v := fileMods.Repeat; v != nil {
		mods.Repeat = *v
	}
	if v := fileMods.Frequent; v != nil {
		mods.Frequent = *v
	}
	if v := fileMods.Delete; v != nil {
		mods.Delete = *v
	}
}

func openStore() *store.Store {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		logErrf("failed to open run history: %v\n", err)
		return nil
	}
	return st
}

func buildRunRecord(sess *engine.Session, cfg engine.Config, source string, res runner.Result, startedAt time.Time) model.RunRecord {
	met := res.Metrics
	return model.RunRecord{
		ID:           uuid.NewString(),
		StartedAt:    startedAt,
		EndedAt:      time.Now(),
		Source:       source,
		Chars:        sess.Len(),
		Events:       met.Events,
		Typos:        met.Typos,
		Corrections:  met.Corrections,
		Deletes:      met.Deletes,
		SimulatedMs:  met.SimulatedMs,
		WallMs:       res.WallMs,
		Seed:         sess.Seed(),
		MinDelayMs:   cfg.MinDelayMs,
		MaxDelayMs:   cfg.MaxDelayMs,
		TypoRate:     stats.TypoRate(met.Typos, sess.Len()),
		BurstLengths: met.BurstLengths,
	}
}

func printSummary(chars int, met engine.Metrics, wallMs int64, seed uint64, canceled bool) {
	if typeQuiet {
		return
	}
	status := "typed"
	if canceled {
		status = "canceled after"
	}
	wpm, _, efficiency := stats.RunMetrics(chars, met.Events, met.SimulatedMs)
	logErrf("%s %d chars in %s (simulated %s) · %.1f WPM · efficiency %.2f · %d typos · %d bursts · seed %d\n",
		status, chars, formatMs(wallMs), formatMs(met.SimulatedMs),
		wpm, efficiency, met.Typos, met.Corrections, seed)
}

func formatMs(ms int64) string {
	return (time.Duration(ms) * time.Millisecond).Round(100 * time.Millisecond).String()
}

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch <file>",
		Short: "Retype a file whenever it changes",
		Args:  cobra.ExactArgs(1),
		RunE:  runWatchCmd,
	}
	cmd.Flags().DurationVar(&watchDebounce, "debounce", defaultDebounce, "settle time after a change")
	cmd.Flags().BoolVar(&watchTruncate, "truncate", false, "empty the file after typing it")
	cmd.Flags().IntVar(&watchCountdown, "countdown", 0, "seconds to wait before each pass")
	cmd.Flags().StringVar(&watchLogFile, "log-file", config.DefaultLogPath(), "debug log file (empty disables)")
	cmd.Flags().BoolVar(&watchNoRecord, "no-record", false, "skip recording runs")
	cmd.Flags().BoolVar(&watchVerbose, "verbose", false, "log actions to stderr")
	return cmd
}

func runWatchCmd(cmd *cobra.Command, args []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyIntConfig(cmd, "countdown", &watchCountdown, fileCfg.Typing.Countdown)
	cfg, err := watchConfig(fileCfg)
	if err != nil {
		return err
	}

	log := logging.New(watchVerbose, watchLogFile)
	defer func() {
		// Best-effort flush; stderr sync fails on some platforms.
		_ = log.Sync()
	}()

	path := args[0]
	w, err := watch.New(path, watchDebounce, log)
	if err != nil {
		return err
	}
	w.Start()
	defer w.Stop()

	var st *store.Store
	if !watchNoRecord {
		st = openStore()
	}
	if st != nil {
		defer func() {
			if cerr := st.Close(); cerr != nil {
				logErrf("failed to close run history: %v\n", cerr)
			}
		}()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Debug("watching", zap.String("path", path), zap.Duration("debounce", watchDebounce))
	logErrf("watching %s (ctrl-c stops)\n", path)

	for {
		select {
		case <-ctx.Done():
			return nil
		case werr := <-w.Errors():
			logErrf("watch error: %v\n", werr)
		case payload := <-w.Payloads():
			if err := typePayload(ctx, cfg, payload, path, st, log); err != nil {
				return err
			}
		}
	}
}

func typePayload(ctx context.Context, cfg engine.Config, payload watch.Payload, path string, st *store.Store, log *zap.Logger) error {
	text := strings.TrimSuffix(payload.Text, "\n")
	if strings.TrimSpace(text) == "" {
		return nil
	}
	sess, err := engine.NewSession(text, cfg)
	if err != nil {
		return err
	}

	// The per-action progress line would interleave with the typed text on
	// the same terminal, so the countdown gets a single announcement instead.
	if watchCountdown > 0 {
		logErrf("typing in %ds\n", watchCountdown)
	}
	startedAt := time.Now()
	out := sink.Terminal(os.Stdout)
	res, err := runner.Run(ctx, sess, out, runner.Options{Countdown: watchCountdown, Log: log})
	if cerr := out.Close(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}
	logOut("\n")
	log.Debug("payload typed",
		zap.Int("chars", sess.Len()),
		zap.Uint64("hash", payload.Hash),
		zap.Bool("canceled", res.Canceled))

	if st != nil && !res.Canceled {
		if ierr := st.InsertRun(context.Background(), buildRunRecord(sess, cfg, "watch", res, startedAt)); ierr != nil {
			logErrf("failed to save run: %v\n", ierr)
		}
	}
	if watchTruncate && !res.Canceled {
		if terr := os.Truncate(path, 0); terr != nil {
			logErrf("failed to truncate %s: %v\n", path, terr)
		}
	}
	return nil
}

func newSampleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Print generated practice text",
		Args:  cobra.NoArgs,
		RunE:  runSampleCmd,
	}
	cmd.Flags().IntVar(&sampleWords, "words", defaultSampleWords, "words to generate")
	cmd.Flags().Float64Var(&sampleCaps, "caps", defaultSampleCaps, "probability of a capitalized word (0-1)")
	cmd.Flags().Float64Var(&samplePunct, "punct", defaultSamplePunct, "punctuation probability per word (0-1)")
	cmd.Flags().StringVar(&samplePunctSet, "punct-set", defaultSamplePunctSet, "punctuation set")
	cmd.Flags().StringVar(&sampleWordlist, "wordlist", "", "word list file (default: built-in)")
	cmd.Flags().Uint64Var(&sampleSeed, "seed", 0, "random seed (0 picks one)")
	cmd.Flags().BoolVar(&sampleWeighted, "weighted", false, "prefer common words")
	return cmd
}

func runSampleCmd(cmd *cobra.Command, _ []string) error {
	if err := validateSampleFlags(); err != nil {
		return err
	}
	words, err := resolveSampleWords()
	if err != nil {
		return err
	}
	gen := sample.New()
	if sampleSeed != 0 {
		gen = sample.NewSeeded(sampleSeed)
	}
	text, err := gen.Text(words, model.SampleConfig{
		Words:    sampleWords,
		CapsPct:  sampleCaps,
		PunctPct: samplePunct,
		PunctSet: samplePunctSet,
		Weighted: sampleWeighted,
	})
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintln(cmd.OutOrStdout(), text); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func validateSampleFlags() error {
	if sampleWords <= 0 {
		return fmt.Errorf("--words must be > 0")
	}
	if sampleCaps < 0 || sampleCaps > 1 {
		return fmt.Errorf("--caps must be between 0 and 1")
	}
	if samplePunct < 0 || samplePunct > 1 {
		return fmt.Errorf("--punct must be between 0 and 1")
	}
	if samplePunctSet == "" {
		return fmt.Errorf("--punct-set must not be empty")
	}
	return nil
}

func resolveSampleWords() ([]string, error) {
	path := sampleWordlist
	if path == "" {
		if _, err := os.Stat(config.DefaultWordlistPath()); err == nil {
			path = config.DefaultWordlistPath()
		}
	}
	if path == "" {
		return sample.DefaultWords(), nil
	}
	words, err := sample.LoadWords(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load word list: %w", err)
	}
	return words, nil
}

func newRunsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Browse run history",
		Args:  cobra.NoArgs,
		RunE:  runRunsCmd,
	}
	cmd.Flags().BoolVar(&runsPlain, "plain", false, "print the report instead of the TUI")
	cmd.Flags().StringVar(&runsSource, "source", "", "source filter (text, file, stdin, watch)")
	cmd.Flags().StringVar(&runsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&runsLast, "last", 0, "limit to last N runs")
	cmd.Flags().IntVar(&runsTop, "top", defaultTopRuns, "rows in the top runs table")
	cmd.Flags().IntVar(&runsCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	return cmd
}

func runRunsCmd(cmd *cobra.Command, _ []string) error {
	var sinceTime *time.Time
	if runsSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", runsSince, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}
	filter := model.RunFilter{
		Source:      runsSource,
		Since:       sinceTime,
		Last:        runsLast,
		CurveWindow: runsCurveWindow,
		Top:         runsTop,
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open run history: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close run history: %v\n", cerr)
		}
	}()

	if !runsPlain && term.IsTerminal(int(os.Stdout.Fd())) {
		m := runsui.NewModel(st, filter)
		program := tea.NewProgram(m, tea.WithAltScreen())
		if _, err := program.Run(); err != nil {
			return fmt.Errorf("failed to run history TUI: %w", err)
		}
		return nil
	}
	return printRunsReport(cmd.OutOrStdout(), st, filter)
}

func printRunsReport(w io.Writer, st *store.Store, filter model.RunFilter) error {
	report, err := stats.BuildReport(context.Background(), st, filter)
	if err != nil {
		return err
	}
	if err := stats.RenderSummary(w, report.Runs); err != nil {
		return err
	}
	if len(report.Runs) == 0 {
		return nil
	}
	if err := stats.RenderCurves(w, report.Runs, filter.CurveWindow); err != nil {
		return err
	}
	if err := stats.RenderRunsTable(w, report.Runs); err != nil {
		return err
	}
	if filter.Top > 0 {
		if err := stats.RenderTopRuns(w, report.Runs, filter.Top); err != nil {
			return err
		}
	}
	if err := stats.RenderSourceTable(w, report.Runs); err != nil {
		return err
	}
	return stats.RenderBursts(w, report.Bursts)
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
	defaults := engine.DefaultConfig()
	mods := defaults.Modifiers
	return fmt.Sprintf(`# ghosttype configuration
# Uncomment a value to enable it. CLI flags override config values.

[typing]
# min-delay = %d          # Minimum keystroke delay (ms)
# max-delay = %d         # Maximum keystroke delay (ms)
# typo-rate = %.2f        # Typo probability per character (0-1)
# streak-rate = %.2f      # Typo probability while a streak is open (0-1)
# streak-decay = %.2f     # Typo probability decay after a clean character (0-1)
# correction-pause = %d  # Pause before a correction burst (ms)
# countdown = 0           # Seconds to wait before typing
# quiet = false           # Suppress the run summary

[modifiers]
# newline = %.1f      # Delay multiplier after a newline
# special = %.1f      # Other punctuation and symbols
# punctuation = %.1f  # . , ! ? ; :
# uppercase = %.1f    # Characters that need shift
# repeat = %.1f       # Repeated characters
# frequent = %.2f    # e t a o i n s h r d
# delete = %.1f       # Backspaces inside a correction burst

# Per-key typo neighbors. Keys are single characters.
# [adjacency]
# e = "wrds"
`,
		defaults.MinDelayMs, defaults.MaxDelayMs,
		defaults.TypoProbability, defaults.StreakProbability, defaults.StreakDecay,
		defaults.CorrectionPauseMs,
		mods.Newline, mods.Special, mods.Punctuation, mods.Uppercase,
		mods.Repeat, mods.Frequent, mods.Delete)
}

func logOut(s string) {
	if _, err := fmt.Fprint(os.Stdout, s); err != nil {
		// Best-effort write to stdout.
		_ = err
	}
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
