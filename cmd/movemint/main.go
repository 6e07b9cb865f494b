// Package main provides the CLI entrypoint for movemint.
package main

import (
	"context"
	"encoding/json"
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

	"github.com/Mouli51ch/Move-Mint-Mantle-sub001/internal/analysis"
	"github.com/Mouli51ch/Move-Mint-Mantle-sub001/internal/batch"
	"github.com/Mouli51ch/Move-Mint-Mantle-sub001/internal/chain"
	"github.com/Mouli51ch/Move-Mint-Mantle-sub001/internal/config"
	"github.com/Mouli51ch/Move-Mint-Mantle-sub001/internal/detect"
	"github.com/Mouli51ch/Move-Mint-Mantle-sub001/internal/generator"
	"github.com/Mouli51ch/Move-Mint-Mantle-sub001/internal/historyui"
	"github.com/Mouli51ch/Move-Mint-Mantle-sub001/internal/metadata"
	"github.com/Mouli51ch/Move-Mint-Mantle-sub001/internal/model"
	"github.com/Mouli51ch/Move-Mint-Mantle-sub001/internal/pose"
	"github.com/Mouli51ch/Move-Mint-Mantle-sub001/internal/stats"
	"github.com/Mouli51ch/Move-Mint-Mantle-sub001/internal/store"
)

const (
	defaultTrendWindow = 5
	defaultSampleSeed  = 1
	defaultJitter      = 0.003
	defaultTimeoutMs   = 10000
)

var (
	analyzeHint      string
	analyzeMinConf   float64
	analyzeArmMargin float64
	analyzeKnee      float64
	analyzeJump      float64
	analyzeSpin      float64
	analyzeLegMargin float64
	analyzeJSON      bool
	analyzeMetadata  string
	analyzeImage     string
	analyzeNoStore   bool
	analyzeColor     bool

	batchWorkers     int
	batchMetadataDir string

	historyStyle  string
	historySince  string
	historyLast   int
	historyWindow int
	historyPlain  bool

	showJSON     bool
	showMetadata string

	sampleSeed   int64
	sampleJitter float64
	sampleVideo  string

	chainEndpoints []string
	chainTimeoutMs int

	configPrint bool
)

func main() {
	rootCmd := newRootCmd()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "movemint",
		Short:         "Dance movement analyzer",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.AddCommand(newAnalyzeCmd())
	rootCmd.AddCommand(newBatchCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newShowCmd())
	rootCmd.AddCommand(newSampleCmd())
	rootCmd.AddCommand(newChainCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func addAnalysisFlags(cmd *cobra.Command) {
	defaults := detect.DefaultThresholds()
	cmd.Flags().StringVar(&analyzeHint, "style-hint", "", "style for movements no rule classifies")
	cmd.Flags().Float64Var(&analyzeMinConf, "min-confidence", defaults.MinScore, "minimum keypoint score (0-1)")
	cmd.Flags().Float64Var(&analyzeArmMargin, "arm-raise-margin", defaults.ArmRaiseMargin, "how far wrists must rise above the shoulders")
	cmd.Flags().Float64Var(&analyzeKnee, "knee-angle", defaults.KneeAngle, "knee angle below which a squat starts (degrees)")
	cmd.Flags().Float64Var(&analyzeJump, "jump-threshold", defaults.JumpRise, "ankle rise that counts as a jump")
	cmd.Flags().Float64Var(&analyzeSpin, "spin-threshold", defaults.SpinShift, "shoulder shift that counts as a spin")
	cmd.Flags().Float64Var(&analyzeLegMargin, "leg-lift-margin", defaults.LegLiftMargin, "knee-above-hip margin for leg lifts")
	cmd.Flags().BoolVar(&analyzeNoStore, "no-store", false, "do not save results to the database")
}

func applyAnalysisConfig(cmd *cobra.Command, fileCfg config.FileConfig) {
	a := fileCfg.Analysis
	applyStringConfig(cmd, "style-hint", &analyzeHint, a.StyleHint)
	applyFloatConfig(cmd, "min-confidence", &analyzeMinConf, a.MinConfidence)
	applyFloatConfig(cmd, "arm-raise-margin", &analyzeArmMargin, a.ArmRaiseMargin)
	applyFloatConfig(cmd, "knee-angle", &analyzeKnee, a.KneeAngle)
	applyFloatConfig(cmd, "jump-threshold", &analyzeJump, a.JumpThreshold)
	applyFloatConfig(cmd, "spin-threshold", &analyzeSpin, a.SpinThreshold)
	applyFloatConfig(cmd, "leg-lift-margin", &analyzeLegMargin, a.LegLiftMargin)
	applyBoolConfig(cmd, "no-store", &analyzeNoStore, fileCfg.Store.Disable)
}

func analyzeConfig() model.AnalyzeConfig {
	return model.AnalyzeConfig{
		StyleHint:      analyzeHint,
		MinConfidence:  analyzeMinConf,
		ArmRaiseMargin: analyzeArmMargin,
		KneeAngle:      analyzeKnee,
		JumpThreshold:  analyzeJump,
		SpinThreshold:  analyzeSpin,
		LegLiftMargin:  analyzeLegMargin,
		Store:          !analyzeNoStore,
		JSON:           analyzeJSON,
		MetadataPath:   analyzeMetadata,
	}
}

func newAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze <file>",
		Short: "Analyze a pose sequence file",
		Args:  cobra.ExactArgs(1),
		RunE:  runAnalyzeCmd,
	}
	addAnalysisFlags(cmd)
	cmd.Flags().BoolVar(&analyzeJSON, "json", false, "print the result as JSON")
	cmd.Flags().StringVar(&analyzeMetadata, "metadata", "", "write token metadata JSON to this path")
	cmd.Flags().StringVar(&analyzeImage, "image", "", "image URI for token metadata")
	cmd.Flags().BoolVar(&analyzeColor, "color", false, "force colored output")
	return cmd
}

func runAnalyzeCmd(cmd *cobra.Command, args []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyAnalysisConfig(cmd, fileCfg)
	cfg := analyzeConfig()
	if err := validateConfig(cfg); err != nil {
		return err
	}
	opts, err := analysis.OptionsFromConfig(cfg)
	if err != nil {
		return err
	}

	path := args[0]
	seq, err := pose.LoadSequence(path)
	if err != nil {
		return fmt.Errorf("failed to load sequence: %w", err)
	}
	if err := pose.Validate(seq); err != nil {
		if !errors.Is(err, pose.ErrEmptySequence) {
			return fmt.Errorf("invalid sequence %s: %w", path, err)
		}
		logErrln("sequence has no frames:", path)
	}

	res := analysis.New(opts).Analyze(seq.VideoID, seq.Frames)

	if cfg.Store {
		id, err := storeResult(cmd.Context(), fileCfg, path, res)
		if err != nil {
			return err
		}
		logErrf("Saved analysis %s\n", id)
	}
	if cfg.MetadataPath != "" {
		doc := metadata.Build(res, metadata.Options{Image: analyzeImage})
		if err := metadata.Write(cfg.MetadataPath, doc); err != nil {
			return err
		}
		logErrf("Wrote %s\n", cfg.MetadataPath)
	}

	out := cmd.OutOrStdout()
	if cfg.JSON {
		return writeJSON(out, res)
	}
	return stats.RenderAnalysis(out, res, stats.ShouldUseColor(out, analyzeColor))
}

func storeResult(ctx context.Context, fileCfg config.FileConfig, path string, res model.AnalysisResult) (string, error) {
	st, err := openStore(fileCfg)
	if err != nil {
		return "", err
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	id, err := st.InsertAnalysis(ctx, abs, time.Now(), res)
	if err != nil {
		return "", fmt.Errorf("failed to save analysis: %w", err)
	}
	return id, nil
}

func newBatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch <dir>",
		Short: "Analyze every sequence file in a directory",
		Args:  cobra.ExactArgs(1),
		RunE:  runBatchCmd,
	}
	addAnalysisFlags(cmd)
	cmd.Flags().IntVar(&batchWorkers, "workers", 0, "concurrent analyses (default: number of CPUs)")
	cmd.Flags().StringVar(&batchMetadataDir, "metadata-dir", "", "write token metadata for each file into this directory")
	return cmd
}

func runBatchCmd(cmd *cobra.Command, args []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyAnalysisConfig(cmd, fileCfg)
	applyIntConfig(cmd, "workers", &batchWorkers, fileCfg.Batch.Workers)
	cfg := analyzeConfig()
	if err := validateConfig(cfg); err != nil {
		return err
	}
	if batchWorkers < 0 {
		return fmt.Errorf("--workers must be >= 0")
	}
	opts, err := analysis.OptionsFromConfig(cfg)
	if err != nil {
		return err
	}

	var st *store.Store
	if cfg.Store {
		st, err = openStore(fileCfg)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := st.Close(); cerr != nil {
				logErrf("failed to close db: %v\n", cerr)
			}
		}()
	}

	results, err := batch.Run(cmd.Context(), args[0], batch.Options{
		Analysis: opts,
		Workers:  batchWorkers,
		Progress: os.Stderr,
		Store:    st,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, r := range results {
		name := filepath.Base(r.Path)
		if r.Err != nil {
			logErrf("%s: %v\n", name, r.Err)
			continue
		}
		if batchMetadataDir != "" {
			target := filepath.Join(batchMetadataDir, strings.TrimSuffix(name, filepath.Ext(name))+".metadata.json")
			if err := metadata.Write(target, metadata.Build(r.Analysis, metadata.Options{})); err != nil {
				logErrf("%s: %v\n", name, err)
			}
		}
		if _, err := fmt.Fprintf(out, "%-24s %-12s %3d moves  quality %5.1f  %s\n",
			name, r.Analysis.PrimaryStyle, len(r.Analysis.DetectedMovements), r.Analysis.Quality.Overall, shortID(r.ID)); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	if failed := batch.Failed(results); failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(results))
	}
	return nil
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Browse stored analyses",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().StringVar(&historyStyle, "style", "", "primary style filter")
	cmd.Flags().StringVar(&historySince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&historyLast, "last", 0, "limit to last N analyses")
	cmd.Flags().IntVar(&historyWindow, "trend-window", defaultTrendWindow, "moving average window")
	cmd.Flags().BoolVar(&historyPlain, "plain", false, "print a text report instead of the browser")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyIntConfig(cmd, "last", &historyLast, fileCfg.History.Last)
	applyIntConfig(cmd, "trend-window", &historyWindow, fileCfg.History.TrendWindow)

	var sinceTime *time.Time
	if historySince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", historySince, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}
	style := ""
	if historyStyle != "" {
		parsed, err := model.ParseStyle(historyStyle)
		if err != nil {
			return fmt.Errorf("invalid --style value: %w", err)
		}
		style = string(parsed)
	}
	if historyLast < 0 {
		return fmt.Errorf("--last must be >= 0")
	}
	if historyWindow <= 0 {
		return fmt.Errorf("--trend-window must be > 0")
	}

	cfg := model.HistoryConfig{
		Style:       style,
		Since:       sinceTime,
		Last:        historyLast,
		TrendWindow: historyWindow,
	}

	st, err := openStore(fileCfg)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	if historyPlain {
		report, err := stats.BuildReport(cmd.Context(), st, cfg)
		if err != nil {
			return fmt.Errorf("failed to build report: %w", err)
		}
		out := cmd.OutOrStdout()
		if err := stats.RenderHistory(out, report, cfg.TrendWindow); err != nil {
			return err
		}
		if len(report.Analyses) == 0 {
			return nil
		}
		if _, err := fmt.Fprintln(out); err != nil {
			return err
		}
		return stats.RenderAnalysisTable(out, report.Analyses)
	}

	program := tea.NewProgram(historyui.NewModel(st, cfg), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run history TUI: %w", err)
	}
	return nil
}

func newShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a stored analysis",
		Args:  cobra.ExactArgs(1),
		RunE:  runShowCmd,
	}
	cmd.Flags().BoolVar(&showJSON, "json", false, "print the result as JSON")
	cmd.Flags().StringVar(&showMetadata, "metadata", "", "write token metadata JSON to this path")
	return cmd
}

func runShowCmd(cmd *cobra.Command, args []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	st, err := openStore(fileCfg)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	summary, res, err := st.GetAnalysis(cmd.Context(), args[0])
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("no analysis matches %q", args[0])
		}
		return err
	}
	if showMetadata != "" {
		if err := metadata.Write(showMetadata, metadata.Build(res, metadata.Options{})); err != nil {
			return err
		}
		logErrf("Wrote %s\n", showMetadata)
	}

	out := cmd.OutOrStdout()
	if showJSON {
		return writeJSON(out, res)
	}
	if _, err := fmt.Fprintf(out, "%s  %s  %s\n\n", summary.ID, summary.CreatedAt.Local().Format("2006-01-02 15:04"), summary.SourcePath); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return stats.RenderAnalysis(out, res, stats.ShouldUseColor(out, false))
}

func newSampleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sample <out>",
		Short: "Write a synthetic pose sequence",
		Args:  cobra.ExactArgs(1),
		RunE:  runSampleCmd,
	}
	cmd.Flags().Int64Var(&sampleSeed, "seed", defaultSampleSeed, "random seed")
	cmd.Flags().Float64Var(&sampleJitter, "jitter", defaultJitter, "coordinate noise")
	cmd.Flags().StringVar(&sampleVideo, "video-id", "", "video id (default: file name)")
	return cmd
}

func runSampleCmd(_ *cobra.Command, args []string) error {
	if sampleJitter < 0 {
		return fmt.Errorf("--jitter must be >= 0")
	}
	path := args[0]
	videoID := sampleVideo
	if videoID == "" {
		videoID = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	seq := generator.New(sampleSeed, sampleJitter).Routine(videoID)
	if err := pose.WriteSequence(path, seq); err != nil {
		return err
	}
	logErrf("Wrote %d frames to %s\n", len(seq.Frames), path)
	return nil
}

func newChainCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chain",
		Short: "Check RPC endpoint status",
		Args:  cobra.NoArgs,
		RunE:  runChainCmd,
	}
	cmd.Flags().StringSliceVar(&chainEndpoints, "endpoint", nil, "RPC endpoint, tried in order (repeatable)")
	cmd.Flags().IntVar(&chainTimeoutMs, "timeout-ms", defaultTimeoutMs, "per-request timeout in milliseconds")
	return cmd
}

func runChainCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyIntConfig(cmd, "timeout-ms", &chainTimeoutMs, fileCfg.Chain.TimeoutMs)
	if !cmd.Flags().Changed("endpoint") && len(fileCfg.Chain.Endpoints) > 0 {
		chainEndpoints = fileCfg.Chain.Endpoints
	}
	if chainTimeoutMs <= 0 {
		return fmt.Errorf("--timeout-ms must be > 0")
	}

	client := chain.NewClient(chainEndpoints, time.Duration(chainTimeoutMs)*time.Millisecond)
	status, err := client.Status(cmd.Context())
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Endpoint: %s\nChain ID: %d\nBlock: %d\nLatency: %s\n",
		status.Endpoint, status.ChainID, status.BlockNumber, status.Latency.Round(time.Millisecond))
	return err
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
	cmd.Flags().BoolVar(&configPrint, "print", false, "print the config path and template instead of opening an editor")
	return cmd
}

func runConfigCmd(cmd *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if configPrint {
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "# %s\n%s", path, config.Template)
		return err
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := config.WriteTemplate(path); err != nil {
			return err
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
	editCmd := exec.Command(parts[0], append(parts[1:], path)...)
	editCmd.Stdin = os.Stdin
	editCmd.Stdout = os.Stdout
	editCmd.Stderr = os.Stderr
	if err := editCmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func openStore(fileCfg config.FileConfig) (*store.Store, error) {
	path := config.DefaultDBPath()
	if fileCfg.Store.Path != nil && strings.TrimSpace(*fileCfg.Store.Path) != "" {
		path = expandHome(*fileCfg.Store.Path)
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	return st, nil
}

func expandHome(path string) string {
	rest, ok := strings.CutPrefix(path, "~/")
	if !ok {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, rest)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to write JSON: %w", err)
	}
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
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

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func validateConfig(cfg model.AnalyzeConfig) error {
	if cfg.StyleHint != "" {
		if _, err := model.ParseStyle(cfg.StyleHint); err != nil {
			return fmt.Errorf("--style-hint: %w", err)
		}
	}
	if cfg.MinConfidence <= 0 || cfg.MinConfidence > 1 {
		return fmt.Errorf("--min-confidence must be in (0, 1]")
	}
	if cfg.ArmRaiseMargin <= 0 {
		return fmt.Errorf("--arm-raise-margin must be > 0")
	}
	if cfg.KneeAngle <= 0 || cfg.KneeAngle >= 180 {
		return fmt.Errorf("--knee-angle must be between 0 and 180")
	}
	if cfg.JumpThreshold <= 0 {
		return fmt.Errorf("--jump-threshold must be > 0")
	}
	if cfg.SpinThreshold <= 0 {
		return fmt.Errorf("--spin-threshold must be > 0")
	}
	if cfg.LegLiftMargin <= 0 {
		return fmt.Errorf("--leg-lift-margin must be > 0")
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
