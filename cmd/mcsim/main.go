package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/mcsim/internal/catalog"
	"github.com/san-kum/mcsim/internal/checkpoint"
	"github.com/san-kum/mcsim/internal/config"
	"github.com/san-kum/mcsim/internal/mc"
	"github.com/san-kum/mcsim/internal/mcsim"
	"github.com/san-kum/mcsim/internal/registry"
	"github.com/san-kum/mcsim/internal/steppers"
	"github.com/san-kum/mcsim/internal/viz"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	storeURI   string
	logLevel   string
	preset     string
	runName    string
	attempts   int
	seed       uint64
	beta       float64
	batch      int
	outputFile string
	saveLive   bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "mcsim",
		Short:        "monte carlo molecular simulation",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			catalog.Register()
			return setupLogging(cmd.ErrOrStderr())
		},
	}
	rootCmd.PersistentFlags().StringVar(&storeURI, "store", ".mcsim", "run store: a directory or sqlite:<path>")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "debug, info, warn or error")

	runCmd := &cobra.Command{
		Use:   "run [config.yaml]",
		Short: "run a simulation from a config file or preset",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	addConfigFlags(runCmd)

	resumeCmd := &cobra.Command{
		Use:   "resume [run_id]",
		Short: "continue a stored run from its checkpoint",
		Args:  cobra.ExactArgs(1),
		RunE:  resumeRun,
	}
	resumeCmd.Flags().IntVar(&attempts, "attempts", config.DefaultAttempts, "additional trial attempts")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot the energy trace of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata and energy trace as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVarP(&outputFile, "output", "o", "", "output file (default stdout)")

	typesCmd := &cobra.Command{
		Use:   "types",
		Short: "list registered classes by family",
		RunE:  listTypes,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [name]",
		Short: "list presets, or print one as YAML",
		Args:  cobra.MaximumNArgs(1),
		RunE:  showPresets,
	}

	liveCmd := &cobra.Command{
		Use:   "live [config.yaml]",
		Short: "run a simulation with live visualization",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addConfigFlags(liveCmd)
	liveCmd.Flags().IntVar(&batch, "batch", 100, "trial attempts per frame")
	liveCmd.Flags().BoolVar(&saveLive, "save", false, "store the run when the view closes")

	rootCmd.AddCommand(runCmd, resumeCmd, listCmd, plotCmd, exportCmd, typesCmd, presetsCmd, liveCmd)
	return rootCmd
}

func addConfigFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&preset, "preset", "", "use a preset configuration")
	cmd.Flags().StringVar(&runName, "name", "", "run name")
	cmd.Flags().IntVar(&attempts, "attempts", config.DefaultAttempts, "trial attempts")
	cmd.Flags().Uint64Var(&seed, "seed", config.DefaultSeed, "random seed")
	cmd.Flags().Float64Var(&beta, "beta", config.DefaultBeta, "inverse temperature")
}

func setupLogging(w io.Writer) error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(logLevel)); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	mcsim.SetLogger(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
	return nil
}

// loadConfig resolves the config file or preset, then applies the flags
// the user set explicitly.
func loadConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	var cfg *config.Config
	switch {
	case len(args) == 1:
		var err error
		if cfg, err = config.Load(args[0]); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	case preset != "":
		if cfg = config.GetPreset(preset); cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	default:
		return nil, errors.New("a config file or --preset is required")
	}

	if cmd.Flags().Changed("attempts") {
		cfg.Attempts = attempts
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = seed
	}
	if cmd.Flags().Changed("beta") {
		cfg.Beta = beta
	}
	if cmd.Flags().Changed("name") {
		cfg.Name = runName
	}
	if cfg.Name == "" {
		cfg.Name = preset
	}
	return cfg, nil
}

func openStore() (checkpoint.Store, error) {
	st, err := checkpoint.Open(storeURI)
	if err != nil {
		return nil, fmt.Errorf("open store %s: %w", storeURI, err)
	}
	return st, nil
}

// advance runs n attempts in chunks, printing progress as it goes.
func advance(ctx context.Context, out io.Writer, sim *mc.MonteCarlo, n int) error {
	chunk := max(n/10, 1)
	for done := 0; done < n; done += chunk {
		if err := sim.Attempt(ctx, min(chunk, n-done)); err != nil {
			return err
		}
		fmt.Fprintf(out, "  %d/%d attempts  energy %.6g\n", min(done+chunk, n), n, sim.Criteria().CurrentEnergy())
	}
	return nil
}

// saveRun stores the current state. A failed simulation is still saved so
// it can be inspected; the simulation error is returned after.
func saveRun(st checkpoint.Store, sim *mc.MonteCarlo, meta checkpoint.Meta) (checkpoint.Meta, error) {
	run, err := steppers.Snapshot(sim, meta)
	if err != nil {
		return meta, err
	}
	if err := st.Save(run); err != nil {
		return meta, fmt.Errorf("save run: %w", err)
	}
	return run.Meta, nil
}

func printSummary(out io.Writer, sim *mc.MonteCarlo, meta checkpoint.Meta, elapsed time.Duration) {
	fmt.Fprintf(out, "completed in %v\n", elapsed.Round(time.Millisecond))
	fmt.Fprintf(out, "run id: %s\n", meta.ID)
	fmt.Fprintf(out, "attempts: %d\n", sim.NumAttempts())
	fmt.Fprintf(out, "energy: %.10g\n", sim.Criteria().CurrentEnergy())
	fmt.Fprintln(out, "\ntrials:")
	for i := 0; i < sim.NumTrials(); i++ {
		t := sim.Trial(i)
		fmt.Fprintf(out, "  %-40s %8d attempted  %6.2f%% accepted\n", t.Name(), t.Attempted(), 100*t.Acceptance())
	}
	for _, c := range sim.Checks() {
		if d := c.Drift(); d.Count() > 0 {
			fmt.Fprintf(out, "\nenergy drift: %d checks, mean %.3g, min %.3g, max %.3g\n", d.Count(), d.Average(), d.Min(), d.Max())
		}
	}
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	sim, err := cfg.Build()
	if err != nil {
		return err
	}
	if err := sim.Initialize(); err != nil {
		return err
	}
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "running %s: %d attempts\n", cfg.Name, cfg.Attempts)
	start := time.Now()
	simErr := advance(ctx, out, sim, cfg.Attempts)

	meta, err := saveRun(st, sim, checkpoint.Meta{ID: checkpoint.NewRunID(), Name: cfg.Name})
	if err != nil {
		return errors.Join(simErr, err)
	}
	if simErr != nil {
		fmt.Fprintf(out, "run %s stopped after %d attempts\n", meta.ID, sim.NumAttempts())
		return simErr
	}
	printSummary(out, sim, meta, time.Since(start))
	return nil
}

func resumeRun(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	run, err := st.Load(args[0])
	if err != nil {
		return err
	}
	sim, err := mc.Read(bytes.NewReader(run.State))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "resuming %s at attempt %d: %d more attempts\n", run.Meta.ID, sim.NumAttempts(), attempts)
	start := time.Now()
	simErr := advance(ctx, out, sim, attempts)

	meta, err := saveRun(st, sim, run.Meta)
	if err != nil {
		return errors.Join(simErr, err)
	}
	if simErr != nil {
		return simErr
	}
	printSummary(out, sim, meta, time.Since(start))
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	runs, err := st.List()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "no runs found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tUPDATED\tATTEMPTS\tENERGY")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.6g\n",
			run.ID,
			run.Name,
			run.Updated.Local().Format("2006-01-02 15:04:05"),
			run.Attempts,
			run.Energy,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	run, err := st.Load(args[0])
	if err != nil {
		return err
	}
	if len(run.Energy) < 2 {
		return fmt.Errorf("run %s has no energy trace; add an EnergyTrace modifier", run.Meta.ID)
	}
	chart := asciigraph.Plot(run.Energy,
		asciigraph.Height(15),
		asciigraph.Width(70),
		asciigraph.Caption(fmt.Sprintf("%s energy (%d samples)", run.Meta.Name, len(run.Energy))),
	)
	fmt.Fprintln(cmd.OutOrStdout(), chart)
	return nil
}

type exportedRun struct {
	checkpoint.Meta
	Energy []float64 `json:"energy_trace"`
}

func exportRun(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	run, err := st.Load(args[0])
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(exportedRun{Meta: run.Meta, Energy: run.Energy}, "", "  ")
	if err != nil {
		return err
	}
	if outputFile == "" {
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return err
	}
	return os.WriteFile(outputFile, data, 0o644)
}

func listTypes(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FAMILY\tCLASSES")
	for _, f := range registry.Families() {
		fmt.Fprintf(w, "%s\t%s\n", f.Family(), strings.Join(f.Names(), ", "))
	}
	return w.Flush()
}

func showPresets(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if len(args) == 0 {
		fmt.Fprintln(out, "presets:")
		for _, name := range config.ListPresets() {
			fmt.Fprintf(out, "  %s\n", name)
		}
		return nil
	}
	cfg := config.GetPreset(args[0])
	if cfg == nil {
		return fmt.Errorf("unknown preset: %s (available: %v)", args[0], config.ListPresets())
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = out.Write(data)
	return err
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	sim, err := cfg.Build()
	if err != nil {
		return err
	}
	if err := sim.Initialize(); err != nil {
		return err
	}

	// the TUI owns the terminal; keep log output from tearing the view
	mcsim.SetLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))

	model := viz.NewModel(cmd.Context(), sim, cfg.Name, batch, int64(cfg.Attempts))
	final, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
	if err != nil {
		return err
	}
	if m, ok := final.(viz.Model); ok && m.Err() != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "simulation stopped: %v\n", m.Err())
	}
	if !saveLive {
		return nil
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()
	meta, err := saveRun(st, sim, checkpoint.Meta{ID: checkpoint.NewRunID(), Name: cfg.Name})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "run id: %s\n", meta.ID)
	return nil
}
