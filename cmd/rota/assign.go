package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/arnavshah/student-rota/pkg/models"
	"github.com/arnavshah/student-rota/pkg/scheduler"
	"github.com/arnavshah/student-rota/pkg/sheet"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type assignFlags struct {
	availability string
	roster       string
	out          string
	csvOut       string
	minPct       float64
	maxPct       float64
	slots        int
	seed         int64
	marker       string
}

var af assignFlags

var assignCmd = &cobra.Command{
	Use:   "assign",
	Short: "Build a rota from an availability sheet and write it as a workbook",
	RunE:  assign,
}

func init() {
	f := assignCmd.Flags()
	f.StringVarP(&af.availability, "availability", "a", "", "availability CSV (required)")
	f.StringVarP(&af.roster, "roster", "r", "", "roster CSV with Nickname, IsNewbie and Language columns")
	f.StringVarP(&af.out, "out", "o", "", "output workbook path (default schedule_<date>.xlsx)")
	f.StringVar(&af.csvOut, "csv", "", "also write the schedule as CSV to this path")
	f.Float64Var(&af.minPct, "min-pct", 0, "minimum share of applied shifts")
	f.Float64Var(&af.maxPct, "max-pct", 0, "maximum share of applied shifts")
	f.IntVar(&af.slots, "slots", 0, "students per shift")
	f.Int64Var(&af.seed, "seed", 0, "random seed, 0 picks one from the clock")
	f.StringVar(&af.marker, "marker", "", "cell value meaning available")
	_ = assignCmd.MarkFlagRequired("availability")

	rootCmd.AddCommand(assignCmd)
}

func assign(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	opts := cfg.RotaOptions()
	flags := cmd.Flags()
	if flags.Changed("min-pct") {
		opts.MinPct = af.minPct
	}
	if flags.Changed("max-pct") {
		opts.MaxPct = af.maxPct
	}
	if flags.Changed("slots") {
		opts.Slots = af.slots
	}
	if flags.Changed("marker") {
		opts.Marker = af.marker
	}
	opts.Seed = af.seed

	table, err := readFile(af.availability, sheet.ReadAvailability)
	if err != nil {
		return err
	}
	var roster models.Roster
	if af.roster != "" {
		if roster, err = readFile(af.roster, sheet.ReadRoster); err != nil {
			return err
		}
	}

	res, err := scheduler.Run(table, roster, opts, logger)
	if err != nil {
		return err
	}

	out := af.out
	if out == "" {
		out = sheet.OutputName("schedule", time.Now())
	}
	if err := writeFile(out, func(w io.Writer) error { return sheet.WriteWorkbook(w, res) }); err != nil {
		return err
	}
	if af.csvOut != "" {
		err := writeFile(af.csvOut, func(w io.Writer) error {
			return sheet.WriteScheduleCSV(w, res.Schedule, res.Options.Slots)
		})
		if err != nil {
			return err
		}
	}
	logger.Info("rota written", zap.String("path", out))

	stdout := cmd.OutOrStdout()
	for _, msg := range res.WarningMessages() {
		fmt.Fprintf(stdout, "warning: %s\n", msg)
	}
	fmt.Fprintf(stdout, "seed: %d\n", res.Seed)
	fmt.Fprintf(stdout, "filled %d of %d slots\n", res.FilledSlots(), res.FilledSlots()+res.UnfilledSlots())
	fmt.Fprintf(stdout, "mean %.2f  variance %.2f  stddev %.2f\n", res.Overall.Mean, res.Overall.Variance, res.Overall.StdDev)
	fmt.Fprintf(stdout, "saved %s\n", out)
	return nil
}

func readFile[T any](path string, read func(io.Reader) (T, error)) (T, error) {
	var zero T
	f, err := os.Open(path)
	if err != nil {
		return zero, err
	}
	defer f.Close()
	v, err := read(f)
	if err != nil {
		return zero, fmt.Errorf("%s: %w", path, err)
	}
	return v, nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return f.Close()
}
