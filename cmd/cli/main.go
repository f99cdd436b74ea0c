package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"coursetable/internal/config"
	"coursetable/internal/csvio"
	"coursetable/internal/logger"
	"coursetable/internal/model"
	"coursetable/internal/solve"
)

var (
	coursesPath  string
	roomsPath    string
	inputPath    string
	configPath   string
	outPath      string
	blockMorning bool
	blockStart   int
	blockEnd     int
	seed         int64
	budgetSecs   int
)

func main() {
	root := &cobra.Command{
		Use:   "coursetable",
		Short: "Builds a weekly course timetable from csv course and room data",
		RunE:  run,
	}

	root.Flags().StringVar(&coursesPath, "courses", "", "path to the courses csv file")
	root.Flags().StringVar(&roomsPath, "rooms", "", "path to the rooms csv file")
	root.Flags().StringVar(&inputPath, "input", "", "path to a json file holding both courses and rooms; replaces --courses/--rooms")
	root.Flags().StringVar(&configPath, "config", "", "path to a yaml or json configuration file")
	root.Flags().StringVar(&outPath, "out", "", "path to write the timetable json; empty writes to stdout")
	root.Flags().BoolVar(&blockMorning, "block-morning", false, "block the legacy morning slot range")
	root.Flags().IntVar(&blockStart, "block-start", -1, "first slot index of an explicit blocked range")
	root.Flags().IntVar(&blockEnd, "block-end", -1, "last slot index of an explicit blocked range")
	root.Flags().Int64Var(&seed, "seed", 0, "scatter-objective seed; 0 draws a fresh one")
	root.Flags().IntVar(&budgetSecs, "budget", 0, "solver wall-clock budget in seconds; 0 uses the configured default")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(_ *cobra.Command, _ []string) error {
	log := logger.New("cli")

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("cannot load configuration: %w", err)
	}

	var input model.Input
	switch {
	case inputPath != "":
		input, err = model.InputFromJSON(inputPath)
	case coursesPath != "" && roomsPath != "":
		input, err = csvio.LoadInput(coursesPath, roomsPath)
	default:
		return fmt.Errorf("either --input or both --courses and --rooms are required")
	}
	if err != nil {
		return err
	}
	log.Infof("loaded %v courses and %v rooms", len(input.Courses), len(input.Rooms))

	scheduler := model.NewSchedulerWithCalendars(
		solve.NewGophersatSolver(),
		logger.New("scheduler"),
		cfg.LabCalendar(),
		cfg.TheoryCalendar(),
		cfg.Tuning(),
	)

	runCfg := model.RunConfig{
		BlockMorning: blockMorning,
		Seed:         seed,
		Budget:       cfg.Budget(),
	}
	if runCfg.Seed == 0 {
		runCfg.Seed = cfg.Seed
	}
	if budgetSecs > 0 {
		runCfg.Budget = time.Duration(budgetSecs) * time.Second
	}
	if blockStart >= 0 && blockEnd >= blockStart {
		runCfg.Blocked = &model.SlotRange{Start: blockStart, End: blockEnd}
	}

	timetable, err := scheduler.Build(input, runCfg)
	if err != nil {
		return err
	}

	log.Infof("status: %v, lab sessions: %v, theory sessions: %v",
		timetable.Status, timetable.Lab.Sessions(), timetable.Theory.Sessions())
	return csvio.WriteTimetable(outPath, timetable)
}
