package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"coursetable/internal/config"
	"coursetable/internal/csvio"
	"coursetable/internal/logger"
	"coursetable/internal/model"
	"coursetable/internal/server"
	"coursetable/internal/solve"
)

var configPath string

func main() {
	root := &cobra.Command{
		Use:   "coursetable-server",
		Short: "Serves timetable generation over HTTP",
		RunE:  run,
	}
	root.Flags().StringVar(&configPath, "config", "", "path to a yaml or json configuration file")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(_ *cobra.Command, _ []string) error {
	log := logger.New("server")

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("cannot load configuration: %w", err)
	}
	if cfg.Server.CoursesFile == "" || cfg.Server.RoomsFile == "" {
		return fmt.Errorf("server configuration must point at courses and rooms csv files")
	}

	input, err := csvio.LoadInput(cfg.Server.CoursesFile, cfg.Server.RoomsFile)
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

	app := server.New(scheduler, input, cfg.Budget(), log).App()
	log.Infof("listening on %v", cfg.Server.Addr)
	return app.Listen(cfg.Server.Addr)
}
