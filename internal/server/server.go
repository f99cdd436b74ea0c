// Package server exposes the scheduling pipeline over HTTP. It is a thin
// façade: the course/room universe is loaded once at startup and every
// request triggers one fresh scheduling run with its own configuration.
package server

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"coursetable/internal/logger"
	"coursetable/internal/model"
)

type scheduleRequest struct {
	BlockMorning bool  `json:"block_morning"`
	BlockedStart *int  `json:"blocked_start"`
	BlockedEnd   *int  `json:"blocked_end"`
	Seed         int64 `json:"seed"`
	BudgetSecs   int   `json:"budget_seconds"`
}

type scheduleResponse struct {
	RunID       string         `json:"run_id"`
	Success     bool           `json:"success"`
	Status      string         `json:"status"`
	Variables   int            `json:"variables,omitempty"`
	Constraints int            `json:"constraints,omitempty"`
	Objective   int            `json:"objective,omitempty"`
	Lab         model.Schedule `json:"lab,omitempty"`
	Theory      model.Schedule `json:"theory,omitempty"`
}

// Server wires one Scheduler and one course/room universe behind HTTP
// handlers. Runs are sequential; each builds fresh solver state.
type Server struct {
	scheduler model.Scheduler
	input     model.Input
	budget    time.Duration
	log       logger.Logger
}

func New(scheduler model.Scheduler, input model.Input, budget time.Duration, log logger.Logger) *Server {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Server{scheduler: scheduler, input: input, budget: budget, log: log}
}

// App builds the fiber application with all routes registered.
func (s *Server) App() *fiber.App {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Post("/api/schedule", s.handleSchedule)

	return app
}

func (s *Server) handleSchedule(c *fiber.Ctx) error {
	var req scheduleRequest
	if err := c.BodyParser(&req); err != nil && !errors.Is(err, fiber.ErrUnprocessableEntity) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "malformed request body",
		})
	}

	runID := uuid.NewString()
	cfg := model.RunConfig{
		BlockMorning: req.BlockMorning,
		Seed:         req.Seed,
		Budget:       s.budget,
	}
	if req.BudgetSecs > 0 {
		cfg.Budget = time.Duration(req.BudgetSecs) * time.Second
	}
	if req.BlockedStart != nil && req.BlockedEnd != nil {
		cfg.Blocked = &model.SlotRange{Start: *req.BlockedStart, End: *req.BlockedEnd}
	}

	s.log.Infof("run %v: scheduling with config %+v", runID, cfg)
	timetable, err := s.scheduler.Build(s.input, cfg)
	if err != nil {
		var statusErr *model.StatusError
		if errors.As(err, &statusErr) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(scheduleResponse{
				RunID:   runID,
				Success: false,
				Status:  statusErr.Status.String(),
			})
		}
		s.log.Errorf("run %v failed: %v", runID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"run_id": runID,
			"error":  err.Error(),
		})
	}

	return c.JSON(scheduleResponse{
		RunID:       runID,
		Success:     true,
		Status:      timetable.Status.String(),
		Variables:   timetable.Variables,
		Constraints: timetable.Constraints,
		Objective:   timetable.Objective,
		Lab:         timetable.Lab,
		Theory:      timetable.Theory,
	})
}
