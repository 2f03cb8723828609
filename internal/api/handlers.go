package api

import (
	"context"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/bilgisen/newscast/internal/config"
	"github.com/bilgisen/newscast/internal/logger"
	"github.com/bilgisen/newscast/internal/middleware"
	"github.com/bilgisen/newscast/internal/pipeline"
	"github.com/bilgisen/newscast/internal/storage"
	"github.com/gofiber/fiber/v2"
)

// RunRequest optionally overrides run parameters for a triggered run.
type RunRequest struct {
	Topic    string `json:"topic"`
	MaxPosts *int   `json:"max_posts" validate:"omitempty,gte=0"`
	AutoPost *bool  `json:"auto_post"`
}

type Handlers struct {
	config    *config.Config
	pipe      *pipeline.Pipeline
	storage   *storage.Storage
	validator *middleware.Validator
	running   atomic.Bool
}

func NewHandlers(cfg *config.Config, pipe *pipeline.Pipeline, store *storage.Storage) *Handlers {
	return &Handlers{
		config:    cfg,
		pipe:      pipe,
		storage:   store,
		validator: middleware.NewValidator(),
	}
}

// HealthCheck handles GET /api/v1/health
func (h *Handlers) HealthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "ok",
		"topic":  h.config.Topic,
		"time":   time.Now().Format(time.RFC3339),
	})
}

// ListRuns handles GET /api/v1/runs
func (h *Handlers) ListRuns(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	if page < 1 {
		page = 1
	}

	pageSize, _ := strconv.Atoi(c.Query("page_size", "20"))
	switch {
	case pageSize > 100:
		pageSize = 100
	case pageSize <= 0:
		pageSize = 20
	}

	reports, total, err := h.storage.ListReports(c.Context(), page, pageSize)
	if err != nil {
		logger.Get().Error().Err(err).Msg("Error listing run reports")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list runs",
		})
	}

	return c.JSON(fiber.Map{
		"page":      page,
		"page_size": pageSize,
		"total":     total,
		"items":     reports,
	})
}

// GetRunByID handles GET /api/v1/runs/:id
func (h *Handlers) GetRunByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Run ID is required",
		})
	}

	report, err := h.storage.GetReportByID(c.Context(), id)
	if err != nil {
		logger.Get().Error().Err(err).Str("id", id).Msg("Error getting run report")
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Run not found",
		})
	}

	return c.JSON(report)
}

// TriggerRun handles POST /api/v1/admin/run. The run executes in the
// background; at most one run is in flight at a time.
func (h *Handlers) TriggerRun(c *fiber.Ctx) error {
	log := logger.Get()

	var req RunRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid request body: " + err.Error(),
			})
		}
		if err := h.validator.Validate(&req); err != nil {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"error":  "Validation failed",
				"fields": h.validator.Fields(err),
			})
		}
	}

	opts := pipeline.Options{
		Topic:    h.config.Topic,
		AutoPost: h.config.AutoPost,
		MaxPosts: h.config.MaxPosts,
		CacheTTL: h.config.CacheTTL,
	}
	if req.Topic != "" {
		opts.Topic = req.Topic
	}
	if req.MaxPosts != nil {
		opts.MaxPosts = *req.MaxPosts
	}
	if req.AutoPost != nil {
		opts.AutoPost = *req.AutoPost
	}

	if !h.running.CompareAndSwap(false, true) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "A run is already in progress",
		})
	}

	go func() {
		defer h.running.Store(false)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		if _, err := h.pipe.Run(ctx, opts); err != nil {
			log.Error().
				Err(err).
				Str("topic", opts.Topic).
				Msg("Triggered run failed")
		}
	}()

	log.Info().
		Str("topic", opts.Topic).
		Bool("auto_post", opts.AutoPost).
		Msg("Triggered pipeline run")

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"status": "started",
		"topic":  opts.Topic,
	})
}
