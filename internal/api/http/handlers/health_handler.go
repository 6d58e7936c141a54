package handlers

import (
	"context"
	"sort"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/membership-hub/membership-service/internal/worker"
)

// Pinger is a dependency that can report its reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// RunReporter exposes the last recorded run of a background job.
type RunReporter interface {
	LastRun(ctx context.Context, job string) (*worker.RunRecord, error)
}

// HealthHandler responds to liveness and readiness checks.
type HealthHandler struct {
	serviceName string
	version     string
	deps        map[string]Pinger
	runs        RunReporter
	jobs        []string
}

// NewHealthHandler returns a new handler instance. deps maps a dependency name
// to its reachability check.
func NewHealthHandler(serviceName, version string, deps map[string]Pinger) *HealthHandler {
	return &HealthHandler{serviceName: serviceName, version: version, deps: deps}
}

// WithJobs adds the last run of each named job to readiness responses. Job
// status is informational and never fails readiness.
func (h *HealthHandler) WithJobs(runs RunReporter, jobs ...string) *HealthHandler {
	h.runs = runs
	h.jobs = jobs
	return h
}

// Live reports service liveness.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "alive",
		"service": h.serviceName,
		"version": h.version,
	})
}

// Ready reports service readiness by checking dependencies.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	names := make([]string, 0, len(h.deps))
	for name := range h.deps {
		names = append(names, name)
	}
	sort.Strings(names)

	depStatus := fiber.Map{}
	ready := true
	for _, name := range names {
		if err := h.deps[name].Ping(ctx); err != nil {
			depStatus[name] = err.Error()
			ready = false
			continue
		}
		depStatus[name] = "ok"
	}

	if ready {
		body := fiber.Map{
			"status":       "ready",
			"dependencies": depStatus,
		}
		if h.runs != nil {
			body["jobs"] = h.jobStatus(ctx)
		}
		return c.JSON(body)
	}

	return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    "DEPENDENCY_UNAVAILABLE",
			"message": "one or more dependencies unavailable",
			"details": depStatus,
		},
	})
}

func (h *HealthHandler) jobStatus(ctx context.Context) fiber.Map {
	status := fiber.Map{}
	for _, job := range h.jobs {
		rec, err := h.runs.LastRun(ctx, job)
		switch {
		case err != nil:
			status[job] = fiber.Map{"error": err.Error()}
		case rec == nil:
			status[job] = fiber.Map{"outcome": "never_run"}
		default:
			entry := fiber.Map{
				"outcome":     rec.Outcome,
				"started_at":  rec.StartedAt,
				"finished_at": rec.FinishedAt,
				"members":     rec.Members,
				"recipients":  rec.Recipients,
			}
			if rec.Error != "" {
				entry["error"] = rec.Error
			}
			status[job] = entry
		}
	}
	return status
}
