package fiber

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"telemetry-analytics-service/internal/analytics/core/domain"
	"telemetry-analytics-service/internal/analytics/core/usecase"

	"github.com/gofiber/fiber/v2"
)

type RunReportUseCase interface {
	Execute(ctx context.Context, in usecase.RunReportInput) (*domain.Report, error)
}

type ReportHandler struct {
	uc RunReportUseCase
}

func NewReportHandler(uc RunReportUseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// GetUsageReport godoc
// @Summary Run the usage analytics report
// @Description Computes KPIs, trends, sessions, segments, cohorts and anomaly flags over [from, to)
// @Tags Reports
// @Accept json
// @Produce json
// @Param from query int true "Window start (unix seconds, inclusive)"
// @Param to query int true "Window end (unix seconds, exclusive)"
// @Param app_id query string false "Filter to one app"
// @Param user_id query string false "Filter to one user"
// @Param now query int false "Reference time for activity status (defaults to window end)"
// @Success 200 {object} ReportResponse
// @Failure 400 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /reports/usage [get]
func (h *ReportHandler) GetUsageReport(c *fiber.Ctx) error {
	fromStr := c.Query("from", "")
	toStr := c.Query("to", "")
	if fromStr == "" || toStr == "" {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"error": "from and to are required",
		})
	}

	from, err := strconv.ParseInt(fromStr, 10, 64)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"error": "from must be a unix timestamp",
		})
	}
	to, err := strconv.ParseInt(toStr, 10, 64)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"error": "to must be a unix timestamp",
		})
	}

	var now int64
	if nowStr := c.Query("now", ""); nowStr != "" {
		now, err = strconv.ParseInt(nowStr, 10, 64)
		if err != nil {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{
				"error": "now must be a unix timestamp",
			})
		}
	}

	input := usecase.RunReportInput{
		From:   from,
		To:     to,
		AppID:  c.Query("app_id", ""),
		UserID: c.Query("user_id", ""),
		Now:    now,
	}

	report, err := h.uc.Execute(c.UserContext(), input)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidTimeRange):
			return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
				Error:   "invalid_time_range",
				Message: err.Error(),
			})
		case errors.Is(err, usecase.ErrEventSource):
			return c.Status(http.StatusServiceUnavailable).JSON(ErrorResponse{
				Error:   "event_source_unavailable",
				Message: err.Error(),
			})
		default:
			return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
				Error: "internal_server_error",
			})
		}
	}

	return c.Status(http.StatusOK).JSON(toResponse(report))
}
