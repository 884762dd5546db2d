package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/workproof/jobsvc/internal/api/dto"
)

const (
	defaultDLQLimit = 10
	maxDLQLimit     = 100
)

// ListDeadLetters godoc
// @Summary List dead-lettered jobs
// @Description Peeks messages parked on the dead-letter queue without removing them.
// @Tags admin
// @Produce json
// @Param limit query int false "maximum entries to return" default(10)
// @Success 200 {object} dto.DLQListResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /admin/dlq [get]
func (h *JobHandler) ListDeadLetters(c *gin.Context) {
	h.logger.Info("ListDeadLetters called",
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
	)

	limit, err := dlqLimit(c.Query("limit"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			OK:    false,
			Error: "limit must be a positive integer",
		})
		return
	}

	entries, err := h.deadLetter.List(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("Failed to list dead-lettered jobs", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			OK:    false,
			Error: "failed to read dead-letter queue",
		})
		return
	}

	resp := dto.DLQListResponse{
		OK:      true,
		Entries: make([]dto.DLQEntry, 0, len(entries)),
	}
	for _, e := range entries {
		resp.Entries = append(resp.Entries, dto.DLQEntry{
			JobID:        e.JobID,
			Reason:       e.Reason,
			Queue:        e.Queue,
			DeathCount:   e.DeathCount,
			FirstDeathAt: e.FirstDeathAt,
		})
	}

	c.JSON(http.StatusOK, resp)
}

// ReplayDeadLetters godoc
// @Summary Replay dead-lettered jobs
// @Description Moves messages from the dead-letter queue back onto the work queue with a fresh delivery budget.
// @Tags admin
// @Accept json
// @Produce json
// @Param request body dto.DLQReplayRequest false "replay options"
// @Success 200 {object} dto.DLQReplayResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /admin/dlq/replay [post]
func (h *JobHandler) ReplayDeadLetters(c *gin.Context) {
	h.logger.Info("ReplayDeadLetters called",
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
	)

	var req dto.DLQReplayRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Error("Invalid request body", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			OK:    false,
			Error: "invalid request body",
		})
		return
	}

	limit := req.Limit
	if limit <= 0 {
		limit = defaultDLQLimit
	}
	if limit > maxDLQLimit {
		limit = maxDLQLimit
	}

	replayed, err := h.deadLetter.Replay(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("Failed to replay dead-lettered jobs",
			slog.Int("replayed", replayed),
			slog.String("error", err.Error()),
		)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			OK:    false,
			Error: "failed to replay dead-letter queue",
		})
		return
	}

	c.JSON(http.StatusOK, dto.DLQReplayResponse{
		OK:       true,
		Replayed: replayed,
	})
}

func dlqLimit(raw string) (int, error) {
	if raw == "" {
		return defaultDLQLimit, nil
	}

	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return 0, errors.New("limit must be a positive integer")
	}
	if limit > maxDLQLimit {
		limit = maxDLQLimit
	}
	return limit, nil
}
