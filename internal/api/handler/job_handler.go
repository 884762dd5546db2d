package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/workproof/jobsvc/internal/api/dto"
	"github.com/workproof/jobsvc/internal/artifact"
	"github.com/workproof/jobsvc/internal/job"
	"github.com/workproof/jobsvc/internal/queue"
)

// StartJob godoc
// @Summary Submit a work order for processing
// @Description Creates a QUEUED job keyed by workOrderId and enqueues it for background processing.
// @Tags jobs
// @Accept json
// @Produce json
// @Param request body dto.StartJobRequest true "work order document"
// @Success 202 {object} dto.StartJobResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /start [post]
func (h *JobHandler) StartJob(c *gin.Context) {
	h.logger.Info("StartJob called",
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
	)

	// The raw body is kept verbatim as the job's input document, so read it
	// once instead of binding
	body, err := c.GetRawData()
	if err != nil {
		h.logger.Error("Failed to read request body", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			OK:    false,
			Error: "invalid request body",
		})
		return
	}

	var req dto.StartJobRequest
	if len(body) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			h.logger.Error("Invalid request body", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{
				OK:    false,
				Error: "invalid request body",
			})
			return
		}
	}

	workOrderID := req.CorrelationKey()
	if workOrderID == "" {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			OK:    false,
			Error: "workOrderId is required",
		})
		return
	}

	now := time.Now().UTC()
	j := &job.Job{
		JobID:       uuid.New().String(),
		WorkOrderID: workOrderID,
		Status:      job.StatusQueued,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	ctx := c.Request.Context()

	if _, err := h.artifacts.Put(ctx, artifact.InputKey(j.JobID), body); err != nil {
		h.logger.Error("Failed to store input document",
			slog.String("job_id", j.JobID),
			slog.String("error", err.Error()),
		)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			OK:    false,
			Error: "failed to accept job",
		})
		return
	}

	if err := h.store.CreateJob(ctx, j); err != nil {
		h.logger.Error("Failed to create job",
			slog.String("job_id", j.JobID),
			slog.String("error", err.Error()),
		)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			OK:    false,
			Error: "failed to accept job",
		})
		return
	}

	if err := h.publisher.Publish(ctx, queue.Message{JobID: j.JobID}); err != nil {
		// The job record stays QUEUED so the submission is auditable and can
		// be re-enqueued later
		h.logger.Error("Failed to enqueue job",
			slog.String("job_id", j.JobID),
			slog.String("work_order_id", j.WorkOrderID),
			slog.String("error", err.Error()),
		)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			OK:    false,
			Error: "failed to enqueue job",
		})
		return
	}

	h.logger.Info("Job accepted",
		slog.String("job_id", j.JobID),
		slog.String("work_order_id", j.WorkOrderID),
	)

	c.JSON(http.StatusAccepted, dto.StartJobResponse{
		OK:     true,
		JobID:  j.JobID,
		Status: string(job.StatusQueued),
	})
}

// GetStatus godoc
// @Summary Get job status
// @Tags jobs
// @Produce json
// @Param job_id path string true "job id"
// @Success 200 {object} dto.JobStatusResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /status/{job_id} [get]
func (h *JobHandler) GetStatus(c *gin.Context) {
	jobID := c.Param("job_id")

	h.logger.Info("GetStatus called",
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.String("job_id", jobID),
	)

	j, err := h.store.GetJob(c.Request.Context(), jobID)
	if err != nil {
		if errors.Is(err, job.ErrJobNotFound) {
			c.JSON(http.StatusNotFound, dto.ErrorResponse{
				OK:    false,
				Error: "job not found",
			})
			return
		}
		h.logger.Error("Failed to get job",
			slog.String("job_id", jobID),
			slog.String("error", err.Error()),
		)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			OK:    false,
			Error: "failed to get job",
		})
		return
	}

	c.JSON(http.StatusOK, dto.JobStatusResponse{
		OK:           true,
		JobID:        j.JobID,
		Status:       string(j.Status),
		ErrorMessage: j.ErrorMessage,
	})
}

// GetResults godoc
// @Summary Get job results
// @Description Returns the stored result document for a SUCCEEDED job, the failure envelope for a FAILED job, and 409 while the job is still in flight.
// @Tags jobs
// @Produce json
// @Param job_id path string true "job id"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ResultErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /results/{job_id} [get]
func (h *JobHandler) GetResults(c *gin.Context) {
	jobID := c.Param("job_id")

	h.logger.Info("GetResults called",
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.String("job_id", jobID),
	)

	j, err := h.store.GetJob(c.Request.Context(), jobID)
	if err != nil {
		if errors.Is(err, job.ErrJobNotFound) {
			c.JSON(http.StatusNotFound, dto.ErrorResponse{
				OK:    false,
				Error: "job not found",
			})
			return
		}
		h.logger.Error("Failed to get job",
			slog.String("job_id", jobID),
			slog.String("error", err.Error()),
		)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			OK:    false,
			Error: "failed to get job",
		})
		return
	}

	switch {
	case !j.Status.Terminal():
		c.JSON(http.StatusConflict, dto.ResultErrorResponse{
			OK:     false,
			JobID:  j.JobID,
			Status: string(j.Status),
			Error:  "job not ready",
		})

	case j.Status == job.StatusFailed:
		c.JSON(http.StatusOK, dto.ResultErrorResponse{
			OK:     false,
			JobID:  j.JobID,
			Status: string(j.Status),
			Error:  j.ErrorMessage,
		})

	default:
		h.writeResultDocument(c, j)
	}
}

// writeResultDocument streams the stored result of a SUCCEEDED job verbatim
func (h *JobHandler) writeResultDocument(c *gin.Context, j *job.Job) {
	if !j.HasResult() {
		h.logger.Error("Succeeded job has no result location",
			slog.String("job_id", j.JobID),
		)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			OK:    false,
			Error: "job result is unavailable",
		})
		return
	}

	loc := artifact.Location{Store: j.ResultStore, Key: j.ResultKey}

	body, err := h.artifacts.Get(c.Request.Context(), loc)
	if err != nil {
		h.logger.Error("Failed to read result document",
			slog.String("job_id", j.JobID),
			slog.String("store", loc.Store),
			slog.String("key", loc.Key),
			slog.String("error", err.Error()),
		)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			OK:    false,
			Error: "job result is unavailable",
		})
		return
	}

	if !json.Valid(body) {
		h.logger.Error("Stored result document is not valid JSON",
			slog.String("job_id", j.JobID),
			slog.String("key", loc.Key),
		)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			OK:    false,
			Error: "job result is unavailable",
		})
		return
	}

	c.Data(http.StatusOK, "application/json", body)
}
