package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/arnavshah/rota-solver-go/pkg/database"
	"github.com/arnavshah/rota-solver-go/pkg/models"
	"github.com/arnavshah/rota-solver-go/pkg/scheduler"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ScheduleAsync accepts a schedule request, records a job for it and solves
// in the background. The response carries the job handle for polling; the
// request is validated up front so a bad payload is rejected before any job
// exists.
func (h *Handler) ScheduleAsync(c *gin.Context) {
	var req models.ScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := scheduler.Validate(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	payload, err := json.Marshal(req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not encode request"})
		return
	}

	job := database.ScheduleJob{
		ID:      uuid.NewString(),
		Status:  database.JobPending,
		Request: string(payload),
	}
	if err := h.DB.Create(&job).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create job record"})
		return
	}

	h.RecordUsage(c, len(req.Days), len(req.People))

	go h.runJob(job.ID, req)

	c.JSON(http.StatusAccepted, gin.H{
		"job_id": job.ID,
		"status": job.Status,
	})
}

// runJob performs one solve in the background and stores its outcome on the
// job row. The request was validated at submit time, so a solve error here
// marks the job failed rather than surfacing to any caller.
func (h *Handler) runJob(jobID string, req models.ScheduleRequest) {
	h.DB.Model(&database.ScheduleJob{}).Where("id = ?", jobID).Update("status", database.JobRunning)

	result, err := h.Scheduler.Solve(&req)
	if err != nil {
		log.Printf("job %s: solve failed: %v", jobID, err)
		h.DB.Model(&database.ScheduleJob{}).Where("id = ?", jobID).Updates(map[string]interface{}{
			"status": database.JobFailed,
			"error":  err.Error(),
		})
		return
	}

	encoded, err := json.Marshal(result)
	if err != nil {
		log.Printf("job %s: encode result failed: %v", jobID, err)
		h.DB.Model(&database.ScheduleJob{}).Where("id = ?", jobID).Updates(map[string]interface{}{
			"status": database.JobFailed,
			"error":  "could not encode result",
		})
		return
	}

	h.DB.Model(&database.ScheduleJob{}).Where("id = ?", jobID).Updates(map[string]interface{}{
		"status": database.JobCompleted,
		"result": string(encoded),
	})
}

// GetScheduleJob polls a job by handle, returning the result once completed
func (h *Handler) GetScheduleJob(c *gin.Context) {
	id := c.Param("id")

	var job database.ScheduleJob
	if err := h.DB.Where("id = ?", id).First(&job).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
		return
	}

	resp := gin.H{
		"job_id": job.ID,
		"status": job.Status,
	}
	if job.Status == database.JobFailed && job.Error != "" {
		resp["error"] = job.Error
	}
	if job.Status == database.JobCompleted {
		var result models.ScheduleResult
		if err := json.Unmarshal([]byte(job.Result), &result); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not decode stored result"})
			return
		}
		resp["result"] = &result
	}

	c.JSON(http.StatusOK, resp)
}
