package httpapi

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sandeepkv93/dayly/internal/model"
	"github.com/sandeepkv93/dayly/internal/schedule"
	"github.com/sandeepkv93/dayly/internal/summary"
)

type activityDTO struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
	Start     string `json:"start"`
	End       string `json:"end"`
}

type progressDTO struct {
	Completed int     `json:"completed"`
	Total     int     `json:"total"`
	Fraction  float64 `json:"fraction"`
}

type snapshotDTO struct {
	Activities []activityDTO `json:"activities"`
	Progress   progressDTO   `json:"progress"`
}

type createRequest struct {
	Title string `json:"title"`
	Start string `json:"start"`
	End   string `json:"end"`
}

type completionRequest struct {
	Completed *bool `json:"completed"`
}

type summaryDTO struct {
	Percent   int `json:"percent"`
	Missed    int `json:"missed"`
	Completed int `json:"completed"`
	Total     int `json:"total"`
}

func toActivityDTO(a model.Activity) activityDTO {
	return activityDTO{
		ID:        a.ID,
		Title:     a.Title,
		Completed: a.Completed,
		Start:     a.Interval.Start.String(),
		End:       a.Interval.End.String(),
	}
}

func toSnapshotDTO(s schedule.Snapshot) snapshotDTO {
	out := snapshotDTO{
		Activities: make([]activityDTO, 0, len(s.Activities)),
		Progress: progressDTO{
			Completed: s.Progress.Completed,
			Total:     s.Progress.Total,
			Fraction:  s.Progress.Fraction,
		},
	}
	for _, a := range s.Activities {
		out.Activities = append(out.Activities, toActivityDTO(a))
	}
	return out
}

func toSummaryDTO(s summary.Summary) summaryDTO {
	return summaryDTO{Percent: s.Percent, Missed: s.Missed, Completed: s.Completed, Total: s.Total}
}

func (s *Server) handleListActivities(c *gin.Context) {
	c.JSON(http.StatusOK, toSnapshotDTO(s.store.Snapshot()))
}

func (s *Server) handleCreateActivity(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	start, err := model.ParseClock(req.Start)
	if err != nil {
		s.respondError(c, http.StatusBadRequest, fmt.Errorf("start: %w", err))
		return
	}
	end, err := model.ParseClock(req.End)
	if err != nil {
		s.respondError(c, http.StatusBadRequest, fmt.Errorf("end: %w", err))
		return
	}
	interval, err := model.NewInterval(start, end)
	if err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	activity, err := model.NewActivity(req.Title, interval)
	if err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}

	snap, err := s.store.Add(activity)
	if err != nil {
		s.respondError(c, statusFor(err), err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"activity": toActivityDTO(activity),
		"schedule": toSnapshotDTO(snap),
	})
}

func (s *Server) handleSetCompletion(c *gin.Context) {
	var req completionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	if req.Completed == nil {
		s.respondError(c, http.StatusBadRequest, errors.New("completed is required"))
		return
	}
	snap, err := s.store.SetCompleted(c.Param("id"), *req.Completed)
	if err != nil {
		s.respondError(c, statusFor(err), err)
		return
	}
	c.JSON(http.StatusOK, toSnapshotDTO(snap))
}

func (s *Server) handleDeleteActivity(c *gin.Context) {
	snap, err := s.store.Remove(c.Param("id"))
	if err != nil {
		s.respondError(c, statusFor(err), err)
		return
	}
	c.JSON(http.StatusOK, toSnapshotDTO(snap))
}

// handleSummary reports the live schedule's summary without notifying.
func (s *Server) handleSummary(c *gin.Context) {
	sum, ok := summary.Summarize(s.store.Snapshot().Activities)
	if !ok {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, toSummaryDTO(sum))
}

func (s *Server) handleRunSummary(c *gin.Context) {
	if s.runner == nil {
		s.respondError(c, http.StatusNotImplemented, errors.New("summary job not configured"))
		return
	}
	sum, ok, err := s.runner.RunSummary(c.Request.Context())
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, err)
		return
	}
	if !ok {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, toSummaryDTO(sum))
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, schedule.ErrOverlap):
		return http.StatusConflict
	case errors.Is(err, schedule.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrInvalidTimeRange), errors.Is(err, model.ErrEmptyTitle):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
