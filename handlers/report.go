package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"meetnow/models"
	"meetnow/store"
)

type createReportRequest struct {
	ReporterID     looseString `json:"reporterId"`
	ReportedUserID looseString `json:"reportedUserId"`
	Reason         looseString `json:"reason"`
	Details        looseString `json:"details"`
}

// CreateReport files a moderation report and forwards a copy to the audit
// sink. A sink failure is logged and does not fail the request.
func (h *Handler) CreateReport(c *gin.Context) {
	var req createReportRequest
	if !bindJSON(c, &req) {
		return
	}

	reporter, reported, reason := req.ReporterID.trimmed(), req.ReportedUserID.trimmed(), req.Reason.trimmed()
	if reporter == "" || reported == "" || reason == "" {
		badRequest(c, "missing required fields")
		return
	}

	report := h.store.AddReport(store.ReportInput{
		ReporterID:     reporter,
		ReportedUserID: reported,
		Reason:         reason,
		Details:        truncateRunes(string(req.Details), models.MaxReportDetailsLength),
	})

	if err := h.audit.Record(c.Request.Context(), report); err != nil {
		h.log.Error().Stack().Err(err).Str("report_id", report.ID).Msg("failed to archive report")
	}
	c.JSON(http.StatusCreated, report)
}
