package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/brightpath-edu/assessment-engine/internal/services"
	"github.com/brightpath-edu/assessment-engine/internal/utils"
)

type ExportHandler struct {
	BaseHandler
	exportService services.ExportService
}

func NewExportHandler(exportService services.ExportService, logger utils.Logger) *ExportHandler {
	return &ExportHandler{
		BaseHandler:   NewBaseHandler(logger),
		exportService: exportService,
	}
}

// ExportReportCard downloads a report card in the requested format
// @Summary Export report card
// @Tags exports
// @Produce application/octet-stream
// @Param course_id path uint true "Course ID"
// @Param student_id path uint true "Student ID"
// @Param format query string false "csv or xlsx" default(xlsx)
// @Success 200 {file} binary
// @Failure 404 {object} ErrorResponse
// @Router /exports/courses/{course_id}/students/{student_id}/report-card [get]
func (h *ExportHandler) ExportReportCard(c *gin.Context) {
	courseID := h.parseIDParam(c, "course_id")
	if courseID == 0 {
		return
	}
	studentID := h.parseIDParam(c, "student_id")
	if studentID == 0 {
		return
	}

	format := c.DefaultQuery("format", "xlsx")
	filename := fmt.Sprintf("report-card-%d-%d.%s", courseID, studentID, format)

	var (
		data        []byte
		contentType string
		err         error
	)
	switch format {
	case "csv":
		data, err = h.exportService.ExportReportCardCSV(c.Request.Context(), courseID, studentID)
		contentType = "text/csv"
	case "xlsx":
		data, err = h.exportService.ExportReportCardExcel(c.Request.Context(), courseID, studentID)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Unsupported export format",
			Details: format,
		})
		return
	}
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, data)
}
