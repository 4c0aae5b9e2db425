package reports

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ens-screening/backend/internal/apperrors"
)

// ReportRouter serves report download routes.
type ReportRouter struct {
	service *ReportService
}

func NewReportRouter(service *ReportService) *ReportRouter {
	return &ReportRouter{service: service}
}

func (rr *ReportRouter) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/download", rr.HandleDownload)
	rg.GET("/download-all", rr.HandleDownloadAll)
}

// HandleDownload handles GET /api/report/download requests.
// Query params: session_id, ens_id, type_of_file.
func (rr *ReportRouter) HandleDownload(c *gin.Context) {
	report, err := rr.service.DownloadLatest(c.Request.Context(), c.Query("session_id"), c.Query("ens_id"), c.Query("type_of_file"))
	if err != nil {
		c.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	defer report.Body.Close()

	rr.stream(c, report)
}

// HandleDownloadAll handles GET /api/report/download-all requests.
// Query params: session_id.
func (rr *ReportRouter) HandleDownloadAll(c *gin.Context) {
	report, err := rr.service.DownloadAllZip(c.Request.Context(), c.Query("session_id"))
	if err != nil {
		c.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	defer report.Body.Close()

	rr.stream(c, report)
}

func (rr *ReportRouter) stream(c *gin.Context, report *Report) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.Filename))
	c.DataFromReader(http.StatusOK, -1, report.ContentType, report.Body, nil)
}
