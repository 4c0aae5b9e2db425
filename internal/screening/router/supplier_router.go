package router

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ens-screening/backend/internal/apperrors"
	"github.com/ens-screening/backend/internal/auth"
	"github.com/ens-screening/backend/internal/screening/country"
	"github.com/ens-screening/backend/internal/screening/model"
	"github.com/ens-screening/backend/internal/screening/service"
)

// SupplierRouter serves the supplier upload, review and reconciliation routes.
type SupplierRouter struct {
	ingestion      *service.IngestionService
	reconciliation *service.ReconciliationService
	query          *service.QueryService
}

func NewSupplierRouter(ingestion *service.IngestionService, reconciliation *service.ReconciliationService, query *service.QueryService) *SupplierRouter {
	return &SupplierRouter{
		ingestion:      ingestion,
		reconciliation: reconciliation,
		query:          query,
	}
}

func (sr *SupplierRouter) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/upload-excel", sr.HandleUploadExcel)
	rg.GET("/get-supplier-data", sr.HandleGetSupplierData)
	rg.PUT("/update-suggestions-bulk", sr.HandleUpdateSuggestionsBulk)
	rg.PUT("/update-suggestions-single", sr.HandleUpdateSuggestionsSingle)
	rg.GET("/get-main-supplier-data", sr.HandleGetMainSupplierData)
	rg.GET("/get-session-screening-status", sr.HandleGetSessionScreeningStatus)
	rg.GET("/get-nomatch-count", sr.HandleGetNomatchCount)
}

// HandleUploadExcel handles POST /api/supplier/upload-excel requests.
// Expects a multipart form with a "file" field carrying an xlsx sheet.
func (sr *SupplierRouter) HandleUploadExcel(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to open uploaded file"})
		return
	}
	defer file.Close()

	result, err := sr.ingestion.ProcessUpload(c.Request.Context(), file, auth.CurrentUserID(c), country.NewCachedLookup())
	if err != nil {
		c.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, result)
}

// HandleGetSupplierData handles GET /api/supplier/get-supplier-data requests.
// Query params: session_id (required), page_no, rows_per_page, validation_filter.
func (sr *SupplierRouter) HandleGetSupplierData(c *gin.Context) {
	pageNo, rowsPerPage, ok := paginationParams(c)
	if !ok {
		return
	}

	result, err := sr.query.GetSessionSuppliers(c.Request.Context(), c.Query("session_id"), pageNo, rowsPerPage, c.Query("validation_filter"))
	if err != nil {
		c.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// HandleUpdateSuggestionsBulk handles PUT /api/supplier/update-suggestions-bulk requests.
func (sr *SupplierRouter) HandleUpdateSuggestionsBulk(c *gin.Context) {
	var payload model.BulkDecisionDTO
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	result, err := sr.reconciliation.ReconcileBulk(c.Request.Context(), payload.SessionID, model.ParseDirective(payload.Status))
	if err != nil {
		c.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// HandleUpdateSuggestionsSingle handles PUT /api/supplier/update-suggestions-single requests.
// The session comes from the query string, the per-record decisions from the body.
func (sr *SupplierRouter) HandleUpdateSuggestionsSingle(c *gin.Context) {
	sessionID := c.Query("session_id")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session_id query parameter is required"})
		return
	}

	var decisions []model.RecordDecisionDTO
	if err := c.ShouldBindJSON(&decisions); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	result, err := sr.reconciliation.ReconcileSingle(c.Request.Context(), sessionID, decisions)
	if err != nil {
		c.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// HandleGetMainSupplierData handles GET /api/supplier/get-main-supplier-data requests.
func (sr *SupplierRouter) HandleGetMainSupplierData(c *gin.Context) {
	pageNo, rowsPerPage, ok := paginationParams(c)
	if !ok {
		return
	}

	result, err := sr.query.GetMasterSuppliers(c.Request.Context(), c.Query("session_id"), pageNo, rowsPerPage)
	if err != nil {
		c.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// HandleGetSessionScreeningStatus handles GET /api/supplier/get-session-screening-status requests.
// Optional query param analysis_filter: active | not_started.
func (sr *SupplierRouter) HandleGetSessionScreeningStatus(c *gin.Context) {
	pageNo, rowsPerPage, ok := paginationParams(c)
	if !ok {
		return
	}

	result, err := sr.query.GetSessionScreeningStatuses(c.Request.Context(), pageNo, rowsPerPage, c.Query("analysis_filter"))
	if err != nil {
		c.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// HandleGetNomatchCount handles GET /api/supplier/get-nomatch-count requests.
func (sr *SupplierRouter) HandleGetNomatchCount(c *gin.Context) {
	sessionID := c.Query("session_id")

	count, err := sr.query.GetReviewCount(c.Request.Context(), sessionID)
	if err != nil {
		c.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"session_id": sessionID, "count": count})
}

// paginationParams parses the optional page_no and rows_per_page query
// parameters. On a malformed value it writes a 400 and returns ok=false.
func paginationParams(c *gin.Context) (pageNo, rowsPerPage int, ok bool) {
	var err error
	if raw := c.Query("page_no"); raw != "" {
		if pageNo, err = strconv.Atoi(raw); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid 'page_no' query parameter, must be an integer"})
			return 0, 0, false
		}
	}
	if raw := c.Query("rows_per_page"); raw != "" {
		if rowsPerPage, err = strconv.Atoi(raw); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid 'rows_per_page' query parameter, must be an integer"})
			return 0, 0, false
		}
	}
	return pageNo, rowsPerPage, true
}
