package handler

import (
	"errors"
	"net/http"

	appintegration "github.com/erp/catalogsync/internal/application/integration"
	"github.com/erp/catalogsync/internal/domain/integration"
	"github.com/erp/catalogsync/internal/interfaces/http/dto"
	"github.com/erp/catalogsync/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// DefaultJobListLimit is used when GET /catalog-sync/jobs has no limit
const DefaultJobListLimit = 20

// CatalogSyncHandler serves the catalog sync endpoints
type CatalogSyncHandler struct {
	BaseHandler
	service  *appintegration.CatalogSyncService
	defaults integration.SyncOptions
}

// NewCatalogSyncHandler creates a new CatalogSyncHandler. defaults apply to
// any option a run request leaves out.
func NewCatalogSyncHandler(service *appintegration.CatalogSyncService, defaults integration.SyncOptions) *CatalogSyncHandler {
	return &CatalogSyncHandler{
		service:  service,
		defaults: defaults,
	}
}

// RunSync godoc
// @ID           runCatalogSync
// @Summary      Run a catalog sync
// @Description  Fetches the remote catalog and reconciles it into local products in one synchronous pass.
// @Description  A fetch failure answers 502 with the failed run in data.
// @Tags         catalog-sync
// @Accept       json
// @Produce      json
// @Param        request body RunSyncRequest true "Credentials and run options"
// @Success      200 {object} dto.Response{data=appintegration.SyncResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      429 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      502 {object} dto.Response{data=appintegration.SyncResponse,error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /catalog-sync/runs [post]
func (h *CatalogSyncHandler) RunSync(c *gin.Context) {
	var req RunSyncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.service.Run(c.Request.Context(), appintegration.RunSyncInput{
		Credentials: req.Credentials.ToDomain(),
		Options:     req.Options.Apply(h.defaults),
	})
	if err != nil {
		if resp != nil && errors.Is(err, integration.ErrSourceUnavailable) {
			c.JSON(http.StatusBadGateway, dto.Response{
				Success: false,
				Data:    resp,
				Error: &dto.ErrorInfo{
					Code:      dto.ErrCodeSourceUnavailable,
					Message:   resp.Message,
					RequestID: middleware.GetRequestID(c),
				},
			})
			return
		}
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// TestConnection godoc
// @ID           testCatalogSyncConnection
// @Summary      Test remote catalog credentials
// @Description  Fetches a single record to check that the credentials reach the remote catalog
// @Tags         catalog-sync
// @Accept       json
// @Produce      json
// @Param        request body TestConnectionRequest true "Remote store credentials"
// @Success      200 {object} dto.Response{data=appintegration.ConnectionTestResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /catalog-sync/test-connection [post]
func (h *CatalogSyncHandler) TestConnection(c *gin.Context) {
	var req TestConnectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.service.TestConnection(c.Request.Context(), req.Credentials.ToDomain())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListJobs godoc
// @ID           listCatalogSyncJobs
// @Summary      List sync jobs
// @Description  Returns recent sync jobs, newest first
// @Tags         catalog-sync
// @Produce      json
// @Param        limit query int false "Maximum jobs to return" minimum(1) maximum(100) default(20)
// @Success      200 {object} dto.Response{data=[]appintegration.SyncJobResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /catalog-sync/jobs [get]
func (h *CatalogSyncHandler) ListJobs(c *gin.Context) {
	var query ListJobsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	if query.Limit == 0 {
		query.Limit = DefaultJobListLimit
	}

	jobs, err := h.service.ListJobs(c.Request.Context(), query.Limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, jobs, len(jobs), query.Limit)
}

// GetJob godoc
// @ID           getCatalogSyncJob
// @Summary      Get a sync job
// @Description  Returns one sync job by ID
// @Tags         catalog-sync
// @Produce      json
// @Param        id path string true "Job ID" format(uuid)
// @Success      200 {object} dto.Response{data=appintegration.SyncJobResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /catalog-sync/jobs/{id} [get]
func (h *CatalogSyncHandler) GetJob(c *gin.Context) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	job, err := h.service.GetJob(c.Request.Context(), uuid.MustParse(req.ID))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, job)
}

// GetSummary godoc
// @ID           getCatalogSyncSummary
// @Summary      Get the last run summary
// @Description  Returns the ephemeral snapshot of the last finished run
// @Tags         catalog-sync
// @Produce      json
// @Success      200 {object} dto.Response{data=integration.SyncSummary}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /catalog-sync/summary [get]
func (h *CatalogSyncHandler) GetSummary(c *gin.Context) {
	summary, err := h.service.LastSummary(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}
