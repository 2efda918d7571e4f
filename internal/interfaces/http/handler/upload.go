package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/raas/backend/internal/application/ingestion"
	"github.com/raas/backend/internal/domain/bulk"
	"github.com/raas/backend/internal/domain/shared"
	"github.com/raas/backend/internal/interfaces/http/dto"
	"github.com/raas/backend/internal/interfaces/http/middleware"
)

// uploadFormField is the multipart part carrying the spreadsheet
const uploadFormField = "file"

// UploadService is the ingestion surface used by UploadHandler
type UploadService interface {
	CanUpload(role string) bool
	Upload(ctx context.Context, req ingestion.UploadRequest) (*ingestion.UploadResult, error)
	GetBatch(ctx context.Context, id uuid.UUID) (*bulk.UploadBatch, error)
	ListBatches(ctx context.Context, filter bulk.UploadBatchFilter, page, pageSize int) (*bulk.UploadBatchListResult, error)
}

// UploadHandler handles spreadsheet uploads and the batch ledger
type UploadHandler struct {
	BaseHandler
	uploads UploadService
}

// NewUploadHandler creates a new UploadHandler
func NewUploadHandler(uploads UploadService) *UploadHandler {
	return &UploadHandler{uploads: uploads}
}

// Upload ingests one spreadsheet for a distributor.
// The caller's role is checked before the multipart body is parsed.
func (h *UploadHandler) Upload(c *gin.Context) {
	if !h.uploads.CanUpload(middleware.GetJWTRole(c)) {
		h.HandleError(c, shared.ErrForbidden)
		return
	}

	var form dto.UploadForm
	if err := c.ShouldBind(&form); err != nil {
		h.ValidationError(c, err)
		return
	}
	distributorID, err := uuid.Parse(form.DistributorID)
	if err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidDistributor, "Distribuidora inválida")
		return
	}

	fh, err := c.FormFile(uploadFormField)
	if err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidFile, "Arquivo é obrigatório")
		return
	}
	file, err := fh.Open()
	if err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidFile, "Não foi possível ler o arquivo enviado")
		return
	}
	defer file.Close()

	req := ingestion.UploadRequest{
		File:          file,
		FileName:      fh.Filename,
		FileSize:      fh.Size,
		DistributorID: distributorID,
		Role:          middleware.GetJWTRole(c),
	}
	if userID, err := getUserID(c); err == nil {
		req.UploadedBy = &userID
	}

	result, err := h.uploads.Upload(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, dto.UploadResponse{
		Batch:      dto.ToUploadBatchResponse(result.Batch),
		Outcome:    string(result.Outcome),
		Warnings:   result.Warnings,
		ArchiveKey: result.ArchiveKey,
	})
}

// GetBatch returns one upload batch
func (h *UploadHandler) GetBatch(c *gin.Context) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	batch, err := h.uploads.GetBatch(c.Request.Context(), uuid.MustParse(req.ID))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.ToUploadBatchResponse(batch))
}

// ListBatches lists upload batches, newest first by default
func (h *UploadHandler) ListBatches(c *gin.Context) {
	req := dto.ListUploadBatchesRequest{ListRequest: dto.DefaultListRequest()}
	if err := c.ShouldBindQuery(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	filter := bulk.UploadBatchFilter{SortBy: req.SortBy, SortOrder: req.SortOrder}
	if req.DistributorID != "" {
		id := uuid.MustParse(req.DistributorID)
		filter.DistributorID = &id
	}
	if req.Status != "" {
		status := bulk.BatchStatus(req.Status)
		filter.Status = &status
	}

	result, err := h.uploads.ListBatches(c.Request.Context(), filter, req.Page, req.PageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, dto.ToUploadBatchResponses(result.Items), result.TotalCount, req.Page, req.PageSize)
}
