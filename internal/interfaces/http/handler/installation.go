package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/raas/backend/internal/domain/energy"
	"github.com/raas/backend/internal/interfaces/http/dto"
)

// HistoryService reads the permanent energy history
type HistoryService interface {
	ForInstallation(ctx context.Context, number string, limit int) ([]*energy.PermanentEnergyRecord, error)
}

// InstallationHandler exposes installation queries
type InstallationHandler struct {
	BaseHandler
	history HistoryService
}

// NewInstallationHandler creates a new InstallationHandler
func NewInstallationHandler(history HistoryService) *InstallationHandler {
	return &InstallationHandler{history: history}
}

// History lists the permanent records of one installation, newest first
func (h *InstallationHandler) History(c *gin.Context) {
	var req dto.HistoryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	records, err := h.history.ForInstallation(c.Request.Context(), c.Param("number"), req.Limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.ToEnergyRecordResponses(records))
}
