// internal/handlers/branch/branch_handler.go
package branch

import (
	"net/http"

	"loyaltyhub-service/internal/pkg/response"
	service "loyaltyhub-service/internal/service/portal"

	"github.com/gin-gonic/gin"
)

type BranchHandler struct {
	portalService *service.Service
	restaurantID  int64
}

func NewBranchHandler(portalService *service.Service, restaurantID int64) *BranchHandler {
	return &BranchHandler{
		portalService: portalService,
		restaurantID:  restaurantID,
	}
}

// ListBranches returns the active branches for the branch-select screen.
func (h *BranchHandler) ListBranches(c *gin.Context) {
	branches, err := h.portalService.ListBranches(c.Request.Context(), h.restaurantID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to load branches", err)
		return
	}

	response.Success(c, http.StatusOK, "branches retrieved", branches)
}
