// internal/handlers/portal/portal_handler.go
package portal

import (
	"errors"
	"net/http"
	"strconv"

	"loyaltyhub-service/internal/middleware"
	xerrors "loyaltyhub-service/internal/pkg/errors"
	"loyaltyhub-service/internal/pkg/response"
	service "loyaltyhub-service/internal/service/portal"

	"github.com/gin-gonic/gin"
)

type PortalHandler struct {
	portalService *service.Service
	restaurantID  int64
}

func NewPortalHandler(portalService *service.Service, restaurantID int64) *PortalHandler {
	return &PortalHandler{
		portalService: portalService,
		restaurantID:  restaurantID,
	}
}

// StartSession binds a new staff session to a branch and issues the portal
// token. The session starts in the password phase.
func (h *PortalHandler) StartSession(c *gin.Context) {
	var req service.StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "branch_id is required", err)
		return
	}

	token, view, err := h.portalService.StartSession(c.Request.Context(), h.restaurantID, req.BranchID)
	if err != nil {
		h.respondError(c, "failed to start session", err)
		return
	}

	response.Success(c, http.StatusCreated, "session started", gin.H{
		"token":   token,
		"session": view,
	})
}

// SubmitPassword verifies the branch password. A wrong password keeps the
// session in the password phase with the error set on the view.
func (h *PortalHandler) SubmitPassword(c *gin.Context) {
	var req service.PasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "password is required", err)
		return
	}

	jti := middleware.MustGetJTI(c)
	view, err := h.portalService.SubmitPassword(c.Request.Context(), jti, c.ClientIP(), req.Password)
	if err != nil {
		h.respondError(c, "failed to verify password", err)
		return
	}

	response.Success(c, http.StatusOK, "password processed", view)
}

func (h *PortalHandler) GetSession(c *gin.Context) {
	view, err := h.portalService.GetSession(c.Request.Context(), middleware.MustGetJTI(c))
	if err != nil {
		h.respondError(c, "failed to load session", err)
		return
	}

	response.Success(c, http.StatusOK, "session retrieved", view)
}

// Reset invalidates the session and blacklists its token, forcing the
// terminal back through branch selection and the password gate.
func (h *PortalHandler) Reset(c *gin.Context) {
	jti := middleware.MustGetJTI(c)
	if err := h.portalService.Reset(c.Request.Context(), jti, middleware.GetTokenExpiry(c)); err != nil {
		h.respondError(c, "failed to reset session", err)
		return
	}

	response.Success(c, http.StatusOK, "session reset", nil)
}

func (h *PortalHandler) GetStats(c *gin.Context) {
	stats, err := h.portalService.GetStats(c.Request.Context(), middleware.MustGetJTI(c))
	if err != nil {
		h.respondError(c, "failed to load branch stats", err)
		return
	}

	response.Success(c, http.StatusOK, "stats retrieved", stats)
}

func (h *PortalHandler) ListMenu(c *gin.Context) {
	items, err := h.portalService.ListMenu(c.Request.Context(), middleware.MustGetJTI(c))
	if err != nil {
		h.respondError(c, "failed to load menu", err)
		return
	}

	response.Success(c, http.StatusOK, "menu retrieved", items)
}

// SearchCustomer looks a customer up by email. The seq query parameter is a
// client-chosen monotonic sequence number; responses carrying a stale seq
// are dropped server-side so an older lookup can never overwrite a newer one.
func (h *PortalHandler) SearchCustomer(c *gin.Context) {
	email := c.Query("email")

	seq, err := strconv.ParseUint(c.DefaultQuery("seq", "0"), 10, 64)
	if err != nil {
		response.ValidationError(c, "seq must be a non-negative integer", err)
		return
	}

	view, err := h.portalService.SearchCustomer(c.Request.Context(), middleware.MustGetJTI(c), email, seq)
	if err != nil {
		h.respondError(c, "failed to search customers", err)
		return
	}

	response.Success(c, http.StatusOK, "search processed", view)
}

// ListCustomerTransactions pages a customer's point ledger.
func (h *PortalHandler) ListCustomerTransactions(c *gin.Context) {
	customerID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ValidationError(c, "invalid customer id", err)
		return
	}

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		response.ValidationError(c, "page must be an integer", err)
		return
	}
	pageSize, err := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if err != nil {
		response.ValidationError(c, "page_size must be an integer", err)
		return
	}

	ledger, err := h.portalService.ListCustomerLedger(c.Request.Context(), middleware.MustGetJTI(c), customerID, page, pageSize)
	if err != nil {
		h.respondError(c, "failed to load transactions", err)
		return
	}

	response.Success(c, http.StatusOK, "transactions retrieved", ledger)
}

func (h *PortalHandler) SetMode(c *gin.Context) {
	var req service.SetModeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "mode is required", err)
		return
	}

	view, err := h.portalService.SetMode(c.Request.Context(), middleware.MustGetJTI(c), req.Mode)
	if err != nil {
		if errors.Is(err, xerrors.ErrInvalidInput) {
			response.ValidationError(c, "mode must be amount or items", err)
			return
		}
		h.respondError(c, "failed to set mode", err)
		return
	}

	response.Success(c, http.StatusOK, "mode updated", view)
}

func (h *PortalHandler) SetOrderAmount(c *gin.Context) {
	var req service.OrderAmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request body", err)
		return
	}

	view, err := h.portalService.SetOrderAmount(c.Request.Context(), middleware.MustGetJTI(c), req.Amount)
	if err != nil {
		h.respondError(c, "failed to set order amount", err)
		return
	}

	response.Success(c, http.StatusOK, "order amount updated", view)
}

func (h *PortalHandler) AdjustQuantity(c *gin.Context) {
	itemID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ValidationError(c, "invalid item id", err)
		return
	}

	var req service.AdjustQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "delta is required", err)
		return
	}

	view, err := h.portalService.AdjustQuantity(c.Request.Context(), middleware.MustGetJTI(c), itemID, req.Delta)
	if err != nil {
		h.respondError(c, "failed to adjust quantity", err)
		return
	}

	response.Success(c, http.StatusOK, "quantity updated", view)
}

// GetPreview returns the workflow with a freshly recomputed point preview.
func (h *PortalHandler) GetPreview(c *gin.Context) {
	view, err := h.portalService.GetSession(c.Request.Context(), middleware.MustGetJTI(c))
	if err != nil {
		h.respondError(c, "failed to compute preview", err)
		return
	}

	response.Success(c, http.StatusOK, "preview computed", view.Workflow)
}

func (h *PortalHandler) OpenConfirmation(c *gin.Context) {
	confirmation, err := h.portalService.OpenConfirmation(c.Request.Context(), middleware.MustGetJTI(c))
	if err != nil {
		if errors.Is(err, xerrors.ErrNothingToAssign) {
			response.ValidationError(c, "nothing to assign", err)
			return
		}
		h.respondError(c, "failed to open confirmation", err)
		return
	}

	response.Success(c, http.StatusOK, "confirmation opened", confirmation)
}

func (h *PortalHandler) CloseConfirmation(c *gin.Context) {
	view, err := h.portalService.CloseConfirmation(c.Request.Context(), middleware.MustGetJTI(c))
	if err != nil {
		h.respondError(c, "failed to close confirmation", err)
		return
	}

	response.Success(c, http.StatusOK, "confirmation closed", view)
}

// Commit performs the assignment. Business failures (no points, processor
// errors) come back as a 200 with the error carried on the workflow view,
// mirroring how the terminal surfaces them inline.
func (h *PortalHandler) Commit(c *gin.Context) {
	result, view, err := h.portalService.Commit(c.Request.Context(), middleware.MustGetJTI(c))
	if err != nil {
		if errors.Is(err, xerrors.ErrCommitInFlight) {
			response.Error(c, http.StatusConflict, "a commit is already in progress", err)
			return
		}
		h.respondError(c, "failed to commit assignment", err)
		return
	}

	response.Success(c, http.StatusOK, "commit processed", gin.H{
		"result":   result,
		"workflow": view,
	})
}

// respondError maps service errors onto HTTP statuses.
func (h *PortalHandler) respondError(c *gin.Context, message string, err error) {
	switch {
	case errors.Is(err, xerrors.ErrSessionExpired):
		response.Unauthorized(c, "session expired, select a branch to start over")
	case errors.Is(err, xerrors.ErrInvalidPhase):
		response.Error(c, http.StatusConflict, "operation not allowed in current phase", err)
	case errors.Is(err, xerrors.ErrVerifyInFlight):
		response.Error(c, http.StatusConflict, "a password verification is already in progress", err)
	case errors.Is(err, xerrors.ErrRateLimited):
		response.Error(c, http.StatusTooManyRequests, "too many password attempts, try again later", err)
	case errors.Is(err, xerrors.ErrNotFound):
		response.NotFound(c, message)
	case errors.Is(err, xerrors.ErrInvalidInput):
		response.ValidationError(c, message, err)
	default:
		response.Error(c, http.StatusInternalServerError, message, err)
	}
}
