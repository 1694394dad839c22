// internal/service/portal/dto.go
package portal

import (
	"loyaltyhub-service/internal/domain/customer"
	"loyaltyhub-service/internal/domain/portal"
)

// SessionView is what a staff terminal renders: the phase, the branch it
// is bound to and the workflow state with the freshly computed preview.
type SessionView struct {
	Phase          portal.Phase  `json:"phase"`
	BranchID       int64         `json:"branch_id"`
	BranchName     string        `json:"branch_name"`
	BranchLocation string        `json:"branch_location"`
	Error          string        `json:"error,omitempty"`
	Workflow       *WorkflowView `json:"workflow,omitempty"`
}

type WorkflowView struct {
	Mode          portal.AssignmentMode `json:"mode"`
	EmailQuery    string                `json:"email_query"`
	Customer      *customer.Customer    `json:"customer,omitempty"`
	OrderAmount   string                `json:"order_amount"`
	SelectedItems map[int64]int64       `json:"selected_items"`
	PointsPreview int64                 `json:"points_preview"`
	ConfirmOpen   bool                  `json:"confirm_open"`
	Committing    bool                  `json:"committing"`
	Error         string                `json:"error,omitempty"`
	SuccessNote   string                `json:"success_note,omitempty"`
}

// ConfirmationView is the modal payload: customer, the pending point total
// and the order breakdown, formatted identically to the commit description.
type ConfirmationView struct {
	Customer    *customer.Customer `json:"customer"`
	Points      int64              `json:"points"`
	Description string             `json:"description"`
	AmountSpent float64            `json:"amount_spent"`
	Lines       []portal.OrderLine `json:"lines"`
}

// CommitResult acknowledges a committed assignment.
type CommitResult struct {
	Reference   string             `json:"reference"`
	Points      int64              `json:"points"`
	Customer    *customer.Customer `json:"customer"`
	SuccessNote string             `json:"success_note"`
}

type StartSessionRequest struct {
	BranchID int64 `json:"branch_id" binding:"required"`
}

type PasswordRequest struct {
	Password string `json:"password" binding:"required"`
}

type SetModeRequest struct {
	Mode portal.AssignmentMode `json:"mode" binding:"required"`
}

type OrderAmountRequest struct {
	Amount string `json:"amount"`
}

type AdjustQuantityRequest struct {
	Delta int64 `json:"delta" binding:"required"`
}
