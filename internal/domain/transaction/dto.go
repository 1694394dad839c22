// internal/domain/transaction/dto.go
package transaction

type ProcessInput struct {
	RestaurantID int64
	CustomerID   int64
	BranchID     int64 // 0 when the transaction is not branch-scoped
	Type         TransactionType
	Points       int64
	Description  string
	AmountSpent  float64
	RewardID     *int64
}

type ListFilters struct {
	CustomerID int64  `form:"customer_id"`
	BranchID   int64  `form:"branch_id"`
	Type       string `form:"type"`
	Page       int    `form:"page" binding:"min=0"`
	PageSize   int    `form:"page_size" binding:"min=0,max=100"`
}

type ListResponse struct {
	Transactions []PointTransaction `json:"transactions"`
	Total        int64              `json:"total"`
	Page         int                `json:"page"`
	PageSize     int                `json:"page_size"`
}
