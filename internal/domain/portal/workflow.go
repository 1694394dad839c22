// internal/domain/portal/workflow.go
package portal

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"loyaltyhub-service/internal/domain/customer"
	"loyaltyhub-service/internal/domain/loyalty"
	"loyaltyhub-service/internal/domain/menu"
	xerrors "loyaltyhub-service/internal/pkg/errors"
)

type AssignmentMode string

const (
	ModeAmount AssignmentMode = "amount"
	ModeItems  AssignmentMode = "items"
)

// PointPreviewer is the narrow preview contract consumed by the workflow.
// The ruleset internals stay behind it.
type PointPreviewer interface {
	PreviewPoints(cfg *loyalty.Config, item *menu.Item, amount float64, tier string, quantity int64) int64
}

// OrderLine is one formatted entry of the pending order, shared by the
// confirmation payload and the commit description.
type OrderLine struct {
	ItemID    int64   `json:"item_id,omitempty"`
	Name      string  `json:"name"`
	Quantity  int64   `json:"quantity"`
	LineTotal float64 `json:"line_total"`
}

// Workflow is the point-assignment state for one dashboard session. All
// methods are pure state transitions; network calls live in the portal
// service, which persists the workflow between requests.
type Workflow struct {
	Mode       AssignmentMode     `json:"mode"`
	EmailQuery string             `json:"email_query"`
	SearchSeq  uint64             `json:"search_seq"`
	Customer   *customer.Customer `json:"customer,omitempty"`

	OrderAmount   string          `json:"order_amount"`
	SelectedItems map[int64]int64 `json:"selected_items"`

	ConfirmOpen bool   `json:"confirm_open"`
	Committing  bool   `json:"committing"`
	Error       string `json:"error,omitempty"`

	// One-time acknowledgment after a successful commit. The resolved
	// customer is kept visible until ClearCustomerAt passes.
	SuccessNote     string    `json:"success_note,omitempty"`
	ClearCustomerAt time.Time `json:"clear_customer_at,omitzero"`
}

func NewWorkflow() Workflow {
	return Workflow{
		Mode:          ModeAmount,
		SelectedItems: make(map[int64]int64),
	}
}

// SetMode switches the assignment mode. The other mode's in-progress input
// is deliberately preserved so toggling back restores prior entry.
func (w *Workflow) SetMode(mode AssignmentMode) error {
	if mode != ModeAmount && mode != ModeItems {
		return xerrors.ErrInvalidInput
	}
	w.Mode = mode
	return nil
}

// ApplySearchResult records a customer lookup outcome. Results carrying a
// sequence number older than the latest applied one are discarded, so a
// slow stale response never overwrites a newer result. A nil customer
// clears the selection silently.
func (w *Workflow) ApplySearchResult(seq uint64, c *customer.Customer) bool {
	if seq < w.SearchSeq {
		return false
	}
	w.SearchSeq = seq
	w.Customer = c
	w.SuccessNote = ""
	w.ClearCustomerAt = time.Time{}
	return true
}

// AdjustQuantity applies a delta to a selected item quantity, clamped at
// zero, and returns the new quantity.
func (w *Workflow) AdjustQuantity(itemID int64, delta int64) int64 {
	if w.SelectedItems == nil {
		w.SelectedItems = make(map[int64]int64)
	}
	q := w.SelectedItems[itemID] + delta
	if q < 0 {
		q = 0
	}
	w.SelectedItems[itemID] = q
	return q
}

// ParsedOrderAmount parses the amount-mode text input. Unparsable input is
// treated as zero.
func (w *Workflow) ParsedOrderAmount() float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(w.OrderAmount), 64)
	if err != nil {
		return 0
	}
	return v
}

// ComputePoints is recomputed from scratch on every call; nothing is
// cached, and the commit path calls it again immediately before the
// transactional write.
func (w *Workflow) ComputePoints(cfg *loyalty.Config, previewer PointPreviewer, items []menu.Item) int64 {
	if cfg == nil || w.Customer == nil {
		return 0
	}

	if w.Mode == ModeAmount {
		amount := w.ParsedOrderAmount()
		if amount <= 0 {
			return 0
		}
		return previewer.PreviewPoints(cfg, nil, amount, w.Customer.CurrentTier, 1)
	}

	var total int64
	for itemID, qty := range w.SelectedItems {
		if qty <= 0 {
			continue
		}
		item := menu.FindByID(items, itemID)
		if item == nil {
			// Since-removed or inactive catalog entry; contributes nothing.
			continue
		}
		total += previewer.PreviewPoints(cfg, item, item.SellingPrice, w.Customer.CurrentTier, qty)
	}
	return total
}

// OrderSummary builds the human-readable description, total spend and the
// per-line breakdown for the pending assignment. Item lines follow catalog
// order (selection map order is not deterministic).
func (w *Workflow) OrderSummary(items []menu.Item) (string, float64, []OrderLine) {
	if w.Mode == ModeAmount {
		amount := w.ParsedOrderAmount()
		desc := fmt.Sprintf("Order amount: %s AED", strconv.FormatFloat(amount, 'f', -1, 64))
		return desc, amount, []OrderLine{{Name: "Order amount", Quantity: 1, LineTotal: amount}}
	}

	ordered := make([]int64, 0, len(w.SelectedItems))
	for itemID, qty := range w.SelectedItems {
		if qty > 0 && menu.FindByID(items, itemID) != nil {
			ordered = append(ordered, itemID)
		}
	}
	sort.Slice(ordered, func(i, j int) bool {
		return catalogIndex(items, ordered[i]) < catalogIndex(items, ordered[j])
	})

	var (
		parts []string
		total float64
		lines []OrderLine
	)
	for _, itemID := range ordered {
		item := menu.FindByID(items, itemID)
		qty := w.SelectedItems[itemID]
		lineTotal := item.SellingPrice * float64(qty)
		parts = append(parts, fmt.Sprintf("%s x%d", item.Name, qty))
		total += lineTotal
		lines = append(lines, OrderLine{
			ItemID:    item.ID,
			Name:      item.Name,
			Quantity:  qty,
			LineTotal: lineTotal,
		})
	}
	return "Items: " + strings.Join(parts, ", "), total, lines
}

// OpenConfirmation is only reachable with a resolved customer and a
// strictly positive preview.
func (w *Workflow) OpenConfirmation(points int64) error {
	if w.Customer == nil {
		return xerrors.ErrNotFound
	}
	if points <= 0 {
		return xerrors.ErrNothingToAssign
	}
	w.ConfirmOpen = true
	return nil
}

func (w *Workflow) CloseConfirmation() {
	w.ConfirmOpen = false
}

// ResetAfterCommit clears the transient inputs once a commit succeeded.
// The resolved customer survives until clearAt so the operator sees the
// refreshed balance before the screen readies for the next customer.
func (w *Workflow) ResetAfterCommit(note string, clearAt time.Time) {
	w.EmailQuery = ""
	w.OrderAmount = ""
	w.SelectedItems = make(map[int64]int64)
	w.ConfirmOpen = false
	w.Error = ""
	w.SuccessNote = note
	w.ClearCustomerAt = clearAt
}

// Tick applies time-based housekeeping on session load.
func (w *Workflow) Tick(now time.Time) {
	if !w.ClearCustomerAt.IsZero() && now.After(w.ClearCustomerAt) {
		w.Customer = nil
		w.SuccessNote = ""
		w.ClearCustomerAt = time.Time{}
	}
}

func catalogIndex(items []menu.Item, id int64) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return len(items)
}
