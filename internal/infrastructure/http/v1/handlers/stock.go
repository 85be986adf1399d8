package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"stockledger/internal/core/apperror"
	"stockledger/internal/core/id"
	"stockledger/internal/domain/ledger"
	"stockledger/internal/domain/movements/adjustment"
	"stockledger/internal/infrastructure/http/v1/dto"
)

// StockHandler handles stock-level operations: manual adjustments and
// the reconstruction reports (opening quantity, history, turnover).
type StockHandler struct {
	*BaseHandler
	adjustments *adjustment.Service
	ledger      *ledger.Service
}

// NewStockHandler creates a new stock handler.
func NewStockHandler(base *BaseHandler, adjustments *adjustment.Service, ledgerSvc *ledger.Service) *StockHandler {
	return &StockHandler{
		BaseHandler: base,
		adjustments: adjustments,
		ledger:      ledgerSvc,
	}
}

// Adjust handles POST /items/:id/adjustments.
func (h *StockHandler) Adjust(c *gin.Context) {
	itemID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	var req dto.AdjustStockRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.adjustments.Adjust(c.Request.Context(), itemID, req.Delta, req.Reason)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, dto.AdjustStockResponse{
		ID:               result.Adjustment.ID.String(),
		ItemID:           itemID.String(),
		Delta:            result.Adjustment.Delta,
		Reason:           result.Adjustment.Reason,
		PreviousQuantity: result.Previous,
		NewQuantity:      result.New,
		CreatedAt:        result.Adjustment.CreatedAt,
	})
}

// ListAdjustments handles GET /items/:id/adjustments.
func (h *StockHandler) ListAdjustments(c *gin.Context) {
	itemID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	limit, ok := h.ParseIntQuery(c, "limit", 50)
	if !ok {
		return
	}
	offset, ok := h.ParseIntQuery(c, "offset", 0)
	if !ok {
		return
	}

	adjs, err := h.adjustments.ListByItem(c.Request.Context(), itemID, limit, offset)
	if err != nil {
		h.Error(c, err)
		return
	}

	resp := make([]*dto.AdjustmentResponse, len(adjs))
	for i, a := range adjs {
		resp[i] = dto.FromAdjustment(a)
	}

	h.OK(c, resp)
}

// OpeningQuantity handles GET /items/:id/opening-quantity.
// Requires windowStart and windowEnd query parameters (RFC3339).
func (h *StockHandler) OpeningQuantity(c *gin.Context) {
	itemID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	windowStart, err := time.Parse(time.RFC3339, c.Query("windowStart"))
	if err != nil {
		h.Error(c, apperror.NewValidation("windowStart must be a RFC3339 timestamp").
			WithDetail("field", "windowStart"))
		return
	}

	windowEnd, err := time.Parse(time.RFC3339, c.Query("windowEnd"))
	if err != nil {
		h.Error(c, apperror.NewValidation("windowEnd must be a RFC3339 timestamp").
			WithDetail("field", "windowEnd"))
		return
	}

	opening, err := h.ledger.OpeningQuantity(c.Request.Context(), itemID, windowStart, windowEnd)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.OpeningQuantityResponse{
		ItemID:          itemID.String(),
		WindowStart:     windowStart,
		WindowEnd:       windowEnd,
		OpeningQuantity: opening,
	})
}

// History handles GET /items/:id/history.
func (h *StockHandler) History(c *gin.Context) {
	itemID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	limit, ok := h.ParseIntQuery(c, "limit", ledger.DefaultHistoryLimit)
	if !ok {
		return
	}

	entries, err := h.ledger.History(c.Request.Context(), itemID, limit)
	if err != nil {
		h.Error(c, err)
		return
	}

	resp := dto.HistoryResponse{
		ItemID:  itemID.String(),
		Entries: make([]dto.HistoryEntryResponse, len(entries)),
	}
	for i, e := range entries {
		resp.Entries[i] = dto.FromHistoryEntry(e)
	}

	h.OK(c, resp)
}

// Turnover handles GET /items/:id/turnover.
// Requires from and to query parameters (RFC3339).
func (h *StockHandler) Turnover(c *gin.Context) {
	itemID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	from, err := time.Parse(time.RFC3339, c.Query("from"))
	if err != nil {
		h.Error(c, apperror.NewValidation("from must be a RFC3339 timestamp").
			WithDetail("field", "from"))
		return
	}

	to, err := time.Parse(time.RFC3339, c.Query("to"))
	if err != nil {
		h.Error(c, apperror.NewValidation("to must be a RFC3339 timestamp").
			WithDetail("field", "to"))
		return
	}

	turnover, err := h.ledger.GetTurnover(c.Request.Context(), itemID, from, to)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromTurnover(turnover))
}

// RegisterRoutes registers stock routes on the item resource.
func (h *StockHandler) RegisterRoutes(items *gin.RouterGroup) {
	items.POST("/:id/adjustments", h.Adjust)
	items.GET("/:id/adjustments", h.ListAdjustments)
	items.GET("/:id/opening-quantity", h.OpeningQuantity)
	items.GET("/:id/history", h.History)
	items.GET("/:id/turnover", h.Turnover)
}
