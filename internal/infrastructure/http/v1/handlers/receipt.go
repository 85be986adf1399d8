package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"stockledger/internal/core/apperror"
	"stockledger/internal/core/id"
	"stockledger/internal/domain/movements/receipt"
	"stockledger/internal/infrastructure/http/v1/dto"
)

// ReceiptHandler handles HTTP requests for receipt records.
type ReceiptHandler struct {
	*BaseHandler
	service *receipt.Service
}

// NewReceiptHandler creates a new receipt handler.
func NewReceiptHandler(base *BaseHandler, service *receipt.Service) *ReceiptHandler {
	return &ReceiptHandler{BaseHandler: base, service: service}
}

// Create handles POST /receipts.
func (h *ReceiptHandler) Create(c *gin.Context) {
	var req dto.CreateReceiptRequest
	if !h.BindJSON(c, &req) {
		return
	}

	itemID, _ := id.Parse(req.ItemID)
	supplierID, _ := id.Parse(req.SupplierID)

	rec, err := h.service.Create(c.Request.Context(), receipt.CreateCommand{
		ItemID:     itemID,
		SupplierID: supplierID,
		DocumentNo: req.DocumentNo,
		Quantity:   req.Quantity,
		Date:       req.Date,
	})
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, dto.FromReceipt(rec))
}

// Get handles GET /receipts/:id.
func (h *ReceiptHandler) Get(c *gin.Context) {
	recID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	rec, err := h.service.GetByID(c.Request.Context(), recID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromReceipt(rec))
}

// Update handles PUT /receipts/:id.
func (h *ReceiptHandler) Update(c *gin.Context) {
	recID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	var req dto.UpdateReceiptRequest
	if !h.BindJSON(c, &req) {
		return
	}

	cmd := receipt.UpdateCommand{
		Date:       req.Date,
		DocumentNo: req.DocumentNo,
		Quantity:   req.Quantity,
	}
	if req.SupplierID != nil {
		supplierID, err := id.Parse(*req.SupplierID)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid supplier id"))
			return
		}
		cmd.SupplierID = &supplierID
	}

	rec, err := h.service.Update(c.Request.Context(), recID, cmd)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromReceipt(rec))
}

// Delete handles DELETE /receipts/:id.
func (h *ReceiptHandler) Delete(c *gin.Context) {
	recID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	if err := h.service.Delete(c.Request.Context(), recID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

// List handles GET /receipts.
func (h *ReceiptHandler) List(c *gin.Context) {
	limit, ok := h.ParseIntQuery(c, "limit", 50)
	if !ok {
		return
	}
	offset, ok := h.ParseIntQuery(c, "offset", 0)
	if !ok {
		return
	}

	filter := receipt.ListFilter{
		Limit:  limit,
		Offset: offset,
	}

	if itemID := c.Query("itemId"); itemID != "" {
		if parsed, err := id.Parse(itemID); err == nil {
			filter.ItemID = &parsed
		}
	}
	if supplierID := c.Query("supplierId"); supplierID != "" {
		if parsed, err := id.Parse(supplierID); err == nil {
			filter.CounterpartyID = &parsed
		}
	}
	if dateFrom := c.Query("dateFrom"); dateFrom != "" {
		if parsed, err := time.Parse(time.RFC3339, dateFrom); err == nil {
			filter.DateFrom = &parsed
		}
	}
	if dateTo := c.Query("dateTo"); dateTo != "" {
		if parsed, err := time.Parse(time.RFC3339, dateTo); err == nil {
			filter.DateTo = &parsed
		}
	}

	result, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]*dto.ReceiptResponse, len(result.Items))
	for i, rec := range result.Items {
		items[i] = dto.FromReceipt(rec)
	}

	h.OK(c, dto.ReceiptListResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// RegisterRoutes registers receipt routes.
func (h *ReceiptHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
}
