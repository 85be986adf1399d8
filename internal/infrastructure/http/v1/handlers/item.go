package handlers

import (
	"github.com/gin-gonic/gin"

	"stockledger/internal/core/apperror"
	"stockledger/internal/core/id"
	"stockledger/internal/domain/catalogs/item"
	"stockledger/internal/infrastructure/http/v1/dto"
)

// ItemHandler handles HTTP requests for the item catalog.
type ItemHandler struct {
	*BaseHandler
	service *item.Service
}

// NewItemHandler creates a new item handler.
func NewItemHandler(base *BaseHandler, service *item.Service) *ItemHandler {
	return &ItemHandler{BaseHandler: base, service: service}
}

// Create handles POST /items.
func (h *ItemHandler) Create(c *gin.Context) {
	var req dto.CreateItemRequest
	if !h.BindJSON(c, &req) {
		return
	}

	it, err := h.service.Create(c.Request.Context(), item.CreateCommand{
		Code:            req.Code,
		Name:            req.Name,
		Category:        req.Category,
		Unit:            req.Unit,
		MinimumQuantity: req.MinimumQuantity,
	})
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, dto.FromItem(it))
}

// Get handles GET /items/:id.
func (h *ItemHandler) Get(c *gin.Context) {
	itemID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	it, err := h.service.GetByID(c.Request.Context(), itemID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromItem(it))
}

// Update handles PUT /items/:id.
func (h *ItemHandler) Update(c *gin.Context) {
	itemID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	var req dto.UpdateItemRequest
	if !h.BindJSON(c, &req) {
		return
	}

	it, err := h.service.Update(c.Request.Context(), itemID, item.UpdateCommand{
		Code:            req.Code,
		Name:            req.Name,
		Category:        req.Category,
		Unit:            req.Unit,
		MinimumQuantity: req.MinimumQuantity,
		Active:          req.Active,
	})
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromItem(it))
}

// Delete handles DELETE /items/:id.
func (h *ItemHandler) Delete(c *gin.Context) {
	itemID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	if err := h.service.Delete(c.Request.Context(), itemID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

// List handles GET /items.
func (h *ItemHandler) List(c *gin.Context) {
	limit, ok := h.ParseIntQuery(c, "limit", 50)
	if !ok {
		return
	}
	offset, ok := h.ParseIntQuery(c, "offset", 0)
	if !ok {
		return
	}

	filter := item.ListFilter{
		Search:       c.Query("search"),
		Category:     c.Query("category"),
		ActiveOnly:   c.Query("activeOnly") == "true",
		BelowMinimum: c.Query("belowMinimum") == "true",
		Limit:        limit,
		Offset:       offset,
	}

	result, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]*dto.ItemResponse, len(result.Items))
	for i, it := range result.Items {
		items[i] = dto.FromItem(it)
	}

	h.OK(c, dto.ItemListResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// LowStock handles GET /items/low-stock.
func (h *ItemHandler) LowStock(c *gin.Context) {
	items, err := h.service.LowStock(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	resp := make([]*dto.ItemResponse, len(items))
	for i, it := range items {
		resp[i] = dto.FromItem(it)
	}

	h.OK(c, resp)
}

// RegisterRoutes registers item routes.
func (h *ItemHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/low-stock", h.LowStock)
	rg.GET("/:id", h.Get)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
}
