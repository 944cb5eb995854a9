package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	catalogapp "github.com/retailops/backend/internal/application/catalog"
	"github.com/retailops/backend/internal/interfaces/http/dto"
)

// maxImageSize caps product image uploads at 5 MiB
const maxImageSize = 5 << 20

// ProductHandler handles product endpoints
type ProductHandler struct {
	BaseHandler
	productService *catalogapp.ProductService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService *catalogapp.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// RegisterRoutes registers product routes on the given group
func (h *ProductHandler) RegisterRoutes(rg *gin.RouterGroup) {
	products := rg.Group("/products")
	products.POST("", h.Create)
	products.GET("", h.List)
	products.GET("/low-stock", h.ListLowStock)
	products.GET("/:id", h.GetByID)
	products.PUT("/:id", h.Update)
	products.PATCH("/:id/quantity", h.AdjustQuantity)
	products.POST("/:id/image", h.UploadImage)
	products.DELETE("/:id", h.Delete)
}

// productListQuery carries list filter query parameters
type productListQuery struct {
	dto.ListRequest
	Status string `form:"status" binding:"omitempty,oneof=active discontinued"`
}

// Create creates a new product
func (h *ProductHandler) Create(c *gin.Context) {
	var req catalogapp.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	product, err := h.productService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, product)
}

// GetByID retrieves a product by ID
func (h *ProductHandler) GetByID(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequestMessage(c, "Invalid product ID format")
		return
	}

	product, err := h.productService.Get(c.Request.Context(), productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// List retrieves a paginated list of products
func (h *ProductHandler) List(c *gin.Context) {
	var q productListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BadRequest(c, err)
		return
	}

	result, err := h.productService.List(c.Request.Context(), catalogapp.ProductListFilter{
		Page:     q.Page,
		PageSize: q.PageSize,
		OrderBy:  q.OrderBy,
		OrderDir: q.OrderDir,
		Search:   q.Search,
		Status:   q.Status,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// ListLowStock lists active products at or below the stock threshold
func (h *ProductHandler) ListLowStock(c *gin.Context) {
	threshold := 0
	if raw := c.Query("threshold"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			h.BadRequestMessage(c, "Invalid threshold")
			return
		}
		threshold = parsed
	}

	products, err := h.productService.ListLowStock(c.Request.Context(), threshold)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, products)
}

// Update updates a product
func (h *ProductHandler) Update(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequestMessage(c, "Invalid product ID format")
		return
	}

	var req catalogapp.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	product, err := h.productService.Update(c.Request.Context(), productID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// AdjustQuantity applies a signed stock delta to a product
func (h *ProductHandler) AdjustQuantity(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequestMessage(c, "Invalid product ID format")
		return
	}

	var req catalogapp.AdjustQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	product, err := h.productService.AdjustQuantity(c.Request.Context(), productID, req.Delta)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// UploadImage attaches an image to a product. The file is read from the
// "image" multipart form field.
func (h *ProductHandler) UploadImage(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequestMessage(c, "Invalid product ID format")
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		h.BadRequestMessage(c, "Image file is required")
		return
	}
	if fileHeader.Size > maxImageSize {
		h.BadRequestMessage(c, "Image exceeds maximum size of 5 MiB")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.InternalError(c, "Failed to read uploaded file")
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	product, err := h.productService.UploadImage(c.Request.Context(), productID, contentType, file)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// Delete removes a product
func (h *ProductHandler) Delete(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequestMessage(c, "Invalid product ID format")
		return
	}

	if err := h.productService.Delete(c.Request.Context(), productID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
