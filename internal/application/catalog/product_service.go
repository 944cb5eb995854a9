package catalog

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/retailops/backend/internal/domain/catalog"
	"github.com/retailops/backend/internal/domain/shared"
)

// ImageStorage stores product images and returns a public URL for them
type ImageStorage interface {
	Put(ctx context.Context, key string, contentType string, body io.Reader) (string, error)
}

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// ProductService handles product use cases
type ProductService struct {
	repo    catalog.ProductRepository
	storage ImageStorage
	logger  *zap.Logger
}

// NewProductService creates a new product service
func NewProductService(repo catalog.ProductRepository, storage ImageStorage, logger *zap.Logger) *ProductService {
	return &ProductService{
		repo:    repo,
		storage: storage,
		logger:  logger,
	}
}

// Create registers a new product. Product names are unique.
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	exists, err := s.repo.ExistsByName(ctx, strings.TrimSpace(req.Name))
	if err != nil {
		return nil, fmt.Errorf("failed to check name uniqueness: %w", err)
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "A product with this name already exists")
	}

	product, err := catalog.NewProduct(req.Name, req.Price, req.Quantity)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to save product: %w", err)
	}

	s.logger.Info("product created",
		zap.String("product_id", product.ID.String()),
		zap.String("name", product.Name),
	)

	response := ToProductResponse(product)
	return &response, nil
}

// Get returns a product by ID
func (s *ProductService) Get(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// List returns products matching the filter, paginated
func (s *ProductService) List(ctx context.Context, filter ProductListFilter) (*shared.Paginated[ProductResponse], error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 && filter.PageSize <= 100 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		domainFilter.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		domainFilter.OrderDir = filter.OrderDir
	}
	domainFilter.Search = filter.Search
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}

	products, err := s.repo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	total, err := s.repo.Count(ctx, domainFilter)
	if err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	result := shared.NewPaginated(ToProductResponses(products), total, domainFilter.Page, domainFilter.PageSize)
	return &result, nil
}

// ListLowStock returns active products at or below the given threshold.
// A non-positive threshold falls back to the default.
func (s *ProductService) ListLowStock(ctx context.Context, threshold int) ([]ProductResponse, error) {
	if threshold <= 0 {
		threshold = catalog.DefaultLowStockThreshold
	}

	products, err := s.repo.FindLowStock(ctx, threshold)
	if err != nil {
		return nil, fmt.Errorf("failed to list low stock products: %w", err)
	}

	return ToProductResponses(products), nil
}

// Update modifies an existing product
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil && strings.TrimSpace(*req.Name) != product.Name {
		exists, err := s.repo.ExistsByName(ctx, strings.TrimSpace(*req.Name))
		if err != nil {
			return nil, fmt.Errorf("failed to check name uniqueness: %w", err)
		}
		if exists {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "A product with this name already exists")
		}
		if err := product.Update(*req.Name); err != nil {
			return nil, err
		}
	}
	if req.Price != nil {
		if err := product.SetPrice(*req.Price); err != nil {
			return nil, err
		}
	}
	if req.Quantity != nil {
		if err := product.SetQuantity(*req.Quantity); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Save(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to save product: %w", err)
	}

	s.logger.Info("product updated", zap.String("product_id", product.ID.String()))

	response := ToProductResponse(product)
	return &response, nil
}

// AdjustQuantity applies a relative stock change to a product
func (s *ProductService) AdjustQuantity(ctx context.Context, id uuid.UUID, delta int) (*ProductResponse, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := product.AdjustQuantity(delta); err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to save product: %w", err)
	}

	s.logger.Info("product stock adjusted",
		zap.String("product_id", product.ID.String()),
		zap.Int("delta", delta),
		zap.Int("quantity", product.Quantity),
	)

	response := ToProductResponse(product)
	return &response, nil
}

// UploadImage stores an image for the product and records its URL
func (s *ProductService) UploadImage(ctx context.Context, id uuid.UUID, contentType string, body io.Reader) (*ProductResponse, error) {
	ext, ok := allowedImageTypes[contentType]
	if !ok {
		return nil, shared.NewDomainError("UNSUPPORTED_MEDIA_TYPE", "Image must be JPEG, PNG or WebP")
	}

	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	key := path.Join("products", product.ID.String()+ext)
	url, err := s.storage.Put(ctx, key, contentType, body)
	if err != nil {
		return nil, fmt.Errorf("failed to store product image: %w", err)
	}

	product.SetImageURL(url)
	if err := s.repo.Save(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to save product: %w", err)
	}

	s.logger.Info("product image uploaded",
		zap.String("product_id", product.ID.String()),
		zap.String("url", url),
	)

	response := ToProductResponse(product)
	return &response, nil
}

// Delete removes a product. Past order lines keep the price frozen at
// the time of sale.
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	s.logger.Info("product deleted", zap.String("product_id", id.String()))
	return nil
}
