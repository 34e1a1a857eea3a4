package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"erp_backoffice/internal/models"
	"erp_backoffice/internal/repositories"
)

var (
	ErrProductNotFound    = errors.New("product not found")
	ErrCategoryNotFound   = errors.New("product category not found")
	ErrProductSKUExists   = errors.New("product sku already in use")
	ErrProductValidation  = errors.New("product data validation error")
	ErrDuplicateOption    = errors.New("duplicate option name")
	ErrDuplicateOptionVal = errors.New("duplicate value within option")
)

// --- Product DTOs ---

type ProductOptionInput struct {
	Name   string   `json:"name" binding:"required"`
	Values []string `json:"values"`
}

type ProductComponentInput struct {
	StockItemID int64   `json:"stock_item_id" binding:"required"`
	Quantity    float64 `json:"quantity" binding:"required,gt=0"`
}

type VariantPatch struct {
	SKU      *string          `json:"sku"`
	Price    *decimal.Decimal `json:"price"`
	Cost     *decimal.Decimal `json:"cost"`
	Stock    *int             `json:"stock"`
	ImageURL *string          `json:"image_url"`
}

// SaveProductRequest carries the whole product aggregate. Saving replaces
// the stored children wholesale inside one transaction, so a failed save
// leaves the previous aggregate untouched.
type SaveProductRequest struct {
	Name          string                  `json:"name" binding:"required"`
	SKU           *string                 `json:"sku"`
	CategoryID    int64                   `json:"category_id" binding:"required"`
	Price         *decimal.Decimal        `json:"price"`
	Cost          *decimal.Decimal        `json:"cost"`
	StockQuantity int                     `json:"stock_quantity" binding:"gte=0"`
	Status        *string                 `json:"status"`
	Components    []ProductComponentInput `json:"components"`
	Options       []ProductOptionInput    `json:"options"`
	// VariantPatches are applied to the regenerated variants positionally,
	// keyed by the variant's option-value combination string.
	VariantPatches map[string]VariantPatch `json:"variant_patches"`
}

// --- ProductService Interface ---
type ProductService interface {
	CreateProduct(req SaveProductRequest) (*models.Product, error)
	GetProductByID(productID int64) (*models.Product, error)
	GetProducts(filters models.ProductFilters) ([]models.Product, int, error)
	UpdateProduct(productID int64, req SaveProductRequest) (*models.Product, error)
	DeleteProduct(productID int64) error
	GetCategories() ([]models.ProductCategory, error)
}

// --- productService Implementation ---
type productService struct {
	productRepo repositories.ProductRepository
	db          *sql.DB
}

// NewProductService creates a new instance of ProductService.
func NewProductService(productRepo repositories.ProductRepository, db *sql.DB) ProductService {
	return &productService{productRepo: productRepo, db: db}
}

// buildOptions validates option inputs and converts them to model rows in
// declaration order. Option names must be unique; values must be unique
// within their option.
func buildOptions(inputs []ProductOptionInput) ([]models.ProductOption, error) {
	options := make([]models.ProductOption, 0, len(inputs))
	seenNames := make(map[string]struct{}, len(inputs))

	for i, in := range inputs {
		name := strings.TrimSpace(in.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: option name is required", ErrProductValidation)
		}
		key := strings.ToLower(name)
		if _, dup := seenNames[key]; dup {
			return nil, fmt.Errorf("%w: '%s'", ErrDuplicateOption, name)
		}
		seenNames[key] = struct{}{}

		values := make([]models.ProductOptionValue, 0, len(in.Values))
		seenValues := make(map[string]struct{}, len(in.Values))
		for j, v := range in.Values {
			value := strings.TrimSpace(v)
			if value == "" {
				return nil, fmt.Errorf("%w: empty value in option '%s'", ErrProductValidation, name)
			}
			vKey := strings.ToLower(value)
			if _, dup := seenValues[vKey]; dup {
				return nil, fmt.Errorf("%w: '%s' in option '%s'", ErrDuplicateOptionVal, value, name)
			}
			seenValues[vKey] = struct{}{}
			values = append(values, models.ProductOptionValue{Value: value, SortOrder: j})
		}

		options = append(options, models.ProductOption{Name: name, SortOrder: i, Values: values})
	}
	return options, nil
}

// GenerateVariants computes the Cartesian product of the option values, in
// option-declaration order. Any option with zero values collapses the whole
// product to zero variants. Generated variants carry only their option-value
// pairs; price, cost, stock and image stay blank.
func GenerateVariants(options []models.ProductOption) []models.ProductVariant {
	if len(options) == 0 {
		return []models.ProductVariant{}
	}

	total := 1
	for _, opt := range options {
		total *= len(opt.Values)
	}
	if total == 0 {
		return []models.ProductVariant{}
	}

	variants := make([]models.ProductVariant, 0, total)
	combo := make([]int, len(options))
	for {
		pairs := make([]models.VariantOption, len(options))
		for i, opt := range options {
			pairs[i] = models.VariantOption{
				OptionName:  opt.Name,
				OptionValue: opt.Values[combo[i]].Value,
			}
		}
		variants = append(variants, models.ProductVariant{Options: pairs})

		// advance the rightmost axis first, odometer style
		i := len(options) - 1
		for i >= 0 {
			combo[i]++
			if combo[i] < len(options[i].Values) {
				break
			}
			combo[i] = 0
			i--
		}
		if i < 0 {
			break
		}
	}
	return variants
}

// variantKey builds the combination key used to match variant patches, e.g.
// "Color=Red|Size=M" in option-declaration order.
func variantKey(variant models.ProductVariant) string {
	parts := make([]string, len(variant.Options))
	for i, o := range variant.Options {
		parts[i] = o.OptionName + "=" + o.OptionValue
	}
	return strings.Join(parts, "|")
}

func (s *productService) buildAggregate(req SaveProductRequest) (*models.Product, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrProductValidation)
	}

	options, err := buildOptions(req.Options)
	if err != nil {
		return nil, err
	}

	variants := GenerateVariants(options)
	if req.VariantPatches != nil {
		for i := range variants {
			if patch, ok := req.VariantPatches[variantKey(variants[i])]; ok {
				variants[i].SKU = patch.SKU
				variants[i].Price = patch.Price
				variants[i].Cost = patch.Cost
				variants[i].Stock = patch.Stock
				variants[i].ImageURL = patch.ImageURL
			}
		}
	}

	components := make([]models.ProductComponent, 0, len(req.Components))
	for _, c := range req.Components {
		if c.Quantity <= 0 {
			return nil, fmt.Errorf("%w: component quantity must be positive", ErrProductValidation)
		}
		components = append(components, models.ProductComponent{
			StockItemID: c.StockItemID,
			Quantity:    c.Quantity,
		})
	}

	status := "Ativo"
	if req.Status != nil && strings.TrimSpace(*req.Status) != "" {
		status = strings.TrimSpace(*req.Status)
	}

	return &models.Product{
		Name:          name,
		SKU:           req.SKU,
		CategoryID:    req.CategoryID,
		Price:         req.Price,
		Cost:          req.Cost,
		StockQuantity: req.StockQuantity,
		Status:        status,
		Components:    components,
		Options:       options,
		Variants:      variants,
	}, nil
}

func (s *productService) CreateProduct(req SaveProductRequest) (*models.Product, error) {
	product, err := s.buildAggregate(req)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction for product create: %w", err)
	}
	defer tx.Rollback()

	if _, err := s.productRepo.CreateProduct(tx, product); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrProductSKUExists
		}
		if errors.Is(err, repositories.ErrForeignKeyViolation) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	if err := s.writeChildren(tx, product); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit product create: %w", err)
	}
	return s.GetProductByID(product.ID)
}

// UpdateProduct replaces the stored aggregate with the request's version.
// Header update, child wipe and child re-insert share one transaction, so
// readers never observe a half-replaced product.
func (s *productService) UpdateProduct(productID int64, req SaveProductRequest) (*models.Product, error) {
	if _, err := s.productRepo.GetProductByID(productID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product for update: %w", err)
	}

	product, err := s.buildAggregate(req)
	if err != nil {
		return nil, err
	}
	product.ID = productID

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction for product update: %w", err)
	}
	defer tx.Rollback()

	if err := s.productRepo.UpdateProduct(tx, product); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrProductSKUExists
		}
		if errors.Is(err, repositories.ErrForeignKeyViolation) {
			return nil, ErrCategoryNotFound
		}
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	if err := s.productRepo.DeleteChildren(tx, productID); err != nil {
		return nil, fmt.Errorf("failed to clear product children: %w", err)
	}
	if err := s.writeChildren(tx, product); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit product update: %w", err)
	}
	return s.GetProductByID(productID)
}

func (s *productService) writeChildren(tx *sql.Tx, product *models.Product) error {
	if len(product.Components) > 0 {
		if err := s.productRepo.InsertComponents(tx, product.ID, product.Components); err != nil {
			if errors.Is(err, repositories.ErrForeignKeyViolation) {
				return fmt.Errorf("%w: component references missing stock item", ErrProductValidation)
			}
			return fmt.Errorf("failed to insert product components: %w", err)
		}
	}
	if len(product.Options) > 0 {
		if err := s.productRepo.InsertOptions(tx, product.ID, product.Options); err != nil {
			return fmt.Errorf("failed to insert product options: %w", err)
		}
	}
	if len(product.Variants) > 0 {
		if err := s.productRepo.InsertVariants(tx, product.ID, product.Variants); err != nil {
			if errors.Is(err, repositories.ErrDuplicateKey) {
				return ErrProductSKUExists
			}
			return fmt.Errorf("failed to insert product variants: %w", err)
		}
	}
	return nil
}

func (s *productService) GetProductByID(productID int64) (*models.Product, error) {
	product, err := s.productRepo.GetProductByID(productID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if err := s.productRepo.LoadChildren(product); err != nil {
		return nil, fmt.Errorf("failed to load product children: %w", err)
	}
	return product, nil
}

func (s *productService) GetProducts(filters models.ProductFilters) ([]models.Product, int, error) {
	if filters.Page <= 0 {
		filters.Page = 1
	}
	if filters.PageSize <= 0 {
		filters.PageSize = 20
	}

	products, totalCount, err := s.productRepo.GetProducts(filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get products: %w", err)
	}
	return products, totalCount, nil
}

func (s *productService) DeleteProduct(productID int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction for product delete: %w", err)
	}
	defer tx.Rollback()

	if err := s.productRepo.DeleteChildren(tx, productID); err != nil {
		return fmt.Errorf("failed to delete product children: %w", err)
	}
	if err := s.productRepo.DeleteProduct(tx, productID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrProductNotFound
		}
		return fmt.Errorf("failed to delete product: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit product delete: %w", err)
	}
	return nil
}

func (s *productService) GetCategories() ([]models.ProductCategory, error) {
	categories, err := s.productRepo.GetCategories()
	if err != nil {
		return nil, fmt.Errorf("failed to get product categories: %w", err)
	}
	return categories, nil
}
