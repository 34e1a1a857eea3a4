package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"erp_backoffice/internal/models"
)

// ProductRepository defines the interface for the product aggregate. Child
// rows (components, options, variants) are always written through an
// executor so the service can keep the whole replace-on-save inside one
// transaction.
type ProductRepository interface {
	CreateProduct(executor SQLExecutor, product *models.Product) (int64, error)
	UpdateProduct(executor SQLExecutor, product *models.Product) error
	GetProductByID(id int64) (*models.Product, error)
	GetProducts(filters models.ProductFilters) ([]models.Product, int, error)
	DeleteProduct(executor SQLExecutor, id int64) error

	DeleteChildren(executor SQLExecutor, productID int64) error
	InsertComponents(executor SQLExecutor, productID int64, components []models.ProductComponent) error
	InsertOptions(executor SQLExecutor, productID int64, options []models.ProductOption) error
	InsertVariants(executor SQLExecutor, productID int64, variants []models.ProductVariant) error
	LoadChildren(product *models.Product) error

	GetCategories() ([]models.ProductCategory, error)
}

type productRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new instance of ProductRepository.
func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{db: db}
}

// CreateProduct inserts the product header row.
func (r *productRepository) CreateProduct(executor SQLExecutor, product *models.Product) (int64, error) {
	query := `INSERT INTO products (name, sku, category_id, price, cost, stock_quantity, status, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
	          RETURNING id`

	err := executor.QueryRow(query,
		product.Name, product.SKU, product.CategoryID, product.Price, product.Cost,
		product.StockQuantity, product.Status, time.Now(),
	).Scan(&product.ID)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			if pqErr.Code.Name() == "unique_violation" {
				return 0, fmt.Errorf("%w: %s (constraint: %s)", ErrDuplicateKey, pqErr.Message, pqErr.Constraint)
			}
			if pqErr.Code.Name() == "foreign_key_violation" {
				return 0, fmt.Errorf("%w: product category %d (constraint: %s)", ErrForeignKeyViolation, product.CategoryID, pqErr.Constraint)
			}
		}
		return 0, fmt.Errorf("%w: creating product: %v", ErrDatabaseError, err)
	}
	return product.ID, nil
}

// UpdateProduct updates the product header row.
func (r *productRepository) UpdateProduct(executor SQLExecutor, product *models.Product) error {
	query := `UPDATE products SET
	            name = $1, sku = $2, category_id = $3, price = $4, cost = $5,
	            stock_quantity = $6, status = $7, updated_at = $8
	          WHERE id = $9`

	product.UpdatedAt = time.Now()
	result, err := executor.Exec(query,
		product.Name, product.SKU, product.CategoryID, product.Price, product.Cost,
		product.StockQuantity, product.Status, product.UpdatedAt, product.ID,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return fmt.Errorf("%w: %s (constraint: %s)", ErrDuplicateKey, pqErr.Message, pqErr.Constraint)
		}
		return fmt.Errorf("%w: updating product ID %d: %v", ErrDatabaseError, product.ID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for product ID %d: %v", ErrDatabaseError, product.ID, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// GetProductByID retrieves the product header row only; call LoadChildren
// for the full aggregate.
func (r *productRepository) GetProductByID(id int64) (*models.Product, error) {
	product := &models.Product{}
	query := `SELECT p.id, p.name, p.sku, p.category_id, p.price, p.cost, p.stock_quantity, p.status, p.created_at, p.updated_at,
	                 c.id, c.name
	          FROM products p
	          JOIN product_categories c ON c.id = p.category_id
	          WHERE p.id = $1`

	var category models.ProductCategory
	err := r.db.QueryRow(query, id).Scan(
		&product.ID, &product.Name, &product.SKU, &product.CategoryID,
		&product.Price, &product.Cost, &product.StockQuantity, &product.Status,
		&product.CreatedAt, &product.UpdatedAt,
		&category.ID, &category.Name,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting product by ID %d: %v", ErrDatabaseError, id, err)
	}
	product.Category = &category
	return product, nil
}

// GetProducts retrieves products with pagination and optional filters.
func (r *productRepository) GetProducts(filters models.ProductFilters) ([]models.Product, int, error) {
	products := []models.Product{}
	totalCount := 0

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT p.id, p.name, p.sku, p.category_id, p.price, p.cost, p.stock_quantity, p.status, p.created_at, p.updated_at, COUNT(*) OVER() as total_count
	                          FROM products p`)

	var conditions []string
	var args []interface{}
	argCount := 1

	if filters.Search != nil && *filters.Search != "" {
		searchPattern := "%" + strings.ToLower(*filters.Search) + "%"
		conditions = append(conditions, fmt.Sprintf("(LOWER(p.name) ILIKE $%d OR LOWER(COALESCE(p.sku, '')) ILIKE $%d)", argCount, argCount))
		args = append(args, searchPattern)
		argCount++
	}
	if filters.CategoryID != nil {
		conditions = append(conditions, fmt.Sprintf("p.category_id = $%d", argCount))
		args = append(args, *filters.CategoryID)
		argCount++
	}
	if filters.Status != nil && *filters.Status != "" {
		conditions = append(conditions, fmt.Sprintf("p.status = $%d", argCount))
		args = append(args, *filters.Status)
		argCount++
	}

	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}
	queryBuilder.WriteString(" ORDER BY p.name ASC")

	if filters.PageSize > 0 {
		queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d", argCount))
		args = append(args, filters.PageSize)
		argCount++
		if filters.Page > 0 {
			offset := (filters.Page - 1) * filters.PageSize
			queryBuilder.WriteString(fmt.Sprintf(" OFFSET $%d", argCount))
			args = append(args, offset)
		}
	}

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: querying products: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var p models.Product
		if err := rows.Scan(
			&p.ID, &p.Name, &p.SKU, &p.CategoryID, &p.Price, &p.Cost,
			&p.StockQuantity, &p.Status, &p.CreatedAt, &p.UpdatedAt, &totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning product: %v", ErrDatabaseError, err)
		}
		products = append(products, p)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating product rows: %v", ErrDatabaseError, err)
	}
	return products, totalCount, nil
}

// DeleteProduct removes the product header row. Child rows cascade via the
// schema's ON DELETE CASCADE; DeleteChildren exists for replace-on-save.
func (r *productRepository) DeleteProduct(executor SQLExecutor, id int64) error {
	result, err := executor.Exec(`DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
			return fmt.Errorf("%w: product ID %d (constraint: %s)", ErrForeignKeyViolation, id, pqErr.Constraint)
		}
		return fmt.Errorf("%w: deleting product ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for deleting product ID %d: %v", ErrDatabaseError, id, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteChildren removes all child rows of a product, deepest first.
func (r *productRepository) DeleteChildren(executor SQLExecutor, productID int64) error {
	statements := []string{
		`DELETE FROM variant_options WHERE variant_id IN (SELECT id FROM product_variants WHERE product_id = $1)`,
		`DELETE FROM product_variants WHERE product_id = $1`,
		`DELETE FROM product_option_values WHERE option_id IN (SELECT id FROM product_options WHERE product_id = $1)`,
		`DELETE FROM product_options WHERE product_id = $1`,
		`DELETE FROM product_components WHERE product_id = $1`,
	}
	for _, stmt := range statements {
		if _, err := executor.Exec(stmt, productID); err != nil {
			return fmt.Errorf("%w: deleting product children for product %d: %v", ErrDatabaseError, productID, err)
		}
	}
	return nil
}

// InsertComponents writes the component rows of a product.
func (r *productRepository) InsertComponents(executor SQLExecutor, productID int64, components []models.ProductComponent) error {
	query := `INSERT INTO product_components (product_id, stock_item_id, quantity) VALUES ($1, $2, $3) RETURNING id`
	for i := range components {
		err := executor.QueryRow(query, productID, components[i].StockItemID, components[i].Quantity).Scan(&components[i].ID)
		if err != nil {
			var pqErr *pq.Error
			if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
				return fmt.Errorf("%w: component stock item %d (constraint: %s)", ErrForeignKeyViolation, components[i].StockItemID, pqErr.Constraint)
			}
			return fmt.Errorf("%w: inserting product component: %v", ErrDatabaseError, err)
		}
		components[i].ProductID = productID
	}
	return nil
}

// InsertOptions writes the option rows and their values, preserving the
// declared order through sort_order.
func (r *productRepository) InsertOptions(executor SQLExecutor, productID int64, options []models.ProductOption) error {
	optionQuery := `INSERT INTO product_options (product_id, name, sort_order) VALUES ($1, $2, $3) RETURNING id`
	valueQuery := `INSERT INTO product_option_values (option_id, value, sort_order) VALUES ($1, $2, $3) RETURNING id`

	for i := range options {
		err := executor.QueryRow(optionQuery, productID, options[i].Name, i).Scan(&options[i].ID)
		if err != nil {
			return fmt.Errorf("%w: inserting product option %q: %v", ErrDatabaseError, options[i].Name, err)
		}
		options[i].ProductID = productID
		options[i].SortOrder = i
		for j := range options[i].Values {
			v := &options[i].Values[j]
			if err := executor.QueryRow(valueQuery, options[i].ID, v.Value, j).Scan(&v.ID); err != nil {
				return fmt.Errorf("%w: inserting option value %q: %v", ErrDatabaseError, v.Value, err)
			}
			v.OptionID = options[i].ID
			v.SortOrder = j
		}
	}
	return nil
}

// InsertVariants writes the variant rows and their contributing option pairs.
func (r *productRepository) InsertVariants(executor SQLExecutor, productID int64, variants []models.ProductVariant) error {
	variantQuery := `INSERT INTO product_variants (product_id, sku, price, cost, stock, image_url) VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	optionQuery := `INSERT INTO variant_options (variant_id, option_name, option_value) VALUES ($1, $2, $3) RETURNING id`

	for i := range variants {
		v := &variants[i]
		err := executor.QueryRow(variantQuery, productID, v.SKU, v.Price, v.Cost, v.Stock, v.ImageURL).Scan(&v.ID)
		if err != nil {
			return fmt.Errorf("%w: inserting product variant: %v", ErrDatabaseError, err)
		}
		v.ProductID = productID
		for j := range v.Options {
			o := &v.Options[j]
			if err := executor.QueryRow(optionQuery, v.ID, o.OptionName, o.OptionValue).Scan(&o.ID); err != nil {
				return fmt.Errorf("%w: inserting variant option pair: %v", ErrDatabaseError, err)
			}
			o.VariantID = v.ID
		}
	}
	return nil
}

// LoadChildren populates the product's components, options and variants.
func (r *productRepository) LoadChildren(product *models.Product) error {
	if err := r.loadComponents(product); err != nil {
		return err
	}
	if err := r.loadOptions(product); err != nil {
		return err
	}
	return r.loadVariants(product)
}

func (r *productRepository) loadComponents(product *models.Product) error {
	rows, err := r.db.Query(`SELECT id, stock_item_id, quantity FROM product_components WHERE product_id = $1 ORDER BY id ASC`, product.ID)
	if err != nil {
		return fmt.Errorf("%w: querying product components: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	product.Components = []models.ProductComponent{}
	for rows.Next() {
		c := models.ProductComponent{ProductID: product.ID}
		if err := rows.Scan(&c.ID, &c.StockItemID, &c.Quantity); err != nil {
			return fmt.Errorf("%w: scanning product component: %v", ErrDatabaseError, err)
		}
		product.Components = append(product.Components, c)
	}
	return rows.Err()
}

func (r *productRepository) loadOptions(product *models.Product) error {
	rows, err := r.db.Query(`SELECT id, name, sort_order FROM product_options WHERE product_id = $1 ORDER BY sort_order ASC`, product.ID)
	if err != nil {
		return fmt.Errorf("%w: querying product options: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	product.Options = []models.ProductOption{}
	for rows.Next() {
		o := models.ProductOption{ProductID: product.ID}
		if err := rows.Scan(&o.ID, &o.Name, &o.SortOrder); err != nil {
			return fmt.Errorf("%w: scanning product option: %v", ErrDatabaseError, err)
		}
		product.Options = append(product.Options, o)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for i := range product.Options {
		opt := &product.Options[i]
		valueRows, err := r.db.Query(`SELECT id, value, sort_order FROM product_option_values WHERE option_id = $1 ORDER BY sort_order ASC`, opt.ID)
		if err != nil {
			return fmt.Errorf("%w: querying option values: %v", ErrDatabaseError, err)
		}
		opt.Values = []models.ProductOptionValue{}
		for valueRows.Next() {
			v := models.ProductOptionValue{OptionID: opt.ID}
			if err := valueRows.Scan(&v.ID, &v.Value, &v.SortOrder); err != nil {
				valueRows.Close()
				return fmt.Errorf("%w: scanning option value: %v", ErrDatabaseError, err)
			}
			opt.Values = append(opt.Values, v)
		}
		if err := valueRows.Err(); err != nil {
			valueRows.Close()
			return err
		}
		valueRows.Close()
	}
	return nil
}

func (r *productRepository) loadVariants(product *models.Product) error {
	rows, err := r.db.Query(`SELECT id, sku, price, cost, stock, image_url FROM product_variants WHERE product_id = $1 ORDER BY id ASC`, product.ID)
	if err != nil {
		return fmt.Errorf("%w: querying product variants: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	product.Variants = []models.ProductVariant{}
	for rows.Next() {
		v := models.ProductVariant{ProductID: product.ID}
		if err := rows.Scan(&v.ID, &v.SKU, &v.Price, &v.Cost, &v.Stock, &v.ImageURL); err != nil {
			return fmt.Errorf("%w: scanning product variant: %v", ErrDatabaseError, err)
		}
		product.Variants = append(product.Variants, v)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for i := range product.Variants {
		variant := &product.Variants[i]
		optRows, err := r.db.Query(`SELECT id, option_name, option_value FROM variant_options WHERE variant_id = $1 ORDER BY id ASC`, variant.ID)
		if err != nil {
			return fmt.Errorf("%w: querying variant options: %v", ErrDatabaseError, err)
		}
		variant.Options = []models.VariantOption{}
		for optRows.Next() {
			o := models.VariantOption{VariantID: variant.ID}
			if err := optRows.Scan(&o.ID, &o.OptionName, &o.OptionValue); err != nil {
				optRows.Close()
				return fmt.Errorf("%w: scanning variant option: %v", ErrDatabaseError, err)
			}
			variant.Options = append(variant.Options, o)
		}
		if err := optRows.Err(); err != nil {
			optRows.Close()
			return err
		}
		optRows.Close()
	}
	return nil
}

// GetCategories lists all product categories.
func (r *productRepository) GetCategories() ([]models.ProductCategory, error) {
	rows, err := r.db.Query(`SELECT id, name, description, created_at, updated_at FROM product_categories ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("%w: querying product categories: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	categories := []models.ProductCategory{}
	for rows.Next() {
		var c models.ProductCategory
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%w: scanning product category: %v", ErrDatabaseError, err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}
