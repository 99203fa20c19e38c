package services

import (
	"database/sql"
	"fmt"
	"strings"

	"shop-api/internal/models"

	"github.com/rs/zerolog"
)

type CatalogService struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewCatalogService(db *sql.DB, logger zerolog.Logger) *CatalogService {
	return &CatalogService{
		db:     db,
		logger: logger,
	}
}

const defaultFeaturedLimit = 8

// ListProducts returns active in-stock products with offset pagination,
// optional title/description search and tag-set filtering. The total count
// comes from a window function so a single query serves both the page and the
// pagination block.
func (s *CatalogService) ListProducts(opts models.ProductListOptions) (*models.ProductList, error) {
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit < 1 {
		opts.Limit = 10
	}
	offset := (opts.Page - 1) * opts.Limit

	var query strings.Builder
	var args []interface{}

	query.WriteString(`
		SELECT p.id, p.title, p.description, p.price, p.stock_quantity, p.is_active, p.is_featured,
		       GROUP_CONCAT(DISTINCT t.name) AS tags,
		       COUNT(*) OVER() AS total_count,
		       p.created_at, p.updated_at
		FROM products p
		LEFT JOIN product_tags pt ON p.id = pt.product_id
		LEFT JOIN tags t ON pt.tag_id = t.id
		WHERE p.is_active = TRUE AND p.stock_quantity > 0`)

	if len(opts.Tags) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(opts.Tags)), ",")
		query.WriteString(` AND p.id IN (
			SELECT pt2.product_id FROM product_tags pt2
			JOIN tags t2 ON pt2.tag_id = t2.id
			WHERE t2.name IN (` + placeholders + `))`)
		for _, tag := range opts.Tags {
			args = append(args, tag)
		}
	}

	if opts.Search != "" {
		query.WriteString(" AND (p.title LIKE ? OR p.description LIKE ?)")
		pattern := "%" + opts.Search + "%"
		args = append(args, pattern, pattern)
	}

	query.WriteString(" GROUP BY p.id ORDER BY p.created_at DESC LIMIT ? OFFSET ?")
	args = append(args, opts.Limit, offset)

	rows, err := s.db.Query(query.String(), args...)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error fetching products")
		return nil, fmt.Errorf("database error: %w", err)
	}
	defer rows.Close()

	products := []models.Product{}
	total := 0
	for rows.Next() {
		var p models.Product
		var tags sql.NullString

		err := rows.Scan(
			&p.ID, &p.Title, &p.Description, &p.Price, &p.StockQuantity, &p.IsActive, &p.IsFeatured,
			&tags, &total, &p.CreatedAt, &p.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning product: %w", err)
		}

		p.Tags = splitTags(tags)
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return &models.ProductList{
		Products:   products,
		Pagination: models.NewPagination(opts.Page, opts.Limit, total),
	}, nil
}

func (s *CatalogService) GetProduct(productID int) (*models.Product, error) {
	var p models.Product
	var tags sql.NullString

	err := s.db.QueryRow(
		`SELECT p.id, p.title, p.description, p.price, p.stock_quantity, p.is_active, p.is_featured,
		        GROUP_CONCAT(DISTINCT t.name) AS tags,
		        p.created_at, p.updated_at
		 FROM products p
		 LEFT JOIN product_tags pt ON p.id = pt.product_id
		 LEFT JOIN tags t ON pt.tag_id = t.id
		 WHERE p.id = ? AND p.is_active = TRUE
		 GROUP BY p.id`,
		productID,
	).Scan(
		&p.ID, &p.Title, &p.Description, &p.Price, &p.StockQuantity, &p.IsActive, &p.IsFeatured,
		&tags, &p.CreatedAt, &p.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrProductNotFound
	}
	if err != nil {
		s.logger.Error().Err(err).Int("product_id", productID).Msg("Error fetching product")
		return nil, fmt.Errorf("database error: %w", err)
	}

	p.Tags = splitTags(tags)
	return &p, nil
}

// ListFeatured orders by stock quantity first so the best-supplied featured
// products surface, then by recency.
func (s *CatalogService) ListFeatured(limit int) ([]models.Product, error) {
	if limit < 1 {
		limit = defaultFeaturedLimit
	}

	rows, err := s.db.Query(
		`SELECT p.id, p.title, p.description, p.price, p.stock_quantity, p.is_active, p.is_featured,
		        GROUP_CONCAT(DISTINCT t.name) AS tags,
		        p.created_at, p.updated_at
		 FROM products p
		 LEFT JOIN product_tags pt ON p.id = pt.product_id
		 LEFT JOIN tags t ON pt.tag_id = t.id
		 WHERE p.is_featured = TRUE AND p.is_active = TRUE
		 GROUP BY p.id
		 ORDER BY p.stock_quantity DESC, p.created_at DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error fetching featured products")
		return nil, fmt.Errorf("database error: %w", err)
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		var p models.Product
		var tags sql.NullString

		err := rows.Scan(
			&p.ID, &p.Title, &p.Description, &p.Price, &p.StockQuantity, &p.IsActive, &p.IsFeatured,
			&tags, &p.CreatedAt, &p.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning product: %w", err)
		}

		p.Tags = splitTags(tags)
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// ListTags counts only active in-stock products per tag.
func (s *CatalogService) ListTags() ([]models.Tag, error) {
	rows, err := s.db.Query(
		`SELECT t.id, t.name, COUNT(p.id) AS product_count
		 FROM tags t
		 LEFT JOIN product_tags pt ON t.id = pt.tag_id
		 LEFT JOIN products p ON pt.product_id = p.id AND p.is_active = TRUE AND p.stock_quantity > 0
		 GROUP BY t.id
		 ORDER BY t.name ASC`,
	)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error fetching tags")
		return nil, fmt.Errorf("database error: %w", err)
	}
	defer rows.Close()

	tags := []models.Tag{}
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.ProductCount); err != nil {
			return nil, fmt.Errorf("error scanning tag: %w", err)
		}
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tags: %w", err)
	}

	return tags, nil
}

func splitTags(tags sql.NullString) []string {
	if !tags.Valid || tags.String == "" {
		return []string{}
	}
	return strings.Split(tags.String, ",")
}
