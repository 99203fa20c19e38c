package services

import (
	"database/sql"
	"fmt"

	"shop-api/internal/models"

	"github.com/rs/zerolog"
)

type AdminService struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewAdminService(db *sql.DB, logger zerolog.Logger) *AdminService {
	return &AdminService{
		db:     db,
		logger: logger,
	}
}

// ListProducts is the admin view: paginated, inactive products included.
func (s *AdminService) ListProducts(page, limit int) (*models.ProductList, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	offset := (page - 1) * limit

	rows, err := s.db.Query(
		`SELECT p.id, p.title, p.description, p.price, p.stock_quantity, p.is_active, p.is_featured,
		        GROUP_CONCAT(DISTINCT t.name) AS tags,
		        COUNT(*) OVER() AS total_count,
		        p.created_at, p.updated_at
		 FROM products p
		 LEFT JOIN product_tags pt ON p.id = pt.product_id
		 LEFT JOIN tags t ON pt.tag_id = t.id
		 GROUP BY p.id
		 ORDER BY p.created_at DESC
		 LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error fetching products for admin")
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
		Pagination: models.NewPagination(page, limit, total),
	}, nil
}

// CreateProduct inserts the product and links its tags, upserting tag rows by
// name, all within one transaction.
func (s *AdminService) CreateProduct(req *models.ProductRequest) (int, error) {
	tx, err := s.db.Begin()
	if err != nil {
		s.logger.Error().Err(err).Msg("Error starting product creation transaction")
		return 0, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(
		"INSERT INTO products (title, description, price, stock_quantity, is_featured) VALUES (?, ?, ?, ?, ?)",
		req.Title, req.Description, req.Price, req.StockQuantity, req.IsFeatured,
	)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error creating product")
		return 0, fmt.Errorf("failed to create product: %w", err)
	}

	productID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get product ID: %w", err)
	}

	if err := s.linkTagsInTx(tx, int(productID), req.Tags); err != nil {
		return 0, err
	}

	if err = tx.Commit(); err != nil {
		s.logger.Error().Err(err).Msg("Error committing product creation")
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.logger.Info().Int("product_id", int(productID)).Str("title", req.Title).Msg("Product created")
	return int(productID), nil
}

// UpdateProduct rewrites the product's fields and replaces its tag links
// within one transaction.
func (s *AdminService) UpdateProduct(productID int, req *models.ProductRequest) error {
	tx, err := s.db.Begin()
	if err != nil {
		s.logger.Error().Err(err).Msg("Error starting product update transaction")
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	var existingID int
	err = tx.QueryRow("SELECT id FROM products WHERE id = ?", productID).Scan(&existingID)
	if err == sql.ErrNoRows {
		return ErrProductNotFound
	}
	if err != nil {
		s.logger.Error().Err(err).Int("product_id", productID).Msg("Error fetching product")
		return fmt.Errorf("database error: %w", err)
	}

	_, err = tx.Exec(
		"UPDATE products SET title = ?, description = ?, price = ?, stock_quantity = ?, is_featured = ? WHERE id = ?",
		req.Title, req.Description, req.Price, req.StockQuantity, req.IsFeatured, productID,
	)
	if err != nil {
		s.logger.Error().Err(err).Int("product_id", productID).Msg("Error updating product")
		return fmt.Errorf("failed to update product: %w", err)
	}

	_, err = tx.Exec("DELETE FROM product_tags WHERE product_id = ?", productID)
	if err != nil {
		s.logger.Error().Err(err).Int("product_id", productID).Msg("Error unlinking tags")
		return fmt.Errorf("failed to unlink tags: %w", err)
	}

	if err := s.linkTagsInTx(tx, productID, req.Tags); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		s.logger.Error().Err(err).Msg("Error committing product update")
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.logger.Info().Int("product_id", productID).Msg("Product updated")
	return nil
}

// DeactivateProduct is the soft delete: the row stays so existing carts and
// orders keep their references.
func (s *AdminService) DeactivateProduct(productID int) error {
	result, err := s.db.Exec("UPDATE products SET is_active = FALSE WHERE id = ?", productID)
	if err != nil {
		s.logger.Error().Err(err).Int("product_id", productID).Msg("Error deactivating product")
		return fmt.Errorf("failed to deactivate product: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return ErrProductNotFound
	}

	s.logger.Info().Int("product_id", productID).Msg("Product deactivated")
	return nil
}

func (s *AdminService) CreateTag(name string) (int, error) {
	var existingID int
	err := s.db.QueryRow("SELECT id FROM tags WHERE name = ?", name).Scan(&existingID)
	if err == nil {
		return 0, ErrTagExists
	}
	if err != sql.ErrNoRows {
		s.logger.Error().Err(err).Str("name", name).Msg("Error checking existing tag")
		return 0, fmt.Errorf("database error: %w", err)
	}

	result, err := s.db.Exec("INSERT INTO tags (name) VALUES (?)", name)
	if err != nil {
		s.logger.Error().Err(err).Str("name", name).Msg("Error creating tag")
		return 0, fmt.Errorf("failed to create tag: %w", err)
	}

	tagID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get tag ID: %w", err)
	}

	s.logger.Info().Int("tag_id", int(tagID)).Str("name", name).Msg("Tag created")
	return int(tagID), nil
}

// DeleteTag is a hard delete; its product links go with it.
func (s *AdminService) DeleteTag(tagID int) error {
	tx, err := s.db.Begin()
	if err != nil {
		s.logger.Error().Err(err).Msg("Error starting tag deletion transaction")
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec("DELETE FROM product_tags WHERE tag_id = ?", tagID)
	if err != nil {
		s.logger.Error().Err(err).Int("tag_id", tagID).Msg("Error unlinking tag")
		return fmt.Errorf("failed to unlink tag: %w", err)
	}

	result, err := tx.Exec("DELETE FROM tags WHERE id = ?", tagID)
	if err != nil {
		s.logger.Error().Err(err).Int("tag_id", tagID).Msg("Error deleting tag")
		return fmt.Errorf("failed to delete tag: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return ErrTagNotFound
	}

	if err = tx.Commit(); err != nil {
		s.logger.Error().Err(err).Msg("Error committing tag deletion")
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.logger.Info().Int("tag_id", tagID).Msg("Tag deleted")
	return nil
}

func (s *AdminService) linkTagsInTx(tx *sql.Tx, productID int, tagNames []string) error {
	for _, name := range tagNames {
		var tagID int
		err := tx.QueryRow("SELECT id FROM tags WHERE name = ?", name).Scan(&tagID)
		if err == sql.ErrNoRows {
			result, insertErr := tx.Exec("INSERT INTO tags (name) VALUES (?)", name)
			if insertErr != nil {
				s.logger.Error().Err(insertErr).Str("name", name).Msg("Error creating tag")
				return fmt.Errorf("failed to create tag: %w", insertErr)
			}
			newID, idErr := result.LastInsertId()
			if idErr != nil {
				return fmt.Errorf("failed to get tag ID: %w", idErr)
			}
			tagID = int(newID)
		} else if err != nil {
			s.logger.Error().Err(err).Str("name", name).Msg("Error fetching tag")
			return fmt.Errorf("database error: %w", err)
		}

		_, err = tx.Exec("INSERT INTO product_tags (product_id, tag_id) VALUES (?, ?)", productID, tagID)
		if err != nil {
			s.logger.Error().Err(err).Int("product_id", productID).Int("tag_id", tagID).Msg("Error linking tag")
			return fmt.Errorf("failed to link tag: %w", err)
		}
	}
	return nil
}
