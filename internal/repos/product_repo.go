package repos

import (
	"cozyoven/internal/domain"

	"github.com/jmoiron/sqlx"
)

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

const productCols = `
    id, category_id, name, COALESCE(description,'') AS description, price,
    COALESCE(image,'') AS image, active,
    COALESCE(created_at,'') AS created_at, COALESCE(updated_at,'') AS updated_at`

func (r *ProductRepo) ListByCategory(catID string, limit, offset int) ([]domain.Product, error) {
	var out []domain.Product
	err := r.db.Select(&out, `
  SELECT`+productCols+`
  FROM products
  WHERE category_id = ? AND active = 1
  ORDER BY name
  LIMIT ? OFFSET ?
`, catID, limit, offset)
	return out, err
}

func (r *ProductRepo) Get(id string) (domain.Product, error) {
	var p domain.Product
	err := r.db.Get(&p, `
  SELECT`+productCols+`
  FROM products
  WHERE id = ?
`, id)
	return p, err
}

// Search lists active products, optionally filtered by a lowercase name/description match.
func (r *ProductRepo) Search(q string, limit, offset int) ([]domain.Product, error) {
	where := `active = 1`
	args := []any{}
	if q != "" {
		where += ` AND (LOWER(name) LIKE ? OR LOWER(description) LIKE ?)`
		args = append(args, "%"+q+"%", "%"+q+"%")
	}
	query := `
  SELECT` + productCols + `
  FROM products
  WHERE ` + where + `
  ORDER BY name
  LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	var out []domain.Product
	err := r.db.Select(&out, query, args...)
	return out, err
}
