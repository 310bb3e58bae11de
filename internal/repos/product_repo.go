package repos

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"tiendita/internal/domain"
)

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

const productCols = `
  id, name, COALESCE(description,'') AS description, brand, category, price,
  COALESCE(image,'') AS image, on_order, featured, featured_footwear,
  created_at, COALESCE(updated_at,'') AS updated_at`

func (r *ProductRepo) List() ([]domain.Product, error) {
	var out []domain.Product
	err := r.db.Select(&out, `SELECT `+productCols+` FROM products ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, err
	}
	return out, r.loadChildren(out)
}

func (r *ProductRepo) ListByCategory(category string) ([]domain.Product, error) {
	var out []domain.Product
	err := r.db.Select(&out, `SELECT `+productCols+` FROM products WHERE category = ? ORDER BY created_at DESC, id`, category)
	if err != nil {
		return nil, err
	}
	return out, r.loadChildren(out)
}

func (r *ProductRepo) Get(id string) (domain.Product, error) {
	var p domain.Product
	err := r.db.Get(&p, `SELECT `+productCols+` FROM products WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return p, ErrNotFound
	}
	if err != nil {
		return p, err
	}
	ps := []domain.Product{p}
	if err := r.loadChildren(ps); err != nil {
		return p, err
	}
	return ps[0], nil
}

// loadChildren attaches size entries and color tags in two queries.
func (r *ProductRepo) loadChildren(products []domain.Product) error {
	if len(products) == 0 {
		return nil
	}
	ids := make([]string, 0, len(products))
	byID := make(map[string]*domain.Product, len(products))
	for i := range products {
		products[i].Sizes = []domain.SizeEntry{}
		products[i].Colors = []string{}
		ids = append(ids, products[i].ID)
		byID[products[i].ID] = &products[i]
	}

	type sizeRow struct {
		ProductID string  `db:"product_id"`
		Label     string  `db:"label"`
		Price     float64 `db:"price"`
	}
	query, args, err := sqlx.In(`SELECT product_id, label, price FROM product_sizes WHERE product_id IN (?) ORDER BY product_id, label`, ids)
	if err != nil {
		return err
	}
	var sizes []sizeRow
	if err := r.db.Select(&sizes, query, args...); err != nil {
		return err
	}
	for _, s := range sizes {
		if p, ok := byID[s.ProductID]; ok {
			p.Sizes = append(p.Sizes, domain.SizeEntry{Label: s.Label, Price: s.Price})
		}
	}

	type colorRow struct {
		ProductID string `db:"product_id"`
		Color     string `db:"color"`
	}
	query, args, err = sqlx.In(`SELECT product_id, color FROM product_colors WHERE product_id IN (?) ORDER BY product_id, color`, ids)
	if err != nil {
		return err
	}
	var colors []colorRow
	if err := r.db.Select(&colors, query, args...); err != nil {
		return err
	}
	for _, c := range colors {
		if p, ok := byID[c.ProductID]; ok {
			p.Colors = append(p.Colors, c.Color)
		}
	}
	return nil
}

func (r *ProductRepo) Create(p *domain.Product) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`
		INSERT INTO products(id,name,description,brand,category,price,image,on_order,featured,featured_footwear)
		VALUES(?,?,?,?,?,?,?,?,?,?)`,
		p.ID, p.Name, p.Description, p.Brand, p.Category, p.Price, p.Image,
		p.OnOrder, p.Featured, p.FeaturedFootwear); err != nil {
		return err
	}
	if err := insertChildren(tx, p); err != nil {
		return err
	}
	return tx.Commit()
}

// Update replaces the whole record, size entries and color tags included,
// in one transaction. A failed save leaves the stored record untouched.
func (r *ProductRepo) Update(p *domain.Product) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.Exec(`
		UPDATE products SET name=?, description=?, brand=?, category=?, price=?,
		  on_order=?, featured=?, featured_footwear=?, updated_at=CURRENT_TIMESTAMP
		WHERE id=?`,
		p.Name, p.Description, p.Brand, p.Category, p.Price,
		p.OnOrder, p.Featured, p.FeaturedFootwear, p.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}

	if _, err := tx.Exec(`DELETE FROM product_sizes WHERE product_id=?`, p.ID); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM product_colors WHERE product_id=?`, p.ID); err != nil {
		return err
	}
	if err := insertChildren(tx, p); err != nil {
		return err
	}
	return tx.Commit()
}

func insertChildren(tx *sqlx.Tx, p *domain.Product) error {
	for _, s := range p.Sizes {
		if _, err := tx.Exec(`INSERT INTO product_sizes(product_id,label,price) VALUES(?,?,?)`,
			p.ID, s.Label, s.Price); err != nil {
			return err
		}
	}
	for _, c := range p.Colors {
		if _, err := tx.Exec(`INSERT INTO product_colors(product_id,color) VALUES(?,?)`,
			p.ID, c); err != nil {
			return err
		}
	}
	return nil
}

func (r *ProductRepo) UpdateImage(id, image string) error {
	res, err := r.db.Exec(`UPDATE products SET image=?, updated_at=CURRENT_TIMESTAMP WHERE id=?`, image, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ProductRepo) Delete(id string) error {
	res, err := r.db.Exec(`DELETE FROM products WHERE id=?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
