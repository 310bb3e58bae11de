package repos

import (
	"errors"
	"log"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a write targets a record that is not there.
var ErrNotFound = errors.New("record not found")

func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	// Seed demo catalog if DB is empty (idempotent; safe to run every start)
	if err := seedIfEmpty(db); err != nil {
		return nil, err
	}
	if err := seedUsers(db); err != nil {
		return nil, err
	}

	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Products
CREATE TABLE IF NOT EXISTS products(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  description TEXT,
  brand TEXT NOT NULL,
  category TEXT NOT NULL CHECK (category IN ('clothing','footwear','accessories')),
  price NUMERIC NOT NULL CHECK (price >= 0),
  image TEXT,
  on_order INTEGER NOT NULL DEFAULT 0,
  featured INTEGER NOT NULL DEFAULT 0,
  featured_footwear INTEGER NOT NULL DEFAULT 0,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_products_category ON products(category);
CREATE INDEX IF NOT EXISTS idx_products_brand    ON products(brand);
CREATE INDEX IF NOT EXISTS idx_products_name     ON products(LOWER(name));

-- Size entries: presence of a row means the size is stocked
CREATE TABLE IF NOT EXISTS product_sizes(
  product_id TEXT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
  label TEXT NOT NULL,
  price NUMERIC NOT NULL DEFAULT 0,
  PRIMARY KEY(product_id, label)
);
CREATE INDEX IF NOT EXISTS idx_sizes_product ON product_sizes(product_id);

CREATE TABLE IF NOT EXISTS product_colors(
  product_id TEXT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
  color TEXT NOT NULL,
  PRIMARY KEY(product_id, color)
);

-- Social embeds managed from the back-office
CREATE TABLE IF NOT EXISTS social_embeds(
  id TEXT PRIMARY KEY,
  url TEXT NOT NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);

-- Back-office users
CREATE TABLE IF NOT EXISTS users(
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL CHECK (role IN ('ADMIN')),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(LOWER(email));

-- Session carts
CREATE TABLE IF NOT EXISTS carts(
  id TEXT PRIMARY KEY,
  session_id TEXT UNIQUE NOT NULL,
  updated_at TEXT
);

CREATE TABLE IF NOT EXISTS cart_items(
  cart_id    TEXT NOT NULL REFERENCES carts(id) ON DELETE CASCADE,
  product_id TEXT NOT NULL REFERENCES products(id) ON DELETE RESTRICT,
  size_label TEXT NOT NULL,
  qty INTEGER NOT NULL CHECK (qty >= 1),
  price_at_add NUMERIC NOT NULL,
  created_at TEXT,
  updated_at TEXT,
  PRIMARY KEY (cart_id, product_id, size_label)
);
`
	_, err := db.Exec(schema)
	return err
}

func seedIfEmpty(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM products`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting demo products")

	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	tx.MustExec(`INSERT INTO products(id,name,description,brand,category,price,image,on_order,featured,featured_footwear) VALUES
	  ('am90-white','Air Max 90','Classic leather and mesh runner','Nike','footwear',140,'products/am90-white/main.jpg',0,1,1),
	  ('dunk-panda','Dunk Low Panda','Black and white colorway','Nike','footwear',120,'products/dunk-panda/main.jpg',1,1,0),
	  ('samba-og','Samba OG','Gum sole, leather upper','Adidas','footwear',110,'products/samba-og/main.jpg',0,0,1),
	  ('hoodie-box','Box Logo Hoodie','Heavyweight fleece hoodie','Supreme','clothing',95,'products/hoodie-box/main.jpg',0,1,0),
	  ('cap-nyc','NYC Cap','Six panel cotton cap','New Era','accessories',35,'products/cap-nyc/main.jpg',0,0,0),
	  ('jordan1-uni','Jordan 1 University Blue','Special order import','Jordan','footwear',210,'products/jordan1-uni/main.jpg',1,0,0)`)

	tx.MustExec(`INSERT INTO product_sizes(product_id,label,price) VALUES
	  ('am90-white','41',140),('am90-white','42',140),('am90-white','43',145),
	  ('dunk-panda','42',120),('dunk-panda','44',125),
	  ('samba-og','40',110),('samba-og','41',110),
	  ('hoodie-box','M',95),('hoodie-box','L',95),('hoodie-box','XL',100),
	  ('cap-nyc','OS',35)`)

	tx.MustExec(`INSERT INTO product_colors(product_id,color) VALUES
	  ('am90-white','white'),('am90-white','grey'),
	  ('dunk-panda','black'),('dunk-panda','white'),
	  ('samba-og','black'),
	  ('hoodie-box','navy'),
	  ('cap-nyc','black')`)

	tx.MustExec(`INSERT INTO social_embeds(id,url) VALUES
	  ('emb-1','https://www.tiktok.com/@tiendita/video/7300000000000000001')`)

	return tx.Commit()
}

// seedUsers ensures the back-office admin exists (idempotent).
func seedUsers(db *sqlx.DB) error {
	h, err := bcrypt.GenerateFromPassword([]byte("Admin123!"), 12)
	if err != nil {
		return err
	}
	_, err = db.Exec(`
		INSERT INTO users(id,email,name,password_hash,role)
		VALUES('u-admin','admin@tiendita.test','Admin',?, 'ADMIN')
		ON CONFLICT(email) DO NOTHING
	`, string(h))
	return err
}
