package domain

type User struct {
	ID    string `db:"id"`
	Email string `db:"email"`
	Name  string `db:"name"`
	Hash  string `db:"password_hash"`
	Role  string `db:"role"` // ADMIN is the only role that can log in
}

// SocialEmbed is an embeddable social-media link managed from the
// back-office and shown on the storefront home page.
type SocialEmbed struct {
	ID        string `db:"id" json:"id"`
	URL       string `db:"url" json:"url"`
	CreatedAt string `db:"created_at" json:"createdAt"`
}
