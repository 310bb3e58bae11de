package repos

import (
	"github.com/jmoiron/sqlx"

	"tiendita/internal/domain"
)

type EmbedRepo struct{ db *sqlx.DB }

func NewEmbedRepo(db *sqlx.DB) *EmbedRepo { return &EmbedRepo{db: db} }

func (r *EmbedRepo) List() ([]domain.SocialEmbed, error) {
	out := []domain.SocialEmbed{}
	err := r.db.Select(&out, `SELECT id, url, created_at FROM social_embeds ORDER BY created_at DESC, id`)
	return out, err
}

func (r *EmbedRepo) Create(e *domain.SocialEmbed) error {
	_, err := r.db.Exec(`INSERT INTO social_embeds(id,url) VALUES(?,?)`, e.ID, e.URL)
	return err
}

func (r *EmbedRepo) Delete(id string) error {
	res, err := r.db.Exec(`DELETE FROM social_embeds WHERE id=?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
