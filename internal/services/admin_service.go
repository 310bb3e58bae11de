package services

import (
	"errors"
	"mime/multipart"

	"github.com/google/uuid"

	"tiendita/internal/domain"
	"tiendita/internal/media"
	"tiendita/internal/repos"
	"tiendita/internal/validate"
)

var ErrInvalidProduct = errors.New("invalid product")

// AdminService is the back-office write path: product CRUD plus image
// storage. Every write validates before touching storage.
type AdminService struct {
	Prods *repos.ProductRepo
	Media *media.Store
}

func NewAdminService(prods *repos.ProductRepo, store *media.Store) *AdminService {
	return &AdminService{Prods: prods, Media: store}
}

func checkProduct(p *domain.Product) error {
	if _, ok := validate.Name(p.Name); !ok {
		return ErrInvalidProduct
	}
	if _, ok := validate.Name(p.Brand); !ok {
		return ErrInvalidProduct
	}
	if !domain.ValidCategory(p.Category) {
		return ErrInvalidProduct
	}
	if p.Price < 0 {
		return ErrInvalidProduct
	}
	for _, s := range p.Sizes {
		if _, ok := validate.SizeLabel(s.Label); !ok || s.Price < 0 {
			return ErrInvalidProduct
		}
	}
	return nil
}

// Create stores a new product; when an image upload accompanies it, the
// file is saved first and its reference recorded on the row.
func (s *AdminService) Create(p *domain.Product, image *multipart.FileHeader) (domain.Product, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if err := checkProduct(p); err != nil {
		return domain.Product{}, err
	}
	if image != nil {
		ref, err := s.Media.SaveProductImage(p.ID, image)
		if err != nil {
			return domain.Product{}, err
		}
		p.Image = ref
	}
	if err := s.Prods.Create(p); err != nil {
		return domain.Product{}, err
	}
	return s.Prods.Get(p.ID)
}

// Update replaces the full record. The image reference is not part of the
// JSON update path; it changes only through UpdateImage.
func (s *AdminService) Update(p *domain.Product) (domain.Product, error) {
	if err := checkProduct(p); err != nil {
		return domain.Product{}, err
	}
	if err := s.Prods.Update(p); err != nil {
		return domain.Product{}, err
	}
	return s.Prods.Get(p.ID)
}

func (s *AdminService) UpdateImage(id string, image *multipart.FileHeader) (domain.Product, error) {
	prev, err := s.Prods.Get(id)
	if err != nil {
		return domain.Product{}, err
	}
	ref, err := s.Media.SaveProductImage(id, image)
	if err != nil {
		return domain.Product{}, err
	}
	if err := s.Prods.UpdateImage(id, ref); err != nil {
		return domain.Product{}, err
	}
	if prev.Image != "" && prev.Image != ref {
		_ = s.Media.Remove(prev.Image)
	}
	return s.Prods.Get(id)
}

func (s *AdminService) Delete(id string) error {
	if err := s.Prods.Delete(id); err != nil {
		return err
	}
	return s.Media.RemoveProductDir(id)
}
