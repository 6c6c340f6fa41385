package products

import (
	"context"
	"errors"

	"github.com/futurelab/intuto-connect/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository owns the product → collection links. The purchase workflow
// consumes it read-only; writes come from the admin endpoints.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CollectionFor returns the linked collection id for a product, or 0 when
// the product is not an Intuto product.
func (r *Repository) CollectionFor(ctx context.Context, productID uint) (int64, error) {
	var link model.ProductLink
	err := r.db.WithContext(ctx).Where("product_id = ?", productID).First(&link).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return link.CollectionID, nil
}

func (r *Repository) Get(ctx context.Context, productID uint) (*model.ProductLink, error) {
	var link model.ProductLink
	err := r.db.WithContext(ctx).Where("product_id = ?", productID).First(&link).Error
	if err != nil {
		return nil, err
	}
	return &link, nil
}

// Set upserts the link for a product. A collection id of 0 marks the product
// as not an Intuto product without deleting the row.
func (r *Repository) Set(ctx context.Context, link *model.ProductLink) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "product_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"collection_id", "product_name", "updated_at"}),
	}).Create(link).Error
}

func (r *Repository) Delete(ctx context.Context, productID uint) error {
	return r.db.WithContext(ctx).Where("product_id = ?", productID).Delete(&model.ProductLink{}).Error
}

func (r *Repository) List(ctx context.Context) ([]model.ProductLink, error) {
	var links []model.ProductLink
	err := r.db.WithContext(ctx).Order("product_id").Find(&links).Error
	return links, err
}
