package purchase

import (
	"context"

	"github.com/futurelab/intuto-connect/model"
	"gorm.io/gorm"
)

type EnrollmentRepository struct {
	db *gorm.DB
}

func (r *EnrollmentRepository) Record(ctx context.Context, enrollment *model.Enrollment) error {
	return r.db.WithContext(ctx).Create(enrollment).Error
}

func (r *EnrollmentRepository) ListByOrder(ctx context.Context, orderID string) ([]model.Enrollment, error) {
	var enrollments []model.Enrollment
	err := r.db.WithContext(ctx).Where("order_id = ?", orderID).Find(&enrollments).Error
	return enrollments, err
}

func NewEnrollmentRepository(db *gorm.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}
