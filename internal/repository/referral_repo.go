package repository

import (
	"context"

	"enci/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReferralRepository interface {
	Create(ctx context.Context, tx *gorm.DB, ref *model.Referral) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Referral, error)
	ListByDocente(ctx context.Context, docenteID uuid.UUID, q string, page, limit int) ([]model.Referral, int64, error)
	Update(ctx context.Context, tx *gorm.DB, ref *model.Referral) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountByGrupo(ctx context.Context, grupoID uuid.UUID) (total, activated int64, err error)
}

type referralRepo struct{ db *gorm.DB }

func NewReferralRepository(db *gorm.DB) ReferralRepository { return &referralRepo{db: db} }

func (r *referralRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *referralRepo) Create(ctx context.Context, tx *gorm.DB, ref *model.Referral) error {
	return r.conn(tx).WithContext(ctx).Create(ref).Error
}

// FindByID fetches without owner scoping; access is decided by the policy
// package at the service layer.
func (r *referralRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Referral, error) {
	var ref model.Referral
	err := r.db.WithContext(ctx).Preload("Student").Preload("Grupo").
		First(&ref, "id = ?", id).Error
	return &ref, err
}

func (r *referralRepo) ListByDocente(ctx context.Context, docenteID uuid.UUID, q string, page, limit int) ([]model.Referral, int64, error) {
	var refs []model.Referral
	var total int64
	offset := (page - 1) * limit

	query := r.db.WithContext(ctx).Model(&model.Referral{}).
		Where("docente_id = ?", docenteID)
	if q != "" {
		like := "%" + q + "%"
		query = query.Where(
			"student_id IN (SELECT id FROM usuarios WHERE username ILIKE ? OR email::text ILIKE ? OR nombre ILIKE ? OR apellido ILIKE ?)",
			like, like, like, like,
		)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Preload("Student").Preload("Grupo").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&refs).Error
	return refs, total, err
}

func (r *referralRepo) Update(ctx context.Context, tx *gorm.DB, ref *model.Referral) error {
	return r.conn(tx).WithContext(ctx).Save(ref).Error
}

func (r *referralRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Referral{}, id).Error
}

func (r *referralRepo) CountByGrupo(ctx context.Context, grupoID uuid.UUID) (int64, int64, error) {
	var total, activated int64
	if err := r.db.WithContext(ctx).Model(&model.Referral{}).
		Where("grupo_id = ?", grupoID).Count(&total).Error; err != nil {
		return 0, 0, err
	}
	err := r.db.WithContext(ctx).Model(&model.Referral{}).
		Where("grupo_id = ? AND activated = true", grupoID).Count(&activated).Error
	return total, activated, err
}
