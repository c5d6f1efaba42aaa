package repository

import (
	"context"

	"enci/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InvitationRepository interface {
	Create(ctx context.Context, inv *model.Invitation) error
	FindByCode(ctx context.Context, code string) (*model.Invitation, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Invitation, error)
	ListByCreator(ctx context.Context, creatorID uuid.UUID) ([]model.Invitation, error)
	Update(ctx context.Context, inv *model.Invitation) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountReferrals(ctx context.Context, id uuid.UUID) (int64, error)
	// ConsumirUso atomically increments uses_count and deactivates the
	// invitation when the quota is reached, guarded so that concurrent
	// redeemers beyond the quota update zero rows. Must run inside the
	// redemption transaction.
	ConsumirUso(ctx context.Context, tx *gorm.DB, id uuid.UUID) (int64, error)
}

type invitationRepo struct{ db *gorm.DB }

func NewInvitationRepository(db *gorm.DB) InvitationRepository { return &invitationRepo{db: db} }

func (r *invitationRepo) Create(ctx context.Context, inv *model.Invitation) error {
	return r.db.WithContext(ctx).Create(inv).Error
}

func (r *invitationRepo) FindByCode(ctx context.Context, code string) (*model.Invitation, error) {
	var inv model.Invitation
	err := r.db.WithContext(ctx).Preload("Grupo").Where("code = ?", code).First(&inv).Error
	return &inv, err
}

// FindByID fetches without creator scoping; access is decided by the policy
// package at the service layer.
func (r *invitationRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Invitation, error) {
	var inv model.Invitation
	err := r.db.WithContext(ctx).Preload("Grupo").First(&inv, "id = ?", id).Error
	return &inv, err
}

func (r *invitationRepo) ListByCreator(ctx context.Context, creatorID uuid.UUID) ([]model.Invitation, error) {
	var invs []model.Invitation
	err := r.db.WithContext(ctx).Preload("Grupo").
		Where("creator_id = ?", creatorID).Order("created_at DESC").Find(&invs).Error
	return invs, err
}

func (r *invitationRepo) Update(ctx context.Context, inv *model.Invitation) error {
	return r.db.WithContext(ctx).Save(inv).Error
}

func (r *invitationRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Invitation{}, id).Error
}

func (r *invitationRepo) CountReferrals(ctx context.Context, id uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Referral{}).
		Where("invitation_id = ?", id).Count(&count).Error
	return count, err
}

func (r *invitationRepo) ConsumirUso(ctx context.Context, tx *gorm.DB, id uuid.UUID) (int64, error) {
	// Single conditional UPDATE: the WHERE clause re-checks validity so two
	// racers on the last remaining use cannot both succeed — the loser
	// matches zero rows. active flips to false in the same statement once
	// the quota is reached.
	result := tx.WithContext(ctx).Exec(`
		UPDATE invitations
		SET uses_count = uses_count + 1,
		    active = CASE
		        WHEN max_uses IS NOT NULL AND uses_count + 1 >= max_uses THEN false
		        ELSE active
		    END,
		    updated_at = NOW()
		WHERE id = ?
		  AND active = true
		  AND (expires_at IS NULL OR expires_at > NOW())
		  AND (max_uses IS NULL OR uses_count < max_uses)
	`, id)
	return result.RowsAffected, result.Error
}
