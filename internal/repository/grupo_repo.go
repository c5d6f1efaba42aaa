package repository

import (
	"context"

	"enci/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GrupoRepository interface {
	Create(ctx context.Context, g *model.Grupo) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Grupo, error)
	ListByDocente(ctx context.Context, docenteID uuid.UUID) ([]model.Grupo, error)
	Update(ctx context.Context, g *model.Grupo) error
	// Delete removes the group permanently; invitations cascade at the DB level.
	Delete(ctx context.Context, id uuid.UUID) error
}

type grupoRepo struct{ db *gorm.DB }

func NewGrupoRepository(db *gorm.DB) GrupoRepository { return &grupoRepo{db: db} }

func (r *grupoRepo) Create(ctx context.Context, g *model.Grupo) error {
	return r.db.WithContext(ctx).Create(g).Error
}

// FindByID fetches without owner scoping; the caller decides access via the
// policy package.
func (r *grupoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Grupo, error) {
	var g model.Grupo
	err := r.db.WithContext(ctx).First(&g, "id = ?", id).Error
	return &g, err
}

func (r *grupoRepo) ListByDocente(ctx context.Context, docenteID uuid.UUID) ([]model.Grupo, error) {
	var grupos []model.Grupo
	// Active groups first, newest first within each block
	err := r.db.WithContext(ctx).
		Where("docente_id = ?", docenteID).
		Order("active DESC, created_at DESC").
		Find(&grupos).Error
	return grupos, err
}

func (r *grupoRepo) Update(ctx context.Context, g *model.Grupo) error {
	return r.db.WithContext(ctx).Save(g).Error
}

func (r *grupoRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Grupo{}, id).Error
}
