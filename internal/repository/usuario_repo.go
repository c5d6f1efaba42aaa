package repository

import (
	"context"

	"enci/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UsuarioRepository interface {
	Create(ctx context.Context, tx *gorm.DB, u *model.Usuario) error
	CreatePerfil(ctx context.Context, tx *gorm.DB, p *model.Perfil) error
	FindByUsername(ctx context.Context, username string) (*model.Usuario, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Usuario, error)
	FindPerfil(ctx context.Context, usuarioID uuid.UUID) (*model.Perfil, error)
	UpdatePerfil(ctx context.Context, tx *gorm.DB, p *model.Perfil) error
	ExistsUsername(ctx context.Context, username string) (bool, error)
	ExistsEmail(ctx context.Context, email string) (bool, error)
	ListAdmins(ctx context.Context) ([]model.Usuario, error)
	ListEstudiantes(ctx context.Context, q string, page, limit int) ([]model.Usuario, int64, error)
	DB() *gorm.DB // exposes the DB for transaction creation in service layer
}

type usuarioRepo struct{ db *gorm.DB }

func NewUsuarioRepository(db *gorm.DB) UsuarioRepository { return &usuarioRepo{db: db} }

func (r *usuarioRepo) DB() *gorm.DB { return r.db }

func (r *usuarioRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *usuarioRepo) Create(ctx context.Context, tx *gorm.DB, u *model.Usuario) error {
	return r.conn(tx).WithContext(ctx).Create(u).Error
}

func (r *usuarioRepo) CreatePerfil(ctx context.Context, tx *gorm.DB, p *model.Perfil) error {
	return r.conn(tx).WithContext(ctx).Create(p).Error
}

func (r *usuarioRepo) FindByUsername(ctx context.Context, username string) (*model.Usuario, error) {
	var u model.Usuario
	// Accept login by username OR email (case-insensitive email match)
	err := r.db.WithContext(ctx).
		Preload("Perfil").
		Where("username = ? OR LOWER(email::text) = LOWER(?)", username, username).
		First(&u).Error
	return &u, err
}

func (r *usuarioRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Usuario, error) {
	var u model.Usuario
	err := r.db.WithContext(ctx).Preload("Perfil").First(&u, id).Error
	return &u, err
}

func (r *usuarioRepo) FindPerfil(ctx context.Context, usuarioID uuid.UUID) (*model.Perfil, error) {
	var p model.Perfil
	err := r.db.WithContext(ctx).Where("usuario_id = ?", usuarioID).First(&p).Error
	return &p, err
}

func (r *usuarioRepo) UpdatePerfil(ctx context.Context, tx *gorm.DB, p *model.Perfil) error {
	return r.conn(tx).WithContext(ctx).Save(p).Error
}

func (r *usuarioRepo) ExistsUsername(ctx context.Context, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Usuario{}).
		Where("username = ?", username).Count(&count).Error
	return count > 0, err
}

func (r *usuarioRepo) ExistsEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Usuario{}).
		Where("LOWER(email::text) = LOWER(?)", email).Count(&count).Error
	return count > 0, err
}

func (r *usuarioRepo) ListAdmins(ctx context.Context) ([]model.Usuario, error) {
	var admins []model.Usuario
	err := r.db.WithContext(ctx).
		Where("is_superuser = true OR id IN (SELECT usuario_id FROM perfiles WHERE rol = ?)", model.RolAdmin).
		Find(&admins).Error
	return admins, err
}

func (r *usuarioRepo) ListEstudiantes(ctx context.Context, q string, page, limit int) ([]model.Usuario, int64, error) {
	var users []model.Usuario
	var total int64
	offset := (page - 1) * limit

	query := r.db.WithContext(ctx).Model(&model.Usuario{}).
		Joins("JOIN perfiles ON perfiles.usuario_id = usuarios.id AND perfiles.rol = ?", model.RolEstudiante)
	if q != "" {
		like := "%" + q + "%"
		query = query.Where(
			"username ILIKE ? OR email::text ILIKE ? OR nombre ILIKE ? OR apellido ILIKE ?",
			like, like, like, like,
		)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Preload("Perfil").Order("username ASC").
		Offset(offset).Limit(limit).Find(&users).Error
	return users, total, err
}
