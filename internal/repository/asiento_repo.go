package repository

import (
	"context"

	"enci/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AsientoRepository interface {
	CreateAsiento(ctx context.Context, tx *gorm.DB, a *model.Asiento) error
	BulkCreateTransacciones(ctx context.Context, tx *gorm.DB, lineas []model.Transaccion) error
	FindByID(ctx context.Context, id uint) (*model.Asiento, error)
	List(ctx context.Context, page, limit int) ([]model.Asiento, int64, error)
	FindCuentas(ctx context.Context, ids []uint) (map[uint]*CuentaConHijos, error)

	// Ledger repair primitives — see service.LedgerRepairService.
	FindViolaciones(ctx context.Context, afterID uint, limit int) ([]model.Transaccion, error)
	LockLinea(ctx context.Context, tx *gorm.DB, id uint) (*model.Transaccion, error)
	CreateTransaccion(ctx context.Context, tx *gorm.DB, t *model.Transaccion) error
	DeleteTransaccion(ctx context.Context, tx *gorm.DB, id uint) error

	DB() *gorm.DB // exposes the DB for transaction creation in service layer
}

// CuentaConHijos annotates an account with whether it has child accounts;
// only childless (leaf) auxiliary accounts may receive transactions.
type CuentaConHijos struct {
	model.CuentaContable
	TieneHijos bool
}

type asientoRepo struct{ db *gorm.DB }

func NewAsientoRepository(db *gorm.DB) AsientoRepository { return &asientoRepo{db: db} }

func (r *asientoRepo) DB() *gorm.DB { return r.db }

func (r *asientoRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *asientoRepo) CreateAsiento(ctx context.Context, tx *gorm.DB, a *model.Asiento) error {
	return r.conn(tx).WithContext(ctx).Omit("Transacciones").Create(a).Error
}

func (r *asientoRepo) BulkCreateTransacciones(ctx context.Context, tx *gorm.DB, lineas []model.Transaccion) error {
	return r.conn(tx).WithContext(ctx).CreateInBatches(lineas, 1000).Error
}

func (r *asientoRepo) FindByID(ctx context.Context, id uint) (*model.Asiento, error) {
	var a model.Asiento
	err := r.db.WithContext(ctx).
		Preload("Transacciones", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Transacciones.Cuenta").
		First(&a, id).Error
	return &a, err
}

func (r *asientoRepo) List(ctx context.Context, page, limit int) ([]model.Asiento, int64, error) {
	var asientos []model.Asiento
	var total int64
	offset := (page - 1) * limit

	if err := r.db.WithContext(ctx).Model(&model.Asiento{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := r.db.WithContext(ctx).
		Preload("Transacciones").
		Order("fecha DESC, id DESC").
		Offset(offset).Limit(limit).
		Find(&asientos).Error
	return asientos, total, err
}

func (r *asientoRepo) FindCuentas(ctx context.Context, ids []uint) (map[uint]*CuentaConHijos, error) {
	var cuentas []model.CuentaContable
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&cuentas).Error; err != nil {
		return nil, err
	}

	// Resolve which of the requested accounts have children in one query
	var conHijos []uint
	if err := r.db.WithContext(ctx).Model(&model.CuentaContable{}).
		Distinct("padre_id").
		Where("padre_id IN ?", ids).
		Pluck("padre_id", &conHijos).Error; err != nil {
		return nil, err
	}
	hijosSet := make(map[uint]bool, len(conHijos))
	for _, id := range conHijos {
		hijosSet[id] = true
	}

	result := make(map[uint]*CuentaConHijos, len(cuentas))
	for i := range cuentas {
		c := cuentas[i]
		result[c.ID] = &CuentaConHijos{CuentaContable: c, TieneHijos: hijosSet[c.ID]}
	}
	return result, nil
}

// ── Ledger repair primitives ─────────────────────────────────────────────────

func (r *asientoRepo) FindViolaciones(ctx context.Context, afterID uint, limit int) ([]model.Transaccion, error) {
	// Keyset pagination: never loads the whole table, safe for arbitrarily
	// large ledgers.
	var lineas []model.Transaccion
	err := r.db.WithContext(ctx).
		Where("id > ? AND debe > 0 AND haber > 0", afterID).
		Order("id ASC").
		Limit(limit).
		Find(&lineas).Error
	return lineas, err
}

func (r *asientoRepo) LockLinea(ctx context.Context, tx *gorm.DB, id uint) (*model.Transaccion, error) {
	// SELECT ... FOR UPDATE so a live writer cannot race the split-and-delete
	var t model.Transaccion
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&t, id).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *asientoRepo) CreateTransaccion(ctx context.Context, tx *gorm.DB, t *model.Transaccion) error {
	return r.conn(tx).WithContext(ctx).Create(t).Error
}

func (r *asientoRepo) DeleteTransaccion(ctx context.Context, tx *gorm.DB, id uint) error {
	return r.conn(tx).WithContext(ctx).Delete(&model.Transaccion{}, id).Error
}
