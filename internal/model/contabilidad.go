package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Tipos y naturalezas del plan de cuentas.
const (
	TipoActivo     = "Activo"
	TipoPasivo     = "Pasivo"
	TipoPatrimonio = "Patrimonio"
	TipoIngreso    = "Ingreso"
	TipoCosto      = "Costo"
	TipoGasto      = "Gasto"

	NaturalezaDeudora   = "Deudora"
	NaturalezaAcreedora = "Acreedora"

	EstadoBorrador   = "Borrador"
	EstadoConfirmado = "Confirmado"
)

// CuentaContable is a node in the chart of accounts. Only active leaf
// accounts marked EsAuxiliar may receive transactions.
type CuentaContable struct {
	ID          uint   `gorm:"primaryKey"`
	Codigo      string `gorm:"type:varchar(50);uniqueIndex;not null"`
	Descripcion string `gorm:"not null"`
	Tipo        string `gorm:"type:varchar(10);not null"`
	Naturaleza  string `gorm:"type:varchar(9);not null"`
	// EsAuxiliar: true for leaf accounts that can receive movements
	EsAuxiliar bool  `gorm:"not null;default:false"`
	Activa     bool  `gorm:"not null;default:true"`
	PadreID    *uint `gorm:"index"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (CuentaContable) TableName() string { return "cuentas_contables" }

// Asiento is the header of one accounting transaction: a grouped, balanced
// set of ledger lines.
// Estado: "Borrador" | "Confirmado"
type Asiento struct {
	ID                 uint      `gorm:"primaryKey"`
	Fecha              time.Time `gorm:"type:date;not null;index"`
	DescripcionGeneral string    `gorm:"not null"`
	Estado             string    `gorm:"type:varchar(10);not null;default:'Borrador'"`
	CreadoPorID        uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt          time.Time
	UpdatedAt          time.Time

	Transacciones []Transaccion `gorm:"foreignKey:AsientoID"`
}

func (Asiento) TableName() string { return "asientos" }

// Transaccion is one ledger line of an Asiento. Double-entry invariant:
// exactly one of Debe/Haber is nonzero; a line with both positive is invalid
// and only exists as historical data repaired by the ledger fix batch.
type Transaccion struct {
	ID           uint            `gorm:"primaryKey"`
	AsientoID    uint            `gorm:"index;not null"`
	CuentaID     uint            `gorm:"index;not null"`
	DetalleLinea *string         `gorm:"type:varchar(500)"`
	Debe         decimal.Decimal `gorm:"type:decimal(19,2);not null;default:0"`
	Haber        decimal.Decimal `gorm:"type:decimal(19,2);not null;default:0"`
	CreatedAt    time.Time

	Cuenta *CuentaContable `gorm:"foreignKey:CuentaID"`
}

func (Transaccion) TableName() string { return "transacciones" }
