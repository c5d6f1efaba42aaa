package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type LineaAsientoRequest struct {
	CuentaID uint            `json:"cuenta_id" validate:"required"`
	Detalle  string          `json:"detalle" validate:"max=500"`
	Debe     decimal.Decimal `json:"debe"`
	Haber    decimal.Decimal `json:"haber"`
}

type CrearAsientoRequest struct {
	Fecha       string                `json:"fecha" validate:"required,datetime=2006-01-02"`
	Descripcion string                `json:"descripcion" validate:"required,max=1000"`
	Confirmar   bool                  `json:"confirmar"`
	Lineas      []LineaAsientoRequest `json:"lineas" validate:"required,min=1,dive"`
}

type LineaAsientoResponse struct {
	ID       uint            `json:"id"`
	CuentaID uint            `json:"cuenta_id"`
	Cuenta   string          `json:"cuenta,omitempty"`
	Detalle  *string         `json:"detalle,omitempty"`
	Debe     decimal.Decimal `json:"debe"`
	Haber    decimal.Decimal `json:"haber"`
}

type AsientoResponse struct {
	ID          uint                   `json:"id"`
	Fecha       string                 `json:"fecha"`
	Descripcion string                 `json:"descripcion"`
	Estado      string                 `json:"estado"`
	TotalDebe   decimal.Decimal        `json:"total_debe"`
	TotalHaber  decimal.Decimal        `json:"total_haber"`
	Lineas      []LineaAsientoResponse `json:"lineas"`
	CreatedAt   time.Time              `json:"created_at"`
}
