package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"enci/internal/dto"
	"enci/internal/model"
	"enci/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Journal entry rejections. Each names the exact double-entry rule broken.
var (
	ErrAsientoSinLineas     = errors.New("El asiento debe tener al menos una línea")
	ErrLineaAmbosLados      = errors.New("Una línea no puede tener Debe y Haber a la vez")
	ErrLineaSinMonto        = errors.New("Cada línea debe tener un monto en Debe o en Haber")
	ErrLineaMontoNegativo   = errors.New("Los montos no pueden ser negativos")
	ErrAsientoDesbalanceado = errors.New("El asiento no balancea: total Debe debe igualar total Haber")
	ErrCuentaNoImputable    = errors.New("Solo cuentas auxiliares activas y sin subcuentas reciben movimientos")
)

type AsientoService interface {
	Crear(ctx context.Context, usuarioID uuid.UUID, req dto.CrearAsientoRequest) (*dto.AsientoResponse, error)
	Obtener(ctx context.Context, id uint) (*dto.AsientoResponse, error)
	Listar(ctx context.Context, page, limit int) (*dto.PaginatedResponse, error)
}

type asientoService struct {
	repo  repository.AsientoRepository
	audit repository.AuditRepository
}

func NewAsientoService(repo repository.AsientoRepository, audit repository.AuditRepository) AsientoService {
	return &asientoService{repo: repo, audit: audit}
}

// Crear validates and persists one journal entry.
//
// Rules enforced before anything touches the database:
//   - at least one line
//   - every line carries exactly one side (Debe XOR Haber), non-negative
//   - total Debe equals total Haber and is positive
//   - every account is an active auxiliary leaf (no children)
//
// Header and lines are inserted in one transaction; a partially written
// asiento cannot exist.
func (s *asientoService) Crear(ctx context.Context, usuarioID uuid.UUID, req dto.CrearAsientoRequest) (*dto.AsientoResponse, error) {
	fecha, err := time.Parse("2006-01-02", req.Fecha)
	if err != nil {
		return nil, fmt.Errorf("fecha inválida: %w", err)
	}
	if len(req.Lineas) == 0 {
		return nil, ErrAsientoSinLineas
	}

	totalDebe := decimal.Zero
	totalHaber := decimal.Zero
	cuentaIDs := make([]uint, 0, len(req.Lineas))
	for _, l := range req.Lineas {
		if l.Debe.IsNegative() || l.Haber.IsNegative() {
			return nil, ErrLineaMontoNegativo
		}
		if l.Debe.IsPositive() && l.Haber.IsPositive() {
			return nil, ErrLineaAmbosLados
		}
		if l.Debe.IsZero() && l.Haber.IsZero() {
			return nil, ErrLineaSinMonto
		}
		totalDebe = totalDebe.Add(l.Debe)
		totalHaber = totalHaber.Add(l.Haber)
		cuentaIDs = append(cuentaIDs, l.CuentaID)
	}
	if !totalDebe.Equal(totalHaber) || totalDebe.IsZero() {
		return nil, ErrAsientoDesbalanceado
	}

	cuentas, err := s.repo.FindCuentas(ctx, cuentaIDs)
	if err != nil {
		return nil, err
	}
	for _, id := range cuentaIDs {
		c, ok := cuentas[id]
		if !ok || !c.Activa || !c.EsAuxiliar || c.TieneHijos {
			return nil, fmt.Errorf("cuenta %d: %w", id, ErrCuentaNoImputable)
		}
	}

	estado := model.EstadoBorrador
	if req.Confirmar {
		estado = model.EstadoConfirmado
	}
	asiento := &model.Asiento{
		Fecha:              fecha,
		DescripcionGeneral: req.Descripcion,
		Estado:             estado,
		CreadoPorID:        usuarioID,
	}

	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.CreateAsiento(ctx, tx, asiento); err != nil {
			return err
		}
		lineas := make([]model.Transaccion, len(req.Lineas))
		for i, l := range req.Lineas {
			lineas[i] = model.Transaccion{
				AsientoID: asiento.ID,
				CuentaID:  l.CuentaID,
				Debe:      l.Debe,
				Haber:     l.Haber,
			}
			if l.Detalle != "" {
				detalle := l.Detalle
				lineas[i].DetalleLinea = &detalle
			}
		}
		if err := s.repo.BulkCreateTransacciones(ctx, tx, lineas); err != nil {
			return err
		}
		asiento.Transacciones = lineas

		return s.audit.Create(ctx, tx, &model.AuditLog{
			ActorID:     &usuarioID,
			Action:      model.AuditCrearAsiento,
			Description: fmt.Sprintf("Asiento %d (%s) por %s", asiento.ID, estado, totalDebe.StringFixed(2)),
		})
	})
	if err != nil {
		return nil, err
	}

	resp := asientoToResponse(asiento, cuentas)
	return &resp, nil
}

func (s *asientoService) Obtener(ctx context.Context, id uint) (*dto.AsientoResponse, error) {
	asiento, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoEncontrado
		}
		return nil, err
	}
	resp := asientoToResponse(asiento, nil)
	return &resp, nil
}

func (s *asientoService) Listar(ctx context.Context, page, limit int) (*dto.PaginatedResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 25
	}
	asientos, total, err := s.repo.List(ctx, page, limit)
	if err != nil {
		return nil, err
	}
	items := make([]dto.AsientoResponse, len(asientos))
	for i := range asientos {
		items[i] = asientoToResponse(&asientos[i], nil)
	}
	return &dto.PaginatedResponse{Items: items, Total: total, Page: page, PageSize: limit}, nil
}

func asientoToResponse(a *model.Asiento, cuentas map[uint]*repository.CuentaConHijos) dto.AsientoResponse {
	totalDebe := decimal.Zero
	totalHaber := decimal.Zero
	lineas := make([]dto.LineaAsientoResponse, len(a.Transacciones))
	for i, t := range a.Transacciones {
		lineas[i] = dto.LineaAsientoResponse{
			ID:       t.ID,
			CuentaID: t.CuentaID,
			Detalle:  t.DetalleLinea,
			Debe:     t.Debe,
			Haber:    t.Haber,
		}
		if t.Cuenta != nil {
			lineas[i].Cuenta = t.Cuenta.Codigo + " " + t.Cuenta.Descripcion
		} else if c, ok := cuentas[t.CuentaID]; ok {
			lineas[i].Cuenta = c.Codigo + " " + c.Descripcion
		}
		totalDebe = totalDebe.Add(t.Debe)
		totalHaber = totalHaber.Add(t.Haber)
	}
	return dto.AsientoResponse{
		ID:          a.ID,
		Fecha:       a.Fecha.Format("2006-01-02"),
		Descripcion: a.DescripcionGeneral,
		Estado:      a.Estado,
		TotalDebe:   totalDebe,
		TotalHaber:  totalHaber,
		Lineas:      lineas,
		CreatedAt:   a.CreatedAt,
	}
}
