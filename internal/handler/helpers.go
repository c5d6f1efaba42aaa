package handler

import (
	"errors"
	"net/http"
	"reflect"

	"enci/internal/apierror"
	"enci/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON inválido: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// respondError maps domain error kinds to HTTP statuses. Anything
// unrecognized goes through the ErrorHandler middleware as a 500 so internals
// never leak to the client.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNoEncontrado):
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
	case errors.Is(err, service.ErrProhibido), errors.Is(err, service.ErrCuentaInactiva):
		c.JSON(http.StatusForbidden, apierror.New(err.Error()))
	case errors.Is(err, service.ErrCredencialesInvalidas):
		c.JSON(http.StatusUnauthorized, apierror.New(err.Error()))
	case errors.Is(err, service.ErrUsernameEnUso),
		errors.Is(err, service.ErrEmailEnUso),
		errors.Is(err, service.ErrInvitacionConReferrals),
		errors.Is(err, service.ErrColisionCodigo):
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
	case errors.Is(err, service.ErrCodigoInvalido),
		errors.Is(err, service.ErrInvitacionAgotada),
		errors.Is(err, service.ErrEmisorInvalido),
		errors.Is(err, service.ErrAccionInvalida),
		errors.Is(err, service.ErrExpiracionPasada),
		errors.Is(err, service.ErrAsientoSinLineas),
		errors.Is(err, service.ErrLineaAmbosLados),
		errors.Is(err, service.ErrLineaSinMonto),
		errors.Is(err, service.ErrLineaMontoNegativo),
		errors.Is(err, service.ErrAsientoDesbalanceado),
		errors.Is(err, service.ErrCuentaNoImputable):
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
	default:
		_ = c.Error(err)
	}
}
