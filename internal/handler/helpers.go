package handler

import (
	"errors"
	"net/http"
	"reflect"

	"boutique/internal/apierror"
	"boutique/internal/middleware"
	"boutique/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
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
// Returns false and writes the error response if validation fails;
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON invalide: "+err.Error()))
		return false
	}
	return runValidation(c, req)
}

// bindQuery is bindAndValidate for query-string filters.
func bindQuery(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Paramètres invalides: "+err.Error()))
		return false
	}
	return runValidation(c, req)
}

func runValidation(c *gin.Context, req interface{}) bool {
	if err := validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
			return false
		}
		fields := make(map[string]string)
		for _, fe := range verrs {
			fields[fe.Namespace()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// respondError maps service error kinds to HTTP statuses. Unknown errors are
// logged and answered with a generic 500.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
	case errors.Is(err, service.ErrValidation):
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
	case errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
	case errors.Is(err, service.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, apierror.New(err.Error()))
	default:
		log.Error().
			Err(err).
			Str("request_id", c.GetString(middleware.RequestIDKey)).
			Str("path", c.FullPath()).
			Msg("request failed")
		c.JSON(http.StatusInternalServerError, apierror.New("Erreur interne du serveur"))
	}
}

// parseID reads the :name path parameter as a UUID, answering 400 otherwise.
func parseID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Identifiant invalide"))
		return uuid.Nil, false
	}
	return id, true
}

type idsRequest struct {
	IDs []string `json:"ids" validate:"required,min=1,dive,uuid"`
}

// bindIDs reads the body of the delete/many routes: a bare array of ids, or
// the {"ids": [...]} object older clients send.
func bindIDs(c *gin.Context) ([]uuid.UUID, bool) {
	var req idsRequest
	if err := c.ShouldBindBodyWith(&req.IDs, binding.JSON); err != nil {
		if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("JSON invalide: tableau d'identifiants attendu"))
			return nil, false
		}
	}
	if !runValidation(c, &req) {
		return nil, false
	}
	ids := make([]uuid.UUID, len(req.IDs))
	for i, raw := range req.IDs {
		ids[i] = uuid.MustParse(raw)
	}
	return ids, true
}
