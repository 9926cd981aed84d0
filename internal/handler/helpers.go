package handler

import (
	"net/http"
	"reflect"

	"filazero/internal/apierror"

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
// Returns false and writes the error response if validation fails; the
// caller must return immediately without writing another response.
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

// writeError maps the fault taxonomy to HTTP statuses: validação 422,
// conflito 409, persistência 502, qualquer outra coisa 500.
func writeError(c *gin.Context, err error) {
	switch apierror.KindOf(err) {
	case apierror.KindValidacao:
		if fields := apierror.FieldsOf(err); fields != nil {
			c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
			return
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.New(err.Error()))
	case apierror.KindConflito:
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
	case apierror.KindPersistencia:
		c.JSON(http.StatusBadGateway, apierror.New("falha de persistência; tente novamente"))
	default:
		c.JSON(http.StatusInternalServerError, apierror.New("erro interno"))
	}
}
