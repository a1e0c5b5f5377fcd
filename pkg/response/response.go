package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"anoa.com/productcatalog/pkg/apperror"
	"anoa.com/productcatalog/pkg/validator"
	"github.com/gin-gonic/gin"
	playground "github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

// ParseID reads a positive numeric path parameter.
func ParseID(c *gin.Context, param string) (uint, error) {
	raw := c.Param(param)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, apperror.Invalid(fmt.Sprintf("invalid %s: %q", param, raw))
	}
	return uint(id), nil
}

// DecodeJSON reads the request body into obj without running binding
// validation, so callers can check identity fields first.
func DecodeJSON(c *gin.Context, obj any) error {
	if c.Request.Body == nil {
		return fmt.Errorf("request body is empty: %w", apperror.ErrBadRequest)
	}
	if err := json.NewDecoder(c.Request.Body).Decode(obj); err != nil {
		return fmt.Errorf("malformed JSON body: %w", apperror.ErrBadRequest)
	}
	return nil
}

// ResponseError standardized error response
func ResponseError(c *gin.Context, err error) {
	code := apperror.MapErrorToStatus(err)

	if code >= http.StatusInternalServerError {
		logrus.WithError(err).WithField("path", c.FullPath()).Error("request failed")
	}

	c.JSON(code, gin.H{"error": Message(err)})
}

// BindError answers a failed ShouldBind* call with 400.
func BindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
}

// Message returns the client facing text for err. Validation errors keep their
// own message, internal errors are not leaked.
func Message(err error) string {
	var verr *apperror.ValidationError
	if errors.As(err, &verr) {
		return verr.Message
	}
	var fieldErrs playground.ValidationErrors
	if errors.As(err, &fieldErrs) {
		return validator.FormatValidationError(fieldErrs)
	}
	if apperror.MapErrorToStatus(err) >= http.StatusInternalServerError {
		return apperror.ErrInternal.Error()
	}
	return err.Error()
}
