package utils

import (
	"errors"
	"net/http"

	"food-ordering/internal/models"

	"github.com/labstack/echo/v4"
)

// RespondWithJSON writes a JSON payload with the given status.
func RespondWithJSON(c echo.Context, status int, payload interface{}) error {
	return c.JSON(status, payload)
}

// RespondWithError writes the uniform error body.
func RespondWithError(c echo.Context, status int, message string) error {
	return c.JSON(status, models.ErrorResponse{Message: message})
}

// HandleServiceError maps service-layer sentinel errors to HTTP responses.
// Anything unrecognized is a store failure: logged by echo, generic 500 body.
func HandleServiceError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return RespondWithError(c, http.StatusNotFound, "Resource not found")
	case errors.Is(err, models.ErrValidation), errors.Is(err, models.ErrInvalidStatus):
		return RespondWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, models.ErrForbidden), errors.Is(err, models.ErrTokenMismatch):
		return RespondWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, models.ErrOrderAlreadyFinal), errors.Is(err, models.ErrInvalidTransition):
		return RespondWithError(c, http.StatusConflict, err.Error())
	case errors.Is(err, models.ErrEmailTaken):
		return RespondWithError(c, http.StatusConflict, err.Error())
	case errors.Is(err, models.ErrInvalidCredentials), errors.Is(err, models.ErrInvalidOTP):
		return RespondWithError(c, http.StatusUnauthorized, err.Error())
	default:
		c.Logger().Errorf("unhandled service error: %v", err)
		return RespondWithError(c, http.StatusInternalServerError, "Something went wrong, please try again")
	}
}

// ExtractUserInfo reads the authenticated user's id and role, which the JWT
// middleware stores on the context.
func ExtractUserInfo(c echo.Context) (int, string, error) {
	userID, ok := c.Get("userID").(int)
	if !ok {
		return 0, "", RespondWithError(c, http.StatusUnauthorized, "Missing authentication context")
	}
	role, _ := c.Get("userRole").(string)
	return userID, role, nil
}
