package utils

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"food-ordering/internal/models"

	"github.com/labstack/echo/v4"
)

func serviceErrorResponse(t *testing.T, err error) (int, models.ErrorResponse) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := HandleServiceError(c, err); err != nil {
		t.Fatalf("HandleServiceError returned %v", err)
	}

	var body models.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal error body: %v", err)
	}
	return rec.Code, body
}

func TestHandleServiceError_NotFoundIsNeutral(t *testing.T) {
	wrapped := fmt.Errorf("repository.FindByID: %w", models.ErrNotFound)
	code, body := serviceErrorResponse(t, wrapped)
	if code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", code)
	}
	if strings.Contains(strings.ToLower(body.Message), "order") {
		t.Fatalf("not-found message must not assume the resource kind: %q", body.Message)
	}
}

func TestHandleServiceError_StatusMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{models.ErrValidation, http.StatusBadRequest},
		{models.ErrInvalidStatus, http.StatusBadRequest},
		{models.ErrForbidden, http.StatusForbidden},
		{models.ErrTokenMismatch, http.StatusForbidden},
		{models.ErrOrderAlreadyFinal, http.StatusConflict},
		{models.ErrInvalidTransition, http.StatusConflict},
		{models.ErrEmailTaken, http.StatusConflict},
		{models.ErrInvalidCredentials, http.StatusUnauthorized},
		{models.ErrInvalidOTP, http.StatusUnauthorized},
	}
	for _, tc := range cases {
		if code, _ := serviceErrorResponse(t, tc.err); code != tc.want {
			t.Errorf("%v mapped to %d, want %d", tc.err, code, tc.want)
		}
	}
}

func TestHandleServiceError_UnknownErrorIsGeneric(t *testing.T) {
	code, body := serviceErrorResponse(t, fmt.Errorf("pq: connection refused"))
	if code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", code)
	}
	if strings.Contains(body.Message, "connection refused") {
		t.Fatalf("internal detail leaked to client: %q", body.Message)
	}
}
