package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/carelink/hospital-api/pkg/errors"
)

func respond(t *testing.T, err error) (*httptest.ResponseRecorder, Response) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	RespondError(c, err)

	var body Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestRespondError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"not found", apperrors.NotFound("doctor", nil), http.StatusNotFound, "doctor not found"},
		{"bad request", apperrors.BadRequest("invalid record id", nil), http.StatusBadRequest, "invalid record id"},
		{"unauthorized", apperrors.Unauthorized(nil), http.StatusUnauthorized, "unauthorized"},
		{"forbidden", apperrors.Forbidden("staff role required", nil), http.StatusForbidden, "staff role required"},
		{"invalid state", apperrors.InvalidState("request is already approved", nil), http.StatusConflict, "request is already approved"},
		{"unprocessable folds to 400", apperrors.Unprocessable(errors.New("no matching record")), http.StatusBadRequest, "unable to process the request"},
		{"unknown error is opaque", errors.New("pq: connection reset"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := respond(t, tt.err)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "error", body.Status)
			assert.Equal(t, tt.wantMsg, body.Message)
		})
	}
}

func TestRespondErrorHidesProviderDetail(t *testing.T) {
	err := apperrors.ExternalService("failed to place call", errors.New("provider said: invalid key sk-12345"))
	rec, body := respond(t, err)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "failed to place call", body.Message)
	assert.NotContains(t, rec.Body.String(), "sk-12345")
}
