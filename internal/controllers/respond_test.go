package controllers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/responsehub/backend/internal/services"
	"github.com/stretchr/testify/assert"
)

func TestRespondErrorStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		err  error
		code int
		body string
	}{
		{services.NotFound("Incident not found"), http.StatusNotFound, `{"error":"Incident not found"}`},
		{services.Conflict("Volunteer is not available"), http.StatusConflict, `{"error":"Volunteer is not available"}`},
		{services.Forbidden("nope"), http.StatusForbidden, `{"error":"nope"}`},
		{services.Validation("Invalid incident", errors.New("type is required")), http.StatusBadRequest, `{"error":"Invalid incident: type is required"}`},
		{services.Unauthorized("Invalid credentials"), http.StatusUnauthorized, `{"error":"Invalid credentials"}`},
		{errors.New("connection reset"), http.StatusInternalServerError, `{"error":"Server error"}`},
	}

	for _, tt := range tests {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		respondError(c, tt.err, "test")

		assert.Equal(t, tt.code, w.Code)
		assert.JSONEq(t, tt.body, w.Body.String())
	}
}

func TestParseID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "42"}}
	id, ok := parseID(c, "id")
	assert.True(t, ok)
	assert.Equal(t, uint(42), id)

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "0"}}
	_, ok = parseID(c, "id")
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
