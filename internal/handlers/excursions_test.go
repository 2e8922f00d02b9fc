package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Kenia972/myyowntour-sub000/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func setupExcursionRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	h := NewHandlers(&service.Services{})

	r := gin.New()
	r.GET("/api/excursions", h.ListExcursions)
	return r
}

func TestListExcursions_RejectsMalformedDateFilter(t *testing.T) {
	r := setupExcursionRouter()

	for _, date := range []string{"15-09-2026", "2026/09/15", "tomorrow"} {
		req, _ := http.NewRequest("GET", "/api/excursions?date="+date, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code, "date %q", date)
		assert.Contains(t, w.Body.String(), "date must be formatted YYYY-MM-DD")
	}
}

func TestListExcursions_RejectsInvalidPaging(t *testing.T) {
	r := setupExcursionRouter()

	req, _ := http.NewRequest("GET", "/api/excursions?page=0", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "page must be >= 1")
}
