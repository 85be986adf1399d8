package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockledger/internal/core/apperror"
)

func testContext(t *testing.T, rawQuery string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	req, err := http.NewRequest(http.MethodGet, "/?"+rawQuery, nil)
	require.NoError(t, err)
	c.Request = req
	return c
}

func TestParseIntQuery_AbsentUsesDefault(t *testing.T) {
	h := NewBaseHandler()
	c := testContext(t, "")

	limit, ok := h.ParseIntQuery(c, "limit", 50)

	assert.True(t, ok)
	assert.Equal(t, 50, limit)
	assert.Empty(t, c.Errors)
}

func TestParseIntQuery_ParsesValue(t *testing.T) {
	h := NewBaseHandler()
	c := testContext(t, "limit=25&offset=100")

	limit, ok := h.ParseIntQuery(c, "limit", 50)
	require.True(t, ok)
	offset, ok := h.ParseIntQuery(c, "offset", 0)
	require.True(t, ok)

	assert.Equal(t, 25, limit)
	assert.Equal(t, 100, offset)
}

func TestParseIntQuery_MalformedRegistersValidationError(t *testing.T) {
	h := NewBaseHandler()
	c := testContext(t, "limit=abc")

	_, ok := h.ParseIntQuery(c, "limit", 50)

	assert.False(t, ok)
	assert.True(t, c.IsAborted())
	require.Len(t, c.Errors, 1)

	appErr, isApp := apperror.AsAppError(c.Errors.Last().Err)
	require.True(t, isApp)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
	assert.Equal(t, "limit", appErr.Details["field"])
}
