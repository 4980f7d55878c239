package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	logrustest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/learnhub/learnhub-backend/internal/apperr"
)

func failTestContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, w
}

func TestFailLogsInternalCause(t *testing.T) {
	logger, hook := logrustest.NewNullLogger()
	c, w := failTestContext(t)

	fail(c, logger, apperr.Internal(errors.New("connection pool exhausted")))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	// the cause stays in the logs, never in the body
	assert.NotContains(t, w.Body.String(), "connection pool exhausted")
	assert.Contains(t, w.Body.String(), "internal error")

	require.Len(t, hook.Entries, 1)
	entry := hook.LastEntry()
	assert.Equal(t, logrus.ErrorLevel, entry.Level)
	cause, ok := entry.Data[logrus.ErrorKey].(error)
	require.True(t, ok)
	assert.Contains(t, cause.Error(), "connection pool exhausted")
}

func TestFailDoesNotLogBusinessErrors(t *testing.T) {
	logger, hook := logrustest.NewNullLogger()
	c, w := failTestContext(t)

	fail(c, logger, apperr.New(apperr.KindNotFound, "course not found"))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "course not found")
	assert.Empty(t, hook.Entries)
}
