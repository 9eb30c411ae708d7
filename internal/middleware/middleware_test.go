package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moviehouse/seat-inventory/internal/model"
	"github.com/moviehouse/seat-inventory/internal/utils"
)

const testSecret = "unit-test-secret"

func protectedApp(roles ...string) *echo.Echo {
	e := echo.New()
	g := e.Group("/v1")
	g.Use(JWTAuth(testSecret))
	if len(roles) > 0 {
		g.Use(RequireRole(roles...))
	}
	g.GET("/ping", func(c echo.Context) error {
		uid, _ := c.Get("user_id").(uint64)
		return c.JSON(http.StatusOK, echo.Map{"user_id": uid})
	})
	return e
}

func doGet(e *echo.Echo, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/v1/ping", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestJWTAuth(t *testing.T) {
	e := protectedApp()

	rec := doGet(e, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doGet(e, "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Token signed with a different secret is rejected.
	other, err := utils.NewAccessToken("other-secret", 7, model.RoleCustomer, 5)
	require.NoError(t, err)
	rec = doGet(e, other.Token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	access, err := utils.NewAccessToken(testSecret, 7, model.RoleCustomer, 5)
	require.NoError(t, err)
	rec = doGet(e, access.Token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"user_id":7`)
}

func TestRequireRole(t *testing.T) {
	e := protectedApp(model.RoleStaff)

	customer, err := utils.NewAccessToken(testSecret, 7, model.RoleCustomer, 5)
	require.NoError(t, err)
	rec := doGet(e, customer.Token)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	staff, err := utils.NewAccessToken(testSecret, 8, model.RoleStaff, 5)
	require.NoError(t, err)
	rec = doGet(e, staff.Token)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestExpiredTokenRejected(t *testing.T) {
	e := protectedApp()
	expired, err := utils.NewAccessToken(testSecret, 7, model.RoleCustomer, -5)
	require.NoError(t, err)
	rec := doGet(e, expired.Token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
