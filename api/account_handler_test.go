package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jhzhou002/blog-yk/config"
	"github.com/jhzhou002/blog-yk/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterCreatesUserWithProfile(t *testing.T) {
	router, db := newTestServer(t, config.SiteSettings{})

	req := httptest.NewRequest(http.MethodPost, "/register",
		strings.NewReader(`{"username":"alice","email":"alice@example.com","password":"correct horse"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var body struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Token)
	assert.False(t, body.User.IsStaff)

	// the profile row exists immediately, not lazily on first access
	profile, err := db.UserRepo().FindProfileByUserID(body.User.ID)
	require.NoError(t, err)
	assert.Equal(t, body.User.ID, profile.UserID)

	// the password never round-trips
	assert.NotContains(t, rec.Body.String(), "correct horse")
}

func TestRegisterRejectsDuplicateUsername(t *testing.T) {
	router, db := newTestServer(t, config.SiteSettings{})

	existing := models.User{Username: "alice", Email: "first@example.com", PasswordHash: "x"}
	require.NoError(t, db.UserRepo().Add(&existing))

	req := httptest.NewRequest(http.MethodPost, "/register",
		strings.NewReader(`{"username":"alice","email":"second@example.com","password":"correct horse"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestLoginIssuesUsableToken(t *testing.T) {
	router, _ := newTestServer(t, config.SiteSettings{})

	register := httptest.NewRequest(http.MethodPost, "/register",
		strings.NewReader(`{"username":"bob","email":"bob@example.com","password":"hunter22222"}`))
	registerRec := httptest.NewRecorder()
	router.ServeHTTP(registerRec, register)
	require.Equal(t, http.StatusCreated, registerRec.Code)

	login := httptest.NewRequest(http.MethodPost, "/login",
		strings.NewReader(`{"username":"bob","password":"hunter22222"}`))
	loginRec := httptest.NewRecorder()
	router.ServeHTTP(loginRec, login)
	require.Equal(t, http.StatusOK, loginRec.Code)

	var body struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(loginRec.Body.Bytes(), &body))

	// the token authenticates profile access
	profileReq := httptest.NewRequest(http.MethodGet, "/profile", nil)
	profileReq.Header.Set("Authorization", "Bearer "+body.Token)
	profileRec := httptest.NewRecorder()
	router.ServeHTTP(profileRec, profileReq)
	assert.Equal(t, http.StatusOK, profileRec.Code)

	// but a bad password does not log in
	badLogin := httptest.NewRequest(http.MethodPost, "/login",
		strings.NewReader(`{"username":"bob","password":"wrong"}`))
	badRec := httptest.NewRecorder()
	router.ServeHTTP(badRec, badLogin)
	assert.Equal(t, http.StatusUnauthorized, badRec.Code)
}

func TestDashboardRequiresStaff(t *testing.T) {
	router, db := newTestServer(t, config.SiteSettings{})

	reader := models.User{Username: "reader", Email: "reader@example.com", PasswordHash: "x"}
	require.NoError(t, db.UserRepo().Add(&reader))
	readerToken, err := issueToken(&reader, []byte(testJWTSecret))
	require.NoError(t, err)

	staff := models.User{Username: "staff", Email: "staff@example.com", PasswordHash: "x", IsStaff: true}
	require.NoError(t, db.UserRepo().Add(&staff))
	staffToken, err := issueToken(&staff, []byte(testJWTSecret))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/dashboard/stats", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/dashboard/stats", nil)
	req.Header.Set("Authorization", "Bearer "+readerToken)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/dashboard/stats", nil)
	req.Header.Set("Authorization", "Bearer "+staffToken)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
