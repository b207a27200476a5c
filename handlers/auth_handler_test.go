package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	app, _ := newTestApp(t)

	resp := doRequest(t, app, http.MethodPost, "/api/auth/register", "", map[string]interface{}{
		"email":          "maria@university.edu",
		"password":       "password123",
		"first_name":     "Maria",
		"last_name":      "Santos",
		"phone_number":   "555-0101",
		"academic_level": "Undergraduate",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.NotEmpty(t, body["token"])
	user := body["user"].(map[string]interface{})
	assert.Equal(t, "maria@university.edu", user["email"])
	profile := user["profile"].(map[string]interface{})
	assert.Equal(t, "Maria", profile["first_name"])

	resp = doRequest(t, app, http.MethodPost, "/api/auth/login", "", map[string]interface{}{
		"email":    "maria@university.edu",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body = decodeBody(t, resp)
	assert.NotEmpty(t, body["token"])
}

func TestRegisterDuplicateEmail(t *testing.T) {
	app, db := newTestApp(t)
	seedAccount(t, db, "taken@university.edu", "First", "User")

	resp := doRequest(t, app, http.MethodPost, "/api/auth/register", "", map[string]interface{}{
		"email":      "taken@university.edu",
		"password":   "password123",
		"first_name": "Second",
		"last_name":  "User",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestLoginWrongPassword(t *testing.T) {
	app, db := newTestApp(t)
	seedAccount(t, db, "maria@university.edu", "Maria", "Santos")

	resp := doRequest(t, app, http.MethodPost, "/api/auth/login", "", map[string]interface{}{
		"email":    "maria@university.edu",
		"password": "not-the-password",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestChangePassword(t *testing.T) {
	app, db := newTestApp(t)
	profile, token := seedAccount(t, db, "maria@university.edu", "Maria", "Santos")

	path := "/api/auth/users/" + itoa(profile.UserID) + "/change-password"

	resp := doRequest(t, app, http.MethodPut, path, token, map[string]interface{}{
		"old_password": "wrong",
		"new_password": "newpassword",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = doRequest(t, app, http.MethodPut, path, token, map[string]interface{}{
		"old_password": "password123",
		"new_password": "newpassword",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doRequest(t, app, http.MethodPost, "/api/auth/login", "", map[string]interface{}{
		"email":    "maria@university.edu",
		"password": "newpassword",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestChangePasswordOtherUserForbidden(t *testing.T) {
	app, db := newTestApp(t)
	victim, _ := seedAccount(t, db, "victim@university.edu", "Vic", "Tim")
	_, token := seedAccount(t, db, "other@university.edu", "Other", "User")

	resp := doRequest(t, app, http.MethodPut, "/api/auth/users/"+itoa(victim.UserID)+"/change-password", token, map[string]interface{}{
		"old_password": "password123",
		"new_password": "hijacked",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestProtectedRouteWithoutToken(t *testing.T) {
	app, _ := newTestApp(t)

	resp := doRequest(t, app, http.MethodPost, "/api/orders", "", map[string]interface{}{})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
