package api

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/erazemk/loja/internal/auth"
	"github.com/erazemk/loja/internal/db"
	"github.com/erazemk/loja/internal/model"
	"github.com/erazemk/loja/internal/store"
)

const testJWTSecret = "test-secret"

var testIssuer = auth.NewIssuer(testJWTSecret, 0)

func setupTestServer(t *testing.T) (*httptest.Server, string, *sql.DB) {
	t.Helper()
	database := db.NewTestDB(t)
	router := NewRouter(database, testIssuer)
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	// Create admin user.
	ctx := context.Background()
	hash, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.MinCost)
	store.CreateUser(ctx, database, "admin", string(hash), model.RoleAdmin)

	return server, login(t, server, "admin", "password"), database
}

func login(t *testing.T, server *httptest.Server, username, password string) string {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"username": username, "password": password})
	resp, err := http.Post(server.URL+"/api/auth/login", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("login request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login failed: %d", resp.StatusCode)
	}

	var loginResp loginResponse
	json.NewDecoder(resp.Body).Decode(&loginResp)
	if loginResp.Token == "" {
		t.Fatal("empty token from login")
	}
	return loginResp.Token
}

func authRequest(method, url, token string, body any) (*http.Request, error) {
	var bodyReader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		bodyReader = bytes.NewReader(data)
	} else {
		bodyReader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, bodyReader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// do sends an authenticated request, checks the status and decodes the
// reply into out when out is non-nil.
func do(t *testing.T, method, url, token string, body any, wantStatus int, out any) {
	t.Helper()
	req, err := authRequest(method, url, token, body)
	if err != nil {
		t.Fatalf("building request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		var e map[string]string
		json.NewDecoder(resp.Body).Decode(&e)
		t.Fatalf("%s %s: expected %d, got %d (%s)", method, url, wantStatus, resp.StatusCode, e["error"])
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decoding %s %s: %v", method, url, err)
		}
	}
}

// errorMessage sends a request expected to fail and returns its message.
func errorMessage(t *testing.T, method, url, token string, body any, wantStatus int) string {
	t.Helper()
	var e map[string]string
	do(t, method, url, token, body, wantStatus, &e)
	return e["error"]
}

func TestLoginEndpoint(t *testing.T) {
	server, _, _ := setupTestServer(t)

	// Test invalid credentials.
	body, _ := json.Marshal(map[string]string{"username": "admin", "password": "wrong"})
	resp, _ := http.Post(server.URL+"/api/auth/login", "application/json", bytes.NewReader(body))
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 for bad password, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Missing fields are a validation error.
	body, _ = json.Marshal(map[string]string{"username": "admin"})
	resp, _ = http.Post(server.URL+"/api/auth/login", "application/json", bytes.NewReader(body))
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for missing password, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestLoginRateLimited(t *testing.T) {
	server, _, _ := setupTestServer(t)

	body, _ := json.Marshal(map[string]string{"username": "admin", "password": "wrong"})
	limited := false
	for range loginBurst + 2 {
		resp, err := http.Post(server.URL+"/api/auth/login", "application/json", bytes.NewReader(body))
		if err != nil {
			t.Fatalf("login request: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode == http.StatusTooManyRequests {
			limited = true
			break
		}
	}
	if !limited {
		t.Error("expected 429 after repeated login attempts")
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	server, token, _ := setupTestServer(t)

	do(t, "GET", server.URL+"/api/brands", token, nil, http.StatusOK, nil)
	do(t, "POST", server.URL+"/api/auth/logout", token, nil, http.StatusOK, nil)

	msg := errorMessage(t, "GET", server.URL+"/api/brands", token, nil, http.StatusUnauthorized)
	if msg != "session has ended, please log in again" {
		t.Errorf("unexpected message %q", msg)
	}
}

func TestChangePassword(t *testing.T) {
	server, token, _ := setupTestServer(t)

	msg := errorMessage(t, "PUT", server.URL+"/api/auth/password", token, map[string]string{
		"current_password": "password",
		"new_password":     "short",
	}, http.StatusBadRequest)
	if msg == "" {
		t.Error("expected a password policy message")
	}

	do(t, "PUT", server.URL+"/api/auth/password", token, map[string]string{
		"current_password": "password",
		"new_password":     "longer-password",
	}, http.StatusOK, nil)

	login(t, server, "admin", "longer-password")
}

func TestUnauthenticatedAccess(t *testing.T) {
	database := db.NewTestDB(t)
	router := NewRouter(database, testIssuer)
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	resp, _ := http.Get(server.URL + "/api/brands")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 for unauthenticated request, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	other := auth.NewIssuer("other-secret", 0)
	forged, _ := other.Issue(1, "admin", model.RoleAdmin)
	req, _ := authRequest("GET", server.URL+"/api/brands", forged, nil)
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 for foreign token, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestRoleBasedAccess(t *testing.T) {
	server, _, database := setupTestServer(t)

	// Create a regular user.
	ctx := context.Background()
	user, _ := store.CreateUser(ctx, database, "user1", "unused", model.RoleUser)
	userToken, _ := testIssuer.Issue(user.ID, "user1", model.RoleUser)

	// Regular users can read the catalog.
	do(t, "GET", server.URL+"/api/brands", userToken, nil, http.StatusOK, nil)

	// Regular user should not be able to create brands (manager+ required).
	do(t, "POST", server.URL+"/api/brands", userToken, map[string]string{"name": "Test"}, http.StatusForbidden, nil)

	// Regular user should not access /api/users.
	do(t, "GET", server.URL+"/api/users", userToken, nil, http.StatusForbidden, nil)

	// Managers can write.
	manager, _ := store.CreateUser(ctx, database, "boss", "unused", model.RoleManager)
	managerToken, _ := testIssuer.Issue(manager.ID, "boss", model.RoleManager)
	do(t, "POST", server.URL+"/api/brands", managerToken, map[string]string{"name": "Test"}, http.StatusCreated, nil)
}

func TestUsersAPI(t *testing.T) {
	server, token, _ := setupTestServer(t)

	var created model.User
	do(t, "POST", server.URL+"/api/users", token, map[string]string{
		"username": "clerk",
		"password": "clerk-password",
		"role":     model.RoleUser,
	}, http.StatusCreated, &created)

	msg := errorMessage(t, "POST", server.URL+"/api/users", token, map[string]string{
		"username": "clerk2",
		"password": "clerk-password",
		"role":     "owner",
	}, http.StatusBadRequest)
	if msg != "role must be one of: admin, manager, user" {
		t.Errorf("unexpected message %q", msg)
	}

	login(t, server, "clerk", "clerk-password")

	var admins []model.User
	do(t, "GET", server.URL+"/api/users", token, nil, http.StatusOK, &admins)
	var adminID int64
	for _, u := range admins {
		if u.Username == "admin" {
			adminID = u.ID
		}
	}

	// The only admin cannot be demoted.
	msg = errorMessage(t, "PUT", server.URL+"/api/users/"+itoa(adminID), token,
		map[string]string{"role": model.RoleUser}, http.StatusConflict)
	if msg != "cannot demote the last admin" {
		t.Errorf("unexpected message %q", msg)
	}

	do(t, "DELETE", server.URL+"/api/users/"+itoa(adminID), token, nil, http.StatusBadRequest, nil)
	do(t, "DELETE", server.URL+"/api/users/"+itoa(created.ID), token, nil, http.StatusOK, nil)
	do(t, "DELETE", server.URL+"/api/users/"+itoa(created.ID), token, nil, http.StatusNotFound, nil)
}
