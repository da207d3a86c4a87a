package httpapi

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"crisisgrid.org/internal/auth"
)

func TestRegisterIssuesTokenPair(t *testing.T) {
	env := newTestAPI(t)

	resp := env.client.post("/v1/auth/register", map[string]any{
		"email":     "jane@example.com",
		"password":  "hunter2hunter2",
		"firstName": "Jane",
		"lastName":  "Doe",
	}, nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
	var body sessionResponse
	decodeBody(t, resp, &body)
	if body.User.Role != auth.RoleCitizen {
		t.Fatalf("unexpected role: %s", body.User.Role)
	}
	if body.Tokens.AccessToken == "" || body.Tokens.RefreshToken == "" {
		t.Fatal("expected a full token pair")
	}

	claims, err := env.tokens.Verify(body.Tokens.AccessToken)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.Role != auth.RoleCitizen {
		t.Fatalf("access token role claim: %s", claims.Role)
	}
}

func TestRegisterNeverLeaksPasswordHash(t *testing.T) {
	env := newTestAPI(t)

	resp := env.client.post("/v1/auth/register", map[string]any{
		"email":     "jane@example.com",
		"password":  "hunter2hunter2",
		"firstName": "Jane",
		"lastName":  "Doe",
	}, nil)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if strings.Contains(strings.ToLower(string(raw)), "passwordhash") || strings.Contains(string(raw), "$2a$") {
		t.Fatalf("password material leaked: %s", raw)
	}
}

func TestRegisterDuplicateEmailCode(t *testing.T) {
	env := newTestAPI(t)
	env.register(t, "dup@example.com", "")

	resp := env.client.post("/v1/auth/register", map[string]any{
		"email":     "dup@example.com",
		"password":  "hunter2hunter2",
		"firstName": "Jane",
		"lastName":  "Doe",
	}, nil)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
	var body map[string]any
	decodeBody(t, resp, &body)
	if body["code"] != codeDuplicateEmail {
		t.Fatalf("unexpected code: %v", body["code"])
	}
}

func TestRegisterValidationCode(t *testing.T) {
	env := newTestAPI(t)

	resp := env.client.post("/v1/auth/register", map[string]any{
		"email":     "short@example.com",
		"password":  "short",
		"firstName": "Jane",
		"lastName":  "Doe",
	}, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
	var body map[string]any
	decodeBody(t, resp, &body)
	if body["code"] != codeValidationFailed {
		t.Fatalf("unexpected code: %v", body["code"])
	}
}

func TestLoginIndistinguishableFailures(t *testing.T) {
	env := newTestAPI(t)
	env.register(t, "known@example.com", "")

	missing := env.client.post("/v1/auth/login", map[string]any{
		"email": "unknown@example.com", "password": "hunter2hunter2",
	}, nil)
	wrong := env.client.post("/v1/auth/login", map[string]any{
		"email": "known@example.com", "password": "wrong-password",
	}, nil)

	if missing.StatusCode != http.StatusUnauthorized || wrong.StatusCode != http.StatusUnauthorized {
		t.Fatalf("unexpected statuses: %d / %d", missing.StatusCode, wrong.StatusCode)
	}
	var missBody, wrongBody map[string]any
	decodeBody(t, missing, &missBody)
	decodeBody(t, wrong, &wrongBody)
	if missBody["code"] != codeInvalidCredentials || wrongBody["code"] != codeInvalidCredentials {
		t.Fatalf("unexpected codes: %v / %v", missBody["code"], wrongBody["code"])
	}
	if missBody["error"] != wrongBody["error"] {
		t.Fatalf("messages differ, enumeration possible: %v vs %v", missBody["error"], wrongBody["error"])
	}
}

func TestLoginDeactivatedAccount(t *testing.T) {
	env := newTestAPI(t)
	id, _ := env.register(t, "inactive@example.com", "")
	env.authStore.users[id].IsActive = false

	resp := env.client.post("/v1/auth/login", map[string]any{
		"email": "inactive@example.com", "password": "hunter2hunter2",
	}, nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
	var body map[string]any
	decodeBody(t, resp, &body)
	if body["code"] != codeAccountDeactivated {
		t.Fatalf("unexpected code: %v", body["code"])
	}
}

func TestRefreshReflectsCurrentRole(t *testing.T) {
	env := newTestAPI(t)
	id, pair := env.register(t, "riser@example.com", "")

	// Promote after the refresh token was minted.
	if _, err := env.authStore.UpdateRole(context.Background(), id, auth.RoleResponder); err != nil {
		t.Fatalf("UpdateRole: %v", err)
	}

	resp := env.client.post("/v1/auth/refresh", map[string]any{
		"refreshToken": pair.RefreshToken,
	}, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
	var body map[string]string
	decodeBody(t, resp, &body)

	claims, err := env.tokens.Verify(body["accessToken"])
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.Role != auth.RoleResponder {
		t.Fatalf("refresh must carry the current role, got %s", claims.Role)
	}
}

func TestRefreshRejectsGarbage(t *testing.T) {
	env := newTestAPI(t)

	resp := env.client.post("/v1/auth/refresh", map[string]any{
		"refreshToken": "garbage",
	}, nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
	var body map[string]any
	decodeBody(t, resp, &body)
	if body["code"] != codeInvalidRefreshToken {
		t.Fatalf("unexpected code: %v", body["code"])
	}
}

func TestAuthEndpointsRejectGet(t *testing.T) {
	env := newTestAPI(t)
	for _, path := range []string{"/v1/auth/register", "/v1/auth/login", "/v1/auth/refresh"} {
		resp := env.client.get(path, nil, nil)
		resp.Body.Close()
		if resp.StatusCode != http.StatusMethodNotAllowed {
			t.Fatalf("%s: unexpected status %d", path, resp.StatusCode)
		}
	}
}
