package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/crucial707/userapi/cmd/cli/config"
)

func setup(t *testing.T, handler http.HandlerFunc) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	t.Setenv("USERAPI_URL", srv.URL)
	t.Setenv("USERAPI_TOKEN_FILE", filepath.Join(t.TempDir(), "token"))
}

func TestLogin_SavesToken(t *testing.T) {
	setup(t, func(w http.ResponseWriter, r *http.Request) {
		var in map[string]string
		_ = json.NewDecoder(r.Body).Decode(&in)
		if r.URL.Path != "/api/users/login" || in["email"] != "al@example.com" || in["password"] != "longpw123" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"Invalid credentials"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"token": "tok-123"})
	})

	cmd := loginCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--email", "al@example.com", "--password", "longpw123"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	token, err := config.LoadToken()
	if err != nil || token != "tok-123" {
		t.Fatalf("LoadToken: got %q, %v", token, err)
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	setup(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"Invalid credentials"}`))
	})

	cmd := loginCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"--email", "al@example.com", "--password", "wrong"})
	err := cmd.Execute()
	if err == nil || !strings.Contains(err.Error(), "Invalid credentials") {
		t.Fatalf("expected invalid credentials error, got %v", err)
	}
	if _, err := config.LoadToken(); err != config.ErrNotLoggedIn {
		t.Errorf("token saved after failed login: %v", err)
	}
}

func TestLogout(t *testing.T) {
	setup(t, func(w http.ResponseWriter, r *http.Request) {})

	cmd := logoutCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !strings.Contains(out.String(), "No user logged in") {
		t.Errorf("output: %s", out.String())
	}

	if err := config.SaveToken("tok"); err != nil {
		t.Fatalf("SaveToken: %v", err)
	}
	out.Reset()
	cmd = logoutCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !strings.Contains(out.String(), "Logged out") {
		t.Errorf("output: %s", out.String())
	}
}

func TestPromptPassword_FromReader(t *testing.T) {
	cmd := loginCmd()
	cmd.SetIn(strings.NewReader("s3cretpw\r\n"))
	cmd.SetErr(&bytes.Buffer{})

	got, err := PromptPassword(cmd, "Password: ")
	if err != nil {
		t.Fatalf("PromptPassword: %v", err)
	}
	if got != "s3cretpw" {
		t.Errorf("got %q", got)
	}
}
