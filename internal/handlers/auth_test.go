package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"timekeeper/internal/service"
)

func TestAuthHandlers_SetupAndSignIn(t *testing.T) {
	auth := &mockAuth{genTokenToken: "tok123", parseID: 1}
	s := &service.Service{Authorization: auth}
	r := newTestRouter(s)

	// setup success
	body := bytes.NewBufferString(`{"password":"p"}`)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/setup", body)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("setup status=%d, body=%s", w.Code, w.Body.String())
	}
	if auth.lastSetupPassword != "p" {
		t.Fatalf("SetupOwner got %q", auth.lastSetupPassword)
	}

	// sign-in success
	body = bytes.NewBufferString(`{"password":"p"}`)
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/auth/sign-in", body)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("sign-in status=%d, body=%s", w.Code, w.Body.String())
	}
	var m map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &m)
	if m["token"] != "tok123" {
		t.Fatalf("expected token tok123, got %v", m["token"])
	}

	// sign-in invalid body → 400
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/auth/sign-in", bytes.NewBufferString(`{"password":1}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad body, got %d", w.Code)
	}
}

func TestAuthHandlers_ErrorMapping(t *testing.T) {
	cases := []struct {
		name     string
		path     string
		auth     *mockAuth
		wantCode int
	}{
		{"setup_twice", "/auth/setup", &mockAuth{setupErr: service.ErrOwnerExists}, http.StatusConflict},
		{"setup_blank_password", "/auth/setup", &mockAuth{setupErr: service.ErrEmptyPassword}, http.StatusBadRequest},
		{"setup_storage_failure", "/auth/setup", &mockAuth{setupErr: errors.New("disk full")}, http.StatusInternalServerError},
		{"sign_in_wrong_password", "/auth/sign-in", &mockAuth{genTokenErr: service.ErrInvalidPassword}, http.StatusUnauthorized},
		{"sign_in_before_setup", "/auth/sign-in", &mockAuth{genTokenErr: service.ErrOwnerNotSet}, http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newTestRouter(&service.Service{Authorization: tc.auth})
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, tc.path, bytes.NewBufferString(`{"password":"p"}`))
			req.Header.Set("Content-Type", "application/json")
			r.ServeHTTP(w, req)
			if w.Code != tc.wantCode {
				t.Fatalf("status=%d, want %d, body=%s", w.Code, tc.wantCode, w.Body.String())
			}
		})
	}
}

func TestAuthHandlers_MissingPassword(t *testing.T) {
	auth := &mockAuth{}
	r := newTestRouter(&service.Service{Authorization: auth})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/setup", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if auth.lastSetupPassword != "" {
		t.Fatalf("SetupOwner must not be called")
	}
}
