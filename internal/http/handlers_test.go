package http_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tazhibayda/tasks-service/internal/identity"
)

func doJSON(t *testing.T, env *testEnv, method, path, body string, cookie string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: "session", Value: cookie})
	}
	env.Router.ServeHTTP(w, req)
	return w
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == "session" {
			return c
		}
	}
	t.Fatalf("no session cookie in response; headers=%v", w.Header())
	return nil
}

func Test_IssueSession_SetsCookieAndProfile(t *testing.T) {
	env := newTestEnv(t)
	env.IDP.idTokens["tok-1"] = &identity.Claims{UID: "u1", Email: "john@example.com", Picture: "https://pics/u1.png"}

	w := doJSON(t, env, "POST", "/api/auth/session", `{"idToken":"tok-1"}`, "")
	if w.Code != http.StatusOK {
		t.Fatalf("issue code=%d body=%s", w.Code, w.Body.String())
	}

	c := sessionCookie(t, w)
	if c.Value != "sess-tok-1" {
		t.Fatalf("cookie value=%q", c.Value)
	}
	if want := 14 * 24 * 3600; c.MaxAge != want {
		t.Fatalf("cookie max-age=%d want %d", c.MaxAge, want)
	}
	if !c.HttpOnly || c.Path != "/" {
		t.Fatalf("cookie attrs: httponly=%v path=%q", c.HttpOnly, c.Path)
	}

	p := env.Store.profiles["u1"]
	if p == nil || p.Email != "john@example.com" || p.PhotoURL != "https://pics/u1.png" {
		t.Fatalf("profile not upserted: %#v", p)
	}
}

func Test_IssueSession_MissingToken(t *testing.T) {
	env := newTestEnv(t)

	for _, body := range []string{``, `{}`, `{"idToken":"  "}`, `not json`} {
		w := doJSON(t, env, "POST", "/api/auth/session", body, "")
		if w.Code != http.StatusBadRequest {
			t.Fatalf("body=%q: code=%d want 400", body, w.Code)
		}
	}
	if env.Store.upserts != 0 {
		t.Fatalf("no profile write expected, got %d", env.Store.upserts)
	}
}

func Test_IssueSession_ProviderRejects(t *testing.T) {
	env := newTestEnv(t)

	w := doJSON(t, env, "POST", "/api/auth/session", `{"idToken":"forged"}`, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("code=%d want 401", w.Code)
	}
	if len(w.Result().Cookies()) != 0 {
		t.Fatalf("no cookie must be set on rejection")
	}
	if env.Store.upserts != 0 {
		t.Fatalf("no profile write on rejection")
	}
}

func Test_TerminateSession_AlwaysClears(t *testing.T) {
	env := newTestEnv(t)

	// no session existed; still 200 + expired cookie
	w := doJSON(t, env, "DELETE", "/api/auth/session", ``, "")
	if w.Code != http.StatusOK {
		t.Fatalf("code=%d body=%s", w.Code, w.Body.String())
	}
	c := sessionCookie(t, w)
	if c.Value != "" {
		t.Fatalf("cookie not cleared: %q", c.Value)
	}
	raw := w.Header().Get("Set-Cookie")
	if !strings.Contains(raw, "Max-Age=0") {
		t.Fatalf("expected Max-Age=0 on the wire, got %q", raw)
	}
}

func Test_ProtectedEndpoints_Unauthorized(t *testing.T) {
	env := newTestEnv(t)
	env.Store.userTasks[utKey("u1", "t1")] = map[string]any{"uid": "u1", "task_id": "t1"}

	cases := []struct{ method, path string }{
		{"POST", "/api/stripe/checkout"},
		{"POST", "/api/stripe/portal"},
		{"GET", "/api/user-tasks/t1"},
		{"DELETE", "/api/user-tasks/t1"},
	}
	for _, tc := range cases {
		// no cookie
		w := doJSON(t, env, tc.method, tc.path, ``, "")
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s no cookie: code=%d want 401", tc.method, tc.path, w.Code)
		}
		// garbage cookie
		w = doJSON(t, env, tc.method, tc.path, ``, "forged-cookie")
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s bad cookie: code=%d want 401", tc.method, tc.path, w.Code)
		}
	}
	if n := len(env.externalWrites()); n != 0 {
		t.Fatalf("no collaborator write may happen before the gate, got %v", env.externalWrites())
	}
	if _, ok := env.Store.userTasks[utKey("u1", "t1")]; !ok {
		t.Fatal("document must survive unauthorized delete attempts")
	}
}
