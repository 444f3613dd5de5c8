package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/AlanVogel/ChatAppSample/internal/config"
	"github.com/AlanVogel/ChatAppSample/internal/db"
	"github.com/gin-gonic/gin"
)

func newTestEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	gdb, err := db.Connect("sqlite://:memory:")
	if err != nil {
		t.Fatalf("connect sqlite: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	cfg := config.Config{Port: "0", Env: "dev", KeyWordLength: 64}
	return SetupRouter(cfg, gdb)
}

func do(t *testing.T, engine *gin.Engine, method, path, body string, headers map[string]string) (int, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	out := map[string]interface{}{}
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
			t.Fatalf("%s %s: bad json response %q: %v", method, path, w.Body.String(), err)
		}
	}
	return w.Code, out
}

func TestHealthz(t *testing.T) {
	engine := newTestEngine(t)
	code, body := do(t, engine, http.MethodGet, "/healthz", "", nil)
	if code != http.StatusOK || body["status"] != "ok" {
		t.Fatalf("healthz = %d %v", code, body)
	}
}

func TestEnvelopeShape(t *testing.T) {
	engine := newTestEngine(t)
	code, body := do(t, engine, http.MethodPost, "/api/v1/auth/register",
		`{"nick_name":"Pero","email":"pero.peric@gmail.com","password":"secret"}`, nil)
	if code != http.StatusOK {
		t.Fatalf("register = %d %v", code, body)
	}
	for _, key := range []string{"status", "code", "server_time", "message"} {
		if _, ok := body[key]; !ok {
			t.Errorf("envelope missing %q: %v", key, body)
		}
	}
	if body["status"] != "OK" || body["code"] != float64(http.StatusOK) {
		t.Errorf("envelope = %v", body)
	}
}

// The register → login → create room → send → non-member send walk.
func TestChatScenario(t *testing.T) {
	engine := newTestEngine(t)

	code, body := do(t, engine, http.MethodPost, "/api/v1/auth/register",
		`{"nick_name":"Pero","email":"pero.peric@gmail.com","password":"secret"}`, nil)
	if code != http.StatusOK || body["message"] != "User created!" {
		t.Fatalf("register = %d %v", code, body)
	}

	code, body = do(t, engine, http.MethodPost, "/api/v1/auth/register",
		`{"nick_name":"Bero","email":"pero.peric@gmail.com","password":"secret"}`, nil)
	if code != http.StatusBadRequest || body["message"] != "Email already exist!" {
		t.Fatalf("duplicate register = %d %v", code, body)
	}

	code, body = do(t, engine, http.MethodPost, "/api/v1/auth/register",
		`{"nick_name":"Pero","email":"pero.peric.gmail.com","password":"secret"}`, nil)
	if code != http.StatusBadRequest {
		t.Fatalf("invalid email register = %d %v", code, body)
	}

	code, body = do(t, engine, http.MethodPost, "/api/v1/auth/login",
		`{"email":"pero.peric@gmail.com","password":"secret"}`, nil)
	if code != http.StatusOK || body["message"] != "Success!" {
		t.Fatalf("login = %d %v", code, body)
	}
	tok, _ := body["token"].(string)
	if tok == "" {
		t.Fatal("login response missing token")
	}
	userID := fmt.Sprintf("%.0f", body["user_id"].(float64))
	authHeaders := map[string]string{
		"X-User-ID":     userID,
		"Authorization": "Bearer " + tok,
	}

	code, body = do(t, engine, http.MethodPost, "/api/v1/rooms",
		`{"user_id":1,"room_name":"Science"}`, authHeaders)
	if code != http.StatusOK || body["message"] != "Room created!" {
		t.Fatalf("create room = %d %v", code, body)
	}
	room := body["room"].(map[string]interface{})
	roomID := fmt.Sprintf("%.0f", room["id"].(float64))

	code, body = do(t, engine, http.MethodPost, "/api/v1/rooms/"+roomID+"/messages",
		`{"user_id":1,"msg":"hello"}`, authHeaders)
	if code != http.StatusOK || body["message"] != "Message is successfully send!" {
		t.Fatalf("send = %d %v", code, body)
	}

	// A room the user never joined: send must fail as not-joined.
	code, body = do(t, engine, http.MethodPost, "/api/v1/auth/register",
		`{"nick_name":"Marko","email":"marko@gmail.com","password":"secret"}`, nil)
	if code != http.StatusOK {
		t.Fatalf("second register = %d %v", code, body)
	}
	code, body = do(t, engine, http.MethodPost, "/api/v1/auth/login",
		`{"email":"marko@gmail.com","password":"secret"}`, nil)
	if code != http.StatusOK {
		t.Fatalf("second login = %d %v", code, body)
	}
	markoHeaders := map[string]string{
		"X-User-ID":     fmt.Sprintf("%.0f", body["user_id"].(float64)),
		"Authorization": "Bearer " + body["token"].(string),
	}
	code, body = do(t, engine, http.MethodPost, "/api/v1/rooms/"+roomID+"/messages",
		`{"user_id":2,"msg":"hi"}`, markoHeaders)
	if code != http.StatusNotFound || body["message"] != "You are not joined to the conversation!" {
		t.Fatalf("non-member send = %d %v", code, body)
	}

	// Membership list for Marko is empty-success, not an error.
	code, body = do(t, engine, http.MethodGet, "/api/v1/users/"+markoHeaders["X-User-ID"]+"/rooms", "", markoHeaders)
	if code != http.StatusOK || body["message"] != "Success!" {
		t.Fatalf("list rooms = %d %v", code, body)
	}
	if rooms, ok := body["rooms"].([]interface{}); !ok || len(rooms) != 0 {
		t.Fatalf("rooms = %v, want empty list", body["rooms"])
	}
}

func TestProtectedRoutesRejectAnonymous(t *testing.T) {
	engine := newTestEngine(t)
	code, _ := do(t, engine, http.MethodPost, "/api/v1/rooms", `{"room_name":"Science"}`, nil)
	if code != http.StatusUnauthorized {
		t.Fatalf("anonymous create room = %d, want 401", code)
	}
}

func TestStaleTokenRejectedAfterRelogin(t *testing.T) {
	engine := newTestEngine(t)

	do(t, engine, http.MethodPost, "/api/v1/auth/register",
		`{"nick_name":"Pero","email":"pero.peric@gmail.com","password":"secret"}`, nil)
	_, first := do(t, engine, http.MethodPost, "/api/v1/auth/login",
		`{"email":"pero.peric@gmail.com","password":"secret"}`, nil)
	// Second login rotates the key word.
	do(t, engine, http.MethodPost, "/api/v1/auth/login",
		`{"email":"pero.peric@gmail.com","password":"secret"}`, nil)

	staleHeaders := map[string]string{
		"X-User-ID":     fmt.Sprintf("%.0f", first["user_id"].(float64)),
		"Authorization": "Bearer " + first["token"].(string),
	}
	code, body := do(t, engine, http.MethodPost, "/api/v1/rooms",
		`{"user_id":1,"room_name":"Science"}`, staleHeaders)
	if code != http.StatusUnauthorized || body["message"] != "Authorization failed!" {
		t.Fatalf("stale token = %d %v, want 401", code, body)
	}
}
