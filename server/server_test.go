package server

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/brensch/snekstep/engine"
	"github.com/brensch/snekstep/game"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func newTestServer() *Server {
	return New(engine.New(engine.DefaultConfig()), nil)
}

func post(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return v
}

var safeFoodStep = StepRequest{
	Size:    8,
	Snake:   []int{4, 4, 4, 5, 4, 6, 4, 7},
	FoodNum: 2,
	Foods:   []int{1, 1, 5, 4},
	Round:   50,
}

func TestStep(t *testing.T) {
	h := newTestServer().Handler()
	body, _ := json.Marshal(safeFoodStep)
	w := post(t, h, "/v1/step", string(body))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	got := decode[MoveResponse](t, w)
	if got.Move != int(game.Right) || got.Name != "right" || got.Tier != "safe-food" {
		t.Fatalf("got %+v", got)
	}
}

func TestStep_BadRequests(t *testing.T) {
	h := newTestServer().Handler()
	cases := []struct {
		name string
		body string
	}{
		{"not json", `{"size":`},
		{"short snake", `{"size":8,"snake":[1,1,1,2]}`},
		{"zero size", `{"size":0,"snake":[4,4,4,5,4,6,4,7]}`},
		{"oversized board", `{"size":65,"snake":[4,4,4,5,4,6,4,7]}`},
		{"negative count", `{"size":8,"snake":[4,4,4,5,4,6,4,7],"food_num":-1}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := post(t, h, "/v1/step", tc.body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status=%d want=400", w.Code)
			}
			if got := decode[errorResponse](t, w); got.Error == "" {
				t.Fatalf("missing error message")
			}
		})
	}
}

func TestBarriers(t *testing.T) {
	h := newTestServer().Handler()

	w := post(t, h, "/v1/barriers", `{"snake":[4,4,4,5,4,6,4,7],"foods":[1,1],"barriers":[]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	got := decode[MoveResponse](t, w)
	if got.Move != int(game.Left) && got.Move != int(game.Down) {
		t.Fatalf("move=%d want left or down", got.Move)
	}

	w = post(t, h, "/v1/barriers", `{"snake":[3,3,3,4,3,5,3,6],"foods":[6,3],"barriers":[5,3,4,3,3,3]}`)
	got = decode[MoveResponse](t, w)
	if got.Move != -1 {
		t.Fatalf("move=%d want -1", got.Move)
	}

	if w := post(t, h, "/v1/barriers", `{"snake":[1]}`); w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d want=400", w.Code)
	}
}

func TestIndexAndHealth(t *testing.T) {
	h := newTestServer().Handler()

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("healthz status=%d", w.Code)
	}

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	info := decode[InfoResponse](t, w)
	if info.Config != engine.DefaultConfig() {
		t.Fatalf("config=%+v", info.Config)
	}
}

func TestStream(t *testing.T) {
	ts := httptest.NewServer(newTestServer().Handler())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/v1/stream"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	for i := 0; i < 3; i++ {
		if err := conn.WriteJSON(safeFoodStep); err != nil {
			t.Fatalf("write: %v", err)
		}
		var got MoveResponse
		if err := conn.ReadJSON(&got); err != nil {
			t.Fatalf("read: %v", err)
		}
		if got.Move != int(game.Right) {
			t.Fatalf("frame %d move=%d want right", i, got.Move)
		}
	}

	for _, bad := range [][]byte{[]byte("{nope"), []byte(`{"size":8,"snake":[1,2]}`)} {
		if err := conn.WriteMessage(websocket.TextMessage, bad); err != nil {
			t.Fatalf("write: %v", err)
		}
		var e errorResponse
		if err := conn.ReadJSON(&e); err != nil {
			t.Fatalf("read: %v", err)
		}
		if e.Error == "" {
			t.Fatalf("%s: want an error frame", bad)
		}
	}

	// The connection survives a bad frame.
	if err := conn.WriteJSON(safeFoodStep); err != nil {
		t.Fatal(err)
	}
	var got MoveResponse
	if err := conn.ReadJSON(&got); err != nil || got.Move != int(game.Right) {
		t.Fatalf("after bad frame: move=%d err=%v", got.Move, err)
	}
	_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

func TestRequestLogging(t *testing.T) {
	var buf bytes.Buffer
	s := New(engine.New(engine.DefaultConfig()), slogTo(&buf))
	post(t, s.Handler(), "/v1/step", `{"size":0}`)
	if !strings.Contains(buf.String(), "status=400") || !strings.Contains(buf.String(), "path=/v1/step") {
		t.Fatalf("log=%q", buf.String())
	}
}

func slogTo(w *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}
