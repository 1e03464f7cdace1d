package handler

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vaultpass/passgen-go/internal/model"
)

func dialEvents(t *testing.T, srv *httptest.Server, id, tok string) *websocket.Conn {
	t.Helper()
	u := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/widgets/" + id + "/events?token=" + url.QueryEscape(tok)
	conn, resp, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		status := 0
		if resp != nil {
			status = resp.StatusCode
		}
		t.Fatalf("dial failed (status %d): %v", status, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) Event {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var ev Event
	if err := conn.ReadJSON(&ev); err != nil {
		t.Fatalf("reading event: %v", err)
	}
	return ev
}

func TestEventsStream(t *testing.T) {
	h := newTestRouter(t)
	srv := httptest.NewServer(h)
	defer srv.Close()

	w := createWidget(t, h, model.ConfigPatch{Count: intPtr(2)})
	conn := dialEvents(t, srv, w.ID, w.Token)

	initial := readEvent(t, conn)
	if initial.Type != "state" || len(initial.State.Entries) != 2 {
		t.Fatalf("unexpected initial event: %+v", initial)
	}

	rec := do(t, h, http.MethodPatch, "/api/v1/widgets/"+w.ID, w.Token, model.ConfigPatch{Length: intPtr(30)})
	if rec.Code != http.StatusOK {
		t.Fatalf("patch: expected 200, got %d", rec.Code)
	}

	ev := readEvent(t, conn)
	if ev.State.Config.Length != 30 {
		t.Errorf("expected pushed length 30, got %d", ev.State.Config.Length)
	}
}

func TestEventsClosedOnDelete(t *testing.T) {
	h := newTestRouter(t)
	srv := httptest.NewServer(h)
	defer srv.Close()

	w := createWidget(t, h, nil)
	conn := dialEvents(t, srv, w.ID, w.Token)
	readEvent(t, conn)

	rec := do(t, h, http.MethodDelete, "/api/v1/widgets/"+w.ID, w.Token, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete: expected 204, got %d", rec.Code)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := conn.ReadMessage()
	if !websocket.IsCloseError(err, websocket.CloseGoingAway) {
		t.Errorf("expected going-away close, got %v", err)
	}
}

func TestEventsRequiresToken(t *testing.T) {
	h := newTestRouter(t)
	srv := httptest.NewServer(h)
	defer srv.Close()

	w := createWidget(t, h, nil)
	u := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/widgets/" + w.ID + "/events"
	_, resp, err := websocket.DefaultDialer.Dial(u, nil)
	if err == nil {
		t.Fatal("expected dial to fail without token")
	}
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401, got %v", resp)
	}
}
