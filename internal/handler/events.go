package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vaultpass/passgen-go/internal/model"
	"github.com/vaultpass/passgen-go/internal/service"
	"github.com/vaultpass/passgen-go/internal/session"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
	eventBuf   = 15
)

// Event is a message pushed to widget event streams.
type Event struct {
	Type  string            `json:"type"`
	State model.WidgetState `json:"state"`
}

// EventsHandler streams widget state changes over a websocket.
type EventsHandler struct {
	service  *service.WidgetService
	upgrader websocket.Upgrader
}

// NewEventsHandler creates a new EventsHandler. A nil checkOrigin accepts
// same-origin requests only.
func NewEventsHandler(svc *service.WidgetService, checkOrigin func(*http.Request) bool) *EventsHandler {
	return &EventsHandler{
		service:  svc,
		upgrader: websocket.Upgrader{CheckOrigin: checkOrigin},
	}
}

// HandleEvents handles GET /api/v1/widgets/{id}/events requests.
func (h *EventsHandler) HandleEvents(w http.ResponseWriter, r *http.Request) {
	id, ok := widgetID(w, r)
	if !ok {
		return
	}

	sess, err := h.service.Session(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	sub, err := sess.Hub.Subscribe(eventBuf)
	if err != nil {
		writeServiceError(w, service.ErrWidgetNotFound)
		return
	}

	// Upgrade writes its own error response.
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		sess.Hub.Unsubscribe(sub)
		slog.Debug("websocket upgrade failed", "widget_id", sess.ID, "error", err)
		return
	}

	slog.Info("event stream opened", "widget_id", sess.ID)
	done := make(chan struct{})
	go readPump(conn, done)
	writePump(conn, sess, sub, done)
	slog.Info("event stream closed", "widget_id", sess.ID)
}

// readPump discards client messages and closes done once the peer goes away.
func readPump(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	conn.SetReadLimit(512)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func writePump(conn *websocket.Conn, sess *session.Session, sub *session.Subscriber, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		sess.Hub.Unsubscribe(sub)
		conn.Close()
	}()

	send := func(ev Event) bool {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		return conn.WriteJSON(ev) == nil
	}

	if !send(Event{Type: "state", State: model.NewWidgetState(sess.Widget.State())}) {
		return
	}

	for {
		select {
		case st, ok := <-sub.C:
			if !ok {
				conn.SetWriteDeadline(time.Now().Add(writeWait))
				conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "widget closed"))
				return
			}
			if !send(Event{Type: "state", State: model.NewWidgetState(st)}) {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
