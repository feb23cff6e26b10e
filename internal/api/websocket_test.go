package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func dial(t *testing.T, srv *httptest.Server, gameID string) (*websocket.Conn, *http.Response, error) {
	t.Helper()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?gameId=" + gameID
	return websocket.DefaultDialer.Dial(url, nil)
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("decode %q: %v", data, err)
	}
	return msg
}

func TestWebSocket_ActionsAndTicks(t *testing.T) {
	e := newTestEnv(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go e.hub.Run(ctx)

	srv := httptest.NewServer(e.router)
	defer srv.Close()

	id := e.createGame(t)
	conn, _, err := dial(t, srv, id)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	if msg := readMessage(t, conn); msg.Type != "welcome" || msg.GameID != id {
		t.Fatalf("expected welcome for %s, got %+v", id, msg)
	}

	if err := conn.WriteJSON(Action{Type: ActionDraw}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if msg := readMessage(t, conn); msg.Type != "gameUpdate" {
		t.Fatalf("expected gameUpdate, got %+v", msg)
	}

	// Flipping a face-up card is rejected and only the sender hears about it.
	if err := conn.WriteJSON(Action{Type: ActionFlip, PileIndex: 0, CardPosition: 0}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if msg := readMessage(t, conn); msg.Type != "rejected" {
		t.Fatalf("expected rejected, got %+v", msg)
	}

	if err := conn.WriteJSON(Action{Type: "shuffle"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if msg := readMessage(t, conn); msg.Type != "error" {
		t.Fatalf("expected error, got %+v", msg)
	}

	e.handlers.broadcastTicks()
	msg := readMessage(t, conn)
	if msg.Type != "tick" {
		t.Fatalf("expected tick, got %+v", msg)
	}
	if _, ok := msg.Data.(map[string]interface{})["elapsed"]; !ok {
		t.Fatalf("expected elapsed in tick, got %+v", msg.Data)
	}
}

func TestWebSocket_UnknownGame(t *testing.T) {
	e := newTestEnv(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go e.hub.Run(ctx)

	srv := httptest.NewServer(e.router)
	defer srv.Close()

	_, resp, err := dial(t, srv, "missing")
	if err == nil {
		t.Fatal("expected dial to fail")
	}
	if resp == nil || resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 handshake response, got %v", resp)
	}
}

func TestWebSocket_DeleteDisconnectsWatchers(t *testing.T) {
	e := newTestEnv(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go e.hub.Run(ctx)

	srv := httptest.NewServer(e.router)
	defer srv.Close()

	id := e.createGame(t)
	conn, _, err := dial(t, srv, id)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	readMessage(t, conn)

	if rec := e.do("DELETE", "/api/game/"+id, ""); rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if games := e.hub.ActiveGames(); len(games) != 0 {
		t.Fatalf("expected no watched games, got %v", games)
	}

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if _, _, err := conn.ReadMessage(); !websocket.IsCloseError(err, websocket.CloseNoStatusReceived, websocket.CloseNormalClosure) {
		t.Fatalf("expected the connection to be closed, got %v", err)
	}
}
