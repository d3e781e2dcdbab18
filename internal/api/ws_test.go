package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/nilebank/ledger-service/internal/domain"
)

func dialWS(t *testing.T, server *httptest.Server, cookie *http.Cookie) *websocket.Conn {
	t.Helper()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	header := http.Header{}
	if cookie != nil {
		header.Add("Cookie", cookie.String())
	}

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, header)
	if err != nil {
		t.Fatalf("websocket dial failed: %v", err)
	}
	return conn
}

func waitForRegistration(t *testing.T, hub *Hub, userID string) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for {
		hub.mu.Lock()
		registered := len(hub.conns[userID]) > 0
		hub.mu.Unlock()
		if registered {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("connection for %q was never registered", userID)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestWSGreetingThenBalancePush(t *testing.T) {
	router, _, hub := newTestRouter(t)
	server := httptest.NewServer(router)
	defer server.Close()

	conn := dialWS(t, server, sessionCookie(t, testIdentity, testSessionSecret))
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	var greeting greetingPayload
	if err := conn.ReadJSON(&greeting); err != nil {
		t.Fatalf("failed to read greeting: %v", err)
	}
	if greeting.Message != "مرحبًا بك في ملفك الشخصي" {
		t.Fatalf("unexpected greeting message %q", greeting.Message)
	}
	if greeting.Balance != 0 {
		t.Fatalf("expected greeting balance 0, got %d", greeting.Balance)
	}

	waitForRegistration(t, hub, testIdentity.ID)

	body, err := json.Marshal(domain.BalanceEvent{
		UserID:  testIdentity.ID,
		Delta:   25,
		Balance: 125,
		Reason:  "credit",
	})
	if err != nil {
		t.Fatalf("failed to marshal event: %v", err)
	}
	if !hub.HandleBalanceEventMessage(body) {
		t.Fatal("expected balance event to be acked")
	}

	var frame balanceFrame
	if err := conn.ReadJSON(&frame); err != nil {
		t.Fatalf("failed to read balance frame: %v", err)
	}
	if frame.Type != "balance" {
		t.Fatalf("expected balance frame, got type %q", frame.Type)
	}
	if frame.Balance != 125 || frame.Delta != 25 || frame.Reason != "credit" {
		t.Fatalf("unexpected balance frame %+v", frame)
	}
}

func TestWSBroadcastOnlyReachesAffectedUser(t *testing.T) {
	router, _, hub := newTestRouter(t)
	server := httptest.NewServer(router)
	defer server.Close()

	other := domain.Identity{ID: "U2", Username: "mona", Avatar: "d4e5f6"}
	conn := dialWS(t, server, sessionCookie(t, other, testSessionSecret))
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var greeting greetingPayload
	if err := conn.ReadJSON(&greeting); err != nil {
		t.Fatalf("failed to read greeting: %v", err)
	}
	waitForRegistration(t, hub, other.ID)

	hub.BroadcastBalance(domain.BalanceEvent{UserID: testIdentity.ID, Delta: 10, Balance: 10, Reason: "credit"})

	conn.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	var frame balanceFrame
	if err := conn.ReadJSON(&frame); err == nil {
		t.Fatalf("expected no frame for unrelated user, got %+v", frame)
	}
}

func TestWSRequiresSession(t *testing.T) {
	router, _, _ := newTestRouter(t)
	server := httptest.NewServer(router)
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err == nil {
		conn.Close()
		t.Fatal("expected unauthenticated dial to fail")
	}
	if resp != nil && resp.StatusCode != http.StatusFound {
		t.Fatalf("expected redirect status, got %d", resp.StatusCode)
	}
}

func TestHandleBalanceEventMessageAcksGarbage(t *testing.T) {
	hub := NewHub()

	if !hub.HandleBalanceEventMessage([]byte("{not json")) {
		t.Fatal("undecodable bodies must be acked so they are not re-queued")
	}
}

func TestHubUnregisterDropsEmptyUserBucket(t *testing.T) {
	hub := NewHub()
	conn := &websocket.Conn{}

	hub.register("U1", conn)
	hub.unregister("U1", conn)

	hub.mu.Lock()
	defer hub.mu.Unlock()
	if _, ok := hub.conns["U1"]; ok {
		t.Fatal("expected empty user bucket to be removed")
	}
}
