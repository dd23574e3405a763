package realtime

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/helaidi0704/pharmaconnect-frontend/internal/models"
)

type testChannel struct {
	server   *httptest.Server
	received chan eventEnvelope
	conns    chan *websocket.Conn
}

func newTestChannel(t *testing.T) *testChannel {
	t.Helper()
	channel := &testChannel{
		received: make(chan eventEnvelope, 32),
		conns:    make(chan *websocket.Conn, 1),
	}
	upgrader := websocket.Upgrader{}
	channel.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		channel.conns <- conn
		for {
			var env eventEnvelope
			if err := conn.ReadJSON(&env); err != nil {
				return
			}
			channel.received <- env
		}
	}))
	t.Cleanup(channel.server.Close)
	return channel
}

func (c *testChannel) serverConn(t *testing.T) *websocket.Conn {
	t.Helper()
	select {
	case conn := <-c.conns:
		return conn
	case <-time.After(2 * time.Second):
		t.Fatal("no client connected")
		return nil
	}
}

func (c *testChannel) next(t *testing.T) eventEnvelope {
	t.Helper()
	select {
	case env := <-c.received:
		return env
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return eventEnvelope{}
	}
}

func (c *testChannel) expectNone(t *testing.T, within time.Duration) {
	t.Helper()
	select {
	case env := <-c.received:
		t.Fatalf("unexpected event %s", env.Type)
	case <-time.After(within):
	}
}

func (c *testChannel) push(t *testing.T, conn *websocket.Conn, eventType string, payload interface{}) {
	t.Helper()
	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatal(err)
	}
	if err := conn.WriteJSON(eventEnvelope{Type: eventType, Payload: raw}); err != nil {
		t.Fatalf("push %s: %v", eventType, err)
	}
}

func connectedSession(t *testing.T, channel *testChannel, selfUserID string, options Options) *Session {
	t.Helper()
	sess := NewSession(channel.server.URL, selfUserID, options)
	if err := sess.Connect("token"); err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(sess.Close)
	return sess
}

func TestJoinSwitchLeavesPreviousClaim(t *testing.T) {
	channel := newTestChannel(t)
	sess := connectedSession(t, channel, "u1", Options{})

	if err := sess.Join("claim-a", Handlers{}); err != nil {
		t.Fatalf("join a: %v", err)
	}
	if env := channel.next(t); env.Type != eventJoinClaim {
		t.Fatalf("event=%s, want join", env.Type)
	}

	// Same claim again is a no-op on the wire.
	if err := sess.Join("claim-a", Handlers{}); err != nil {
		t.Fatalf("rejoin a: %v", err)
	}
	channel.expectNone(t, 100*time.Millisecond)

	if err := sess.Join("claim-b", Handlers{}); err != nil {
		t.Fatalf("join b: %v", err)
	}
	leave := channel.next(t)
	join := channel.next(t)
	if leave.Type != eventLeaveClaim || join.Type != eventJoinClaim {
		t.Fatalf("events=%s,%s, want leave then join", leave.Type, join.Type)
	}
	var left, joined claimRef
	if err := json.Unmarshal(leave.Payload, &left); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal(join.Payload, &joined); err != nil {
		t.Fatal(err)
	}
	if left.ClaimID != "claim-a" || joined.ClaimID != "claim-b" {
		t.Fatalf("left=%s joined=%s", left.ClaimID, joined.ClaimID)
	}
}

func TestLeaveIsIdempotent(t *testing.T) {
	channel := newTestChannel(t)
	sess := connectedSession(t, channel, "u1", Options{})

	if err := sess.Leave("claim-a"); err != nil {
		t.Fatalf("leave before join: %v", err)
	}
	channel.expectNone(t, 100*time.Millisecond)

	if err := sess.Join("claim-a", Handlers{}); err != nil {
		t.Fatal(err)
	}
	channel.next(t)
	if err := sess.Leave("claim-a"); err != nil {
		t.Fatalf("leave: %v", err)
	}
	if env := channel.next(t); env.Type != eventLeaveClaim {
		t.Fatalf("event=%s, want leave", env.Type)
	}
	if err := sess.Leave("claim-a"); err != nil {
		t.Fatalf("second leave: %v", err)
	}
	channel.expectNone(t, 100*time.Millisecond)
}

func TestSendMessageRejections(t *testing.T) {
	channel := newTestChannel(t)

	disconnected := NewSession(channel.server.URL, "u1", Options{})
	if err := disconnected.SendMessage("claim-a", "hello"); !errors.Is(err, ErrDisconnected) {
		t.Fatalf("error=%v, want ErrDisconnected", err)
	}

	sess := connectedSession(t, channel, "u1", Options{})
	if err := sess.SendMessage("claim-a", "hello"); !errors.Is(err, ErrNotJoined) {
		t.Fatalf("error=%v, want ErrNotJoined", err)
	}

	if err := sess.Join("claim-a", Handlers{}); err != nil {
		t.Fatal(err)
	}
	channel.next(t)
	if err := sess.SendMessage("claim-a", "   "); !errors.Is(err, ErrEmptyMessage) {
		t.Fatalf("error=%v, want ErrEmptyMessage", err)
	}
	if err := sess.SendMessage("claim-b", "hello"); !errors.Is(err, ErrNotJoined) {
		t.Fatalf("error=%v, want ErrNotJoined for other claim", err)
	}

	if err := sess.SendMessage("claim-a", "  hello  "); err != nil {
		t.Fatalf("send: %v", err)
	}
	env := channel.next(t)
	if env.Type != eventSendMessage {
		t.Fatalf("event=%s", env.Type)
	}
	var out outgoingMessage
	if err := json.Unmarshal(env.Payload, &out); err != nil {
		t.Fatal(err)
	}
	if out.ClaimID != "claim-a" || out.Message != "hello" {
		t.Fatalf("payload=%+v, want trimmed message", out)
	}
}

func TestTypingDebounce(t *testing.T) {
	channel := newTestChannel(t)
	sess := connectedSession(t, channel, "u1", Options{TypingIdle: 80 * time.Millisecond})

	if err := sess.Typing("claim-a"); !errors.Is(err, ErrNotJoined) {
		t.Fatalf("error=%v, want ErrNotJoined", err)
	}
	if err := sess.Join("claim-a", Handlers{}); err != nil {
		t.Fatal(err)
	}
	channel.next(t)

	// A burst of keystrokes emits typing=true once.
	for i := 0; i < 3; i++ {
		if err := sess.Typing("claim-a"); err != nil {
			t.Fatalf("typing: %v", err)
		}
		time.Sleep(20 * time.Millisecond)
	}
	env := channel.next(t)
	var event typingEvent
	if err := json.Unmarshal(env.Payload, &event); err != nil {
		t.Fatal(err)
	}
	if env.Type != eventTyping || !event.IsTyping {
		t.Fatalf("event=%s typing=%v, want one typing=true", env.Type, event.IsTyping)
	}

	// The idle timer restarts on each keystroke, so typing=false comes only
	// after the last one went quiet.
	env = channel.next(t)
	if err := json.Unmarshal(env.Payload, &event); err != nil {
		t.Fatal(err)
	}
	if env.Type != eventTyping || event.IsTyping {
		t.Fatalf("event=%s typing=%v, want typing=false", env.Type, event.IsTyping)
	}
	channel.expectNone(t, 150*time.Millisecond)
}

func TestSendEndsTypingImmediately(t *testing.T) {
	channel := newTestChannel(t)
	sess := connectedSession(t, channel, "u1", Options{TypingIdle: time.Minute})

	if err := sess.Join("claim-a", Handlers{}); err != nil {
		t.Fatal(err)
	}
	channel.next(t)

	if err := sess.Typing("claim-a"); err != nil {
		t.Fatal(err)
	}
	if env := channel.next(t); env.Type != eventTyping {
		t.Fatalf("event=%s", env.Type)
	}

	if err := sess.SendMessage("claim-a", "done typing"); err != nil {
		t.Fatal(err)
	}
	if env := channel.next(t); env.Type != eventSendMessage {
		t.Fatalf("event=%s, want send-message first", env.Type)
	}
	env := channel.next(t)
	var event typingEvent
	if err := json.Unmarshal(env.Payload, &event); err != nil {
		t.Fatal(err)
	}
	if env.Type != eventTyping || event.IsTyping {
		t.Fatalf("event=%s typing=%v, want typing=false after send", env.Type, event.IsTyping)
	}
	// The long idle timer was cancelled; nothing else arrives.
	channel.expectNone(t, 150*time.Millisecond)
}

func TestDispatchFiltersOwnTypingAndForeignClaims(t *testing.T) {
	channel := newTestChannel(t)
	sess := connectedSession(t, channel, "self", Options{})

	messages := make(chan models.Message, 4)
	typings := make(chan bool, 4)
	err := sess.Join("claim-a", Handlers{
		OnMessage: func(m models.Message) { messages <- m },
		OnTyping:  func(v bool) { typings <- v },
	})
	if err != nil {
		t.Fatal(err)
	}
	channel.next(t)
	server := channel.serverConn(t)

	// Own typing echo is dropped, a peer's is delivered.
	channel.push(t, server, eventUserTyping, typingEvent{UserID: "self", IsTyping: true})
	channel.push(t, server, eventUserTyping, typingEvent{UserID: "peer", IsTyping: true})
	select {
	case v := <-typings:
		if !v {
			t.Fatal("typing=false, want true")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("peer typing not delivered")
	}
	select {
	case <-typings:
		t.Fatal("own typing echo was delivered")
	case <-time.After(100 * time.Millisecond):
	}

	// Messages for another claim never reach the handlers.
	channel.push(t, server, eventNewMessage, models.Message{MessageID: "m1", ClaimID: "claim-b", Message: "wrong room"})
	channel.push(t, server, eventNewMessage, models.Message{MessageID: "m2", ClaimID: "claim-a", Message: "right room"})
	select {
	case m := <-messages:
		if m.MessageID != "m2" {
			t.Fatalf("delivered %s, want only the joined claim's message", m.MessageID)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("message not delivered")
	}
	select {
	case m := <-messages:
		t.Fatalf("unexpected extra message %s", m.MessageID)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestReadFailureMarksDisconnected(t *testing.T) {
	channel := newTestChannel(t)
	sess := connectedSession(t, channel, "u1", Options{})

	if err := sess.Join("claim-a", Handlers{}); err != nil {
		t.Fatal(err)
	}
	channel.next(t)

	server := channel.serverConn(t)
	_ = server.Close()

	deadline := time.Now().Add(2 * time.Second)
	for sess.Connected() {
		if time.Now().After(deadline) {
			t.Fatal("session still reports connected after server close")
		}
		time.Sleep(10 * time.Millisecond)
	}
	if err := sess.SendMessage("claim-a", "hello"); !errors.Is(err, ErrDisconnected) {
		t.Fatalf("error=%v, want ErrDisconnected", err)
	}
}

func TestWSURLRewrite(t *testing.T) {
	cases := []struct{ in, want string }{
		{"http://localhost:8082/realtime", "ws://localhost:8082/realtime"},
		{"https://api.example.com/realtime", "wss://api.example.com/realtime"},
		{"ws://already", "ws://already"},
	}
	for _, c := range cases {
		if got := wsURL(c.in); got != c.want {
			t.Fatalf("wsURL(%q)=%q, want %q", c.in, got, c.want)
		}
	}
}
