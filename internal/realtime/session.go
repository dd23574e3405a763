package realtime

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/helaidi0704/pharmaconnect-frontend/internal/models"
)

const (
	eventJoinClaim   = "join-claim"
	eventLeaveClaim  = "leave-claim"
	eventSendMessage = "send-message"
	eventTyping      = "typing"
	eventNewMessage  = "new-message"
	eventUserTyping  = "user-typing"
)

const defaultTypingIdle = time.Second

var (
	ErrDisconnected = errors.New("realtime channel disconnected")
	ErrNotJoined    = errors.New("no claim channel joined")
	ErrEmptyMessage = errors.New("empty message")
)

type eventEnvelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type claimRef struct {
	ClaimID string `json:"claimId"`
}

type outgoingMessage struct {
	ClaimID string `json:"claimId"`
	Message string `json:"message"`
}

type typingEvent struct {
	ClaimID  string `json:"claimId,omitempty"`
	UserID   string `json:"userId,omitempty"`
	IsTyping bool   `json:"isTyping"`
}

// Handlers receive events for the joined claim. OnTyping carries a single
// aggregate someone-is-typing flag, last write wins.
type Handlers struct {
	OnMessage func(models.Message)
	OnTyping  func(isTyping bool)
}

type subscription struct {
	claimID     string
	handlers    Handlers
	typing      bool
	typingTimer *time.Timer
}

// Session is the process-wide realtime channel. It holds at most one joined
// claim at a time; joining another claim leaves the previous one first so no
// stale subscription keeps delivering.
type Session struct {
	url        string
	selfUserID string
	typingIdle time.Duration

	mu        sync.Mutex
	conn      *websocket.Conn
	connected bool
	current   *subscription
}

type Options struct {
	// TypingIdle is the debounce window before typing=false is emitted.
	TypingIdle time.Duration
}

func NewSession(url, selfUserID string, options Options) *Session {
	idle := options.TypingIdle
	if idle <= 0 {
		idle = defaultTypingIdle
	}
	return &Session{
		url:        wsURL(url),
		selfUserID: selfUserID,
		typingIdle: idle,
	}
}

func wsURL(raw string) string {
	switch {
	case strings.HasPrefix(raw, "https://"):
		return "wss://" + strings.TrimPrefix(raw, "https://")
	case strings.HasPrefix(raw, "http://"):
		return "ws://" + strings.TrimPrefix(raw, "http://")
	}
	return raw
}

// Connect dials the channel with the session token. A failed dial leaves the
// session disconnected; reconnection policy belongs to the caller.
func (s *Session) Connect(token string) error {
	header := http.Header{}
	if token != "" {
		header.Set("Authorization", "Bearer "+token)
	}

	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.Dial(s.url, header)
	if err != nil {
		s.mu.Lock()
		s.connected = false
		s.mu.Unlock()
		return fmt.Errorf("realtime dial: %w", err)
	}

	s.mu.Lock()
	s.conn = conn
	s.connected = true
	s.mu.Unlock()

	go s.readLoop(conn)
	return nil
}

func (s *Session) Connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected
}

// Close tears the connection down and drops the active subscription.
func (s *Session) Close() {
	s.mu.Lock()
	conn := s.conn
	s.conn = nil
	s.connected = false
	s.dropSubscriptionLocked()
	s.mu.Unlock()

	if conn != nil {
		_ = conn.Close()
	}
}

// Join subscribes to a claim's channel. Idempotent for the same claim; a
// different claim is left before the new join is emitted.
func (s *Session) Join(claimID string, handlers Handlers) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.connected {
		return ErrDisconnected
	}
	if s.current != nil {
		if s.current.claimID == claimID {
			s.current.handlers = handlers
			return nil
		}
		previous := s.current.claimID
		s.dropSubscriptionLocked()
		if err := s.emitLocked(eventLeaveClaim, claimRef{ClaimID: previous}); err != nil {
			return err
		}
	}

	if err := s.emitLocked(eventJoinClaim, claimRef{ClaimID: claimID}); err != nil {
		return err
	}
	s.current = &subscription{claimID: claimID, handlers: handlers}
	return nil
}

// Leave unsubscribes and deregisters the handlers. Safe to call when not
// joined; cancels any pending typing emission.
func (s *Session) Leave(claimID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil || s.current.claimID != claimID {
		return nil
	}
	s.dropSubscriptionLocked()
	if !s.connected {
		return nil
	}
	return s.emitLocked(eventLeaveClaim, claimRef{ClaimID: claimID})
}

// SendMessage emits a chat message. There is no outbox: a send while
// disconnected fails and the user retries manually. Delivery order is the
// server's append order, not send order.
func (s *Session) SendMessage(claimID, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyMessage
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.connected {
		return ErrDisconnected
	}
	if s.current == nil || s.current.claimID != claimID {
		return ErrNotJoined
	}
	if err := s.emitLocked(eventSendMessage, outgoingMessage{ClaimID: claimID, Message: text}); err != nil {
		return err
	}

	// Sending ends the typing indicator immediately.
	if s.current.typing {
		s.current.typing = false
		s.stopTypingTimerLocked()
		return s.emitLocked(eventTyping, typingEvent{ClaimID: claimID, IsTyping: false})
	}
	return nil
}

// Typing records a keystroke. The first one emits typing=true; each call
// reschedules the single idle timer that emits typing=false.
func (s *Session) Typing(claimID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.connected {
		return ErrDisconnected
	}
	if s.current == nil || s.current.claimID != claimID {
		return ErrNotJoined
	}

	if !s.current.typing {
		if err := s.emitLocked(eventTyping, typingEvent{ClaimID: claimID, IsTyping: true}); err != nil {
			return err
		}
		s.current.typing = true
	}

	s.stopTypingTimerLocked()
	s.current.typingTimer = time.AfterFunc(s.typingIdle, func() {
		s.typingIdleElapsed(claimID)
	})
	return nil
}

func (s *Session) typingIdleElapsed(claimID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.connected || s.current == nil || s.current.claimID != claimID || !s.current.typing {
		return
	}
	s.current.typing = false
	s.current.typingTimer = nil
	if err := s.emitLocked(eventTyping, typingEvent{ClaimID: claimID, IsTyping: false}); err != nil {
		log.Printf("typing emit error: %v", err)
	}
}

func (s *Session) dropSubscriptionLocked() {
	if s.current == nil {
		return
	}
	s.stopTypingTimerLocked()
	s.current = nil
}

func (s *Session) stopTypingTimerLocked() {
	if s.current != nil && s.current.typingTimer != nil {
		s.current.typingTimer.Stop()
		s.current.typingTimer = nil
	}
}

func (s *Session) emitLocked(eventType string, payload interface{}) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s: %w", eventType, err)
	}
	if err := s.conn.WriteJSON(eventEnvelope{Type: eventType, Payload: raw}); err != nil {
		return fmt.Errorf("emit %s: %w", eventType, err)
	}
	return nil
}

func (s *Session) readLoop(conn *websocket.Conn) {
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			s.mu.Lock()
			if s.conn == conn {
				s.connected = false
			}
			s.mu.Unlock()
			return
		}

		var env eventEnvelope
		if err := json.Unmarshal(raw, &env); err != nil {
			log.Printf("realtime decode error: %v", err)
			continue
		}
		s.dispatch(env)
	}
}

func (s *Session) dispatch(env eventEnvelope) {
	switch env.Type {
	case eventNewMessage:
		var message models.Message
		if err := json.Unmarshal(env.Payload, &message); err != nil {
			log.Printf("realtime decode error: %v", err)
			return
		}
		s.mu.Lock()
		var deliver func(models.Message)
		if s.current != nil && s.current.claimID == message.ClaimID {
			deliver = s.current.handlers.OnMessage
		}
		s.mu.Unlock()
		if deliver != nil {
			deliver(message)
		}
	case eventUserTyping:
		var event typingEvent
		if err := json.Unmarshal(env.Payload, &event); err != nil {
			log.Printf("realtime decode error: %v", err)
			return
		}
		if event.UserID == s.selfUserID {
			return
		}
		s.mu.Lock()
		var deliver func(bool)
		if s.current != nil {
			deliver = s.current.handlers.OnTyping
		}
		s.mu.Unlock()
		if deliver != nil {
			deliver(event.IsTyping)
		}
	}
}
