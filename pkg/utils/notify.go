package utils

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notifier manages active WebSocket connections and pushes notifications.
type Notifier struct {
	mu    sync.RWMutex
	conns map[primitive.ObjectID]*socket
}

// socket serializes writes; a websocket connection allows one writer at a time.
type socket struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

// DefaultNotifier is the package-level notifier instance.
var DefaultNotifier = NewNotifier()

func NewNotifier() *Notifier {
	return &Notifier{
		conns: make(map[primitive.ObjectID]*socket),
	}
}

// Register registers a websocket connection for a user, closing any previous one.
func (n *Notifier) Register(userID primitive.ObjectID, conn *websocket.Conn) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if old, ok := n.conns[userID]; ok && old.conn != conn {
		_ = old.conn.Close()
	}
	n.conns[userID] = &socket{conn: conn}
	log.Printf("event=ws_register user=%s total_connections=%d", userID.Hex(), len(n.conns))
}

// Unregister removes the websocket connection for a user if it is still the registered one.
func (n *Notifier) Unregister(userID primitive.ObjectID, conn *websocket.Conn) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if current, ok := n.conns[userID]; ok && current.conn == conn {
		_ = current.conn.Close()
		delete(n.conns, userID)
	}
	log.Printf("event=ws_unregister user=%s total_connections=%d", userID.Hex(), len(n.conns))
}

// Send sends a JSON-serializable payload to the user's websocket connection.
func (n *Notifier) Send(userID primitive.ObjectID, payload interface{}) error {
	n.mu.RLock()
	s, ok := n.conns[userID]
	n.mu.RUnlock()
	if !ok || s == nil {
		return ErrNoConnection
	}

	msg, err := json.Marshal(payload)
	if err != nil {
		log.Printf("event=notify_error user=%s error=%v", userID.Hex(), err)
		return err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	_ = s.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	if err := s.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
		log.Printf("event=notify_error_write user=%s error=%v", userID.Hex(), err)
		return err
	}

	log.Printf("event=notify_sent user=%s payload_len=%d", userID.Hex(), len(msg))
	return nil
}

// IsConnected reports whether the user has a registered connection.
func (n *Notifier) IsConnected(userID primitive.ObjectID) bool {
	n.mu.RLock()
	defer n.mu.RUnlock()
	_, ok := n.conns[userID]
	return ok
}

// ErrNoConnection is returned when there is no websocket connection for the user.
var ErrNoConnection = &NoConnError{}

type NoConnError struct{}

func (e *NoConnError) Error() string { return "no websocket connection for user" }
