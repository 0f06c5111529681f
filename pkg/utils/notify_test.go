package utils

import (
	"fmt"
	"net"
	"sync"
	"testing"
	"time"

	fastws "github.com/fasthttp/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// connectSocket serves one websocket endpoint that registers the caller with n
// and returns the client side of the connection.
func connectSocket(t *testing.T, n *Notifier, userID primitive.ObjectID) *fastws.Conn {
	t.Helper()

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		n.Register(userID, c)
		defer n.Unregister(userID, c)
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	go func() { _ = app.Listener(ln) }()
	t.Cleanup(func() { _ = app.Shutdown() })

	conn, _, err := fastws.DefaultDialer.Dial("ws://"+ln.Addr().String()+"/ws", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	deadline := time.Now().Add(2 * time.Second)
	for !n.IsConnected(userID) {
		if time.Now().After(deadline) {
			t.Fatalf("connection was never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}
	return conn
}

func TestNotifier_ConcurrentSends(t *testing.T) {
	n := NewNotifier()
	userID := primitive.NewObjectID()
	client := connectSocket(t, n, userID)

	const total = 50
	var wg sync.WaitGroup
	errs := make(chan error, total)
	for i := 0; i < total; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if err := n.Send(userID, map[string]string{"seq": fmt.Sprint(i)}); err != nil {
				errs <- err
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("send: %v", err)
	}

	_ = client.SetReadDeadline(time.Now().Add(5 * time.Second))
	seen := map[string]bool{}
	for i := 0; i < total; i++ {
		var msg map[string]string
		if err := client.ReadJSON(&msg); err != nil {
			t.Fatalf("read message %d: %v", i, err)
		}
		seen[msg["seq"]] = true
	}
	if len(seen) != total {
		t.Fatalf("expected %d distinct messages, got %d", total, len(seen))
	}
}

func TestNotifier_SendWithoutConnection(t *testing.T) {
	n := NewNotifier()
	userID := primitive.NewObjectID()
	if n.IsConnected(userID) {
		t.Fatalf("expected no connection")
	}
	if err := n.Send(userID, "hi"); err != ErrNoConnection {
		t.Fatalf("expected ErrNoConnection, got %v", err)
	}
}
