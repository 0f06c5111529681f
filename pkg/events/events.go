package events

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
)

const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// Publisher broadcasts entity lifecycle events. Publishing is best effort
// and never fails the request that triggered it.
type Publisher interface {
	Publish(subject string, payload interface{})
	Close()
}

// Default is the publisher used by the controllers.
var Default Publisher = Noop{}

func Subject(collection, action string) string {
	return fmt.Sprintf("corejob.%s.%s", collection, action)
}

type Noop struct{}

func (Noop) Publish(string, interface{}) {}

func (Noop) Close() {}

type NatsPublisher struct {
	conn *nats.Conn
}

// ConnectNATS dials the server, retrying while it comes up.
func ConnectNATS(url string, attempts int) (*NatsPublisher, error) {
	var (
		conn *nats.Conn
		err  error
	)
	for i := 0; i < attempts; i++ {
		conn, err = nats.Connect(url, nats.Name("corejob-backend"))
		if err == nil {
			break
		}
		log.Printf("event=nats_wait attempt=%d error=%v", i+1, err)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS after retries: %w", err)
	}

	log.Printf("event=nats_connected url=%s", conn.ConnectedUrl())
	return &NatsPublisher{conn: conn}, nil
}

func (p *NatsPublisher) Publish(subject string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("event=publish_error subject=%s error=%v", subject, err)
		return
	}
	if err := p.conn.Publish(subject, data); err != nil {
		log.Printf("event=publish_error subject=%s error=%v", subject, err)
	}
}

func (p *NatsPublisher) Close() {
	if err := p.conn.Drain(); err != nil {
		p.conn.Close()
	}
}

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

type Event struct {
	Subject string
	Payload interface{}
}

func (r *Recorder) Publish(subject string, payload interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Event{Subject: subject, Payload: payload})
}

func (r *Recorder) Close() {}

func (r *Recorder) Subjects() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Subject)
	}
	return out
}
