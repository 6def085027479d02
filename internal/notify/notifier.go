// Package notify delivers appointment events to clients and barbers by
// email and push. Delivery is always best-effort.
package notify

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"
)

type EventType string

const (
	EventAppointmentCreated   EventType = "appointment_created"
	EventAppointmentUpdated   EventType = "appointment_updated"
	EventAppointmentCancelled EventType = "appointment_cancelled"
	EventAppointmentCompleted EventType = "appointment_completed"
)

type Recipient struct {
	Name       string
	Email      string
	PushTokens []string
}

type Message struct {
	Type      EventType
	Recipient Recipient
	Title     string
	Body      string
	Data      map[string]string
}

type Notifier interface {
	Notify(ctx context.Context, msg Message) error
}

// Multi fans a message out to every notifier, joining their errors.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, msg Message) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, msg); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Nop discards messages.
type Nop struct{}

func (Nop) Notify(context.Context, Message) error { return nil }

// Dispatcher queues messages for a background worker so callers never wait
// on, or fail because of, delivery.
type Dispatcher struct {
	notifier Notifier
	timeout  time.Duration
	queue    chan Message
	done     chan struct{}
	once     sync.Once
}

func NewDispatcher(n Notifier) *Dispatcher {
	d := &Dispatcher{
		notifier: n,
		timeout:  15 * time.Second,
		queue:    make(chan Message, 100),
		done:     make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)
	for msg := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		if err := d.notifier.Notify(ctx, msg); err != nil {
			log.Printf("notify %s to %q failed: %v", msg.Type, msg.Recipient.Name, err)
		}
		cancel()
	}
}

func (d *Dispatcher) Dispatch(msg Message) {
	select {
	case d.queue <- msg:
	default:
		log.Println("notify queue full, dropping", msg.Type)
	}
}

func (d *Dispatcher) Close() {
	d.once.Do(func() {
		close(d.queue)
	})
	<-d.done
}
