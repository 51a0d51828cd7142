package notification

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"rental_backend/internal/email"
	"rental_backend/internal/events"
	platformevents "rental_backend/platform/events"
	"rental_backend/platform/logger"

	"github.com/google/uuid"
)

type testNotificationConfig struct {
	ops  string
	base string
}

func (c testNotificationConfig) GetOpsEmail() string   { return c.ops }
func (c testNotificationConfig) GetAppBaseURL() string { return c.base }

type recordingDispatcher struct {
	mu   sync.Mutex
	sent []email.Message
	err  error
}

func (d *recordingDispatcher) Dispatch(_ context.Context, msg email.Message) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return d.err
	}
	d.sent = append(d.sent, msg)
	return nil
}

func newTestModule(cfg testNotificationConfig) (*Module, *recordingDispatcher) {
	d := &recordingDispatcher{}
	return New(d, cfg, logger.Discard()), d
}

func TestSolicitudCreatedNotifiesOps(t *testing.T) {
	m, d := newTestModule(testNotificationConfig{ops: "ops@example.com", base: "https://rentas.example.com/"})

	err := m.Handle(context.Background(), events.SolicitudCreated{
		BaseEvent:       events.NewBaseEvent(),
		SolicitudID:     7,
		NumeroSolicitud: "SOL-20260307-0042",
		UsuarioID:       uuid.New(),
		Total:           "178.50",
		Productos:       1,
	})
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(d.sent) != 1 {
		t.Fatalf("expected one email, got %d", len(d.sent))
	}
	if d.sent[0].To != "ops@example.com" {
		t.Fatalf("unexpected recipient %q", d.sent[0].To)
	}
	if !strings.Contains(d.sent[0].HTML, "https://rentas.example.com/solicitudes/7") {
		t.Fatal("expected detail link in body")
	}
}

func TestNoOpsInboxSkipsDelivery(t *testing.T) {
	m, d := newTestModule(testNotificationConfig{})

	err := m.Handle(context.Background(), events.PagoRecorded{BaseEvent: events.NewBaseEvent(), NumeroTransaccion: "TRX-1"})
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(d.sent) != 0 {
		t.Fatalf("expected no email, got %d", len(d.sent))
	}
}

func TestDispatchFailureIsReturned(t *testing.T) {
	m, d := newTestModule(testNotificationConfig{ops: "ops@example.com"})
	d.err = errors.New("queue unavailable")

	err := m.Handle(context.Background(), events.SolicitudStatusChanged{BaseEvent: events.NewBaseEvent(), NumeroSolicitud: "SOL-1", From: "pendiente", To: "aprobada"})
	if err == nil || !strings.Contains(err.Error(), "queue unavailable") {
		t.Fatalf("expected dispatch error, got %v", err)
	}
}

func TestRegisteredHandlersReceiveBusEvents(t *testing.T) {
	m, d := newTestModule(testNotificationConfig{ops: "ops@example.com"})
	bus := platformevents.NewInMemoryBus(logger.Discard())
	m.RegisterHandlers(bus)

	err := bus.PublishSync(context.Background(), events.PagoRecorded{
		BaseEvent:         events.NewBaseEvent(),
		NumeroTransaccion: "TRX-20260307-0000000A",
		SolicitudID:       7,
		Monto:             "89.25",
	})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if len(d.sent) != 1 || d.sent[0].Subject != "Pago TRX-20260307-0000000A registrado" {
		t.Fatalf("unexpected deliveries %+v", d.sent)
	}
}

func TestDirectDispatcherUsesSender(t *testing.T) {
	d := NewDirectDispatcher(email.NoopSender{})
	if err := d.Dispatch(context.Background(), email.Message{To: "a@example.com", Subject: "s"}); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
}
