// Package notification turns rental domain events into operations emails.
package notification

import (
	"context"
	"fmt"
	"strings"

	"rental_backend/internal/email"
	"rental_backend/internal/events"
	"rental_backend/platform/config"
	"rental_backend/platform/logger"
)

// Dispatcher hands a rendered email to a delivery channel: direct SMTP or
// the background queue.
type Dispatcher interface {
	Dispatch(ctx context.Context, msg email.Message) error
}

// DirectDispatcher delivers synchronously through an email.Sender.
type DirectDispatcher struct {
	sender email.Sender
}

// NewDirectDispatcher wraps sender as a Dispatcher.
func NewDirectDispatcher(sender email.Sender) *DirectDispatcher {
	return &DirectDispatcher{sender: sender}
}

// Dispatch sends msg immediately and returns the sender's error.
func (d *DirectDispatcher) Dispatch(ctx context.Context, msg email.Message) error {
	return d.sender.Send(ctx, msg)
}

// Module subscribes to domain events and notifies the operations inbox.
type Module struct {
	dispatcher Dispatcher
	cfg        config.NotificationConfig
	log        *logger.Logger
}

// New creates the notification module.
func New(dispatcher Dispatcher, cfg config.NotificationConfig, log *logger.Logger) *Module {
	return &Module{
		dispatcher: dispatcher,
		cfg:        cfg,
		log:        log,
	}
}

// RegisterHandlers subscribes the module to the events it handles.
func (m *Module) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.SolicitudCreated{}.EventName(), m)
	bus.Subscribe(events.SolicitudStatusChanged{}.EventName(), m)
	bus.Subscribe(events.PagoRecorded{}.EventName(), m)

	m.log.Info("notification module registered event handlers")
}

// Handle routes events to the appropriate handler method.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.SolicitudCreated:
		return m.handleSolicitudCreated(ctx, e)
	case events.SolicitudStatusChanged:
		return m.handleSolicitudStatusChanged(ctx, e)
	case events.PagoRecorded:
		return m.handlePagoRecorded(ctx, e)
	default:
		m.log.Warn("unhandled event type", "event", event.EventName())
		return nil
	}
}

func (m *Module) handleSolicitudCreated(ctx context.Context, e events.SolicitudCreated) error {
	to := m.cfg.GetOpsEmail()
	if to == "" {
		return nil
	}

	msg, err := email.SolicitudCreatedMessage(to, email.SolicitudCreatedData{
		NumeroSolicitud: e.NumeroSolicitud,
		FechaInicio:     e.FechaInicio,
		FechaFin:        e.FechaFin,
		Total:           e.Total,
		Productos:       e.Productos,
		Paquetes:        e.Paquetes,
		DetailURL:       m.solicitudURL(e.SolicitudID),
	})
	if err != nil {
		return err
	}
	return m.dispatch(ctx, e.EventName(), msg)
}

func (m *Module) handleSolicitudStatusChanged(ctx context.Context, e events.SolicitudStatusChanged) error {
	to := m.cfg.GetOpsEmail()
	if to == "" {
		return nil
	}

	msg, err := email.SolicitudStatusMessage(to, email.SolicitudStatusData{
		NumeroSolicitud: e.NumeroSolicitud,
		From:            e.From,
		To:              e.To,
		DetailURL:       m.solicitudURL(e.SolicitudID),
	})
	if err != nil {
		return err
	}
	return m.dispatch(ctx, e.EventName(), msg)
}

func (m *Module) handlePagoRecorded(ctx context.Context, e events.PagoRecorded) error {
	to := m.cfg.GetOpsEmail()
	if to == "" {
		return nil
	}

	msg, err := email.PagoRecordedMessage(to, email.PagoRecordedData{
		NumeroTransaccion: e.NumeroTransaccion,
		SolicitudID:       e.SolicitudID,
		TipoPago:          e.TipoPago,
		MetodoPago:        e.MetodoPago,
		Monto:             e.Monto,
	})
	if err != nil {
		return err
	}
	return m.dispatch(ctx, e.EventName(), msg)
}

func (m *Module) dispatch(ctx context.Context, eventName string, msg email.Message) error {
	if err := m.dispatcher.Dispatch(ctx, msg); err != nil {
		m.log.Error("failed to dispatch notification email", "event", eventName, "error", err)
		return fmt.Errorf("dispatch %s notification: %w", eventName, err)
	}
	m.log.Debug("notification email dispatched", "event", eventName, "subject", msg.Subject)
	return nil
}

func (m *Module) solicitudURL(id int64) string {
	base := strings.TrimRight(m.cfg.GetAppBaseURL(), "/")
	if base == "" {
		return ""
	}
	return fmt.Sprintf("%s/solicitudes/%d", base, id)
}
