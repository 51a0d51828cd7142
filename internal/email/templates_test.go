package email

import (
	"context"
	"strings"
	"testing"
)

func TestSolicitudCreatedMessage(t *testing.T) {
	msg, err := SolicitudCreatedMessage("ops@example.com", SolicitudCreatedData{
		NumeroSolicitud: "SOL-20260307-0042",
		FechaInicio:     "2026-05-01",
		FechaFin:        "2026-05-03",
		Total:           "178.50",
		Productos:       1,
		DetailURL:       "https://rentas.example.com/solicitudes/7",
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if msg.Subject != "Nueva solicitud SOL-20260307-0042" {
		t.Fatalf("unexpected subject %q", msg.Subject)
	}
	for _, want := range []string{"SOL-20260307-0042", "178.50", "https://rentas.example.com/solicitudes/7"} {
		if !strings.Contains(msg.HTML, want) {
			t.Fatalf("expected %q in body", want)
		}
	}
	if err := msg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestStatusAndPaymentMessages(t *testing.T) {
	status, err := SolicitudStatusMessage("ops@example.com", SolicitudStatusData{NumeroSolicitud: "SOL-1", From: "pendiente", To: "aprobada"})
	if err != nil {
		t.Fatalf("render status: %v", err)
	}
	if status.Subject != "Solicitud SOL-1: aprobada" || !strings.Contains(status.HTML, "pendiente") {
		t.Fatalf("unexpected status message %+v", status)
	}
	if strings.Contains(status.HTML, "<a href") {
		t.Fatal("expected no call to action without a detail url")
	}

	pago, err := PagoRecordedMessage("ops@example.com", PagoRecordedData{NumeroTransaccion: "TRX-20260307-0000000A", SolicitudID: 7, Monto: "89.25"})
	if err != nil {
		t.Fatalf("render pago: %v", err)
	}
	if !strings.Contains(pago.HTML, "89.25") || !strings.Contains(pago.HTML, "#7") {
		t.Fatalf("unexpected payment body %q", pago.HTML)
	}
}

func TestTemplatesEscapeInput(t *testing.T) {
	msg, err := SolicitudStatusMessage("ops@example.com", SolicitudStatusData{NumeroSolicitud: "<script>", From: "a", To: "b"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(msg.HTML, "<script>") {
		t.Fatal("expected html escaping")
	}
}

func TestMessageValidateAndNoop(t *testing.T) {
	if err := (Message{Subject: "x"}).Validate(); err == nil {
		t.Fatal("expected missing recipient error")
	}
	if err := (NoopSender{}).Send(context.Background(), Message{}); err != nil {
		t.Fatalf("noop: %v", err)
	}
}
