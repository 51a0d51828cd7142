package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

type baseEmailData struct {
	Title    string
	Heading  string
	CTALabel string
	CTAURL   string
}

// SolicitudCreatedData describes a newly submitted rental request.
type SolicitudCreatedData struct {
	NumeroSolicitud string
	FechaInicio     string
	FechaFin        string
	Total           string
	Productos       int
	Paquetes        int
	DetailURL       string
}

// SolicitudStatusData describes a rental request state change.
type SolicitudStatusData struct {
	NumeroSolicitud string
	From            string
	To              string
	DetailURL       string
}

// PagoRecordedData describes a recorded payment.
type PagoRecordedData struct {
	NumeroTransaccion string
	SolicitudID       int64
	TipoPago          string
	MetodoPago        string
	Monto             string
}

type solicitudCreatedEmailData struct {
	baseEmailData
	SolicitudCreatedData
}

type solicitudStatusEmailData struct {
	baseEmailData
	SolicitudStatusData
}

type pagoRecordedEmailData struct {
	baseEmailData
	PagoRecordedData
}

// SolicitudCreatedMessage renders the new-request notification.
func SolicitudCreatedMessage(to string, data SolicitudCreatedData) (Message, error) {
	content, err := renderEmailTemplate("solicitud_created.html", solicitudCreatedEmailData{
		baseEmailData: baseEmailData{
			Title:    "Nueva solicitud de renta",
			Heading:  "Nueva solicitud de renta",
			CTALabel: "Ver solicitud",
			CTAURL:   data.DetailURL,
		},
		SolicitudCreatedData: data,
	})
	if err != nil {
		return Message{}, err
	}
	return Message{To: to, Subject: fmt.Sprintf(subjectSolicitudCreatedFmt, data.NumeroSolicitud), HTML: content}, nil
}

// SolicitudStatusMessage renders the state-change notification.
func SolicitudStatusMessage(to string, data SolicitudStatusData) (Message, error) {
	content, err := renderEmailTemplate("solicitud_status.html", solicitudStatusEmailData{
		baseEmailData: baseEmailData{
			Title:    "Cambio de estado",
			Heading:  "Cambio de estado",
			CTALabel: "Ver solicitud",
			CTAURL:   data.DetailURL,
		},
		SolicitudStatusData: data,
	})
	if err != nil {
		return Message{}, err
	}
	return Message{To: to, Subject: fmt.Sprintf(subjectSolicitudStatusFmt, data.NumeroSolicitud, data.To), HTML: content}, nil
}

// PagoRecordedMessage renders the payment notification.
func PagoRecordedMessage(to string, data PagoRecordedData) (Message, error) {
	content, err := renderEmailTemplate("pago_recorded.html", pagoRecordedEmailData{
		baseEmailData: baseEmailData{
			Title:   "Pago registrado",
			Heading: "Pago registrado",
		},
		PagoRecordedData: data,
	})
	if err != nil {
		return Message{}, err
	}
	return Message{To: to, Subject: fmt.Sprintf(subjectPagoRecordedFmt, data.NumeroTransaccion), HTML: content}, nil
}

func renderEmailTemplate(name string, data any) (string, error) {
	templates := []string{"templates/base.html", "templates/" + name}
	tmpl, err := template.New("base.html").ParseFS(templateFS, templates...)
	if err != nil {
		return "", fmt.Errorf("parse email template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "email", data); err != nil {
		return "", fmt.Errorf("execute email template %s: %w", name, err)
	}
	return buf.String(), nil
}
