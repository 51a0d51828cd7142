package email

const (
	subjectSolicitudCreatedFmt = "Nueva solicitud %s"
	subjectSolicitudStatusFmt  = "Solicitud %s: %s"
	subjectPagoRecordedFmt     = "Pago %s registrado"
)
