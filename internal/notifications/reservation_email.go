package notifications

import (
	"bytes"
	"html/template"

	"aperture-backend/internal/reservations"
)

const reservationConfirmationTemplate = `<!DOCTYPE html>
<html>
<body>
  <p>Hi {{.FirstName}},</p>
  <p>Thank you for your reservation request. Here is what we have on file:</p>
  <ul>
    <li>Session type: {{.ServiceLabel}}</li>
    <li>Date: {{.EventDate}}</li>
    <li>Reservation number: {{.ReservationID}}</li>
  </ul>
  {{if .Message}}<p>Your note: {{.Message}}</p>{{end}}
  <p>I will contact you within 24 hours to confirm your booking.</p>
  <p>Talk soon.</p>
</body>
</html>`

var reservationConfirmationTmpl = template.Must(template.New("reservation_confirmation").Parse(reservationConfirmationTemplate))

type reservationConfirmationData struct {
	FirstName     string
	ServiceLabel  string
	EventDate     string
	ReservationID string
	Message       string
}

func buildReservationConfirmationHTML(reservation reservations.Reservation) (string, error) {
	data := reservationConfirmationData{
		FirstName:     reservation.Contact.FirstName,
		ServiceLabel:  serviceTypeLabel(reservation.ServiceType),
		EventDate:     reservation.EventDate.Format("Monday, January 2, 2006"),
		ReservationID: reservation.ID,
		Message:       reservation.Message,
	}
	var buf bytes.Buffer
	if err := reservationConfirmationTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func serviceTypeLabel(value string) string {
	switch value {
	case reservations.ServiceWedding:
		return "Wedding"
	case reservations.ServicePortrait:
		return "Portrait"
	case reservations.ServiceEvent:
		return "Event"
	case reservations.ServiceOther:
		return "Photography"
	default:
		return value
	}
}
