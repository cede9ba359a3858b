package email

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"
)

const layoutHTML = `{{define "layout"}}<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
{{template "body" .}}
    <p style="color: #6b7280; font-size: 14px; margin-top: 30px;">Thanks,<br>The {{.AppName}} Team</p>
</body>
</html>{{end}}
{{define "trip"}}
    <table style="width: 100%; border-collapse: collapse; margin: 20px 0;">
        <tr><td style="color: #6b7280;">Reference</td><td><strong>{{.Reference}}</strong></td></tr>
        <tr><td style="color: #6b7280;">Pickup</td><td>{{.Pickup}}</td></tr>
        <tr><td style="color: #6b7280;">Drop-off</td><td>{{.Dropoff}}</td></tr>
        <tr><td style="color: #6b7280;">When</td><td>{{.PickupTime}}</td></tr>
        <tr><td style="color: #6b7280;">Vehicle</td><td>{{.VehicleType}} ({{.TripType}})</td></tr>
        <tr><td style="color: #6b7280;">Passengers</td><td>{{.Passengers}}</td></tr>
        <tr><td style="color: #6b7280;">Total</td><td>${{.Price}}</td></tr>
    </table>{{end}}`

const tripText = `{{define "trip"}}Reference:  {{.Reference}}
Pickup:     {{.Pickup}}
Drop-off:   {{.Dropoff}}
When:       {{.PickupTime}}
Vehicle:    {{.VehicleType}} ({{.TripType}})
Passengers: {{.Passengers}}
Total:      ${{.Price}}{{end}}`

type template struct {
	subject string
	text    *texttemplate.Template
	html    *htmltemplate.Template
}

func mustTemplate(name, subject, text, html string) template {
	return template{
		subject: subject,
		text:    texttemplate.Must(texttemplate.New(name).Parse(tripText + `{{define "body"}}` + text + `{{end}}{{template "body" .}}`)),
		html: htmltemplate.Must(htmltemplate.Must(htmltemplate.New(name).Parse(layoutHTML)).
			Parse(`{{define "body"}}` + html + `{{end}}`)),
	}
}

var (
	bookingConfirmation = mustTemplate("booking_confirmation",
		"Your transfer is booked: %s",
		`Hi {{.CustomerName}},

Thanks for booking with {{.AppName}}. Here are your trip details:

{{template "trip" .}}
{{if .CancellationURL}}
Need to cancel? Request it here:
{{.CancellationURL}}
{{end}}
Thanks,
The {{.AppName}} Team`,
		`    <h2 style="color: #2563eb;">Hi {{.CustomerName}},</h2>
    <p>Thanks for booking with {{.AppName}}. Here are your trip details:</p>
{{template "trip" .}}
{{if .CancellationURL}}    <p style="font-size: 14px;">Need to cancel? <a href="{{.CancellationURL}}">Request a cancellation</a>.</p>{{end}}`)

	adminNewBooking = mustTemplate("admin_new_booking",
		"New booking %s",
		`A new booking was received.

Customer: {{.CustomerName}} <{{.CustomerEmail}}> {{.CustomerPhone}}

{{template "trip" .}}`,
		`    <h2 style="color: #2563eb;">New booking received</h2>
    <p>Customer: {{.CustomerName}} &lt;{{.CustomerEmail}}&gt; {{.CustomerPhone}}</p>
{{template "trip" .}}`)

	bookingCompleted = mustTemplate("booking_completed",
		"How was your trip? (%s)",
		`Hi {{.CustomerName}},

Your transfer {{.Reference}} is complete. We hope you enjoyed the ride.
{{if .ReviewURL}}
We'd love to hear how it went:
{{.ReviewURL}}
{{end}}
Thanks,
The {{.AppName}} Team`,
		`    <h2 style="color: #2563eb;">Hi {{.CustomerName}},</h2>
    <p>Your transfer <strong>{{.Reference}}</strong> is complete. We hope you enjoyed the ride.</p>
{{if .ReviewURL}}    <p style="text-align: center; margin: 30px 0;">
        <a href="{{.ReviewURL}}" style="background-color: #16a34a; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; display: inline-block;">Leave a review</a>
    </p>{{end}}`)

	cancellationSubmitted = mustTemplate("cancellation_submitted",
		"Cancellation requested for %s",
		`{{.CustomerName}} <{{.CustomerEmail}}> asked to cancel booking {{.Reference}}.
{{if .Reason}}
Reason: {{.Reason}}
{{end}}
{{template "trip" .}}`,
		`    <h2 style="color: #dc2626;">Cancellation requested</h2>
    <p>{{.CustomerName}} &lt;{{.CustomerEmail}}&gt; asked to cancel booking <strong>{{.Reference}}</strong>.</p>
{{if .Reason}}    <p>Reason: <em>{{.Reason}}</em></p>{{end}}
{{template "trip" .}}`)
)

func (t template) render(to string, data BookingData) (Message, error) {
	var text, html bytes.Buffer
	if err := t.text.Execute(&text, data); err != nil {
		return Message{}, fmt.Errorf("render %s text: %w", t.text.Name(), err)
	}
	if err := t.html.ExecuteTemplate(&html, "layout", data); err != nil {
		return Message{}, fmt.Errorf("render %s html: %w", t.html.Name(), err)
	}
	return Message{
		To:       []string{to},
		Subject:  fmt.Sprintf(t.subject, data.Reference),
		TextBody: text.String(),
		HTMLBody: html.String(),
	}, nil
}

// BuildBookingConfirmationEmail is sent to the customer after intake.
func BuildBookingConfirmationEmail(data BookingData) (Message, error) {
	return bookingConfirmation.render(data.CustomerEmail, data)
}

// BuildAdminNewBookingEmail notifies operations of a new booking.
func BuildAdminNewBookingEmail(admin string, data BookingData) (Message, error) {
	return adminNewBooking.render(admin, data)
}

// BuildBookingCompletedEmail thanks the customer and links the review form.
func BuildBookingCompletedEmail(data BookingData) (Message, error) {
	return bookingCompleted.render(data.CustomerEmail, data)
}

// BuildCancellationRequestEmail tells operations a customer asked to cancel.
func BuildCancellationRequestEmail(admin string, data BookingData) (Message, error) {
	return cancellationSubmitted.render(admin, data)
}
