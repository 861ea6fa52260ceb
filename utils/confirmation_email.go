package utils

import (
	"fmt"
	"log"
	"net/smtp"
	"os"
	"strings"
	"time"
)

// BookingEmailData carries everything the confirmation email renders.
type BookingEmailData struct {
	Name          string
	Email         string
	College       string
	AcademicYear  string
	PreferredDate time.Time
	TimeSlot      string
	SessionType   string
	Concerns      string
	ReferenceCode string
	BookingID     uint
}

// SendBookingConfirmationEmail sends the session confirmation as a
// multipart (plain + HTML) message.
// DEV fallback: when SMTP env is not configured, log a mock send and
// return nil so local runs behave like a successful notification.
func SendBookingConfirmationEmail(data BookingEmailData) error {
	smtpHost := os.Getenv("SMTP_HOST")
	smtpPort := os.Getenv("SMTP_PORT")
	smtpUser := os.Getenv("SMTP_USERNAME")
	smtpPass := os.Getenv("SMTP_PASSWORD")
	fromName := os.Getenv("SMTP_FROM_NAME")

	sessionLabel := FormatSessionType(data.SessionType)
	dateText := data.PreferredDate.Format("Monday, January 2, 2006")

	if smtpUser == "" || smtpPass == "" || smtpHost == "" || smtpPort == "" {
		log.Printf("[MOCK EMAIL] confirmation to:%s ref:%s date:%s slot:%s type:%s",
			MaskEmail(data.Email), data.ReferenceCode, dateText, data.TimeSlot, sessionLabel)
		return nil
	}

	safe := func(s string) string {
		return strings.ReplaceAll(strings.TrimSpace(s), "\r\n", " ")
	}
	name := safe(data.Name)

	if fromName == "" {
		fromName = "MindCare Counseling"
	}

	from := fmt.Sprintf("%s <%s>", fromName, smtpUser)
	to := []string{data.Email}
	auth := smtp.PlainAuth("", smtpUser, smtpPass, smtpHost)
	addr := fmt.Sprintf("%s:%s", smtpHost, smtpPort)

	subject := "Your Counseling Session is Confirmed!"
	boundary := "----=_CONFIRMATION_EMAIL_BOUNDARY"

	concernsText := ""
	if strings.TrimSpace(data.Concerns) != "" {
		concernsText = fmt.Sprintf("\nDiscussion topics you shared:\n\"%s\"\n", safe(data.Concerns))
	}

	plainBody := fmt.Sprintf(
		"Hello %s,\n\n"+
			"Your counseling session has been successfully scheduled. We're here to\n"+
			"support you every step of the way.\n\n"+
			"Session Details\n"+
			"  Booking reference: %s\n"+
			"  Date: %s\n"+
			"  Time: %s\n"+
			"  Session type: %s\n"+
			"  Institution: %s\n"+
			"  Academic year: %s\n"+
			"%s\n"+
			"All sessions are completely confidential. If you need to reschedule,\n"+
			"reply to this email with your booking reference.\n\n"+
			"Need immediate help? Call our crisis helpline at 1800-MINDCARE or\n"+
			"contact emergency services at 102.\n",
		name, data.ReferenceCode, dateText, data.TimeSlot, sessionLabel,
		safe(data.College), safe(data.AcademicYear), concernsText,
	)

	concernsHTML := ""
	if strings.TrimSpace(data.Concerns) != "" {
		concernsHTML = fmt.Sprintf(`<div class="concerns"><h4>Discussion Topics</h4><p><em>"%s"</em></p></div>`,
			htmlEscape(data.Concerns))
	}

	htmlBody := fmt.Sprintf(`<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>Session Confirmation</title>
<style>
body { background:#f8f9fa; font-family:Arial, Helvetica, sans-serif; color:#333; }
.container { max-width:600px; margin:40px auto; }
.card { background:#fff; border:1px solid #e9ecef; padding:30px; border-radius:12px; }
.header { background:#667eea; color:#fff; padding:24px; border-radius:8px; text-align:center; }
.details td { padding:10px 0; border-bottom:1px solid #f1f3f4; }
.details td.label { font-weight:500; color:#555; }
.concerns { background:#fff3cd; border:1px solid #ffeaa7; border-radius:8px; padding:16px; margin-top:20px; color:#856404; }
.footer { margin-top:24px; font-size:13px; color:#777; }
</style>
</head>
<body>
<div class="container">
  <div class="card">
    <div class="header">
      <h1>Session Confirmed!</h1>
      <p>Your mental wellness journey starts here</p>
    </div>
    <p>Hello %s,</p>
    <p>Your counseling session has been successfully scheduled. We're here to support you every step of the way.</p>
    <table class="details" width="100%%">
      <tr><td class="label">Booking reference</td><td>%s</td></tr>
      <tr><td class="label">Date</td><td>%s</td></tr>
      <tr><td class="label">Time</td><td>%s</td></tr>
      <tr><td class="label">Session type</td><td>%s</td></tr>
      <tr><td class="label">Institution</td><td>%s</td></tr>
      <tr><td class="label">Academic year</td><td>%s</td></tr>
    </table>
    %s
    <p class="footer">All sessions are completely confidential.<br>
    Need immediate help? Call our crisis helpline at <strong>1800-MINDCARE</strong> or contact emergency services at 102.</p>
  </div>
</div>
</body>
</html>`,
		htmlEscape(name), htmlEscape(data.ReferenceCode), htmlEscape(dateText),
		htmlEscape(data.TimeSlot), htmlEscape(sessionLabel),
		htmlEscape(data.College), htmlEscape(data.AcademicYear), concernsHTML,
	)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("From: %s\r\n", from))
	sb.WriteString(fmt.Sprintf("To: %s\r\n", data.Email))
	sb.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString(fmt.Sprintf("Content-Type: multipart/alternative; boundary=\"%s\"\r\n\r\n", boundary))

	sb.WriteString(fmt.Sprintf("--%s\r\n", boundary))
	sb.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
	sb.WriteString(plainBody + "\r\n")

	sb.WriteString(fmt.Sprintf("--%s\r\n", boundary))
	sb.WriteString("Content-Type: text/html; charset=utf-8\r\n\r\n")
	sb.WriteString(htmlBody + "\r\n")

	sb.WriteString(fmt.Sprintf("--%s--\r\n", boundary))

	if err := smtp.SendMail(addr, auth, smtpUser, to, []byte(sb.String())); err != nil {
		log.Printf("Failed to send confirmation email to %s: %v", MaskEmail(data.Email), err)
		return err
	}

	log.Printf("Confirmation email sent to %s (ref: %s)", MaskEmail(data.Email), data.ReferenceCode)
	return nil
}

// minimal html escaper for the small strings we use
func htmlEscape(s string) string {
	replacer := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&#39;",
	)
	return replacer.Replace(s)
}
