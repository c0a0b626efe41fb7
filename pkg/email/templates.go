package email

import (
	"bytes"
	"fmt"
	"html/template"
	"time"
)

var resetOTPTmpl = template.Must(template.New("resetOTP").Parse(passwordResetOTPTemplate))

// PasswordResetOTP renders the subject, plain-text, and HTML bodies for a
// password reset code email.
func PasswordResetOTP(name, otp string, ttl time.Duration) (subject, text, html string) {
	subject = "Your password reset code"
	minutes := int(ttl.Minutes())
	text = fmt.Sprintf(
		"Hi %s,\n\nYour password reset code is %s. It expires in %d minutes.\n\nIf you did not request a reset, you can ignore this email.\n",
		name, otp, minutes,
	)

	var body bytes.Buffer
	err := resetOTPTmpl.Execute(&body, struct {
		Name    string
		OTP     string
		Minutes int
	}{Name: name, OTP: otp, Minutes: minutes})
	if err != nil {
		// The template is static and tested; fall back to the text body.
		return subject, text, text
	}
	return subject, text, body.String()
}

const passwordResetOTPTemplate = `
<!DOCTYPE html>
<html>
<head>
	<title>Password Reset</title>
</head>
<body style="font-family: Arial, sans-serif;">
	<h2>Hi {{.Name}},</h2>
	<p>Your password reset code is:</p>
	<p style="font-size: 24px; letter-spacing: 4px;"><strong>{{.OTP}}</strong></p>
	<p>This code will expire in {{.Minutes}} minutes.</p>
	<p>If you did not request a password reset, please ignore this email.</p>
</body>
</html>
`
