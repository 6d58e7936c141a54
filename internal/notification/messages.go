package notification

import (
	"bytes"
	"fmt"
	"html/template"
	"time"
)

// Notification kinds, used as metric labels.
const (
	KindCredentials = "credentials"
	KindOTP         = "otp"
	KindBirthday    = "birthday"
	KindAdHoc       = "ad_hoc"
)

// CredentialsMessage tells a new staff member their initial password.
func CredentialsMessage(to, name, email, password, orgName string) Message {
	body := fmt.Sprintf("Hello %s,\n\n"+
		"An account has been created for you.\n\n"+
		"Email: %s\nPassword: %s\n\n"+
		"Please sign in and change your password.\n\n%s",
		name, email, password, orgName)
	return Message{To: []string{to}, Subject: "Your staff account credentials", Body: body}
}

// OTPMessage carries a password reset code.
func OTPMessage(to, code string, ttl time.Duration) Message {
	body := fmt.Sprintf("Your password reset code is %s.\n\n"+
		"It expires in %d minutes and can only be used once. "+
		"If you did not request a reset you can ignore this message.",
		code, int(ttl.Minutes()))
	return Message{To: []string{to}, Subject: "Password reset code", Body: body}
}

// BirthdayRow is one line of the birthday reminder table.
type BirthdayRow struct {
	Seq   int
	Name  string
	Phone string
}

var birthdayTmpl = template.Must(template.New("birthday").Parse(`<p>Hello {{.Org}},</p>
<p>This is a reminder that tomorrow is the birthday of the following member(s):</p>
<table style="border-collapse: collapse; width: 100%; font-family: Arial, sans-serif;">
  <thead>
    <tr style="background-color: #f2f2f2;">
      <th style="padding: 8px; border: 1px solid #ddd;">#</th>
      <th style="padding: 8px; border: 1px solid #ddd;">Name</th>
      <th style="padding: 8px; border: 1px solid #ddd;">Phone Number</th>
    </tr>
  </thead>
  <tbody>
{{- range .Rows}}
    <tr>
      <td style="padding: 8px; border: 1px solid #ddd; text-align: center;">{{.Seq}}</td>
      <td style="padding: 8px; border: 1px solid #ddd;">{{.Name}}</td>
      <td style="padding: 8px; border: 1px solid #ddd;">{{.Phone}}</td>
    </tr>
{{- end}}
  </tbody>
</table>
<p>Best regards,</p>
`))

// BirthdayMessage lists tomorrow's birthdays for the administrators.
func BirthdayMessage(to []string, rows []BirthdayRow, orgName string) (Message, error) {
	var buf bytes.Buffer
	data := struct {
		Org  string
		Rows []BirthdayRow
	}{Org: orgName, Rows: rows}
	if err := birthdayTmpl.Execute(&buf, data); err != nil {
		return Message{}, fmt.Errorf("render birthday message: %w", err)
	}
	return Message{
		To:      to,
		Subject: "🎉 Birthday Reminder for Tomorrow",
		Body:    buf.String(),
		HTML:    true,
	}, nil
}
