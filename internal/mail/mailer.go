package mail

import (
	"bytes"
	"embed"
	"html/template"

	gomail "github.com/go-mail/mail/v2"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// dialAndSend 可於測試中替換，避免真實 SMTP 連線
var dialAndSend = func(d *gomail.Dialer, msg *gomail.Message) error {
	return d.DialAndSend(msg)
}

// Mailer 封裝 SMTP 寄送；透過 worker pool 在請求之外執行
type Mailer struct {
	dialer *gomail.Dialer
	sender string
}

func New(host string, port int, username, password, sender string) *Mailer {
	return &Mailer{
		dialer: gomail.NewDialer(host, port, username, password),
		sender: sender,
	}
}

func (m *Mailer) send(to, templateName string, data any) error {
	tmpl, err := template.New("email").ParseFS(templateFS, "templates/"+templateName)
	if err != nil {
		return err
	}

	var subject bytes.Buffer
	if err := tmpl.ExecuteTemplate(&subject, "subject", data); err != nil {
		return err
	}
	var plainBody bytes.Buffer
	if err := tmpl.ExecuteTemplate(&plainBody, "plainBody", data); err != nil {
		return err
	}
	var htmlBody bytes.Buffer
	if err := tmpl.ExecuteTemplate(&htmlBody, "htmlBody", data); err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("To", to)
	msg.SetHeader("From", m.sender)
	msg.SetHeader("Subject", subject.String())
	msg.SetBody("text/plain", plainBody.String())
	msg.AddAlternative("text/html", htmlBody.String())

	for i := 0; i < 3; i++ {
		if err = dialAndSend(m.dialer, msg); err == nil {
			break
		}
	}
	return err
}

// SendWelcome 寄送註冊歡迎信
func (m *Mailer) SendWelcome(to, username string) error {
	return m.send(to, "welcome.tmpl", map[string]string{"Username": username})
}
