package email

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"
)

const (
	TemplateOTPVerification = "otp_verification"
	TemplatePasswordReset   = "password_reset"
)

// CodeData - данные писем с одноразовым кодом
type CodeData struct {
	Name          string
	Code          string
	ExpiryMinutes int
	BrandName     string
}

type template struct {
	subject string
	html    *htmltemplate.Template
	text    *texttemplate.Template
}

// Templates - встроенные шаблоны транзакционных писем
type Templates struct {
	brand     string
	templates map[string]template
}

func NewTemplates(brand string) (*Templates, error) {
	if brand == "" {
		brand = "Storefront"
	}
	t := &Templates{brand: brand, templates: make(map[string]template)}

	defs := []struct {
		name, subject, html, text string
	}{
		{TemplateOTPVerification, "Verify your email", otpHTML, otpText},
		{TemplatePasswordReset, "Reset your password", resetHTML, resetText},
	}
	for _, d := range defs {
		h, err := htmltemplate.New(d.name).Parse(baseHTMLStart + d.html + baseHTMLEnd)
		if err != nil {
			return nil, fmt.Errorf("parse html template %s: %w", d.name, err)
		}
		txt, err := texttemplate.New(d.name).Parse(d.text)
		if err != nil {
			return nil, fmt.Errorf("parse text template %s: %w", d.name, err)
		}
		t.templates[d.name] = template{subject: d.subject, html: h, text: txt}
	}
	return t, nil
}

// Render собирает письмо по имени шаблона
func (t *Templates) Render(name, to string, data CodeData) (Message, error) {
	tpl, ok := t.templates[name]
	if !ok {
		return Message{}, fmt.Errorf("template not found: %s", name)
	}
	if data.BrandName == "" {
		data.BrandName = t.brand
	}

	var html, text bytes.Buffer
	if err := tpl.html.Execute(&html, data); err != nil {
		return Message{}, fmt.Errorf("execute template %s: %w", name, err)
	}
	if err := tpl.text.Execute(&text, data); err != nil {
		return Message{}, fmt.Errorf("execute template %s: %w", name, err)
	}

	return Message{
		To:       to,
		Subject:  fmt.Sprintf("%s - %s", tpl.subject, data.BrandName),
		HTMLBody: html.String(),
		TextBody: text.String(),
	}, nil
}

const baseHTMLStart = `<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; color: #333; max-width: 520px; margin: 0 auto; padding: 24px;">
`

const baseHTMLEnd = `
<p style="color: #999; font-size: 12px; margin-top: 32px;">{{.BrandName}}</p>
</body>
</html>`

const otpHTML = `<h2>Verify your email</h2>
<p>Hi {{if .Name}}{{.Name}}{{else}}there{{end}},</p>
<p>Use this code to verify your email address:</p>
<p style="font-size: 28px; font-weight: bold; letter-spacing: 6px;">{{.Code}}</p>
<p>The code expires in {{.ExpiryMinutes}} minutes. If you did not create an account, ignore this email.</p>`

const otpText = `Hi {{if .Name}}{{.Name}}{{else}}there{{end}},

Your verification code is {{.Code}}.
It expires in {{.ExpiryMinutes}} minutes.
`

const resetHTML = `<h2>Reset your password</h2>
<p>Hi {{if .Name}}{{.Name}}{{else}}there{{end}},</p>
<p>Use this code to set a new password:</p>
<p style="font-size: 28px; font-weight: bold; letter-spacing: 6px;">{{.Code}}</p>
<p>The code expires in {{.ExpiryMinutes}} minutes. If you did not request a reset, ignore this email.</p>`

const resetText = `Hi {{if .Name}}{{.Name}}{{else}}there{{end}},

Your password reset code is {{.Code}}.
It expires in {{.ExpiryMinutes}} minutes.
`
