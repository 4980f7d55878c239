package templates

import (
	"bytes"
	"embed"
	"fmt"
	htmpl "html/template"
)

//go:embed *.tmpl
var FS embed.FS

// CodeData is the data shape for one-time-code emails.
type CodeData struct {
	Name           string
	Code           string
	ExpiresMinutes int
	AppName        string
}

var tmpl = htmpl.Must(htmpl.ParseFS(FS, "*.tmpl"))

// Render renders the template for the given purpose ("verify" or "reset")
// and returns the subject and HTML body.
func Render(purpose string, data CodeData) (subject, html string, err error) {
	var name string
	switch purpose {
	case "verify":
		name = "verify_code.tmpl"
		subject = "Verify your email"
	case "reset":
		name = "reset_code.tmpl"
		subject = "Reset your password"
	default:
		return "", "", fmt.Errorf("unknown email purpose %q", purpose)
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", "", err
	}
	return subject, buf.String(), nil
}
