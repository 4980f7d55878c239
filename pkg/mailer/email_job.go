package mailer

// Purpose tags for one-time-code emails.
const (
	PurposeVerify = "verify"
	PurposeReset  = "reset"
)

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// Code/Purpose drive the template; Subject/Text/HTML allow raw sends.
type EmailJob struct {
	To      string `json:"to"`
	Name    string `json:"name,omitempty"`
	Code    string `json:"code,omitempty"`
	Purpose string `json:"purpose,omitempty"`
	Subject string `json:"subject,omitempty"`
	Text    string `json:"text,omitempty"`
	HTML    string `json:"html,omitempty"`
}
