package mailer

// Service transmits one email per call. Implementations perform exactly one
// provider call and never retry; retry policy belongs to the caller.
type Service interface {
	Send(toEmail, toName, subject, text, html string) (string, error)
}
