package mail

import "fmt"

type Mailer interface {
	Send(to, subject, htmlBody string) error
}

type Noop struct{}

func (Noop) Send(string, string, string) error { return nil }

// ClubDecisionBody renders the notice mailed to a club creator after a
// platform admin decides the club.
func ClubDecisionBody(clubName, status, reason string) (subject, html string) {
	if status == "approved" {
		subject = fmt.Sprintf("Your club %q has been approved", clubName)
		html = fmt.Sprintf(`<p>Good news! Your club <b>%s</b> has been approved and is now visible to other students.</p>`, clubName)
		return subject, html
	}

	subject = fmt.Sprintf("Your club %q was not approved", clubName)
	html = fmt.Sprintf(`<p>Your club <b>%s</b> was not approved.</p><p>Reason: %s</p>`, clubName, reason)
	return subject, html
}
