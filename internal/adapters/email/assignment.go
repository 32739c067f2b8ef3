package email

import (
	"bytes"
	"fmt"
	"html/template"
	"time"
)

// AssignmentNotice is the data for the "new exercise scheduled" message.
type AssignmentNotice struct {
	PatientEmail string
	PatientName  string
	ExerciseName string
	ScheduledAt  time.Time
}

var assignmentTmpl = template.Must(template.New("assignment").Parse(
	`<p>Hi {{.PatientName}},</p>
<p>Your physio has scheduled <strong>{{.ExerciseName}}</strong> for {{.When}}.</p>
<p>Log in to see today's exercises and mark them done.</p>`))

// AssignmentRequest builds the notification email for a new schedule entry.
// PRE: n.PatientEmail is non-empty
// POST: Returns a request with escaped HTML and a plain-text alternative
func AssignmentRequest(n AssignmentNotice) (SendRequest, error) {
	when := n.ScheduledAt.Format("Mon 2 Jan 2006 at 15:04")
	var buf bytes.Buffer
	err := assignmentTmpl.Execute(&buf, struct {
		AssignmentNotice
		When string
	}{n, when})
	if err != nil {
		return SendRequest{}, fmt.Errorf("render assignment email: %w", err)
	}
	return SendRequest{
		To:      []string{n.PatientEmail},
		Subject: "New exercise scheduled: " + n.ExerciseName,
		HTML:    buf.String(),
		Text:    fmt.Sprintf("Hi %s, your physio has scheduled %s for %s.", n.PatientName, n.ExerciseName, when),
	}, nil
}
