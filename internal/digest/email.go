package digest

import (
	"bytes"
	"fmt"
	"html/template"
)

var emailTemplate = template.Must(template.New("digest").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: sans-serif; color: #333;">
  <h2>Hi {{if .Recipient.FirstName}}{{.Recipient.FirstName}}{{else}}there{{end}}, here is your day on DAP</h2>
  <p>Activity for {{.From.Format "2006-01-02"}}:</p>
  <ul>
    {{- if gt .LikesReceived 0}}
    <li><strong>{{.LikesReceived}}</strong> new {{if eq .LikesReceived 1}}person likes{{else}}people like{{end}} you</li>
    {{- end}}
    {{- if gt .MessagesReceived 0}}
    <li><strong>{{.MessagesReceived}}</strong> new {{if eq .MessagesReceived 1}}message{{else}}messages{{end}}</li>
    {{- end}}
    {{- if gt .UnreadConversations 0}}
    <li><strong>{{.UnreadConversations}}</strong> unread {{if eq .UnreadConversations 1}}conversation{{else}}conversations{{end}} waiting</li>
    {{- end}}
    {{- if gt .JoinsOnOwnEvents 0}}
    <li><strong>{{.JoinsOnOwnEvents}}</strong> {{if eq .JoinsOnOwnEvents 1}}person{{else}}people{{end}} joined your events</li>
    {{- end}}
    {{- if gt .CommentsOnOwnEvents 0}}
    <li><strong>{{.CommentsOnOwnEvents}}</strong> new {{if eq .CommentsOnOwnEvents 1}}comment{{else}}comments{{end}} on your events</li>
    {{- end}}
    {{- if gt .EventsCreated 0}}
    <li><strong>{{.EventsCreated}}</strong> new {{if eq .EventsCreated 1}}event{{else}}events{{end}} in the community</li>
    {{- end}}
    {{- if gt .NewSignups 0}}
    <li><strong>{{.NewSignups}}</strong> new {{if eq .NewSignups 1}}member{{else}}members{{end}} joined DAP</li>
    {{- end}}
  </ul>
  {{- if gt .TotalMatches 0}}
  <p>You have {{.TotalMatches}} {{if eq .TotalMatches 1}}match{{else}}matches{{end}} in total.</p>
  {{- end}}
  {{- if .UpcomingEvents}}
  <h3>Upcoming events</h3>
  <ul>
    {{- range .UpcomingEvents}}
    <li>{{.Title}} ({{.Date.Format "Jan 2, 15:04"}}) at {{.Location}}</li>
    {{- end}}
  </ul>
  {{- end}}
  <p style="color: #888; font-size: 12px;">You receive this daily summary because you have a DAP account.</p>
</body>
</html>`))

// Render produces the subject line and HTML body for one digest.
func Render(d *Digest) (subject, body string, err error) {
	subject = fmt.Sprintf("Your DAP daily digest for %s", d.From.Format("Jan 2"))

	var buf bytes.Buffer
	if err := emailTemplate.Execute(&buf, d); err != nil {
		return "", "", fmt.Errorf("failed to render digest email: %w", err)
	}
	return subject, buf.String(), nil
}
