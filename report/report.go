package report

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/trustguard/trustguard/config"
)

// Filename - the name reports are offered for download as.
const Filename = "scam_report.txt"

const reportTemplateBody = `SCAM REPORT
===========

Reference:  {{ .Id }}
Date (UTC): {{ FormatTime .CreatedAt }}

Reported by
-----------
Name:    {{ .Name }}
Contact: {{ .Contact }}

What happened
-------------
{{ Indent .Summary }}

Where to send this report
-------------------------
{{- range .Authorities }}
  - {{ .Value }} ({{ .Type }})
{{- else }}
  - Your local police non-emergency number
{{- end }}
  - Your bank or card issuer, if any money or account details were involved

Remember
--------
{{- range .DoNots }}
  - {{ . }}
{{- end }}
`

var reportTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"FormatTime": func(t time.Time) string {
		return t.UTC().Format("2006-01-02 15:04:05")
	},
	"Indent": func(s string) string {
		lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
		for i, line := range lines {
			lines[i] = strings.TrimRight("  "+line, " \t")
		}
		return strings.Join(lines, "\n")
	},
}).Parse(reportTemplateBody))

// FieldError - a report field was left empty. Nothing is generated.
type FieldError struct {
	Field string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("missing %s", e.Field)
}

type Input struct {
	Name    string
	Contact string
	Summary string
}

type Report struct {
	Id        string
	CreatedAt time.Time
	Text      string
}

// Generate - renders a plain-text scam report which the user can download and send to the listed authorities.
func Generate(input *Input, authorities []config.ReportAuthority) (*Report, error) {
	return generateAt(input, authorities, time.Now())
}

func generateAt(input *Input, authorities []config.ReportAuthority, now time.Time) (*Report, error) {
	if input == nil {
		return nil, &FieldError{Field: "name"}
	}
	fields := []struct {
		name  string
		value string
	}{
		{"name", input.Name},
		{"contact", input.Contact},
		{"summary", input.Summary},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return nil, &FieldError{Field: f.name}
		}
	}

	rep := &Report{
		Id:        newId(now),
		CreatedAt: now.UTC(),
	}
	buf := bytes.NewBuffer(nil)
	err := reportTemplate.Execute(buf, struct {
		Id          string
		CreatedAt   time.Time
		Name        string
		Contact     string
		Summary     string
		Authorities []config.ReportAuthority
		DoNots      []string
	}{
		Id:          rep.Id,
		CreatedAt:   rep.CreatedAt,
		Name:        strings.TrimSpace(input.Name),
		Contact:     strings.TrimSpace(input.Contact),
		Summary:     strings.TrimSpace(input.Summary),
		Authorities: authorities,
		DoNots:      DoNots,
	})
	if err != nil {
		return nil, err
	}
	rep.Text = buf.String()
	return rep, nil
}
