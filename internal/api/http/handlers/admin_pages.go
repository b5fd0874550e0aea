package handlers

import (
	"bytes"
	"html/template"

	"github.com/gofiber/fiber/v2"
)

var loginTemplate = template.Must(template.New("login").Parse(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>Admin Login</title></head>
<body>
<h1>Admin Login</h1>
{{if .Error}}<p class="error">{{.Error}}</p>{{end}}
<form method="post" action="/api/admin/login">
<input type="hidden" name="next" value="{{.Next}}">
<label>Password <input type="password" name="password" autofocus required></label>
<button type="submit">Sign in</button>
</form>
</body>
</html>
`))

var submissionsTemplate = template.Must(template.New("submissions").Parse(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>Submissions</title></head>
<body>
<h1>Submissions</h1>
<p>{{.Total}} total. <a href="/api/admin/submissions?format=csv">Download CSV</a></p>
{{with .SessionExpires}}<p>Session expires {{.}}.</p>{{end}}
<form method="post" action="/api/admin/logout"><button type="submit">Log out</button></form>
<table>
<thead><tr>{{range .Columns}}<th>{{.}}</th>{{end}}</tr></thead>
<tbody>
{{range .Rows}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
{{else}}<tr><td colspan="{{len .Columns}}">No submissions yet.</td></tr>
{{end}}</tbody>
</table>
</body>
</html>
`))

type loginView struct {
	Next  string
	Error string
}

type submissionsView struct {
	Total          int
	Columns        []string
	Rows           [][]string
	SessionExpires string
}

func renderHTML(c *fiber.Ctx, status int, tmpl *template.Template, data any) error {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	c.Set(fiber.HeaderCacheControl, "no-store")
	return c.Status(status).Send(buf.Bytes())
}
