package view

import (
	"bytes"
	"html/template"
)

// LinkPageData provides the dynamic fields for the successful-resolution page.
type LinkPageData struct {
	Title string
	Link  string
}

var linkPageTmpl = template.Must(template.New("link_page").Parse(`
<!DOCTYPE html>
<html lang="en">
<head>
	<meta charset="utf-8" />
	<meta name="viewport" content="width=device-width, initial-scale=1" />
	<title>{{if .Title}}{{.Title}}{{else}}Your link{{end}}</title>
	<style>
		body {
			font-family: Arial, sans-serif;
			display: flex;
			justify-content: center;
			align-items: center;
			height: 100vh;
			margin: 0;
			background-color: #f7f9fc;
		}
		.container {
			text-align: center;
			background: #fff;
			padding: 20px;
			box-shadow: 0 2px 4px rgba(0, 0, 0, 0.1);
			border-radius: 8px;
		}
		.link {
			font-size: 20px;
			color: #007BFF;
			text-decoration: none;
			display: inline-block;
			margin-top: 20px;
			padding: 10px 20px;
			border: 1px solid #007BFF;
			border-radius: 5px;
			transition: background-color 0.3s, color 0.3s;
			word-break: break-all;
		}
		.link:hover {
			background-color: #007BFF;
			color: #fff;
		}
	</style>
</head>
<body>
	<div class="container">
		<p>Your link:</p>
		<a class="link" href="{{.Link}}" target="_top">{{.Link}}</a>
	</div>
</body>
</html>
`))

var messagePageTmpl = template.Must(template.New("message_page").Parse(`
<!DOCTYPE html>
<html lang="en">
<head>
	<meta charset="utf-8" />
	<meta name="viewport" content="width=device-width, initial-scale=1" />
	<title>QR Code Link</title>
	<style>
		body {
			font-family: Arial, sans-serif;
			display: flex;
			justify-content: center;
			align-items: center;
			height: 100vh;
			margin: 0;
			background-color: #f7f9fc;
		}
		.container {
			text-align: center;
			background: #fff;
			padding: 20px;
			box-shadow: 0 2px 4px rgba(0, 0, 0, 0.1);
			border-radius: 8px;
			color: #333;
		}
	</style>
</head>
<body>
	<div class="container">
		<p>{{.Message}}</p>
	</div>
</body>
</html>
`))

// RenderLinkPage expands the success page with the resolved destination as a
// clickable target.
func RenderLinkPage(data LinkPageData) (string, error) {
	if data.Title == "" {
		data.Title = "Your link"
	}
	var buf bytes.Buffer
	if err := linkPageTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderMessagePage expands the generic message page used for every
// non-success outcome.
func RenderMessagePage(message string) (string, error) {
	var buf bytes.Buffer
	if err := messagePageTmpl.Execute(&buf, struct{ Message string }{Message: message}); err != nil {
		return "", err
	}
	return buf.String(), nil
}
