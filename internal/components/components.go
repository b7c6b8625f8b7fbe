// Package components holds the HTML components the app renders. The markup
// lives in components.templ; run `templ generate` after editing it.
package components

const (
	UploadField = "uploaded_file"
	ChartCanvas = "performance"
)
