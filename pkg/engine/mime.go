package engine

type MimeType string

const (
	MimeHTML       MimeType = "text/html"
	MimeCSS        MimeType = "text/css"
	MimeJavaScript MimeType = "application/javascript"
)

// Extension is the file extension used for linked resources of this type.
func (m MimeType) Extension() string {
	switch m {
	case MimeHTML:
		return ".html"
	case MimeCSS:
		return ".css"
	case MimeJavaScript:
		return ".js"
	}
	return ""
}
