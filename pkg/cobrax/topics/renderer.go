package topics

// Renderer formats topic content for display. The format argument is
// the topic file's extension, including the dot.
type Renderer interface {
	Render(content string, format string) string
}

// PlainRenderer returns content unchanged, whatever the format
type PlainRenderer struct{}

func (r *PlainRenderer) Render(content string, format string) string {
	return content
}
