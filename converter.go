package evidmap

// Converter converts HTML to Markdown. Used to turn fetched reference
// pages into text an LLM can consume.
type Converter interface {
	// Convert transforms HTML content into Markdown.
	Convert(html string) (string, error)
}
