package formatter

import (
	"bytes"
	"fmt"
	"strings"
)

const (
	markdownContentType   = "text/markdown; charset=utf-8"
	markdownFileExtension = ".md"
)

var markdownEscaper = strings.NewReplacer(`\`, `\\`, "*", `\*`, "_", `\_`, "`", "\\`", "#", `\#`)

type MarkdownFormatter struct{}

func NewMarkdownFormatter() *MarkdownFormatter {
	return &MarkdownFormatter{}
}

func (mf *MarkdownFormatter) Format(doc *Document) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# %s\n\n", markdownEscaper.Replace(doc.Title))
	if doc.Subtitle != "" {
		fmt.Fprintf(&buf, "%s\n\n", markdownEscaper.Replace(doc.Subtitle))
	}

	for _, section := range doc.Sections {
		fmt.Fprintf(&buf, "## %s\n\n", markdownEscaper.Replace(section.Heading))
		for _, line := range section.Lines {
			value := strings.ReplaceAll(markdownEscaper.Replace(line.Value), "\n", "  \n  ")
			fmt.Fprintf(&buf, "- **%s:** %s\n", markdownEscaper.Replace(line.Label), value)
		}
		buf.WriteString("\n")
	}

	return buf.Bytes(), nil
}

func (mf *MarkdownFormatter) ContentType() string {
	return markdownContentType
}

func (mf *MarkdownFormatter) FileExtension() string {
	return markdownFileExtension
}
