package formatter

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDocument() *Document {
	return &Document{
		Title:    "Подрядчики",
		Subtitle: "Статус: approved",
		Sections: []Section{
			{
				Heading: "Анкета #1",
				Lines: []Line{
					{Label: "Город", Value: "Москва"},
					{Label: "Специализация", Value: "Плитка_и *малярка*"},
				},
			},
		},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"pdf", FormatPDF, false},
		{"DOCX", FormatDOCX, false},
		{"md", FormatMarkdown, false},
		{"markdown", FormatMarkdown, false},
		{"xlsx", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMarkdownFormatter(t *testing.T) {
	out, err := NewMarkdownFormatter().Format(sampleDocument())
	require.NoError(t, err)

	text := string(out)
	assert.Contains(t, text, "# Подрядчики\n")
	assert.Contains(t, text, "## Анкета \\#1\n")
	assert.Contains(t, text, "- **Город:** Москва\n")
	assert.Contains(t, text, `Плитка\_и \*малярка\*`)
}

func TestPDFFormatter(t *testing.T) {
	f := NewPDFFormatter()
	out, err := f.Format(sampleDocument())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
	assert.Equal(t, ".pdf", f.FileExtension())
}

func TestFactory(t *testing.T) {
	factory := NewFactory()

	for _, format := range []Format{FormatMarkdown, FormatDOCX, FormatPDF} {
		f, err := factory.Create(format)
		require.NoError(t, err)
		assert.NotEmpty(t, f.ContentType())
	}

	_, err := factory.Create("xlsx")
	require.Error(t, err)
}
