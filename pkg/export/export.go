// Package export converts a rendered document into its serialized output
// formats.
package export

import (
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"codedoc/pkg/render"
	"codedoc/pkg/version"
)

// Format selects the output serialization.
type Format int

const (
	Text Format = iota
	Markdown
	XML
)

// ParseFormat maps a user-supplied format name to a Format.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "text", "txt", "plain":
		return Text, nil
	case "markdown", "md", "":
		return Markdown, nil
	case "xml":
		return XML, nil
	default:
		return Markdown, fmt.Errorf("unknown output format %q (want text, markdown or xml)", name)
	}
}

// Output is one serialized document plus its delivery hints.
type Output struct {
	Data        []byte
	ContentType string
	Filename    string
}

type xmlMetadata struct {
	Name        string `xml:"name"`
	GeneratedAt string `xml:"generatedAt"`
	Generator   string `xml:"generator"`
}

type xmlProject struct {
	XMLName  xml.Name    `xml:"project"`
	Metadata xmlMetadata `xml:"metadata"`
	Content  string      `xml:"content"`
}

// ToFormat serializes the document. Text and Markdown pass the rendered text
// through untouched; XML wraps it in a project envelope with metadata, with
// the content sanitized so the result is always well-formed.
func ToFormat(doc render.Document, format Format) (Output, error) {
	switch format {
	case Text:
		return Output{
			Data:        []byte(doc.MarkdownText),
			ContentType: "text/plain",
			Filename:    suggestedFilename(doc.ProjectName, "txt"),
		}, nil
	case Markdown:
		return Output{
			Data:        []byte(doc.MarkdownText),
			ContentType: "text/markdown",
			Filename:    suggestedFilename(doc.ProjectName, "md"),
		}, nil
	case XML:
		envelope := xmlProject{
			Metadata: xmlMetadata{
				Name:        SanitizeXML(doc.ProjectName),
				GeneratedAt: doc.GeneratedAt.UTC().Format(time.RFC3339),
				Generator:   "codedoc " + version.Get().Version,
			},
			Content: SanitizeXML(doc.MarkdownText),
		}
		body, err := xml.MarshalIndent(envelope, "", "  ")
		if err != nil {
			return Output{}, fmt.Errorf("failed to marshal XML export: %w", err)
		}
		return Output{
			Data:        []byte(xml.Header + string(body) + "\n"),
			ContentType: "application/xml",
			Filename:    suggestedFilename(doc.ProjectName, "xml"),
		}, nil
	default:
		return Output{}, fmt.Errorf("unsupported export format %d", format)
	}
}

func suggestedFilename(projectName, ext string) string {
	return fmt.Sprintf("%s_documentation.%s", projectName, ext)
}

// SanitizeXML strips code points that cannot appear in an XML 1.0 document:
// control characters other than tab, newline and carriage return, and the
// surrogate/noncharacter ranges. Markup-significant characters are left for
// the serializer to escape. Sanitizing already-sanitized text is a no-op.
func SanitizeXML(s string) string {
	if !strings.ContainsFunc(s, isXMLInvalid) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if !isXMLInvalid(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isXMLInvalid(r rune) bool {
	switch {
	case r == '\t' || r == '\n' || r == '\r':
		return false
	case r < 0x20:
		return true
	case r >= 0xD800 && r <= 0xDFFF:
		return true
	case r == 0xFFFE || r == 0xFFFF:
		return true
	case r > 0x10FFFF:
		return true
	default:
		return false
	}
}
