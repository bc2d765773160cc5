// Package extract builds a profiles document from the partner-landscape DOCX
// report: every Heading1 paragraph starts a new ISV section, and the section
// text is mined for partner facts that become question/answer pairs.
package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

const (
	wordNS       = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	documentPart = "word/document.xml"
	headingStyle = "Heading1"
)

// Section is the text between two Heading1 paragraphs.
type Section struct {
	Name    string
	Content string
}

// ReadDocumentXML returns the main document part of the DOCX at path.
func ReadDocumentXML(path string) ([]byte, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open docx %s: %w", path, err)
	}
	defer zr.Close()

	for _, f := range zr.File {
		if f.Name != documentPart {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", documentPart, err)
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}
	return nil, fmt.Errorf("%s not found in %s", documentPart, path)
}

type paragraph struct {
	style string
	text  strings.Builder
}

// ParseSections walks the paragraphs directly under w:body. Paragraph text is
// the concatenation of its w:t runs with whitespace normalised; empty
// paragraphs are ignored and text before the first heading is dropped.
func ParseSections(documentXML []byte) ([]Section, error) {
	dec := xml.NewDecoder(bytes.NewReader(documentXML))

	var (
		stack    []xml.Name
		para     *paragraph
		paraAt   int
		inText   bool
		sections []Section
		current  *Section
	)

	flush := func(p *paragraph) {
		text := normalizeParagraph(p.text.String())
		if text == "" {
			return
		}
		if p.style == headingStyle {
			if current != nil {
				current.Content = strings.TrimSpace(current.Content)
				sections = append(sections, *current)
			}
			current = &Section{Name: text}
			return
		}
		if current == nil {
			return
		}
		if current.Content != "" {
			current.Content += "\n"
		}
		current.Content += text
	}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", documentPart, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			parentIs := func(local string) bool {
				return len(stack) > 0 && stack[len(stack)-1] == xml.Name{Space: wordNS, Local: local}
			}
			switch {
			case t.Name.Space == wordNS && t.Name.Local == "p" && para == nil && parentIs("body"):
				para = &paragraph{}
				paraAt = len(stack)
			case para != nil && t.Name.Space == wordNS && t.Name.Local == "pStyle" && parentIs("pPr") && len(stack) == paraAt+2:
				para.style = attr(t, "val")
			case para != nil && t.Name.Space == wordNS && t.Name.Local == "t":
				inText = true
			}
			stack = append(stack, t.Name)

		case xml.EndElement:
			stack = stack[:len(stack)-1]
			switch {
			case t.Name.Space == wordNS && t.Name.Local == "t":
				inText = false
			case para != nil && len(stack) == paraAt:
				flush(para)
				para = nil
			}

		case xml.CharData:
			if inText && para != nil {
				para.text.Write(t)
			}
		}
	}

	if current != nil {
		current.Content = strings.TrimSpace(current.Content)
		sections = append(sections, *current)
	}
	return sections, nil
}

func attr(el xml.StartElement, local string) string {
	for _, a := range el.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

func normalizeParagraph(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = strings.ReplaceAll(s, "&amp;", "&")
	return strings.Join(strings.Fields(s), " ")
}
