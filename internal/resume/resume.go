// Package resume extracts plain text from an uploaded resume so it can be
// added to the profile analysis prompt.
package resume

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

// Supported MIME types.
const (
	MIMEText = "text/plain"
	MIMEPDF  = "application/pdf"
	MIMEDocx = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// MaxFileSize bounds the files ReadFile accepts.
const MaxFileSize = 10 << 20

// ErrUnsupported is returned for file types with no extractor.
var ErrUnsupported = errors.New("unsupported resume file type")

// ExtractText returns the plain text of a resume of the given MIME type.
func ExtractText(mime string, data []byte) (string, error) {
	var (
		text string
		err  error
	)
	switch mime {
	case MIMEText:
		text = string(data)
	case MIMEPDF:
		text, err = extractPDF(data)
	case MIMEDocx:
		text, err = extractDocx(data)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupported, mime)
	}
	if err != nil {
		return "", err
	}
	return tidy(text), nil
}

// ReadFile extracts text from the resume at path, picking the extractor
// from the file extension.
func ReadFile(path string) (string, error) {
	mime, err := MIMEFromPath(path)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("stat resume: %w", err)
	}
	if info.Size() > MaxFileSize {
		return "", fmt.Errorf("resume %s is larger than %d MB", filepath.Base(path), MaxFileSize>>20)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read resume: %w", err)
	}
	return ExtractText(mime, data)
}

// MIMEFromPath maps a file extension to a supported MIME type.
func MIMEFromPath(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".md", "":
		return MIMEText, nil
	case ".pdf":
		return MIMEPDF, nil
	case ".docx":
		return MIMEDocx, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupported, filepath.Ext(path))
}

func extractPDF(data []byte) (text string, err error) {
	// The pdf reader panics on some malformed content streams.
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("read pdf: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("read pdf: %w", err)
	}
	var b strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("read pdf page %d: %w", i, err)
		}
		b.WriteString(text)
		b.WriteByte('\n')
	}
	return b.String(), nil
}

func extractDocx(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("parse docx: %w", err)
	}
	defer doc.Close()
	return documentText(doc.Editable().GetContent())
}

// documentText collects the character data of a WordprocessingML body,
// one line per paragraph.
func documentText(content string) (string, error) {
	dec := xml.NewDecoder(strings.NewReader(content))
	var b strings.Builder
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("decode docx body: %w", err)
		}
		switch t := tok.(type) {
		case xml.CharData:
			b.Write(t)
		case xml.StartElement:
			if t.Name.Local == "tab" {
				b.WriteByte('\t')
			}
		case xml.EndElement:
			if t.Name.Local == "p" {
				b.WriteByte('\n')
			}
		}
	}
	return b.String(), nil
}

// tidy trims each line and collapses runs of blank lines.
func tidy(text string) string {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, l := range lines {
		l = strings.TrimSpace(l)
		if l == "" {
			if !blank && len(out) > 0 {
				out = append(out, "")
			}
			blank = true
			continue
		}
		blank = false
		out = append(out, l)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
