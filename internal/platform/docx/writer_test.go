package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/patientedu/internal/export"
)

func readParts(t *testing.T, data []byte) map[string]string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	parts := make(map[string]string, len(zr.File))
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		body, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		parts[f.Name] = string(body)
	}
	return parts
}

func newTestWriter() *Writer {
	return &Writer{now: func() time.Time { return time.Date(2024, 5, 1, 8, 30, 0, 0, time.UTC) }}
}

type parsedRun struct {
	Text      string
	Bold, RTL bool
}

type parsedParagraph struct {
	Style, Justification string
	Bidi                 bool
	Runs                 []parsedRun
}

// parseBody walks word/document.xml and collects paragraph and run
// properties by local element name.
func parseBody(t *testing.T, body string) []parsedParagraph {
	t.Helper()
	dec := xml.NewDecoder(strings.NewReader(body))

	var (
		paras  []parsedParagraph
		para   *parsedParagraph
		run    *parsedRun
		inText bool
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)

		switch el := tok.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "p":
				paras = append(paras, parsedParagraph{})
				para = &paras[len(paras)-1]
			case "pStyle":
				para.Style = attr(el, "val")
			case "jc":
				para.Justification = attr(el, "val")
			case "bidi":
				para.Bidi = true
			case "r":
				para.Runs = append(para.Runs, parsedRun{})
				run = &para.Runs[len(para.Runs)-1]
			case "b":
				run.Bold = true
			case "rtl":
				run.RTL = true
			case "t":
				inText = true
			}
		case xml.CharData:
			if inText {
				run.Text += string(el)
			}
		case xml.EndElement:
			if el.Name.Local == "t" {
				inText = false
			}
		}
	}
	return paras
}

func attr(el xml.StartElement, local string) string {
	for _, a := range el.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

func TestWriter_Encode(t *testing.T) {
	doc := export.ToDocument(export.DefaultOptions(), "Heart <Failure>", "Take **two** tablets\n")

	data, err := newTestWriter().Encode(doc)
	require.NoError(t, err)

	parts := readParts(t, data)
	for _, name := range []string{
		"[Content_Types].xml", "_rels/.rels", "word/_rels/document.xml.rels",
		"word/document.xml", "word/styles.xml", "docProps/core.xml",
	} {
		assert.Contains(t, parts, name)
	}

	paras := parseBody(t, parts["word/document.xml"])
	require.Len(t, paras, len(doc.Paragraphs))

	header := paras[0]
	assert.Equal(t, export.StyleHeader, header.Style)
	assert.Equal(t, "center", header.Justification)
	require.Len(t, header.Runs, 1)
	assert.Equal(t, export.DefaultSystemTitle, header.Runs[0].Text)

	heading := paras[1]
	assert.Equal(t, export.StyleHeading1, heading.Style)
	assert.True(t, heading.Bidi)
	assert.Equal(t, "center", heading.Justification)
	assert.Equal(t, "Heart <Failure>", heading.Runs[0].Text, "text survives escaping")

	line := paras[3]
	assert.Equal(t, "both", line.Justification)
	assert.Equal(t, []parsedRun{
		{Text: "Take ", RTL: true},
		{Text: "two", Bold: true, RTL: true},
		{Text: " tablets", RTL: true},
	}, line.Runs)

	body := parts["word/document.xml"]
	for _, margin := range []string{`w:top="720"`, `w:right="720"`, `w:bottom="720"`, `w:left="720"`} {
		assert.Contains(t, body, margin)
	}
	assert.Contains(t, body, `w:w="11906"`)

	styles := parts["word/styles.xml"]
	assert.Contains(t, styles, `w:styleId="headerStyle"`)
	assert.Contains(t, styles, `w:val="888888"`)

	core := parts["docProps/core.xml"]
	assert.Contains(t, core, "<dc:creator>Patient Education System</dc:creator>")
	assert.Contains(t, core, "<dc:description>Educational material for Heart &lt;Failure&gt;</dc:description>")
	assert.Contains(t, core, "2024-05-01T08:30:00Z")
	assert.NotContains(t, core, "godocx", "template properties are replaced")
}

func TestWriter_NilDocument(t *testing.T) {
	var buf bytes.Buffer

	err := NewWriter().Write(&buf, nil)

	assert.ErrorIs(t, err, ErrNilDocument)
	assert.Zero(t, buf.Len())
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) { return 0, errors.New("disk full") }

func TestWriter_WriteFailure(t *testing.T) {
	doc := export.ToDocument(export.DefaultOptions(), "Angina", "")

	err := newTestWriter().Write(failingWriter{}, doc)

	assert.ErrorContains(t, err, "disk full")
}
