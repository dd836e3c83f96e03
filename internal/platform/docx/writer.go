// Package docx writes export documents as WordprocessingML packages.
//
// Documents start from the godocx default template; the export model's
// paragraphs, styles, margins and core properties are applied on top.
package docx

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/gomutex/godocx"
	godocxpkg "github.com/gomutex/godocx/docx"
	"github.com/gomutex/godocx/wml/ctypes"
	"github.com/gomutex/godocx/wml/stypes"

	"github.com/phrazzld/patientedu/internal/export"
)

// ErrNilDocument is returned when Write is called without a document.
var ErrNilDocument = errors.New("docx: nil document")

// ContentType is the media type of a .docx package.
const ContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

const corePropsPath = "docProps/core.xml"

// A4 in twentieths of a point.
const (
	pageWidth  uint64 = 11906
	pageHeight uint64 = 16838
)

// Writer serialises export documents.
type Writer struct {
	now func() time.Time
}

// NewWriter creates a Writer that stamps documents with the current time.
func NewWriter() *Writer {
	return &Writer{now: time.Now}
}

// Write encodes doc as a .docx package to w. The package is rendered in
// memory first, so nothing is written to w when encoding fails.
func (wr *Writer) Write(w io.Writer, doc *export.Document) error {
	data, err := wr.Encode(doc)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("docx: write package: %w", err)
	}
	return nil
}

// Encode returns doc as a .docx package.
func (wr *Writer) Encode(doc *export.Document) ([]byte, error) {
	if doc == nil {
		return nil, ErrNilDocument
	}

	rd, err := godocx.NewDocument()
	if err != nil {
		return nil, fmt.Errorf("docx: open template: %w", err)
	}

	for _, s := range doc.Styles {
		rd.DocStyles.StyleList = append(rd.DocStyles.StyleList, paragraphStyle(s))
	}
	for _, p := range doc.Paragraphs {
		addParagraph(rd, p)
	}
	setPage(rd, doc.Margins)

	core, err := corePart(doc.Metadata, wr.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("docx: core properties: %w", err)
	}
	rd.FileMap.Store(corePropsPath, core)

	var buf bytes.Buffer
	if err := rd.Write(&buf); err != nil {
		return nil, fmt.Errorf("docx: render package: %w", err)
	}
	return buf.Bytes(), nil
}

func addParagraph(rd *godocxpkg.RootDoc, p export.Paragraph) {
	ct := rd.AddEmptyParagraph().GetCT()

	if p.Style != "" || p.Bidirectional || p.Alignment != "" {
		prop := ctypes.DefaultParaProperty()
		if p.Style != "" {
			prop.Style = ctypes.NewParagraphStyle(p.Style)
		}
		if p.Bidirectional {
			prop.Bidi = &ctypes.OnOff{}
		}
		if p.Alignment != "" {
			prop.Justification = ctypes.NewGenSingleStrVal(justification(p.Alignment))
		}
		ct.Property = prop
	}

	for _, r := range p.Runs {
		run := &ctypes.Run{
			Children: []ctypes.RunChild{{Text: ctypes.TextFromString(r.Text)}},
		}
		if r.Bold || r.RTL {
			rp := &ctypes.RunProperty{}
			if r.Bold {
				rp.Bold = &ctypes.OnOff{}
				rp.BoldCS = &ctypes.OnOff{}
			}
			if r.RTL {
				rp.RightToLeft = &ctypes.OnOff{}
			}
			run.Property = rp
		}
		ct.Children = append(ct.Children, ctypes.ParagraphChild{Run: run})
	}
}

// justification maps a model alignment onto WordprocessingML. "start" has
// no transitional equivalent; in a bidi paragraph "left" is the start edge.
func justification(a export.Alignment) stypes.Justification {
	switch a {
	case export.AlignCenter:
		return stypes.JustificationCenter
	case export.AlignJustified:
		return stypes.JustificationBoth
	default:
		return stypes.JustificationLeft
	}
}

func paragraphStyle(s export.ParagraphStyle) ctypes.Style {
	styleType := stypes.StyleTypeParagraph
	custom := stypes.OnOffTrue
	id := s.ID

	style := ctypes.Style{
		Type:        &styleType,
		ID:          &id,
		CustomStyle: &custom,
		Name:        ctypes.NewCTString(s.Name),
		QFormat:     &ctypes.OnOff{},
	}
	if s.BasedOn != "" {
		style.BasedOn = ctypes.NewCTString(s.BasedOn)
	}
	if s.Next != "" {
		style.Next = ctypes.NewCTString(s.Next)
	}

	rp := &ctypes.RunProperty{}
	if s.Color != "" {
		rp.Color = ctypes.NewColor(s.Color)
	}
	if s.Size > 0 {
		rp.Size = ctypes.NewFontSize(uint64(s.Size))
		rp.SizeCs = ctypes.NewFontSizeCS(uint64(s.Size))
	}
	style.RunProp = rp
	return style
}

func setPage(rd *godocxpkg.RootDoc, m export.Margins) {
	body := rd.Document.Body
	if body.SectPr == nil {
		body.SectPr = ctypes.NewSectionProper()
	}

	width, height := pageWidth, pageHeight
	body.SectPr.PageSize = &ctypes.PageSize{Width: &width, Height: &height}

	top, right, bottom, left := m.Top, m.Right, m.Bottom, m.Left
	header, footer, gutter := 708, 708, 0
	body.SectPr.PageMargin = &ctypes.PageMargin{
		Top: &top, Right: &right, Bottom: &bottom, Left: &left,
		Header: &header, Footer: &footer, Gutter: &gutter,
	}
}

// coreProperties is the docProps/core.xml part. godocx keeps the
// template's copy as raw bytes, so it is replaced wholesale.
type coreProperties struct {
	XMLName     xml.Name `xml:"cp:coreProperties"`
	CP          string   `xml:"xmlns:cp,attr"`
	DC          string   `xml:"xmlns:dc,attr"`
	DCTerms     string   `xml:"xmlns:dcterms,attr"`
	XSI         string   `xml:"xmlns:xsi,attr"`
	Title       string   `xml:"dc:title"`
	Description string   `xml:"dc:description"`
	Creator     string   `xml:"dc:creator"`
	Created     w3cDate  `xml:"dcterms:created"`
	Modified    w3cDate  `xml:"dcterms:modified"`
}

type w3cDate struct {
	Type  string `xml:"xsi:type,attr"`
	Value string `xml:",chardata"`
}

func corePart(meta export.Metadata, created time.Time) ([]byte, error) {
	stamp := w3cDate{Type: "dcterms:W3CDTF", Value: created.Format(time.RFC3339)}
	body, err := xml.Marshal(coreProperties{
		CP:          "http://schemas.openxmlformats.org/package/2006/metadata/core-properties",
		DC:          "http://purl.org/dc/elements/1.1/",
		DCTerms:     "http://purl.org/dc/terms/",
		XSI:         "http://www.w3.org/2001/XMLSchema-instance",
		Title:       meta.Title,
		Description: meta.Description,
		Creator:     meta.Creator,
		Created:     stamp,
		Modified:    stamp,
	})
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), body...), nil
}
