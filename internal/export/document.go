package export

// Alignment is the horizontal alignment of a paragraph.
type Alignment string

// Paragraph alignments, named as in WordprocessingML.
const (
	AlignStart     Alignment = "start"
	AlignCenter    Alignment = "center"
	AlignJustified Alignment = "both"
)

// Paragraph style IDs referenced by generated documents.
const (
	StyleHeader   = "headerStyle"
	StyleHeading1 = "Heading1"
)

// Run is a span of text with uniform formatting.
type Run struct {
	Text string
	Bold bool
	RTL  bool
}

// Paragraph is one block of runs.
type Paragraph struct {
	Runs          []Run
	Alignment     Alignment
	Style         string
	Bidirectional bool
}

// ParagraphStyle is a named style definition. Size is in half-points.
type ParagraphStyle struct {
	ID      string
	Name    string
	BasedOn string
	Next    string
	Size    int
	Color   string
}

// Metadata is written to the document's core properties.
type Metadata struct {
	Creator     string
	Title       string
	Description string
}

// Margins are page margins in twentieths of a point.
type Margins struct {
	Top, Right, Bottom, Left int
}

// Document is a single-section document.
type Document struct {
	Metadata   Metadata
	Margins    Margins
	Styles     []ParagraphStyle
	Paragraphs []Paragraph
}
