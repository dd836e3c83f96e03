package export

import (
	"regexp"
	"strings"
)

// Defaults for generated documents.
const (
	DefaultSystemTitle = "سامانه آموزش به بیمار"
	DefaultCreator     = "Patient Education System"

	pageMargin      = 720
	headerStyleSize = 20
	headerColor     = "888888"
)

// boldSpan matches **text** lazily: an opening marker pairs with the
// nearest following one.
var boldSpan = regexp.MustCompile(`\*\*(.*?)\*\*`)

var filenameReplacer = strings.NewReplacer(
	"/", "-", `\`, "-", "?", "-", "%", "-", "*", "-",
	":", "-", "|", "-", `"`, "-", "<", "-", ">", "-",
)

// Options carries the fixed texts written into every document.
type Options struct {
	SystemTitle string
	Creator     string
}

// DefaultOptions returns the options used when none are configured.
func DefaultOptions() Options {
	return Options{SystemTitle: DefaultSystemTitle, Creator: DefaultCreator}
}

// ToDocument builds the export document of a disease. It never fails.
func ToDocument(opts Options, diseaseName, description string) *Document {
	if opts.SystemTitle == "" {
		opts.SystemTitle = DefaultSystemTitle
	}
	if opts.Creator == "" {
		opts.Creator = DefaultCreator
	}

	lines := strings.Split(description, "\n")
	paragraphs := make([]Paragraph, 0, len(lines)+3)
	paragraphs = append(paragraphs,
		Paragraph{
			Runs:      []Run{{Text: opts.SystemTitle}},
			Alignment: AlignCenter,
			Style:     StyleHeader,
		},
		Paragraph{
			Runs:          []Run{{Text: diseaseName}},
			Alignment:     AlignCenter,
			Style:         StyleHeading1,
			Bidirectional: true,
		},
		Paragraph{Runs: []Run{{Text: ""}}},
	)
	for _, line := range lines {
		paragraphs = append(paragraphs, Paragraph{
			Runs:      ParseLine(line),
			Alignment: AlignJustified,
		})
	}

	return &Document{
		Metadata: Metadata{
			Creator:     opts.Creator,
			Title:       diseaseName,
			Description: "Educational material for " + diseaseName,
		},
		Margins: Margins{Top: pageMargin, Right: pageMargin, Bottom: pageMargin, Left: pageMargin},
		Styles: []ParagraphStyle{{
			ID:      StyleHeader,
			Name:    "Header Style",
			BasedOn: "Normal",
			Next:    "Normal",
			Size:    headerStyleSize,
			Color:   headerColor,
		}},
		Paragraphs: paragraphs,
	}
}

// ParseLine splits one line of description markup into runs. Text between
// a pair of ** markers is bold; everything else is literal, including an
// unpaired marker. An empty line yields a single empty run.
func ParseLine(line string) []Run {
	line = strings.TrimSuffix(line, "\r")

	var runs []Run
	last := 0
	for _, m := range boldSpan.FindAllStringSubmatchIndex(line, -1) {
		if m[0] > last {
			runs = append(runs, Run{Text: line[last:m[0]], RTL: true})
		}
		runs = append(runs, Run{Text: line[m[2]:m[3]], Bold: true, RTL: true})
		last = m[1]
	}
	if last < len(line) {
		runs = append(runs, Run{Text: line[last:], RTL: true})
	}

	if len(runs) == 0 {
		return []Run{{Text: "", RTL: true}}
	}
	return runs
}

// SafeFilename returns the download name of an exported document.
func SafeFilename(name string) string {
	return filenameReplacer.Replace(name) + ".docx"
}
