// Package export renders record collections into Markdown documents: a YAML
// front-matter block for inline key-paths, structured sections for residual
// ones, per-record file naming, and an export summary.
package export

import "fmt"

// Format names an export document format.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatPDF      Format = "pdf"
	FormatWord     Format = "word"
)

// ParseFormat validates a format string from configuration.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatMarkdown, FormatPDF, FormatWord:
		return Format(s), nil
	case "":
		return FormatMarkdown, nil
	}
	return "", fmt.Errorf("unknown export format %q (want markdown, pdf, or word)", s)
}

// Capability reports whether a format can actually be rendered. Unavailable
// formats carry a reason instead of failing at render time.
type Capability struct {
	Available bool
	Reason    string
}

// Capability probes renderer availability for the format.
func (f Format) Capability() Capability {
	switch f {
	case FormatMarkdown:
		return Capability{Available: true}
	case FormatPDF:
		return Capability{Reason: "pdf rendering is not implemented; export markdown and convert externally"}
	case FormatWord:
		return Capability{Reason: "word rendering is not implemented; export markdown and convert externally"}
	}
	return Capability{Reason: fmt.Sprintf("unknown format %q", string(f))}
}

// Formats lists the known formats in presentation order.
func Formats() []Format {
	return []Format{FormatMarkdown, FormatPDF, FormatWord}
}
