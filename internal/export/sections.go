package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"unicode"

	"github.com/mattn/go-runewidth"

	"github.com/dbsmedya/docsmith/internal/fieldpath"
	"github.com/dbsmedya/docsmith/internal/value"
)

// SectionTitle transforms the last segment of a key-path into a
// human-readable heading: underscores become spaces and each word is
// title-cased. "contact_info" -> "Contact Info".
func SectionTitle(path string) string {
	segs := strings.Split(path, ".")
	last := segs[len(segs)-1]
	words := strings.Fields(strings.ReplaceAll(last, "_", " "))
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

// RenderSection writes one structured section for a residual key-path.
// Mappings render as a two-column key/value table, sequences as a bulleted
// list, strings that hold serialized JSON as a fenced code block, and other
// scalars as plain text. With flatten, nested mappings are flattened to
// dotted paths before tabulation.
func RenderSection(b *strings.Builder, path string, v value.Value, flatten bool) {
	b.WriteString("## ")
	b.WriteString(SectionTitle(path))
	b.WriteString("\n\n")

	switch {
	case v.Kind() == value.KindString && looksLikeJSON(v.Str()):
		writeFencedJSON(b, v.Str())
	case v.Kind() == value.KindMapping:
		writeMappingTable(b, v, flatten)
	case v.Kind() == value.KindSequence:
		writeBullets(b, v)
	default:
		b.WriteString(v.String())
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

// looksLikeJSON reports whether a string holds a serialized JSON object or
// array.
func looksLikeJSON(s string) bool {
	t := strings.TrimSpace(s)
	if len(t) < 2 || (t[0] != '{' && t[0] != '[') {
		return false
	}
	return json.Valid([]byte(t))
}

func writeFencedJSON(b *strings.Builder, raw string) {
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, []byte(strings.TrimSpace(raw)), "", "  "); err != nil {
		pretty.WriteString(raw)
	}
	b.WriteString("```json\n")
	b.WriteString(pretty.String())
	b.WriteString("\n```\n")
}

func writeMappingTable(b *strings.Builder, v value.Value, flatten bool) {
	var rows [][2]string
	if flatten {
		flat := fieldpath.Flatten(v, ".")
		for el := flat.Front(); el != nil; el = el.Next() {
			rows = append(rows, [2]string{el.Key, el.Value.String()})
		}
	} else {
		for _, k := range v.Keys() {
			child, _ := v.Get(k)
			rows = append(rows, [2]string{k, child.String()})
		}
	}
	writeTable(b, [2]string{"Key", "Value"}, rows)
}

func writeBullets(b *strings.Builder, v value.Value) {
	for _, item := range v.Items() {
		b.WriteString("- ")
		b.WriteString(item.String())
		b.WriteString("\n")
	}
}

// writeTable emits an aligned two-column Markdown table. Column widths use
// display width so wide runes line up.
func writeTable(b *strings.Builder, header [2]string, rows [][2]string) {
	widths := [2]int{
		runewidth.StringWidth(header[0]),
		runewidth.StringWidth(header[1]),
	}
	for _, row := range rows {
		for i := 0; i < 2; i++ {
			if w := runewidth.StringWidth(row[i]); w > widths[i] {
				widths[i] = w
			}
		}
	}
	for i := range widths {
		if widths[i] < 3 {
			widths[i] = 3
		}
	}

	writeTableRow(b, header, widths)
	b.WriteString("| ")
	b.WriteString(strings.Repeat("-", widths[0]))
	b.WriteString(" | ")
	b.WriteString(strings.Repeat("-", widths[1]))
	b.WriteString(" |\n")
	for _, row := range rows {
		writeTableRow(b, row, widths)
	}
}

func writeTableRow(b *strings.Builder, cells [2]string, widths [2]int) {
	b.WriteString("| ")
	b.WriteString(runewidth.FillRight(cells[0], widths[0]))
	b.WriteString(" | ")
	b.WriteString(runewidth.FillRight(cells[1], widths[1]))
	b.WriteString(" |\n")
}
