package export

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/dbsmedya/docsmith/internal/record"
	"github.com/dbsmedya/docsmith/internal/value"
)

// fallbackFilenameKeys are tried in order when no filename key is configured
// or the configured one resolves to nothing.
var fallbackFilenameKeys = []string{"name", "title", "id", "slug"}

const maxFilenameLength = 255

var (
	illegalFilenameChars = regexp.MustCompile(`[\\/:*?"<>|]`)
	controlChars         = regexp.MustCompile("[\x00-\x1f\x7f]")
)

// Filename derives a base filename (no extension) for a record. The
// configured key is tried first, then the common fallback keys; a record
// yielding nothing falls back to a timestamped index.
func Filename(rec *record.Record, filenameKey string, index int) string {
	var base string
	if filenameKey != "" {
		if v, ok := rec.Get(filenameKey); ok && scalarText(v) != "" {
			base = scalarText(v)
		}
	}
	if base == "" {
		for _, key := range fallbackFilenameKeys {
			if v, ok := rec.Get(key); ok && scalarText(v) != "" {
				base = scalarText(v)
				break
			}
		}
	}
	if base == "" {
		base = fmt.Sprintf("%s_%d", time.Now().Format("20060102_150405"), index+1)
	}
	return SanitizeFilename(base)
}

// scalarText renders a scalar value for use in a filename. Structured values
// make poor filenames and resolve to empty.
func scalarText(v value.Value) string {
	if !v.IsScalar() || v.IsNull() {
		return ""
	}
	return v.String()
}

// SanitizeFilename makes a name safe for cross-platform filesystem use:
// illegal characters become underscores, control characters are dropped, and
// overlong names are truncated preserving the extension.
func SanitizeFilename(name string) string {
	name = illegalFilenameChars.ReplaceAllString(name, "_")
	name = controlChars.ReplaceAllString(name, "")
	name = strings.TrimSpace(name)
	if name == "" {
		return "untitled"
	}
	if len(name) > maxFilenameLength {
		ext := filepath.Ext(name)
		name = name[:maxFilenameLength-len(ext)] + ext
	}
	return name
}

// availablePath returns a path under dir that does not collide with an
// existing file, appending _1, _2, ... as needed.
func availablePath(dir, base, ext string) string {
	path := filepath.Join(dir, base+ext)
	for counter := 1; ; counter++ {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return path
		}
		path = filepath.Join(dir, fmt.Sprintf("%s_%d%s", base, counter, ext))
	}
}
