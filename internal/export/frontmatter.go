package export

import (
	"encoding/json"
	"fmt"
	"sort"

	orderedmap "github.com/elliotchance/orderedmap/v2"
	"gopkg.in/yaml.v3"

	"github.com/dbsmedya/docsmith/internal/value"
)

// FrontMatter serializes the inline key-paths as a metadata block delimited
// by two lines of exactly "---". Keys are emitted in sorted order so the
// block is stable across runs. With jsonFallback the same content is
// serialized as indented JSON inside the same delimiters. An empty inline
// set yields an empty block.
func FrontMatter(inline *orderedmap.OrderedMap[string, value.Value], jsonFallback bool) (string, error) {
	if inline == nil || inline.Len() == 0 {
		return "---\n---\n", nil
	}

	keys := make([]string, 0, inline.Len())
	for el := inline.Front(); el != nil; el = el.Next() {
		keys = append(keys, el.Key)
	}
	sort.Strings(keys)

	if jsonFallback {
		payload := make(map[string]any, len(keys))
		for _, k := range keys {
			v, _ := inline.Get(k)
			payload[k] = v.Interface()
		}
		// encoding/json already emits map keys in sorted order.
		out, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return "", fmt.Errorf("front matter json: %w", err)
		}
		return "---\n" + string(out) + "\n---\n", nil
	}

	// Build an explicit mapping node so key order is ours, not the
	// marshaler's.
	doc := &yaml.Node{Kind: yaml.MappingNode}
	for _, k := range keys {
		v, _ := inline.Get(k)

		var valNode yaml.Node
		if err := valNode.Encode(v.Interface()); err != nil {
			return "", fmt.Errorf("front matter yaml (%s): %w", k, err)
		}
		doc.Content = append(doc.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: k},
			&valNode,
		)
	}

	out, err := yaml.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("front matter yaml: %w", err)
	}
	return "---\n" + string(out) + "---\n", nil
}
