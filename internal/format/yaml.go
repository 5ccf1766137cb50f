package format

import (
	"fmt"
	"regexp"
	"strconv"

	koanfyaml "github.com/knadh/koanf/parsers/yaml"
	"gopkg.in/yaml.v3"
)

var yamlLine = regexp.MustCompile(`line (\d+)`)

// DecodeYAML parses a YAML mapping document.
func DecodeYAML(data []byte) (map[string]any, error) {
	out, err := koanfyaml.Parser().Unmarshal(data)
	if err != nil {
		se := &SyntaxError{Msg: err.Error()}
		if m := yamlLine.FindStringSubmatch(err.Error()); m != nil {
			se.Line, _ = strconv.Atoi(m[1])
		}
		return nil, se
	}
	if out == nil {
		out = map[string]any{}
	}
	return Normalize(out).(map[string]any), nil
}

// EncodeYAML writes doc as a YAML mapping with keys in document order.
// Nested maps are emitted with sorted keys.
func EncodeYAML(doc Document) ([]byte, error) {
	root := &yaml.Node{Kind: yaml.MappingNode}
	for _, f := range doc {
		key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: f.Key}
		val := &yaml.Node{}
		if err := val.Encode(jsonValue(f.Value)); err != nil {
			return nil, fmt.Errorf("encoding %s: %w", f.Key, err)
		}
		root.Content = append(root.Content, key, val)
	}
	return yaml.Marshal(&yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{root}})
}
