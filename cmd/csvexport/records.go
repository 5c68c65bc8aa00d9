package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/oleg578/csvresult"
)

var errNotSequence = errors.New("input must be a sequence of mappings")

// readRecords decodes a YAML or JSON sequence of mappings. Key order is kept
// and scalars are passed through as written; null becomes an empty cell.
func readRecords(r io.Reader) ([]csvresult.Fields, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse input: %w", err)
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}

	root := resolveAlias(doc.Content[0])
	if root.Kind != yaml.SequenceNode {
		return nil, errNotSequence
	}

	records := make([]csvresult.Fields, 0, len(root.Content))
	for i, item := range root.Content {
		item = resolveAlias(item)
		if item.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("record %d (line %d): %w", i, item.Line, errNotSequence)
		}
		rec := make(csvresult.Fields, 0, len(item.Content)/2)
		for j := 0; j+1 < len(item.Content); j += 2 {
			key := item.Content[j].Value
			val, err := scalarValue(item.Content[j+1])
			if err != nil {
				return nil, fmt.Errorf("record %d, field %q: %w", i, key, err)
			}
			rec = append(rec, csvresult.Field{Name: key, Value: val})
		}
		records = append(records, rec)
	}
	return records, nil
}

func readRecordsFile(path string, stdin io.Reader) ([]csvresult.Fields, error) {
	if path == "" || path == "-" {
		return readRecords(stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readRecords(f)
}

func scalarValue(n *yaml.Node) (any, error) {
	n = resolveAlias(n)
	if n.Kind != yaml.ScalarNode {
		return nil, fmt.Errorf("line %d: nested values are not supported", n.Line)
	}
	if n.ShortTag() == "!!null" {
		return nil, nil
	}
	return n.Value, nil
}

func resolveAlias(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}
