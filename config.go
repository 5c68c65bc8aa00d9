package csvresult

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadDialect reads a YAML dialect document from path. See ParseDialect.
func LoadDialect(path string) (*Dialect, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("csvresult: read dialect %s: %w", path, err)
	}
	return ParseDialect(data)
}

// ParseDialect starts from DefaultDialect and applies the settings found in
// a YAML mapping:
//
//	delimiter: ";"
//	line_terminator: "\n"
//	content_type: text/csv
//	file_download_name: books.csv
//	emit_headers: true
//	space_out_header_words: false
//	quote_all_values: false
//	quote_when_needed: false
//
// Missing keys keep their defaults. A null delimiter or line terminator and
// unknown keys are rejected with a *ConfigError.
func ParseDialect(data []byte) (*Dialect, error) {
	d := DefaultDialect()

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("csvresult: parse dialect: %w", err)
	}
	if len(doc.Content) == 0 {
		return d, nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, &ConfigError{Field: "Dialect", Value: root.Value, Reason: "must be a mapping"}
	}
	for i := 0; i+1 < len(root.Content); i += 2 {
		if err := applySetting(d, root.Content[i].Value, root.Content[i+1]); err != nil {
			return nil, err
		}
	}
	return d, nil
}

func applySetting(d *Dialect, key string, val *yaml.Node) error {
	switch key {
	case "delimiter":
		s, err := decodeString("Delimiter", val)
		if err != nil {
			return err
		}
		d.SetDelimiter(s)
	case "line_terminator":
		s, err := decodeString("LineTerminator", val)
		if err != nil {
			return err
		}
		d.SetLineTerminator(s)
	case "content_type":
		s, err := decodeString("ContentType", val)
		if err != nil {
			return err
		}
		return d.SetContentType(s)
	case "file_download_name":
		if isNull(val) {
			d.SetFileDownloadName("")
			return nil
		}
		s, err := decodeString("FileDownloadName", val)
		if err != nil {
			return err
		}
		d.SetFileDownloadName(s)
	case "emit_headers":
		b, err := decodeBool("EmitHeaders", val)
		if err != nil {
			return err
		}
		d.SetEmitHeaders(b)
	case "space_out_header_words":
		b, err := decodeBool("SpaceOutHeaderWords", val)
		if err != nil {
			return err
		}
		d.SetSpaceOutHeaderWords(b)
	case "quote_all_values":
		b, err := decodeBool("QuoteAllValues", val)
		if err != nil {
			return err
		}
		d.SetQuoteAllValues(b)
	case "quote_when_needed":
		b, err := decodeBool("QuoteWhenNeeded", val)
		if err != nil {
			return err
		}
		d.SetQuoteWhenNeeded(b)
	default:
		return &ConfigError{Field: key, Value: val.Value, Reason: "unknown dialect setting"}
	}
	return nil
}

func isNull(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.ShortTag() == "!!null"
}

func decodeString(field string, n *yaml.Node) (string, error) {
	if isNull(n) {
		return "", &ConfigError{Field: field, Value: "null", Reason: "must not be null"}
	}
	if n.Kind != yaml.ScalarNode {
		return "", &ConfigError{Field: field, Value: n.Value, Reason: "must be a string"}
	}
	return n.Value, nil
}

func decodeBool(field string, n *yaml.Node) (bool, error) {
	var b bool
	if n.Kind != yaml.ScalarNode || n.ShortTag() != "!!bool" {
		return false, &ConfigError{Field: field, Value: n.Value, Reason: "must be true or false"}
	}
	if err := n.Decode(&b); err != nil {
		return false, &ConfigError{Field: field, Value: n.Value, Reason: err.Error()}
	}
	return b, nil
}
