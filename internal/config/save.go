package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// scalarKeys are the keys SaveValue accepts.
var scalarKeys = []string{
	"debounce_ms",
	"pager",
	"log_limit",
	"ui.show_help_bar",
	"ui.search_lead_in",
	"theme.added",
	"theme.removed",
	"theme.hunk",
	"theme.header",
	"theme.file_header",
	"theme.match",
	"theme.subtle",
	"theme.status_bar",
}

// ScalarKeys lists the dotted keys that SaveValue can set.
func ScalarKeys() []string {
	return slices.Clone(scalarKeys)
}

// SaveValue sets one scalar key (dotted, e.g. "ui.show_help_bar") in the
// config file, creating the file and any missing parent mappings. Comments
// and the rest of the document are preserved by editing the yaml.Node tree.
func SaveValue(configPath, key, value string) error {
	if !slices.Contains(scalarKeys, key) {
		return fmt.Errorf("unknown config key %q", key)
	}

	data, err := os.ReadFile(configPath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reading config: %w", err)
	}

	var doc yaml.Node
	if len(bytes.TrimSpace(data)) > 0 {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("parsing config: %w", err)
		}
	}
	if doc.Kind == 0 {
		doc = yaml.Node{
			Kind:    yaml.DocumentNode,
			Content: []*yaml.Node{{Kind: yaml.MappingNode}},
		}
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return fmt.Errorf("parsing config: top level is not a mapping")
	}

	node := doc.Content[0]
	parts := strings.Split(key, ".")
	for _, part := range parts[:len(parts)-1] {
		child := lookup(node, part)
		if child == nil || child.Kind != yaml.MappingNode {
			child = &yaml.Node{Kind: yaml.MappingNode}
			setKey(node, part, child)
		}
		node = child
	}
	setKey(node, parts[len(parts)-1], scalarNode(value))

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(&doc); err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	_ = encoder.Close()

	return writeAtomic(configPath, buf.Bytes())
}

func lookup(mapping *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			return mapping.Content[i+1]
		}
	}
	return nil
}

// setKey replaces the value of key in mapping, keeping the key's comments,
// or appends the pair.
func setKey(mapping *yaml.Node, key string, value *yaml.Node) {
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			old := mapping.Content[i+1]
			value.LineComment = old.LineComment
			mapping.Content[i+1] = value
			return
		}
	}
	mapping.Content = append(mapping.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Value: key},
		value,
	)
}

// scalarNode keeps numbers and booleans untagged so they decode as such,
// and quotes everything else.
func scalarNode(value string) *yaml.Node {
	n := &yaml.Node{Kind: yaml.ScalarNode, Value: value}
	var probe any
	if err := yaml.Unmarshal([]byte(value), &probe); err == nil {
		switch probe.(type) {
		case int, bool:
			return n
		}
	}
	n.Style = yaml.DoubleQuotedStyle
	return n
}

func writeAtomic(configPath string, data []byte) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	temp, err := os.CreateTemp(dir, ".gitmon.yaml.tmp.*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tempPath := temp.Name()

	if _, err := temp.Write(data); err != nil {
		_ = temp.Close()
		_ = os.Remove(tempPath)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := temp.Close(); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tempPath, configPath); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
