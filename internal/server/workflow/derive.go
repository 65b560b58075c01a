package workflow

import (
	"fmt"
	"path"
	"strings"

	"github.com/goccy/go-json"
)

// DeriveName turns `folder/My-Cool-Flow.json` into `My Cool Flow`.
// Only the extension is stripped and dashes replaced; casing is untouched.
func DeriveName(filePath, ext string) string {
	base := path.Base(filePath)
	base = strings.TrimSuffix(base, ext)
	return strings.ReplaceAll(base, "-", " ")
}

// ExtractNodeTypes parses a workflow document and returns the type of each
// entry of its `nodes` array with the given prefix removed. A document that
// is not valid JSON is an error; a missing or non-array `nodes` is not.
func ExtractNodeTypes(content []byte, prefix string) ([]string, error) {
	var doc any
	if err := json.Unmarshal(content, &doc); err != nil {
		return nil, fmt.Errorf("parse workflow: %w", err)
	}

	types := []string{}

	obj, ok := doc.(map[string]any)
	if !ok {
		return types, nil
	}

	nodes, ok := obj["nodes"].([]any)
	if !ok {
		return types, nil
	}

	for _, n := range nodes {
		var nodeType string
		if node, ok := n.(map[string]any); ok {
			nodeType, _ = node["type"].(string)
		}
		types = append(types, strings.TrimPrefix(nodeType, prefix))
	}

	return types, nil
}
