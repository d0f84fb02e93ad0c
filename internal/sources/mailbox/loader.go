package mailbox

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Loader reads the mailbox file. JSON files load as-is since YAML is a superset.
type Loader struct {
	filePath string
}

// NewLoader creates a new mailbox loader
func NewLoader(filePath string) *Loader {
	return &Loader{
		filePath: filePath,
	}
}

// Path returns the file the loader reads
func (l *Loader) Path() string {
	return l.filePath
}

// Load reads and parses the mailbox file. The top level is either a list of
// records or a mapping with the list under "emails".
func (l *Loader) Load() ([]Record, error) {
	data, err := os.ReadFile(l.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read mailbox file: %w", err)
	}
	return Parse(data)
}

// Parse decodes mailbox file content
func Parse(data []byte) ([]Record, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed to parse mailbox file: %w", err)
	}
	if len(root.Content) == 0 {
		return nil, errors.New("mailbox file is empty")
	}

	doc := root.Content[0]
	switch doc.Kind {
	case yaml.SequenceNode:
		var records []Record
		if err := doc.Decode(&records); err != nil {
			return nil, fmt.Errorf("failed to decode mailbox records: %w", err)
		}
		return records, nil
	case yaml.MappingNode:
		var w wrapped
		if err := doc.Decode(&w); err != nil {
			return nil, fmt.Errorf("failed to decode mailbox records: %w", err)
		}
		return w.Emails, nil
	default:
		return nil, fmt.Errorf("unexpected mailbox layout at line %d", doc.Line)
	}
}
