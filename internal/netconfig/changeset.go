package netconfig

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/beevik/etree"
	"gopkg.in/yaml.v3"

	"github.com/fabric-control/fcc/internal/xmlconfig"
)

// ChangeSet is the on-disk form of an ordered list of configuration changes.
type ChangeSet struct {
	Changes []Change `yaml:"changes"`
}

// Change holds exactly one configuration object.
type Change struct {
	VLAN *VLAN  `yaml:"vlan,omitempty"`
	Port *Port  `yaml:"port,omitempty"`
	Raw  string `yaml:"raw,omitempty"`
}

// LoadChangeSet decodes a YAML change set into fragments, in file order.
func LoadChangeSet(r io.Reader) ([]xmlconfig.Fragment, error) {
	var cs ChangeSet
	if err := yaml.NewDecoder(r).Decode(&cs); err != nil {
		if errors.Is(err, io.EOF) {
			return []xmlconfig.Fragment{}, nil
		}
		return nil, fmt.Errorf("failed to decode change set: %w", err)
	}
	return cs.Fragments()
}

// LoadChangeSetFile reads a change set from a YAML file.
func LoadChangeSetFile(filename string) ([]xmlconfig.Fragment, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()

	fragments, err := LoadChangeSet(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return fragments, nil
}

// Fragments converts the changes to fragments.
func (cs ChangeSet) Fragments() ([]xmlconfig.Fragment, error) {
	fragments := make([]xmlconfig.Fragment, 0, len(cs.Changes))
	for i, c := range cs.Changes {
		f, err := c.fragment()
		if err != nil {
			return nil, fmt.Errorf("change %d: %w", i, err)
		}
		fragments = append(fragments, f)
	}
	return fragments, nil
}

func (c Change) fragment() (xmlconfig.Fragment, error) {
	set := 0
	if c.VLAN != nil {
		set++
	}
	if c.Port != nil {
		set++
	}
	if c.Raw != "" {
		set++
	}
	if set != 1 {
		return nil, fmt.Errorf("exactly one of vlan, port or raw is required, got %d", set)
	}

	switch {
	case c.VLAN != nil:
		return *c.VLAN, nil
	case c.Port != nil:
		return *c.Port, nil
	default:
		return ParseRaw(c.Raw)
	}
}

// ParseRaw parses an XML snippet into a Node fragment.
func ParseRaw(raw string) (xmlconfig.Node, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(raw); err != nil {
		return xmlconfig.Node{}, fmt.Errorf("invalid raw XML: %w", err)
	}
	root := doc.Root()
	if root == nil {
		return xmlconfig.Node{}, errors.New("raw XML has no element")
	}
	return xmlconfig.NewNode(root), nil
}
