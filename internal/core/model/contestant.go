package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ID is the canonical contestant/evidence identifier. Upstream records may
// carry numeric or string ids; both are folded into one string form when
// decoded so the engine never compares mixed representations.
type ID string

// CanonicalID normalizes a raw id. Integral numeric forms ("7", "07", "7.0")
// collapse to their decimal representation; anything else is kept trimmed.
func CanonicalID(raw string) ID {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return ID(strconv.FormatInt(i, 10))
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
		if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
			return ID(strconv.FormatInt(int64(f), 10))
		}
		return ID(strconv.FormatFloat(f, 'f', -1, 64))
	}
	return ID(s)
}

func (id ID) String() string { return string(id) }

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("invalid id %s: %w", data, err)
		}
		*id = CanonicalID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid id %s: %w", data, err)
	}
	*id = CanonicalID(n.String())
	return nil
}

func (id *ID) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("invalid id at line %d: expected scalar", node.Line)
	}
	*id = CanonicalID(node.Value)
	return nil
}

// Group is one of the two disjoint contestant categories.
type Group string

const (
	GroupA Group = "men"
	GroupB Group = "women"
)

// ParseGroup maps the spellings used by upstream records onto a Group.
func ParseGroup(s string) (Group, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "men", "man", "mann", "male", "m", "a":
		return GroupA, true
	case "women", "woman", "frau", "female", "w", "f", "b":
		return GroupB, true
	}
	return Group(s), false
}

func (g Group) Valid() bool { return g == GroupA || g == GroupB }

// Other returns the opposite group.
func (g Group) Other() Group {
	if g == GroupA {
		return GroupB
	}
	return GroupA
}

func (g *Group) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("invalid group %s: %w", data, err)
	}
	*g, _ = ParseGroup(s)
	return nil
}

func (g *Group) UnmarshalYAML(node *yaml.Node) error {
	*g, _ = ParseGroup(node.Value)
	return nil
}

type Contestant struct {
	ID    ID     `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Group Group  `json:"gender" yaml:"gender"`
}
