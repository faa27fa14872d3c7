package spec

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/Ftibw/mongo-modelgen/internal/common"
)

// --- StringOrArray YAML methods ---

// UnmarshalYAML accepts either a single string or an array of strings.
func (s *StringOrArray) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var str string
		if err := node.Decode(&str); err != nil {
			return err
		}

		if str != "" {
			*s = StringOrArray{str}
		} else {
			*s = StringOrArray{}
		}

		return nil

	case yaml.SequenceNode:
		var arr []string
		if err := node.Decode(&arr); err != nil {
			return err
		}

		*s = arr

		return nil

	default:
		return fmt.Errorf("expected string or array, got %v", node.Kind)
	}
}

// MarshalYAML outputs a single string if length is 1, otherwise an array.
func (s StringOrArray) MarshalYAML() (any, error) {
	if common.IsSingle(s) {
		return s[0], nil
	}

	return []string(s), nil
}

// --- Rule YAML methods ---

var errEmptyRule = errors.New("rule must name a kind")

// UnmarshalYAML accepts three spellings of a rule:
//   - "NotBlank"
//   - [Size, "size must be 1..20", "1", "20"]   (kind, message, options...)
//   - {kind: Size, msg: ..., opts: ["1", "20"]}
func (r *Rule) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var kind string
		if err := node.Decode(&kind); err != nil {
			return err
		}

		if kind == "" {
			return errEmptyRule
		}

		*r = Rule{Kind: kind}

		return nil

	case yaml.SequenceNode:
		var parts []string
		if err := node.Decode(&parts); err != nil {
			return err
		}

		if len(parts) == 0 || parts[0] == "" {
			return errEmptyRule
		}

		*r = Rule{Kind: parts[0]}
		if len(parts) > 1 {
			r.Msg = parts[1]
		}

		if len(parts) > 2 {
			r.Opts = parts[2:]
		}

		return nil

	case yaml.MappingNode:
		type plain Rule

		var p plain
		if err := node.Decode(&p); err != nil {
			return err
		}

		if p.Kind == "" {
			return errEmptyRule
		}

		*r = Rule(p)

		return nil

	default:
		return fmt.Errorf("expected rule as string, sequence or mapping, got %v", node.Kind)
	}
}
