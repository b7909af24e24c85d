package payload

import (
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Variables is an ordered set of substitution values addressed by name.
// A variable NAME is referenced from a template as the token ${NAME}.
type Variables struct {
	values *orderedmap.OrderedMap[string, string]
}

// NewVariables creates an empty variable set
func NewVariables() *Variables {
	return &Variables{values: orderedmap.New[string, string]()}
}

// Set assigns value to name.
func (v *Variables) Set(name, value string) *Variables {
	v.values.Set(name, value)
	return v
}

// Token returns the placeholder that refers to name.
func Token(name string) string {
	return "${" + name + "}"
}

func (v *Variables) replacer() *strings.Replacer {
	oldnew := make([]string, 0, 2*v.values.Len())
	for pair := v.values.Oldest(); pair != nil; pair = pair.Next() {
		oldnew = append(oldnew, Token(pair.Key), pair.Value)
	}
	return strings.NewReplacer(oldnew...)
}

// Substitute returns a copy of node where every ${NAME} token in a string
// leaf is replaced by the value of NAME. Each string is scanned once, so
// tokens that appear inside substituted values are not expanded again.
// Tokens naming unknown variables are left as they are.
func Substitute(node Node, vars *Variables) Node {
	if vars == nil {
		vars = NewVariables()
	}
	return substitute(node, vars.replacer())
}

func substitute(node Node, r *strings.Replacer) Node {
	switch n := node.(type) {
	case String:
		return String(r.Replace(string(n)))
	case Sequence:
		out := make(Sequence, len(n))
		for i, item := range n {
			out[i] = substitute(item, r)
		}
		return out
	case *Mapping:
		out := NewMapping()
		_ = n.Each(func(key string, value Node) error {
			out.Set(key, substitute(value, r))
			return nil
		})
		return out
	default:
		return node
	}
}
