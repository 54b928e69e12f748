package registry

import (
	"fmt"
	"math/big"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// NumberArg decodes the i-th raw argument as a float64. A missing or null
// argument yields def.
func NumberArg(args []cty.Value, i int, def float64) (float64, error) {
	if i >= len(args) || args[i].IsNull() {
		return def, nil
	}
	var f float64
	if err := gocty.FromCtyValue(args[i], &f); err != nil {
		return 0, fmt.Errorf("argument %d: %w", i, err)
	}
	return f, nil
}

// IntArg decodes the i-th raw argument as an int. A missing or null
// argument yields def.
func IntArg(args []cty.Value, i int, def int) (int, error) {
	if i >= len(args) || args[i].IsNull() {
		return def, nil
	}
	var n int
	if err := gocty.FromCtyValue(args[i], &n); err != nil {
		return 0, fmt.Errorf("argument %d: %w", i, err)
	}
	return n, nil
}

// StringArg decodes the i-th raw argument as a string. Numbers and bools
// are rendered in their canonical form. A missing or null argument yields
// def.
func StringArg(args []cty.Value, i int, def string) (string, error) {
	if i >= len(args) || args[i].IsNull() {
		return def, nil
	}
	v := args[i]
	if v.Type() != cty.String {
		native, err := toNative(v)
		if err != nil {
			return "", fmt.Errorf("argument %d: %w", i, err)
		}
		return fmt.Sprint(native), nil
	}
	var s string
	if err := gocty.FromCtyValue(v, &s); err != nil {
		return "", fmt.Errorf("argument %d: %w", i, err)
	}
	return s, nil
}

// ArgsToNative converts raw arguments into plain Go values suitable for a
// translated argument map.
func ArgsToNative(args []cty.Value) ([]any, error) {
	out := make([]any, len(args))
	for i, v := range args {
		native, err := toNative(v)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		out[i] = native
	}
	return out, nil
}

func toNative(v cty.Value) (any, error) {
	if v.IsNull() {
		return nil, nil
	}
	if !v.IsWhollyKnown() {
		return nil, fmt.Errorf("value is not known")
	}

	ty := v.Type()
	switch {
	case ty == cty.String:
		return v.AsString(), nil
	case ty == cty.Bool:
		return v.True(), nil
	case ty == cty.Number:
		bf := v.AsBigFloat()
		if bf.IsInt() {
			if n, acc := bf.Int64(); acc == big.Exact {
				return n, nil
			}
		}
		f, _ := bf.Float64()
		return f, nil
	case ty.IsListType() || ty.IsTupleType() || ty.IsSetType():
		var out []any
		for it := v.ElementIterator(); it.Next(); {
			_, ev := it.Element()
			native, err := toNative(ev)
			if err != nil {
				return nil, err
			}
			out = append(out, native)
		}
		return out, nil
	case ty.IsMapType() || ty.IsObjectType():
		out := make(map[string]any)
		for it := v.ElementIterator(); it.Next(); {
			k, ev := it.Element()
			native, err := toNative(ev)
			if err != nil {
				return nil, err
			}
			out[k.AsString()] = native
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported argument type %s", ty.FriendlyName())
	}
}
