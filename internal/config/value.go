package config

import (
	"fmt"
	"math/big"
	"sort"

	"github.com/zclconf/go-cty/cty"
)

// fromCty converts an HCL-evaluated value to a plain Go value: strings,
// bools, numbers (int64 when exact, float64 otherwise), []any and
// map[string]any. cty.NilVal and null convert to nil.
func fromCty(v cty.Value) (any, error) {
	if v == cty.NilVal || v.IsNull() {
		return nil, nil
	}

	t := v.Type()
	switch {
	case t == cty.String:
		return v.AsString(), nil

	case t == cty.Bool:
		return v.True(), nil

	case t == cty.Number:
		bf := v.AsBigFloat()
		if i, acc := bf.Int64(); acc == big.Exact {
			return i, nil
		}
		f, _ := bf.Float64()
		return f, nil

	case t.IsTupleType() || t.IsListType() || t.IsSetType():
		items := make([]any, 0, v.LengthInt())
		for it := v.ElementIterator(); it.Next(); {
			_, ev := it.Element()
			item, err := fromCty(ev)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		return items, nil

	case t.IsObjectType() || t.IsMapType():
		m := make(map[string]any, v.LengthInt())
		for it := v.ElementIterator(); it.Next(); {
			kv, ev := it.Element()
			item, err := fromCty(ev)
			if err != nil {
				return nil, err
			}
			m[kv.AsString()] = item
		}
		return m, nil
	}

	return nil, fmt.Errorf("unsupported value type %s", t.FriendlyName())
}

// toCty converts a plain Go value back to a cty value for generated
// configuration source. The inverse of fromCty over the value shapes a
// schema default can hold.
func toCty(v any) (cty.Value, error) {
	switch val := v.(type) {
	case nil:
		return cty.NullVal(cty.DynamicPseudoType), nil
	case string:
		return cty.StringVal(val), nil
	case bool:
		return cty.BoolVal(val), nil
	case int:
		return cty.NumberIntVal(int64(val)), nil
	case int64:
		return cty.NumberIntVal(val), nil
	case float64:
		return cty.NumberFloatVal(val), nil
	case []string:
		items := make([]cty.Value, 0, len(val))
		for _, s := range val {
			items = append(items, cty.StringVal(s))
		}
		if len(items) == 0 {
			return cty.EmptyTupleVal, nil
		}
		return cty.TupleVal(items), nil
	case []any:
		if len(val) == 0 {
			return cty.EmptyTupleVal, nil
		}
		items := make([]cty.Value, 0, len(val))
		for _, item := range val {
			cv, err := toCty(item)
			if err != nil {
				return cty.NilVal, err
			}
			items = append(items, cv)
		}
		return cty.TupleVal(items), nil
	case map[string]any:
		if len(val) == 0 {
			return cty.EmptyObjectVal, nil
		}
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		attrs := make(map[string]cty.Value, len(val))
		for _, k := range keys {
			cv, err := toCty(val[k])
			if err != nil {
				return cty.NilVal, err
			}
			attrs[k] = cv
		}
		return cty.ObjectVal(attrs), nil
	}

	return cty.NilVal, fmt.Errorf("unsupported default value type %T", v)
}
