package matching

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// jsonType classifies a decoded JSON value (decoded with UseNumber so
// integers and floats are not conflated with strings) into one of the six
// JSON types named in spec section 4.C.
func jsonType(v interface{}) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "bool"
	case json.Number:
		return "number"
	case string:
		return "string"
	case []interface{}:
		return "array"
	case map[string]interface{}:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// jsonStringify renders v as a plain string for Regex matching: strings
// pass through verbatim, everything else uses its canonical JSON spelling.
func jsonStringify(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	switch t := v.(type) {
	case nil:
		return "null"
	case bool:
		if t {
			return "true"
		}
		return "false"
	case json.Number:
		return t.String()
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(b)
	}
}

// isDecimalNumber reports whether n's literal JSON spelling carries a
// fraction or exponent (e.g. "100.0", "1e2") rather than being a bare
// integer (e.g. "100"). Equality treats these as different kinds of number,
// so 100 and 100.0 never compare equal even though they share a float64
// value.
func isDecimalNumber(n json.Number) bool {
	return strings.ContainsAny(n.String(), ".eE")
}

// jsonEqual implements native-type equality: values of different JSON types
// never compare equal (spec section 4.C), and within numbers, integral and
// decimal literals never compare equal either -- e.g. the number 100 and
// the string "100" differ by type, and 100 and 100.0 differ by kind.
func jsonEqual(expected, actual interface{}) bool {
	te, ta := jsonType(expected), jsonType(actual)
	if te != ta {
		return false
	}
	switch te {
	case "null":
		return true
	case "bool":
		return expected.(bool) == actual.(bool)
	case "number":
		en, an := expected.(json.Number), actual.(json.Number)
		if isDecimalNumber(en) != isDecimalNumber(an) {
			return false
		}
		ef, aerr := en.Float64()
		af, berr := an.Float64()
		return aerr == nil && berr == nil && ef == af
	case "string":
		return expected.(string) == actual.(string)
	case "array":
		ea := expected.([]interface{})
		aa := actual.([]interface{})
		if len(ea) != len(aa) {
			return false
		}
		for i := range ea {
			if !jsonEqual(ea[i], aa[i]) {
				return false
			}
		}
		return true
	case "object":
		em := expected.(map[string]interface{})
		am := actual.(map[string]interface{})
		if len(em) != len(am) {
			return false
		}
		for k, v := range em {
			av, ok := am[k]
			if !ok || !jsonEqual(v, av) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func jsonArrayLen(v interface{}) (int, bool) {
	a, ok := v.([]interface{})
	if !ok {
		return 0, false
	}
	return len(a), true
}

// decodeJSON decodes raw JSON preserving number precision (json.Number)
// instead of collapsing everything to float64, which matters for the
// native-type Equality rule above.
func decodeJSON(raw []byte) (interface{}, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}
