package domain

import (
	"encoding/json"
	"fmt"
	"sort"
)

// ErrorList is the "errors" member of the error envelope. Validation failures
// send an array of messages; other errors send an empty object.
type ErrorList []string

func (l *ErrorList) UnmarshalJSON(data []byte) error {
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch val := v.(type) {
	case nil:
		*l = nil
	case []interface{}:
		out := make(ErrorList, 0, len(val))
		for _, item := range val {
			out = append(out, stringify(item))
		}
		*l = out
	case map[string]interface{}:
		if len(val) == 0 {
			*l = nil
			return nil
		}
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := make(ErrorList, 0, len(keys))
		for _, k := range keys {
			out = append(out, fmt.Sprintf("%s: %s", k, stringify(val[k])))
		}
		*l = out
	default:
		*l = ErrorList{stringify(val)}
	}
	return nil
}

func stringify(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(raw)
}
