package utility

import (
	"fmt"
	"strconv"
	"strings"
)

// AnyMap is what yaml.v2 decodes a nested mapping into.
type AnyMap = map[interface{}]interface{}
type StrMap = map[string]interface{}

func AnyToAnyMap(value interface{}) AnyMap {
	switch val := value.(type) {
	case AnyMap:
		return val
	case StrMap:
		if len(val) == 0 {
			return nil
		}
		m := make(AnyMap, len(val))
		for k, v := range val {
			m[k] = v
		}
		return m
	default:
		return nil
	}
}

func AnyToString(value interface{}) string {
	switch val := value.(type) {
	case nil:
		return ""
	case string:
		return val
	case int:
		return strconv.Itoa(val)
	case []byte:
		return string(val)
	case error:
		return val.Error()
	default:
		return fmt.Sprint(value)
	}
}

func AnyToInt64(value interface{}) int64 {
	switch val := value.(type) {
	case int:
		return int64(val)
	case int32:
		return int64(val)
	case int64:
		return val
	case uint:
		return int64(val)
	case uint64:
		return int64(val)
	case float64:
		return int64(val)
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(val), 10, 64)
		if err != nil {
			return 0
		}
		return i
	default:
		return 0
	}
}

// AnyToBool treats strings starting with y, t or 1 as true.
func AnyToBool(value interface{}) bool {
	switch val := value.(type) {
	case bool:
		return val
	case int:
		return val != 0
	case int64:
		return val != 0
	case float64:
		return val != 0
	case string:
		if val == "" {
			return false
		}
		c := strings.ToLower(val[0:1])
		return c == "y" || c == "t" || c == "1"
	default:
		return false
	}
}

func StringSliceContains(slice []string, str string) bool {
	for _, item := range slice {
		if item == str {
			return true
		}
	}
	return false
}
