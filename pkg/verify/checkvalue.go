package verify

import "fmt"

// CheckValue recursively compares a desired spec JSON value against a live
// instance JSON value, returning the path of first divergence as an error
// (nil on match). Objects get subset semantics: every key present in spec
// must exist in instance with a recursively matching value, and extra keys
// in instance are ignored. Scalars and arrays get strict equality.
func CheckValue(path string, spec, instance interface{}) error {
	switch s := spec.(type) {
	case map[string]interface{}:
		i, ok := instance.(map[string]interface{})
		if !ok {
			return fmt.Errorf("%s: expected object", path)
		}
		for k, sv := range s {
			iv, present := i[k]
			if !present {
				return fmt.Errorf("%s: missing key %q", path, k)
			}
			if err := CheckValue(childPath(path, k), sv, iv); err != nil {
				return err
			}
		}
		return nil

	case []interface{}:
		i, ok := instance.([]interface{})
		if !ok {
			return fmt.Errorf("%s: expected array", path)
		}
		if len(s) != len(i) {
			return fmt.Errorf("%s: length mismatch", path)
		}
		for idx := range s {
			if err := CheckValue(fmt.Sprintf("%s[%d]", path, idx), s[idx], i[idx]); err != nil {
				return err
			}
		}
		return nil

	case nil:
		if instance != nil {
			return fmt.Errorf("%s: expected null", path)
		}
		return nil

	default:
		// bool, number (float64 after JSON decode), string: strict equality.
		if spec != instance {
			return fmt.Errorf("%s: value mismatch", path)
		}
		return nil
	}
}

func childPath(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}
