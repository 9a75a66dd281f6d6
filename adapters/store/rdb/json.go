package rdb

import (
	"encoding/json"

	utiljson "k8s.io/apimachinery/pkg/util/json"
)

func encodeJSON(v any) (string, error) {
	if v == nil {
		return "", nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// decodeJSON keeps integers as int64 so values survive round trips into templates and manifests.
func decodeJSON(s string, out any) error {
	if s == "" {
		return nil
	}
	return utiljson.Unmarshal([]byte(s), out)
}
