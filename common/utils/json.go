package utils

import (
	"encoding/json"
)

// JSONMustMarshal is for static structures that cannot fail to marshal.
func JSONMustMarshal(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		panic(err)
	}
	return string(b)
}
