package utils

import (
	"fmt"
	"hash/fnv"
	"io"
	"os"
)

// FileHash returns the FNV-1a hash of a file content, hex encoded.
func FileHash(filePath string) (string, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := fnv.New64a()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}

	return fmt.Sprintf("%x", h.Sum64()), nil
}

func StrHash(all ...string) string {
	h := fnv.New64a()
	for _, s := range all {
		_, _ = io.WriteString(h, s)
	}

	return fmt.Sprintf("%x", h.Sum64())
}

// StrUniqueWithMaxLen returns a best effort readable and unique string given a max size.
// Strings within the limit are returned untouched. Longer strings keep
// (maxLen - 4) chars and gain a dash plus 3 chars of their hash.
// Example: ("totoro", 5) => "t-8bd"
func StrUniqueWithMaxLen(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	hash := StrHash(s)
	if maxLen <= 4 {
		return hash[:maxLen]
	}
	return s[:maxLen-4] + "-" + hash[:3]
}
