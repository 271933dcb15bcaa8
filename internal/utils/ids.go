package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Catalog entities are addressed by composite key (malcode, table, column).
// Their synthetic IDs are a stable hash of the normalized key, so an ID can be
// recomputed from the key anywhere without a reverse lookup table.

func normalize(parts ...string) string {
	lowered := make([]string, len(parts))
	for i, p := range parts {
		lowered[i] = strings.ToLower(strings.TrimSpace(p))
	}
	return strings.Join(lowered, "|")
}

func keyHash(parts ...string) string {
	sum := sha256.Sum256([]byte(normalize(parts...)))
	return hex.EncodeToString(sum[:])[:16]
}

func MalcodeID(malcode string) string {
	return "malcode_" + keyHash(malcode)
}

func TableID(malcode, tableName string) string {
	return "table_" + keyHash(malcode, tableName)
}

func ColumnID(malcode, tableName, columnName string) string {
	return "column_" + keyHash(malcode, tableName, columnName)
}
