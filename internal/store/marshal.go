package store

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/roach88/cimtab/internal/cim"
)

// marshalNames converts a column list to canonical JSON TEXT for storage.
func marshalNames(names []string) (string, error) {
	if names == nil {
		names = []string{}
	}
	data, err := cim.MarshalCanonical(names)
	if err != nil {
		return "", fmt.Errorf("marshal names: %w", err)
	}
	return string(data), nil
}

// unmarshalNames parses a column list stored by marshalNames.
func unmarshalNames(data string) ([]string, error) {
	if data == "" || data == "[]" {
		return []string{}, nil
	}
	var names []string
	if err := json.Unmarshal([]byte(data), &names); err != nil {
		return nil, fmt.Errorf("unmarshal names: %w", err)
	}
	return names, nil
}

// quoteIdent quotes a SQLite identifier.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// rowColumn is the ordering key present in every physical table.
const rowColumn = "_row"

// physicalColumns maps logical column names to SQLite column names.
// SQLite identifiers are case-insensitive, so a name whose folded form
// was already taken gets a numeric suffix. The mapping depends only on
// the header, so it is stable across writes of the same table.
func physicalColumns(header []string) []string {
	taken := map[string]bool{rowColumn: true}
	cols := make([]string, len(header))
	for i, name := range header {
		candidate := name
		for n := 2; taken[strings.ToLower(candidate)]; n++ {
			candidate = name + "_" + strconv.Itoa(n)
		}
		taken[strings.ToLower(candidate)] = true
		cols[i] = candidate
	}
	return cols
}
