package cim

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content digests.
// The version suffix leaves room for changing the serialisation later.
const (
	DomainRecord = "cimtab/record/v1"
	DomainTable  = "cimtab/table/v1"
)

// hashWithDomain computes SHA256(domain + 0x00 + data).
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// canonicalRecord converts a record to the value form accepted by MarshalCanonical.
// Columns stay an ordered array so that column order is part of the digest.
func canonicalRecord(r *Record) map[string]any {
	cols := make([]any, len(r.Columns))
	for i, c := range r.Columns {
		cols[i] = []string{c.Name, c.Value}
	}
	return map[string]any{
		"class":   r.Class,
		"id":      r.ID,
		"columns": cols,
	}
}

// RecordDigest returns the content digest of a flattened record.
// Two resolutions of the same object against the same index must agree.
func RecordDigest(r *Record) (string, error) {
	data, err := MarshalCanonical(canonicalRecord(r))
	if err != nil {
		return "", fmt.Errorf("RecordDigest: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainRecord, data), nil
}

// TableDigest returns the content digest of a named table given its
// header and rows. Used for the run manifest.
func TableDigest(name string, header []string, rows [][]string) (string, error) {
	rowVals := make([]any, len(rows))
	for i, row := range rows {
		rowVals[i] = row
	}
	data, err := MarshalCanonical(map[string]any{
		"name":   name,
		"header": header,
		"rows":   rowVals,
	})
	if err != nil {
		return "", fmt.Errorf("TableDigest: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainTable, data), nil
}

// MustRecordDigest is like RecordDigest but panics on error.
// Use only in tests.
func MustRecordDigest(r *Record) string {
	d, err := RecordDigest(r)
	if err != nil {
		panic(err)
	}
	return d
}
