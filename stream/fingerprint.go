package stream

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"sort"
	"strconv"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/rivulet/schema"
)

// fingerprintDomain separates result fingerprints from any other SHA-256 use.
// The null byte between domain and payload prevents boundary ambiguity.
const fingerprintDomain = "rivulet/result/v1"

// Fingerprint computes a canonical digest of a materialized result set.
//
// Two result sets fingerprint equal exactly when they hold the same rows with
// the same values in the same order. Row order matters: an ordered query that
// reshuffles rows is a changed result. Map iteration order does not: row keys
// are sorted, strings are NFC-normalized, and every token is length-framed,
// so the digest is stable across processes.
func Fingerprint(rows []schema.Row) string {
	h := sha256.New()
	io.WriteString(h, fingerprintDomain)
	h.Write([]byte{0x00})

	writeToken(h, strconv.Itoa(len(rows)))
	for _, row := range rows {
		keys := make([]string, 0, len(row))
		for k := range row {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		writeToken(h, strconv.Itoa(len(keys)))
		for _, k := range keys {
			writeToken(h, k)
			writeToken(h, encodeValue(row[k]))
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}

// writeToken writes a length-framed token, netstring style, so that no value
// can masquerade as a key boundary.
func writeToken(h hash.Hash, s string) {
	io.WriteString(h, strconv.Itoa(len(s)))
	h.Write([]byte{':'})
	io.WriteString(h, s)
}

// encodeValue renders a row value with a type tag. Strings are normalized to
// NFC so that equal text with different code-point sequences fingerprints
// equal.
func encodeValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case int64:
		return "i:" + strconv.FormatInt(val, 10)
	case string:
		return "t:" + norm.NFC.String(val)
	case bool:
		return "b:" + strconv.FormatBool(val)
	case float64:
		return "f:" + strconv.FormatFloat(val, 'g', -1, 64)
	case []byte:
		return "x:" + hex.EncodeToString(val)
	case time.Time:
		return "d:" + val.UTC().Format(time.RFC3339Nano)
	default:
		return fmt.Sprintf("?:%T:%v", v, v)
	}
}
