package util

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"

	"github.com/airsense/pm10cast/internal/predictor"
)

// HashTable returns a stable hex digest of the table contents, column names
// included.
func HashTable(t predictor.Table) string {
	buffer := GetBytesBuffer()
	defer PutBytesBuffer(buffer)
	defer buffer.Reset()
	for _, col := range t.Columns() {
		buffer.WriteString(strconv.Quote(col))
		buffer.WriteByte(',')
	}
	buffer.WriteByte('\n')
	for i := 0; i < t.Len(); i++ {
		if i < len(t.Numeric) {
			for _, x := range t.Numeric[i] {
				buffer.WriteString(strconv.FormatFloat(x, 'g', -1, 64))
				buffer.WriteByte(',')
			}
		}
		if i < len(t.Categorical) {
			for _, s := range t.Categorical[i] {
				buffer.WriteString(strconv.Quote(s))
				buffer.WriteByte(',')
			}
		}
		buffer.WriteByte('\n')
	}
	sum := sha256.Sum256(buffer.Bytes())
	return hex.EncodeToString(sum[:])
}
