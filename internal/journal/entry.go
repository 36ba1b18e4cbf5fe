package journal

import (
	"encoding/binary"
	"time"

	"github.com/google/uuid"
)

type Entry struct {
	ID         uuid.UUID `json:"id"`
	Key        string    `json:"key"`
	Prediction float64   `json:"prediction"`
	CreatedAt  time.Time `json:"createdAt"`
}

func NewEntry(key string, prediction float64, createdAt time.Time) Entry {
	return Entry{
		ID:         uuid.New(),
		Key:        key,
		Prediction: prediction,
		CreatedAt:  createdAt,
	}
}

// storageKey orders entries by creation time: 8 bytes of big endian unix
// nanoseconds followed by the 16 id bytes.
func (e Entry) storageKey() []byte {
	k := make([]byte, 8+len(e.ID))
	binary.BigEndian.PutUint64(k, uint64(e.CreatedAt.UnixNano()))
	copy(k[8:], e.ID[:])
	return k
}

func keyTime(k []byte) time.Time {
	return time.Unix(0, int64(binary.BigEndian.Uint64(k[:8])))
}
