package payload

// Kind tags the expectation a request violated.
type Kind uint8

const (
	KindBody Kind = iota + 1
	KindData
	KindLength
	KindRow
	KindColumns
	KindValue
)

func (k Kind) String() string {
	switch k {
	case KindBody:
		return "body"
	case KindData:
		return "data"
	case KindLength:
		return "length"
	case KindRow:
		return "row"
	case KindColumns:
		return "columns"
	case KindValue:
		return "value"
	default:
		return "unknown"
	}
}

// Error is returned for every request that does not satisfy the payload
// contract. Msg is safe to show to the caller.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string {
	return e.Msg
}

func newError(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}
