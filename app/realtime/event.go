package realtime

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

const TypeActiveUsersCount = "active_users_count"

var ErrMalformedEnvelope = errors.New("malformed envelope")

// Event adalah varian envelope dari live channel
type Event interface {
	EventType() string
}

// ActiveUsersCount adalah jumlah sesi yang sedang aktif
type ActiveUsersCount struct {
	Count int
}

func (ActiveUsersCount) EventType() string { return TypeActiveUsersCount }

// UnknownEvent menyimpan envelope dengan type yang belum dikenal apa adanya
type UnknownEvent struct {
	Type string
	Raw  json.RawMessage
}

func (e UnknownEvent) EventType() string { return e.Type }

// DecodeEnvelope membaca envelope {type, ...} dan mengembalikan varian yang sesuai
func DecodeEnvelope(data []byte) (Event, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEnvelope, err)
	}
	if head.Type == "" {
		return nil, fmt.Errorf("%w: missing type", ErrMalformedEnvelope)
	}

	switch head.Type {
	case TypeActiveUsersCount:
		var body struct {
			Count *float64 `json:"count"`
		}
		if err := json.Unmarshal(data, &body); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrMalformedEnvelope, head.Type, err)
		}
		if body.Count == nil {
			return nil, fmt.Errorf("%w: %s: count is not a number", ErrMalformedEnvelope, head.Type)
		}
		c := *body.Count
		if c < 0 || c != math.Trunc(c) || c > math.MaxInt32 {
			return nil, fmt.Errorf("%w: %s: invalid count %v", ErrMalformedEnvelope, head.Type, c)
		}
		return ActiveUsersCount{Count: int(c)}, nil
	default:
		return UnknownEvent{Type: head.Type, Raw: append(json.RawMessage(nil), data...)}, nil
	}
}
