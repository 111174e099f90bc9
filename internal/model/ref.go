package model

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// FlexID is a foreign key that the backend sends either as a bare id, a
// quoted id, null, or a nested object carrying an "id" field.
type FlexID int64

func (f *FlexID) UnmarshalJSON(b []byte) error {
	id, _, err := decodeRef(b)
	if err != nil {
		return err
	}
	*f = FlexID(id)
	return nil
}

// decodeRef normalizes any of the reference shapes into an id. When the
// reference is an object its raw bytes are returned for further decoding.
func decodeRef(b []byte) (int64, []byte, error) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return 0, nil, nil
	}
	switch b[0] {
	case '{':
		var nested struct {
			ID FlexID `json:"id"`
		}
		if err := json.Unmarshal(b, &nested); err != nil {
			return 0, nil, err
		}
		return int64(nested.ID), b, nil
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return 0, nil, err
		}
		if s == "" {
			return 0, nil, nil
		}
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, nil, err
		}
		return id, nil, nil
	default:
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return 0, nil, err
		}
		id, err := n.Int64()
		if err != nil {
			return 0, nil, err
		}
		return id, nil, nil
	}
}
