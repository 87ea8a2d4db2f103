package session

import (
	"encoding/json"
	"errors"

	"github.com/google/uuid"
)

// Encode serializes a record to its JSON wire form. The same bytes are
// written to both storage tiers so they stay byte-identical.
func Encode(r *Record) ([]byte, error) {
	if r == nil {
		return nil, ErrMalformedRecord
	}
	data, err := json.Marshal(r)
	if err != nil {
		return nil, errors.Join(ErrMalformedRecord, err)
	}
	return data, nil
}

// Decode parses a record from its JSON wire form. Decoding is defensive:
// missing optional fields default safely, while a missing required field
// (ID, ExpiresAt, LastActivityAt) discards the whole record as malformed so
// restoration proceeds as "no prior session".
func Decode(data []byte) (*Record, error) {
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, errors.Join(ErrMalformedRecord, err)
	}

	if r.ID == uuid.Nil || r.ExpiresAt.IsZero() || r.LastActivityAt.IsZero() {
		return nil, ErrMalformedRecord
	}

	if r.CreatedAt.IsZero() {
		r.CreatedAt = r.LastActivityAt
	}

	return &r, nil
}
