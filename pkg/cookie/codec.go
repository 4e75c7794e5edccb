package cookie

import (
	"encoding/json"
	"fmt"
	"net/url"

	"prolist/pkg/list"
)

// DataCookieName is the fixed name of the list-state cookie.
const DataCookieName = "prolist-data"

// Encode serializes the envelope to URL-encoded JSON fit for a cookie value.
func Encode(data list.StoredData) (string, error) {
	b, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("encoding stored data: %w", err)
	}
	return url.QueryEscape(string(b)), nil
}

// Decode parses a cookie value back into the envelope. Any malformed input
// yields an error; callers treat that the same as an absent cookie. Version
// zero marks the legacy pre-versioning layout and is accepted; versions
// newer than StoredDataVersion are rejected rather than partially adopted.
// Non-positive quantities are dropped on the way in.
func Decode(raw string) (*list.StoredData, error) {
	unescaped, err := url.QueryUnescape(raw)
	if err != nil {
		return nil, fmt.Errorf("unescaping cookie value: %w", err)
	}

	var data list.StoredData
	if err := json.Unmarshal([]byte(unescaped), &data); err != nil {
		return nil, fmt.Errorf("parsing stored data: %w", err)
	}
	if data.Version > list.StoredDataVersion {
		return nil, fmt.Errorf("unsupported stored data version %d", data.Version)
	}

	if data.Quantities == nil {
		data.Quantities = list.Quantities{}
	}
	for id, qty := range data.Quantities {
		if qty <= 0 {
			delete(data.Quantities, id)
		}
	}

	return &data, nil
}
