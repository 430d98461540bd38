package chain

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// hexBytes marshals to/from the lowercase, unpadded hex strings the
// network uses for every binary field (spec.md §6).
type hexBytes []byte

func (h hexBytes) MarshalJSON() ([]byte, error) {
	return json.Marshal(hex.EncodeToString(h))
}

func (h *hexBytes) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("hexBytes: %w", err)
	}
	if s == "" {
		*h = nil
		return nil
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return fmt.Errorf("hexBytes: %w", err)
	}
	*h = b
	return nil
}
