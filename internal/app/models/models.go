package models

import (
	"bytes"
	"encoding/json"
)

// EnrichedResponse pairs a question's display text with the display text of
// the option the student selected for it.
type EnrichedResponse struct {
	Question string
	Answer   string
}

// EnrichedResponses is an ordered set of enriched answers. Order matters
// because the set is serialized into the model prompt; a plain map would
// reorder keys on marshaling.
type EnrichedResponses []EnrichedResponse

// MarshalJSON renders the responses as a JSON object keyed by question text,
// preserving slice order.
func (e EnrichedResponses) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, r := range e {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(r.Question)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(r.Answer)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
