package advisor

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// CandidateID is an id in its canonical JSON form: numbers bare, strings
// quoted. A number never equals a string, so 7 and "7" are different ids.
type CandidateID string

// NumberID and StringID build ids as they would arrive in JSON.
func NumberID(n int64) CandidateID { return CandidateID(strconv.FormatInt(n, 10)) }

func StringID(s string) CandidateID {
	quoted, _ := json.Marshal(s)
	return CandidateID(quoted)
}

func (id *CandidateID) UnmarshalJSON(data []byte) error {
	*id = canonicalID(data)
	return nil
}

func (id CandidateID) MarshalJSON() ([]byte, error) {
	if id == "" {
		return []byte("null"), nil
	}
	return []byte(id), nil
}

func canonicalID(raw json.RawMessage) CandidateID {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return StringID(s)
		}
	case 't', 'f', '{', '[':
	default:
		// 7 and 7.0 are the same number.
		if f, err := strconv.ParseFloat(string(raw), 64); err == nil {
			if f == math.Trunc(f) && math.Abs(f) < 1e15 {
				return NumberID(int64(f))
			}
			return CandidateID(strconv.FormatFloat(f, 'g', -1, 64))
		}
	}
	return CandidateID(raw)
}

// Candidate is a caller-supplied product or deal. The original JSON object is
// kept and echoed back unchanged when the candidate is selected.
type Candidate struct {
	ID          CandidateID
	Name        string
	Description string
	// Price is set for products, Discount for deals; both as sent.
	Price    string
	Discount string

	raw json.RawMessage
}

type candidateFields struct {
	ID          json.RawMessage `json:"id"`
	Name        json.RawMessage `json:"name"`
	Description json.RawMessage `json:"description"`
	Price       json.RawMessage `json:"price"`
	Discount    json.RawMessage `json:"discount"`
}

func (c *Candidate) UnmarshalJSON(data []byte) error {
	var f candidateFields
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*c = Candidate{
		ID:          canonicalID(f.ID),
		Name:        looseText(f.Name),
		Description: looseText(f.Description),
		Price:       looseText(f.Price),
		Discount:    looseText(f.Discount),
		raw:         append(json.RawMessage(nil), data...),
	}
	return nil
}

func (c Candidate) MarshalJSON() ([]byte, error) {
	if len(c.raw) > 0 {
		return c.raw, nil
	}
	return json.Marshal(map[string]interface{}{
		"id":          c.ID,
		"name":        c.Name,
		"description": c.Description,
	})
}

// looseText renders a JSON scalar as plain text: strings lose their quotes,
// numbers and booleans keep their literal form, null and absent become "".
func looseText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
	}
	return strings.TrimSpace(string(raw))
}
