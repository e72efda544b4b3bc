package domain

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Scalar holds a loosely typed JSON value (id, years, personal info entry)
// as display text. Strings are kept as is, null becomes empty, anything
// else keeps its compact JSON form.
type Scalar string

func (s *Scalar) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = Scalar(v)
		return nil
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, data); err != nil {
		return err
	}
	*s = Scalar(buf.String())
	return nil
}

func (s Scalar) String() string {
	return string(s)
}

// Float parses the value as a number.
func (s Scalar) Float() (float64, bool) {
	f, err := strconv.ParseFloat(string(s), 64)
	return f, err == nil
}

// TextList is a JSON list rendered item by item. Non-string items are
// stringified, null items are dropped and a bare string is a one-item list.
type TextList []string

func (l *TextList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*l = nil
		return nil
	}
	if data[0] != '[' {
		var one Scalar
		if err := one.UnmarshalJSON(data); err != nil {
			return err
		}
		if one == "" {
			*l = nil
			return nil
		}
		*l = TextList{one.String()}
		return nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(TextList, 0, len(raw))
	for _, item := range raw {
		var v Scalar
		if err := v.UnmarshalJSON(item); err != nil {
			return err
		}
		if v != "" {
			out = append(out, v.String())
		}
	}
	*l = out
	return nil
}
