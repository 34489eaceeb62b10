package client

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// PayloadKind tags the shape of a chat response body.
type PayloadKind int

const (
	// PlainText is a bare JSON string.
	PlainText PayloadKind = iota
	// WithResponse is an object whose "response" field is set.
	WithResponse
	// WithMessage is an object without a usable "response" but with a "message".
	WithMessage
	// Unknown is any other body, including non-JSON text.
	Unknown
)

func (k PayloadKind) String() string {
	switch k {
	case PlainText:
		return "plain_text"
	case WithResponse:
		return "with_response"
	case WithMessage:
		return "with_message"
	default:
		return "unknown"
	}
}

// ChatPayload is a classified chat response. Value holds the selected JSON value, or the raw
// body when it was not JSON.
type ChatPayload struct {
	Kind  PayloadKind
	Value json.RawMessage
}

// ParseChatPayload classifies a chat response body. A field counts as set when it holds a
// non-empty string, a non-zero number, true, an object, or an array.
func ParseChatPayload(body []byte) ChatPayload {
	raw := bytes.TrimSpace(body)
	if len(raw) == 0 || !json.Valid(raw) {
		return ChatPayload{Kind: Unknown, Value: raw}
	}

	switch raw[0] {
	case '"':
		return ChatPayload{Kind: PlainText, Value: raw}
	case '{':
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(raw, &fields); err != nil {
			return ChatPayload{Kind: Unknown, Value: raw}
		}
		if v := fields["response"]; truthy(v) {
			return ChatPayload{Kind: WithResponse, Value: v}
		}
		if v := fields["message"]; truthy(v) {
			return ChatPayload{Kind: WithMessage, Value: v}
		}
	}
	return ChatPayload{Kind: Unknown, Value: raw}
}

// Text reduces the payload to plain text: strings are decoded, everything else is rendered as
// compact JSON, then one layer of enclosing quotes is stripped.
func (p ChatPayload) Text() string {
	return StripQuotes(render(p.Value))
}

func render(v json.RawMessage) string {
	if len(v) > 0 && v[0] == '"' {
		var s string
		if err := json.Unmarshal(v, &s); err == nil {
			return s
		}
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, v); err == nil {
		return buf.String()
	}
	return string(v)
}

func truthy(v json.RawMessage) bool {
	v = bytes.TrimSpace(v)
	if len(v) == 0 {
		return false
	}
	switch v[0] {
	case 'n', 'f':
		return false
	case '"':
		return len(v) > 2
	case '{', '[', 't':
		return true
	}
	f, err := strconv.ParseFloat(string(v), 64)
	return err == nil && f != 0
}

// StripQuotes removes a single pair of matching enclosing quotes (" or '). It is not recursive.
func StripQuotes(s string) string {
	if s == "" {
		return s
	}
	q := s[0]
	if (q != '"' && q != '\'') || s[len(s)-1] != q {
		return s
	}
	if len(s) == 1 {
		return ""
	}
	return s[1 : len(s)-1]
}
