package models

import (
	"encoding/json"
	"fmt"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

// Keys of a Message understood by the notifiers.
const (
	TextKey            = "text"
	ChannelNameKey     = "ChannelName"
	UsernameKey        = "Username"
	IconURLKey         = "IconURL"
	AttachmentsPathKey = "AttachmentsPath"
)

// JSON is the codec used for message files and request bodies. Numbers are kept as json.Number
// so that numeric channel ids survive a round trip unchanged.
var JSON = jsoniter.Config{
	EscapeHTML:             true,
	SortMapKeys:            true,
	ValidateJsonRawMessage: true,
	UseNumber:              true,
}.Froze()

// Message is a flat JSON object describing a notification. It always carries "text" once
// resolved and may carry display overrides or delivery settings.
type Message map[string]any

// NewTextMessage returns a Message holding only text.
func NewTextMessage(text string) Message {
	return Message{TextKey: text}
}

// IsEmpty reports whether the message has no keys at all.
func (m Message) IsEmpty() bool {
	return len(m) == 0
}

// Text returns the trimmed "text" field, or an empty string if it is missing or not a string.
func (m Message) Text() string {
	s, _ := m[TextKey].(string)
	return strings.TrimSpace(s)
}

// String returns the value stored under key formatted as a string. Scalars other than strings
// (numbers, booleans) are formatted; objects, arrays and null are reported as absent.
func (m Message) String(key string) (string, bool) {
	v, ok := m[key]
	if !ok {
		return "", false
	}
	switch t := v.(type) {
	case string:
		return t, true
	case json.Number:
		return t.String(), true
	case float64, int, int64, bool:
		return fmt.Sprint(t), true
	default:
		return "", false
	}
}

// Set stores value under key.
func (m Message) Set(key, value string) {
	m[key] = value
}
