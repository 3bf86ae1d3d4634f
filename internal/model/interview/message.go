package interview

import "time"

// Message is one transcript entry. The interview core never interprets the
// text; it only records it and forwards it to the extractor as history.
type Message struct {
	Speaker   string    `json:"speaker"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}
