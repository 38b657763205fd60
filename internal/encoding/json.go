package encoding

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/loghaul/lokiship/internal/domain"
)

// jsonBody is the enclosing object of the text format:
// {"streams":[{"stream":{...},"values":[...]}]}.
type jsonBody struct {
	Streams []jsonStream `json:"streams"`
}

type jsonStream struct {
	Stream map[string]string `json:"stream"`
	Values []jsonEvent       `json:"values"`
}

// jsonEvent renders one event as the protocol's fixed 4-element array.
type jsonEvent struct {
	event *domain.LogEvent
}

// MarshalJSON emits [timestamp-string, line-text, tags, attachment]. The
// timestamp must be a decimal string, not a numeric literal; the ingestion
// endpoint rejects numbers. Invalid UTF-8 in the line is substituted, valid
// runs are kept intact. nil tags and attachments normalize to an empty list
// and map so the tuple shape is always the same.
func (e jsonEvent) MarshalJSON() ([]byte, error) {
	tags := e.event.Tags
	if tags == nil {
		tags = []string{}
	}
	attachment := e.event.Attachment
	if attachment == nil {
		attachment = map[string]string{}
	}
	return json.Marshal([4]any{
		strconv.FormatInt(e.event.Timestamp, 10),
		lossyText(e.event.Line),
		tags,
		attachment,
	})
}

func encodeJSON(b *domain.Batch) ([]byte, error) {
	body := jsonBody{Streams: make([]jsonStream, 0, len(b.Streams))}
	for _, st := range b.Streams {
		labels := st.Labels
		if labels == nil {
			labels = map[string]string{}
		}
		values := make([]jsonEvent, len(st.Events))
		for i := range st.Events {
			values[i] = jsonEvent{event: &st.Events[i]}
		}
		body.Streams = append(body.Streams, jsonStream{Stream: labels, Values: values})
	}
	return json.Marshal(body)
}

// lossyText converts raw line bytes to text, replacing each invalid byte
// sequence with U+FFFD. It never fails and never drops valid runs.
func lossyText(line []byte) string {
	return strings.ToValidUTF8(string(line), "�")
}
