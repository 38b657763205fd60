package encoding

import (
	"sort"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/loghaul/lokiship/internal/domain"
)

// Binary framing: the same stream/entry structure as the text format under
// a self-delimiting msgpack schema. Construction is a pure in-memory
// transform; in practice only the sink write can fail.

// binLabel is one label pair of a stream's label list.
type binLabel struct {
	Name  string `msgpack:"name"`
	Value string `msgpack:"value"`
}

// binEntry carries the same content as the text format's 4-element array.
type binEntry struct {
	Timestamp  int64             `msgpack:"ts"`
	Line       string            `msgpack:"line"`
	Tags       []string          `msgpack:"tags"`
	Attachment map[string]string `msgpack:"attachment"`
}

type binStream struct {
	Labels  []binLabel `msgpack:"labels"`
	Entries []binEntry `msgpack:"entries"`
}

type binBody struct {
	Streams []binStream `msgpack:"streams"`
}

func encodeMsgpack(b *domain.Batch) ([]byte, error) {
	body := binBody{Streams: make([]binStream, 0, len(b.Streams))}
	for _, st := range b.Streams {
		labels := make([]binLabel, 0, len(st.Labels))
		for k, v := range st.Labels {
			labels = append(labels, binLabel{Name: k, Value: v})
		}
		// Equal label sets must produce equal stream framing.
		sort.Slice(labels, func(i, j int) bool { return labels[i].Name < labels[j].Name })

		entries := make([]binEntry, len(st.Events))
		for i, ev := range st.Events {
			entries[i] = binEntry{
				Timestamp:  ev.Timestamp,
				Line:       lossyText(ev.Line),
				Tags:       ev.Tags,
				Attachment: ev.Attachment,
			}
		}
		body.Streams = append(body.Streams, binStream{Labels: labels, Entries: entries})
	}
	return msgpack.Marshal(body)
}
