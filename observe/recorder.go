package observe

import (
	"bytes"
	"fmt"
	"io"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/junioryono/advice"
)

// Record is the JSON form of one finished call.
type Record struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Call      string    `json:"call"`
	Status    string    `json:"status"`
	Result    string    `json:"result,omitempty"`
	Error     string    `json:"error,omitempty"`
	Panicked  bool      `json:"panicked,omitempty"`
	StartedAt time.Time `json:"started_at"`
	ElapsedMS float64   `json:"elapsed_ms"`
}

// Recorder writes one JSON line per finished call. Values are rendered
// with fmt so arbitrary arguments and results always encode.
type Recorder struct {
	advice.NopHooks

	mu  sync.Mutex
	enc *jsoniter.Encoder
}

var _ advice.Hooks = (*Recorder)(nil)

// NewRecorder creates a Recorder writing to w.
func NewRecorder(w io.Writer) *Recorder {
	return &Recorder{enc: jsoniter.ConfigFastest.NewEncoder(w)}
}

func (r *Recorder) After(c *advice.Context) error {
	rec := Record{
		ID:        c.ID,
		Name:      c.Name,
		Call:      c.String(),
		Status:    status(c),
		StartedAt: c.Started,
		ElapsedMS: float64(c.Elapsed.Microseconds()) / 1000,
	}
	if c.Succeeded() && len(c.Results) > 0 {
		rec.Result = fmt.Sprint(c.Results...)
	}
	if c.Failed() && c.Err != nil {
		rec.Error = c.Err.Error()
		rec.Panicked = c.Panicked()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.enc.Encode(rec)
}

// DecodeRecords reads JSON lines written by a Recorder.
func DecodeRecords(data []byte) ([]Record, error) {
	var out []Record
	for _, line := range bytes.Split(data, []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		var rec Record
		if err := jsoniter.ConfigFastest.Unmarshal(line, &rec); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}
