package metricwriter

import "bufio"
import "encoding/json"
import "os"
import "sync"
import "time"

import "github.com/mailru/easyjson/jwriter"
import "github.com/pkg/errors"

// JSONLWriter appends one json object per write to a file.
type JSONLWriter struct {
	mu    sync.Mutex
	file  *os.File
	buf   *bufio.Writer
	runID string
	now   func() time.Time
}

// NewJSONLWriter opens path for appending.
func NewJSONLWriter(path, runID string) (*JSONLWriter, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return nil, errors.Wrap(err, "open metrics file")
	}
	return &JSONLWriter{file: f, buf: bufio.NewWriter(f), runID: runID, now: time.Now}, nil
}

func (w *JSONLWriter) header(jw *jwriter.Writer) {
	jw.RawString(`{"time":`)
	jw.String(w.now().UTC().Format(time.RFC3339Nano))
	jw.RawString(`,"run_id":`)
	jw.String(w.runID)
}

func (w *JSONLWriter) WriteScalars(step int, scalars map[string]float64) error {
	var jw jwriter.Writer
	w.header(&jw)
	jw.RawString(`,"step":`)
	jw.Int(step)
	jw.RawString(`,"scalars":{`)
	for i, k := range sortedKeys(scalars) {
		if i > 0 {
			jw.RawByte(',')
		}
		jw.String(k)
		jw.RawByte(':')
		jw.Float64(scalars[k])
	}
	jw.RawString("}}\n")
	return w.write(&jw)
}

func (w *JSONLWriter) WriteHParams(params map[string]any) error {
	var jw jwriter.Writer
	w.header(&jw)
	jw.RawString(`,"hparams":{`)
	for i, k := range sortedKeys(params) {
		if i > 0 {
			jw.RawByte(',')
		}
		jw.String(k)
		jw.RawByte(':')
		jw.Raw(json.Marshal(params[k]))
	}
	jw.RawString("}}\n")
	return w.write(&jw)
}

func (w *JSONLWriter) write(jw *jwriter.Writer) error {
	if jw.Error != nil {
		return errors.Wrap(jw.Error, "encode metrics")
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	_, err := jw.DumpTo(w.buf)
	return errors.Wrap(err, "write metrics")
}

func (w *JSONLWriter) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return errors.Wrap(w.buf.Flush(), "flush metrics")
}

func (w *JSONLWriter) Close() error {
	if err := w.Flush(); err != nil {
		w.file.Close()
		return err
	}
	return errors.Wrap(w.file.Close(), "close metrics file")
}
