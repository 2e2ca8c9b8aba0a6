package datasets

import "bufio"
import "compress/gzip"
import "io"
import "os"
import "strconv"
import "strings"

import "github.com/pkg/errors"

// ReadTSV reads label<TAB>payload lines from path, gunzipping files ending
// in .gz. Empty lines and lines starting with # are skipped.
func ReadTSV(path string, parse func(label uint16, payload string) (Example, error)) ([]Example, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open dataset file")
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, errors.Wrapf(err, "gunzip %s", path)
		}
		defer gz.Close()
		r = gz
	}

	var out []Example
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 1<<20), 1<<26)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		labelText, payload, ok := strings.Cut(text, "\t")
		if !ok {
			return nil, errors.Errorf("%s:%d: missing tab separator", path, line)
		}
		label, err := strconv.ParseUint(labelText, 10, 16)
		if err != nil {
			return nil, errors.Wrapf(err, "%s:%d: label", path, line)
		}
		e, err := parse(uint16(label), payload)
		if err != nil {
			return nil, errors.Wrapf(err, "%s:%d", path, line)
		}
		out = append(out, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	return out, nil
}

// ParseInts parses comma separated integers
func ParseInts(s string) ([]int, error) {
	fields := strings.Split(s, ",")
	out := make([]int, len(fields))
	for i, f := range fields {
		v, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, errors.Wrapf(err, "value %d", i)
		}
		out[i] = v
	}
	return out, nil
}

// Scale maps v in 0..max onto a byte, clipping above max
func Scale(v, max int) uint8 {
	if v <= 0 || max <= 0 {
		return 0
	}
	if v >= max {
		return 255
	}
	return uint8(v * 255 / max)
}

// CheckShapes verifies every example has the same shape and a label below classes
func CheckShapes(examples []Example, height, width, classes int) error {
	for i, e := range examples {
		if e.Height != height || e.Width != width {
			return errors.Errorf("example %d has shape %dx%d, want %dx%d", i, e.Height, e.Width, height, width)
		}
		if len(e.Image) != height*width {
			return errors.Errorf("example %d has %d pixels, want %d", i, len(e.Image), height*width)
		}
		if int(e.Label) >= classes {
			return errors.Errorf("example %d has label %d, want below %d", i, e.Label, classes)
		}
	}
	return nil
}
