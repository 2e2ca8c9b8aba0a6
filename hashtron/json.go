package hashtron

import "io"

import "github.com/mailru/easyjson"
import "github.com/mailru/easyjson/jlexer"
import "github.com/mailru/easyjson/jwriter"

// MarshalEasyJSON writes the hashtron as {"bits":N,"program":[[s,max],...]}
func (h Hashtron) MarshalEasyJSON(w *jwriter.Writer) {
	w.RawString(`{"bits":`)
	w.Uint8(h.bits)
	w.RawString(`,"program":[`)
	for i, v := range h.program {
		if i > 0 {
			w.RawByte(',')
		}
		w.RawByte('[')
		w.Uint32(v[0])
		w.RawByte(',')
		w.Uint32(v[1])
		w.RawByte(']')
	}
	w.RawString(`]}`)
}

// UnmarshalEasyJSON reads the hashtron written by MarshalEasyJSON
func (h *Hashtron) UnmarshalEasyJSON(l *jlexer.Lexer) {
	h.program = h.program[:0]
	h.bits = 0
	l.Delim('{')
	for !l.IsDelim('}') {
		key := l.UnsafeFieldName(false)
		l.WantColon()
		switch key {
		case "bits":
			h.bits = l.Uint8()
		case "program":
			l.Delim('[')
			for !l.IsDelim(']') {
				var cmd [2]uint32
				l.Delim('[')
				cmd[0] = l.Uint32()
				l.WantComma()
				cmd[1] = l.Uint32()
				l.WantComma()
				l.Delim(']')
				h.program = append(h.program, cmd)
				l.WantComma()
			}
			l.Delim(']')
		default:
			l.SkipRecursive()
		}
		l.WantComma()
	}
	l.Delim('}')
	if h.bits == 0 {
		h.bits = 1
	}
	for _, cmd := range h.program {
		if cmd[1] == 0 {
			l.AddError(&jlexer.LexerError{Reason: "hashtron program modulo can't be zero"})
			return
		}
	}
}

// WriteJson writes the hashtron as json to w
func (h Hashtron) WriteJson(w io.Writer) error {
	_, err := easyjson.MarshalToWriter(h, w)
	return err
}

// ReadJson reads one json hashtron from r
func (h *Hashtron) ReadJson(r io.Reader) error {
	return easyjson.UnmarshalFromReader(r, h)
}
