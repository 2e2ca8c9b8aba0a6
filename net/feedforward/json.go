package feedforward

import "compress/lzw"
import "io"
import "os"

import "github.com/mailru/easyjson/jlexer"
import "github.com/mailru/easyjson/jwriter"
import "github.com/pkg/errors"

import "github.com/neurlang/svvit/hashtron"

// MarshalEasyJSON writes the weights as a json array of hashtrons
func (f FeedforwardNetwork) MarshalEasyJSON(w *jwriter.Writer) {
	w.RawString("[\n")
	for i := 0; i < f.Len(); i++ {
		if i != 0 {
			w.RawString(",\n")
		}
		f.GetHashtron(i).MarshalEasyJSON(w)
	}
	w.RawString("]\n")
}

// UnmarshalEasyJSON reads the weights into a network of the same architecture
func (f *FeedforwardNetwork) UnmarshalEasyJSON(l *jlexer.Lexer) {
	var weights []hashtron.Hashtron
	l.Delim('[')
	for !l.IsDelim(']') {
		var h hashtron.Hashtron
		h.UnmarshalEasyJSON(l)
		weights = append(weights, h)
		l.WantComma()
	}
	l.Delim(']')
	if l.Error() != nil {
		return
	}
	if len(weights) != f.Len() {
		l.AddError(errors.Errorf("weights hold %d hashtrons, network has %d", len(weights), f.Len()))
		return
	}
	for i := range weights {
		var h = f.GetHashtron(i)
		if h.Bits() != weights[i].Bits() {
			l.AddError(errors.Errorf("hashtron %d has %d bits, network expects %d", i, weights[i].Bits(), h.Bits()))
			return
		}
		*h = weights[i]
	}
}

// WriteCompressedWeightsToFile writes model weights to a lzw file
func (f FeedforwardNetwork) WriteCompressedWeightsToFile(name string) error {
	file, err := os.Create(name)
	if err != nil {
		return err
	}
	err = f.WriteCompressedWeights(file)
	if cerr := file.Close(); err == nil {
		err = cerr
	}
	return err
}

// WriteCompressedWeights writes model weights to a writer
func (f FeedforwardNetwork) WriteCompressedWeights(w io.Writer) error {
	lw := lzw.NewWriter(w, lzw.LSB, 8)

	var jw jwriter.Writer
	f.MarshalEasyJSON(&jw)
	if _, err := jw.DumpTo(lw); err != nil {
		lw.Close()
		return errors.Wrap(err, "write weights")
	}
	return lw.Close()
}

// ReadCompressedWeightsFromFile reads model weights from a lzw file
func (f *FeedforwardNetwork) ReadCompressedWeightsFromFile(name string) error {
	file, err := os.Open(name)
	if err != nil {
		return err
	}
	defer file.Close()
	return f.ReadCompressedWeights(file)
}

// ReadCompressedWeights reads model weights from a reader
func (f *FeedforwardNetwork) ReadCompressedWeights(r io.Reader) error {
	lr := lzw.NewReader(r, lzw.LSB, 8)
	defer lr.Close()

	data, err := io.ReadAll(lr)
	if err != nil {
		return errors.Wrap(err, "decompress weights")
	}
	l := jlexer.Lexer{Data: data}
	f.UnmarshalEasyJSON(&l)
	return errors.Wrap(l.Error(), "parse weights")
}
