// Package checkpoint stores trained networks in the working directory.
//
// Every checkpoint is two diskv keys: checkpoint_<step> holds the lzw
// compressed weights, checkpoint_<step>.json the training state needed to
// rebuild the network before the weights are read into it.
package checkpoint

import "bytes"
import "fmt"
import "path/filepath"
import "sort"
import "strings"

import "github.com/mailru/easyjson"
import "github.com/mailru/easyjson/jlexer"
import "github.com/mailru/easyjson/jwriter"
import "github.com/peterbourgon/diskv"
import "github.com/pkg/errors"

import "github.com/neurlang/svvit/config"
import "github.com/neurlang/svvit/datasets"
import "github.com/neurlang/svvit/models"
import "github.com/neurlang/svvit/net/feedforward"

// ErrNoCheckpoint is returned when a directory holds no checkpoint.
var ErrNoCheckpoint = errors.New("no checkpoint")

const prefix = "checkpoint_"

// Dir is the checkpoint directory inside a working directory.
func Dir(workdir string) string {
	return filepath.Join(workdir, "checkpoints")
}

// State is the training state saved with the weights.
type State struct {
	Step     int
	Model    string
	Meta     datasets.MetaData
	Accuracy float64
	RunID    string
}

// MarshalEasyJSON writes the state as a json object.
func (s State) MarshalEasyJSON(w *jwriter.Writer) {
	w.RawString(`{"step":`)
	w.Int(s.Step)
	w.RawString(`,"model":`)
	w.String(s.Model)
	w.RawString(`,"accuracy":`)
	w.Float64(s.Accuracy)
	w.RawString(`,"run_id":`)
	w.String(s.RunID)
	w.RawString(`,"meta":{"num_classes":`)
	w.Int(s.Meta.NumClasses)
	w.RawString(`,"height":`)
	w.Int(s.Meta.Height)
	w.RawString(`,"width":`)
	w.Int(s.Meta.Width)
	w.RawString(`,"num_train_examples":`)
	w.Int(s.Meta.NumTrainExamples)
	w.RawString(`,"num_eval_examples":`)
	w.Int(s.Meta.NumEvalExamples)
	w.RawString(`,"num_test_examples":`)
	w.Int(s.Meta.NumTestExamples)
	w.RawString(`}}`)
}

// UnmarshalEasyJSON reads the state written by MarshalEasyJSON.
func (s *State) UnmarshalEasyJSON(l *jlexer.Lexer) {
	l.Delim('{')
	for !l.IsDelim('}') {
		key := l.UnsafeFieldName(false)
		l.WantColon()
		switch key {
		case "step":
			s.Step = l.Int()
		case "model":
			s.Model = l.String()
		case "accuracy":
			s.Accuracy = l.Float64()
		case "run_id":
			s.RunID = l.String()
		case "meta":
			l.Delim('{')
			for !l.IsDelim('}') {
				key := l.UnsafeFieldName(false)
				l.WantColon()
				switch key {
				case "num_classes":
					s.Meta.NumClasses = l.Int()
				case "height":
					s.Meta.Height = l.Int()
				case "width":
					s.Meta.Width = l.Int()
				case "num_train_examples":
					s.Meta.NumTrainExamples = l.Int()
				case "num_eval_examples":
					s.Meta.NumEvalExamples = l.Int()
				case "num_test_examples":
					s.Meta.NumTestExamples = l.Int()
				default:
					l.SkipRecursive()
				}
				l.WantComma()
			}
			l.Delim('}')
		default:
			l.SkipRecursive()
		}
		l.WantComma()
	}
	l.Delim('}')
}

// Store is a checkpoint directory.
type Store struct {
	d *diskv.Diskv
}

// Open opens the checkpoint directory dir, creating it on first write.
func Open(dir string) *Store {
	return &Store{d: diskv.New(diskv.Options{
		BasePath:     dir,
		CacheSizeMax: 1 << 22,
	})}
}

func weightsKey(step int) string {
	return fmt.Sprintf("%s%08d", prefix, step)
}

func stateKey(step int) string {
	return weightsKey(step) + ".json"
}

// Save writes a checkpoint of net at state.Step and prunes all but the
// newest keep checkpoints. keep below 1 keeps everything.
func (s *Store) Save(state State, net *feedforward.FeedforwardNetwork, keep int) error {
	var weights bytes.Buffer
	if err := net.WriteCompressedWeights(&weights); err != nil {
		return errors.Wrap(err, "compress weights")
	}
	if err := s.d.Write(weightsKey(state.Step), weights.Bytes()); err != nil {
		return errors.Wrapf(err, "write checkpoint %d", state.Step)
	}
	data, err := easyjson.Marshal(state)
	if err != nil {
		return errors.Wrap(err, "marshal checkpoint state")
	}
	// the state is written last, a checkpoint without it is incomplete
	if err := s.d.Write(stateKey(state.Step), data); err != nil {
		return errors.Wrapf(err, "write checkpoint %d state", state.Step)
	}
	if keep > 0 {
		return s.Prune(keep)
	}
	return nil
}

// Steps lists the steps of the complete checkpoints in ascending order.
func (s *Store) Steps() []int {
	var steps []int
	for key := range s.d.Keys(nil) {
		if !strings.HasPrefix(key, prefix) || !strings.HasSuffix(key, ".json") {
			continue
		}
		var step int
		if _, err := fmt.Sscanf(strings.TrimSuffix(key, ".json"), prefix+"%d", &step); err != nil {
			continue
		}
		if s.d.Has(weightsKey(step)) {
			steps = append(steps, step)
		}
	}
	sort.Ints(steps)
	return steps
}

// Latest returns the newest step.
func (s *Store) Latest() (int, error) {
	steps := s.Steps()
	if len(steps) == 0 {
		return 0, errors.Wrapf(ErrNoCheckpoint, "in %s", s.d.BasePath)
	}
	return steps[len(steps)-1], nil
}

// Load reads the state of the checkpoint at step, 0 meaning the newest.
func (s *Store) Load(step int) (State, error) {
	var state State
	if step == 0 {
		latest, err := s.Latest()
		if err != nil {
			return state, err
		}
		step = latest
	}
	data, err := s.d.Read(stateKey(step))
	if err != nil {
		return state, errors.Wrapf(ErrNoCheckpoint, "step %d in %s", step, s.d.BasePath)
	}
	if err := easyjson.Unmarshal(data, &state); err != nil {
		return state, errors.Wrapf(err, "parse checkpoint %d state", step)
	}
	return state, nil
}

// Restore reads the weights of the checkpoint at step into net.
func (s *Store) Restore(step int, net *feedforward.FeedforwardNetwork) error {
	r, err := s.d.ReadStream(weightsKey(step), false)
	if err != nil {
		return errors.Wrapf(ErrNoCheckpoint, "step %d in %s", step, s.d.BasePath)
	}
	defer r.Close()
	return errors.Wrapf(net.ReadCompressedWeights(r), "restore checkpoint %d", step)
}

// Prune erases all but the newest keep checkpoints.
func (s *Store) Prune(keep int) error {
	steps := s.Steps()
	for len(steps) > keep {
		if err := s.d.Erase(stateKey(steps[0])); err != nil {
			return errors.Wrapf(err, "erase checkpoint %d", steps[0])
		}
		if err := s.d.Erase(weightsKey(steps[0])); err != nil {
			return errors.Wrapf(err, "erase checkpoint %d", steps[0])
		}
		steps = steps[1:]
	}
	return nil
}

// RestoreModel rebuilds the model of class from the checkpoint at step of
// dir, 0 meaning the newest, and reads its weights.
func RestoreModel(dir string, step int, cfg config.ModelConfig, class *models.Class) (*models.Model, State, error) {
	s := Open(dir)
	state, err := s.Load(step)
	if err != nil {
		return nil, state, err
	}
	if state.Model != class.Name {
		return nil, state, errors.Errorf("checkpoint %d holds a %s model, want %s", state.Step, state.Model, class.Name)
	}
	m, err := class.New(cfg, state.Meta)
	if err != nil {
		return nil, state, err
	}
	if err := s.Restore(state.Step, m.Network); err != nil {
		return nil, state, err
	}
	return m, state, nil
}
