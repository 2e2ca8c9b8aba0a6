package service

import "context"
import "strings"
import "time"

import "github.com/go-logr/logr"
import "github.com/gorilla/websocket"
import "github.com/pkg/errors"

import "github.com/neurlang/svvit/datasets"

// URL turns a dataset service address into its websocket url. Addresses
// without a scheme are dialed with ws.
func URL(address string) string {
	address = strings.TrimSuffix(address, "/")
	switch {
	case strings.HasPrefix(address, "http://"):
		address = "ws://" + strings.TrimPrefix(address, "http://")
	case strings.HasPrefix(address, "https://"):
		address = "wss://" + strings.TrimPrefix(address, "https://")
	case !strings.Contains(address, "://"):
		address = "ws://" + address
	}
	return address + Path
}

// Fetch requests a dataset from the service at address and assembles it.
func Fetch(ctx context.Context, address string, req Request) (*datasets.Dataset, error) {
	logger := logr.FromContextOrDiscard(ctx)
	url := URL(address)

	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "dial dataset service %s", url)
	}
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	if err := conn.WriteJSON(req); err != nil {
		return nil, errors.Wrap(err, "send dataset request")
	}
	logger.V(1).Info("requested dataset", "url", url, "dataset", req.Name)

	var d datasets.Dataset
	var gotMeta bool
	for {
		var f Frame
		if err := conn.ReadJSON(&f); err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, errors.Wrap(err, "read dataset frame")
		}
		switch f.Type {
		case FrameMeta:
			if f.Meta == nil {
				return nil, errors.New("meta frame without metadata")
			}
			d.Meta = *f.Meta
			gotMeta = true
		case FrameExample:
			if f.Example == nil {
				return nil, errors.New("example frame without example")
			}
			switch f.Split {
			case "train":
				d.Train = append(d.Train, *f.Example)
			case "valid":
				d.Valid = append(d.Valid, *f.Example)
			case "test":
				d.Test = append(d.Test, *f.Example)
			default:
				return nil, errors.Errorf("example of unknown split %q", f.Split)
			}
		case FrameEnd:
			if !gotMeta {
				return nil, errors.New("dataset stream ended without metadata")
			}
			d.UpdateMeta()
			return &d, nil
		case FrameError:
			return nil, errors.Errorf("dataset service: %s", f.Error)
		default:
			return nil, errors.Errorf("unknown frame type %q", f.Type)
		}
	}
}
