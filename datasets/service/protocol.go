package service

import "encoding/json"

import "github.com/neurlang/svvit/config"
import "github.com/neurlang/svvit/datasets"

// Path is the websocket endpoint of the dataset service.
const Path = "/v1/datasets"

// Frame types.
const (
	FrameMeta    = "meta"
	FrameExample = "example"
	FrameEnd     = "end"
	FrameError   = "error"
)

// Request asks the service for a dataset.
type Request struct {
	Name    string                `json:"name"`
	Configs config.DatasetConfigs `json:"configs"`
	Seed    uint64                `json:"seed"`
}

// cacheKey identifies equal requests.
func (r Request) cacheKey() string {
	b, _ := json.Marshal(r)
	return string(b)
}

// Frame is one message sent by the service.
type Frame struct {
	Type    string             `json:"type"`
	Split   string             `json:"split,omitempty"`
	Meta    *datasets.MetaData `json:"meta,omitempty"`
	Example *datasets.Example  `json:"example,omitempty"`
	Error   string             `json:"error,omitempty"`
}
