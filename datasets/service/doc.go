// Package service serves built datasets over a websocket so several trainers
// can share one dataset builder.
//
// A client connects to /v1/datasets and sends one Request. The server
// answers with a meta frame, one example frame per example in split order
// (train, valid, test) and a final end frame. Failures are reported with a
// single error frame. Built datasets are kept in an LRU cache keyed by the
// request.
package service
