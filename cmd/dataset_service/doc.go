// Command dataset_service builds pileup datasets for remote runners and
// streams them over websockets.
//
//	dataset_service --addr :8080 --cache 16
//
// Runners started with --dataset_service_address ws://host:8080 fetch their
// datasets from it instead of reading the files themselves.
package main
