// Command svvit trains and evaluates hashtron vision transformers on
// structural variant pileup images.
//
//	svvit --config experiment.yaml --workdir /tmp/svvit --progress
//
// The configuration names the model (vit_classification,
// xvit_classification or topological_vit_classification), the trainer
// (classification_trainer, transfer_trainer, greedy_trainer,
// layerwise_trainer or inference) and the dataset (pileup_coverage or
// pileup_window). Checkpoints go to <workdir>/checkpoints, metrics to
// <workdir>/metrics.jsonl and, with --metrics_dsn, to Postgres.
package main
