// Package trainer provides high-level training orchestration for hashtron
// networks. It keeps the registry of generic trainers and the shared loop
// retraining one hashtron at a time from majority vote tallies, without
// backpropagation or floating-point operations.
package trainer
