// Package config defines the experiment configuration: which model, trainer
// and dataset to use, plus every training and evaluation parameter.
// Configurations are YAML files with ${VAR} environment expansion.
package config
