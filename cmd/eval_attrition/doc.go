// Package main provides the evaluation command for a saved attrition model.
// It loads a model bundle produced by train_attrition, scores a labeled HR
// CSV with it, and prints the confusion matrix and derived metrics.
package main
