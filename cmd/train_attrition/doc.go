// Package main provides the training command for the employee attrition
// classifier. It cleans a Kaggle-style HR CSV (or a synthesized stand-in when
// no file is given), grid-searches a gradient boosted tree ensemble with
// stratified cross-validation, and reports recall on the held-out partitions.
package main
