package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/tabml/gboost/dataset"
	"github.com/tabml/gboost/dataset/attrition"
	"github.com/tabml/gboost/eval"
	"github.com/tabml/gboost/pipeline"
)

func main() {
	if err := rootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCommand() *cobra.Command {
	var (
		modelPath string
		dataPath  string
		threshold float64
		verbose   bool
	)

	cmd := &cobra.Command{
		Use:   "eval_attrition",
		Short: "Score a labeled HR CSV with a saved attrition model",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := buildLogger(verbose)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			b, err := pipeline.LoadBundle(modelPath)
			if err != nil {
				return err
			}
			log.Info("loaded model bundle",
				zap.String("path", modelPath),
				zap.Int("trees", b.Model.NTrees()),
				zap.Int("features", len(b.Model.Features())))

			ds, err := dataset.Load(dataPath)
			if err != nil {
				return err
			}
			cleaned, _, err := dataset.Clean(ds, attrition.Schema(), log)
			if err != nil {
				return err
			}
			x, y, err := b.Encoding.Apply(cleaned)
			if err != nil {
				return err
			}

			report, err := eval.Evaluate(b.Model, x, y, threshold)
			if err != nil {
				return err
			}
			fmt.Println(report)
			return nil
		},
	}

	cmd.Flags().StringVarP(&modelPath, "model", "m", "", "Path to a saved model bundle")
	cmd.Flags().StringVarP(&dataPath, "data", "d", "", "Path to the labeled HR CSV to score")
	cmd.Flags().Float64VarP(&threshold, "threshold", "t", 0.5, "Probability threshold for the positive label")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	_ = cmd.MarkFlagRequired("model")
	_ = cmd.MarkFlagRequired("data")
	return cmd
}

func buildLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}
	return cfg.Build()
}
