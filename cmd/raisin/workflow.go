package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"raisingate/adapters/tabular"
	"raisingate/domain/dataset"
	"raisingate/domain/schema"
	"raisingate/internal/acquire"
	"raisingate/internal/errors"
	"raisingate/internal/model"
	"raisingate/internal/prep"
	"raisingate/internal/visualize"
)

func loadTable(a *app, path string) (*dataset.Dataset, error) {
	ds, err := tabular.NewDataReader(path, tabular.DefaultReaderConfig()).WithLogger(a.logger).Load()
	if err != nil {
		return nil, errors.WithCode(errors.CodeInvalidInput, errors.Wrapf(err, "failed to read %s", path))
	}
	return ds, nil
}

func newAcquireCmd(a *app) *cobra.Command {
	var dataPath string

	cmd := &cobra.Command{
		Use:   "acquire [url-or-path] [output]",
		Short: "Download or copy the raw dataset to a CSV file",
		Long: `Download the dataset when the source is an http(s) URL, otherwise read the
local CSV or XLSX table and write it back as CSV.

JSON responses are converted to CSV; --data-path selects the record array
with a gjson path.

Example: raisin acquire https://example.org/raisin.csv data/raw/raisin.csv`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := acquire.Options{
				Timeout:   a.config.Acquire.Timeout,
				UserAgent: a.config.Acquire.UserAgent,
				DataPath:  dataPath,
			}
			res, err := acquire.NewFetcher(opts).WithLogger(a.logger).Acquire(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			if res.Remote {
				fmt.Fprintf(cmd.OutOrStdout(), "Data downloaded and saved to %s\n", res.Output)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Data copied to %s\n", res.Output)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dataPath, "data-path", "", "gjson path to the record array in a JSON response")
	return cmd
}

func newCleanCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clean [input] [output]",
		Short: "Clean, split and scale the raw dataset",
		Long: `Drop duplicate and incomplete rows and the pandas index column, split the
rows into train and test sets, and standardise the features with statistics
from the training split.

The output path names both files: raisin.csv becomes raisin_train.csv and
raisin_test.csv.

Example: raisin clean data/raw/raisin.csv data/processed/raisin.csv`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := loadTable(a, args[0])
			if err != nil {
				return err
			}

			opts := prep.DefaultOptions()
			opts.TestSize = a.config.Prep.TestSize
			opts.Seed = a.config.Prep.Seed
			res, err := prep.Process(ds, opts, a.logger)
			if err != nil {
				return errors.Wrap(err, "failed to process data")
			}

			trainPath, testPath := prep.SplitPaths(args[1])
			if err := tabular.SaveCSV(trainPath, res.Train); err != nil {
				return err
			}
			if err := tabular.SaveCSV(testPath, res.Test); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Processed train and test files saved.")
			return nil
		},
	}
}

func newVisualizeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "visualize [input] [output-dir]",
		Short: "Write exploratory charts for a processed dataset",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := loadTable(a, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Loaded %d rows with %d columns\n", ds.RowCount(), ds.ColumnCount())

			paths, err := visualize.EDA(ds, schema.Class, args[1], a.logger)
			if err != nil {
				return errors.Wrap(err, "failed to create charts")
			}
			for _, p := range paths {
				fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", p)
			}
			return nil
		},
	}
}

func newFitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "fit [train] [test] [output-prefix]",
		Short: "Train a logistic regression model and write evaluation artifacts",
		Long: `Train a logistic regression classifier on the training split, evaluate it on
the test split and write <prefix>_model.json, <prefix>_classification_report.csv,
<prefix>_model_summary.txt, <prefix>_feature_importance.csv|png and
<prefix>_confusion_matrix.csv|png.

Example: raisin fit data/processed/raisin_train.csv data/processed/raisin_test.csv results/raisin`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			train, err := loadTable(a, args[0])
			if err != nil {
				return err
			}
			test, err := loadTable(a, args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Training set: %d rows\nTest set: %d rows\n", train.RowCount(), test.RowCount())

			c, err := model.Train(train, schema.Class, model.TrainConfig{
				LearningRate: a.config.Model.LearningRate,
				Iterations:   a.config.Model.Iterations,
				L2:           a.config.Model.L2,
			})
			if err != nil {
				return errors.Wrap(err, "failed to train model")
			}
			metrics, err := c.Evaluate(test)
			if err != nil {
				return errors.Wrap(err, "failed to evaluate model")
			}

			prefix := args[2]
			paths, err := model.WriteArtifacts(prefix, c, metrics)
			if err != nil {
				return err
			}
			if err := visualize.ConfusionMatrix(metrics, prefix+"_confusion_matrix.png"); err != nil {
				return err
			}
			if err := visualize.FeatureImportance(c.FeatureImportance(), prefix+"_feature_importance.png"); err != nil {
				return err
			}

			fmt.Fprintf(out, "Model saved to %s\n", paths.Model)
			fmt.Fprintf(out, "Accuracy: %.4f\n", metrics.Accuracy)
			fmt.Fprintf(out, "Artifacts written under %s\n", filepath.Dir(paths.Model))
			return nil
		},
	}
}

func newPredictCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "predict [model] [input] [output]",
		Short: "Label rows with a fitted model",
		Long: `Apply a model written by "raisin fit" to a CSV on the same scale as its
training file, such as a processed test split, and write the input with a
Predicted column and the probability of the second label.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := model.Load(args[0])
			if err != nil {
				return err
			}
			ds, err := loadTable(a, args[1])
			if err != nil {
				return err
			}

			labels, err := c.Predict(ds)
			if err != nil {
				return errors.Wrap(err, "failed to predict")
			}
			proba, err := c.PredictProba(ds)
			if err != nil {
				return errors.Wrap(err, "failed to predict")
			}

			cols := append(ds.Columns(),
				dataset.NewStringColumn("Predicted", labels),
				dataset.NewFloatColumn("P("+c.Labels[1]+")", proba),
			)
			out, err := dataset.New(cols...)
			if err != nil {
				return err
			}
			if err := tabular.SaveCSV(args[2], out); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Predictions for %d rows saved to %s\n", out.RowCount(), args[2])
			return nil
		},
	}
}
