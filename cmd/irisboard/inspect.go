package main

import (
	"fmt"
	"path/filepath"
	"text/tabwriter"

	"github.com/urfave/cli/v2"
)

func inspectCommand() *cli.Command {
	return &cli.Command{
		Name:   "inspect",
		Usage:  "describe the model and its performance on the reference dataset",
		Action: runInspect,
	}
}

func runInspect(c *cli.Context) error {
	_, board, cleanup, err := bootstrap(c, c.App.ErrWriter)
	if err != nil {
		return err
	}
	defer cleanup()

	b := board.Bundle
	w := c.App.Writer
	fmt.Fprintf(w, "Model: %s\n", b.Name)
	if b.Description != "" {
		fmt.Fprintln(w, b.Description)
	}
	for _, l := range b.Layers {
		fmt.Fprintf(w, "  layer %s: %d units %s\n", l.Name, l.Units, l.Activation)
	}
	if b.Loss != "" {
		fmt.Fprintf(w, "Loss function: %s\n", b.Loss)
	}
	fmt.Fprintf(w, "Total Parameters: %d\n\n", b.ParameterCount())

	r := board.Report
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "\tprecision\trecall\tf1-score\tsupport\t")
	for i, m := range r.Classes {
		fmt.Fprintf(tw, "%s\t%.2f\t%.2f\t%.2f\t%d\t\n", b.ClassNames[i], m.Precision, m.Recall, m.F1, m.Support)
	}
	fmt.Fprintf(tw, "macro avg\t%.2f\t%.2f\t%.2f\t%d\t\n", r.MacroAvg.Precision, r.MacroAvg.Recall, r.MacroAvg.F1, r.Support)
	fmt.Fprintf(tw, "weighted avg\t%.2f\t%.2f\t%.2f\t%d\t\n", r.WeightedAvg.Precision, r.WeightedAvg.Recall, r.WeightedAvg.F1, r.Support)
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(w, "\nAccuracy: %.0f%%\n", r.Accuracy*100)
	return nil
}

func exportCommand() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "write the active model artifact to a file",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     flagOut,
				Aliases:  []string{"o"},
				Usage:    "destination path; the extension selects json or gob",
				Required: true,
			},
		},
		Action: runExport,
	}
}

func runExport(c *cli.Context) error {
	_, board, cleanup, err := bootstrap(c, c.App.ErrWriter)
	if err != nil {
		return err
	}
	defer cleanup()

	out := c.String(flagOut)
	if err := board.Bundle.Save(out); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "wrote %s\n", filepath.Clean(out))
	return nil
}
