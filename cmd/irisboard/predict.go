package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	"github.com/YuminosukeSato/irisboard/dataset"
	"github.com/YuminosukeSato/irisboard/panel"
)

// featureFlags maps command line flags to dataset columns.
var featureFlags = []struct {
	flag   string
	column string
}{
	{"sepal-length", dataset.SepalLength},
	{"sepal-width", dataset.SepalWidth},
	{"petal-length", dataset.PetalLength},
	{"petal-width", dataset.PetalWidth},
}

func predictCommand() *cli.Command {
	flags := []cli.Flag{
		&cli.BoolFlag{Name: flagJSON, Usage: "print the result as JSON"},
	}
	for _, f := range featureFlags {
		flags = append(flags, &cli.Float64Flag{
			Name:  f.flag,
			Usage: f.column + "; the dataset mean when omitted",
		})
	}
	return &cli.Command{
		Name:   "predict",
		Usage:  "classify one flower from its measurements",
		Flags:  flags,
		Action: runPredict,
	}
}

type predictOutput struct {
	Index  int                `json:"index"`
	Label  string             `json:"label,omitempty"`
	Known  bool               `json:"known"`
	Scores map[string]float64 `json:"scores,omitempty"`
}

func runPredict(c *cli.Context) error {
	_, board, cleanup, err := bootstrap(c, c.App.ErrWriter)
	if err != nil {
		return err
	}
	defer cleanup()

	vec := board.Form.Defaults()
	for _, f := range featureFlags {
		if !c.IsSet(f.flag) {
			continue
		}
		for i, col := range vec.Columns {
			if col == f.column {
				vec.Values[i] = c.Float64(f.flag)
			}
		}
	}
	if err := board.Form.Validate(vec); err != nil {
		return err
	}

	var state panel.PredictionState
	p, err := board.Controller.Submit(c.Context, &state, vec)
	if err != nil {
		return err
	}
	view := board.Controller.Render(state)

	out := predictOutput{Index: view.Index, Label: view.Label, Known: view.Kind == panel.ViewLabel}
	if len(p.Scores) > 0 {
		out.Scores = make(map[string]float64, len(p.Scores))
		for i, s := range p.Scores {
			name, ok := board.Controller.Label(i)
			if !ok {
				name = fmt.Sprintf("class_%d", i)
			}
			out.Scores[name] = s
		}
	}

	w := c.App.Writer
	if c.Bool(flagJSON) {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	if view.Kind == panel.ViewUnknown {
		fmt.Fprintln(w, view.Message)
		return nil
	}
	fmt.Fprintf(w, "Predicted species: %s\n", view.Label)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for i, s := range p.Scores {
		name, _ := board.Controller.Label(i)
		fmt.Fprintf(tw, "  %s\t%.4f\n", name, s)
	}
	return tw.Flush()
}
