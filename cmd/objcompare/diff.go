package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/craigbuckler/objcompare"
	"github.com/spf13/cobra"
)

func newDiffCmd() *cobra.Command {
	var (
		asJSON    bool
		showStats bool
	)
	cmd := &cobra.Command{
		Use:   "diff OLD NEW",
		Short: "Compare two documents once",
		Long: `Compare two JSON or YAML files and print their differences.
Use "-" to read one side from stdin. Exits 1 when the documents differ.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			logger := newLogger(cfg)

			texts := make([]string, 2)
			for i, path := range args {
				if texts[i], err = readInput(path, cmd.InOrStdin()); err != nil {
					return err
				}
			}

			// both sides are entered before anything is shown, so there is
			// no renderer on the controller itself
			opts := append(controllerOptions(cfg, logger), objcompare.OptionSideNames(args[0], args[1]))
			c := objcompare.NewController(nil, opts...)
			c.Update(objcompare.Old, texts[0])
			res := c.Update(objcompare.New, texts[1])

			if res.IsError() {
				return fmt.Errorf("%s: %s", res.Rows[0].Cells[1], res.Rows[0].Cells[2])
			}

			out := cmd.OutOrStdout()
			if !asJSON {
				r := objcompare.NewTextRenderer(out, objcompare.OptionColor(useColor(cfg, os.Stdout)))
				if err := r.Render(res); err != nil {
					return err
				}
			} else {
				changes := objcompare.Sort(objcompare.Diff(c.Doc(objcompare.Old), c.Doc(objcompare.New)))
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(changes); err != nil {
					return err
				}
			}
			if showStats {
				st := c.Stats()
				summary := objcompare.FormatPrettyStats(&st)
				if useColor(cfg, os.Stderr) {
					summary = objcompare.FormatPrettyStatsColor(&st)
				}
				fmt.Fprint(cmd.ErrOrStderr(), summary)
			}

			if !res.NoChanges {
				return errDifferent{}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print changes as JSON")
	cmd.Flags().BoolVar(&showStats, "stats", false, "print a summary of node counts to stderr")
	return cmd
}

func readInput(path string, stdin io.Reader) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}
