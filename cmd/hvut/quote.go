package main

import (
	"fmt"

	"github.com/rootlocus22/trucktax-app-sub002/internal/output"
	"github.com/spf13/cobra"
)

func newQuoteCmd(a *app) *cobra.Command {
	var (
		file      string
		format    string
		outputDir string
	)

	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Price a filing described in a YAML file",
		Example: `  hvut quote --file filing.yaml
  hvut quote --file filing.yaml --format json
  hvut quote --file filing.yaml --format html --output-dir reports`,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := a.parser.LoadFiling(file)
			if err != nil {
				return err
			}
			b, err := a.engine().CalculateFilingCost(req.Intent, req.Vehicles, req.Locale)
			if err != nil {
				return err
			}
			q := output.NewQuote(req, b)

			if outputDir != "" {
				path, err := output.GenerateReport(q, format, outputDir)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Quote written to %s\n", path)
				return nil
			}
			return output.WriteQuote(cmd.OutOrStdout(), q, format)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "filing YAML file")
	cmd.Flags().StringVar(&format, "format", "console", fmt.Sprintf("output format %v", output.AvailableFormatterNames()))
	cmd.Flags().StringVar(&outputDir, "output-dir", "", "write the quote to a timestamped file in this directory")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
