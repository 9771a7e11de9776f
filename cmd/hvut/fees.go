package main

import (
	"github.com/rootlocus22/trucktax-app-sub002/pkg/taxyear"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newFeesCmd(a *app) *cobra.Command {
	var (
		example       bool
		exampleFiling bool
	)

	cmd := &cobra.Command{
		Use:   "fees",
		Short: "Print the effective fee schedule, or example input files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var doc any = a.fees
			switch {
			case exampleFiling:
				doc = a.parser.CreateExampleFiling(taxyear.ForDate(now()))
			case example:
				doc = a.parser.CreateExampleFeeSchedule()
			}

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(doc); err != nil {
				return err
			}
			return enc.Close()
		},
	}

	cmd.Flags().BoolVar(&example, "example", false, "print an example fee schedule")
	cmd.Flags().BoolVar(&exampleFiling, "example-filing", false, "print an example filing")
	return cmd
}
