package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "relocate",
		Short: "Household relocation model for urban land-use simulation",
	}

	flags := &runFlags{}
	flags.register(rootCmd)

	rootCmd.AddCommand(simulateCmd(flags))
	rootCmd.AddCommand(validateCmd())
	rootCmd.AddCommand(summaryCmd(flags))
	rootCmd.AddCommand(serveCmd(flags))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func simulateCmd(flags *runFlags) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "simulate [project-path]",
		Short: "Run the relocation model for one or more years",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			run, err := flags.runConfig(cmd)
			if err != nil {
				return err
			}
			return runSimulate(cmd.Context(), args[0], run, jsonOut)
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "print year reports as JSON")
	return cmd
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [project-path]",
		Short: "Validate a scenario without running the model",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runValidate(args[0])
		},
	}
}

func summaryCmd(flags *runFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "summary [project-path]",
		Short: "Print the housing market summary of a scenario",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			run, err := flags.runConfig(cmd)
			if err != nil {
				return err
			}
			return runSummary(args[0], run)
		},
	}
}

func serveCmd(flags *runFlags) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve [project-path]",
		Short: "Start an HTTP server that simulates years on request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			run, err := flags.runConfig(cmd)
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), args[0], port, run)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 3000, "HTTP server port")
	return cmd
}
