package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/blimu-dev/pyclient-gen/internal/cli"
	"github.com/blimu-dev/pyclient-gen/pkg/openapi"
)

func main() {
	root := &cobra.Command{
		Use:           "pyclient-gen",
		Short:         "Generate a typed Python HTTP client from an OpenAPI document read on stdin",
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	root.AddCommand(newModeCmd(openapi.FormatYAML))
	root.AddCommand(newModeCmd(openapi.FormatJSON))

	if err := root.Execute(); err != nil {
		// %+v prints the stack captured for parse errors
		fmt.Fprintf(os.Stderr, "error: %+v\n", err)
		os.Exit(1)
	}
}

func newModeCmd(format openapi.Format) *cobra.Command {
	var params cli.RunParams

	cmd := &cobra.Command{
		Use:   string(format),
		Short: fmt.Sprintf("Read a %s document from stdin and write the client module to stdout", format),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			params.Format = format
			return cli.Run(params)
		},
	}

	cmd.Flags().StringVarP(&params.ConfigPath, "config", "c", "", "Path to pyclient-gen.yaml config")
	cmd.Flags().StringVar(&params.ClientName, "client-name", "", "Client class name")
	cmd.Flags().StringVar(&params.BaseURL, "base-url", "", "Default base URL for the client")
	cmd.Flags().StringArrayVar(&params.IncludeTags, "include-tags", nil, "Regex patterns for tags to include")
	cmd.Flags().StringArrayVar(&params.ExcludeTags, "exclude-tags", nil, "Regex patterns for tags to exclude")
	cmd.Flags().BoolVar(&params.StrictSecurity, "strict-security", false, "Fail when an operation's security scheme is not supported")
	cmd.Flags().BoolVar(&params.DropReferencedParameters, "drop-referenced-parameters", false, "Skip referenced parameters with a warning instead of failing")
	cmd.Flags().BoolVarP(&params.Verbose, "verbose", "v", false, "Log each resolved operation")

	return cmd
}
