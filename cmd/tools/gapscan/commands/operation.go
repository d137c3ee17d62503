package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/soltixdb/gapscan/internal/services"
)

// NewOperationCommand builds "gapscan op <name>"
func NewOperationCommand() *cobra.Command {
	var in inputFlags

	command := &cobra.Command{
		Use:   "op <operation>",
		Short: "Run a single gap operation and print its JSON result",
		Long: "Run a single gap operation and print its JSON result.\n\nOperations: " +
			strings.Join(services.ListOperations(), ", "),
		Example: `  gapscan op validity --input prices.csv --window 5 --mode percentage`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := cliLogger(cmd)
			svc, req, err := in.load(loadConfig(), logger)
			if err != nil {
				return err
			}
			resp, err := svc.Compute(cmd.Context(), args[0], req)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), resp)
		},
	}

	in.register(command)
	return command
}

// NewListOperationsCommand builds "gapscan ops"
func NewListOperationsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ops",
		Short: "List the available gap operations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range services.ListOperations() {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), name); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
