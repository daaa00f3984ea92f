package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-bfhl/pkg/contract"
)

func newContractCmd(_ *app) *cobra.Command {
	var summary bool
	cmd := &cobra.Command{
		Use:   "contract",
		Short: "Print the OpenAPI description of the bfhl API",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if !summary {
				_, err := out.Write(contract.Raw())
				return err
			}
			c, err := contract.Load(cmd.Context())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(out, "%s %s\nrequest:  %s\nresponse: %s\n",
				c.Method, c.Path,
				strings.Join(c.RequestFields, ", "),
				strings.Join(c.ResponseKeys, ", "))
			return err
		},
	}
	cmd.Flags().BoolVar(&summary, "summary", false, "print method, path and field names only")
	return cmd
}
