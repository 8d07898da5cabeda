package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/octobees/house-price-estimator/internal/catalog"
)

func locationsCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "locations",
		Short: "List the locations the service knows about",
		RunE: func(cmd *cobra.Command, args []string) error {
			avail := catalog.NewLoader(e.client, catalog.WithLogger(e.logger)).Boot(cmd.Context())
			out := cmd.OutOrStdout()
			if !avail.Ready() {
				fmt.Fprintln(cmd.ErrOrStderr(), avail.Hint())
				return catalogError(avail)
			}
			for _, loc := range avail.Catalog().Entries() {
				fmt.Fprintf(out, "%s\t%s\n", loc.Label, loc.Key)
			}
			fmt.Fprintln(out, avail.Hint())
			return nil
		},
	}
	return cmd
}
