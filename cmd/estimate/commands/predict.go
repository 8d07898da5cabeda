package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/octobees/house-price-estimator/internal/catalog"
	"github.com/octobees/house-price-estimator/internal/estimator"
	"github.com/octobees/house-price-estimator/internal/prompt"
	"github.com/octobees/house-price-estimator/internal/render"
)

func predictCmd(e *env) *cobra.Command {
	var (
		pre         prompt.Prefill
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Estimate the price of a house",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			avail := catalog.NewLoader(e.client, catalog.WithLogger(e.logger)).Boot(ctx)
			if !avail.Ready() {
				fmt.Fprintln(cmd.ErrOrStderr(), avail.Hint())
				return catalogError(avail)
			}

			ask := interactive
			if !cmd.Flags().Changed("interactive") {
				ask = !pre.Complete() && e.isTTY()
			}

			var in estimator.FormInput
			if ask {
				var err error
				in, err = prompt.Form(ctx, e.driver, avail.Catalog(), pre)
				if err != nil {
					return err
				}
			} else {
				location := prompt.ResolveLocation(avail.Catalog(), pre.Location)
				in = estimator.ParseForm(pre.Sqft, pre.BHK, pre.Bath, location)
			}

			orch := estimator.New(e.client, avail, estimator.WithLogger(e.logger))
			est, err := orch.Submit(ctx, in)

			formatter := render.NewFormatter(e.price.Locale, e.price.Currency, e.price.Unit)
			view := formatter.Outcome(est, err)
			if rerr := render.Text(cmd.OutOrStdout(), view); rerr != nil {
				return rerr
			}
			if err != nil && view.Kind != render.KindNone {
				return reportedError{err}
			}
			return err
		},
	}

	cmd.Flags().StringVar(&pre.Sqft, "sqft", "", "total square feet (>= 100)")
	cmd.Flags().StringVar(&pre.BHK, "bhk", "", "bedrooms, hall and kitchen (1-10)")
	cmd.Flags().StringVar(&pre.Bath, "bath", "", "bathrooms (1-10)")
	cmd.Flags().StringVar(&pre.Location, "location", "", "location key or label")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "prompt for missing values")
	return cmd
}
