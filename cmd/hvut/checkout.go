package main

import (
	"fmt"
	"os"

	"github.com/rootlocus22/trucktax-app-sub002/internal/filing"
	"github.com/rootlocus22/trucktax-app-sub002/internal/output"
	"github.com/rootlocus22/trucktax-app-sub002/internal/payments"
	"github.com/spf13/cobra"
)

func newCheckoutCmd(a *app) *cobra.Command {
	var (
		file         string
		registryFile string
		stripeKey    string
	)

	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Save a filing as a draft, pre-fill the carrier and charge the grand total",
		Long: `Checkout prices the filing, pre-fills the carrier identity from a registry
snapshot when one is given, and charges the grand total through Stripe.
Filings with nothing to charge are submitted without a payment.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := a.parser.LoadFiling(file)
			if err != nil {
				return err
			}

			var registry filing.RegistryLookup
			if registryFile != "" {
				carriers, err := a.parser.LoadCarriers(registryFile)
				if err != nil {
					return err
				}
				registry = filing.NewStaticRegistry(carriers)
			}

			if stripeKey == "" {
				stripeKey = os.Getenv("STRIPE_SECRET_KEY")
			}
			var gateway filing.PaymentGateway
			if stripeKey != "" {
				gw, err := payments.NewStripeGateway(stripeKey, a.logger.Desugar())
				if err != nil {
					return err
				}
				gateway = gw
			}

			svc := filing.NewService(filing.NewMemoryStore(), a.engine(), registry, gateway)
			svc.SetLogger(a.logger)

			ctx := cmd.Context()
			d, err := svc.SaveDraft(ctx, *req)
			if err != nil {
				return err
			}
			if registry != nil && req.CarrierID != "" {
				if d, err = svc.Prefill(ctx, d.ID); err != nil {
					return err
				}
			}
			if d, err = svc.Checkout(ctx, d.ID); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if err := output.WriteQuote(out, output.NewQuote(&d.Request, d.Breakdown), "console"); err != nil {
				return err
			}
			fmt.Fprintln(out)
			fmt.Fprintf(out, "Draft:  %s\n", d.ID)
			fmt.Fprintf(out, "Status: %s\n", d.Status)
			if d.Identity != nil {
				fmt.Fprintf(out, "Filer:  %s (EIN %s)\n", d.Identity.LegalName, d.Identity.EIN)
			}
			if d.Payment != nil {
				fmt.Fprintf(out, "Payment: %s %s %s\n", d.Payment.Provider, d.Payment.ID, d.Payment.Status)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "filing YAML file")
	cmd.Flags().StringVar(&registryFile, "registry", "", "carrier registry YAML used to pre-fill the filer")
	cmd.Flags().StringVar(&stripeKey, "stripe-key", "", "Stripe secret key (defaults to $STRIPE_SECRET_KEY)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
