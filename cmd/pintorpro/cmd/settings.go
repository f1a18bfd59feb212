package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Simplici0/pintorpro/internal/estimate"
	"github.com/Simplici0/pintorpro/internal/seed"
)

func newSettingsCmd(c *cli) *cobra.Command {
	settings := &cobra.Command{
		Use:   "settings",
		Short: "Show or change pricing and company details",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.open(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			p := a.Settings.Pricing(cmd.Context())
			co := a.Settings.Company(cmd.Context())

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(tw, "Precio por unidad:\t%s\n", c.format.Money(p.UnitPrice))
			fmt.Fprintf(tw, "Cobertura por unidad:\t%s\n", c.format.Quantity(p.CoveragePerUnit))
			fmt.Fprintf(tw, "Empresa:\t%s\n", co.Name)
			fmt.Fprintf(tw, "Dirección:\t%s\n", co.Address)
			fmt.Fprintf(tw, "Teléfono:\t%s\n", co.Phone)
			fmt.Fprintf(tw, "Email:\t%s\n", co.Email)
			logo := "no"
			if co.HasLogo() {
				logo = "sí"
			}
			fmt.Fprintf(tw, "Logo:\t%s\n", logo)
			return tw.Flush()
		},
	}
	settings.AddCommand(newPricingCmd(c), newCompanyCmd(c))
	return settings
}

func newPricingCmd(c *cli) *cobra.Command {
	var unitPrice, coverage string
	cmd := &cobra.Command{
		Use:   "pricing",
		Short: "Update unit price and coverage; invalid values keep the current ones",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.open(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			p, err := a.Settings.UpdatePricing(cmd.Context(), unitPrice, coverage)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Precio por unidad: %s, cobertura: %s\n", c.format.Money(p.UnitPrice), c.format.Quantity(p.CoveragePerUnit))
			return nil
		},
	}
	cmd.Flags().StringVar(&unitPrice, "unit-price", "", "price per m² or linear metre")
	cmd.Flags().StringVar(&coverage, "coverage", "", "m² covered by one unit of paint")
	return cmd
}

func newCompanyCmd(c *cli) *cobra.Command {
	var (
		profile    estimate.CompanyProfile
		logoPath   string
		removeLogo bool
	)
	cmd := &cobra.Command{
		Use:   "company",
		Short: "Update the letterhead printed on documents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if logoPath != "" {
				data, err := os.ReadFile(logoPath)
				if err != nil {
					return fmt.Errorf("read logo: %w", err)
				}
				profile.Logo = data
			}
			a, err := c.open(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			current := a.Settings.Company(ctx)
			flags := cmd.Flags()
			if !flags.Changed("name") {
				profile.Name = current.Name
			}
			if !flags.Changed("address") {
				profile.Address = current.Address
			}
			if !flags.Changed("phone") {
				profile.Phone = current.Phone
			}
			if !flags.Changed("email") {
				profile.Email = current.Email
			}
			if err := a.Settings.UpdateCompany(ctx, profile, removeLogo); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Datos de la empresa guardados.")
			return nil
		},
	}
	cmd.Flags().StringVar(&profile.Name, "name", "", "company name")
	cmd.Flags().StringVar(&profile.Address, "address", "", "company address")
	cmd.Flags().StringVar(&profile.Phone, "phone", "", "company phone")
	cmd.Flags().StringVar(&profile.Email, "email", "", "company email")
	cmd.Flags().StringVar(&logoPath, "logo", "", "image file to print as logo")
	cmd.Flags().BoolVar(&removeLogo, "remove-logo", false, "remove the stored logo")
	return cmd
}

func newImportCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "import <snapshot.json>",
		Short: "Merge estimates from a browser backup into the history",
		Long: `Reads a backup of the browser version of the app (the pintorProDB
localStorage entry saved as JSON) and adds every estimate whose id is not
already stored. Running it twice adds nothing.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read snapshot: %w", err)
			}
			a, err := c.open(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			stats, err := seed.Run(cmd.Context(), a.Repo, seed.Config{Legacy: data})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d presupuesto(s) importado(s).\n", stats.Inserts)
			return nil
		},
	}
}
