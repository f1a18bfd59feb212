package cmd

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Simplici0/pintorpro/internal/app"
	"github.com/Simplici0/pintorpro/internal/estimate"
	"github.com/Simplici0/pintorpro/internal/pricing"
)

type measureFlags struct {
	linear   bool
	height   string
	width    string
	length   string
	discount string
}

func (m *measureFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&m.linear, "linear", false, "price by linear metres instead of area")
	cmd.Flags().StringVar(&m.height, "height", "", "wall height in metres")
	cmd.Flags().StringVar(&m.width, "width", "", "wall width in metres")
	cmd.Flags().StringVar(&m.length, "length", "", "length in linear metres")
	cmd.Flags().StringVar(&m.discount, "discount", "", "discount percent (0-100)")
}

func (m *measureFlags) measurement() app.Measurement {
	kind := pricing.KindArea
	if m.linear {
		kind = pricing.KindLinear
	}
	return app.Measurement{
		Kind:            kind,
		Height:          m.height,
		Width:           m.width,
		Length:          m.length,
		DiscountEnabled: strings.TrimSpace(m.discount) != "",
		DiscountPercent: m.discount,
	}
}

func newCalcCmd(c *cli) *cobra.Command {
	var m measureFlags
	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Price a measurement with the stored settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.open(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			calc, err := a.Calculate(cmd.Context(), m.measurement())
			if err != nil {
				return err
			}
			c.printCalculation(cmd.OutOrStdout(), calc)
			return nil
		},
	}
	m.register(cmd)
	return cmd
}

func (c *cli) printCalculation(out io.Writer, calc pricing.Calculation) {
	f := c.format
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Medida:\t%s %s\n", f.Quantity(calc.Area), calc.MeasureKind.Unit())
	fmt.Fprintf(tw, "Pintura:\t%s\n", f.Quantity(calc.PaintVolume))
	fmt.Fprintf(tw, "Precio bruto:\t%s\n", f.Money(calc.GrossPrice))
	if calc.HasDiscount() && calc.DiscountAmount.Round(0).IsPositive() {
		fmt.Fprintf(tw, "Descuento (%s%%):\t%s\n", f.Quantity(calc.DiscountPercent), f.NegativeMoney(calc.DiscountAmount))
	}
	fmt.Fprintf(tw, "Precio neto:\t%s\n", f.Money(calc.NetPrice))
	tw.Flush()
}

func newQuoteCmd(c *cli) *cobra.Command {
	var (
		m      measureFlags
		id     int64
		client estimate.ClientInfo
		extras []string
	)
	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Save an estimate, or edit one with --id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.open(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			e, err := a.SaveQuote(cmd.Context(), app.QuoteRequest{
				ID:          id,
				Client:      client,
				Measurement: m.measurement(),
				LineItems:   parseExtras(extras),
			})
			if err != nil {
				return userError(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Presupuesto %d guardado: %s (%s)\n", e.ID, e.Client.Name, c.format.Money(e.Total))
			return nil
		},
	}
	m.register(cmd)
	cmd.Flags().Int64Var(&id, "id", 0, "id of the estimate to edit")
	cmd.Flags().StringVar(&client.Name, "client", "", "client name (required)")
	cmd.Flags().StringVar(&client.Address, "address", "", "client address")
	cmd.Flags().StringVar(&client.Phone, "phone", "", "client phone")
	cmd.Flags().StringArrayVar(&extras, "extra", nil, `additional work as "description=amount" (repeatable)`)
	return cmd
}

// parseExtras reads "description=amount" pairs. A missing or unreadable
// amount counts as zero, as in the estimate form.
func parseExtras(raw []string) []estimate.LineItem {
	items := make([]estimate.LineItem, 0, len(raw))
	for _, r := range raw {
		desc, amount := r, ""
		if i := strings.LastIndex(r, "="); i >= 0 {
			desc, amount = r[:i], r[i+1:]
		}
		items = append(items, estimate.LineItem{Description: desc, Amount: pricing.ParseAmount(amount)})
	}
	return items
}

func newListCmd(c *cli) *cobra.Command {
	var query string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved estimates, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.open(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			list := a.History.Search(cmd.Context(), query)
			out := cmd.OutOrStdout()
			if len(list) == 0 {
				fmt.Fprintln(out, "No hay presupuestos guardados.")
				return nil
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tFECHA\tCLIENTE\tTOTAL")
			for _, e := range list {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", e.ID, e.CreatedDate, e.Client.Name, c.format.Money(e.Total))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "filter by client name, address or phone")
	return cmd
}

func newShowCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Print an estimate as text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDArgs(args)
			if err != nil {
				return err
			}
			a, err := c.open(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			doc, err := a.Document(cmd.Context(), ids)
			if err != nil {
				return userError(err)
			}
			fmt.Fprint(cmd.OutOrStdout(), doc.PlainText())
			return nil
		},
	}
}

func newDeleteCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>...",
		Short: "Delete estimates by id",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDArgs(args)
			if err != nil {
				return err
			}
			a, err := c.open(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			removed, err := a.History.DeleteByIDs(cmd.Context(), ids)
			if err != nil {
				return userError(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d presupuesto(s) eliminado(s).\n", removed)
			return nil
		},
	}
}

func parseIDArgs(args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, a := range args {
		id, err := strconv.ParseInt(strings.TrimSpace(a), 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid estimate id %q", a)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// userError swaps domain errors for the message shown to contractors.
func userError(err error) error {
	var verr *estimate.ValidationError
	switch {
	case errors.As(err, &verr):
		return errors.New(verr.Message())
	case errors.Is(err, estimate.ErrNotFound):
		return errors.New("Presupuesto no encontrado.")
	}
	return err
}
