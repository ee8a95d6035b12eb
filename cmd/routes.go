package cmd

import (
	"fmt"

	"github.com/cx-miguel-neiva/cwv-audit/internal/route"
	"github.com/cx-miguel-neiva/cwv-audit/utils"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func routesCmd() *cobra.Command {
	var product string
	var routes []string

	cmd := &cobra.Command{
		Use:   "routes",
		Short: "Print the pages that would be audited for a product URL",
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := route.ParseProduct(product)
			if err != nil {
				return err
			}
			m := route.Build(route.Origin(u), u.String(), routes)
			if len(m) == 0 {
				return fmt.Errorf("no valid routes selected")
			}

			t := utils.NewTable(cmd.OutOrStdout())
			t.AppendHeader(table.Row{"Route", "URL"})
			for _, name := range m.Names() {
				t.AppendRow(table.Row{name, m[name]})
			}
			t.Render()
			return nil
		},
	}

	cmd.Flags().StringVar(&product, "product", "", "Product page URL of the store (must contain /products/)")
	cmd.Flags().StringSliceVar(&routes, "routes", routeNames(route.All), "Pages to include")

	return cmd
}
