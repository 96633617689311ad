package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nkhattar/comparekart/internal/api/client"
)

func searchCmd() *cobra.Command {
	var (
		category string
		sortMode string
		minPrice float64
		maxPrice float64
		stores   []string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Compare offers for a query across platforms",
		Long:  "Runs one comparison cycle on the API server and displays the ranked offers.",
		Example: `  comparekart search "paneer pizza" --category food
  comparekart search "iphone 15" --category shop --sort cheapest --max-price 80000
  comparekart search "airport" --category ride --stores Uber,Ola`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := client.CompareRequest{
				Query:    args[0],
				Category: category,
				Sort:     sortMode,
				Stores:   stores,
			}
			if cmd.Flags().Changed("min-price") {
				req.MinPrice = &minPrice
			}
			if cmd.Flags().Changed("max-price") {
				req.MaxPrice = &maxPrice
			}

			c := client.New(viper.GetString("server"))
			resp, err := c.Compare(cmd.Context(), req)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(resp)
			}

			fmt.Printf("%d items (source: %s)\n\n", resp.Count, resp.Source)
			return printComparisonTable(resp.Items)
		},
	}

	cmd.Flags().StringVar(&category, "category", "food", "search vertical (food, shop, ride)")
	cmd.Flags().StringVar(&sortMode, "sort", "", "sort mode (best_match, cheapest, fastest)")
	cmd.Flags().Float64Var(&minPrice, "min-price", 0, "inclusive lower bound on item best price")
	cmd.Flags().Float64Var(&maxPrice, "max-price", 0, "inclusive upper bound on item best price")
	cmd.Flags().StringSliceVar(&stores, "stores", nil, "platform names to keep (comma separated)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print raw JSON response")

	return cmd
}
