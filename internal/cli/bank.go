package cli

import (
	"fmt"

	"blockchainiq/internal/bank"
	"blockchainiq/internal/domain"
	"github.com/spf13/cobra"
)

// NewBankCmd validates the embedded bank and prints its composition.
func NewBankCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bank",
		Short: "Validate the embedded question bank and print stats",
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := bank.Default()
			if err != nil {
				return err
			}
			stats := bank.Summarize(b)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "bank %s: %d questions\n", stats.ID, stats.Total)
			for _, c := range stats.SortedCategories() {
				fmt.Fprintf(out, "  %-10s %d\n", c, stats.ByCategory[c])
			}
			for _, d := range domain.Difficulties {
				fmt.Fprintf(out, "  %-10s %d\n", d, stats.ByDifficulty[d])
			}
			return nil
		},
	}
}
