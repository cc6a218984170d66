package cmd

import (
	"fmt"

	"github.com/boazmichaely/JobHuntAI/internal/views"
	"github.com/boazmichaely/JobHuntAI/pkg/models"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show search statistics",
	Run: func(cmd *cobra.Command, args []string) {
		opps, err := application.Store.Opportunities()
		if err != nil {
			fatalf("Error loading opportunities: %v", err)
		}
		acts, err := application.Store.Activities()
		if err != nil {
			fatalf("Error loading activities: %v", err)
		}
		contacts, err := application.Store.Contacts()
		if err != nil {
			fatalf("Error loading contacts: %v", err)
		}

		fmt.Println(titleStyle.Render("Job Search Statistics"))
		fmt.Println()
		fmt.Printf("%s %s\n", labelStyle.Render("Opportunities:"), valueStyle.Render(fmt.Sprintf("%d", len(opps))))
		fmt.Printf("%s %s\n", labelStyle.Render("Activities:  "), valueStyle.Render(fmt.Sprintf("%d", len(acts))))
		fmt.Printf("%s %s\n", labelStyle.Render("Contacts:    "), valueStyle.Render(fmt.Sprintf("%d", len(contacts))))
		fmt.Printf("%s %s\n", labelStyle.Render("Companies:   "), valueStyle.Render(fmt.Sprintf("%d", len(views.Companies(opps)))))

		counts := views.StatusCounts(opps)
		if len(counts) > 0 {
			fmt.Println()
			fmt.Println(titleStyle.Render("By Status"))
			for _, status := range models.Statuses {
				if n := counts[status]; n > 0 {
					fmt.Printf("  %-12s %d\n", status, n)
				}
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
