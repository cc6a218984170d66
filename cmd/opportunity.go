package cmd

import (
	"fmt"

	"github.com/boazmichaely/JobHuntAI/internal/views"
	"github.com/boazmichaely/JobHuntAI/pkg/models"
	"github.com/spf13/cobra"
)

var oppCmd = &cobra.Command{
	Use:     "opportunity",
	Aliases: []string{"opp"},
	Short:   "Manage job opportunities",
	Long:    "Add, list, inspect, update and delete tracked job opportunities",
}

var oppAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a new opportunity",
	Example: `  jobhuntai opportunity add --company "Acme Inc" --position "Backend Engineer"
  jobhuntai opp add --company Globex --position "SRE" --role "Site Reliability Engineer" --status Applied`,
	Run: func(cmd *cobra.Command, args []string) {
		company, _ := cmd.Flags().GetString("company")
		position, _ := cmd.Flags().GetString("position")
		role, _ := cmd.Flags().GetString("role")
		description, _ := cmd.Flags().GetString("description")
		status, _ := cmd.Flags().GetString("status")

		if company == "" || position == "" {
			fmt.Println("Both --company and --position are required")
			return
		}
		if status == "" {
			status = string(models.StatusIdentified)
		}
		if !models.ValidStatus(models.Status(status)) {
			fmt.Printf("Invalid status. Must be one of: %v\n", models.Statuses)
			return
		}
		if role == "" {
			role = position
		}

		opps, err := application.Store.Opportunities()
		if err != nil {
			fatalf("Error loading opportunities: %v", err)
		}

		now := models.Now()
		opp := models.Opportunity{
			ID:          models.NewID(),
			Position:    position,
			Role:        role,
			Company:     company,
			Description: description,
			Status:      models.Status(status),
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		opps = append(opps, opp)
		if err := application.Store.SetOpportunities(opps); err != nil {
			fatalf("Error saving opportunity: %v", err)
		}

		fmt.Printf("✓ Added opportunity %s at %s (id %s)\n", opp.Position, opp.Company, shortID(opp.ID))
	},
}

var oppListCmd = &cobra.Command{
	Use:   "list",
	Short: "List opportunities",
	Example: `  jobhuntai opportunity list
  jobhuntai opp list --search acme --status Interviewing
  jobhuntai opp list --sort activity --desc`,
	Run: func(cmd *cobra.Command, args []string) {
		search, _ := cmd.Flags().GetString("search")
		company, _ := cmd.Flags().GetString("company")
		role, _ := cmd.Flags().GetString("role")
		status, _ := cmd.Flags().GetString("status")
		sortKey, _ := cmd.Flags().GetString("sort")
		desc, _ := cmd.Flags().GetBool("desc")

		if status != "" && !models.ValidStatus(models.Status(status)) {
			fmt.Printf("Invalid status. Must be one of: %v\n", models.Statuses)
			return
		}

		opps, err := application.Store.Opportunities()
		if err != nil {
			fatalf("Error loading opportunities: %v", err)
		}
		acts, err := application.Store.Activities()
		if err != nil {
			fatalf("Error loading activities: %v", err)
		}

		roster := views.Roster(opps, acts,
			views.RosterFilter{
				Search:  search,
				Company: company,
				Role:    role,
				Status:  models.Status(status),
			},
			views.SortState{Key: views.SortKey(sortKey), Desc: desc},
		)

		if len(roster) == 0 {
			fmt.Println("No opportunities found. Add one with 'jobhuntai opportunity add'")
			return
		}

		fmt.Println(titleStyle.Render("Opportunities"))
		for _, o := range roster {
			fmt.Printf("%s  %s at %s\n", valueStyle.Render(shortID(o.ID)), o.Position, o.Company)
			fmt.Printf("    %s %s | %s %s\n",
				labelStyle.Render("Status:"), o.Status,
				labelStyle.Render("Role:"), o.Role)
		}
		fmt.Printf("\n%s %d\n", labelStyle.Render("Total:"), len(roster))
	},
}

var oppShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one opportunity and its activities",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		opps, err := application.Store.Opportunities()
		if err != nil {
			fatalf("Error loading opportunities: %v", err)
		}
		acts, err := application.Store.Activities()
		if err != nil {
			fatalf("Error loading activities: %v", err)
		}

		opp, err := findOpportunity(opps, args[0])
		if err != nil {
			fmt.Println(err)
			return
		}

		_, entries, _ := views.Detail(opps, acts, opp.ID)

		fmt.Println(titleStyle.Render(fmt.Sprintf("%s at %s", opp.Position, opp.Company)))
		fmt.Printf("%s %s\n", labelStyle.Render("ID:"), opp.ID)
		fmt.Printf("%s %s\n", labelStyle.Render("Role:"), opp.Role)
		fmt.Printf("%s %s\n", labelStyle.Render("Status:"), opp.Status)
		if opp.Description != "" {
			fmt.Printf("%s %s\n", labelStyle.Render("Description:"), opp.Description)
		}
		fmt.Printf("%s %s\n", labelStyle.Render("Created:"), opp.CreatedAt)

		if len(entries) == 0 {
			fmt.Println("\nNo activities logged yet.")
			return
		}
		fmt.Printf("\n%s\n", labelStyle.Render("Activities"))
		for _, e := range entries {
			fmt.Printf("  %s  %s (%s)\n", e.Activity.Date, e.Activity.Title, e.Activity.Type)
		}
	},
}

var oppUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update an opportunity",
	Args:  cobra.ExactArgs(1),
	Example: `  jobhuntai opportunity update 3f1c9a2b --status Offered
  jobhuntai opp update 3f1c9a2b --position "Staff Engineer" --description "via referral"`,
	Run: func(cmd *cobra.Command, args []string) {
		opps, err := application.Store.Opportunities()
		if err != nil {
			fatalf("Error loading opportunities: %v", err)
		}
		opp, err := findOpportunity(opps, args[0])
		if err != nil {
			fmt.Println(err)
			return
		}

		if v, _ := cmd.Flags().GetString("position"); v != "" {
			opp.Position = v
		}
		if v, _ := cmd.Flags().GetString("role"); v != "" {
			opp.Role = v
		}
		if v, _ := cmd.Flags().GetString("company"); v != "" {
			opp.Company = v
		}
		if v, _ := cmd.Flags().GetString("description"); v != "" {
			opp.Description = v
		}
		if v, _ := cmd.Flags().GetString("status"); v != "" {
			if !models.ValidStatus(models.Status(v)) {
				fmt.Printf("Invalid status. Must be one of: %v\n", models.Statuses)
				return
			}
			opp.Status = models.Status(v)
		}
		opp.UpdatedAt = models.Now()

		for i := range opps {
			if opps[i].ID == opp.ID {
				opps[i] = opp
				break
			}
		}
		if err := application.Store.SetOpportunities(opps); err != nil {
			fatalf("Error saving opportunity: %v", err)
		}
		fmt.Printf("✓ Updated opportunity %s\n", shortID(opp.ID))
	},
}

var oppDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an opportunity",
	Long: `Delete an opportunity. Its activities are NOT deleted; they become
invisible in timeline views until the opportunity id resolves again
(for example after restoring a backup).`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		opps, err := application.Store.Opportunities()
		if err != nil {
			fatalf("Error loading opportunities: %v", err)
		}
		opp, err := findOpportunity(opps, args[0])
		if err != nil {
			fmt.Println(err)
			return
		}
		if !confirm(fmt.Sprintf("Delete %s at %s?", opp.Position, opp.Company)) {
			fmt.Println("Cancelled")
			return
		}

		remaining := opps[:0]
		for _, o := range opps {
			if o.ID != opp.ID {
				remaining = append(remaining, o)
			}
		}
		if err := application.Store.SetOpportunities(remaining); err != nil {
			fatalf("Error deleting opportunity: %v", err)
		}
		fmt.Printf("✓ Deleted opportunity %s\n", shortID(opp.ID))
	},
}

func init() {
	rootCmd.AddCommand(oppCmd)
	oppCmd.AddCommand(oppAddCmd)
	oppCmd.AddCommand(oppListCmd)
	oppCmd.AddCommand(oppShowCmd)
	oppCmd.AddCommand(oppUpdateCmd)
	oppCmd.AddCommand(oppDeleteCmd)

	oppAddCmd.Flags().String("company", "", "Employer name (required)")
	oppAddCmd.Flags().String("position", "", "User-facing position label (required)")
	oppAddCmd.Flags().String("role", "", "Official role title (defaults to position)")
	oppAddCmd.Flags().String("description", "", "Free-text description")
	oppAddCmd.Flags().String("status", "", "Initial status (defaults to Identified)")

	oppListCmd.Flags().String("search", "", "Substring match on employer/position")
	oppListCmd.Flags().String("company", "", "Employer column filter")
	oppListCmd.Flags().String("role", "", "Role column filter")
	oppListCmd.Flags().String("status", "", "Status equality filter")
	oppListCmd.Flags().String("sort", "company", "Sort key: company, role, status, activity")
	oppListCmd.Flags().Bool("desc", false, "Sort descending")

	oppUpdateCmd.Flags().String("company", "", "Employer name")
	oppUpdateCmd.Flags().String("position", "", "Position label")
	oppUpdateCmd.Flags().String("role", "", "Role title")
	oppUpdateCmd.Flags().String("description", "", "Description")
	oppUpdateCmd.Flags().String("status", "", "Status")
}
