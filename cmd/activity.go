package cmd

import (
	"fmt"
	"strings"

	"github.com/boazmichaely/JobHuntAI/internal/views"
	"github.com/boazmichaely/JobHuntAI/pkg/models"
	"github.com/spf13/cobra"
)

var activityCmd = &cobra.Command{
	Use:     "activity",
	Aliases: []string{"log"},
	Short:   "Manage logged activities",
	Long:    "Log activities against opportunities and browse the activity timeline",
}

var activityAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Log an activity",
	Example: `  jobhuntai activity add --opportunity 3f1c9a2b --title "Phone screen" --type Interview
  jobhuntai log add --opportunity 3f1c9a2b --title "Sent application" --type Apply --date 2026-08-12`,
	Run: func(cmd *cobra.Command, args []string) {
		oppID, _ := cmd.Flags().GetString("opportunity")
		title, _ := cmd.Flags().GetString("title")
		typeFlag, _ := cmd.Flags().GetString("type")
		date, _ := cmd.Flags().GetString("date")
		description, _ := cmd.Flags().GetString("description")
		contactsFlag, _ := cmd.Flags().GetString("contacts")
		followUp, _ := cmd.Flags().GetString("follow-up")
		followUpDate, _ := cmd.Flags().GetString("follow-up-date")

		if title == "" || oppID == "" {
			fmt.Println("Both --opportunity and --title are required")
			return
		}
		if date == "" {
			date = models.Today()
		}
		if typeFlag == "" {
			typeFlag = string(models.TypeOther)
		}
		if !models.ValidActivityType(models.ActivityType(typeFlag)) {
			fmt.Printf("Invalid type. Must be one of: %v\n", models.ActivityTypes)
			return
		}

		opps, err := application.Store.Opportunities()
		if err != nil {
			fatalf("Error loading opportunities: %v", err)
		}
		opp, err := findOpportunity(opps, oppID)
		if err != nil {
			fmt.Println(err)
			return
		}

		var contactIDs []string
		if contactsFlag != "" {
			contactIDs = models.DedupeContactIDs(strings.Split(contactsFlag, ","))
		}

		acts, err := application.Store.Activities()
		if err != nil {
			fatalf("Error loading activities: %v", err)
		}
		activity := models.Activity{
			ID:            models.NewID(),
			OpportunityID: opp.ID,
			Title:         title,
			Type:          models.ActivityType(typeFlag),
			Date:          date,
			ContactIDs:    contactIDs,
			Description:   description,
			FollowUp:      followUp,
			FollowUpDate:  followUpDate,
		}
		acts = append(acts, activity)
		if err := application.Store.SetActivities(acts); err != nil {
			fatalf("Error saving activity: %v", err)
		}

		fmt.Printf("✓ Logged %q against %s at %s\n", title, opp.Position, opp.Company)
	},
}

var activityListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the activity timeline",
	Example: `  jobhuntai activity list
  jobhuntai log list --search interview
  jobhuntai log list --company "Acme Inc" --contact 9b2d1c44`,
	Run: func(cmd *cobra.Command, args []string) {
		search, _ := cmd.Flags().GetString("search")
		company, _ := cmd.Flags().GetString("company")
		contactID, _ := cmd.Flags().GetString("contact")

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

		entries := views.Timeline(opps, acts, views.TimelineFilter{
			Search:    search,
			Company:   company,
			ContactID: contactID,
		})
		if len(entries) == 0 {
			fmt.Println("No activities found. Log one with 'jobhuntai activity add'")
			return
		}

		contactByID := make(map[string]models.Contact, len(contacts))
		for _, c := range contacts {
			contactByID[c.ID] = c
		}

		fmt.Println(titleStyle.Render("Timeline"))
		for _, e := range entries {
			fmt.Printf("%s  %s\n", valueStyle.Render(e.Activity.Date), e.Activity.Title)
			fmt.Printf("    %s %s at %s | %s %s | %s %s\n",
				labelStyle.Render("For:"), e.Opportunity.Position, e.Opportunity.Company,
				labelStyle.Render("Type:"), e.Activity.Type,
				labelStyle.Render("ID:"), shortID(e.Activity.ID))
			names := []string{}
			for _, id := range e.Activity.ContactIDs {
				if c, ok := contactByID[id]; ok {
					names = append(names, c.Name)
				}
			}
			if len(names) > 0 {
				fmt.Printf("    %s %s\n", labelStyle.Render("With:"), strings.Join(names, ", "))
			}
			if e.Activity.FollowUp != "" {
				fmt.Printf("    %s %s (%s)\n", labelStyle.Render("Follow up:"), e.Activity.FollowUp, e.Activity.FollowUpDate)
			}
		}
		fmt.Printf("\n%s %d\n", labelStyle.Render("Total:"), len(entries))
	},
}

var activityDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an activity",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		acts, err := application.Store.Activities()
		if err != nil {
			fatalf("Error loading activities: %v", err)
		}

		ids := make([]string, len(acts))
		for i, a := range acts {
			ids[i] = a.ID
		}
		id, err := resolveID(ids, args[0])
		if err != nil {
			fmt.Println(err)
			return
		}

		remaining := acts[:0]
		for _, a := range acts {
			if a.ID != id {
				remaining = append(remaining, a)
			}
		}
		if err := application.Store.SetActivities(remaining); err != nil {
			fatalf("Error deleting activity: %v", err)
		}
		fmt.Println("✓ Deleted activity")
	},
}

func init() {
	rootCmd.AddCommand(activityCmd)
	activityCmd.AddCommand(activityAddCmd)
	activityCmd.AddCommand(activityListCmd)
	activityCmd.AddCommand(activityDeleteCmd)

	activityAddCmd.Flags().String("opportunity", "", "Opportunity id (required)")
	activityAddCmd.Flags().String("title", "", "Activity title (required)")
	activityAddCmd.Flags().String("type", "", "Activity type (defaults to Other)")
	activityAddCmd.Flags().String("date", "", "Calendar date YYYY-MM-DD (defaults to today)")
	activityAddCmd.Flags().String("description", "", "Free-text description")
	activityAddCmd.Flags().String("contacts", "", "Comma-separated contact ids")
	activityAddCmd.Flags().String("follow-up", "", "Follow-up action")
	activityAddCmd.Flags().String("follow-up-date", "", "Follow-up date YYYY-MM-DD")

	activityListCmd.Flags().String("search", "", "Substring match on title/employer/description")
	activityListCmd.Flags().String("company", "", "Employer facet (exact match)")
	activityListCmd.Flags().String("contact", "", "Contact membership facet (contact id)")
}
