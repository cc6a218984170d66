package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/boazmichaely/JobHuntAI/internal/ai"
	"github.com/boazmichaely/JobHuntAI/internal/capture"
	"github.com/boazmichaely/JobHuntAI/internal/smartlog"
	"github.com/boazmichaely/JobHuntAI/pkg/models"
	"github.com/spf13/cobra"
)

var smartlogCmd = &cobra.Command{
	Use:   "smartlog",
	Short: "Log an activity from freeform text with AI extraction",
	Long: `Smartlog sends a freeform note (or the text of a job-posting URL) to the
configured AI provider, which extracts a structured activity, matches or
proposes an opportunity, and names contacts. You review the merged result
before anything is saved. When extraction fails the form simply stays as
you entered it.`,
	Example: `  jobhuntai smartlog --text "Phone screen with Sarah from Acme about the SRE role, went well"
  jobhuntai smartlog -f note.txt --opportunity 3f1c9a2b
  jobhuntai smartlog --url https://acme.example/jobs/123 --yes`,
	Run: func(cmd *cobra.Command, args []string) {
		text, _ := cmd.Flags().GetString("text")
		file, _ := cmd.Flags().GetString("file")
		url, _ := cmd.Flags().GetString("url")
		lockID, _ := cmd.Flags().GetString("opportunity")
		title, _ := cmd.Flags().GetString("title")
		typeFlag, _ := cmd.Flags().GetString("type")
		date, _ := cmd.Flags().GetString("date")
		yes, _ := cmd.Flags().GetBool("yes")

		switch {
		case text != "":
		case file != "":
			data, err := os.ReadFile(file)
			if err != nil {
				fatalf("Error reading %s: %v", file, err)
			}
			text = string(data)
		case url != "":
			fmt.Printf("⏳ Fetching %s...\n", url)
			fetched, err := capture.FetchPostingText(cmd.Context(), url)
			if err != nil {
				fatalf("Error fetching posting: %v", err)
			}
			text = fetched
		default:
			fmt.Println("One of --text, --file or --url is required")
			return
		}

		opps, err := application.Store.Opportunities()
		if err != nil {
			fatalf("Error loading opportunities: %v", err)
		}
		contacts, err := application.Store.Contacts()
		if err != nil {
			fatalf("Error loading contacts: %v", err)
		}

		form := smartlog.NewForm()
		form.Title = title
		if typeFlag != "" {
			if !models.ValidActivityType(models.ActivityType(typeFlag)) {
				fmt.Printf("Invalid type. Must be one of: %v\n", models.ActivityTypes)
				return
			}
			form.Type = models.ActivityType(typeFlag)
		}
		if date != "" {
			form.Date = date
		}
		if lockID != "" {
			opp, err := findOpportunity(opps, lockID)
			if err != nil {
				fmt.Println(err)
				return
			}
			form.LockedOpportunityID = opp.ID
		}
		fmt.Println("⏳ Extracting...")
		extraction, err := ai.Extract(text, opps)
		if err != nil {
			// Best-effort service: a failure means nothing extracted.
			fmt.Printf("No information extracted (%v)\n", err)
		}
		form.Merge(extraction, contacts)

		if form.Title == "" {
			form.Title = firstLine(text)
		}
		if form.Description == "" {
			form.Description = text
		}

		printSmartlogPreview(form, extraction, opps, contacts)

		if !yes && !confirm("Save this activity?") {
			fmt.Println("Cancelled")
			return
		}

		result, err := smartlog.Finalize(form, application.Store)
		if err != nil {
			fatalf("Error saving: %v", err)
		}

		if result.NewOpportunity != nil {
			fmt.Printf("✓ Created opportunity %s at %s (id %s)\n",
				result.NewOpportunity.Position, result.NewOpportunity.Company, shortID(result.NewOpportunity.ID))
		}
		for _, c := range result.NewContacts {
			fmt.Printf("✓ Created contact %s (id %s)\n", c.Name, shortID(c.ID))
		}
		fmt.Printf("✓ Logged %q on %s\n", result.Activity.Title, result.Activity.Date)
	},
}

func printSmartlogPreview(form *smartlog.Form, ex smartlog.Extraction, opps []models.Opportunity, contacts []models.Contact) {
	fmt.Println(titleStyle.Render("Smart Log Preview"))
	if ex.Reasoning != "" {
		fmt.Printf("%s %s\n", labelStyle.Render("AI:"), valueStyle.Render(ex.Reasoning))
	}

	switch {
	case form.LockedOpportunityID != "":
		if opp, err := findOpportunity(opps, form.LockedOpportunityID); err == nil {
			fmt.Printf("%s %s at %s (locked)\n", labelStyle.Render("Opportunity:"), opp.Position, opp.Company)
		}
	case form.SelectedOpportunityID != "":
		if opp, err := findOpportunity(opps, form.SelectedOpportunityID); err == nil {
			fmt.Printf("%s %s at %s (matched)\n", labelStyle.Render("Opportunity:"), opp.Position, opp.Company)
		} else {
			fmt.Printf("%s %s (matched id)\n", labelStyle.Render("Opportunity:"), form.SelectedOpportunityID)
		}
	case form.NewOpportunity != nil:
		fmt.Printf("%s %s at %s (new)\n", labelStyle.Render("Opportunity:"),
			form.NewOpportunity.Position, form.NewOpportunity.Company)
	default:
		fmt.Printf("%s none — the save will be rejected\n", labelStyle.Render("Opportunity:"))
	}

	fmt.Printf("%s %s\n", labelStyle.Render("Title:"), form.Title)
	fmt.Printf("%s %s | %s %s\n", labelStyle.Render("Type:"), form.Type, labelStyle.Render("Date:"), form.Date)

	contactByID := make(map[string]models.Contact, len(contacts))
	for _, c := range contacts {
		contactByID[c.ID] = c
	}
	names := []string{}
	for _, id := range form.ContactIDs {
		if c, ok := contactByID[id]; ok {
			names = append(names, c.Name)
		}
	}
	for _, draft := range form.NewContacts {
		names = append(names, draft.Name+" (new)")
	}
	if len(names) > 0 {
		fmt.Printf("%s %s\n", labelStyle.Render("Contacts:"), strings.Join(names, ", "))
	}
}

func firstLine(text string) string {
	line := strings.TrimSpace(text)
	if idx := strings.IndexByte(line, '\n'); idx >= 0 {
		line = line[:idx]
	}
	if len(line) > 80 {
		line = line[:80]
	}
	return strings.TrimSpace(line)
}

func init() {
	rootCmd.AddCommand(smartlogCmd)

	smartlogCmd.Flags().String("text", "", "Freeform note to parse")
	smartlogCmd.Flags().StringP("file", "f", "", "Read the note from a file")
	smartlogCmd.Flags().String("url", "", "Fetch a job-posting URL and parse its text")
	smartlogCmd.Flags().String("opportunity", "", "Lock the activity to this opportunity id")
	smartlogCmd.Flags().String("title", "", "Activity title (overrides extraction)")
	smartlogCmd.Flags().String("type", "", "Activity type (overrides extraction)")
	smartlogCmd.Flags().String("date", "", "Activity date (overrides extraction)")
	smartlogCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
}
