package cmd

import (
	"fmt"

	"github.com/boazmichaely/JobHuntAI/pkg/models"
	"github.com/spf13/cobra"
)

var contactCmd = &cobra.Command{
	Use:   "contact",
	Short: "Manage contacts",
	Long:  "Add, list and delete the people associated with your activities",
}

var contactAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a contact",
	Example: `  jobhuntai contact add --name "Sarah Chen" --role Recruiter --company "Acme Inc"
  jobhuntai contact add --name "Raj Patel" --role "Hiring Manager" --company Globex --email raj@globex.com`,
	Run: func(cmd *cobra.Command, args []string) {
		name, _ := cmd.Flags().GetString("name")
		role, _ := cmd.Flags().GetString("role")
		company, _ := cmd.Flags().GetString("company")
		email, _ := cmd.Flags().GetString("email")
		phone, _ := cmd.Flags().GetString("phone")
		notes, _ := cmd.Flags().GetString("notes")

		if name == "" || company == "" {
			fmt.Println("Both --name and --company are required")
			return
		}

		contacts, err := application.Store.Contacts()
		if err != nil {
			fatalf("Error loading contacts: %v", err)
		}
		contact := models.Contact{
			ID:      models.NewID(),
			Name:    name,
			Role:    role,
			Company: company,
			Email:   email,
			Phone:   phone,
			Notes:   notes,
		}
		contacts = append(contacts, contact)
		if err := application.Store.SetContacts(contacts); err != nil {
			fatalf("Error saving contact: %v", err)
		}
		fmt.Printf("✓ Added contact %s (id %s)\n", contact.Name, shortID(contact.ID))
	},
}

var contactListCmd = &cobra.Command{
	Use:   "list",
	Short: "List contacts",
	Run: func(cmd *cobra.Command, args []string) {
		contacts, err := application.Store.Contacts()
		if err != nil {
			fatalf("Error loading contacts: %v", err)
		}
		if len(contacts) == 0 {
			fmt.Println("No contacts yet. Add one with 'jobhuntai contact add'")
			return
		}

		fmt.Println(titleStyle.Render("Contacts"))
		for _, c := range contacts {
			fmt.Printf("%s  %s\n", valueStyle.Render(shortID(c.ID)), c.Name)
			fmt.Printf("    %s %s at %s\n", labelStyle.Render("Role:"), c.Role, c.Company)
			if c.Email != "" || c.Phone != "" {
				fmt.Printf("    %s %s %s\n", labelStyle.Render("Reach:"), c.Email, c.Phone)
			}
		}
		fmt.Printf("\n%s %d\n", labelStyle.Render("Total:"), len(contacts))
	},
}

var contactDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a contact",
	Long: `Delete a contact. Activities keep their reference to the deleted id;
the dangling reference simply renders nothing.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		contacts, err := application.Store.Contacts()
		if err != nil {
			fatalf("Error loading contacts: %v", err)
		}

		ids := make([]string, len(contacts))
		for i, c := range contacts {
			ids[i] = c.ID
		}
		id, err := resolveID(ids, args[0])
		if err != nil {
			fmt.Println(err)
			return
		}

		remaining := contacts[:0]
		for _, c := range contacts {
			if c.ID != id {
				remaining = append(remaining, c)
			}
		}
		if err := application.Store.SetContacts(remaining); err != nil {
			fatalf("Error deleting contact: %v", err)
		}
		fmt.Println("✓ Deleted contact")
	},
}

func init() {
	rootCmd.AddCommand(contactCmd)
	contactCmd.AddCommand(contactAddCmd)
	contactCmd.AddCommand(contactListCmd)
	contactCmd.AddCommand(contactDeleteCmd)

	contactAddCmd.Flags().String("name", "", "Contact name (required)")
	contactAddCmd.Flags().String("role", "", "Role label, e.g. Recruiter")
	contactAddCmd.Flags().String("company", "", "Company name (required)")
	contactAddCmd.Flags().String("email", "", "Email address")
	contactAddCmd.Flags().String("phone", "", "Phone number")
	contactAddCmd.Flags().String("notes", "", "Free-text notes")
}
