package cmd

import (
	"fmt"

	"github.com/boazmichaely/JobHuntAI/pkg/models"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var themeCmd = &cobra.Command{
	Use:   "theme",
	Short: "Show or change the color theme",
	Run: func(cmd *cobra.Command, args []string) {
		theme, err := application.Store.Theme()
		if err != nil {
			fatalf("Error loading theme: %v", err)
		}
		fmt.Printf("%s %s\n", labelStyle.Render("Theme:"), valueStyle.Render(theme.Name))
	},
}

var themeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available themes",
	Run: func(cmd *cobra.Command, args []string) {
		current, err := application.Store.Theme()
		if err != nil {
			fatalf("Error loading theme: %v", err)
		}
		fmt.Println(titleStyle.Render("Themes"))
		for _, t := range models.Themes {
			marker := " "
			if t.Name == current.Name {
				marker = "*"
			}
			swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(t.Accent)).Render("●")
			fmt.Printf("%s %s %s\n", marker, swatch, t.Name)
		}
	},
}

var themeSetCmd = &cobra.Command{
	Use:     "set <name>",
	Short:   "Set the color theme",
	Args:    cobra.ExactArgs(1),
	Example: `  jobhuntai theme set emerald`,
	Run: func(cmd *cobra.Command, args []string) {
		theme, ok := models.ThemeByName(args[0])
		if !ok {
			names := make([]string, 0, len(models.Themes))
			for _, t := range models.Themes {
				names = append(names, t.Name)
			}
			fmt.Printf("Unknown theme. Available: %v\n", names)
			return
		}
		if err := application.Store.SetTheme(theme); err != nil {
			fatalf("Error saving theme: %v", err)
		}
		applyTheme(theme)
		fmt.Printf("✓ Theme set to %s\n", theme.Name)
	},
}

func init() {
	rootCmd.AddCommand(themeCmd)
	themeCmd.AddCommand(themeListCmd)
	themeCmd.AddCommand(themeSetCmd)
}
