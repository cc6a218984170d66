package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/boazmichaely/JobHuntAI/internal/app"
	"github.com/boazmichaely/JobHuntAI/pkg/models"
)

// findOpportunity resolves an id or unique id prefix against the
// collection.
func findOpportunity(opps []models.Opportunity, id string) (models.Opportunity, error) {
	var match models.Opportunity
	count := 0
	for _, o := range opps {
		if o.ID == id {
			return o, nil
		}
		if strings.HasPrefix(o.ID, id) {
			match = o
			count++
		}
	}
	switch count {
	case 1:
		return match, nil
	case 0:
		return models.Opportunity{}, fmt.Errorf("no opportunity with id %q: %w", id, app.ErrNotFound)
	default:
		return models.Opportunity{}, fmt.Errorf("id prefix %q is ambiguous (%d matches): %w", id, count, app.ErrInvalidArgument)
	}
}

// resolveID matches an id or unique id prefix against a set of ids.
func resolveID(ids []string, id string) (string, error) {
	match := ""
	count := 0
	for _, v := range ids {
		if v == id {
			return v, nil
		}
		if strings.HasPrefix(v, id) {
			match = v
			count++
		}
	}
	switch count {
	case 1:
		return match, nil
	case 0:
		return "", fmt.Errorf("no record with id %q: %w", id, app.ErrNotFound)
	default:
		return "", fmt.Errorf("id prefix %q is ambiguous (%d matches): %w", id, count, app.ErrInvalidArgument)
	}
}

// shortID abbreviates a uuid for list output.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// confirm asks a y/n question on stdin.
func confirm(prompt string) bool {
	reader := bufio.NewReader(os.Stdin)
	fmt.Printf("%s [y/N]: ", prompt)
	input, _ := reader.ReadString('\n')
	input = strings.ToLower(strings.TrimSpace(input))
	return input == "y" || input == "yes"
}

// fatalf prints an error and exits non-zero.
func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
