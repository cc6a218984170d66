// Package export renders the activity audit log. The PDF covers the full
// activity list, not the timeline projection: activities whose
// opportunity was deleted still appear, attributed to "General".
package export

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/unidoc/unipdf/v3/creator"
	"github.com/unidoc/unipdf/v3/model"

	"github.com/boazmichaely/JobHuntAI/pkg/models"
)

// AuditRow is one line of the audit log, fully resolved.
type AuditRow struct {
	Date        string
	Title       string
	Type        string
	Opportunity string // "Company - Position", or "General"
	Description string
	Contacts    string // comma-joined contact names
}

// BuildAuditRows resolves every activity against its opportunity and
// contacts, sorted descending by date. Dangling contact references
// render nothing.
func BuildAuditRows(acts []models.Activity, opps []models.Opportunity, contacts []models.Contact) []AuditRow {
	oppByID := make(map[string]models.Opportunity, len(opps))
	for _, o := range opps {
		oppByID[o.ID] = o
	}
	contactByID := make(map[string]models.Contact, len(contacts))
	for _, c := range contacts {
		contactByID[c.ID] = c
	}

	rows := make([]AuditRow, 0, len(acts))
	for _, a := range acts {
		label := "General"
		if opp, ok := oppByID[a.OpportunityID]; ok {
			label = fmt.Sprintf("%s - %s", opp.Company, opp.Position)
		}
		names := []string{}
		for _, id := range a.ContactIDs {
			if c, ok := contactByID[id]; ok {
				names = append(names, c.Name)
			}
		}
		rows = append(rows, AuditRow{
			Date:        a.Date,
			Title:       a.Title,
			Type:        string(a.Type),
			Opportunity: label,
			Description: a.Description,
			Contacts:    strings.Join(names, ", "),
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Date > rows[j].Date
	})
	return rows
}

var auditColumns = []string{"Date", "Title", "Type", "Opportunity", "Description", "Contacts"}

// WritePDF renders the audit rows as a tabular PDF document.
func WritePDF(w io.Writer, rows []AuditRow) error {
	font, err := model.NewStandard14Font(model.HelveticaName)
	if err != nil {
		return fmt.Errorf("failed to load font: %w", err)
	}
	fontBold, err := model.NewStandard14Font(model.HelveticaBoldName)
	if err != nil {
		return fmt.Errorf("failed to load font: %w", err)
	}

	c := creator.New()
	c.SetPageMargins(36, 36, 36, 36)

	heading := c.NewParagraph("Activity Audit Log")
	heading.SetFont(fontBold)
	heading.SetFontSize(16)
	heading.SetMargins(0, 0, 0, 12)
	if err := c.Draw(heading); err != nil {
		return err
	}

	table := c.NewTable(len(auditColumns))
	if err := table.SetColumnWidths(0.10, 0.18, 0.10, 0.20, 0.28, 0.14); err != nil {
		return err
	}

	addCell := func(text string, f *model.PdfFont, size float64) error {
		p := c.NewParagraph(text)
		p.SetFont(f)
		p.SetFontSize(size)
		p.SetMargins(2, 2, 2, 2)
		p.SetEnableWrap(true)
		cell := table.NewCell()
		cell.SetBorder(creator.CellBorderSideAll, creator.CellBorderStyleSingle, 0.5)
		return cell.SetContent(p)
	}

	for _, col := range auditColumns {
		if err := addCell(col, fontBold, 9); err != nil {
			return err
		}
	}
	for _, row := range rows {
		for _, text := range []string{row.Date, row.Title, row.Type, row.Opportunity, row.Description, row.Contacts} {
			if err := addCell(text, font, 8); err != nil {
				return err
			}
		}
	}

	if err := c.Draw(table); err != nil {
		return err
	}
	return c.Write(w)
}
