package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/binabdulkhalim-prog/winter-starfall/internal/models"
	"github.com/charmbracelet/lipgloss"
)

var (
	colorGray    = lipgloss.Color("#6b7280")
	colorEmerald = lipgloss.Color("#10b981")
	colorRed     = lipgloss.Color("#ef4444")
	colorSky     = lipgloss.Color("#0369a1")
	colorFuchsia = lipgloss.Color("#a21caf")

	badgeStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1).Foreground(lipgloss.Color("#ffffff"))
	titleStyle  = lipgloss.NewStyle().Bold(true)
	mutedStyle  = lipgloss.NewStyle().Foreground(colorGray)
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#f97316"))
)

func StatusColor(status models.ActivityStatus) lipgloss.Color {
	switch status {
	case models.ActivityInProgress:
		return colorGray
	case models.ActivitySuccessful:
		return colorEmerald
	default:
		return colorRed
	}
}

func FamilyColor(family models.APIFamily) lipgloss.Color {
	switch family {
	case models.APIFamilyClient:
		return colorSky
	case models.APIFamilyEconomy:
		return colorEmerald
	case models.APIFamilyCloudScript:
		return colorFuchsia
	default:
		return lipgloss.Color("#374151")
	}
}

func statusDot(status models.ActivityStatus) string {
	return lipgloss.NewStyle().Foreground(StatusColor(status)).Render("●")
}

// FormatActivityItem renders one sidebar line: status, API badge and title.
func FormatActivityItem(e models.ActivityEvent) string {
	badge := badgeStyle.Background(FamilyColor(e.Family())).Render(e.ShortAPI())
	return fmt.Sprintf("%s %s %s", statusDot(e.Status()), badge, e.Title)
}

// FormatActivitySidebar renders the whole activity list followed by the
// platform and title links.
func FormatActivitySidebar(events []models.ActivityEvent, links *Links, titleID string) string {
	var sb strings.Builder
	sb.WriteString(headerStyle.Render("Backend activity"))
	sb.WriteString("\n")

	if len(events) == 0 {
		sb.WriteString(mutedStyle.Render("No activity yet"))
		sb.WriteString("\n")
	} else {
		for _, e := range events {
			sb.WriteString(FormatActivityItem(e))
			sb.WriteString("\n")
		}
	}

	if links != nil {
		sb.WriteString("\n")
		if links.Platform != "" {
			sb.WriteString(mutedStyle.Render(links.Platform))
			sb.WriteString("\n")
		}
		if dashboard := links.TitleOverviewDashboard(titleID); dashboard != "" {
			sb.WriteString(mutedStyle.Render(fmt.Sprintf("Title %s: %s", titleID, dashboard)))
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// FormatActivityDetail renders the detail view of one call with its request
// and response bodies.
func FormatActivityDetail(e models.ActivityEvent, links *Links) string {
	var sb strings.Builder
	status := e.Status()

	sb.WriteString(statusDot(status))
	sb.WriteString(" ")
	sb.WriteString(titleStyle.Render(e.Name()))
	sb.WriteString(" ")
	sb.WriteString(mutedStyle.Render(status.Title()))
	sb.WriteString("\n")
	sb.WriteString(mutedStyle.Render(e.Date.Local().Format("2006-01-02 15:04:05")))
	sb.WriteString("\n")
	if links != nil {
		sb.WriteString("Docs: ")
		sb.WriteString(links.APIDocumentation(e.API, e.Title))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(titleStyle.Render("Request"))
	sb.WriteString("\n")
	sb.WriteString(PrettyJSON(e.Request))
	sb.WriteString("\n\n")
	sb.WriteString(titleStyle.Render("Response"))
	sb.WriteString("\n")
	sb.WriteString(PrettyJSON(e.Result))
	sb.WriteString("\n")
	return sb.String()
}

// PrettyJSON indents raw with two spaces. Empty input renders as "null" and
// invalid JSON is returned unchanged.
func PrettyJSON(raw json.RawMessage) string {
	if len(raw) == 0 {
		return "null"
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return string(raw)
	}
	return buf.String()
}
