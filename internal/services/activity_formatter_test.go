package services

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/binabdulkhalim-prog/winter-starfall/internal/config"
	"github.com/binabdulkhalim-prog/winter-starfall/internal/models"
	"github.com/stretchr/testify/assert"
)

func testLinks() *Links {
	return NewLinks(config.DefaultConfig().Links)
}

func TestPrettyJSON(t *testing.T) {
	assert.Equal(t, "null", PrettyJSON(nil))
	assert.Equal(t, "{\n  \"a\": [\n    1\n  ]\n}", PrettyJSON(json.RawMessage(`{"a":[1]}`)))
	assert.Equal(t, "{oops", PrettyJSON(json.RawMessage(`{oops`)))
}

func TestFormatActivityItem(t *testing.T) {
	line := FormatActivityItem(models.ActivityEvent{API: "CloudScriptApi", Title: "ExecuteFunction"})
	assert.Contains(t, line, "CloudScript")
	assert.Contains(t, line, "ExecuteFunction")
	assert.NotContains(t, line, "CloudScriptApi")
}

func TestFormatActivitySidebar(t *testing.T) {
	empty := FormatActivitySidebar(nil, testLinks(), "")
	assert.Contains(t, empty, "No activity yet")
	assert.NotContains(t, empty, "dashboard")

	ok := true
	events := []models.ActivityEvent{
		{API: "ClientApi", Title: "GetUserData", IsSuccessful: &ok},
		{API: "EconomyApi", Title: "GetItems"},
	}
	out := FormatActivitySidebar(events, testLinks(), "A1B2C")
	assert.Less(t, strings.Index(out, "GetUserData"), strings.Index(out, "GetItems"))
	assert.Contains(t, out, "https://developer.playfab.com/en-us/r/t/A1B2C/dashboard")
	assert.Contains(t, out, "https://playfab.com")
}

func TestFormatActivityDetail(t *testing.T) {
	failed := false
	e := models.ActivityEvent{
		API:          "ClientApi",
		Title:        "GetUserData",
		Date:         time.Date(2026, 10, 17, 12, 30, 0, 0, time.UTC),
		Request:      json.RawMessage(`{"Keys":["Completed"]}`),
		IsSuccessful: &failed,
	}

	out := FormatActivityDetail(e, testLinks())
	assert.Contains(t, out, "ClientApi.GetUserData")
	assert.Contains(t, out, "Failed")
	assert.Contains(t, out, "https://learn.microsoft.com/rest/api/playfab/client/get-user-data")
	assert.Contains(t, out, "\"Keys\": [\n    \"Completed\"\n  ]")
	assert.Contains(t, out, "Response")
	assert.True(t, strings.HasSuffix(out, "null\n"))
}

func TestLinks(t *testing.T) {
	links := testLinks()

	assert.Equal(t, "https://learn.microsoft.com/rest/api/playfab/server/get-user-read-only-data",
		links.APIDocumentation("ServerApi", "GetUserReadOnlyData"))
	assert.Equal(t, "https://learn.microsoft.com/rest/api/playfab/cloudscript",
		links.APIDocumentation("CloudScriptApi", ""))
	assert.Equal(t, "https://learn.microsoft.com/rest/api/playfab", links.APIDocumentation("", "X"))
	assert.Equal(t, "", links.TitleOverviewDashboard(""))
}

func TestLinks_TitleOverviewDashboard(t *testing.T) {
	links := NewLinks(config.LinksConfig{Dashboard: "https://example.com/t/%s/dashboard"})
	assert.Equal(t, "https://example.com/t/AB%20CD/dashboard", links.TitleOverviewDashboard("AB CD"))

	fixed := NewLinks(config.LinksConfig{Dashboard: "https://example.com/dashboard"})
	assert.Equal(t, "https://example.com/dashboard", fixed.TitleOverviewDashboard("ABCD"))

	verbs := NewLinks(config.LinksConfig{Dashboard: "https://example.com/%d/%s?q=100%"})
	assert.Equal(t, "https://example.com/%d/ABCD?q=100%", verbs.TitleOverviewDashboard("ABCD"))
}

func TestKebabCase(t *testing.T) {
	tests := map[string]string{
		"GetUserData":       "get-user-data",
		"LoginWithCustomID": "login-with-custom-id",
		"ExecuteFunction":   "execute-function",
		"HTTPServer":        "http-server",
		"already":           "already",
	}
	for in, want := range tests {
		assert.Equal(t, want, kebabCase(in), in)
	}
}
