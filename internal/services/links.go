package services

import (
	"net/url"
	"strings"
	"unicode"

	"github.com/binabdulkhalim-prog/winter-starfall/internal/config"
)

type Links struct {
	Platform    string
	docsBaseURL string
	dashboard   string
}

func NewLinks(cfg config.LinksConfig) *Links {
	return &Links{
		Platform:    cfg.Platform,
		docsBaseURL: strings.TrimRight(cfg.DocsBaseURL, "/"),
		dashboard:   cfg.Dashboard,
	}
}

// APIDocumentation points at the reference page of one operation, e.g.
// ("ClientApi", "GetUserData") -> <base>/client/get-user-data.
func (l *Links) APIDocumentation(api, title string) string {
	family := strings.ToLower(APIPath(api))
	if family == "" {
		return l.docsBaseURL
	}
	if title == "" {
		return l.docsBaseURL + "/" + url.PathEscape(family)
	}
	return l.docsBaseURL + "/" + url.PathEscape(family) + "/" + url.PathEscape(kebabCase(title))
}

// TitleOverviewDashboard fills the first %s of the dashboard template with
// the title ID. A template without %s is returned as is.
func (l *Links) TitleOverviewDashboard(titleID string) string {
	if titleID == "" || l.dashboard == "" {
		return ""
	}
	return strings.Replace(l.dashboard, "%s", url.PathEscape(titleID), 1)
}

// APIPath is the API name without its "Api" suffix.
func APIPath(api string) string {
	return strings.TrimSuffix(api, "Api")
}

func kebabCase(s string) string {
	var sb strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 && (unicode.IsLower(runes[i-1]) || (i+1 < len(runes) && unicode.IsLower(runes[i+1]) && unicode.IsUpper(runes[i-1]))) {
				sb.WriteByte('-')
			}
			sb.WriteRune(unicode.ToLower(r))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
