package main

import (
	"fmt"
	"fonoteka/internal/app"
	"fonoteka/internal/domain/provider/providertest"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var (
	accentColor    = lipgloss.Color("#3B82F6")
	successColor   = lipgloss.Color("#10B981")
	errorColor     = lipgloss.Color("#EF4444")
	mutedColor     = lipgloss.Color("#6B7280")
	highlightColor = lipgloss.Color("#F59E0B")

	headerStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true)

	okStyle = lipgloss.NewStyle().
		Foreground(successColor)

	failStyle = lipgloss.NewStyle().
			Foreground(errorColor)

	mutedStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	labelStyle = lipgloss.NewStyle().
			Foreground(highlightColor)

	borderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accentColor).
			Padding(0, 1)
)

// renderReport форматирует отчет диагностики для терминала
func renderReport(report *app.Report) string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("Fonoteka Doctor") + "\n")
	b.WriteString(mutedStyle.Render(strings.Repeat("─", 48)) + "\n\n")

	b.WriteString(renderProviderPanel(report) + "\n")
	b.WriteString(renderChecksPanel(report.Checks) + "\n")
	b.WriteString(renderStatsPanel(report) + "\n\n")

	if report.Healthy {
		b.WriteString(okStyle.Render("✓ provider passed all contract checks") + "\n")
	} else {
		b.WriteString(failStyle.Render("✗ provider failed contract checks") + "\n")
	}

	return b.String()
}

func renderProviderPanel(report *app.Report) string {
	lines := []string{titleStyle.Render("Provider")}
	lines = append(lines, row("id", report.ProviderID))
	lines = append(lines, row("name", report.ProviderName))

	if report.PluginInfo != nil {
		lines = append(lines, row("plugin", fmt.Sprintf("%s %s (protocol v%d)",
			report.PluginInfo.ID, report.PluginInfo.Version, report.PluginInfo.ProtocolVersion)))
	}

	lines = append(lines, row("capabilities", capabilityList(report)))
	return borderStyle.Render(strings.Join(lines, "\n"))
}

func renderChecksPanel(checks []providertest.CheckResult) string {
	lines := []string{titleStyle.Render("Contract checks")}
	for _, check := range checks {
		if check.Passed() {
			lines = append(lines, "  "+okStyle.Render("✓ "+check.Name))
		} else {
			lines = append(lines, "  "+failStyle.Render("✗ "+check.Name)+
				"  "+mutedStyle.Render(check.Err.Error()))
		}
	}
	return borderStyle.Render(strings.Join(lines, "\n"))
}

func renderStatsPanel(report *app.Report) string {
	providerStats := section(report.Stats, "provider")
	cacheStats := section(report.Stats, "cache")
	perfStats := section(report.Stats, "performance")

	lines := []string{titleStyle.Render("Session stats")}
	lines = append(lines, row("provider calls", fmt.Sprintf("%v (%s)",
		providerStats["total_calls"], callBreakdown(providerStats))))
	lines = append(lines, row("cache", fmt.Sprintf("%v hits / %v misses",
		cacheStats["cache_hits"], cacheStats["cache_misses"])))
	lines = append(lines, row("evicted", fmt.Sprintf("%v", cacheStats["evicted_entries"])))
	lines = append(lines, row("avg response", fmt.Sprintf("%v", perfStats["avg_response_time"])))
	lines = append(lines, row("errors", fmt.Sprintf("%v", perfStats["error_count"])))
	lines = append(lines, row("janitor", janitorSummary(report.Janitor)))

	return borderStyle.Render(strings.Join(lines, "\n"))
}

func row(label, value string) string {
	return fmt.Sprintf("  %s  %s", labelStyle.Render(fmt.Sprintf("%-14s", label)), value)
}

func capabilityList(report *app.Report) string {
	var enabled []string
	if report.Capabilities.Playlists {
		enabled = append(enabled, "playlists")
	}
	if report.Capabilities.Lyrics {
		enabled = append(enabled, "lyrics")
	}
	if report.Capabilities.Artwork {
		enabled = append(enabled, "artwork")
	}
	if report.Capabilities.Favorites {
		enabled = append(enabled, "favorites")
	}
	if report.Capabilities.RecentlyPlayed {
		enabled = append(enabled, "recently_played")
	}
	if report.Capabilities.OfflineDownload {
		enabled = append(enabled, "offline_download")
	}
	if len(enabled) == 0 {
		return mutedStyle.Render("none")
	}
	return strings.Join(enabled, ", ")
}

func callBreakdown(providerStats map[string]interface{}) string {
	byMethod, ok := providerStats["calls_by_method"].(map[string]int64)
	if !ok || len(byMethod) == 0 {
		return "no calls"
	}

	methods := make([]string, 0, len(byMethod))
	for method := range byMethod {
		methods = append(methods, method)
	}
	sort.Strings(methods)

	parts := make([]string, 0, len(methods))
	for _, method := range methods {
		parts = append(parts, fmt.Sprintf("%s %d", method, byMethod[method]))
	}
	return strings.Join(parts, ", ")
}

func janitorSummary(status map[string]interface{}) string {
	running, _ := status["running"].(bool)
	schedule, _ := status["schedule"].(string)

	state := "stopped"
	if running {
		state = "running"
	}

	summary := fmt.Sprintf("%s, schedule %s", state, schedule)
	if next, ok := status["next_run"].(time.Time); ok {
		summary += ", next run " + next.Format("02.01.06 15:04")
	}
	return summary
}

func section(stats map[string]interface{}, name string) map[string]interface{} {
	if sub, ok := stats[name].(map[string]interface{}); ok {
		return sub
	}
	return map[string]interface{}{}
}
