package dashboard

import (
	"fmt"
	"strings"

	"github.com/isaacmartinez23/portafolio-web-analytics/pkg/services/analytics"
)

type Tab string

const (
	TabOverview  Tab = "overview"
	TabPages     Tab = "pages"
	TabGeography Tab = "geography"
	TabDevices   Tab = "devices"
	TabRealtime  Tab = "realtime"
)

type TabInfo struct {
	Tab     Tab
	Label   string
	Icon    string
	Heading string
	Kinds   []analytics.ReportKind
}

var tabs = []TabInfo{
	{
		Tab:     TabOverview,
		Label:   "Overview",
		Icon:    "📈",
		Heading: "📋 General overview",
		Kinds:   []analytics.ReportKind{analytics.KindBasic, analytics.KindSources},
	},
	{
		Tab:     TabPages,
		Label:   "Pages",
		Icon:    "📄",
		Heading: "📄 Most visited pages",
		Kinds:   []analytics.ReportKind{analytics.KindPages},
	},
	{
		Tab:     TabGeography,
		Label:   "Geography",
		Icon:    "🌍",
		Heading: "🌍 Geographic analysis",
		Kinds:   []analytics.ReportKind{analytics.KindGeographic},
	},
	{
		Tab:     TabDevices,
		Label:   "Devices",
		Icon:    "📱",
		Heading: "📱 Device analysis",
		Kinds:   []analytics.ReportKind{analytics.KindDevices},
	},
	{
		Tab:     TabRealtime,
		Label:   "Realtime",
		Icon:    "⚡",
		Heading: "⚡ Realtime data",
		Kinds:   []analytics.ReportKind{analytics.KindRealtime},
	},
}

// Tabs returns the dashboard tabs in menu order.
func Tabs() []TabInfo {
	out := make([]TabInfo, len(tabs))
	copy(out, tabs)
	return out
}

func ParseTab(s string) (Tab, error) {
	t := Tab(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := lookupTab(t); !ok {
		return "", fmt.Errorf("unknown dashboard tab %q", s)
	}
	return t, nil
}

func (t Tab) Info() TabInfo {
	info, _ := lookupTab(t)
	return info
}

func lookupTab(t Tab) (TabInfo, bool) {
	for _, info := range tabs {
		if info.Tab == t {
			return info, true
		}
	}
	return TabInfo{}, false
}
