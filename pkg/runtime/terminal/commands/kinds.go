package commands

import (
	"strings"

	"github.com/isaacmartinez23/portafolio-web-analytics/pkg/runtime/terminal/export"
	"github.com/isaacmartinez23/portafolio-web-analytics/pkg/services/analytics"
	"github.com/spf13/cobra"
)

func NewKindsCmd(reporter *export.Reporter) *cobra.Command {
	return &cobra.Command{
		Use:   "kinds",
		Short: "List supported report kinds",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, kind := range analytics.Kinds() {
				p, _ := analytics.PresetFor(kind)
				dims := strings.Join(p.Dimensions, ", ")
				if dims == "" {
					dims = "-"
				}
				reporter.Printf("%-11s %-9s limit=%-4d metrics=[%s] dimensions=[%s]\n",
					kind, p.Mode, p.Limit, strings.Join(p.Metrics, ", "), dims)
			}
			return nil
		},
	}
}
