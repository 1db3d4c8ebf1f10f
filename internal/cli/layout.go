package cli

import (
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/pocketdigest/pocketdigest/pkg/pipeline"
)

// layoutCommand creates the layout command.
func (c *CLI) layoutCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Print the panel grid without fetching anything",
		Long: `Print every panel's geometry, label, source, row class and rotation in
drawing order. Useful for checking a page size or spread before a full run.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			info, err := pipeline.Describe(cfg)
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(info)
			}
			printLayout(cfg.Page.String(), info)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

func printLayout(page string, info *pipeline.LayoutInfo) {
	printTitle("Layout", page)
	printKeyValue("Page", fmt.Sprintf("%.2f × %.2f pt", info.Width, info.Height))
	printKeyValue("Grid", fmt.Sprintf("%d × %d", info.Columns, info.Rows))
	if info.Overlaps != "" {
		printWarning("spread panel overlays %s", info.Overlaps)
	}
	printNewline()
	fmt.Fprintln(out, layoutTable(info).Render())
}

func layoutTable(info *pipeline.LayoutInfo) *table.Table {
	headerStyle := lipgloss.NewStyle().Foreground(colorLabel).Bold(true)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	rows := make([][]string, 0, len(info.Panels))
	for _, p := range info.Panels {
		g := p.Geometry
		rotation := "-"
		if p.Rotation != nil {
			rotation = fmt.Sprintf("%g° (%.1f, %.1f)", p.Rotation.Degrees, p.Rotation.TranslateX, p.Rotation.TranslateY)
		}
		rows = append(rows, []string{
			p.ID,
			p.Label,
			p.Source,
			p.Row.String(),
			fmt.Sprintf("%.1f, %.1f", g.X, g.Y),
			fmt.Sprintf("%.1f × %.1f", g.Width, g.Height),
			rotation,
		})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorMuted)).
		Headers("Panel", "Label", "Source", "Row", "Origin", "Size", "Rotation").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle.Padding(0, 1)
			}
			return cellStyle
		})
}
