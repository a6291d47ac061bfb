package tui

import (
	"fmt"
	"strings"

	"github.com/tosifAN/sunrise-2024/internal/models"
)

// RenderPlain lays board columns out as indented text for pipes and --plain.
func RenderPlain(cols []models.BoardColumn) string {
	var b strings.Builder
	for i, col := range cols {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%s (%d)\n", col.Stage, col.Count)
		for _, g := range col.Groups {
			fmt.Fprintf(&b, "  Group %d", g.Group)
			if g.Blocked {
				b.WriteString(" (blocked)")
			}
			b.WriteString("\n")
			for _, t := range g.Tasks {
				fmt.Fprintf(&b, "    #%d %s", t.ID, t.Title)
				if t.Persona != "" {
					fmt.Fprintf(&b, " [%s]", t.Persona)
				}
				if t.Stage == models.StageInProgress && !g.Blocked {
					b.WriteString(" *done available*")
				}
				b.WriteString("\n")
			}
		}
	}
	return b.String()
}
