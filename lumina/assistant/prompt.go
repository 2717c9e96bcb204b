package assistant

import (
	"fmt"
	"strings"

	"lumina/lumina/utils/jsonutils"
)

// SystemInstruction renders the fixed instruction sent when a conversation is created.
func SystemInstruction(p *Persona, c *Catalog) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Tu es %q, %s.\n", p.Name, p.Role)
	if p.Mission != "" {
		b.WriteString(p.Mission)
		b.WriteString("\n")
	}

	projects := []Project{}
	if c != nil {
		projects = c.Projects
	}
	b.WriteString("\nVoici les données sur les projets du développeur :\n")
	b.WriteString(jsonutils.ToJSON(projects))
	b.WriteString("\n")

	if len(p.Directives) > 0 {
		b.WriteString("\nTes directives :\n")
		for i, d := range p.Directives {
			fmt.Fprintf(&b, "%d. %s\n", i+1, d)
		}
	}
	return b.String()
}
