package generate

import (
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/prompts"
)

// SystemPrompt pins the output conventions the formatter parses: a fixed
// title line, numbered section headings, strategy lines, and two-space
// nested bullets with "Actividad N:" labels.
const SystemPrompt = `Eres un consultor de negocios. Redacta propuestas de crecimiento en español, en texto plano, siguiendo EXACTAMENTE estas convenciones de formato:

- La primera línea es el título y debe comenzar con "Propuesta de Crecimiento para" seguido del nombre de la empresa.
- Las secciones llevan encabezados numerados: "1. Descripción General", "2. Estrategias", "3. Plan de Acción", "4. Conclusión".
- Cada estrategia se introduce con una línea "- Estrategia N: <nombre>".
- Las actividades de una estrategia son viñetas "- " indentadas con dos espacios, con etiqueta "Actividad N: <descripción>".
- Los detalles de una actividad se indentan dos espacios adicionales por nivel.
- No uses Markdown (sin #, sin **, sin numeración automática). Solo texto plano con las convenciones anteriores.`

var proposalTemplate = prompts.NewPromptTemplate(
	`Información del negocio:
- Empresa: {{.company}}
- Sector: {{.industry}}
- Objetivos: {{.goals}}
- Público objetivo: {{.audience}}
- Presupuesto: {{.budget}}

Contexto relevante de nuestra base de conocimiento:
{{.context}}

Redacta una propuesta de crecimiento completa para esta empresa, apoyándote en el contexto cuando sea pertinente.`,
	[]string{"company", "industry", "goals", "audience", "budget", "context"},
)

// BuildProposalPrompt renders the user prompt from the form fields and
// the retrieved context snippets.
func BuildProposalPrompt(req ProposalRequest, snippets []string) (string, error) {
	context := "(sin contexto adicional)"
	if len(snippets) > 0 {
		var sb strings.Builder
		for i, s := range snippets {
			if i > 0 {
				sb.WriteString("\n---\n")
			}
			sb.WriteString(s)
		}
		context = sb.String()
	}

	prompt, err := proposalTemplate.Format(map[string]any{
		"company":  req.Company,
		"industry": orUnspecified(req.Industry),
		"goals":    req.Goals,
		"audience": orUnspecified(req.Audience),
		"budget":   orUnspecified(req.Budget),
		"context":  context,
	})
	if err != nil {
		return "", fmt.Errorf("format prompt: %w", err)
	}
	return prompt, nil
}

func orUnspecified(s string) string {
	if s == "" {
		return "(no especificado)"
	}
	return s
}
