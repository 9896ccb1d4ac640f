package tutorkb

import (
	"fmt"
	"strings"

	"github.com/hazyhaar/tutorkb/internal/store"
)

// Results holds one combined search across all record kinds.
type Results struct {
	Concepts []store.Concept `json:"concepts"`
	Patterns []store.Pattern `json:"patterns"`
	Commands []store.Command `json:"commands"`
}

// IsEmpty reports whether the search matched nothing at all.
func (r *Results) IsEmpty() bool {
	return len(r.Concepts) == 0 && len(r.Patterns) == 0 && len(r.Commands) == 0
}

// Total counts results across all kinds.
func (r *Results) Total() int {
	return len(r.Concepts) + len(r.Patterns) + len(r.Commands)
}

// Confidence scores how well the knowledge base covered the query.
// No results means no coverage (0.0); five or more caps at 0.9. The
// ceiling stays below 1.0 because retrieval never proves completeness.
func (r *Results) Confidence() float64 {
	total := r.Total()
	switch {
	case total == 0:
		return 0.0
	case total >= 5:
		return 0.9
	default:
		return 0.5 + 0.08*float64(total)
	}
}

// Format renders the results as Markdown, one section per record kind.
// Empty kinds are omitted; an empty result set renders as "".
func (r *Results) Format() string {
	var b strings.Builder

	if len(r.Concepts) > 0 {
		b.WriteString("## Concepts\n\n")
		for _, c := range r.Concepts {
			fmt.Fprintf(&b, "### %s\n", c.Title)
			fmt.Fprintf(&b, "**Topic:** %s\n\n", c.Topic)
			fmt.Fprintf(&b, "%s\n\n", c.Explanation)

			if len(c.CodeExamples) > 0 {
				b.WriteString("**Examples:**\n")
				for _, ex := range c.CodeExamples {
					fmt.Fprintf(&b, "\n**%s:**\n```rust\n%s\n```\n", ex.Title, ex.Code)
					fmt.Fprintf(&b, "%s\n", ex.Explanation)
				}
				b.WriteByte('\n')
			}
		}
	}

	if len(r.Patterns) > 0 {
		b.WriteString("## Patterns\n\n")
		for _, p := range r.Patterns {
			fmt.Fprintf(&b, "### %s\n", p.Name)
			fmt.Fprintf(&b, "%s\n\n", p.Description)
			fmt.Fprintf(&b, "**When to use:** %s\n\n", p.WhenToUse)
			fmt.Fprintf(&b, "```rust\n%s\n```\n\n", p.Template)
		}
	}

	if len(r.Commands) > 0 {
		b.WriteString("## Commands\n\n")
		for _, c := range r.Commands {
			fmt.Fprintf(&b, "### %s %s\n", c.Tool, c.Command)
			fmt.Fprintf(&b, "%s\n\n", c.Description)

			if len(c.Examples) > 0 {
				b.WriteString("**Examples:**\n")
				for _, ex := range c.Examples {
					fmt.Fprintf(&b, "- `%s`\n", ex)
				}
				b.WriteByte('\n')
			}
		}
	}

	return b.String()
}
