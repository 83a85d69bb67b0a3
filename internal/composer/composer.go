package composer

import (
	"sort"
	"strings"

	"github.com/yungbote/circuitboard-backend/internal/platform/apierr"
	"github.com/yungbote/circuitboard-backend/internal/types"
)

const (
	knowledgeBaseHeader = "Knowledge Base:"
	emptyKnowledgeBase  = "The knowledge base for this class is currently empty."
	elisionSentence     = "[Additional newer materials were omitted to fit the context limit.]"
)

// Config bounds the assembled knowledge-base section. Zero means unbounded,
// matching the historical behavior; when positive, newest excerpts are
// evicted first so the oldest foundation material survives.
type Config struct {
	MaxKnowledgeBytes int
}

// PromptContext is the transient product of one composition. It is
// recomputed on every chat turn and never persisted.
type PromptContext struct {
	Preamble   string
	Directives []string
	Excerpts   []string
	Truncated  bool
	Text       string
}

type Composer struct {
	cfg Config
}

func New(cfg Config) *Composer {
	return &Composer{cfg: cfg}
}

// Compose assembles the bounded prompt for one chat turn. It is a pure
// function of the circuit settings and the content set passed in: no
// caching, so a settings edit or a fresh archive takes effect on the very
// next turn. The only failure is a missing circuit.
func (c *Composer) Compose(circuit *types.Circuit, items []*types.ContentItem) (PromptContext, error) {
	if circuit == nil {
		return PromptContext{}, apierr.NotFoundf("circuit not found")
	}

	settings := SettingsFromCircuit(circuit)
	pc := PromptContext{
		Preamble:   Preamble(settings),
		Directives: DirectiveSentences(settings),
	}

	pc.Excerpts, pc.Truncated = renderExcerpts(items, c.cfg.MaxKnowledgeBytes)
	pc.Text = assemble(pc)
	return pc, nil
}

// renderExcerpts filters to active items, orders them oldest first and
// renders one labelled block per item. An item with neither content nor
// description still yields a labelled empty block, keeping indices stable
// for downstream debugging.
func renderExcerpts(items []*types.ContentItem, maxBytes int) (excerpts []string, truncated bool) {
	active := make([]*types.ContentItem, 0, len(items))
	for _, it := range items {
		if it == nil || it.Archived {
			continue
		}
		active = append(active, it)
	}
	sort.SliceStable(active, func(i, j int) bool {
		return active[i].CreatedAt.Before(active[j].CreatedAt)
	})

	total := 0
	for _, it := range active {
		body := it.Content
		if strings.TrimSpace(body) == "" {
			body = it.Description
		}
		excerpt := it.Title + ":\n" + body
		if maxBytes > 0 && total+len(excerpt) > maxBytes && len(excerpts) > 0 {
			truncated = true
			break
		}
		excerpts = append(excerpts, excerpt)
		total += len(excerpt)
	}
	return excerpts, truncated
}

func assemble(pc PromptContext) string {
	var b strings.Builder
	b.WriteString(pc.Preamble)
	for _, d := range pc.Directives {
		b.WriteString("\n")
		b.WriteString(d)
	}

	b.WriteString("\n\n")
	b.WriteString(knowledgeBaseHeader)
	b.WriteString("\n")
	if len(pc.Excerpts) == 0 {
		b.WriteString(emptyKnowledgeBase)
	} else {
		b.WriteString(strings.Join(pc.Excerpts, "\n\n"))
		if pc.Truncated {
			b.WriteString("\n\n")
			b.WriteString(elisionSentence)
		}
	}

	b.WriteString("\n\n")
	b.WriteString(reminder(pc.Directives))
	return b.String()
}

// reminder restates the directives at the end of the prompt so a long
// conversation cannot drift away from the configured behavior.
func reminder(directives []string) string {
	if len(directives) == 0 {
		return "Remember: stay in your role as a tutoring assistant for this class."
	}
	return "Remember: " + strings.Join(directives, " ")
}
