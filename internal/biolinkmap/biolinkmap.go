// Package biolinkmap is the read-only semantic mapping component: UMLS
// semantic-type identifiers (TUI) to Biolink category labels, and UMLS
// RELA/REL relationship attributes to Biolink predicates. Tables are bundled
// static YAML, embedded at build time and parsed once into immutable maps,
// the same embed-then-parse shape the rest of the pack uses for template
// and schema assets.
package biolinkmap

import (
	"embed"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/biolinkgraph/umls-graph-syncer/internal/platform/logger"
)

//go:embed tables/tui_category.yaml tables/rela_predicate.yaml
var tablesFS embed.FS

const (
	defaultCategory  = "biolink:NamedThing"
	defaultPredicate = "biolink:related_to"
)

// Map is the loaded, immutable BiolinkMap. Zero value is not usable; build
// one with Load.
type Map struct {
	categories map[string]string
	predicates map[string]string

	warnOnce sync.Map // key -> struct{}, guards "warn once per unknown key"
	log      *logger.Logger
}

// Load parses the bundled tables into an immutable Map. Returns an error
// only on malformed embedded YAML, which would be a build-time defect, not
// a runtime one.
func Load(log *logger.Logger) (*Map, error) {
	catRaw, err := tablesFS.ReadFile("tables/tui_category.yaml")
	if err != nil {
		return nil, err
	}
	relRaw, err := tablesFS.ReadFile("tables/rela_predicate.yaml")
	if err != nil {
		return nil, err
	}

	var categories map[string]string
	if err := yaml.Unmarshal(catRaw, &categories); err != nil {
		return nil, err
	}
	var predicates map[string]string
	if err := yaml.Unmarshal(relRaw, &predicates); err != nil {
		return nil, err
	}

	return &Map{
		categories: categories,
		predicates: predicates,
		log:        log,
	}, nil
}

// CategoryFor returns the Biolink category for a semantic-type identifier,
// defaulting to biolink:NamedThing for unknown TUIs. Unknown keys warn once
// per process rather than once per row.
func (m *Map) CategoryFor(tui string) string {
	tui = strings.TrimSpace(tui)
	if tui == "" {
		return defaultCategory
	}
	if cat, ok := m.categories[tui]; ok {
		return cat
	}
	m.warnUnknown("tui", tui)
	return defaultCategory
}

// PredicateFor returns the Biolink predicate for a RELA (or REL when RELA is
// empty), defaulting to biolink:related_to for unknown keys.
func (m *Map) PredicateFor(relaOrRel string) string {
	relaOrRel = strings.TrimSpace(relaOrRel)
	if relaOrRel == "" {
		return defaultPredicate
	}
	if pred, ok := m.predicates[relaOrRel]; ok {
		return pred
	}
	m.warnUnknown("rela", relaOrRel)
	return defaultPredicate
}

func (m *Map) warnUnknown(kind, key string) {
	if m.log == nil {
		return
	}
	dedupeKey := kind + ":" + key
	if _, loaded := m.warnOnce.LoadOrStore(dedupeKey, struct{}{}); loaded {
		return
	}
	m.log.Warn("biolinkmap: unknown key, using default mapping", "kind", kind, "key", key)
}
