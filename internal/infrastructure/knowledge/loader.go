// Package knowledge loads the bundled advisory knowledge base.
package knowledge

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/agrovoice/agrovoice-go/assets"
	"github.com/agrovoice/agrovoice-go/internal/domain"
)

// Load returns the knowledge base from path, or the embedded default when
// path is empty. The returned value is constructed once at startup and
// passed by reference into the resolver; it is never mutated afterwards.
func Load(path string) (*domain.KnowledgeBase, error) {
	data := assets.DefaultKnowledgeYAML
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read knowledge file: %w", err)
		}
		data = raw
	}
	return Parse(data)
}

// Parse decodes and validates a knowledge YAML document.
func Parse(data []byte) (*domain.KnowledgeBase, error) {
	var kb domain.KnowledgeBase
	if err := yaml.Unmarshal(data, &kb); err != nil {
		return nil, fmt.Errorf("parse knowledge: %w", err)
	}
	if len(kb.Concepts) == 0 && len(kb.Entries) == 0 && len(kb.Patterns) == 0 {
		return nil, fmt.Errorf("knowledge base is empty")
	}

	// Concepts match longest keyword first so "soil moisture testing" wins
	// over "soil". Sorting here keeps the resolver a plain linear scan.
	sort.SliceStable(kb.Concepts, func(i, j int) bool {
		return longestKeyword(kb.Concepts[i].Keywords) > longestKeyword(kb.Concepts[j].Keywords)
	})
	return &kb, nil
}

func longestKeyword(keywords []string) int {
	max := 0
	for _, k := range keywords {
		if len(k) > max {
			max = len(k)
		}
	}
	return max
}
