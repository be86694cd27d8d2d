package dupindex

import (
	"path/filepath"
	"strings"

	"github.com/elliotchance/orderedmap/v2"

	"github.com/deadwood-scan/deadwood/pkg/models"
)

// Index groups file paths by content identity. Insertion order is
// preserved twice over: groups come out in the order their identity
// was first observed, and paths within a group keep arrival order,
// so the first path recorded for an identity is the original.
type Index struct {
	groups *orderedmap.OrderedMap[string, []string]
}

// New creates an empty index
func New() *Index {
	return &Index{
		groups: orderedmap.NewOrderedMap[string, []string](),
	}
}

// Insert records that path carries the given content identity
func (i *Index) Insert(identity, path string) {
	paths, _ := i.groups.Get(identity)
	i.groups.Set(identity, append(paths, path))
}

// Len returns the number of distinct identities observed
func (i *Index) Len() int {
	return i.groups.Len()
}

// Relations flattens the index into duplicate relations, one per
// redundant copy. Groups with a single member are skipped. When an
// allow list is given, a group whose original falls outside it is
// dropped whole, and individual duplicates outside it are dropped
// from their group. An empty allow list admits everything.
func (i *Index) Relations(allowed []string) []models.DuplicateRelation {
	var relations []models.DuplicateRelation

	for el := i.groups.Front(); el != nil; el = el.Next() {
		paths := el.Value
		if len(paths) < 2 {
			continue
		}

		original := paths[0]
		if !extensionAllowed(original, allowed) {
			continue
		}

		for _, dupe := range paths[1:] {
			if !extensionAllowed(dupe, allowed) {
				continue
			}
			relations = append(relations, models.DuplicateRelation{
				Path:     dupe,
				Original: original,
				Identity: el.Key,
			})
		}
	}

	return relations
}

func extensionAllowed(path string, allowed []string) bool {
	if len(allowed) == 0 {
		return true
	}

	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	for _, candidate := range allowed {
		if ext == candidate {
			return true
		}
	}
	return false
}
