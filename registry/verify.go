package registry

import (
	"fmt"
	"sort"
	"strings"

	"github.com/golineage/lineage"
	"github.com/golineage/lineage/pool"
)

// Verify checks the hierarchy for structural problems and returns one
// issue per finding. Resolution never calls Verify; a registry that fails
// verification still resolves deterministically, the results are just
// unlikely to mean much.
//
// Findings, in order:
//   - unknown parent references (error)
//   - derivation cycles (error)
//   - redefinitions that changed an entity's parents (warning)
//
// Output order is stable for a given registry state.
func (r *Registry) Verify() []lineage.Issue {
	r.mu.Lock()
	defer r.mu.Unlock()

	var issues []lineage.Issue

	ids := make([]string, 0, len(r.defs))
	for id := range r.defs {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		for _, p := range r.defs[id].Parents {
			if _, ok := r.defs[p]; !ok {
				issues = append(issues, lineage.Error(lineage.CodeUnknownParent).
					Entity(id).
					Diagnostics(fmt.Sprintf("parent %q is not defined", p)).
					Build())
			}
		}
	}

	r.findCyclesLocked(ids, func(cycle []string) {
		issues = append(issues, lineage.Error(lineage.CodeCycle).
			Entity(cycle[0]).
			Diagnostics("derivation cycle: "+renderCycle(cycle)).
			Build())
	})

	for _, rd := range r.redefs {
		issues = append(issues, lineage.Warning(lineage.CodeDuplicateDefinition).
			Entity(rd.id).
			Diagnostics(fmt.Sprintf("redefinition changed parents from [%s] to [%s]",
				strings.Join(rd.oldParents, " "), strings.Join(rd.newParents, " "))).
			Build())
	}

	return issues
}

// findCyclesLocked walks the parent links depth-first from each ID and
// invokes report once per back edge with the closed path. The write lock
// must be held. Undefined parents are skipped here; Verify reports them
// separately.
func (r *Registry) findCyclesLocked(ids []string, report func(cycle []string)) {
	visited := visitedPool.Acquire()
	onStack := visitedPool.Acquire()
	defer visitedPool.Release(visited)
	defer visitedPool.Release(onStack)

	var path []string
	var dfs func(id string)
	dfs = func(id string) {
		visited[id] = true
		onStack[id] = true
		path = append(path, id)

		for _, p := range r.defs[id].Parents {
			if _, ok := r.defs[p]; !ok {
				continue
			}
			if onStack[p] {
				start := 0
				for i, n := range path {
					if n == p {
						start = i
						break
					}
				}
				cycle := make([]string, 0, len(path)-start+1)
				cycle = append(cycle, path[start:]...)
				cycle = append(cycle, p)
				report(cycle)
				continue
			}
			if !visited[p] {
				dfs(p)
			}
		}

		path = path[:len(path)-1]
		delete(onStack, id)
	}

	for _, id := range ids {
		if !visited[id] {
			dfs(id)
		}
	}
}

// renderCycle formats a closed path as "A -> B -> A".
func renderCycle(cycle []string) string {
	return pool.BuildTrail(func(tb *pool.TrailBuilder) {
		for _, id := range cycle {
			tb.Append(id)
		}
	})
}
