package registry

import "sort"

// Hierarchy classification queries. The child index is memoized alongside
// the ancestor closures and rebuilt lazily after definition changes.

// Roots returns the IDs of defined entities without parents, sorted.
func (r *Registry) Roots() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []string
	for id, e := range r.defs {
		if len(e.Parents) == 0 {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}

// Leaves returns the IDs of defined entities no other entity derives
// from, sorted.
func (r *Registry) Leaves() []string {
	r.mu.Lock()
	children := r.childrenLocked()

	var out []string
	for id := range r.defs {
		if len(children[id]) == 0 {
			out = append(out, id)
		}
	}
	r.mu.Unlock()

	sort.Strings(out)
	return out
}

// IsRoot reports whether the entity is defined and has no parents.
func (r *Registry) IsRoot(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.defs[id]
	return ok && len(e.Parents) == 0
}

// IsLeaf reports whether the entity is defined and has no children.
func (r *Registry) IsLeaf(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.defs[id]; !ok {
		return false
	}
	return len(r.childrenLocked()[id]) == 0
}

// Children returns the IDs that declare the entity as a direct parent,
// sorted.
func (r *Registry) Children(id string) []string {
	r.mu.Lock()
	kids := cloneStrings(r.childrenLocked()[id])
	r.mu.Unlock()

	sort.Strings(kids)
	return kids
}

// Depth returns the length of the longest parent chain from the entity up
// to a root. Roots have depth 0; undefined IDs report -1. Links that
// close a cycle contribute nothing to the depth.
func (r *Registry) Depth(id string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.defs[id]; !ok {
		return -1
	}

	memo := make(map[string]int, len(r.defs))
	onStack := visitedPool.Acquire()
	d := r.depthLocked(id, memo, onStack)
	visitedPool.Release(onStack)
	return d
}

// MaxDepth returns the largest Depth over all defined entities, or -1 for
// an empty catalog.
func (r *Registry) MaxDepth() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.defs) == 0 {
		return -1
	}

	memo := make(map[string]int, len(r.defs))
	onStack := visitedPool.Acquire()
	maxDepth := 0
	for id := range r.defs {
		if d := r.depthLocked(id, memo, onStack); d > maxDepth {
			maxDepth = d
		}
	}
	visitedPool.Release(onStack)
	return maxDepth
}

// depthLocked computes the longest chain above id. The write lock must be
// held. Recursion depth is bounded by the hierarchy height.
func (r *Registry) depthLocked(id string, memo map[string]int, onStack map[string]bool) int {
	if d, ok := memo[id]; ok {
		return d
	}
	if onStack[id] {
		return -1
	}
	onStack[id] = true

	best := -1
	for _, p := range r.defs[id].Parents {
		if _, ok := r.defs[p]; !ok {
			continue
		}
		if d := r.depthLocked(p, memo, onStack); d > best {
			best = d
		}
	}
	delete(onStack, id)

	depth := best + 1
	memo[id] = depth
	return depth
}

// childrenLocked returns the memoized child index. The write lock must be
// held.
func (r *Registry) childrenLocked() map[string][]string {
	if r.children != nil {
		return r.children
	}

	idx := make(map[string][]string, len(r.defs))
	for id, e := range r.defs {
		for _, p := range e.Parents {
			idx[p] = append(idx[p], id)
		}
	}
	r.children = idx
	return idx
}
