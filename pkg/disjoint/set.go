// Package disjoint implements a disjoint-set (union-find) over integer ids.
package disjoint

// Set tracks a partition of the ids 0..n-1 into disjoint groups.
// Find uses path compression and Union merges by size, so long chains
// of merges stay close to constant time per operation.
type Set struct {
	parent []int
	size   []int
}

// New creates a Set of n singleton groups.
func New(n int) *Set {
	s := &Set{
		parent: make([]int, n),
		size:   make([]int, n),
	}
	for i := 0; i < n; i++ {
		s.parent[i] = i
		s.size[i] = 1
	}
	return s
}

// Len returns the number of ids tracked by the set.
func (s *Set) Len() int {
	return len(s.parent)
}

// Find returns the representative id of the group containing x.
func (s *Set) Find(x int) int {
	root := x
	for s.parent[root] != root {
		root = s.parent[root]
	}
	// Compress the walked path onto the root.
	for s.parent[x] != root {
		s.parent[x], x = root, s.parent[x]
	}
	return root
}

// Union merges the groups containing a and b.
// Returns true if a merge happened, false if they were already joined.
func (s *Set) Union(a, b int) bool {
	ra, rb := s.Find(a), s.Find(b)
	if ra == rb {
		return false
	}
	if s.size[ra] < s.size[rb] {
		ra, rb = rb, ra
	}
	s.parent[rb] = ra
	s.size[ra] += s.size[rb]
	return true
}

// Same reports whether a and b are in the same group.
func (s *Set) Same(a, b int) bool {
	return s.Find(a) == s.Find(b)
}

// GroupSize returns the number of ids in x's group.
func (s *Set) GroupSize(x int) int {
	return s.size[s.Find(x)]
}

// Groups returns the members of every group, keyed by representative id.
// Member slices are ordered by id.
func (s *Set) Groups() map[int][]int {
	groups := make(map[int][]int)
	for i := range s.parent {
		root := s.Find(i)
		groups[root] = append(groups[root], i)
	}
	return groups
}
