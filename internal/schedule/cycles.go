package schedule

import (
	"sort"
	"strings"

	"github.com/Ftibw/mongo-modelgen/internal/analyze"
	"github.com/Ftibw/mongo-modelgen/internal/registry"
	"github.com/Ftibw/mongo-modelgen/internal/walk"
)

// topoSort returns indices in dependency order, followed by the indices it
// could not place because they sit on or behind a cycle.
//
// depsFn(i) yields indices that must come before i. When several nodes are
// ready the smallest index is taken, so the result is deterministic.
func topoSort(n int, depsFn func(i int) []int) (order, stuck []int) {
	if n <= 0 {
		return nil, nil
	}

	indeg := make([]int, n)
	out := make([][]int, n)

	for i := range n {
		for _, d := range depsFn(i) {
			if d < 0 || d >= n || d == i {
				continue
			}

			indeg[i]++
			out[d] = append(out[d], i)
		}
	}

	for i := range out {
		sort.Ints(out[i])
	}

	var ready []int

	for i := range n {
		if indeg[i] == 0 {
			ready = append(ready, i)
		}
	}

	order = make([]int, 0, n)

	for len(ready) > 0 {
		i := ready[0]
		ready = ready[1:]

		order = append(order, i)
		for _, j := range out[i] {
			indeg[j]--
			if indeg[j] == 0 {
				k := sort.SearchInts(ready, j)
				ready = append(ready, 0)
				copy(ready[k+1:], ready[k:])
				ready[k] = j
			}
		}
	}

	for i := range n {
		if indeg[i] > 0 {
			stuck = append(stuck, i)
		}
	}

	return order, stuck
}

// cycleMembers returns the qualified names of the types in tds that take
// part in a reference cycle, or sit behind one. A type comes after every
// type it is referenced by.
func cycleMembers(w *walk.Walker, tds []*registry.TypeDescriptor) []string {
	index := make(map[analyze.TypeID]int, len(tds))
	for i, td := range tds {
		index[td.ID()] = i
	}

	referencedBy := make([][]int, len(tds))

	for i, td := range tds {
		for _, ref := range w.References(td.Info) {
			if j, ok := index[ref.ID]; ok {
				referencedBy[j] = append(referencedBy[j], i)
			}
		}
	}

	_, stuck := topoSort(len(tds), func(i int) []int { return referencedBy[i] })

	names := make([]string, 0, len(stuck))
	for _, i := range stuck {
		names = append(names, tds[i].QualifiedName())
	}

	return names
}

func joinNames(names []string) string {
	return strings.Join(names, ", ")
}
