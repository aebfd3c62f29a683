// Package depgraph computes the parent-before-child execution order that
// synthesis must follow to satisfy foreign key constraints, via Kahn's
// algorithm with DFS-based cycle detection for diagnostics.
package depgraph

import (
	"sort"

	"github.com/Pragadeesh-19/replidb/internal/errs"
	"github.com/Pragadeesh-19/replidb/internal/schema"
)

// Resolve returns tables in topological order (parents before children).
// A foreign key from a table to itself contributes no edge — self
// references never participate in cycle detection or ordering, since they
// are resolved against rows already generated earlier in the same table's
// row loop.
//
// Go map iteration order is randomized, so ties among simultaneously-ready
// tables (no remaining unresolved parent) are broken alphabetically by
// table name, which is stable and makes execution order reproducible
// across runs of the same genome.
func Resolve(tables map[string]*schema.Table) ([]string, error) {
	names := make([]string, 0, len(tables))
	for name := range tables {
		names = append(names, name)
	}
	sort.Strings(names)

	inDegree := make(map[string]int, len(tables))
	children := make(map[string][]string)
	for _, name := range names {
		inDegree[name] = 0
	}

	for _, name := range names {
		t := tables[name]
		for _, fk := range t.ForeignKeys {
			if fk.TargetTable == t.Name {
				continue
			}
			if _, ok := tables[fk.TargetTable]; !ok {
				continue
			}
			children[fk.TargetTable] = append(children[fk.TargetTable], t.Name)
			inDegree[t.Name]++
		}
	}
	for _, childNames := range children {
		sort.Strings(childNames)
	}

	ready := make(map[string]bool, len(names))
	for _, name := range names {
		if inDegree[name] == 0 {
			ready[name] = true
		}
	}

	var order []string
	for len(ready) > 0 {
		var next string
		for name := range ready {
			if next == "" || name < next {
				next = name
			}
		}
		delete(ready, next)
		order = append(order, next)

		for _, child := range children[next] {
			inDegree[child]--
			if inDegree[child] == 0 {
				ready[child] = true
			}
		}
	}

	if len(order) != len(tables) {
		cycle, unreachable := detectCycle(tables, order)
		return nil, &errs.CircularDependencyError{Cycle: cycle, Unreachable: unreachable}
	}

	return order, nil
}

// detectCycle finds one cycle among tables not present in resolved, for a
// helpful error message, and lists every table that never got ordered.
func detectCycle(tables map[string]*schema.Table, resolved []string) (cycle, unreachable []string) {
	const (
		white = 0
		gray  = 1
		black = 2
	)

	names := make([]string, 0, len(tables))
	for name := range tables {
		names = append(names, name)
	}
	sort.Strings(names)

	inResolved := make(map[string]bool, len(resolved))
	for _, n := range resolved {
		inResolved[n] = true
	}
	for _, name := range names {
		if !inResolved[name] {
			unreachable = append(unreachable, name)
		}
	}

	color := make(map[string]int)
	parent := make(map[string]string)
	for _, name := range names {
		color[name] = white
	}

	var cyclePath []string

	var dfs func(node string) bool
	dfs = func(node string) bool {
		color[node] = gray
		t := tables[node]
		for _, fk := range t.ForeignKeys {
			next := fk.TargetTable
			if next == node {
				continue
			}
			if _, ok := tables[next]; !ok {
				continue
			}
			if color[next] == gray {
				cyclePath = []string{next, node}
				cur := node
				for cur != next {
					cur = parent[cur]
					cyclePath = append(cyclePath, cur)
				}
				for i, j := 0, len(cyclePath)-1; i < j; i, j = i+1, j-1 {
					cyclePath[i], cyclePath[j] = cyclePath[j], cyclePath[i]
				}
				return true
			}
			if color[next] == white {
				parent[next] = node
				if dfs(next) {
					return true
				}
			}
		}
		color[node] = black
		return false
	}

	for _, name := range names {
		if color[name] == white {
			if dfs(name) {
				return cyclePath, unreachable
			}
		}
	}

	return []string{"(unknown cycle)"}, unreachable
}
