package timetable

// Domains maps each subject variable to its current Domain. Propagation and
// search mutate Domains in place; search keeps its own undo trail.
type Domains map[string]Domain

// arc is a directed (xi, xj) constraint edge the AC-3 queue processes.
type arc struct {
	xi, xj string
}

// AC3 enforces arc consistency over domains using the constraint kernel c.
// It returns false the moment any domain is emptied, leaving
// domains in whatever partially-revised state triggered the failure; the
// caller is expected to discard the run on false, not continue propagating.
// trimThreshold is a heuristic pruning knob, not a correctness parameter:
// when > 0, an arc (xi, xj) is left out of the initial queue whenever
// domains[xi] already exceeds trimThreshold, since revising a very wide
// domain against one neighbor is the most expensive step AC-3 takes.
// Omitting the knob (trimThreshold <= 0) queues every arc. Trimming never
// discards a candidate Group that a full run would keep; it can only leave
// unsupported Groups in place, which search's consistency checks reject.
// metrics may be nil; when set, every domain revision increments
// metrics.AC3Revisions.
func AC3(c *Constraints, domains Domains, neighbors map[string][]string, trimThreshold int, metrics *Metrics) bool {
	queue := make([]arc, 0, len(domains)*2)
	for xi, nbrs := range neighbors {
		if trimThreshold > 0 && len(domains[xi]) > trimThreshold {
			continue
		}
		for _, xj := range nbrs {
			queue = append(queue, arc{xi, xj})
		}
	}

	for len(queue) > 0 {
		a := queue[0]
		queue = queue[1:]

		revised, ok := revise(c, domains, a.xi, a.xj)
		if !ok {
			return false
		}
		if revised {
			if metrics != nil {
				metrics.AC3Revisions.Inc()
			}
			for _, xk := range neighbors[a.xi] {
				if xk == a.xj {
					continue
				}
				queue = append(queue, arc{xk, a.xi})
			}
		}
	}
	return true
}

// revise removes every Group from domains[xi] that has no supporting Group
// in domains[xj] under c.Compatible, per the standard AC-3 revise step.
// It returns ok=false if the revision empties domains[xi]. revise never
// discards a Group that has a supporting neighbor; any domain-size bound is
// applied only to which arcs enter AC3's initial queue, not here.
func revise(c *Constraints, domains Domains, xi, xj string) (revised bool, ok bool) {
	di := domains[xi]
	dj := domains[xj]

	kept := di[:0:0]
	for _, gi := range di {
		supported := false
		for _, gj := range dj {
			if c.Compatible(gi, gj) {
				supported = true
				break
			}
		}
		if supported {
			kept = append(kept, gi)
		} else {
			revised = true
		}
	}

	domains[xi] = kept
	if len(kept) == 0 {
		return revised, false
	}
	return revised, true
}

// BuildNeighbors derives the AC-3 constraint graph: every pair of distinct
// subject variables is a neighbor of the other, since any two subjects may
// in principle share an instructor or room.
func BuildNeighbors(subjectIDs []string) map[string][]string {
	neighbors := make(map[string][]string, len(subjectIDs))
	for _, xi := range subjectIDs {
		for _, xj := range subjectIDs {
			if xi == xj {
				continue
			}
			neighbors[xi] = append(neighbors[xi], xj)
		}
	}
	return neighbors
}
