package timetable

import (
	"github.com/Lena958/iload/internal/models"
	ierrors "github.com/Lena958/iload/pkg/errors"
)

// Assignment maps a subject variable to the Group chosen for it.
type Assignment map[string]Group

// SearchResult carries a successful assignment plus search statistics worth
// surfacing to Diagnostics and metrics.
type SearchResult struct {
	Assignment    Assignment
	NodesExplored int
}

// loadTracker accumulates per-instructor load and day coverage as the
// search assigns subjects, backing invariants 5 and 8. Clone before
// mutating a branch so sibling search nodes never see each other's state.
type loadTracker struct {
	sessions map[string]int
	days     map[string]map[models.Day]bool
	groups   map[string]int // number of Groups (not sessions) assigned to the instructor so far
}

func newLoadTracker() *loadTracker {
	return &loadTracker{
		sessions: make(map[string]int),
		days:     make(map[string]map[models.Day]bool),
		groups:   make(map[string]int),
	}
}

func (l *loadTracker) clone() *loadTracker {
	out := &loadTracker{
		sessions: make(map[string]int, len(l.sessions)),
		days:     make(map[string]map[models.Day]bool, len(l.days)),
		groups:   make(map[string]int, len(l.groups)),
	}
	for k, v := range l.sessions {
		out.sessions[k] = v
	}
	for k, v := range l.groups {
		out.groups[k] = v
	}
	for k, v := range l.days {
		cp := make(map[models.Day]bool, len(v))
		for d := range v {
			cp[d] = true
		}
		out.days[k] = cp
	}
	return out
}

func (l *loadTracker) add(instructorID string, g Group) *loadTracker {
	next := l.clone()
	next.sessions[instructorID] += g.Len()
	next.groups[instructorID]++
	days, ok := next.days[instructorID]
	if !ok {
		days = make(map[models.Day]bool)
	}
	for _, m := range g.Meetings {
		days[m.Day] = true
	}
	next.days[instructorID] = days
	return next
}

// withinBudget reports whether assigning g to instructorID keeps the
// instructor's total weekly sessions within MaxLoad (invariant 5).
func (l *loadTracker) withinBudget(instructor models.Instructor, g Group) bool {
	return l.sessions[instructor.ID]+g.Len() <= instructor.MaxLoad
}

// satisfiesTwoDayRule checks the two-distinct-day rule for one instructor
// once that instructor's search subtree has finished assigning all of its
// subjects: a PartTime instructor with two or more assigned Groups must have
// sessions spanning at least two distinct days. A PartTime instructor who
// ends up with exactly one Group is exempt, since a single-subject load
// cannot be expected to span days the pattern itself doesn't touch.
func (l *loadTracker) satisfiesTwoDayRule(instructor models.Instructor) bool {
	if instructor.Status != models.EmploymentPartTime {
		return true
	}
	if l.groups[instructor.ID] < 2 {
		return true
	}
	return len(l.days[instructor.ID]) >= 2
}

func cloneDomains(d Domains) Domains {
	out := make(Domains, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// Search performs backtracking search with forward checking over domains,
// using MRV variable ordering and ascending-size value ordering (spec
// §4.6). subjects is passed through the recursion but not consulted;
// each candidate's instructor is looked up by its Group's InstructorID in
// instructors, the externally owned instructor table.
func Search(c *Constraints, subjects map[string]models.Subject, instructors map[string]models.Instructor, domains Domains, nodeBudget int) (*SearchResult, error) {
	nodes := 0
	assignment := Assignment{}
	tracker := newLoadTracker()

	result, err := backtrack(c, subjects, instructors, domains, assignment, tracker, nodeBudget, &nodes)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, ierrors.ErrSearchInfeasible
	}
	return &SearchResult{Assignment: result, NodesExplored: nodes}, nil
}

func backtrack(c *Constraints, subjects map[string]models.Subject, instructors map[string]models.Instructor, domains Domains, assignment Assignment, tracker *loadTracker, nodeBudget int, nodes *int) (Assignment, error) {
	unassigned := selectUnassignedVariable(domains, assignment)
	if unassigned == "" {
		if !finalChecksPass(instructors, tracker) {
			return nil, nil
		}
		return assignment, nil
	}

	*nodes++
	if nodeBudget > 0 && *nodes > nodeBudget {
		return nil, ierrors.ErrBudgetExhausted
	}

	candidates := make(Domain, len(domains[unassigned]))
	copy(candidates, domains[unassigned])
	candidates.SortForSearch()

	for _, g := range candidates {
		instructor, ok := instructors[g.InstructorID]
		if !ok {
			continue
		}
		if !tracker.withinBudget(instructor, g) {
			continue
		}
		if !consistentWithAssignment(c, assignment, g) {
			continue
		}

		nextDomains, ok := forwardCheck(c, domains, assignment, unassigned, g)
		if !ok {
			continue
		}

		nextAssignment := make(Assignment, len(assignment)+1)
		for k, v := range assignment {
			nextAssignment[k] = v
		}
		nextAssignment[unassigned] = g

		nextTracker := tracker.add(instructor.ID, g)

		result, err := backtrack(c, subjects, instructors, nextDomains, nextAssignment, nextTracker, nodeBudget, nodes)
		if err != nil {
			return nil, err
		}
		if result != nil {
			return result, nil
		}
	}

	return nil, nil
}

// selectUnassignedVariable applies MRV: the unassigned subject with the
// fewest remaining candidate Groups. Returns "" once every
// subject is assigned.
func selectUnassignedVariable(domains Domains, assignment Assignment) string {
	best := ""
	bestSize := -1
	for subjectID, domain := range domains {
		if _, done := assignment[subjectID]; done {
			continue
		}
		if bestSize == -1 || len(domain) < bestSize {
			best = subjectID
			bestSize = len(domain)
		}
	}
	return best
}

// consistentWithAssignment is the per-node consistency check: g must be
// compatible with every Group already assigned to another subject.
func consistentWithAssignment(c *Constraints, assignment Assignment, g Group) bool {
	for _, other := range assignment {
		if !c.Compatible(g, other) {
			return false
		}
	}
	return true
}

// forwardCheck filters every unassigned neighbor's domain down to Groups
// compatible with the newly assigned Group g, returning ok=false the
// moment any neighbor's domain would be emptied.
func forwardCheck(c *Constraints, domains Domains, assignment Assignment, assignedSubject string, g Group) (Domains, bool) {
	next := cloneDomains(domains)
	next[assignedSubject] = Domain{g}

	for subjectID, domain := range next {
		if subjectID == assignedSubject {
			continue
		}
		if _, done := assignment[subjectID]; done {
			continue
		}
		filtered := make(Domain, 0, len(domain))
		for _, candidate := range domain {
			if c.Compatible(candidate, g) {
				filtered = append(filtered, candidate)
			}
		}
		if len(filtered) == 0 {
			return nil, false
		}
		next[subjectID] = filtered
	}
	return next, true
}

// finalChecksPass runs the invariants that can only be evaluated once every
// subject has a Group: the PartTime two-day rule (invariant 8).
func finalChecksPass(instructors map[string]models.Instructor, tracker *loadTracker) bool {
	for id, instructor := range instructors {
		if _, touched := tracker.groups[id]; !touched {
			continue
		}
		if !tracker.satisfiesTwoDayRule(instructor) {
			return false
		}
	}
	return true
}
