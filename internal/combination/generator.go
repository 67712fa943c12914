package combination

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/vqdung71104/student-management-sub001/internal/models"
)

// DefaultMaxCombinations bounds a single search run.
const DefaultMaxCombinations = 200

// ErrInfeasible marks a run where some requirement has no candidate section.
var ErrInfeasible = errors.New("combination: requirement has no candidate sections")

// InfeasibleError lists the subjects that could not be offered any section.
type InfeasibleError struct {
	SubjectIDs []string
}

func (e *InfeasibleError) Error() string {
	return fmt.Sprintf("combination: no candidate sections for %s", strings.Join(e.SubjectIDs, ", "))
}

// Is lets errors.Is match ErrInfeasible.
func (e *InfeasibleError) Is(target error) bool {
	return target == ErrInfeasible
}

// Candidates pairs a requirement with the sections it may be scheduled into.
type Candidates struct {
	Requirement models.SubjectRequirement
	Options     []*models.ClassOption
}

// GeneratorConfig tunes the search.
type GeneratorConfig struct {
	MaxCombinations int
}

// Result is the raw output of one search run.
type Result struct {
	Combinations []*models.Combination
	// Partial is set only when a combination beyond the cap was found, so a
	// search yielding exactly the cap is complete.
	Partial bool
	// Explored counts the search nodes visited.
	Explored int
}

// Generator enumerates conflict-free section assignments by depth-first backtracking.
type Generator struct {
	cfg   GeneratorConfig
	newID func() string
}

// NewGenerator constructs a generator; a non-positive cap falls back to DefaultMaxCombinations.
func NewGenerator(cfg GeneratorConfig) *Generator {
	if cfg.MaxCombinations <= 0 {
		cfg.MaxCombinations = DefaultMaxCombinations
	}
	return &Generator{cfg: cfg, newID: uuid.NewString}
}

// MaxCombinations returns the configured cap.
func (g *Generator) MaxCombinations() int {
	return g.cfg.MaxCombinations
}

// Generate emits every conflict-free combination in requirement order, up to
// the cap. A requirement without candidates fails the run with an
// *InfeasibleError before any search happens.
func (g *Generator) Generate(requirements []Candidates) (*Result, error) {
	if err := checkFeasible(requirements); err != nil {
		return &Result{}, err
	}
	result := &Result{}
	if len(requirements) == 0 {
		return result, nil
	}

	domains := make([][]*models.ClassOption, len(requirements))
	for i, req := range requirements {
		domains[i] = req.Options
	}
	chosen := make([]*models.ClassOption, 0, len(requirements))
	g.search(requirements, domains, chosen, result)
	return result, nil
}

// search expands depth len(chosen). domains[d] holds the candidates for
// requirement d that do not clash with anything chosen so far.
func (g *Generator) search(requirements []Candidates, domains [][]*models.ClassOption, chosen []*models.ClassOption, result *Result) bool {
	depth := len(chosen)
	if depth == len(requirements) {
		if len(result.Combinations) >= g.cfg.MaxCombinations {
			result.Partial = true
			return false
		}
		result.Combinations = append(result.Combinations, g.emit(requirements, chosen))
		return true
	}

	for _, option := range domains[depth] {
		result.Explored++
		next, ok := narrow(domains, depth, option)
		if !ok {
			continue
		}
		if !g.search(requirements, next, append(chosen, option), result) {
			return false
		}
	}
	return true
}

// narrow removes from every deeper domain the sections that clash with
// option. It fails as soon as a deeper requirement is left without candidates.
func narrow(domains [][]*models.ClassOption, depth int, option *models.ClassOption) ([][]*models.ClassOption, bool) {
	next := make([][]*models.ClassOption, len(domains))
	copy(next, domains[:depth+1])
	for d := depth + 1; d < len(domains); d++ {
		viable := make([]*models.ClassOption, 0, len(domains[d]))
		for _, candidate := range domains[d] {
			if !Conflicts(option, candidate) {
				viable = append(viable, candidate)
			}
		}
		if len(viable) == 0 {
			return nil, false
		}
		next[d] = viable
	}
	return next, true
}

func (g *Generator) emit(requirements []Candidates, chosen []*models.ClassOption) *models.Combination {
	selections := make([]models.Selection, len(chosen))
	for i, option := range chosen {
		req := requirements[i].Requirement
		selections[i] = models.Selection{
			SubjectID:   req.SubjectID,
			SubjectName: req.Name,
			Credits:     req.Credits,
			Class:       option,
		}
	}
	combo := &models.Combination{ID: g.newID(), Selections: selections}
	combo.Metrics = ComputeMetrics(selections)
	return combo
}

func checkFeasible(requirements []Candidates) error {
	var missing []string
	for _, req := range requirements {
		if len(req.Options) == 0 {
			missing = append(missing, req.Requirement.SubjectID)
		}
	}
	if len(missing) > 0 {
		return &InfeasibleError{SubjectIDs: missing}
	}
	return nil
}

// ExcludeDays drops sections meeting on any of the given days. Requirements
// left without candidates are reported so the caller can surface them.
func ExcludeDays(requirements []Candidates, days models.WeekdaySet) ([]Candidates, []string) {
	if len(days) == 0 {
		return requirements, nil
	}
	var emptied []string
	filtered := make([]Candidates, len(requirements))
	for i, req := range requirements {
		kept := make([]*models.ClassOption, 0, len(req.Options))
		for _, option := range req.Options {
			if !option.Days.Intersects(days) {
				kept = append(kept, option)
			}
		}
		if len(kept) == 0 && len(req.Options) > 0 {
			emptied = append(emptied, req.Requirement.SubjectID)
		}
		filtered[i] = Candidates{Requirement: req.Requirement, Options: kept}
	}
	return filtered, emptied
}
