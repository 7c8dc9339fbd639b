package attrition

import (
	"math"
	"math/rand"

	"github.com/tabml/gboost/dataset"
)

// Synthesize builds an n-row attrition table with the raw export headers
// and column order, a positive rate near 16.6%, and a few exact duplicate
// rows for the cleaner to find. The same n and seed always produce the
// same table. Leavers skew toward low satisfaction, long hours and
// extreme project counts, so a model has real structure to learn.
func Synthesize(n int, seed int64) *dataset.Dataset {
	rng := rand.New(rand.NewSource(seed))
	dups := n / 200
	unique := n - dups

	g := &generator{rng: rng}
	positives := int(math.Round(float64(unique) * 0.166))
	for i := 0; i < unique; i++ {
		remaining := unique - i
		leaver := float64(remaining)*rng.Float64() < float64(positives)
		if leaver {
			positives--
			g.leaver()
		} else {
			g.stayer()
		}
	}
	for i := 0; i < dups; i++ {
		g.copyRow(rng.Intn(unique))
	}

	ds, err := dataset.New(
		dataset.Column{Name: ColSatisfaction, Numeric: true, Floats: g.satisfaction},
		dataset.Column{Name: ColEvaluation, Numeric: true, Floats: g.evaluation},
		dataset.Column{Name: ColProjects, Numeric: true, Floats: g.projects},
		dataset.Column{Name: RawColHours, Numeric: true, Floats: g.hours},
		dataset.Column{Name: ColTenure, Numeric: true, Floats: g.tenure},
		dataset.Column{Name: RawColAccident, Numeric: true, Floats: g.accident},
		dataset.Column{Name: ColTarget, Numeric: true, Floats: g.left},
		dataset.Column{Name: ColPromotion, Numeric: true, Floats: g.promotion},
		dataset.Column{Name: RawColDepartment, Labels: g.department},
		dataset.Column{Name: ColSalary, Labels: g.salary},
	)
	if err != nil {
		panic(err) // the generator always builds consistent columns
	}
	return ds
}

type generator struct {
	rng *rand.Rand

	satisfaction []float64
	evaluation   []float64
	projects     []float64
	hours        []float64
	tenure       []float64
	accident     []float64
	left         []float64
	promotion    []float64
	department   []string
	salary       []string
}

func (g *generator) leaver() {
	g.append(
		0.05+0.42*g.rng.Float64(),
		0.45+0.55*g.rng.Float64(),
		g.pick([]float64{2, 6, 7}, []float64{3, 4, 5}, 0.85),
		math.Round(235+75*g.rng.Float64()),
		g.pick([]float64{3, 4, 5}, []float64{2, 6}, 0.9),
		g.flag(0.05),
		1,
		g.flag(0.005),
		departments[g.rng.Intn(len(departments))],
		g.salaryBand(0.55, 0.35),
	)
}

func (g *generator) stayer() {
	g.append(
		0.45+0.55*g.rng.Float64(),
		0.4+0.6*g.rng.Float64(),
		g.pick([]float64{3, 4, 5}, []float64{2, 6}, 0.9),
		math.Round(150+100*g.rng.Float64()),
		g.pick([]float64{2, 3, 4}, []float64{5, 6}, 0.85),
		g.flag(0.15),
		0,
		g.flag(0.03),
		departments[g.rng.Intn(len(departments))],
		g.salaryBand(0.35, 0.45),
	)
}

func (g *generator) append(sat, eval, projects, hours, tenure, accident, left, promotion float64, dept, salary string) {
	g.satisfaction = append(g.satisfaction, sat)
	g.evaluation = append(g.evaluation, eval)
	g.projects = append(g.projects, projects)
	g.hours = append(g.hours, hours)
	g.tenure = append(g.tenure, tenure)
	g.accident = append(g.accident, accident)
	g.left = append(g.left, left)
	g.promotion = append(g.promotion, promotion)
	g.department = append(g.department, dept)
	g.salary = append(g.salary, salary)
}

func (g *generator) copyRow(j int) {
	g.append(
		g.satisfaction[j], g.evaluation[j], g.projects[j], g.hours[j],
		g.tenure[j], g.accident[j], g.left[j], g.promotion[j],
		g.department[j], g.salary[j],
	)
}

// pick draws from the usual values with probability p, else from the
// unusual ones.
func (g *generator) pick(usual, unusual []float64, p float64) float64 {
	if g.rng.Float64() < p {
		return usual[g.rng.Intn(len(usual))]
	}
	return unusual[g.rng.Intn(len(unusual))]
}

func (g *generator) flag(p float64) float64 {
	if g.rng.Float64() < p {
		return 1
	}
	return 0
}

// salaryBand draws a level with the given low and medium weights, the
// rest going to high.
func (g *generator) salaryBand(low, medium float64) string {
	r := g.rng.Float64()
	switch {
	case r < low:
		return salaryLevels[0]
	case r < low+medium:
		return salaryLevels[1]
	default:
		return salaryLevels[2]
	}
}
