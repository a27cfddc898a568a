package engine

import (
	"log/slog"
	"math/rand"
	"sort"

	"github.com/piwi3910/AtlasPack/internal/model"
)

// GeneticConfig holds parameters for the insertion-order search.
type GeneticConfig struct {
	PopulationSize int
	Generations    int
	MutationRate   float64
	TournamentSize int
	EliteCount     int
	Seed           int64
}

// DefaultGeneticConfig returns sensible default parameters.
func DefaultGeneticConfig() GeneticConfig {
	return GeneticConfig{
		PopulationSize: 50,
		Generations:    100,
		MutationRate:   0.15,
		TournamentSize: 3,
		EliteCount:     2,
		Seed:           42,
	}
}

// scaled returns a copy of c with more generations for larger sprite counts.
func (c GeneticConfig) scaled(n int) GeneticConfig {
	if n > 20 && c.Generations < 150 {
		c.Generations = 150
	}
	if n > 50 {
		if c.Generations < 200 {
			c.Generations = 200
		}
		if c.PopulationSize < 80 {
			c.PopulationSize = 80
		}
	}
	return c
}

// chromosome is a candidate insertion order: a permutation of sprite indices.
type chromosome struct {
	order   []int
	fitness float64
}

// orderSearch evolves insertion orders and decodes each one with the online packer.
type orderSearch struct {
	builder *Builder
	config  GeneticConfig
	sprites []model.Sprite
	rng     *rand.Rand
	quiet   *slog.Logger // Used while scoring candidates
}

func newOrderSearch(b *Builder, config GeneticConfig, sprites []model.Sprite) *orderSearch {
	return &orderSearch{
		builder: b,
		config:  config,
		sprites: sprites,
		rng:     rand.New(rand.NewSource(config.Seed)),
		quiet:   newNopLogger(),
	}
}

// packGenetic searches for the insertion order that packs sprites onto the
// fewest, fullest pages.
func (b *Builder) packGenetic(sprites []model.Sprite) (model.AtlasResult, error) {
	if len(sprites) == 0 {
		return model.AtlasResult{}, nil
	}

	config := b.Genetic
	if config.PopulationSize <= 0 {
		config = DefaultGeneticConfig()
	}
	config = config.scaled(len(sprites))

	Logger().Debug("starting order search",
		"sprites", len(sprites),
		"population", config.PopulationSize,
		"generations", config.Generations,
	)
	return newOrderSearch(b, config, sprites).run()
}

func (g *orderSearch) run() (model.AtlasResult, error) {
	population := g.initPopulation()
	for i := range population {
		fitness, err := g.evaluate(population[i])
		if err != nil {
			return model.AtlasResult{}, err
		}
		population[i].fitness = fitness
	}

	for gen := 0; gen < g.config.Generations; gen++ {
		sortByFitness(population)

		newPop := make([]chromosome, 0, g.config.PopulationSize)

		eliteCount := min(g.config.EliteCount, len(population))
		for i := 0; i < eliteCount; i++ {
			newPop = append(newPop, g.copyChromosome(population[i]))
		}

		for len(newPop) < g.config.PopulationSize {
			parent1 := g.tournamentSelect(population)
			parent2 := g.tournamentSelect(population)

			child := g.orderCrossover(parent1, parent2)
			g.mutate(&child)

			fitness, err := g.evaluate(child)
			if err != nil {
				return model.AtlasResult{}, err
			}
			child.fitness = fitness
			newPop = append(newPop, child)
		}

		population = newPop
	}

	sortByFitness(population)
	Logger().Debug("order search finished", "best_fitness", population[0].fitness)
	return g.decode(population[0], Logger())
}

func sortByFitness(population []chromosome) {
	sort.SliceStable(population, func(i, j int) bool {
		return population[i].fitness > population[j].fitness
	})
}

// initPopulation creates random permutations plus one largest-area-first seed.
func (g *orderSearch) initPopulation() []chromosome {
	n := len(g.sprites)
	population := make([]chromosome, g.config.PopulationSize)
	for i := range population {
		population[i] = chromosome{order: g.rng.Perm(n)}
	}

	if len(population) > 0 {
		population[0] = g.greedyChromosome()
	}
	return population
}

// greedyChromosome orders sprites by padded area descending, matching online mode.
func (g *orderSearch) greedyChromosome() chromosome {
	pad := g.builder.Settings.Padding
	order := make([]int, len(g.sprites))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return g.sprites[order[i]].PaddedSize(pad).Area() > g.sprites[order[j]].PaddedSize(pad).Area()
	})
	return chromosome{order: order}
}

// decode packs the sprites in chromosome order. Fitness evaluations pass a
// silent logger so that only the final layout is logged.
func (g *orderSearch) decode(c chromosome, log *slog.Logger) (model.AtlasResult, error) {
	ordered := make([]model.Sprite, len(c.order))
	for i, idx := range c.order {
		ordered[i] = g.sprites[idx]
	}
	return g.builder.packOnline(ordered, log)
}

// evaluate scores a chromosome by the occupancy of its layout, penalising
// unplaced sprites heavily and extra pages lightly.
func (g *orderSearch) evaluate(c chromosome) (float64, error) {
	result, err := g.decode(c, g.quiet)
	if err != nil {
		return 0, err
	}
	return layoutFitness(result), nil
}

func layoutFitness(result model.AtlasResult) float64 {
	if len(result.Pages) == 0 {
		return 0
	}

	unplacedPenalty := float64(len(result.Unplaced)) * 0.1
	pagePenalty := float64(len(result.Pages)-1) * 0.05

	fitness := result.TotalOccupancy() - unplacedPenalty - pagePenalty
	if fitness < 0 {
		fitness = 0
	}
	return fitness
}

// tournamentSelect picks the best individual from a random tournament.
func (g *orderSearch) tournamentSelect(population []chromosome) chromosome {
	best := population[g.rng.Intn(len(population))]
	for i := 1; i < g.config.TournamentSize; i++ {
		candidate := population[g.rng.Intn(len(population))]
		if candidate.fitness > best.fitness {
			best = candidate
		}
	}
	return g.copyChromosome(best)
}

// orderCrossover implements Order Crossover (OX1): a segment of parent1 is
// kept in place and the remaining positions are filled with parent2's genes
// in the order they appear there.
func (g *orderSearch) orderCrossover(parent1, parent2 chromosome) chromosome {
	n := len(parent1.order)
	if n <= 2 {
		return g.copyChromosome(parent1)
	}

	point1 := g.rng.Intn(n)
	point2 := g.rng.Intn(n)
	if point1 > point2 {
		point1, point2 = point2, point1
	}

	child := chromosome{order: make([]int, n)}

	inSegment := make(map[int]bool)
	for i := point1; i <= point2; i++ {
		child.order[i] = parent1.order[i]
		inSegment[parent1.order[i]] = true
	}

	childIdx := (point2 + 1) % n
	for _, gene := range parent2.order {
		if !inSegment[gene] {
			child.order[childIdx] = gene
			childIdx = (childIdx + 1) % n
		}
	}

	return child
}

// mutate applies swap and inversion mutations.
func (g *orderSearch) mutate(c *chromosome) {
	n := len(c.order)
	if n < 2 {
		return
	}

	if g.rng.Float64() < g.config.MutationRate {
		i := g.rng.Intn(n)
		j := g.rng.Intn(n)
		c.order[i], c.order[j] = c.order[j], c.order[i]
	}

	// Inversion is less frequent.
	if g.rng.Float64() < g.config.MutationRate*0.5 {
		i := g.rng.Intn(n)
		j := g.rng.Intn(n)
		if i > j {
			i, j = j, i
		}
		for i < j {
			c.order[i], c.order[j] = c.order[j], c.order[i]
			i++
			j--
		}
	}
}

func (g *orderSearch) copyChromosome(c chromosome) chromosome {
	order := make([]int, len(c.order))
	copy(order, c.order)
	return chromosome{order: order, fitness: c.fitness}
}
