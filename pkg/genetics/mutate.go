package genetics

// Mutate replaces each bound gene with a fresh draw with probability rate,
// reorders the bounds and always redraws the direction.
func Mutate(r *Rand, c *Chromosome, rate float64) {
	for i := GeneLowA; i <= GeneHighB; i++ {
		if r.Float64() < rate {
			c.Genes[i] = r.Gene()
		}
	}
	c.Repair()
	c.Genes[GeneDirection] = float64(r.Direction())
}
