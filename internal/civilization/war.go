package civilization

import (
	"math/rand"
)

type warOutcome uint8

const (
	decisiveWin warOutcome = iota
	minorWin
	minorLoss
	decisiveLoss
	draw
)

func (o warOutcome) name() string {
	switch o {
	case decisiveWin:
		return "decisive victory"
	case minorWin:
		return "minor victory"
	case minorLoss:
		return "minor defeat"
	case decisiveLoss:
		return "major defeat"
	default:
		return "stalemate"
	}
}

// judgeWar classifies the outcome from the attacker's perspective. An
// advantage beyond decisiveRatio is decisive; equal powers draw.
func judgeWar(attackPower, defendPower, decisiveRatio float64) warOutcome {
	switch {
	case attackPower > defendPower*decisiveRatio:
		return decisiveWin
	case attackPower > defendPower:
		return minorWin
	case defendPower > attackPower*decisiveRatio:
		return decisiveLoss
	case defendPower > attackPower:
		return minorLoss
	default:
		return draw
	}
}

// warPower is population in millions scaled by tech tier, with a random
// battlefield factor.
func warPower(c *Civilization, rng *rand.Rand) float64 {
	return float64(c.Population) / 1e6 * float64(c.Tech+1) * (0.8 + rng.Float64()*0.4)
}

// resolveWar fights a war between c and other, transferring border
// territory and inflicting population losses per the outcome tier.
func (m *Manager) resolveWar(c, other *Civilization, rng *rand.Rand) {
	w := m.cfg.War
	outcome := judgeWar(warPower(c, rng), warPower(other, rng), w.DecisiveRatio)

	switch outcome {
	case decisiveWin:
		c.Relations[other.ID] = -0.5
		m.transferTerritory(c, other, w.DecisiveTerritory, rng)
		loseWarPopulation(c, w.DecisiveWinLoss)
		loseWarPopulation(other, w.DecisiveDefLoss)
	case minorWin:
		c.Relations[other.ID] = -0.7
		m.transferTerritory(c, other, w.MinorTerritory, rng)
		loseWarPopulation(c, w.MinorWinLoss)
		loseWarPopulation(other, w.MinorDefLoss)
	case decisiveLoss:
		c.Relations[other.ID] = -0.5
		m.transferTerritory(other, c, w.DecisiveTerritory, rng)
		loseWarPopulation(c, w.DecisiveDefLoss)
		loseWarPopulation(other, w.DecisiveWinLoss)
	case minorLoss:
		c.Relations[other.ID] = -0.7
		m.transferTerritory(other, c, w.MinorTerritory, rng)
		loseWarPopulation(c, w.MinorDefLoss)
		loseWarPopulation(other, w.MinorWinLoss)
	case draw:
		c.Relations[other.ID] = -0.8
		loseWarPopulation(c, w.DrawLoss)
		loseWarPopulation(other, w.DrawLoss)
	}

	c.addHistory(m.year, "war", "war against "+other.Name+": "+outcome.name())
	c.Stability = clamp01(c.Stability - w.StabilityPenalty)
	other.Stability = clamp01(other.Stability - w.StabilityPenalty)
}

func loseWarPopulation(c *Civilization, fraction float64) {
	c.Population = int(float64(c.Population) * (1 - fraction))
}

// transferTerritory moves a fraction of the loser's border cells to the
// winner. Only cells touching the winner's territory change hands.
func (m *Manager) transferTerritory(winner, loser *Civilization, fraction float64, rng *rand.Rand) {
	border := m.contestedBorder(loser.Territory, winner.Territory)
	n := int(float64(len(border)) * fraction)
	if n == 0 || len(border) == 0 {
		return
	}
	if n > len(border) {
		n = len(border)
	}
	for _, i := range rng.Perm(len(border))[:n] {
		cell := border[i]
		winner.Territory.Set(cell[0], cell[1], true)
		loser.Territory.Set(cell[0], cell[1], false)
	}
}
