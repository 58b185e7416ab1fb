// Package metrics holds the derived-metric formulas behind the dashboard
// views: sales velocity, stock runway, health and urgency buckets, month
// pacing and reprice signals. Every function is pure and total; division
// guards return sentinel values instead of errors.
package metrics

import (
	"math"

	"github.com/refurbops/opsdash/internal/domain"
)

const (
	// DaysLeftSentinel stands in for "effectively infinite" runway when a
	// SKU has stock but no sales velocity.
	DaysLeftSentinel = 999

	// PaceSentinel marks month pacing against a month with zero sales.
	PaceSentinel = 999

	// FeeRate is the blended marketplace fee assumption used in break-even
	// and margin simulations.
	FeeRate = 0.15

	// RestockDays is the stock cover a reorder aims for.
	RestockDays = 30

	wholesaleMarkup = 1.05
)

// Velocity is the average units sold per day so far this month.
func Velocity(mtdQty, daysElapsed int) float64 {
	if daysElapsed <= 0 {
		return 0
	}
	return float64(mtdQty) / float64(daysElapsed)
}

// DaysLeft is the stock runway at the current velocity. Zero velocity gives
// the 999 sentinel, not an error or infinity.
func DaysLeft(available int, velocity float64) float64 {
	if velocity <= 0 {
		return DaysLeftSentinel
	}
	return float64(available) / velocity
}

// Health buckets a SKU for the inventory views. The dead check short-circuits
// before any days-left threshold.
func Health(velocity float64, mtdQty int, daysLeft float64) string {
	switch {
	case velocity == 0 && mtdQty == 0:
		return domain.HealthDead
	case daysLeft <= 5:
		return domain.HealthCritical
	case daysLeft <= 14:
		return domain.HealthLow
	case daysLeft > 120:
		return domain.HealthOverstocked
	default:
		return domain.HealthHealthy
	}
}

// Urgency tiers a reorder-queue entry. Callers only put SKUs with
// velocity > 0 and daysLeft <= 14 on the queue.
func Urgency(daysLeft float64) string {
	switch {
	case daysLeft <= 2:
		return domain.UrgencyCritical
	case daysLeft <= 5:
		return domain.UrgencyUrgent
	default:
		return domain.UrgencyLow
	}
}

func rate(qty, days int) float64 {
	if days <= 0 {
		return 0
	}
	return float64(qty) / float64(days)
}

// PacePct compares this month's daily sales rate against last month's, as a
// percentage. A dead last month gives 999 when this month sold anything,
// else 0.
func PacePct(mtdQty, daysElapsed, lmQty, daysInLastMonth int) float64 {
	mtdRate := rate(mtdQty, daysElapsed)
	lmRate := rate(lmQty, daysInLastMonth)
	if lmRate > 0 {
		return (mtdRate / lmRate) * 100
	}
	if mtdQty > 0 {
		return PaceSentinel
	}
	return 0
}

// Trend classifies a SKU's sales temperature. DEAD takes precedence; with no
// last-month baseline everything else is STABLE.
func Trend(mtdQty, daysElapsed, lmQty, daysInLastMonth int) string {
	if mtdQty == 0 && lmQty > 0 {
		return domain.TrendDead
	}
	if rate(lmQty, daysInLastMonth) <= 0 {
		return domain.TrendStable
	}
	pace := PacePct(mtdQty, daysElapsed, lmQty, daysInLastMonth)
	switch {
	case pace > 150 && mtdQty > 10:
		return domain.TrendHot
	case pace > 150:
		return domain.TrendRising
	case pace < 50:
		return domain.TrendFalling
	default:
		return domain.TrendStable
	}
}

// MTDvsLM is the pace expressed as a delta around zero for the temperature
// table. No last-month sales gives +100 when this month sold, else 0.
func MTDvsLM(mtdQty, daysElapsed, lmQty, daysInLastMonth int) float64 {
	if lmQty > 0 {
		return PacePct(mtdQty, daysElapsed, lmQty, daysInLastMonth) - 100
	}
	if mtdQty > 0 {
		return 100
	}
	return 0
}

// RepricePace measures MTD sales against the volume last month's rate would
// predict. The divisor is a fixed 30-day month, unlike PacePct.
func RepricePace(mtdQty, lmQty, daysElapsed int) float64 {
	expected := float64(lmQty) / RestockDays * float64(daysElapsed)
	if expected > 0 {
		return (float64(mtdQty) / expected) * 100
	}
	if mtdQty > 0 {
		return 100
	}
	return 0
}

// RepriceStatus decides whether an in-stock sellable SKU belongs on the
// reprice queue. Anything with MTD sales on an acceptable pace is excluded.
func RepriceStatus(mtdQty, lmQty int, pace float64) (string, bool) {
	if mtdQty == 0 {
		return domain.RepriceDead, true
	}
	if pace < 30 && lmQty > 0 {
		return domain.RepriceSlow, true
	}
	return "", false
}

// ReorderQty is the quantity needed to restore RestockDays of cover.
func ReorderQty(velocity float64, available int) int {
	qty := math.Round(velocity*RestockDays - float64(available))
	if qty < 0 {
		return 0
	}
	return int(qty)
}

// MaxBuy is the highest unit purchase price that still hits the target
// margin at the average sell price.
func MaxBuy(avgSellPrice, targetMargin float64) float64 {
	return avgSellPrice * (1 - targetMargin/100)
}

// BreakEven is the sell price where marketplace fees eat the whole margin.
func BreakEven(cost float64) float64 {
	if cost <= 0 {
		return 0
	}
	return cost / (1 - FeeRate)
}

// WholesaleFloor is the minimum acceptable bulk-out price.
func WholesaleFloor(cost float64) float64 {
	if cost <= 0 {
		return 0
	}
	return cost * wholesaleMarkup
}

// CurrentMargin simulates the margin at a given sell price after fees.
func CurrentMargin(avgPrice, cost float64) float64 {
	if avgPrice <= 0 {
		return 0
	}
	return ((avgPrice - cost - avgPrice*FeeRate) / avgPrice) * 100
}

// PctChange guards the usual percent-change formula: a zero prior gives 100
// when the current value is positive, else 0.
func PctChange(current, prior float64) float64 {
	if prior == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	return ((current - prior) / math.Abs(prior)) * 100
}

var healthRank = map[string]int{
	domain.HealthDead:        0,
	domain.HealthCritical:    1,
	domain.HealthLow:         2,
	domain.HealthHealthy:     3,
	domain.HealthOverstocked: 4,
}

// WorseHealth picks the worse of two health buckets for family rollups.
// The ordering treats overstocked as mildest; unknown buckets never win.
func WorseHealth(a, b string) string {
	ra, ok := healthRank[a]
	if !ok {
		return b
	}
	rb, ok := healthRank[b]
	if !ok {
		return a
	}
	if ra < rb {
		return a
	}
	return b
}

var trendRank = map[string]int{
	domain.TrendHot:     0,
	domain.TrendRising:  1,
	domain.TrendFalling: 2,
	domain.TrendDead:    3,
	domain.TrendStable:  4,
}

// TrendRank orders trends for the temperature table sort. Unknown trends
// sort last.
func TrendRank(t string) int {
	if r, ok := trendRank[t]; ok {
		return r
	}
	return 5
}

// Round1 and Round2 round to one and two decimal places for display values.
func Round1(x float64) float64 { return math.Round(x*10) / 10 }

func Round2(x float64) float64 { return math.Round(x*100) / 100 }
