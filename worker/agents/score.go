package agents

import (
	"fmt"
	"strings"

	"storeforge/api/models"
)

// Weights for the overall dropshipping score. Each dimension is scored
// 0-100; shipping, return, and market enter inverted (ease, safety,
// opportunity).
const (
	profitWeight   = 0.35
	shippingWeight = 0.25
	returnWeight   = 0.20
	marketWeight   = 0.20
)

// Evaluate scores a sourced product for dropshipping viability. Market
// saturation is an external estimate (0-100); everything else derives from
// the product row.
func Evaluate(product *models.ProductSource, marketSaturation float64) *models.ProductEvaluation {
	saturation := clampScore(marketSaturation)
	complexity := shippingComplexity(product)
	risk := returnRisk(product)
	profit := profitPotential(product)

	profitPart := profitWeight * profit
	shippingPart := shippingWeight * (100 - complexity)
	returnPart := returnWeight * (100 - risk)
	marketPart := marketWeight * (100 - saturation)
	score := profitPart + shippingPart + returnPart + marketPart

	return &models.ProductEvaluation{
		ProductID:          product.ID,
		DropshippingScore:  score,
		MarketSaturation:   saturation,
		ShippingComplexity: complexity,
		ReturnRisk:         risk,
		ProfitPotential:    profit,
		Recommendation:     recommendationFor(score),
		EvaluationNotes:    evaluationNotes(product, score, profitPart, shippingPart, returnPart, marketPart),
	}
}

func recommendationFor(score float64) string {
	switch {
	case score >= 85:
		return "excellent"
	case score >= 70:
		return "good"
	case score >= 50:
		return "fair"
	case score >= 30:
		return "poor"
	default:
		return "avoid"
	}
}

func profitPotential(product *models.ProductSource) float64 {
	potential := 50.0

	switch margin := product.ProfitMargin; {
	case margin > 70:
		potential = 90
	case margin > 50:
		potential = 80
	case margin > 30:
		potential = 60
	case margin > 0 && margin < 15:
		potential = 30
	}

	switch {
	case product.Price >= 20 && product.Price <= 80:
		potential += 10
	case product.Price > 200:
		potential -= 10
	}

	return clampScore(potential)
}

func shippingComplexity(product *models.ProductSource) float64 {
	complexity := 50.0

	switch cost := product.ShippingCost; {
	case cost > 15:
		complexity += 20
	case cost > 8:
		complexity += 10
	case cost == 0:
		complexity -= 10
	}

	switch days := leadingDays(product.ShippingTime); {
	case days >= 30:
		complexity += 20
	case days >= 14:
		complexity += 10
	case days > 0 && days < 7:
		complexity -= 10
	}

	return clampScore(complexity)
}

func returnRisk(product *models.ProductSource) float64 {
	risk := 30.0

	switch product.SourcePlatform {
	case "aliexpress":
		risk += 10
	case "amazon":
		risk -= 10
	}

	switch {
	case product.Price > 100:
		risk += 20
	case product.Price > 50:
		risk += 10
	case product.Price > 0 && product.Price < 15:
		risk -= 10
	}

	return clampScore(risk)
}

// leadingDays reads the first number out of a shipping window like
// "15-30 days". Zero means unknown.
func leadingDays(shippingTime string) int {
	days := 0
	seen := false
	for _, r := range shippingTime {
		if r >= '0' && r <= '9' {
			days = days*10 + int(r-'0')
			seen = true
			continue
		}
		if seen {
			break
		}
	}
	return days
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func evaluationNotes(product *models.ProductSource, score, profitPart, shippingPart, returnPart, marketPart float64) string {
	notes := []string{
		fmt.Sprintf("Dropshipping score: %.1f/100.", score),
	}

	switch {
	case profitPart > 25:
		notes = append(notes, "High profit potential.")
	case profitPart > 15:
		notes = append(notes, "Moderate profit potential.")
	default:
		notes = append(notes, "Low profit potential.")
	}

	switch {
	case shippingPart > 20:
		notes = append(notes, "Easy to ship.")
	case shippingPart > 10:
		notes = append(notes, "Moderate shipping complexity.")
	default:
		notes = append(notes, "Complex shipping requirements.")
	}

	switch {
	case returnPart > 15:
		notes = append(notes, "Low return risk.")
	case returnPart > 10:
		notes = append(notes, "Moderate return risk.")
	default:
		notes = append(notes, "High return risk.")
	}

	switch {
	case marketPart > 15:
		notes = append(notes, "Excellent market opportunity.")
	case marketPart > 10:
		notes = append(notes, "Decent market opportunity.")
	default:
		notes = append(notes, "Saturated market.")
	}

	switch product.SourcePlatform {
	case "aliexpress":
		notes = append(notes, "AliExpress sourcing: good margins, longer shipping windows.")
	case "amazon":
		notes = append(notes, "Amazon sourcing: fast shipping, thinner margins.")
	}

	return strings.Join(notes, "\n")
}
