// internal/service/lead/match_test.go
package lead

import (
	"testing"

	"quinto-service/internal/domain/lead"
	"quinto-service/internal/domain/property"

	"github.com/stretchr/testify/assert"
)

func profile() *lead.Profile {
	return &lead.Profile{
		InterestLocation: "Moema, São Paulo",
		PropertyType:     "apartamento",
		BudgetMin:        300000,
		BudgetMax:        500000,
		BedroomsMin:      2,
	}
}

func listing() *property.Property {
	return &property.Property{
		Title:        "Apartamento em Moema",
		Location:     "Moema, São Paulo",
		PropertyType: "apartamento",
		Price:        450000,
		Bedrooms:     3,
	}
}

func TestScorePerfectMatch(t *testing.T) {
	assert.Equal(t, 100, Score(profile(), listing()))
}

func TestScoreBudget(t *testing.T) {
	p := profile()

	over := listing()
	over.Price = 540000 // 8% over budget, partial credit
	assert.Equal(t, 80, Score(p, over))

	wayOver := listing()
	wayOver.Price = 700000
	assert.Equal(t, 60, Score(p, wayOver))

	// No upper budget means anything above the minimum fits.
	open := profile()
	open.BudgetMax = 0
	assert.Equal(t, 100, Score(open, wayOver))
}

func TestScoreLocation(t *testing.T) {
	p := profile()
	p.InterestLocation = "moema"
	assert.Equal(t, 100, Score(p, listing()), "location match is case-insensitive and partial")

	elsewhere := listing()
	elsewhere.Location = "Copacabana, Rio de Janeiro"
	assert.Equal(t, 70, Score(p, elsewhere))
}

func TestScoreTypeAndBedrooms(t *testing.T) {
	p := profile()

	house := listing()
	house.PropertyType = "casa"
	assert.Equal(t, 80, Score(p, house))

	small := listing()
	small.Bedrooms = 1
	assert.Equal(t, 90, Score(p, small))
}

func TestScoreNothingInCommon(t *testing.T) {
	p := profile()
	prop := &property.Property{
		Location:     "Salvador",
		PropertyType: "terreno",
		Price:        50000,
		Bedrooms:     0,
	}
	assert.Equal(t, 0, Score(p, prop))
}
