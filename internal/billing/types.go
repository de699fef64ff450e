package billing

import (
	"errors"
	"os"

	"codeberg.org/mysticoracle/server/oracle/users"
)

var (
	ErrUnknownPlan   = errors.New("unknown plan")
	ErrNotConfigured = errors.New("billing is not configured")
)

// maps sellable plans to Stripe price IDs and back
type PriceTable struct {
	priceByPlan map[users.Plan]string
	planByPrice map[string]users.Plan
}

// builds a price table from plan -> price ID pairs
func NewPriceTable(prices map[users.Plan]string) *PriceTable {
	table := &PriceTable{
		priceByPlan: make(map[users.Plan]string, len(prices)),
		planByPrice: make(map[string]users.Plan, len(prices)),
	}

	for plan, priceID := range prices {
		if priceID == "" {
			continue
		}

		table.priceByPlan[plan] = priceID
		table.planByPrice[priceID] = plan
	}

	return table
}

// loads the price table from environment variables
func LoadPriceTable() *PriceTable {
	return NewPriceTable(map[users.Plan]string{
		users.PlanStarter:    os.Getenv("STRIPE_PRICE_STARTER"),
		users.PlanSeeker:     os.Getenv("STRIPE_PRICE_SEEKER"),
		users.PlanPathfinder: os.Getenv("STRIPE_PRICE_PATHFINDER"),
		users.PlanUnlimited:  os.Getenv("STRIPE_PRICE_UNLIMITED"),
	})
}

// returns the Stripe price ID for a plan
func (t *PriceTable) PriceID(plan users.Plan) (string, bool) {
	priceID, ok := t.priceByPlan[plan]
	return priceID, ok
}

// returns the plan sold under a Stripe price ID
func (t *PriceTable) Plan(priceID string) (users.Plan, bool) {
	plan, ok := t.planByPrice[priceID]
	return plan, ok
}
