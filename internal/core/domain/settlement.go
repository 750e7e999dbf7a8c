package domain

import "fmt"

// Credit is the balance change of a single participant after a settlement.
type Credit struct {
	Participant ActorId
	Amount      uint64
	Balance     uint64
}

// prepareCredits checks that every outcome can be credited and returns the
// resulting balances. Nothing is applied if any of them fails.
func prepareCredits(participants Participants, outcomes []Outcome) ([]Credit, error) {
	pending := make(map[ActorId]uint64, len(outcomes))
	credits := make([]Credit, 0, len(outcomes))
	for _, outcome := range outcomes {
		if _, ok := pending[outcome.Participant]; ok {
			return nil, fmt.Errorf("duplicated outcome for %s", outcome.Participant)
		}
		balance, err := participants.validateCredit(outcome.Participant, outcome.Earnings)
		if err != nil {
			return nil, err
		}
		pending[outcome.Participant] = balance
		credits = append(credits, Credit{
			Participant: outcome.Participant,
			Amount:      outcome.Earnings,
			Balance:     balance,
		})
	}
	return credits, nil
}

func applyCredits(participants Participants, credits []Credit) {
	for _, c := range credits {
		participants.credit(c.Participant, c.Amount)
	}
}
