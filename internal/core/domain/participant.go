package domain

import (
	"fmt"
	"math/bits"
	"sort"
	"strings"
)

type Participant struct {
	Id      ActorId
	Name    string
	Balance uint64
}

// Participants is the registry of every identity that ever joined the site.
// Records are never removed.
type Participants map[ActorId]*Participant

func (p Participants) Get(id ActorId) (Participant, bool) {
	participant, ok := p[id]
	if !ok {
		return Participant{}, false
	}
	return *participant, true
}

func (p Participants) validateRegister(id ActorId, name string) error {
	if _, ok := p[id]; ok {
		return fmt.Errorf("%s: %w", id, ErrDuplicateParticipant)
	}
	return validateName(name)
}

func (p Participants) validateRename(id ActorId, name string) error {
	if _, ok := p[id]; !ok {
		return fmt.Errorf("%s: %w", id, ErrUnknownParticipant)
	}
	return validateName(name)
}

// validateCredit returns the balance the participant would hold after credit.
func (p Participants) validateCredit(id ActorId, amount uint64) (uint64, error) {
	participant, ok := p[id]
	if !ok {
		return 0, fmt.Errorf("%s: %w", id, ErrUnknownParticipant)
	}
	balance, carry := bits.Add64(participant.Balance, amount, 0)
	if carry != 0 {
		return 0, fmt.Errorf("%s: %w", id, ErrBalanceOverflow)
	}
	return balance, nil
}

func (p Participants) register(id ActorId, name string) {
	p[id] = &Participant{Id: id, Name: name}
}

func (p Participants) rename(id ActorId, name string) {
	if participant, ok := p[id]; ok {
		participant.Name = name
	}
}

func (p Participants) credit(id ActorId, amount uint64) {
	if participant, ok := p[id]; ok {
		participant.Balance += amount
	}
}

// Sorted returns a copy of the registry ordered by ascending id.
func (p Participants) Sorted() []Participant {
	list := make([]Participant, 0, len(p))
	for _, participant := range p {
		list = append(list, *participant)
	}
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Id.Less(list[j].Id)
	})
	return list
}

func validateName(name string) error {
	if len(strings.TrimSpace(name)) <= 0 {
		return ErrInvalidName
	}
	return nil
}
