package domain

import (
	"bytes"
	"encoding/hex"
	"fmt"
)

const actorIdLen = 32

// ActorId is the opaque identity of a caller. Ids are totally ordered by their
// bytes, which matches the order of their hex representation.
type ActorId [actorIdLen]byte

func ParseActorId(str string) (ActorId, error) {
	var id ActorId
	if len(str) != hex.EncodedLen(actorIdLen) {
		return id, fmt.Errorf("invalid actor id length, expected %d hex chars", hex.EncodedLen(actorIdLen))
	}
	buf, err := hex.DecodeString(str)
	if err != nil {
		return id, fmt.Errorf("invalid actor id format: %w", err)
	}
	copy(id[:], buf)
	return id, nil
}

func (a ActorId) String() string {
	return hex.EncodeToString(a[:])
}

func (a ActorId) Less(other ActorId) bool {
	return bytes.Compare(a[:], other[:]) < 0
}

func (a ActorId) IsZero() bool {
	return a == ActorId{}
}

func (a ActorId) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *ActorId) UnmarshalText(text []byte) error {
	id, err := ParseActorId(string(text))
	if err != nil {
		return err
	}
	*a = id
	return nil
}
