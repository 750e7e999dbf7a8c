package domain_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/ark-network/launchsite/internal/core/domain"
	"github.com/stretchr/testify/require"
)

func TestParseActorId(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		str := strings.Repeat("ab", 32)
		id, err := domain.ParseActorId(str)
		require.NoError(t, err)
		require.Equal(t, str, id.String())
		require.False(t, id.IsZero())
	})

	t.Run("invalid", func(t *testing.T) {
		fixtures := []struct {
			name string
			str  string
		}{
			{"empty", ""},
			{"too short", strings.Repeat("ab", 31)},
			{"too long", strings.Repeat("ab", 33)},
			{"not hex", strings.Repeat("zz", 32)},
		}
		for _, f := range fixtures {
			t.Run(f.name, func(t *testing.T) {
				_, err := domain.ParseActorId(f.str)
				require.Error(t, err)
			})
		}
	})

	t.Run("json map keys", func(t *testing.T) {
		balances := map[domain.ActorId]uint64{alice: 1, bob: 2}
		buf, err := json.Marshal(balances)
		require.NoError(t, err)

		var decoded map[domain.ActorId]uint64
		require.NoError(t, json.Unmarshal(buf, &decoded))
		require.Equal(t, balances, decoded)
	})

	t.Run("ordering", func(t *testing.T) {
		require.True(t, alice.Less(bob))
		require.False(t, bob.Less(alice))
		require.False(t, alice.Less(alice))
	})
}
