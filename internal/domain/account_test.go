package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/alejandrodnm/frcbot/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccount_RoleIsNotSerialized(t *testing.T) {
	a := domain.Account{Address: "addr", Key: "key", Role: domain.RoleBuy}

	data, err := json.Marshal(a)
	require.NoError(t, err)
	assert.JSONEq(t, `{"address":"addr","key":"key"}`, string(data))
}

func TestWithRole(t *testing.T) {
	in := []domain.Account{{Address: "a"}, {Address: "b"}}

	out := domain.WithRole(in, domain.RoleMint)
	require.Len(t, out, 2)
	assert.Equal(t, domain.RoleMint, out[1].Role)
	assert.Zero(t, in[1].Role, "no modifica el slice original")
}

func TestPick(t *testing.T) {
	pool := []domain.Account{{Address: "a"}, {Address: "b"}, {Address: "c"}}

	a, ok := domain.Pick(pool, 4)
	require.True(t, ok)
	assert.Equal(t, "b", a.Address)

	_, ok = domain.Pick(nil, 0)
	assert.False(t, ok)
}
