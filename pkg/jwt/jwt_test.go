package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/retail-ledger/pkg/jwt"
)

func TestGenerateParse_RoundTrip(t *testing.T) {
	token, err := jwt.Generate("secreto", "user-1", "bodeguero", "retail-ledger", 5)
	require.NoError(t, err)

	userID, role, err := jwt.Parse("secreto", token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
	assert.Equal(t, "bodeguero", role)
}

func TestParse_Rejects(t *testing.T) {
	token, err := jwt.Generate("secreto", "user-1", "admin", "retail-ledger", 5)
	require.NoError(t, err)
	expired, err := jwt.Generate("secreto", "user-1", "admin", "retail-ledger", -5)
	require.NoError(t, err)

	_, _, err = jwt.Parse("otro", token)
	assert.Error(t, err)
	_, _, err = jwt.Parse("secreto", expired)
	assert.Error(t, err)
	_, _, err = jwt.Parse("", token)
	assert.ErrorIs(t, err, jwt.ErrEmptySecret)
	_, err = jwt.Generate("", "user-1", "admin", "x", 5)
	assert.ErrorIs(t, err, jwt.ErrEmptySecret)

	anonymous, err := jwt.Generate("secreto", "", "admin", "retail-ledger", 5)
	require.NoError(t, err)
	_, _, err = jwt.Parse("secreto", anonymous)
	assert.ErrorIs(t, err, jwt.ErrMissingIdentity)
}
