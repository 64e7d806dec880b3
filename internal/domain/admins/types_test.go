package admins

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordSetCompare(t *testing.T) {
	var a Admin
	require.NoError(t, a.Password.Set("s3cret-pass"))

	assert.NoError(t, a.Password.Compare("s3cret-pass"))
	assert.Error(t, a.Password.Compare("wrong"))
	assert.NotEqual(t, []byte("s3cret-pass"), a.Password.hash)
}

func TestPasswordCompareUnset(t *testing.T) {
	var a Admin
	assert.Error(t, a.Password.Compare(""))
}
