package games

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	assert.Equal(t, []string{"kuhn", "leduc"}, Names())
	for _, name := range Names() {
		e, err := Lookup(name)
		require.NoError(t, err)
		assert.Equal(t, name, e.Name)
		assert.True(t, e.DefaultIterations >= 10000 && e.DefaultIterations <= 500000)
		assert.NotNil(t, e.New())
	}

	_, err := Lookup("holdem")
	assert.Error(t, err)
}
