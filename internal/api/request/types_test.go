package request

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/weddingplanner/internal/model"
)

func TestParseDueDate(t *testing.T) {
	d, err := ParseDueDate(" 2026-10-03 ")
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, time.Date(2026, 10, 3, 0, 0, 0, 0, time.UTC), *d)

	d, err = ParseDueDate("")
	require.NoError(t, err)
	assert.Nil(t, d)

	for _, bad := range []string{"03/10/2026", "2026-13-01", "2026-02-30", "tomorrow"} {
		_, err := ParseDueDate(bad)
		assert.True(t, model.IsValidation(err), bad)
	}
}
