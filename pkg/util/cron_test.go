package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCronExpr(t *testing.T) {
	assert.NoError(t, ValidateCronExpr("*/5 * * * *"))
	assert.Error(t, ValidateCronExpr("every five minutes"))
	assert.Error(t, ValidateCronExpr("* * * *"))
}

func TestNextCronTime(t *testing.T) {
	from := time.Date(2026, 3, 1, 10, 2, 30, 0, time.UTC)

	next, err := NextCronTime("*/5 * * * *", from)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 1, 10, 5, 0, 0, time.UTC), next)

	_, err = NextCronTime("nope", from)
	assert.Error(t, err)
}
