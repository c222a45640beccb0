package driver_test

import (
	"context"
	"errors"
	"testing"

	"github.com/sony/gobreaker"
	"github.com/soundprediction/bubbles/pkg/config"
	"github.com/soundprediction/bubbles/pkg/driver"
	"github.com/soundprediction/bubbles/pkg/driver/drivertest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func breakerConfig() config.CircuitBreakerConfig {
	return config.CircuitBreakerConfig{
		Enabled:          true,
		MaxRequests:      1,
		Interval:         60,
		Timeout:          60,
		ReadyToTripRatio: 0.5,
	}
}

func TestBreakerDriverPassesThrough(t *testing.T) {
	fake := drivertest.New()
	fake.Enqueue(nil, nil)
	b := driver.NewBreakerDriver(fake, breakerConfig(), nil)

	_, err := b.ExecuteWrite(context.Background(), "MATCH (b:Bubble) RETURN b", nil)
	require.NoError(t, err)
	assert.Len(t, fake.Calls(), 1)
	assert.Equal(t, driver.GraphProviderNeo4j, b.Provider())
}

func TestBreakerDriverOpensAfterStoreFailures(t *testing.T) {
	fake := drivertest.New()
	storeErr := errors.New("connection reset")
	for i := 0; i < 3; i++ {
		fake.Enqueue(nil, storeErr)
	}
	b := driver.NewBreakerDriver(fake, breakerConfig(), nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := b.ExecuteRead(ctx, "RETURN 1", nil)
		assert.ErrorIs(t, err, storeErr)
	}
	assert.Equal(t, gobreaker.StateOpen, b.State())

	_, err := b.ExecuteRead(ctx, "RETURN 1", nil)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Len(t, fake.Calls(), 3)
}

func TestBreakerDriverIgnoresConstraintViolations(t *testing.T) {
	fake := drivertest.New()
	for i := 0; i < 5; i++ {
		fake.Enqueue(nil, drivertest.ConstraintViolation("already exists"))
	}
	b := driver.NewBreakerDriver(fake, breakerConfig(), nil)

	for i := 0; i < 5; i++ {
		_, err := b.ExecuteWrite(context.Background(), "CREATE (b:Bubble)", nil)
		assert.True(t, driver.IsConstraintViolation(err))
	}
	assert.Equal(t, gobreaker.StateClosed, b.State())
}

func TestIsConstraintViolation(t *testing.T) {
	assert.True(t, driver.IsConstraintViolation(drivertest.ConstraintViolation("dup")))
	assert.False(t, driver.IsConstraintViolation(errors.New("dup")))
	assert.False(t, driver.IsConstraintViolation(nil))
}
