package di_test

import (
	"testing"

	"github.com/redis-developer/redisctl/pkg/di"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type widget struct{ Name string }

func TestProvideAndInvoke(t *testing.T) {
	t.Parallel()

	runtime := di.NewRuntime()

	err := runtime.Apply(func(injector di.Injector) error {
		di.Provide(injector, func(di.Injector) (*widget, error) {
			return &widget{Name: "gadget"}, nil
		})

		return nil
	})
	require.NoError(t, err)

	got, err := di.Invoke[*widget](runtime.Injector())
	require.NoError(t, err)
	assert.Equal(t, "gadget", got.Name)
}

func TestProvideValue(t *testing.T) {
	t.Parallel()

	runtime := di.NewRuntime()

	err := runtime.Apply(func(injector di.Injector) error {
		di.ProvideValue(injector, "prod")

		return nil
	})
	require.NoError(t, err)

	got, err := di.Invoke[string](runtime.Injector())
	require.NoError(t, err)
	assert.Equal(t, "prod", got)
}

func TestApplyStopsAtFirstError(t *testing.T) {
	t.Parallel()

	runtime := di.NewRuntime()

	calledSecond := false

	err := runtime.Apply(
		func(di.Injector) error { return assert.AnError },
		func(di.Injector) error { calledSecond = true; return nil },
	)
	require.Error(t, err)
	assert.False(t, calledSecond)
}
