package errorhandler_test

import (
	"errors"
	"testing"

	"github.com/redis-developer/redisctl/pkg/errorhandler"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	errBoom     = errors.New("boom")
	errWrapped  = errors.New("wrapped")
)

func TestExecutorExecuteSuccess(t *testing.T) {
	t.Parallel()

	cmd := &cobra.Command{Use: "test", RunE: func(*cobra.Command, []string) error { return nil }}

	err := errorhandler.NewExecutor().Execute(cmd)
	require.NoError(t, err)
}

func TestExecutorExecuteNilCommand(t *testing.T) {
	t.Parallel()

	err := errorhandler.NewExecutor().Execute(nil)
	require.NoError(t, err)
}

func TestExecutorExecuteInvalidSubcommand(t *testing.T) {
	t.Parallel()

	root := &cobra.Command{Use: "test"}
	root.AddCommand(&cobra.Command{Use: "valid"})
	root.SetArgs([]string{"invalid"})

	err := errorhandler.NewExecutor().Execute(root)
	require.Error(t, err)
}

func TestCommandErrorUnwrapMatchesCause(t *testing.T) {
	t.Parallel()

	cmd := &cobra.Command{Use: "test", RunE: func(*cobra.Command, []string) error { return errWrapped }}

	err := errorhandler.NewExecutor().Execute(cmd)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errWrapped))
}

func TestCommandErrorNilReceiverIsSafe(t *testing.T) {
	t.Parallel()

	var cmdErr *errorhandler.CommandError
	assert.Equal(t, "", cmdErr.Error())
	assert.Nil(t, cmdErr.Unwrap())
}

func TestDefaultNormalizerStripsErrorPrefix(t *testing.T) {
	t.Parallel()

	normalizer := errorhandler.DefaultNormalizer{}

	got := normalizer.Normalize("  Error: something bad \nRun help\n")
	assert.Equal(t, "something bad\nRun help", got)
}

func TestDefaultNormalizerEmptyInput(t *testing.T) {
	t.Parallel()

	normalizer := errorhandler.DefaultNormalizer{}

	assert.Equal(t, "", normalizer.Normalize("   \n\t  "))
}

func TestCommandErrorConcatenatesDistinctCause(t *testing.T) {
	t.Parallel()

	cmd := &cobra.Command{
		Use:           "test",
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.PrintErrln("normalized")

			return errBoom
		},
	}

	err := errorhandler.NewExecutor().Execute(cmd)
	require.Error(t, err)
	assert.Equal(t, "normalized: boom", err.Error())
}
