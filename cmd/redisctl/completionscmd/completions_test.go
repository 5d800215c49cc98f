package completionscmd_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redis-developer/redisctl/cmd/redisctl/completionscmd"
)

func TestCompletionsBash(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	cmd := completionscmd.New()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"bash"})
	require.NoError(t, cmd.Execute())

	assert.Contains(t, out.String(), "bash completion")
}

func TestCompletionsRejectsUnknownShell(t *testing.T) {
	t.Parallel()

	cmd := completionscmd.New()
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	cmd.SetArgs([]string{"tcsh"})

	err := cmd.Execute()
	require.Error(t, err)
}
