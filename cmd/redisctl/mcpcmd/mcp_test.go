package mcpcmd_test

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"

	"github.com/redis-developer/redisctl/cmd/redisctl/mcpcmd"
	"github.com/redis-developer/redisctl/cmd/redisctl/rootflags"
)

func TestNewRegistersAllowWritesFlag(t *testing.T) {
	t.Parallel()

	cmd := mcpcmd.New(rootflags.New())

	flag := cmd.Flags().Lookup("allow-writes")
	assert.NotNil(t, flag)
	assert.Equal(t, "false", flag.DefValue)
}

func TestNewIsMountableUnderARoot(t *testing.T) {
	t.Parallel()

	root := &cobra.Command{Use: "redisctl"}
	root.AddCommand(mcpcmd.New(rootflags.New()))

	found, _, err := root.Find([]string{"mcp"})
	assert.NoError(t, err)
	assert.Equal(t, "mcp", found.Name())
}
