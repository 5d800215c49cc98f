// Package main is the entry point for the redisctl controller.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"github.com/redis-developer/redisctl/internal/buildmeta"
	"github.com/redis-developer/redisctl/pkg/notify"
	"github.com/redis-developer/redisctl/pkg/prefix"
	"github.com/redis-developer/redisctl/pkg/rctlerr"
	rootcmd "github.com/redis-developer/redisctl/cmd/redisctl"
)

func main() {
	exitCode := runSafely(os.Args, runWithArgs, os.Stderr)

	if exitCode != 0 {
		os.Exit(exitCode)
	}
}

//nolint:nonamedreturns // Named return simplifies panic recovery logic.
func runSafely(args []string, runner func([]string) int, errWriter io.Writer) (exitCode int) {
	defer func() {
		if r := recover(); r != nil {
			panicMessage := fmt.Sprintf("panic recovered: %v\n%s", r, debug.Stack())
			notify.WriteMessage(notify.Message{
				Type:    notify.ErrorType,
				Content: panicMessage,
				Writer:  errWriter,
			})

			exitCode = 1
		}
	}()

	exitCode = runner(args)

	return exitCode
}

func runWithArgs(args []string) int {
	injected, guidance := prefix.Inject(args)
	if guidance != nil {
		code := 1
		if guidance.HelpRequested {
			code = 0
		}

		notify.WriteMessage(notify.Message{
			Type:    notify.WarningType,
			Content: guidance.Message,
			Writer:  os.Stderr,
		})

		return code
	}

	root := rootcmd.NewRootCmd(buildmeta.Version, buildmeta.Commit, buildmeta.Date)
	root.SetArgs(injected[1:])

	err := rootcmd.Execute(root)
	if err != nil {
		message := err.Error()

		var suggester rctlerr.Suggester
		if errors.As(err, &suggester) {
			message += "\nTry: " + suggester.Suggest()
		}

		notify.Errorf(root.ErrOrStderr(), "%s", message)

		var usageErr rctlerr.UsageError
		if errors.As(err, &usageErr) {
			return 2
		}

		return 1
	}

	return 0
}
