// Package prefix implements the argument prefix injector (§4.4): it rewrites
// a raw argv so that commands shared between the Cloud and Enterprise
// backends (or exclusive to one of them) gain the correct leading
// "cloud"/"enterprise" token before cobra ever parses the command line.
//
// The classification tables below are fixed constants of the system and the
// algorithm itself is pure — it never touches global state except to load
// configuration on demand for Shared commands.
package prefix

import (
	"fmt"
	"strings"

	"github.com/redis-developer/redisctl/pkg/config"
	"github.com/redis-developer/redisctl/pkg/profile"
	"github.com/redis-developer/redisctl/pkg/rctlerr"
)

// Guidance is returned instead of a rewritten argv when the injector cannot
// proceed automatically and must hand the user a message.
type Guidance struct {
	// Message is the text to show on stderr.
	Message string
	// HelpRequested indicates --help/-h was present, so the guidance
	// replaces help output and the process should exit 0 rather than 1.
	HelpRequested bool
}

// passthrough holds real top-level commands/aliases: never rewritten.
var passthrough = map[string]bool{
	"cloud": true, "cl": true,
	"enterprise": true, "ent": true, "en": true,
	"profile": true, "prof": true, "pr": true,
	"api": true,
	"db":  true,
	"version": true, "ver": true, "v": true,
	"completions": true, "comp": true,
	"help":     true,
	"mcp":      true,
	"files-key": true, "fk": true,
}

// cloudOnly holds commands that exist exclusively under the cloud backend.
var cloudOnly = map[string]bool{
	"subscription":      true,
	"account":           true,
	"task":              true,
	"provider-account":  true,
	"fixed-database":    true,
}

// enterpriseOnly holds commands that exist exclusively under the
// enterprise backend.
var enterpriseOnly = map[string]bool{
	"cluster": true,
	"node":    true,
	"shard":   true,
	"module":  true,
	"license": true,
}

// shared holds commands present under both backends.
var shared = map[string]bool{
	"database": true,
	"user":     true,
	"acl":      true,
	"workflow": true,
}

// globalFlagsWithValue take a separate value token (either "--flag value"
// or "-f value"); their "--flag=value" form is handled separately.
var globalFlagsWithValue = map[string]bool{
	"--profile": true, "-p": true,
	"--config-file": true,
	"--output":      true, "-o": true,
	"--query":          true, "-q": true,
	"--retry-attempts": true,
	"--rate-limit":     true,
}

// globalBoolFlags take no value.
var globalBoolFlags = map[string]bool{
	"--verbose":           true,
	"--no-resilience":     true,
	"--no-circuit-breaker": true,
	"--no-retry":          true,
}

// Inject rewrites argv (including argv[0], the program name) per §4.4.
// On success it returns the rewritten argv and a nil Guidance. When a
// Shared command cannot be resolved to a single backend automatically, it
// returns a Guidance describing what the user should do instead.
func Inject(argv []string) ([]string, *Guidance) {
	if len(argv) < 2 {
		return argv, nil
	}

	scan := scanArgs(argv[1:])

	if scan.subcommandIndex == -1 {
		// No positional subcommand found (only flags, or none at all);
		// let the parser handle it.
		return argv, nil
	}

	subcommand := argv[1+scan.subcommandIndex]

	switch {
	case passthrough[subcommand]:
		return argv, nil

	case cloudOnly[subcommand]:
		return insertBackend(argv, scan.subcommandIndex, "cloud"), nil

	case enterpriseOnly[subcommand]:
		return insertBackend(argv, scan.subcommandIndex, "enterprise"), nil

	case shared[subcommand]:
		return injectShared(argv, scan)

	default:
		return argv, nil
	}
}

type scanResult struct {
	subcommandIndex int // index into argv[1:], or -1 if none found
	profileValue    string
	configFileValue string
	helpRequested   bool
}

// scanArgs walks the portion of argv after the program name, skipping
// global flags and their values, recording --profile/--config-file values
// and whether --help/-h was seen, and returning the index of the first
// non-flag token.
func scanArgs(rest []string) scanResult {
	result := scanResult{subcommandIndex: -1}

	for i := 0; i < len(rest); i++ {
		token := rest[i]

		if token == "--" {
			break
		}

		if token == "--help" || token == "-h" {
			result.helpRequested = true

			continue
		}

		if name, value, ok := strings.Cut(token, "="); ok && strings.HasPrefix(token, "-") {
			recordFlagValue(&result, name, value)

			continue
		}

		if globalFlagsWithValue[token] {
			if i+1 < len(rest) {
				recordFlagValue(&result, token, rest[i+1])
				i++
			}

			continue
		}

		if globalBoolFlags[token] {
			continue
		}

		if strings.HasPrefix(token, "-v") && isStackedVerbosity(token) {
			continue
		}

		if strings.HasPrefix(token, "-") {
			// Unknown flag: leave it to the parser.
			continue
		}

		result.subcommandIndex = i

		return result
	}

	return result
}

func recordFlagValue(result *scanResult, name, value string) {
	switch name {
	case "--profile", "-p":
		result.profileValue = value
	case "--config-file":
		result.configFileValue = value
	}
}

// isStackedVerbosity reports whether token is a stacked -v/-vv/-vvv form.
func isStackedVerbosity(token string) bool {
	if len(token) < 2 || token[0] != '-' {
		return false
	}

	for _, r := range token[1:] {
		if r != 'v' {
			return false
		}
	}

	return true
}

// insertBackend inserts backend immediately before argv[1+subcommandIndex].
func insertBackend(argv []string, subcommandIndex int, backend string) []string {
	pos := 1 + subcommandIndex

	out := make([]string, 0, len(argv)+1)
	out = append(out, argv[:pos]...)
	out = append(out, backend)
	out = append(out, argv[pos:]...)

	return out
}

func injectShared(argv []string, scan scanResult) ([]string, *Guidance) {
	path := scan.configFileValue

	var err error

	if path == "" {
		path, err = config.Path()
	}

	if err != nil {
		return guidanceForError(scan, err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		return guidanceForError(scan, err)
	}

	deployment, err := profile.ResolveDeployment(cfg, scan.profileValue)
	if err != nil {
		return guidanceForError(scan, err)
	}

	return insertBackend(argv, scan.subcommandIndex, string(deployment)), nil
}

func guidanceForError(scan scanResult, err error) ([]string, *Guidance) {
	message := err.Error()

	if suggester, ok := err.(rctlerr.Suggester); ok {
		message = fmt.Sprintf("%s\nTry: %s", message, suggester.Suggest())
	}

	return nil, &Guidance{Message: message, HelpRequested: scan.helpRequested}
}
