// Package apicmd implements the raw "api" passthrough commands: issue a
// GET/POST/PUT/DELETE against the resolved backend's REST API and render
// whatever JSON comes back, for endpoints no typed subcommand covers yet.
package apicmd

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/spf13/cobra"

	"github.com/redis-developer/redisctl/cmd/redisctl/backend"
	"github.com/redis-developer/redisctl/cmd/redisctl/rootflags"
	"github.com/redis-developer/redisctl/pkg/rctlerr"
	"github.com/redis-developer/redisctl/pkg/render"
)

// New builds the "api" command tree.
func New(flags *rootflags.Flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "api",
		Short: "Issue a raw REST request against the resolved backend",
	}

	cmd.PersistentFlags().String("backend", "", "force the backend: cloud|enterprise (default: infer from profile)")

	cmd.AddCommand(
		newMethodCmd(flags, "get", cmd),
		newMethodCmd(flags, "post", cmd),
		newMethodCmd(flags, "put", cmd),
		newMethodCmd(flags, "delete", cmd),
	)

	return cmd
}

func newMethodCmd(flags *rootflags.Flags, method string, parent *cobra.Command) *cobra.Command {
	var bodyJSON string

	c := &cobra.Command{
		Use:   method + " <path>",
		Short: "Issue a raw " + strings.ToUpper(method) + " request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			backendOverride, _ := parent.PersistentFlags().GetString("backend")

			ctx, err := resolveBackend(flags, backendOverride)
			if err != nil {
				return err
			}

			var body any
			if bodyJSON != "" {
				if !json.Valid([]byte(bodyJSON)) {
					return rctlerr.InvalidInput{Field: "body", Reason: "not valid JSON"}
				}

				body = json.RawMessage(bodyJSON)
			}

			raw, err := issue(cmd.Context(), ctx, method, args[0], body)
			if err != nil {
				return err
			}

			if len(raw) == 0 {
				cmd.Println("{}")

				return nil
			}

			return render.Render(cmd.OutOrStdout(), raw, flags.OutputFormat(), flags.Query)
		},
	}

	if method == "post" || method == "put" {
		c.Flags().StringVar(&bodyJSON, "body", "", "request body as a JSON literal")
	}

	return c
}

func resolveBackend(flags *rootflags.Flags, override string) (*backend.Context, error) {
	switch override {
	case "cloud":
		return backend.ResolveCloud(flags)
	case "enterprise":
		return backend.ResolveEnterprise(flags)
	case "":
		return backend.ResolveShared(flags)
	default:
		return nil, rctlerr.InvalidInput{Field: "backend", Reason: "must be cloud or enterprise"}
	}
}

func issue(ctx context.Context, bctx *backend.Context, method, path string, body any) (json.RawMessage, error) {
	switch method {
	case "get":
		return bctx.Client.GetRaw(ctx, path)
	case "post":
		return bctx.Client.PostRaw(ctx, path, body)
	case "put":
		return bctx.Client.PutRaw(ctx, path, body)
	case "delete":
		return bctx.Client.DeleteRaw(ctx, path)
	default:
		return nil, rctlerr.InvalidInput{Field: "method", Reason: "unsupported"}
	}
}
