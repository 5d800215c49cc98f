// Package restcmd builds generic list/get/create/update/delete command
// groups over one REST resource collection. Per-endpoint schemas are out
// of scope (enumerated by each backend's own API reference); this package
// gives every Cloud-only, Enterprise-only, and shared resource named in
// the command vocabulary a uniform, scriptable surface instead.
package restcmd

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/redis-developer/redisctl/cmd/redisctl/backend"
	"github.com/redis-developer/redisctl/cmd/redisctl/rootflags"
	"github.com/redis-developer/redisctl/pkg/rctlerr"
	"github.com/redis-developer/redisctl/pkg/render"
	"github.com/redis-developer/redisctl/pkg/workflow"
)

// Resolver resolves the backend.Context a resource command should act
// against; cloudcmd and enterprisecmd each bind it to a fixed backend,
// while sharedcmd defers to profile inference.
type Resolver func(flags *rootflags.Flags) (*backend.Context, error)

// Resource describes one named collection: its URL shape and, for
// async-capable backends, the path used to poll a task to completion.
type Resource struct {
	Name       string
	Aliases    []string
	Short      string
	Collection string                 // e.g. "/subscriptions"
	Item       func(id string) string // e.g. func(id) string { return "/subscriptions/" + id }
	TaskPath   func(taskID string) string
}

// New builds the "<resource> list|get|create|update|delete" command group.
func New(flags *rootflags.Flags, resolve Resolver, res Resource) *cobra.Command {
	cmd := &cobra.Command{
		Use:     res.Name,
		Aliases: res.Aliases,
		Short:   res.Short,
	}

	cmd.AddCommand(
		newListCmd(flags, resolve, res),
		newGetCmd(flags, resolve, res),
		newCreateCmd(flags, resolve, res),
		newUpdateCmd(flags, resolve, res),
		newDeleteCmd(flags, resolve, res),
	)

	return cmd
}

func newListCmd(flags *rootflags.Flags, resolve Resolver, res Resource) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List " + res.Name + " resources",
		RunE: func(cmd *cobra.Command, _ []string) error {
			bctx, err := resolve(flags)
			if err != nil {
				return err
			}

			raw, err := bctx.Client.GetRaw(cmd.Context(), res.Collection)
			if err != nil {
				return err
			}

			return renderRaw(cmd, flags, raw)
		},
	}
}

func newGetCmd(flags *rootflags.Flags, resolve Resolver, res Resource) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Get one " + res.Name + " by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bctx, err := resolve(flags)
			if err != nil {
				return err
			}

			raw, err := bctx.Client.GetRaw(cmd.Context(), res.Item(args[0]))
			if err != nil {
				return err
			}

			return renderRaw(cmd, flags, raw)
		},
	}
}

func newCreateCmd(flags *rootflags.Flags, resolve Resolver, res Resource) *cobra.Command {
	var data string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a " + res.Name,
		RunE: func(cmd *cobra.Command, _ []string) error {
			body, err := loadData(data)
			if err != nil {
				return err
			}

			bctx, err := resolve(flags)
			if err != nil {
				return err
			}

			return runMutation(cmd, flags, bctx, res, func(ctx context.Context) (json.RawMessage, http.Header, error) {
				return bctx.Client.PostRawWithHeader(ctx, withDryRun(res.Collection, flags.DryRun), body)
			})
		},
	}

	bindDataAndWait(cmd, &data)

	return cmd
}

func newUpdateCmd(flags *rootflags.Flags, resolve Resolver, res Resource) *cobra.Command {
	var data string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a " + res.Name,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := loadData(data)
			if err != nil {
				return err
			}

			bctx, err := resolve(flags)
			if err != nil {
				return err
			}

			return runMutation(cmd, flags, bctx, res, func(ctx context.Context) (json.RawMessage, http.Header, error) {
				return bctx.Client.PutRawWithHeader(ctx, withDryRun(res.Item(args[0]), flags.DryRun), body)
			})
		},
	}

	bindDataAndWait(cmd, &data)

	return cmd
}

func newDeleteCmd(flags *rootflags.Flags, resolve Resolver, res Resource) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a " + res.Name,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bctx, err := resolve(flags)
			if err != nil {
				return err
			}

			return runMutation(cmd, flags, bctx, res, func(ctx context.Context) (json.RawMessage, http.Header, error) {
				return bctx.Client.DeleteRawWithHeader(ctx, withDryRun(res.Item(args[0]), flags.DryRun))
			})
		},
	}

	cmd.Flags().Bool("wait", false, "wait for the resulting task to reach a terminal state")

	return cmd
}

func bindDataAndWait(cmd *cobra.Command, data *string) {
	cmd.Flags().StringVar(data, "data", "", "request body as a JSON literal, or @file.json to read from a file")
	cmd.Flags().Bool("wait", false, "wait for the resulting task to reach a terminal state")
}

func loadData(data string) (any, error) {
	if data == "" {
		return nil, nil
	}

	payload := data

	if rest, ok := strings.CutPrefix(data, "@"); ok {
		content, err := os.ReadFile(rest)
		if err != nil {
			return nil, rctlerr.InvalidInput{Field: "data", Reason: err.Error()}
		}

		payload = string(content)
	}

	if !json.Valid([]byte(payload)) {
		return nil, rctlerr.InvalidInput{Field: "data", Reason: "not valid JSON"}
	}

	return json.RawMessage(payload), nil
}

// runMutation issues call and, when --wait was set and the resource
// supports task polling, extracts a task id from the response and drives
// it to completion via the workflow engine before rendering the result.
// --dry-run always short-circuits: the request is tagged and issued, but
// the workflow engine never polls, since there is no task to wait on.
func runMutation(
	cmd *cobra.Command,
	flags *rootflags.Flags,
	bctx *backend.Context,
	res Resource,
	call func(ctx context.Context) (json.RawMessage, http.Header, error),
) error {
	if flags.DryRun {
		raw, _, err := call(cmd.Context())
		if err != nil {
			return err
		}

		return renderRaw(cmd, flags, dryRunStub(raw))
	}

	wait, _ := cmd.Flags().GetBool("wait")

	if !wait || res.TaskPath == nil {
		raw, _, err := call(cmd.Context())
		if err != nil {
			return err
		}

		return renderRaw(cmd, flags, raw)
	}

	var lastHeader http.Header

	wrapped := func(ctx context.Context) (json.RawMessage, error) {
		raw, header, err := call(ctx)
		lastHeader = header

		return raw, err
	}

	result, err := workflow.Run(
		cmd.Context(),
		wrapped,
		func(raw json.RawMessage) (string, bool) { return extractTaskID(raw, lastHeader) },
		taskFetcher(bctx, res),
		resourceFetcher(bctx, res),
		waitTimeout(flags),
		waitInterval(flags),
		nil,
	)
	if err != nil {
		return err
	}

	return renderRaw(cmd, flags, result)
}

// extractTaskID tolerates the two shapes the Cloud API uses to surface a
// task id: a JSON body field (taskId or task_id) or a Location/Link
// response header pointing at the task resource, since the field naming
// is not uniform across endpoints.
func extractTaskID(raw json.RawMessage, header http.Header) (string, bool) {
	if len(raw) != 0 {
		var envelope struct {
			TaskID      string `json:"taskId"`
			TaskIDSnake string `json:"task_id"`
		}

		if err := json.Unmarshal(raw, &envelope); err == nil {
			switch {
			case envelope.TaskID != "":
				return envelope.TaskID, true
			case envelope.TaskIDSnake != "":
				return envelope.TaskIDSnake, true
			}
		}
	}

	if id, ok := taskIDFromHeader(header); ok {
		return id, true
	}

	return "", false
}

// taskIDFromHeader reads a task id out of a Location header (the last path
// segment) or a Link header's rel="task" target, the two header-based
// shapes some endpoints use instead of a body field.
func taskIDFromHeader(header http.Header) (string, bool) {
	if header == nil {
		return "", false
	}

	if location := header.Get("Location"); location != "" {
		if id := lastPathSegment(location); id != "" {
			return id, true
		}
	}

	for _, link := range header.Values("Link") {
		if !strings.Contains(link, `rel="task"`) {
			continue
		}

		start := strings.Index(link, "<")
		end := strings.Index(link, ">")

		if start >= 0 && end > start {
			if id := lastPathSegment(link[start+1 : end]); id != "" {
				return id, true
			}
		}
	}

	return "", false
}

func lastPathSegment(path string) string {
	path = strings.TrimRight(path, "/")

	if idx := strings.LastIndex(path, "/"); idx >= 0 {
		return path[idx+1:]
	}

	return path
}

func taskFetcher(bctx *backend.Context, res Resource) workflow.TaskFetcher {
	return func(ctx context.Context, taskID string) (workflow.TaskState, error) {
		raw, err := bctx.Client.GetRaw(ctx, res.TaskPath(taskID))
		if err != nil {
			return workflow.TaskState{}, err
		}

		var body struct {
			Status     string `json:"status"`
			ResourceID string `json:"resourceId"`
			Error      string `json:"error"`
		}

		if err := json.Unmarshal(raw, &body); err != nil {
			return workflow.TaskState{}, rctlerr.Deserialize{Cause: err}
		}

		return workflow.TaskState{
			Status:     workflow.Normalize(body.Status),
			ResourceID: body.ResourceID,
			Error:      body.Error,
		}, nil
	}
}

func resourceFetcher(bctx *backend.Context, res Resource) workflow.ResourceFetcher[json.RawMessage] {
	return func(ctx context.Context, resourceID string) (json.RawMessage, error) {
		return bctx.Client.GetRaw(ctx, res.Item(resourceID))
	}
}

// withDryRun tags path with a dry_run=true query parameter when requested;
// the backend validates the request without committing it.
func withDryRun(path string, dryRun bool) string {
	if !dryRun {
		return path
	}

	if strings.Contains(path, "?") {
		return path + "&dry_run=true"
	}

	return path + "?dry_run=true"
}

// dryRunStub fills in a synthetic id when the backend's validation-only
// response has no body of its own, so the rendered output still has
// something to show the caller.
func dryRunStub(raw json.RawMessage) json.RawMessage {
	if len(raw) != 0 {
		return raw
	}

	stub, err := json.Marshal(map[string]any{
		"dryRun": true,
		"id":     uuid.NewString(),
	})
	if err != nil {
		return raw
	}

	return stub
}

func waitTimeout(flags *rootflags.Flags) time.Duration {
	secs := flags.WaitTimeoutSecs
	if secs <= 0 {
		secs = 300
	}

	return time.Duration(secs) * time.Second
}

func waitInterval(flags *rootflags.Flags) time.Duration {
	secs := flags.WaitIntervalSecs
	if secs <= 0 {
		secs = 5
	}

	return time.Duration(secs) * time.Second
}

func renderRaw(cmd *cobra.Command, flags *rootflags.Flags, raw json.RawMessage) error {
	if len(raw) == 0 {
		cmd.Println("{}")

		return nil
	}

	return render.Render(cmd.OutOrStdout(), raw, flags.OutputFormat(), flags.Query)
}
