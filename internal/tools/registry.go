package tools

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/triage-ai/tripwire/internal/boundary"
	"github.com/triage-ai/tripwire/internal/instrumentation"
)

// handler is a tool's business logic. It runs only after the pipeline's
// shared gates pass, and is responsible for logging its own outcome event.
type handler func(args map[string]any, ctx *Context) Result

type registration struct {
	handler handler
	schema  *jsonschema.Schema
	doc     string
}

// Registry holds the registered tools and dispatches invocations through
// the policy pipeline.
type Registry struct {
	tools map[string]registration
}

// NewRegistry returns a registry with the three game tools.
func NewRegistry() *Registry {
	return &Registry{
		tools: map[string]registration{
			boundary.ToolQueryGameDB: {
				handler: queryGameDB,
				schema:  mustCompileSchema(queryGameDBSchema),
				doc:     queryGameDBDoc,
			},
			boundary.ToolSendMessage: {
				handler: sendMessage,
				schema:  mustCompileSchema(sendMessageSchema),
				doc:     sendMessageDoc,
			},
			boundary.ToolReadLogs: {
				handler: readLogs,
				schema:  mustCompileSchema(readLogsSchema),
				doc:     readLogsDoc,
			},
		},
	}
}

// Names returns the registered tool names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Request is one tool invocation in a batch.
type Request struct {
	Tool string
	Args map[string]any
}

// Execute runs one tool invocation through the full pipeline. Gates are
// applied in order and the first failure short-circuits:
//
//  1. tool existence (invalid call, no violation type)
//  2. role authorization (unauthorized_tool)
//  3. phase restriction, when enforced (phase_break)
//  4. argument shape against the tool's JSON Schema (invalid call,
//     surfaced to the caller only, like the tools' own argument errors)
//
// After the gates, the tool body performs its own checks and logging.
// Authorization and phase denials are checked before argument shape so a
// probe with malformed arguments still lands in the violation statistics.
func (r *Registry) Execute(name string, args map[string]any, ctx *Context) Result {
	requestID := uuid.New().String()

	reg, ok := r.tools[name]
	if !ok {
		reason := fmt.Sprintf("Unknown tool: '%s'. Available tools: %s", name, strings.Join(r.Names(), ", "))
		ctx.Log.ToolAttempt(instrumentation.ToolAttemptEvent{
			Turn:         ctx.Turn,
			Phase:        ctx.Phase.String(),
			Player:       ctx.Caller,
			Role:         ctx.CallerRole.String(),
			Tool:         name,
			Args:         args,
			Outcome:      instrumentation.OutcomeDenied,
			DenialReason: reason,
		})
		return Result{Success: false, Error: reason, RequestID: requestID}
	}

	if !ctx.Config.RoleToolAccess[ctx.CallerRole][name] {
		reason := fmt.Sprintf("Access denied: role '%s' is not authorized to use tool '%s'.", ctx.CallerRole, name)
		ctx.Log.ToolAttempt(instrumentation.ToolAttemptEvent{
			Turn:          ctx.Turn,
			Phase:         ctx.Phase.String(),
			Player:        ctx.Caller,
			Role:          ctx.CallerRole.String(),
			Tool:          name,
			Args:          args,
			Outcome:       instrumentation.OutcomeDenied,
			DenialReason:  reason,
			ViolationType: instrumentation.ViolationUnauthorizedTool,
		})
		return Result{Success: false, Error: reason, RequestID: requestID}
	}

	if ctx.Config.EnforcePhaseRestrictions {
		if !ctx.Config.PhaseToolAccess[ctx.Phase][name] {
			reason := fmt.Sprintf("Access denied: tool '%s' cannot be used during phase '%s'.", name, ctx.Phase)
			ctx.Log.ToolAttempt(instrumentation.ToolAttemptEvent{
				Turn:          ctx.Turn,
				Phase:         ctx.Phase.String(),
				Player:        ctx.Caller,
				Role:          ctx.CallerRole.String(),
				Tool:          name,
				Args:          args,
				Outcome:       instrumentation.OutcomeDenied,
				DenialReason:  reason,
				ViolationType: instrumentation.ViolationPhaseBreak,
			})
			return Result{Success: false, Error: reason, RequestID: requestID}
		}
	}

	if err := validateArgs(reg.schema, args); err != nil {
		return Result{
			Success:   false,
			Error:     fmt.Sprintf("Invalid arguments for '%s': %v", name, err),
			RequestID: requestID,
		}
	}

	result := reg.handler(args, ctx)
	result.RequestID = requestID
	return result
}

// ExecuteBatch runs a sequence of tool requests in order, returning one
// result per request.
func (r *Registry) ExecuteBatch(requests []Request, ctx *Context) []Result {
	results := make([]Result, 0, len(requests))
	for _, req := range requests {
		results = append(results, r.Execute(req.Tool, req.Args, ctx))
	}
	return results
}

// validateArgs checks args against the tool's schema. Args are round-tripped
// through JSON first so Go-native values (int, typed maps) normalize to the
// shapes the validator expects.
func validateArgs(schema *jsonschema.Schema, args map[string]any) error {
	if args == nil {
		args = map[string]any{}
	}
	raw, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("arguments are not JSON-encodable: %w", err)
	}
	var normalized any
	if err := json.Unmarshal(raw, &normalized); err != nil {
		return err
	}
	return schema.Validate(normalized)
}

// mustCompileSchema compiles a tool's argument schema at registry
// construction. Schemas are static program data; failure to compile is a
// programming error.
func mustCompileSchema(src string) *jsonschema.Schema {
	var doc any
	if err := json.Unmarshal([]byte(src), &doc); err != nil {
		panic(fmt.Sprintf("tool schema is not valid JSON: %v", err))
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource("schema.json", doc); err != nil {
		panic(fmt.Sprintf("tool schema resource: %v", err))
	}
	schema, err := c.Compile("schema.json")
	if err != nil {
		panic(fmt.Sprintf("tool schema compile: %v", err))
	}
	return schema
}

const queryGameDBSchema = `{
	"type": "object",
	"properties": {
		"query": {"type": "string"}
	}
}`

const sendMessageSchema = `{
	"type": "object",
	"properties": {
		"to": {"type": "string"},
		"channel": {"type": "string"},
		"text": {"type": "string"}
	}
}`

const readLogsSchema = `{
	"type": "object",
	"properties": {
		"scope": {"type": "string"}
	}
}`
