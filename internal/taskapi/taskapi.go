// Package taskapi defines the worker IPC contract: the four typed message
// shapes a UI collaborator exchanges with the synchronous core, plus a
// single Dispatch function a worker-process adapter calls per incoming
// request. The core itself stays synchronous; this package models only
// the message envelope, not a transport. The actual request/response
// plumbing (sockets, pipes, HTTP) belongs to whichever adapter embeds
// this contract.
package taskapi

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/levmat/version-finder/internal/query"
	"github.com/levmat/version-finder/internal/registry"
	"github.com/levmat/version-finder/internal/verrors"
)

// TaskRequest asks the core to run one registry task by name with the
// given argument bindings.
type TaskRequest struct {
	ID            uuid.UUID         `json:"id"`
	OperationName string            `json:"operation_name"`
	Arguments     map[string]string `json:"arguments"`
}

// TaskResult carries a successful operation's return value back to the
// caller, correlated by ID.
type TaskResult struct {
	ID    uuid.UUID `json:"id"`
	Value any       `json:"value"`
}

// TaskError carries a failed operation's error kind and message back to
// the caller, correlated by ID.
type TaskError struct {
	ID      uuid.UUID `json:"id"`
	Kind    string    `json:"kind"`
	Message string    `json:"message"`
}

// Shutdown asks a worker adapter to stop processing further requests.
// It carries no payload.
type Shutdown struct{}

// NewRequest builds a TaskRequest with a fresh correlation ID.
func NewRequest(operationName string, arguments map[string]string) TaskRequest {
	return TaskRequest{
		ID:            uuid.New(),
		OperationName: operationName,
		Arguments:     arguments,
	}
}

// Dispatch runs req's named task against eng and returns either a
// TaskResult or a TaskError, never both, never an untyped error — this is
// the one synchronous call a worker-process adapter makes per inbound
// message.
func Dispatch(ctx context.Context, reg *registry.Registry, eng *query.Engine, req TaskRequest) (TaskResult, *TaskError) {
	task, err := reg.ByName(req.OperationName)
	if err != nil {
		return TaskResult{}, &TaskError{ID: req.ID, Kind: "invalid-operation", Message: err.Error()}
	}

	value, err := task.Run(ctx, eng, req.Arguments)
	if err != nil {
		return TaskResult{}, &TaskError{ID: req.ID, Kind: errorKind(err), Message: err.Error()}
	}

	return TaskResult{ID: req.ID, Value: value}, nil
}

// errorKind extracts the verrors.Kind string from err, falling back to a
// generic label for errors outside the core's closed taxonomy (argument
// validation, JSON issues, etc).
func errorKind(err error) string {
	var verr *verrors.Error
	if errors.As(err, &verr) {
		return verr.Kind.String()
	}
	return "internal-error"
}

// MarshalShutdown exists only so Shutdown participates in the same JSON
// envelope as the other three message kinds, despite carrying no fields of
// its own.
func MarshalShutdown() ([]byte, error) { return json.Marshal(Shutdown{}) }
