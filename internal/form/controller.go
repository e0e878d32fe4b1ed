// Package form holds client-side form state: a value replaced wholesale on
// every edit, a single in-flight submit and the message of the last failure.
package form

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/PabloPavan/sellerdesk/internal/apperrors"
	"github.com/PabloPavan/sellerdesk/internal/routes"
	"github.com/PabloPavan/sellerdesk/internal/telemetry"
)

// GenericErrorMessage is shown when a failure carries no message of its own.
const GenericErrorMessage = "Sorry, something went wrong. Please try again."

// Cloner is implemented by form values. Clone must not share slices or maps
// with the receiver.
type Cloner[T any] interface {
	Clone() T
}

// Sender performs one outbound request. dest may be nil.
type Sender interface {
	Send(ctx context.Context, ep routes.Endpoint, body any, dest any) error
}

type SenderFunc func(ctx context.Context, ep routes.Endpoint, body any, dest any) error

func (f SenderFunc) Send(ctx context.Context, ep routes.Endpoint, body any, dest any) error {
	return f(ctx, ep, body, dest)
}

// Controller owns the value of one form.
//
// Update and Submit are meant to be driven by a single owner. Submitting may
// be read from any goroutine; callers use it to disable the submit action
// while a request is in flight. The controller itself does not reject a
// second Submit.
type Controller[T Cloner[T]] struct {
	name      string
	endpoint  routes.Endpoint
	sender    Sender
	value     T
	transform func(T) any

	submitting atomic.Bool
	lastError  string
}

func NewController[T Cloner[T]](name string, initial T, endpoint routes.Endpoint, sender Sender) *Controller[T] {
	return &Controller[T]{
		name:     name,
		endpoint: endpoint,
		sender:   sender,
		value:    initial.Clone(),
	}
}

// Value returns a copy of the held value.
func (c *Controller[T]) Value() T {
	return c.value.Clone()
}

func (c *Controller[T]) Submitting() bool {
	return c.submitting.Load()
}

// Error returns the message of the last failed submit, or "".
func (c *Controller[T]) Error() string {
	return c.lastError
}

func (c *Controller[T]) State() SaveState {
	switch {
	case c.Submitting():
		return SaveState{Type: StateSubmitting}
	case c.lastError != "":
		return SaveState{Type: StateError, Message: c.lastError}
	default:
		return SaveState{Type: StateInitial}
	}
}

// Update replaces the held value with merge applied to a fresh copy of it.
func (c *Controller[T]) Update(merge func(T) T) {
	if merge == nil {
		return
	}
	c.value = merge(c.value.Clone())
}

// Reset replaces the held value outright, e.g. after the server returned
// the persisted state.
func (c *Controller[T]) Reset(value T) {
	c.value = value.Clone()
	c.lastError = ""
}

// Transform sets the pre-submit transform. The transform receives a copy of
// the held value and returns the request body.
func (c *Controller[T]) Transform(fn func(T) any) {
	c.transform = fn
}

type submitConfig struct {
	dest      any
	onSuccess func()
	onError   func(message string)
}

type SubmitOption func(*submitConfig)

// WithResponse decodes the success response into dest.
func WithResponse(dest any) SubmitOption {
	return func(c *submitConfig) { c.dest = dest }
}

func OnSuccess(fn func()) SubmitOption {
	return func(c *submitConfig) { c.onSuccess = fn }
}

func OnError(fn func(message string)) SubmitOption {
	return func(c *submitConfig) { c.onError = fn }
}

// Submit sends the transformed value once. On failure the held value is left
// as it was, the error message is kept for display and the error returned.
func (c *Controller[T]) Submit(ctx context.Context, opts ...SubmitOption) error {
	var cfg submitConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	if c.sender == nil {
		err := apperrors.New(apperrors.KindInternal, "form sender not configured")
		c.fail(ctx, cfg, err)
		return err
	}

	var body any = c.value.Clone()
	if c.transform != nil {
		body = c.transform(c.value.Clone())
	}

	c.lastError = ""
	c.submitting.Store(true)
	err := c.sender.Send(ctx, c.endpoint, body, cfg.dest)
	c.submitting.Store(false)

	if err != nil {
		c.fail(ctx, cfg, err)
		return err
	}

	telemetry.RecordFormSubmission(ctx, c.name, true)
	if cfg.onSuccess != nil {
		cfg.onSuccess()
	}
	return nil
}

func (c *Controller[T]) fail(ctx context.Context, cfg submitConfig, err error) {
	c.Fail(ctx, err)
	if cfg.onError != nil {
		cfg.onError(c.lastError)
	}
}

// Fail records err as the form's error without sending anything. It is used
// by steps that run before the request, such as a captcha challenge.
func (c *Controller[T]) Fail(ctx context.Context, err error) string {
	c.lastError = Message(err)
	telemetry.RecordFormSubmission(ctx, c.name, false)
	telemetry.LogWarn(ctx, "form submit failed",
		telemetry.LogString("form", c.name),
		telemetry.LogString("endpoint", c.endpoint.Path),
		telemetry.LogErr(err),
	)
	return c.lastError
}

// ClearError returns the form to its initial state without touching the value.
func (c *Controller[T]) ClearError() {
	c.lastError = ""
}

func (c *Controller[T]) Endpoint() routes.Endpoint {
	return c.endpoint
}

// Message converts err into something a user can read.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var appErr *apperrors.Error
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return GenericErrorMessage
}
