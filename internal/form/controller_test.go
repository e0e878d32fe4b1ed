package form

import (
	"context"
	"errors"
	"testing"

	"github.com/PabloPavan/sellerdesk/internal/apperrors"
	"github.com/PabloPavan/sellerdesk/internal/routes"
)

type profile struct {
	Email string
	Tags  []string
}

func (p profile) Clone() profile {
	out := p
	out.Tags = append([]string(nil), p.Tags...)
	return out
}

type senderStub struct {
	sendFn func(ctx context.Context, ep routes.Endpoint, body any, dest any) error
	calls  int
}

func (s *senderStub) Send(ctx context.Context, ep routes.Endpoint, body any, dest any) error {
	s.calls++
	if s.sendFn != nil {
		return s.sendFn(ctx, ep, body, dest)
	}
	return nil
}

var testEndpoint = routes.Endpoint{Name: "test", Method: "POST", Path: "/test"}

func TestUpdateReplacesValue(t *testing.T) {
	c := NewController("profile", profile{Email: "a@b.c", Tags: []string{"x"}}, testEndpoint, &senderStub{})

	before := c.Value()
	c.Update(func(p profile) profile {
		p.Tags[0] = "changed"
		p.Email = "new@b.c"
		return p
	})

	if before.Tags[0] != "x" || before.Email != "a@b.c" {
		t.Fatalf("earlier snapshot was mutated: %+v", before)
	}
	after := c.Value()
	if after.Email != "new@b.c" || after.Tags[0] != "changed" {
		t.Fatalf("update not applied: %+v", after)
	}
}

func TestValueReturnsCopy(t *testing.T) {
	c := NewController("profile", profile{Tags: []string{"x"}}, testEndpoint, &senderStub{})
	v := c.Value()
	v.Tags[0] = "y"
	if c.Value().Tags[0] != "x" {
		t.Fatal("held value must not be reachable through Value")
	}
}

func TestSubmitSuccess(t *testing.T) {
	sender := &senderStub{}
	c := NewController("profile", profile{Email: "a@b.c"}, testEndpoint, sender)

	var seenSubmitting bool
	sender.sendFn = func(ctx context.Context, ep routes.Endpoint, body any, dest any) error {
		seenSubmitting = c.Submitting()
		if ep.Path != "/test" {
			t.Fatalf("unexpected endpoint: %+v", ep)
		}
		if p, ok := body.(profile); !ok || p.Email != "a@b.c" {
			t.Fatalf("unexpected body: %#v", body)
		}
		if out, ok := dest.(*string); ok {
			*out = "done"
		}
		return nil
	}

	var resp string
	succeeded := false
	err := c.Submit(context.Background(), WithResponse(&resp), OnSuccess(func() { succeeded = true }))
	if err != nil {
		t.Fatalf("submit error: %v", err)
	}
	if !seenSubmitting {
		t.Fatal("expected submitting during send")
	}
	if c.Submitting() {
		t.Fatal("expected submitting reset")
	}
	if !succeeded || resp != "done" {
		t.Fatalf("callbacks not run: succeeded=%v resp=%q", succeeded, resp)
	}
	if c.State().Type != StateInitial {
		t.Fatalf("unexpected state: %+v", c.State())
	}
}

func TestSubmitFailureKeepsValue(t *testing.T) {
	sender := &senderStub{sendFn: func(ctx context.Context, ep routes.Endpoint, body any, dest any) error {
		return apperrors.New(apperrors.KindInvalidInput, "Email is taken")
	}}
	c := NewController("profile", profile{Email: "a@b.c"}, testEndpoint, sender)

	var gotMessage string
	err := c.Submit(context.Background(), OnError(func(msg string) { gotMessage = msg }))
	if err == nil {
		t.Fatal("expected error")
	}
	if gotMessage != "Email is taken" || c.Error() != "Email is taken" {
		t.Fatalf("unexpected message: %q / %q", gotMessage, c.Error())
	}
	if c.Submitting() {
		t.Fatal("expected submitting reset after failure")
	}
	if c.Value().Email != "a@b.c" {
		t.Fatal("value must survive a failed submit")
	}
	state := c.State()
	if state.Type != StateError || state.Message != "Email is taken" {
		t.Fatalf("unexpected state: %+v", state)
	}
}

func TestSubmitClearsPreviousError(t *testing.T) {
	fail := true
	sender := &senderStub{sendFn: func(ctx context.Context, ep routes.Endpoint, body any, dest any) error {
		if fail {
			return errors.New("boom")
		}
		return nil
	}}
	c := NewController("profile", profile{}, testEndpoint, sender)

	_ = c.Submit(context.Background())
	if c.Error() != GenericErrorMessage {
		t.Fatalf("expected generic message, got %q", c.Error())
	}

	fail = false
	if err := c.Submit(context.Background()); err != nil {
		t.Fatalf("submit error: %v", err)
	}
	if c.Error() != "" {
		t.Fatalf("expected error cleared, got %q", c.Error())
	}
}

func TestSubmitAppliesTransform(t *testing.T) {
	sender := &senderStub{}
	c := NewController("profile", profile{Email: "a@b.c"}, testEndpoint, sender)
	c.Transform(func(p profile) any {
		return map[string]any{"user": p.Email}
	})

	sender.sendFn = func(ctx context.Context, ep routes.Endpoint, body any, dest any) error {
		m, ok := body.(map[string]any)
		if !ok || m["user"] != "a@b.c" {
			t.Fatalf("unexpected body: %#v", body)
		}
		return nil
	}
	if err := c.Submit(context.Background()); err != nil {
		t.Fatalf("submit error: %v", err)
	}
	if sender.calls != 1 {
		t.Fatalf("expected one call, got %d", sender.calls)
	}
}

func TestSubmitWithoutSender(t *testing.T) {
	c := NewController("profile", profile{}, testEndpoint, nil)
	err := c.Submit(context.Background())
	if apperrors.KindOf(err) != apperrors.KindInternal {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Error() == "" {
		t.Fatal("expected error message")
	}
}

func TestResetClearsError(t *testing.T) {
	sender := &senderStub{sendFn: func(ctx context.Context, ep routes.Endpoint, body any, dest any) error {
		return errors.New("boom")
	}}
	c := NewController("profile", profile{}, testEndpoint, sender)
	_ = c.Submit(context.Background())

	c.Reset(profile{Email: "saved@b.c"})
	if c.Error() != "" || c.Value().Email != "saved@b.c" {
		t.Fatalf("reset not applied: %q %+v", c.Error(), c.Value())
	}
}

func TestMessage(t *testing.T) {
	if Message(nil) != "" {
		t.Fatal("nil error has no message")
	}
	if Message(errors.New("db: broken pipe")) != GenericErrorMessage {
		t.Fatal("expected generic message for foreign errors")
	}
	wrapped := apperrors.Wrap(apperrors.KindUnauthorized, "Invalid credentials", errors.New("x"))
	if Message(wrapped) != "Invalid credentials" {
		t.Fatalf("unexpected message: %q", Message(wrapped))
	}
}

func TestActionLifecycle(t *testing.T) {
	var a Action
	if a.State().Type != StateInitial {
		t.Fatalf("unexpected zero state: %+v", a.State())
	}
	a.Start()
	if !a.State().Submitting() || a.State().Label("Send", "Sending...") != "Sending..." {
		t.Fatalf("unexpected state: %+v", a.State())
	}
	msg := a.Fail(apperrors.New(apperrors.KindRateLimited, "Too many attempts"))
	if msg != "Too many attempts" || a.State().Type != StateError {
		t.Fatalf("unexpected failure state: %+v", a.State())
	}
	a.Done()
	if a.State().Label("Send", "Sending...") != "Send" {
		t.Fatalf("unexpected label: %+v", a.State())
	}
}
