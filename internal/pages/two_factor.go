package pages

import (
	"context"

	"github.com/PabloPavan/sellerdesk/internal/form"
	"github.com/PabloPavan/sellerdesk/internal/routes"
)

const TokenResentMessage = "Resent the authentication token, please check your inbox."

type TwoFactorValues struct {
	UserID string  `json:"user_id" yaml:"user_id"`
	Token  string  `json:"token" yaml:"token"`
	Next   *string `json:"next" yaml:"next"`
}

func (v TwoFactorValues) Clone() TwoFactorValues {
	out := v
	out.Next = cloneString(v.Next)
	return out
}

type resendRequest struct {
	UserID string `json:"user_id" yaml:"user_id"`
}

// TwoFactorForm submits the emailed token. Resending the token is a separate
// action with its own state so it stays usable while a login is failing.
type TwoFactorForm struct {
	ctl    *form.Controller[TwoFactorValues]
	email  string
	resend routes.Endpoint
	sender form.Sender
	action form.Action
}

func NewTwoFactorForm(userID, email, token, next string, resolver routes.Resolver, sender form.Sender) (*TwoFactorForm, error) {
	ep, err := resolve(resolver, routes.TwoFactorAuthentication)
	if err != nil {
		return nil, err
	}
	resend, err := resolve(resolver, routes.ResendTwoFactorToken)
	if err != nil {
		return nil, err
	}
	initial := TwoFactorValues{UserID: userID, Token: token, Next: optionalString(next)}
	return &TwoFactorForm{
		ctl:    form.NewController("two_factor", initial, ep, sender),
		email:  email,
		resend: resend,
		sender: sender,
	}, nil
}

func (f *TwoFactorForm) Values() TwoFactorValues { return f.ctl.Value() }

func (f *TwoFactorForm) State() form.SaveState { return f.ctl.State() }

func (f *TwoFactorForm) ResendState() form.SaveState { return f.action.State() }

func (f *TwoFactorForm) SetToken(token string) {
	f.ctl.Update(func(v TwoFactorValues) TwoFactorValues {
		v.Token = token
		return v
	})
}

func (f *TwoFactorForm) Header() string { return "Two-Factor Authentication" }

func (f *TwoFactorForm) Instructions() string {
	return "To protect your account, we have sent an Authentication Token to " + f.email + ". Please enter it here to continue."
}

func (f *TwoFactorForm) ButtonLabel() string {
	return f.State().Label("Login", "Logging in...")
}

func (f *TwoFactorForm) Submit(ctx context.Context) (RedirectResponse, error) {
	var resp RedirectResponse
	if err := f.ctl.Submit(ctx, form.WithResponse(&resp)); err != nil {
		return RedirectResponse{}, err
	}
	return resp, nil
}

// Resend asks for a new token. The action returns to its initial state
// whatever the outcome; the alert carries the result.
func (f *TwoFactorForm) Resend(ctx context.Context) Alert {
	if f.sender == nil {
		return dangerAlert(form.GenericErrorMessage)
	}
	f.action.Start()
	err := f.sender.Send(ctx, f.resend, resendRequest{UserID: f.ctl.Value().UserID}, nil)
	f.action.Done()
	if err != nil {
		return dangerAlert(form.Message(err))
	}
	return successAlert(TokenResentMessage)
}
