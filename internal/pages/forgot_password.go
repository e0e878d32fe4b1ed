package pages

import (
	"context"

	"github.com/PabloPavan/sellerdesk/internal/form"
	"github.com/PabloPavan/sellerdesk/internal/routes"
)

const PasswordResetSentMessage = "Password reset sent! Please make sure to check your spam folder."

type ForgotPasswordValues struct {
	User struct {
		Email string `json:"email"`
	} `json:"user"`
}

func (v ForgotPasswordValues) Clone() ForgotPasswordValues { return v }

type ForgotPasswordForm struct {
	ctl *form.Controller[ForgotPasswordValues]
}

func NewForgotPasswordForm(resolver routes.Resolver, sender form.Sender) (*ForgotPasswordForm, error) {
	ep, err := resolve(resolver, routes.ForgotPassword)
	if err != nil {
		return nil, err
	}
	return &ForgotPasswordForm{
		ctl: form.NewController("forgot_password", ForgotPasswordValues{}, ep, sender),
	}, nil
}

func (f *ForgotPasswordForm) SetEmail(email string) {
	f.ctl.Update(func(v ForgotPasswordValues) ForgotPasswordValues {
		v.User.Email = email
		return v
	})
}

func (f *ForgotPasswordForm) Values() ForgotPasswordValues { return f.ctl.Value() }

func (f *ForgotPasswordForm) State() form.SaveState { return f.ctl.State() }

func (f *ForgotPasswordForm) ButtonLabel() string {
	return f.State().Label("Send", "Sending...")
}

// Submit requests reset instructions. On success the form is back in its
// initial state and the returned alert confirms the email was sent.
func (f *ForgotPasswordForm) Submit(ctx context.Context) (Alert, error) {
	if err := f.ctl.Submit(ctx); err != nil {
		return Alert{}, err
	}
	return successAlert(PasswordResetSentMessage), nil
}
