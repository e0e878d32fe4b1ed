package pages

import (
	"context"
	"errors"
	"net/url"

	"github.com/PabloPavan/sellerdesk/internal/apperrors"
	"github.com/PabloPavan/sellerdesk/internal/form"
	"github.com/PabloPavan/sellerdesk/internal/routes"
)

// ErrRecaptchaCancelled is returned by a Recaptcha when the user closes the
// challenge. The login form treats it as "nothing happened".
var ErrRecaptchaCancelled = errors.New("recaptcha cancelled")

type Recaptcha interface {
	Execute(ctx context.Context) (string, error)
}

type RecaptchaFunc func(ctx context.Context) (string, error)

func (f RecaptchaFunc) Execute(ctx context.Context) (string, error) { return f(ctx) }

type LoginUser struct {
	LoginIdentifier string `json:"login_identifier" yaml:"login_identifier"`
	Password        string `json:"password" yaml:"password"`
}

type LoginValues struct {
	User              LoginUser `json:"user" yaml:"user"`
	Next              *string   `json:"next" yaml:"next"`
	RecaptchaResponse *string   `json:"g-recaptcha-response" yaml:"g-recaptcha-response"`
}

func (v LoginValues) Clone() LoginValues {
	out := v
	out.Next = cloneString(v.Next)
	out.RecaptchaResponse = cloneString(v.RecaptchaResponse)
	return out
}

type LoginConfig struct {
	Email            string
	ApplicationName  string
	RecaptchaSiteKey string
	Next             string
	Brand            string
}

type LoginForm struct {
	ctl       *form.Controller[LoginValues]
	cfg       LoginConfig
	signup    routes.Endpoint
	recaptcha Recaptcha
}

func NewLoginForm(cfg LoginConfig, resolver routes.Resolver, sender form.Sender, recaptcha Recaptcha) (*LoginForm, error) {
	ep, err := resolve(resolver, routes.Login)
	if err != nil {
		return nil, err
	}
	signup, err := resolve(resolver, routes.Signup)
	if err != nil {
		return nil, err
	}
	if cfg.Brand == "" {
		cfg.Brand = "Sellerdesk"
	}

	initial := LoginValues{
		User: LoginUser{LoginIdentifier: cfg.Email},
		Next: optionalString(cfg.Next),
	}
	return &LoginForm{
		ctl:       form.NewController("login", initial, ep, sender),
		cfg:       cfg,
		signup:    signup,
		recaptcha: recaptcha,
	}, nil
}

func (f *LoginForm) Values() LoginValues { return f.ctl.Value() }

func (f *LoginForm) State() form.SaveState { return f.ctl.State() }

func (f *LoginForm) SetEmail(email string) {
	f.ctl.Update(func(v LoginValues) LoginValues {
		v.User.LoginIdentifier = email
		return v
	})
}

func (f *LoginForm) SetPassword(password string) {
	f.ctl.Update(func(v LoginValues) LoginValues {
		v.User.Password = password
		return v
	})
}

// Header is the page title; OAuth logins name the requesting application.
func (f *LoginForm) Header() string {
	if f.cfg.ApplicationName != "" {
		return "Connect " + f.cfg.ApplicationName + " to " + f.cfg.Brand
	}
	return "Log in"
}

func (f *LoginForm) ButtonLabel() string {
	return f.State().Label("Login", "Logging in...")
}

// SignupURL links to sign up, keeping next.
func (f *LoginForm) SignupURL() string {
	return f.signup.URL(url.Values{"next": {f.cfg.Next}})
}

// Submit runs the captcha, when configured, and posts the credentials.
// A cancelled captcha returns ErrRecaptchaCancelled and leaves the form in
// its initial state.
func (f *LoginForm) Submit(ctx context.Context) (RedirectResponse, error) {
	var captcha *string
	if f.cfg.RecaptchaSiteKey != "" {
		if f.recaptcha == nil {
			err := apperrors.New(apperrors.KindInternal, "")
			f.ctl.Fail(ctx, err)
			return RedirectResponse{}, err
		}
		token, err := f.recaptcha.Execute(ctx)
		if errors.Is(err, ErrRecaptchaCancelled) {
			f.ctl.ClearError()
			return RedirectResponse{}, err
		}
		if err != nil {
			f.ctl.Fail(ctx, err)
			return RedirectResponse{}, err
		}
		captcha = &token
	}

	f.ctl.Transform(func(v LoginValues) any {
		v.RecaptchaResponse = captcha
		return v
	})

	var resp RedirectResponse
	if err := f.ctl.Submit(ctx, form.WithResponse(&resp)); err != nil {
		return RedirectResponse{}, err
	}
	return resp, nil
}
