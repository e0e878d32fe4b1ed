package pages

import (
	"context"
	"strings"

	"github.com/PabloPavan/sellerdesk/internal/apperrors"
	"github.com/PabloPavan/sellerdesk/internal/blocklist"
	"github.com/PabloPavan/sellerdesk/internal/form"
	"github.com/PabloPavan/sellerdesk/internal/routes"
)

const MissingPingURLMessage = "Please provide a URL to send a test ping to."

type AdvancedValues struct {
	BlockedCustomerEmails string `json:"blocked_customer_emails" yaml:"blocked_customer_emails"`
	CustomDomain          string `json:"custom_domain" yaml:"custom_domain"`
	NotificationEndpoint  string `json:"notification_endpoint" yaml:"notification_endpoint"`
}

func (v AdvancedValues) Clone() AdvancedValues { return v }

// VerificationStatus is the result of the last custom domain check.
type VerificationStatus struct {
	Success bool   `json:"success" yaml:"success"`
	Message string `json:"message" yaml:"message"`
}

// AdvancedPageData is served by the advanced settings endpoint.
type AdvancedPageData struct {
	Settings                 AdvancedValues      `json:"settings" yaml:"settings"`
	DomainVerificationStatus *VerificationStatus `json:"domain_verification_status" yaml:"domain_verification_status"`
}

type advancedUpdate struct {
	User AdvancedValues `json:"user" yaml:"user"`
}

type pingRequest struct {
	URL string `json:"url" yaml:"url"`
}

// PingResponse is either {success:true,message} or
// {success:false,error_message}.
type PingResponse struct {
	Success      bool   `json:"success" yaml:"success"`
	Message      string `json:"message,omitempty" yaml:"message,omitempty"`
	ErrorMessage string `json:"error_message,omitempty" yaml:"error_message,omitempty"`
}

type AdvancedSettings struct {
	ctl    *form.Controller[AdvancedValues]
	status *VerificationStatus
	ping   routes.Endpoint
	sender form.Sender
	action form.Action
}

func NewAdvancedSettings(data AdvancedPageData, resolver routes.Resolver, sender form.Sender) (*AdvancedSettings, error) {
	ep, err := resolve(resolver, routes.SettingsAdvanced)
	if err != nil {
		return nil, err
	}
	ping, err := resolve(resolver, routes.TestPings)
	if err != nil {
		return nil, err
	}
	ctl := form.NewController("settings_advanced", data.Settings, ep, sender)
	ctl.Transform(func(v AdvancedValues) any { return advancedUpdate{User: v} })
	return &AdvancedSettings{
		ctl:    ctl,
		status: data.DomainVerificationStatus,
		ping:   ping,
		sender: sender,
	}, nil
}

func (a *AdvancedSettings) Values() AdvancedValues { return a.ctl.Value() }

func (a *AdvancedSettings) State() form.SaveState { return a.ctl.State() }

func (a *AdvancedSettings) VerificationStatus() *VerificationStatus { return a.status }

func (a *AdvancedSettings) SetBlockedEmails(text string) {
	a.ctl.Update(func(v AdvancedValues) AdvancedValues {
		v.BlockedCustomerEmails = text
		return v
	})
}

// SanitizeBlockedEmails normalizes the block list in place, as done when the
// field loses focus. An empty list is left alone.
func (a *AdvancedSettings) SanitizeBlockedEmails() {
	sanitized, ok := blocklist.Sanitize(a.ctl.Value().BlockedCustomerEmails)
	if !ok {
		return
	}
	a.SetBlockedEmails(sanitized)
}

func (a *AdvancedSettings) SetCustomDomain(domain string) {
	a.ctl.Update(func(v AdvancedValues) AdvancedValues {
		v.CustomDomain = domain
		return v
	})
}

func (a *AdvancedSettings) SetPingEndpoint(endpoint string) {
	a.ctl.Update(func(v AdvancedValues) AdvancedValues {
		v.NotificationEndpoint = endpoint
		return v
	})
}

func (a *AdvancedSettings) PingState() form.SaveState { return a.action.State() }

func (a *AdvancedSettings) PingButtonLabel() string {
	return a.action.State().Label("Send test ping to URL", "Sending test ping...")
}

// SendTestPing asks the server to post a sample sale to the configured
// endpoint.
func (a *AdvancedSettings) SendTestPing(ctx context.Context) Alert {
	endpoint := strings.TrimSpace(a.ctl.Value().NotificationEndpoint)
	if endpoint == "" {
		return dangerAlert(MissingPingURLMessage)
	}
	if a.sender == nil {
		return dangerAlert(form.GenericErrorMessage)
	}

	a.action.Start()
	var resp PingResponse
	err := a.sender.Send(ctx, a.ping, pingRequest{URL: endpoint}, &resp)
	if err == nil && !resp.Success {
		err = apperrors.New(apperrors.KindInvalidInput, resp.ErrorMessage)
	}
	if err != nil {
		return dangerAlert(a.action.Fail(err))
	}
	a.action.Done()
	return successAlert(resp.Message)
}

func (a *AdvancedSettings) Save(ctx context.Context) error {
	var saved *AdvancedPageData
	if err := a.ctl.Submit(ctx, form.WithResponse(&saved)); err != nil {
		return err
	}
	if saved == nil {
		return nil
	}
	a.ctl.Reset(saved.Settings)
	a.status = saved.DomainVerificationStatus
	return nil
}
