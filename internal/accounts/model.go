package accounts

import "time"

type Account struct {
	ID               string    `json:"id"`
	Email            string    `json:"email"`
	PasswordHash     string    `json:"-"`
	Role             Role      `json:"role"`
	TwoFactorEnabled bool      `json:"two_factor_enabled"`
	Country          *string   `json:"country"`
	Advanced         Advanced  `json:"advanced"`
	CreatedAt        time.Time `json:"created_at"`
}

// Advanced holds the seller's advanced settings as stored.
type Advanced struct {
	BlockedCustomerEmails string `json:"blocked_customer_emails"`
	CustomDomain          string `json:"custom_domain"`
	NotificationEndpoint  string `json:"notification_endpoint"`
}

type VerificationStatus struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// AdvancedPage is what the advanced settings endpoints answer with.
type AdvancedPage struct {
	Settings                 Advanced            `json:"settings"`
	DomainVerificationStatus *VerificationStatus `json:"domain_verification_status"`
}
