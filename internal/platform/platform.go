package platform

import (
	"context"

	"social-publisher-platform/models"
)

// ValidationResult is the uniform outcome of a credential check. Adapters
// never return a Go error across this boundary; transport and vendor
// failures are folded into Error.
type ValidationResult struct {
	Success bool                   `json:"success"`
	Profile map[string]interface{} `json:"profile,omitempty"`
	Error   string                 `json:"error,omitempty"`
}

// PublishResult is the uniform outcome of a publish attempt.
type PublishResult struct {
	Success bool   `json:"success"`
	PostID  string `json:"post_id,omitempty"`
	Error   string `json:"error,omitempty"`
}

// PublishRequest carries the content to push to a platform.
type PublishRequest struct {
	Content  string
	ImageURL string
}

// Validator validates stored credentials against the vendor API.
type Validator interface {
	Name() string
	ValidateCredentials(ctx context.Context, creds models.Credential) ValidationResult
}

// Adapter is a publishing platform. Publish must validate credentials first
// and short-circuit with the validation error when that fails.
type Adapter interface {
	Validator
	Publish(ctx context.Context, req PublishRequest, creds models.Credential) PublishResult
}

var displayNames = map[string]string{
	models.PlatformFacebook:    "Facebook",
	models.PlatformInstagram:   "Instagram",
	models.PlatformLinkedIn:    "LinkedIn",
	models.PlatformFacebookAds: "Facebook Ads",
}

// DisplayName returns the user-facing name for a platform identifier.
func DisplayName(name string) string {
	if dn, ok := displayNames[name]; ok {
		return dn
	}
	return name
}

// Registry maps platform identifiers to their adapters. New platforms
// register here; callers look adapters up instead of switching on names.
type Registry struct {
	validators map[string]Validator
	adapters   map[string]Adapter
}

func NewRegistry() *Registry {
	return &Registry{
		validators: make(map[string]Validator),
		adapters:   make(map[string]Adapter),
	}
}

// Register adds a validator; validators that are full adapters are also
// available for publishing.
func (r *Registry) Register(v Validator) {
	r.validators[v.Name()] = v
	if a, ok := v.(Adapter); ok {
		r.adapters[v.Name()] = a
	}
}

func (r *Registry) Validator(name string) (Validator, bool) {
	v, ok := r.validators[name]
	return v, ok
}

func (r *Registry) Adapter(name string) (Adapter, bool) {
	a, ok := r.adapters[name]
	return a, ok
}
