package cmd

import (
	"golang.org/x/oauth2"

	"qbo-mcp/internal/config"
	"qbo-mcp/internal/credential"
)

// buildOAuth constructs the Intuit OAuth client configuration.
func buildOAuth(cfg *config.Config) *oauth2.Config {
	return credential.OAuthConfig(cfg.ClientID, cfg.ClientSecret, cfg.RedirectURI)
}

// buildAuthorizer constructs the interactive browser authorizer.
func buildAuthorizer(cfg *config.Config) (*credential.Authorizer, error) {
	port, err := cfg.CallbackPort()
	if err != nil {
		return nil, err
	}

	return credential.NewAuthorizer(credential.AuthorizerConfig{
		OAuth:        buildOAuth(cfg),
		CallbackPort: port,
		CallbackPath: cfg.CallbackPath(),
		Timeout:      cfg.AuthTimeout,
		Environment:  cfg.Environment,
		CompanyID:    cfg.CompanyID,
	}), nil
}

// buildGate constructs the auth gate with its store and authorizer.
func buildGate(cfg *config.Config) (*credential.Gate, error) {
	authorizer, err := buildAuthorizer(cfg)
	if err != nil {
		return nil, err
	}

	return credential.NewGate(credential.GateConfig{
		Store:       credential.NewStore(cfg.CredentialFile),
		OAuth:       buildOAuth(cfg),
		Authorizer:  authorizer,
		Environment: cfg.Environment,
		CompanyID:   cfg.CompanyID,
	}), nil
}
