package gitrepo

import (
	"context"
	"fmt"
	"net/url"
	"os"

	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/go-git/go-git/v5/plumbing/transport/ssh"
	gossh "golang.org/x/crypto/ssh"

	"configserver/pkg/config"
	"configserver/pkg/security/secrets"
)

// CredentialsProvider builds a git transport.AuthMethod from the
// repository configuration. Explicit username/password beat credentials
// embedded in the URI; SSH URIs route to key-based auth; a host-only
// URI with nothing configured yields an anonymous handle. Password,
// Passphrase, and Username values may reference a secret with
// ${secret:name} syntax, resolved through secrets at auth time rather
// than when the config is loaded.
type CredentialsProvider struct {
	cfg     *config.GitConfig
	secrets *secrets.Manager
}

// NewCredentialsProvider constructs a provider from the git section of
// the configuration. mgr may be nil, in which case ${secret:...}
// references are left unresolved and used verbatim (and will almost
// always fail upstream authentication).
func NewCredentialsProvider(cfg *config.GitConfig, mgr *secrets.Manager) *CredentialsProvider {
	return &CredentialsProvider{cfg: cfg, secrets: mgr}
}

// resolve expands a ${secret:name} reference in value through the
// configured secrets manager. Values without a reference, and calls
// with no manager configured, pass through unchanged.
func (p *CredentialsProvider) resolve(value string) (string, error) {
	if p.secrets == nil || value == "" {
		return value, nil
	}
	return p.secrets.ResolveReferences(context.Background(), value)
}

// GetAuth returns the auth method to present to the remote, or nil if
// the repository is anonymous.
func (p *CredentialsProvider) GetAuth() (transport.AuthMethod, error) {
	u, err := url.Parse(p.cfg.URI)
	if err != nil {
		return nil, fmt.Errorf("parsing git uri: %w", err)
	}

	switch u.Scheme {
	case "ssh":
		return p.sshAuth()
	case "http", "https":
		return p.httpAuth(u)
	default:
		// file: URIs carry no transport auth.
		return nil, nil
	}
}

func (p *CredentialsProvider) httpAuth(u *url.URL) (transport.AuthMethod, error) {
	username, err := p.resolve(p.cfg.Username)
	if err != nil {
		return nil, fmt.Errorf("resolving git username secret: %w", err)
	}
	password, err := p.resolve(p.cfg.Password)
	if err != nil {
		return nil, fmt.Errorf("resolving git password secret: %w", err)
	}
	if username == "" && password == "" && u.User != nil {
		username = u.User.Username()
		password, _ = u.User.Password()
	}
	if username == "" && password == "" {
		return nil, nil
	}
	return &http.BasicAuth{Username: username, Password: password}, nil
}

func (p *CredentialsProvider) sshAuth() (transport.AuthMethod, error) {
	if p.cfg.SSHKeyPath == "" {
		return nil, nil
	}
	if _, err := os.Stat(p.cfg.SSHKeyPath); err != nil {
		return nil, fmt.Errorf("accessing ssh key file: %w", err)
	}
	passphrase, err := p.resolve(p.cfg.Passphrase)
	if err != nil {
		return nil, fmt.Errorf("resolving git passphrase secret: %w", err)
	}
	auth, err := ssh.NewPublicKeysFromFile("git", p.cfg.SSHKeyPath, passphrase)
	if err != nil {
		return nil, fmt.Errorf("loading ssh key: %w", err)
	}
	if p.cfg.SkipSslValidation {
		auth.HostKeyCallback = gossh.InsecureIgnoreHostKey()
	}
	return auth, nil
}
