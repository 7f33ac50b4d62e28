package issue

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	keyringService = "scribe"
	keyringUser    = "github-token"
	EnvToken       = "GITHUB_TOKEN"
)

var (
	ErrNoToken            = errors.New("no GitHub token: pass --token, set GITHUB_TOKEN or run `scribe issue login`")
	ErrKeyringUnavailable = errors.New("system keyring unavailable")
)

type TokenSource string

const (
	TokenFromFlag    TokenSource = "flag"
	TokenFromEnv     TokenSource = "env"
	TokenFromKeyring TokenSource = "keyring"
)

type Keyring interface {
	Get(service, user string) (string, error)
	Set(service, user, secret string) error
}

type systemKeyring struct{}

func (systemKeyring) Get(service, user string) (string, error) {
	return keyring.Get(service, user)
}

func (systemKeyring) Set(service, user, secret string) error {
	return keyring.Set(service, user, secret)
}

func SystemKeyring() Keyring {
	return systemKeyring{}
}

type TokenResolver struct {
	Getenv  func(string) string
	Keyring Keyring
}

func NewTokenResolver() *TokenResolver {
	return &TokenResolver{Getenv: os.Getenv, Keyring: SystemKeyring()}
}

// Resolve picks the first token from flag, environment, then keyring.
func (r *TokenResolver) Resolve(flag string) (string, TokenSource, error) {
	if strings.TrimSpace(flag) != "" {
		return flag, TokenFromFlag, nil
	}
	if r.Getenv != nil {
		if env := r.Getenv(EnvToken); strings.TrimSpace(env) != "" {
			return env, TokenFromEnv, nil
		}
	}
	if r.Keyring == nil {
		return "", "", ErrNoToken
	}
	token, err := r.Keyring.Get(keyringService, keyringUser)
	switch {
	case err == nil && strings.TrimSpace(token) != "":
		return token, TokenFromKeyring, nil
	case err == nil, errors.Is(err, keyring.ErrNotFound):
		return "", "", ErrNoToken
	default:
		return "", "", fmt.Errorf("%w (%w: %v)", ErrNoToken, ErrKeyringUnavailable, err)
	}
}

// Save stores token in the keyring for later runs.
func (r *TokenResolver) Save(token string) error {
	if strings.TrimSpace(token) == "" {
		return errors.New("token is empty")
	}
	if r.Keyring == nil {
		return ErrKeyringUnavailable
	}
	if err := r.Keyring.Set(keyringService, keyringUser, token); err != nil {
		return fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return nil
}
