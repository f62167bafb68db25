// Package authservice issues API access tokens to the configured client.
package authservice

import (
	"context"
	"errors"
	"time"

	"github.com/go-petr/pet-ledger/pkg/configpkg"
	"github.com/go-petr/pet-ledger/pkg/errorspkg"
	"github.com/go-petr/pet-ledger/pkg/passpkg"
	"github.com/go-petr/pet-ledger/pkg/tokenpkg"
	"github.com/rs/zerolog"
)

// ErrInvalidCredentials indicates an unknown client or a wrong secret.
var ErrInvalidCredentials = errors.New("invalid client credentials")

// Token is an issued access token.
type Token struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"access_token_expires_at"`
}

// Service facilitates token issuing.
type Service struct {
	TokenMaker tokenpkg.Maker

	clientID   string
	secretHash string
	duration   time.Duration
}

// New returns auth service using the token type and key from config.
func New(config configpkg.Config) (*Service, error) {
	maker, err := tokenpkg.NewMaker(config.TokenType, config.TokenSymmetricKey)
	if err != nil {
		return nil, err
	}

	return &Service{
		TokenMaker: maker,
		clientID:   config.APIClientID,
		secretHash: config.APIClientSecretHash,
		duration:   config.AccessTokenDuration,
	}, nil
}

// Login checks the client credentials and returns a new access token.
func (s *Service) Login(ctx context.Context, clientID, secret string) (Token, error) {
	l := zerolog.Ctx(ctx)

	if clientID != s.clientID || s.secretHash == "" {
		return Token{}, ErrInvalidCredentials
	}

	if err := passpkg.Check(secret, s.secretHash); err != nil {
		l.Info().Str("client_id", clientID).Msg("wrong client secret")
		return Token{}, ErrInvalidCredentials
	}

	token, payload, err := s.TokenMaker.CreateToken(clientID, s.duration)
	if err != nil {
		l.Error().Err(err).Send()
		return Token{}, errorspkg.ErrInternal
	}

	return Token{AccessToken: token, ExpiresAt: payload.ExpiredAt}, nil
}
