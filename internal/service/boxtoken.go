package service

import (
	"context"
	"crypto/sha256"
	"io"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/crypto/hkdf"

	"github.com/totegamma/artistdb/internal/domain"
)

var tracer = otel.Tracer("service")

const boxTokenSalt = "box-token"

// BoxTokenService issues the capability tokens printed on box labels.
// A token names one artwork and is accepted until maxAge after issue.
type BoxTokenService struct {
	key    []byte
	maxAge time.Duration
	now    func() time.Time
}

func NewBoxTokenService(secret string, maxAge time.Duration) (*BoxTokenService, error) {
	if secret == "" {
		return nil, errors.New("box token secret is empty")
	}
	key := make([]byte, 32)
	r := hkdf.New(sha256.New, []byte(secret), []byte(boxTokenSalt), []byte("artistdb box label"))
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, errors.Wrap(err, "derive box token key")
	}
	return &BoxTokenService{key: key, maxAge: maxAge, now: time.Now}, nil
}

// WithClock replaces the time source.
func (s *BoxTokenService) WithClock(now func() time.Time) *BoxTokenService {
	s.now = now
	return s
}

func (s *BoxTokenService) Generate(ctx context.Context, artworkID int64) (string, error) {
	_, span := tracer.Start(ctx, "BoxToken.Service.Generate")
	defer span.End()

	claims := jwt.RegisteredClaims{
		Subject:  strconv.FormatInt(artworkID, 10),
		IssuedAt: jwt.NewNumericDate(s.now()),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		span.RecordError(err)
		return "", errors.Wrap(err, "sign box token")
	}
	return token, nil
}

// Verify returns nil, domain.ErrTokenExpired or domain.ErrInvalidToken.
func (s *BoxTokenService) Verify(ctx context.Context, token string, artworkID int64) error {
	_, span := tracer.Start(ctx, "BoxToken.Service.Verify")
	defer span.End()
	span.SetAttributes(attribute.Int64("artworkID", artworkID))

	if token == "" {
		return domain.ErrInvalidToken
	}

	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return s.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		span.RecordError(err)
		return domain.ErrInvalidToken
	}

	if claims.IssuedAt == nil {
		return domain.ErrInvalidToken
	}
	if claims.Subject != strconv.FormatInt(artworkID, 10) {
		span.RecordError(errors.New("artwork mismatch"))
		return domain.ErrInvalidToken
	}
	if s.maxAge > 0 && s.now().Sub(claims.IssuedAt.Time) > s.maxAge {
		return domain.ErrTokenExpired
	}
	return nil
}
