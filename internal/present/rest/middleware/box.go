package middleware

import (
	"context"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/totegamma/artistdb/internal/domain"
)

var tracer = otel.Tracer("boxtoken")

// TokenVerifier checks a box token against an artwork id.
type TokenVerifier interface {
	Verify(ctx context.Context, token string, artworkID int64) error
}

type BoxTokenMiddleware struct {
	tokens TokenVerifier
}

func NewBoxTokenMiddleware(tokens TokenVerifier) *BoxTokenMiddleware {
	return &BoxTokenMiddleware{
		tokens: tokens,
	}
}

// IdentifyCapability verifies the ?token= of a box request against the :id
// path parameter. On success the artwork id is stored under
// domain.BoxCapabilityCtxKey, otherwise the verification error goes under
// domain.BoxTokenErrorCtxKey. The request always continues; handlers decide.
func (m *BoxTokenMiddleware) IdentifyCapability(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, span := tracer.Start(c.Request().Context(), "BoxToken.Middleware.IdentifyCapability")
		defer span.End()

		token := c.QueryParam(domain.BoxTokenQueryParam)
		if token == "" {
			token = c.FormValue(domain.BoxTokenQueryParam)
		}
		if token == "" {
			goto skip
		}

		{
			artworkID, err := strconv.ParseInt(c.Param("id"), 10, 64)
			if err != nil {
				span.RecordError(errors.Wrap(err, "invalid artwork id"))
				goto skip
			}

			err = m.tokens.Verify(ctx, token, artworkID)
			if err != nil {
				span.RecordError(errors.Wrap(err, "BoxTokenMiddleware.IdentifyCapability: verify failed"))
				ctx = context.WithValue(ctx, domain.BoxTokenErrorCtxKey, err)
				goto skip
			}

			ctx = context.WithValue(ctx, domain.BoxCapabilityCtxKey, artworkID)
			span.SetAttributes(attribute.Int64("artworkID", artworkID))
		}

	skip:
		c.SetRequest(c.Request().WithContext(ctx))
		return next(c)
	}
}
