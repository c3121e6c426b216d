package internal

import (
	"context"
	"fmt"
	"strconv"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/Alturino/checkout/internal/config"
	"github.com/Alturino/checkout/internal/errors"
	"github.com/Alturino/checkout/internal/log"
	"github.com/Alturino/checkout/internal/otel"
)

func VerifyToken(c context.Context, token string, cfg config.Auth) (*jwt.Token, error) {
	c, span := otel.Tracer.Start(c, "VerifyToken")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "VerifyToken").
		Str(log.KeyProcess, "parsing claims").
		Logger()

	logger.Trace().Msg("parsing claims")
	jwtToken, err := jwt.ParseWithClaims(token,
		&jwt.RegisteredClaims{},
		func(t *jwt.Token) (interface{}, error) {
			return []byte(cfg.SecretKey), nil
		},
		jwt.WithAudience(cfg.Audience),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithIssuer(cfg.Issuer),
	)
	if err != nil {
		err = fmt.Errorf("failed parsing claims with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Trace().Msg("parsed claims")

	if !jwtToken.Valid {
		err = fmt.Errorf("failed validating token with error=%w", errors.ErrTokenInvalid)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, errors.ErrTokenInvalid
	}
	logger.Trace().Msg("validated token")

	return jwtToken, nil
}

type jwtTokenKey struct{}

func AttachJwtToken(c context.Context, token *jwt.Token) context.Context {
	return context.WithValue(c, jwtTokenKey{}, token)
}

func JwtTokenFromContext(c context.Context) (*jwt.Token, bool) {
	token, ok := c.Value(jwtTokenKey{}).(*jwt.Token)
	return token, ok && token != nil
}

// UserIdFromJwtToken resolves the current user from the subject of the token
// attached by the auth middleware.
func UserIdFromJwtToken(c context.Context) (int64, error) {
	c, span := otel.Tracer.Start(c, "UserIdFromJwtToken")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "UserIdFromJwtToken").
		Str(log.KeyProcess, "getting userId from jwtToken").
		Logger()

	token, ok := JwtTokenFromContext(c)
	if !ok {
		err := fmt.Errorf("failed getting jwtToken from context with error=%w", errors.ErrEmptyAuth)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return 0, errors.ErrEmptyAuth
	}

	subject, err := token.Claims.GetSubject()
	if err != nil {
		err = fmt.Errorf("failed getting subject from jwt with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return 0, err
	}
	if subject == "" {
		otel.RecordError(errors.ErrEmptySubject, span)
		logger.Error().Err(errors.ErrEmptySubject).Msg(errors.ErrEmptySubject.Error())
		return 0, errors.ErrEmptySubject
	}

	userID, err := strconv.ParseInt(subject, 10, 64)
	if err != nil {
		err = fmt.Errorf("failed parsing subject=%s as userId with error=%w", subject, err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return 0, err
	}
	logger.Trace().Int64(log.KeyUserID, userID).Msg("got userId from jwtToken")

	return userID, nil
}
