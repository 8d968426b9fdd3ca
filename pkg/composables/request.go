package composables

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/lemu/seamless-sea-sub000/pkg/constants"
)

var (
	ErrNoUser         = errors.New("no user id in context")
	ErrNoOrganization = errors.New("no organization id in context")
)

func WithUserID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, constants.UserIDKey, id)
}

func UseUserID(ctx context.Context) (uuid.UUID, error) {
	id, ok := ctx.Value(constants.UserIDKey).(uuid.UUID)
	if !ok {
		return uuid.Nil, ErrNoUser
	}
	return id, nil
}

func WithOrganizationID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, constants.OrganizationIDKey, id)
}

func UseOrganizationID(ctx context.Context) (uuid.UUID, error) {
	id, ok := ctx.Value(constants.OrganizationIDKey).(uuid.UUID)
	if !ok {
		return uuid.Nil, ErrNoOrganization
	}
	return id, nil
}

// UseLogger returns the request-scoped fields logger, falling back to the
// standard logger so callers never get nil.
func UseLogger(ctx context.Context) logrus.FieldLogger {
	if l, ok := ctx.Value(constants.LoggerKey).(logrus.FieldLogger); ok {
		return l
	}
	return logrus.StandardLogger()
}
