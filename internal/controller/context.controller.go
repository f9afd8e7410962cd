package controller

import (
	"context"

	"github.com/partywave/server/internal/domain"
)

type contextKey int

const (
	clientCtxKey contextKey = iota
)

func (c controller) getClientFromCtx(ctx context.Context) *domain.Client {
	client, ok := ctx.Value(clientCtxKey).(*domain.Client)
	if !ok {
		return nil
	}

	return client
}
