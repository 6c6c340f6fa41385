package handlers

import (
	"context"
	"time"

	"github.com/futurelab/intuto-connect/internal/intuto"
	"github.com/futurelab/intuto-connect/internal/purchase"
	"github.com/futurelab/intuto-connect/internal/tokens"
	"github.com/futurelab/intuto-connect/model"
)

type OAuthClient interface {
	AuthorizationURL(ctx context.Context) (string, error)
	VerifyState(ctx context.Context, state string) error
	ExchangeCode(ctx context.Context, code string) (tokens.TokenRecord, error)
}

type TokenStore interface {
	Get(ctx context.Context) (tokens.TokenRecord, error)
	RefreshToken(ctx context.Context) (string, error)
	ClearAll(ctx context.Context) error
}

type CollectionsService interface {
	SyncToCache(ctx context.Context) bool
	Cached(ctx context.Context) ([]intuto.Collection, time.Time, error)
	Search(ctx context.Context, term string) ([]intuto.Collection, error)
	CountMessage(ctx context.Context) string
}

type MembersService interface {
	ListMembers(ctx context.Context) ([]intuto.MemberResult, error)
}

type PurchaseService interface {
	ProcessOrder(ctx context.Context, order purchase.Order) int
}

type ProductLinkRepo interface {
	Get(ctx context.Context, productID uint) (*model.ProductLink, error)
	Set(ctx context.Context, link *model.ProductLink) error
	Delete(ctx context.Context, productID uint) error
	List(ctx context.Context) ([]model.ProductLink, error)
}
