package user

import (
	"context"
	"errors"

	log "github.com/sirupsen/logrus"
)

type contextKey string

const AccountKey contextKey = "account"

var ErrNoAccount = errors.New("account not found in context")

// CurrentId retrieves the authenticated account's internal ID from the context.
// Returns ErrNoAccount if the request was not authenticated.
func CurrentId(ctx context.Context) (int, error) {
	account, ok := ctx.Value(AccountKey).(Account)
	if !ok {
		log.Trace("account not found in context")
		return 0, ErrNoAccount
	}
	return account.Id, nil
}

func CurrentAccount(ctx context.Context) (Account, error) {
	account, ok := ctx.Value(AccountKey).(Account)
	if !ok {
		log.Trace("account not found in context")
		return Account{}, ErrNoAccount
	}
	return account, nil
}

func WithAccount(ctx context.Context, account Account) context.Context {
	return context.WithValue(ctx, AccountKey, account)
}
