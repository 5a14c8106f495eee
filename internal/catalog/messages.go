package catalog

import (
	"context"
	"errors"

	"github.com/waabox/catalogdeck/internal/domain"
	"github.com/waabox/catalogdeck/internal/failure"
	"github.com/waabox/catalogdeck/internal/i18n"
	"github.com/waabox/catalogdeck/internal/intercept"
)

// Action is the user operation a failure belongs to.
type Action int

const (
	ActionLogin Action = iota
	ActionRegister
	ActionLoad
	ActionCreate
	ActionUpdate
	ActionDelete
)

var failedKeys = map[Action]i18n.Key{
	ActionRegister: i18n.RegisterFailed,
	ActionLoad:     i18n.ProductsLoadFailed,
	ActionCreate:   i18n.ProductCreateFailed,
	ActionUpdate:   i18n.ProductUpdateFailed,
	ActionDelete:   i18n.ProductDeleteFailed,
}

var validationKeys = map[string]i18n.Key{
	"username": i18n.ValidationUsernameRequired,
	"password": i18n.ValidationPasswordMin,
	"email":    i18n.ValidationEmailInvalid,
	"name":     i18n.ValidationNameMin,
	"price":    i18n.ValidationPriceMin,
	"quantity": i18n.ValidationQuantityMin,
}

// FailureMessage picks the notification a caller shows for err. It returns
// false when nothing should be shown: there was no failure, the caller
// canceled the request, or the interceptor already resolved it.
func FailureMessage(action Action, err error) (i18n.Key, bool) {
	if err == nil || intercept.IsHandled(err) || errors.Is(err, context.Canceled) {
		return "", false
	}

	var vErr *domain.ValidationError
	if errors.As(err, &vErr) {
		if key, ok := validationKeys[vErr.Field]; ok {
			return key, true
		}
	}
	if errors.Is(err, ErrMissingToken) {
		return i18n.ToastServerUnreachable, true
	}
	if errors.Is(err, domain.ErrProductNotFound) {
		return i18n.ProductNotFound, true
	}

	if action == ActionLogin {
		msg := err.Error()
		if failure.IsNetworkMessage(msg) {
			return i18n.ToastServerUnreachable, true
		}
		// Any other login failure reads as bad credentials, "Invalid
		// credentials" from the server included.
		return i18n.ToastInvalidCredentials, true
	}
	if key, ok := failedKeys[action]; ok {
		return key, true
	}
	return i18n.ProductsLoadFailed, true
}

// ValidationMessage returns the inline message for a local validation
// failure, and false when err is not one.
func ValidationMessage(err error) (i18n.Key, bool) {
	var vErr *domain.ValidationError
	if !errors.As(err, &vErr) {
		return "", false
	}
	key, ok := validationKeys[vErr.Field]
	return key, ok
}
