package impl

import (
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"

	"github.com/pkg/errors"
)

// repoErrorMapping pairs a repository sentinel with the domain error callers see.
var repoErrorMapping = []struct {
	repoErr   error
	domainErr *domainerrors.BaseError
}{
	{repository.ErrUserNotFound, domainerrors.ErrUserNotFound},
	{repository.ErrAuthNotFound, domainerrors.ErrUserNotFound},
	{repository.ErrRefreshTokenNotFound, domainerrors.ErrRefreshTokenInvalid},
	{repository.ErrRefreshTokenExpired, domainerrors.ErrRefreshTokenInvalid},
	{repository.ErrOTPRequestNotFound, domainerrors.ErrOTPNotFound},
	{repository.ErrCategoryNotFound, domainerrors.ErrCategoryNotFound},
	{repository.ErrSubCategoryNotFound, domainerrors.ErrSubCategoryNotFound},
	{repository.ErrCategoryInUse, domainerrors.ErrCategoryInUse},
	{repository.ErrProductNotFound, domainerrors.ErrProductNotFound},
	{repository.ErrInsufficientStock, domainerrors.ErrInsufficientInventory},
	{repository.ErrCartNotFound, domainerrors.ErrCartNotFound},
	{repository.ErrCartItemNotFound, domainerrors.ErrCartItemNotFound},
	{repository.ErrOrderNotFound, domainerrors.ErrOrderNotFound},
	{repository.ErrDuplicateTransaction, domainerrors.ErrOrderAlreadyPlaced},
}

// wrapRepoError translates repository sentinels into domain errors and wraps msg around the result.
func wrapRepoError(err error, msg string) error {
	if err == nil {
		return nil
	}

	var appErr domainerrors.AppError
	if errors.As(err, &appErr) {
		return errors.Wrap(err, msg)
	}

	for _, m := range repoErrorMapping {
		if errors.Is(err, m.repoErr) {
			return errors.Wrap(m.domainErr, msg)
		}
	}

	return errors.Wrap(err, msg)
}
