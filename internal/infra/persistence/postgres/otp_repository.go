package postgres

import (
	"context"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type otpRepository struct {
	db *gorm.DB
}

// NewOTPRepository is the constructor for otpRepository.
func NewOTPRepository(db *gorm.DB) repository.OTPRepository {
	return &otpRepository{db: db}
}

// Upsert inserts the request or, when one is already pending for (user_id, purpose),
// overwrites its code, payload and creation time in the same statement.
func (repo *otpRepository) Upsert(ctx context.Context, req *entity.OTPRequest) error {
	reqM := fromOTPRequestDomain(req)

	err := repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "purpose"}},
			DoUpdates: clause.AssignmentColumns([]string{"code", "payload", "created_at"}),
		}).
		Create(reqM).Error
	if err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrUserNotFound.WrapMessage("invalid user reference")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to upsert otp request")
	}

	req.ID = reqM.ID

	return nil
}

// FindForUpdate loads the pending request with SELECT ... FOR UPDATE.
func (repo *otpRepository) FindForUpdate(ctx context.Context, userID uuid.UUID, purpose entity.OTPPurpose) (*entity.OTPRequest, error) {
	var reqM model.OTPRequestModel
	err := repo.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).
		Where("user_id = ? AND purpose = ?", userID, string(purpose)).
		First(&reqM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrOTPRequestNotFound
		}

		return nil, errors.Wrap(err, "failed to find otp request")
	}

	return toOTPRequestDomain(&reqM), nil
}

func (repo *otpRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.OTPRequestModel{})
	if result.Error != nil {
		return errors.WithStack(result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrOTPRequestNotFound
	}

	return nil
}

func toOTPRequestDomain(data *model.OTPRequestModel) *entity.OTPRequest {
	if data == nil {
		return nil
	}

	payload := data.Payload.Data()

	return &entity.OTPRequest{
		ID:      data.ID,
		UserID:  data.UserID,
		Purpose: entity.OTPPurpose(data.Purpose),
		Code:    data.Code,
		Payload: entity.OTPPayload{
			PasswordHash: payload.PasswordHash,
			NewEmail:     payload.NewEmail,
			FirstName:    payload.FirstName,
			LastName:     payload.LastName,
		},
		CreatedAt: data.CreatedAt,
	}
}

func fromOTPRequestDomain(data *entity.OTPRequest) *model.OTPRequestModel {
	if data == nil {
		return nil
	}

	return &model.OTPRequestModel{
		ID:      data.ID,
		UserID:  data.UserID,
		Purpose: string(data.Purpose),
		Code:    data.Code,
		Payload: datatypes.NewJSONType(model.OTPPayloadColumn{
			PasswordHash: data.Payload.PasswordHash,
			NewEmail:     data.Payload.NewEmail,
			FirstName:    data.Payload.FirstName,
			LastName:     data.Payload.LastName,
		}),
		CreatedAt: data.CreatedAt,
	}
}
