package service

import (
	"context"
	"errors"
	"time"

	"inkwell/internal/models"
	"inkwell/internal/repository"
	"inkwell/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

// IdentityService manages accounts and credentials.
type IdentityService struct {
	users      repository.UserRepository
	tx         repository.Transactor
	bcryptCost int
}

type RegisterInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UpdateAccountInput changes only the fields that are set.
type UpdateAccountInput struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

func NewIdentityService(users repository.UserRepository, tx repository.Transactor, bcryptCost int) *IdentityService {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &IdentityService{users: users, tx: tx, bcryptCost: bcryptCost}
}

func (s *IdentityService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	if err := validation.ValidateName(in.Name); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	email := validation.NormalizeEmail(in.Email)
	if err := validation.ValidateEmail(email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, models.NewWeakPasswordError()
	}

	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewConflictError(models.CodeDuplicateEmail, "This email is already in use by another user")
	}

	hash, err := s.hash(in.Password)
	if err != nil {
		return nil, err
	}
	user := &models.User{Name: in.Name, Email: email, Password: hash}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate never says which of email or password was wrong.
func (s *IdentityService) Authenticate(ctx context.Context, in LoginInput) (*models.User, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	user, err := s.users.GetByEmail(ctx, validation.NormalizeEmail(in.Email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewInvalidCredentialsError()
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, models.NewInvalidCredentialsError()
		}
		return nil, models.NewInternalError(err)
	}
	return user, nil
}

func (s *IdentityService) UpdateAccount(ctx context.Context, actorID uint, in UpdateAccountInput) (*models.User, error) {
	return Mutate(ctx, s.tx, actorID, Mutation[*models.User]{
		Resource: "user",
		Action:   "update",
		ID:       actorID,
		Lookup: func(ctx context.Context) (*models.User, error) {
			return s.users.GetByID(ctx, actorID)
		},
		Apply: func(ctx context.Context, user *models.User) error {
			if !present(in.Name) && !present(in.Email) && !present(in.Password) {
				return &models.AppError{
					Code:    models.CodeMissingField,
					Message: "The 'name', 'email' or 'password' field is required",
				}
			}
			if present(in.Name) {
				if err := validation.ValidateName(*in.Name); err != nil {
					return models.NewValidationError(err.Error())
				}
				user.Name = *in.Name
			}
			if present(in.Email) {
				email := validation.NormalizeEmail(*in.Email)
				if err := validation.ValidateEmail(email); err != nil {
					return models.NewValidationError(err.Error())
				}
				if email != user.Email {
					other, err := s.users.GetByEmail(ctx, email)
					if err != nil {
						return err
					}
					if other != nil {
						return models.NewConflictError(models.CodeDuplicateEmail, "This email is already in use by another user")
					}
				}
				user.Email = email
			}
			if present(in.Password) {
				if err := validation.ValidatePassword(*in.Password); err != nil {
					return models.NewWeakPasswordError()
				}
				hash, err := s.hash(*in.Password)
				if err != nil {
					return err
				}
				user.Password = hash
			}
			user.UpdatedAt = time.Now()
			return s.users.Update(ctx, user)
		},
	})
}

// DeleteAccount removes the user with everything they authored and every
// follow edge touching them.
func (s *IdentityService) DeleteAccount(ctx context.Context, actorID uint) error {
	_, err := Mutate(ctx, s.tx, actorID, Mutation[*models.User]{
		Resource: "user",
		Action:   "delete",
		ID:       actorID,
		Lookup: func(ctx context.Context) (*models.User, error) {
			return s.users.GetByID(ctx, actorID)
		},
		Apply: func(ctx context.Context, user *models.User) error {
			return s.users.Delete(ctx, user.ID)
		},
	})
	return err
}

func (s *IdentityService) hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", models.NewValidationError("password must not exceed 72 bytes")
	}
	if err != nil {
		return "", models.NewInternalError(err)
	}
	return string(hash), nil
}

// present reports whether an optional field was sent with a value.
func present(v *string) bool {
	return v != nil && *v != ""
}
