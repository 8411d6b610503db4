package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"askgpt/internal/model"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(user *model.User) error {
	if err := r.db.Create(user).Error; err != nil {
		return fmt.Errorf("create user failed: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByUsername(username string) (*model.User, error) {
	var user model.User
	if err := r.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query user by username failed: %w", err)
	}
	return &user, nil
}

func (r *UserRepository) GetByEmail(email string) (*model.User, error) {
	var user model.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query user by email failed: %w", err)
	}
	return &user, nil
}

func (r *UserRepository) GetByID(id uint) (*model.User, error) {
	var user model.User
	if err := r.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query user by id failed: %w", err)
	}
	return &user, nil
}

// DeductQueryCredits atomically takes amount credits from the user's balance.
// The WHERE guard keeps the balance from going negative under concurrent
// deductions; it reports whether a row was actually updated.
func (r *UserRepository) DeductQueryCredits(userID uint, amount int) (bool, error) {
	result := r.db.Model(&model.User{}).
		Where("id = ? AND query_credits >= ?", userID, amount).
		UpdateColumn("query_credits", gorm.Expr("query_credits - ?", amount))
	if result.Error != nil {
		return false, fmt.Errorf("deduct query credits failed: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}
