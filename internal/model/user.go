package model

import "time"

type User struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	Username           string    `gorm:"size:64;not null;uniqueIndex" json:"username"`
	Email              string    `gorm:"size:128;not null;uniqueIndex" json:"email"`
	PasswordHash       string    `gorm:"size:255;not null" json:"-"`
	PlanID             string    `gorm:"size:64" json:"plan_id"`
	SubscriptionActive bool      `gorm:"not null;default:false" json:"subscription_active"`
	QueryCredits       int       `gorm:"not null;default:0" json:"query_credits"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}
