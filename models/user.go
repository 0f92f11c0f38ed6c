package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User carries the per-user storage accounting alongside identity fields.
// UsedStorage is a denormalized counter: mutations go through the storage
// service's increment/decrement and the reconciler is the source of truth
// for drift.
type User struct {
	ID                   primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email                string             `bson:"email" json:"email"`
	Password             string             `bson:"password" json:"-"`
	FirstName            string             `bson:"first_name" json:"first_name"`
	LastName             string             `bson:"last_name,omitempty" json:"last_name,omitempty"`
	Avatar               string             `bson:"avatar,omitempty" json:"avatar,omitempty"`
	StorageLimit         int64              `bson:"storage_limit" json:"storage_limit"`
	UsedStorage          int64              `bson:"used_storage" json:"used_storage"`
	ResetPasswordOTP     string             `bson:"reset_password_otp,omitempty" json:"-"`
	ResetPasswordExpires *time.Time         `bson:"reset_password_expires,omitempty" json:"-"`
	IsVerified           bool               `bson:"is_verified" json:"is_verified"`
	IsActive             bool               `bson:"is_active" json:"is_active"`
	LastLoginAt          *time.Time         `bson:"last_login_at,omitempty" json:"last_login_at,omitempty"`
	CreatedAt            time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt            time.Time          `bson:"updated_at" json:"updated_at"`
}

func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

func (u *User) AvailableStorage() int64 {
	return u.StorageLimit - u.UsedStorage
}

// HasAvailableStorage reports whether requiredBytes more would still fit
// within the limit. The boundary is inclusive: landing exactly on the limit
// is allowed.
func (u *User) HasAvailableStorage(requiredBytes int64) bool {
	return u.UsedStorage+requiredBytes <= u.StorageLimit
}

func (u *User) StoragePercentage() int {
	if u.StorageLimit == 0 {
		return 100
	}
	return int(float64(u.UsedStorage)/float64(u.StorageLimit)*100 + 0.5)
}
