package domain

import "time"

type AdminUser struct {
	ID          int64         `json:"id"`
	Email       string        `json:"email"`
	DisplayName string        `json:"displayName"`
	Permissions PermissionSet `json:"permissions"`
	LastLoginAt *time.Time    `json:"lastLoginAt"`
	CreatedAt   time.Time     `json:"createdAt"`
	Version     int32         `json:"-"`
}
