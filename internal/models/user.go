package models

import (
	"time"

	"github.com/uptrace/bun"
)

type User struct {
	bun.BaseModel `bun:"table:app_user"`
	ID            string    `bun:"id,pk" json:"id"`
	FullName      string    `bun:"full_name" json:"fullName"`
	Password      string    `bun:"password" json:"-"`
	RolePosition  string    `bun:"role_position" json:"rolePosition"`
	CreatedAt     time.Time `bun:"created_at,default:current_timestamp" json:"createdAt"`
}

// PublicUser is the reduced projection safe to hand to clients. It never
// carries the password.
type PublicUser struct {
	ID           string `json:"id"`
	FullName     string `json:"fullName"`
	RolePosition string `json:"rolePosition"`
}
