package model

import "time"

// User represents a local user synced from the external identity provider.
// PhotoCount is a denormalized running total maintained by the image and
// delete-cascade paths; it must match the true image count once an
// operation completes.
type User struct {
	ID                  string     `db:"id" json:"id"`
	AuthUID             string     `db:"auth_uid" json:"auth_uid"`
	Username            string     `db:"username" json:"username"`
	Email               string     `db:"email" json:"email"`
	NationalID          *string    `db:"national_id" json:"national_id,omitempty"`
	Phone               *string    `db:"phone" json:"phone,omitempty"`
	Tier                Tier       `db:"tier" json:"tier"`
	SubscriptionEndDate *time.Time `db:"subscription_end_date" json:"subscription_end_date,omitempty"`
	PhotoCount          int        `db:"photo_count" json:"photo_count"`
	IsAdmin             bool       `db:"is_admin" json:"is_admin"`
	CreatedAt           time.Time  `db:"created_at" json:"created_at"`
}
