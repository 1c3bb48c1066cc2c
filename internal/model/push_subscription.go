package model

import "time"

// PushSubscription holds a browser push subscription for bill
// notifications. A subscription may be scoped to specific tenants.
type PushSubscription struct {
	Endpoint  string    `gorm:"primaryKey"`
	P256DH    string    `gorm:"column:p256dh;not null"`
	Auth      string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`

	// Associations
	Tenants []*Tenant `gorm:"many2many:subscription_tenant_mapping;"`
}
