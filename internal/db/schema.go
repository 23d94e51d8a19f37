package db

import "gorm.io/gorm"

// EnsureSchema creates the named postgres schema if it does not exist. Each
// domain package calls this from its Init before AutoMigrate so that both
// services can share one database without colliding.
func EnsureSchema(d *gorm.DB, schema string) error {
	return d.Exec(`CREATE SCHEMA IF NOT EXISTS "` + schema + `"`).Error
}
