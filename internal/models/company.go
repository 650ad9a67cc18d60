package models

import "time"

// Company is the DB representation of a tenant.
type Company struct {
	CompanyID string `db:"company_id"`
	Name      string `db:"name"`
	GSTIN     string `db:"gstin"`
	State     string `db:"state"`
	Address   string `db:"address"`
	IsActive  bool   `db:"is_active"`
	AuditFields
}

// UserCompany is the DB representation of a company membership.
type UserCompany struct {
	UserID    string    `db:"user_id"`
	CompanyID string    `db:"company_id"`
	Role      string    `db:"role"`
	JoinedAt  time.Time `db:"joined_at"`
}
