package domain

import "time"

// Company is an isolated tenant containing ledgers, entries and bills.
type Company struct {
	CompanyID string `json:"companyID"` // Primary key (UUID)
	Name      string `json:"name"`
	GSTIN     string `json:"gstin"` // Company's own GST registration
	State     string `json:"state"` // For intra-state SGST/CGST treatment
	Address   string `json:"address"`
	IsActive  bool   `json:"isActive"`
	AuditFields
}

// UserCompanyRole defines the roles a user can hold within a company.
type UserCompanyRole string

const (
	RoleAdmin    UserCompanyRole = "ADMIN"
	RoleMember   UserCompanyRole = "MEMBER"
	RoleReadOnly UserCompanyRole = "READONLY"
	RoleRemoved  UserCompanyRole = "REMOVED"
)

// UserCompany is the membership of a user in a company.
type UserCompany struct {
	UserID    string          `json:"userID"`
	CompanyID string          `json:"companyID"`
	Role      UserCompanyRole `json:"role"`
	JoinedAt  time.Time       `json:"joinedAt"`
}

// AtLeast reports whether the role grants the privileges of required.
// READONLY < MEMBER < ADMIN; REMOVED grants nothing.
func (r UserCompanyRole) AtLeast(required UserCompanyRole) bool {
	rank := map[UserCompanyRole]int{
		RoleReadOnly: 1,
		RoleMember:   2,
		RoleAdmin:    3,
	}
	have, ok := rank[r]
	if !ok {
		return false
	}
	want, ok := rank[required]
	if !ok {
		return false
	}
	return have >= want
}
