package dto

import (
	"time"

	"github.com/FurnBooks/furniture_books_app/internal/core/domain"
)

// CreateCompanyRequest defines the data needed to create a new company.
type CreateCompanyRequest struct {
	Name    string `json:"name" binding:"required"`
	GSTIN   string `json:"gstin" binding:"omitempty,gstin"`
	State   string `json:"state"`
	Address string `json:"address"`
}

// UpdateCompanyRequest defines the data allowed for updating a company.
type UpdateCompanyRequest struct {
	Name    *string `json:"name"`
	GSTIN   *string `json:"gstin" binding:"omitempty,gstin"`
	State   *string `json:"state"`
	Address *string `json:"address"`
}

// AddUserToCompanyRequest defines the data needed to add a member.
type AddUserToCompanyRequest struct {
	UserID string                 `json:"userID" binding:"required"`
	Role   domain.UserCompanyRole `json:"role" binding:"required,oneof=ADMIN MEMBER READONLY"`
}

// CompanyResponse defines the data returned for a company.
type CompanyResponse struct {
	CompanyID string    `json:"companyID"`
	Name      string    `json:"name"`
	GSTIN     string    `json:"gstin"`
	State     string    `json:"state"`
	Address   string    `json:"address"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	CreatedBy string    `json:"createdBy"`
}

// ToCompanyResponse converts a domain.Company to CompanyResponse DTO.
func ToCompanyResponse(c *domain.Company) CompanyResponse {
	return CompanyResponse{
		CompanyID: c.CompanyID,
		Name:      c.Name,
		GSTIN:     c.GSTIN,
		State:     c.State,
		Address:   c.Address,
		IsActive:  c.IsActive,
		CreatedAt: c.CreatedAt,
		CreatedBy: c.CreatedBy,
	}
}

// ToListCompanyResponse converts a slice of domain.Company to a slice of CompanyResponse DTOs.
func ToListCompanyResponse(companies []domain.Company) []CompanyResponse {
	res := make([]CompanyResponse, len(companies))
	for i, c := range companies {
		res[i] = ToCompanyResponse(&c)
	}
	return res
}
