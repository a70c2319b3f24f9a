package dto

// AdminUserCreateRequest is the elevated user-creation payload: it creates
// credentials and a profile in one step.
type AdminUserCreateRequest struct {
	Email         string `json:"email" validate:"required,email"`
	Password      string `json:"password" validate:"required,min=8"`
	FullName      string `json:"full_name" validate:"required,min=2"`
	Role          string `json:"role" validate:"required,oneof=super_admin pastor servant"`
	ChurchID      *uint  `json:"church_id" validate:"omitempty,gt=0"`
	DepartmentID  *uint  `json:"department_id" validate:"omitempty,gt=0"`
	DepartmentIDs []uint `json:"department_ids" validate:"omitempty,dive,gt=0"`
}

// AdminUserUpdateRequest captures partial profile edits.
type AdminUserUpdateRequest struct {
	FullName     *string `json:"full_name" validate:"omitempty,min=2"`
	Email        *string `json:"email" validate:"omitempty,email"`
	ChurchID     *uint   `json:"church_id" validate:"omitempty,gt=0"`
	DepartmentID *uint   `json:"department_id" validate:"omitempty,gt=0"`
}

// AdminUserRoleChangeRequest assigns a new role to a profile.
type AdminUserRoleChangeRequest struct {
	Role string `json:"role" validate:"required,oneof=super_admin pastor servant"`
}

// AdminUserListRequest defines filters for listing profiles.
type AdminUserListRequest struct {
	Page     int
	PageSize int
	Role     string
	Search   string
}

// AdminUserListResponse wraps a paginated profile listing.
type AdminUserListResponse struct {
	Items      []ProfileResponse `json:"items"`
	Pagination PaginationMeta    `json:"pagination"`
}
