package model

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string

const (
	UserRoleStudent UserRole = "student"
	UserRoleCompany UserRole = "company"
)

func (r UserRole) Valid() bool {
	return r == UserRoleStudent || r == UserRoleCompany
}

type User struct {
	UserID       uuid.UUID `json:"id" db:"user_id"`
	Role         UserRole  `json:"role" db:"role"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`

	// student profile
	FullName  string   `json:"fullName,omitempty" db:"full_name"`
	Education string   `json:"education,omitempty" db:"education"`
	Skills    []string `json:"skills,omitempty" db:"skills"`

	// company profile
	CompanyName  string   `json:"companyName,omitempty" db:"company_name"`
	RolesOffered []string `json:"roleOffered,omitempty" db:"roles_offered"`
	CompanySize  string   `json:"companySize,omitempty" db:"company_size"`
	Industry     string   `json:"industry,omitempty" db:"industry"`

	ResumeText string    `json:"resumeText,omitempty" db:"resume_text"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time `json:"updatedAt" db:"updated_at"`
}

type RegisterReq struct {
	Role         UserRole `json:"role" binding:"required,oneof=student company"`
	Email        string   `json:"email" binding:"required,email"`
	Password     string   `json:"password" binding:"required,min=6"`
	FullName     string   `json:"fullName"`
	Education    string   `json:"education"`
	Skills       []string `json:"skills"`
	CompanyName  string   `json:"companyName"`
	RolesOffered []string `json:"roleOffered"`
	CompanySize  string   `json:"companySize"`
	Industry     string   `json:"industry"`
}

type LoginReq struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UserRes is the public projection of a user, also used when an
// application is returned with its candidate populated.
type UserRes struct {
	UserID      uuid.UUID `json:"id"`
	Role        UserRole  `json:"role"`
	Email       string    `json:"email"`
	FullName    string    `json:"fullName,omitempty"`
	Education   string    `json:"education,omitempty"`
	Skills      []string  `json:"skills,omitempty"`
	CompanyName string    `json:"companyName,omitempty"`
	Industry    string    `json:"industry,omitempty"`
	CompanySize string    `json:"companySize,omitempty"`
	ResumeText  string    `json:"resumeText,omitempty"`
}

func (u *User) Public() UserRes {
	return UserRes{
		UserID:      u.UserID,
		Role:        u.Role,
		Email:       u.Email,
		FullName:    u.FullName,
		Education:   u.Education,
		Skills:      u.Skills,
		CompanyName: u.CompanyName,
		Industry:    u.Industry,
		CompanySize: u.CompanySize,
		ResumeText:  u.ResumeText,
	}
}

type LoginRes struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      UserRes   `json:"user"`
}

type UpdateResumeReq struct {
	ResumeText string `json:"resumeText" binding:"required"`
}
