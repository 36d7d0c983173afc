package handler

import (
	"time"

	"github.com/basewebproject/base-api/internal/core/domain"
	"github.com/basewebproject/base-api/internal/core/ports"
)

// CreateUserRequest is the accepted body of POST /users.
type CreateUserRequest struct {
	Name     string      `json:"name" validate:"required,min=2,max=100"`
	Login    string      `json:"login" validate:"required,min=3,max=50,login"`
	Email    string      `json:"email" validate:"required,email,max=255"`
	Password string      `json:"password" validate:"required,min=8,max=128,password"`
	Role     domain.Role `json:"role,omitempty" validate:"omitempty,oneof=ADMIN USER"`
}

// UpdateUserRequest is the accepted body of PUT /users/:id. Absent and null
// fields leave the stored value unchanged.
type UpdateUserRequest struct {
	Name     *string      `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Login    *string      `json:"login,omitempty" validate:"omitempty,min=3,max=50,login"`
	Email    *string      `json:"email,omitempty" validate:"omitempty,email,max=255"`
	Password *string      `json:"password,omitempty" validate:"omitempty,min=8,max=128,password"`
	Role     *domain.Role `json:"role,omitempty" validate:"omitempty,oneof=ADMIN USER"`
}

// UserResponse is the public projection of a user. It never carries the
// password hash.
type UserResponse struct {
	ID        int64       `json:"id"`
	Name      string      `json:"name"`
	Login     string      `json:"login"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

func toUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Login:     u.Login,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// userPatch carries already-hashed credentials.
type userPatch struct {
	name, login, email, passwordHash *string
	role                             *domain.Role
}

func (p userPatch) Empty() bool {
	return p.name == nil && p.login == nil && p.email == nil && p.passwordHash == nil && p.role == nil
}

func (p userPatch) Apply(u *domain.User) {
	if p.name != nil {
		u.Name = *p.name
	}
	if p.login != nil {
		u.Login = *p.login
	}
	if p.email != nil {
		u.Email = *p.email
	}
	if p.passwordHash != nil {
		u.PasswordHash = *p.passwordHash
	}
	if p.role != nil {
		u.Role = *p.role
	}
}

// UserMapping wires the user wire formats into the generic CRUD handler.
// Passwords are hashed before they reach the service.
func UserMapping(hasher ports.PasswordHasher) CrudMapping[domain.User, CreateUserRequest, UpdateUserRequest, UserResponse] {
	return CrudMapping[domain.User, CreateUserRequest, UpdateUserRequest, UserResponse]{
		FromCreate: func(req *CreateUserRequest) (ports.Patch[domain.User], error) {
			hash, err := hasher.Hash(req.Password)
			if err != nil {
				return nil, err
			}
			role := req.Role
			if role == "" {
				role = domain.RoleUser
			}
			return userPatch{
				name:         &req.Name,
				login:        &req.Login,
				email:        &req.Email,
				passwordHash: &hash,
				role:         &role,
			}, nil
		},
		FromUpdate: func(req *UpdateUserRequest) (ports.Patch[domain.User], error) {
			p := userPatch{name: req.Name, login: req.Login, email: req.Email, role: req.Role}
			if req.Password != nil {
				hash, err := hasher.Hash(*req.Password)
				if err != nil {
					return nil, err
				}
				p.passwordHash = &hash
			}
			return p, nil
		},
		ToResponse: func(u *domain.User) UserResponse { return toUserResponse(u) },
	}
}

// UserPolicy restricts listing and writes to administrators. Reading a
// single user or a page only needs authentication.
var UserPolicy = CrudPolicy{
	List:   []domain.Role{domain.RoleAdmin},
	Create: []domain.Role{domain.RoleAdmin},
	Update: []domain.Role{domain.RoleAdmin},
	Delete: []domain.Role{domain.RoleAdmin},
}
