package model

import "github.com/google/uuid"

type Role string

const (
	RolePlatformAdmin Role = "platform_admin"
	RoleAdmin         Role = "admin"
	RoleDoctor        Role = "doctor"
	RoleNurse         Role = "nurse"
	RoleLabTechnician Role = "lab_technician"
	RolePharmacist    Role = "pharmacist"
	RolePatient       Role = "patient"
)

// Principal is the resolved caller identity. Authentication happens upstream;
// this service only consumes the claims the middleware extracted.
type Principal struct {
	UserID    uuid.UUID
	TenantID  *uuid.UUID
	Role      Role
	PatientID *uuid.UUID
}

func (p Principal) IsPlatformAdmin() bool {
	return p.Role == RolePlatformAdmin
}

func (p Principal) IsStaff() bool {
	switch p.Role {
	case RoleAdmin, RoleDoctor, RoleNurse, RoleLabTechnician, RolePharmacist:
		return true
	}
	return false
}
