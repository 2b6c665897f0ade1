package v1alpha1

// Role of an authenticated user.
type Role string

const (
	RoleEmployee Role = "EMPLOYEE"
	RoleManager  Role = "MANAGER"
)

// AvailabilityStatus of an employee.
type AvailabilityStatus string

const (
	AvailabilityAvailable AvailabilityStatus = "AVAILABLE"
	AvailabilityOnProject AvailabilityStatus = "ON_PROJECT"
	AvailabilityReserved  AvailabilityStatus = "RESERVED"
)

// ReferralStatus of a recommendation.
type ReferralStatus string

const (
	ReferralStatusPending  ReferralStatus = "PENDING"
	ReferralStatusReserved ReferralStatus = "RESERVED"
	ReferralStatusSelected ReferralStatus = "SELECTED"
	ReferralStatusRejected ReferralStatus = "REJECTED"
)

// JdStatus of a job description.
type JdStatus string

const (
	JdStatusOpen   JdStatus = "OPEN"
	JdStatusClosed JdStatus = "CLOSED"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	FullName          string `json:"fullName"`
	Email             string `json:"email"`
	Password          string `json:"password"`
	YearsOfExperience int    `json:"yearsOfExperience"`
}

type AuthResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType,omitempty"`
	Role        Role   `json:"role"`
}

type EmployeeProfile struct {
	UserId                   int64              `json:"userId"`
	Email                    string             `json:"email"`
	FullName                 string             `json:"fullName"`
	YearsOfExperience        int                `json:"yearsOfExperience"`
	Availability             AvailabilityStatus `json:"availability"`
	Skills                   []string           `json:"skills"`
	JobLevel                 string             `json:"jobLevel,omitempty"`
	CurrentRole              string             `json:"currentRole,omitempty"`
	ExpectedAvailabilityDate *string            `json:"expectedAvailabilityDate,omitempty"`
}

type EmployeeProfileUpdate struct {
	FullName                 string             `json:"fullName"`
	YearsOfExperience        int                `json:"yearsOfExperience"`
	Availability             AvailabilityStatus `json:"availability"`
	Skills                   []string           `json:"skills"`
	JobLevel                 string             `json:"jobLevel,omitempty"`
	CurrentRole              string             `json:"currentRole,omitempty"`
	ExpectedAvailabilityDate *string            `json:"expectedAvailabilityDate,omitempty"`
}

type JobDescription struct {
	Id         int64    `json:"id"`
	Title      string   `json:"title"`
	ClientName string   `json:"clientName"`
	Status     JdStatus `json:"status"`
	CreatedAt  string   `json:"createdAt,omitempty"`
}

type Recommendation struct {
	ReferralId               int64              `json:"referralId"`
	EmployeeUserId           int64              `json:"employeeUserId,omitempty"`
	EmployeeFullName         string             `json:"employeeFullName"`
	YearsOfExperience        int                `json:"yearsOfExperience"`
	MatchScore               int                `json:"matchScore"`
	Justification            string             `json:"justification,omitempty"`
	Status                   ReferralStatus     `json:"status"`
	Skills                   []string           `json:"skills,omitempty"`
	MatchingSkills           []string           `json:"matchingSkills,omitempty"`
	CurrentRole              string             `json:"currentRole,omitempty"`
	JobLevel                 string             `json:"jobLevel,omitempty"`
	Availability             AvailabilityStatus `json:"availability,omitempty"`
	ExpectedAvailabilityDate *string            `json:"expectedAvailabilityDate,omitempty"`
}

type SelectedEmployee struct {
	EmployeeUserId   int64              `json:"employeeUserId"`
	EmployeeFullName string             `json:"employeeFullName"`
	EmployeeEmail    string             `json:"employeeEmail"`
	Availability     AvailabilityStatus `json:"availability"`
	JobId            int64              `json:"jobId"`
	JobTitle         string             `json:"jobTitle"`
	ClientName       string             `json:"clientName"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
