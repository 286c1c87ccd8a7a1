// Package models defines the core data structures for the portal document
// and its entity collections.
package models

import "strings"

// Role identifies an account's privilege level.
type Role string

const (
	// RoleUser is a regular self-service account.
	RoleUser Role = "user"
	// RoleAdmin may manage accounts, departments and employees.
	RoleAdmin Role = "admin"
)

// RequestStatus is the lifecycle state of a self-service request.
type RequestStatus string

const (
	// StatusPending is the state every new request starts in.
	StatusPending RequestStatus = "pending"
	// StatusApproved marks a request granted by an admin.
	StatusApproved RequestStatus = "approved"
	// StatusRejected marks a request refused by an admin.
	StatusRejected RequestStatus = "rejected"
)

// Account represents a portal login with its profile data.
type Account struct {
	// ID is the unique identifier for the account.
	ID string `json:"id"`
	// First is the account holder's first name.
	First string `json:"first"`
	// Last is the account holder's last name.
	Last string `json:"last"`
	// Email is the normalized login identifier, unique across accounts.
	Email string `json:"email"`
	// Password is an opaque credential string. The demo document keeps
	// it in cleartext.
	Password string `json:"password"`
	// Role is the account's privilege level.
	Role Role `json:"role"`
	// Verified reports whether the email was confirmed.
	Verified bool `json:"verified"`
}

// FullName returns the display name used across the portal.
func (a Account) FullName() string {
	return a.First + " " + a.Last
}

// Department is an organizational unit employees belong to.
type Department struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Employee is an HR record tying an account to a department.
type Employee struct {
	// ID is the unique identifier for the record.
	ID string `json:"id"`
	// EmployeeID is the business identifier, unique across employees.
	EmployeeID string `json:"employeeId"`
	// Email references an existing Account.
	Email string `json:"email"`
	// Position is the job title.
	Position string `json:"position"`
	// DepartmentID references an existing Department.
	DepartmentID string `json:"departmentId"`
	// HireDate is the hire date in YYYY-MM-DD form.
	HireDate string `json:"hireDate"`
}

// RequestItem is a single line of a self-service request.
type RequestItem struct {
	Name string `json:"name"`
	Qty  int    `json:"qty"`
}

// Request is a self-service request owned by one account.
type Request struct {
	ID         string        `json:"id"`
	OwnerEmail string        `json:"ownerEmail"`
	Type       string        `json:"type"`
	Items      []RequestItem `json:"items"`
	Status     RequestStatus `json:"status"`
	Date       string        `json:"date"`
}

// SchemaVersion is the current document schema version. Older documents
// are migrated forward on load.
const SchemaVersion = 1

// Document is the entire persisted database: every collection lives in
// this one value, serialized into a single storage slot.
type Document struct {
	// SchemaVersion tags the shape of the document for migrations.
	SchemaVersion int `json:"schemaVersion"`
	// Revision is the optimistic concurrency stamp, bumped on every save.
	Revision int64 `json:"revision"`

	Accounts    []Account    `json:"accounts"`
	Departments []Department `json:"departments"`
	Employees   []Employee   `json:"employees"`
	Requests    []Request    `json:"requests"`
}

// NormalizeEmail lowercases and trims an email so it can act as a
// natural key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
