package model

import "time"

type EmployeeRecord struct {
	ID         string    `json:"id" db:"id"`
	Name       string    `json:"name" db:"name"`
	Email      string    `json:"email" db:"email"`
	Role       string    `json:"role" db:"role"`
	Department string    `json:"department" db:"department"`
	Status     string    `json:"status" db:"status"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}

type Asset struct {
	ID           string    `json:"id" db:"id"`
	Type         string    `json:"type" db:"type"`
	Cost         float64   `json:"cost" db:"cost"`
	Status       string    `json:"status" db:"status"`
	AssignedTo   string    `json:"assignedTo" db:"assigned_to"`
	DeliveryDate time.Time `json:"deliveryDate" db:"delivery_date"`
	AllocatedAt  time.Time `json:"allocatedAt" db:"allocated_at"`
}

type Notification struct {
	ID         string    `json:"id,omitempty" db:"id"`
	EmployeeID string    `json:"employeeId" db:"employee_id"`
	Channel    string    `json:"channel" db:"channel"`
	Recipient  string    `json:"recipient" db:"recipient"`
	Status     string    `json:"status" db:"status"`
	SentAt     time.Time `json:"sentAt" db:"sent_at"`
}
