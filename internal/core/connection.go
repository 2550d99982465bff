package core

import (
	"time"

	"github.com/google/uuid"
)

type Registrar string

const (
	RegistrarGoDaddy   Registrar = "godaddy"
	RegistrarNamecheap Registrar = "namecheap"
	RegistrarDynadot   Registrar = "dynadot"
)

// Registrars lists every supported registrar in display order.
var Registrars = []Registrar{RegistrarGoDaddy, RegistrarNamecheap, RegistrarDynadot}

func (r Registrar) Valid() bool {
	switch r {
	case RegistrarGoDaddy, RegistrarNamecheap, RegistrarDynadot:
		return true
	}
	return false
}

// RegistrarConnection binds a user to one registrar account.
//
// APISecret is registrar specific: the GoDaddy API secret, the Namecheap
// username, unused for Dynadot.
type RegistrarConnection struct {
	ID        string     `json:"id" db:"id"`
	UserID    string     `json:"userId" db:"user_id"`
	Registrar Registrar  `json:"registrar" db:"registrar"`
	APIKey    string     `json:"-" db:"api_key"`
	APISecret *string    `json:"-" db:"api_secret"`
	IsActive  bool       `json:"isActive" db:"is_active"`
	LastSync  *time.Time `json:"lastSync" db:"last_sync"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
}

// Secret returns APISecret or "" when unset.
func (c *RegistrarConnection) Secret() string {
	if c.APISecret == nil {
		return ""
	}
	return *c.APISecret
}

// NewConnectionInput is what a user submits when connecting an account.
type NewConnectionInput struct {
	UserID    string    `json:"-"`
	Registrar Registrar `json:"registrar" binding:"required"`
	APIKey    string    `json:"apiKey" binding:"required"`
	APISecret *string   `json:"apiSecret"`
	IsActive  *bool     `json:"isActive"`
}

// Connection builds the stored form of the input.
func (in NewConnectionInput) Connection(now time.Time) *RegistrarConnection {
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	return &RegistrarConnection{
		ID:        uuid.NewString(),
		UserID:    in.UserID,
		Registrar: in.Registrar,
		APIKey:    in.APIKey,
		APISecret: in.APISecret,
		IsActive:  active,
		CreatedAt: now,
	}
}

type ConnectionPatch struct {
	APIKey    *string    `json:"apiKey,omitempty"`
	APISecret *string    `json:"apiSecret,omitempty"`
	IsActive  *bool      `json:"isActive,omitempty"`
	LastSync  *time.Time `json:"-"`
}

func (p ConnectionPatch) Apply(c *RegistrarConnection) {
	if p.APIKey != nil {
		c.APIKey = *p.APIKey
	}
	if p.APISecret != nil {
		s := *p.APISecret
		c.APISecret = &s
	}
	if p.IsActive != nil {
		c.IsActive = *p.IsActive
	}
	if p.LastSync != nil {
		t := *p.LastSync
		c.LastSync = &t
	}
}
