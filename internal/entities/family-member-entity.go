package entities

import (
	"time"

	"family-registry/pkg/types"
)

const (
	RelationMother      = "mother"
	RelationFather      = "father"
	RelationChild       = "child"
	RelationGuardian    = "guardian"
	RelationGrandparent = "grandparent"
	RelationOther       = "other"
)

var Relations = []string{
	RelationMother, RelationFather, RelationChild, RelationGuardian, RelationGrandparent, RelationOther,
}

type FamilyMember struct {
	ID         uint64    `json:"id" db:"id"`
	FamilyID   uint64    `json:"family_id" db:"family_id"`
	LastName   string    `json:"last_name" db:"last_name"`
	FirstName  string    `json:"first_name" db:"first_name"`
	MiddleName *string   `json:"middle_name" db:"middle_name"`
	BirthDate  time.Time `json:"birth_date" db:"birth_date"`
	Relation   string    `json:"relation" db:"relation"`

	DocumentNumber *string `json:"document_number" db:"document_number"`
	Education      *string `json:"education" db:"education"`
	HealthStatus   *string `json:"health_status" db:"health_status"`

	IsStudying    bool `json:"is_studying" db:"is_studying"`
	HasDisability bool `json:"has_disability" db:"has_disability"`
	NeedsSupport  bool `json:"needs_support" db:"needs_support"`

	types.BaseEntity
}

func (m *FamilyMember) FullName() string {
	name := m.LastName + " " + m.FirstName
	if m.MiddleName != nil && *m.MiddleName != "" {
		name += " " + *m.MiddleName
	}
	return name
}
