// Package entity contains the core business objects of the project,
// each persisted as a document in its own named collection.
package entity

import (
	"github.com/go-playground/validator/v10"
)

// Collection names of the persisted entities.
const (
	CollectionCredentials = "credentials"
	CollectionProfiles    = "profiles"
	CollectionContacts    = "contacts"
	CollectionSocialMedia = "socialMedias"
	CollectionProjects    = "projects"
	CollectionSkills      = "skills"
	CollectionErrorLogs   = "errorLogs"
)

// validate is the shared struct validator used by the entities'
// Validate capability. Rules live on field tags.
var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateVar exposes single-value validation for callers that check
// inputs before constructing a persisted record (e.g. the plaintext
// secret, which is hashed before it ever reaches an entity).
func ValidateVar(field any, tag string) error {
	return validate.Var(field, tag) //nolint:wrapcheck // caller classifies
}
