package store

import (
	"folio/internal/domain/entity"
)

// Spec declares the collection-level constraints an implementation
// enforces: unique fields and sensitive fields omitted from default
// reads unless explicitly requested with the Fields option.
type Spec struct {
	Unique        []string
	OmitByDefault []string
}

// Registry maps collection names to their specs.
type Registry map[string]Spec

// Spec returns the spec registered for the collection; the zero Spec
// applies to unregistered collections.
func (r Registry) Spec(collection string) Spec {
	return r[collection]
}

// DefaultRegistry declares the constraints of the portfolio collections.
func DefaultRegistry() Registry {
	return Registry{
		entity.CollectionCredentials: {
			Unique:        []string{"email"},
			OmitByDefault: []string{"password", "sessionToken"},
		},
		entity.CollectionProfiles: {
			Unique: []string{"username"},
		},
		entity.CollectionContacts:    {},
		entity.CollectionSocialMedia: {},
		entity.CollectionProjects:    {},
		entity.CollectionSkills:      {},
		entity.CollectionErrorLogs:   {},
	}
}

// ProfileReferences are the reference specs of the profile aggregate,
// used to populate the full public-facing record in one call.
func ProfileReferences() []Reference {
	return []Reference{
		{IDField: "ProjectIDs", TargetField: "Projects", Collection: entity.CollectionProjects},
		{IDField: "SkillIDs", TargetField: "Skills", Collection: entity.CollectionSkills},
		{IDField: "ContactID", TargetField: "Contact", Collection: entity.CollectionContacts},
		{IDField: "SocialMediaID", TargetField: "SocialMedia", Collection: entity.CollectionSocialMedia},
	}
}
