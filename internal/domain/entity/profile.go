package entity

import (
	"go.mongodb.org/mongo-driver/v2/bson"
)

// Profile is a user's public-facing aggregate record. Large or shared
// parts (contact info, social links, projects, skills) live in their own
// collections and are linked by reference; Populate resolves them into
// the embedded fields when a caller asks for the full aggregate.
type Profile struct {
	ID           bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string        `bson:"name,omitempty" json:"name,omitempty" validate:"omitempty,max=128"`
	PersonalText string        `bson:"personalText,omitempty" json:"personalText,omitempty" validate:"omitempty,max=20000"`
	Username     string        `bson:"username,omitempty" json:"username,omitempty" validate:"omitempty,max=64"`
	AboutText    string        `bson:"aboutText,omitempty" json:"aboutText,omitempty" validate:"omitempty,max=20000"`
	Profession   string        `bson:"profession,omitempty" json:"profession,omitempty" validate:"omitempty,max=128"`
	ProfileImage string        `bson:"profileImage,omitempty" json:"profileImage,omitempty" validate:"omitempty,max=128"`

	ProjectIDs    []bson.ObjectID `bson:"projects,omitempty" json:"projectIds,omitempty"`
	SkillIDs      []bson.ObjectID `bson:"skills,omitempty" json:"skillIds,omitempty"`
	ContactID     bson.ObjectID   `bson:"contact,omitempty" json:"contactId,omitempty"`
	SocialMediaID bson.ObjectID   `bson:"socialMedias,omitempty" json:"socialMediaId,omitempty"`

	// Resolved references, filled by Populate. Never persisted.
	Projects    []Project    `bson:"-" json:"projects,omitempty"`
	Skills      []Skill      `bson:"-" json:"skills,omitempty"`
	Contact     *Contact     `bson:"-" json:"contact,omitempty"`
	SocialMedia *SocialMedia `bson:"-" json:"socialMedia,omitempty"`

	// Complete is derived on every save; it is never set by callers.
	Complete bool `bson:"complete" json:"complete"`
}

func (*Profile) Collection() string { return CollectionProfiles }

func (p *Profile) DocumentID() bson.ObjectID      { return p.ID }
func (p *Profile) SetDocumentID(id bson.ObjectID) { p.ID = id }

func (p *Profile) Validate() error {
	return validate.Struct(p) //nolint:wrapcheck // store classifies
}

// DeriveCompleteness recomputes the Complete flag: every required scalar
// non-empty, at least one project and one skill, and a contact set.
func (p *Profile) DeriveCompleteness() {
	p.Complete = p.Name != "" &&
		p.PersonalText != "" &&
		p.Username != "" &&
		p.AboutText != "" &&
		p.Profession != "" &&
		p.ProfileImage != "" &&
		len(p.ProjectIDs) > 0 &&
		len(p.SkillIDs) > 0 &&
		!p.ContactID.IsZero()
}
