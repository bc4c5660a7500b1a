package entity

import (
	"go.mongodb.org/mongo-driver/v2/bson"
)

// SocialMedia holds a profile's social links. Same 1:1 ownership and
// create-or-update-by-reference pattern as Contact.
type SocialMedia struct {
	ID       bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Facebook string        `bson:"facebook,omitempty" json:"facebook,omitempty" validate:"omitempty,max=1024"`
	LinkedIn string        `bson:"linkedIn,omitempty" json:"linkedIn,omitempty" validate:"omitempty,max=1024"`
	GitHub   string        `bson:"github,omitempty" json:"github,omitempty" validate:"omitempty,max=1024"`
	Complete bool          `bson:"complete" json:"complete"`
}

func (*SocialMedia) Collection() string { return CollectionSocialMedia }

func (s *SocialMedia) DocumentID() bson.ObjectID      { return s.ID }
func (s *SocialMedia) SetDocumentID(id bson.ObjectID) { s.ID = id }

func (s *SocialMedia) Validate() error {
	return validate.Struct(s) //nolint:wrapcheck // store classifies
}

func (s *SocialMedia) DeriveCompleteness() {
	s.Complete = s.Facebook != "" && s.LinkedIn != "" && s.GitHub != ""
}
