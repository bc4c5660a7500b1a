package entity

import (
	"go.mongodb.org/mongo-driver/v2/bson"
)

// Skill is a named proficiency referenced from a Profile.
type Skill struct {
	ID   bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Name string        `bson:"name" json:"name" validate:"required,max=128"`
}

func (*Skill) Collection() string { return CollectionSkills }

func (s *Skill) DocumentID() bson.ObjectID      { return s.ID }
func (s *Skill) SetDocumentID(id bson.ObjectID) { s.ID = id }

func (s *Skill) Validate() error {
	return validate.Struct(s) //nolint:wrapcheck // store classifies
}
