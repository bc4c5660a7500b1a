package entity

import (
	"go.mongodb.org/mongo-driver/v2/bson"
)

// Project is a single portfolio entry referenced from a Profile.
type Project struct {
	ID             bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Title          string        `bson:"title" json:"title" validate:"required"`
	Description    string        `bson:"description" json:"description" validate:"required"`
	Technologies   []string      `bson:"technologies" json:"technologies" validate:"required,min=1"`
	Image          string        `bson:"image,omitempty" json:"image,omitempty"`
	WebLink        string        `bson:"webLink,omitempty" json:"webLink,omitempty"`
	GithubLink     string        `bson:"githubLink" json:"githubLink" validate:"required"`
	BuildingReason string        `bson:"buildingReason" json:"buildingReason" validate:"required"`
}

func (*Project) Collection() string { return CollectionProjects }

func (p *Project) DocumentID() bson.ObjectID      { return p.ID }
func (p *Project) SetDocumentID(id bson.ObjectID) { p.ID = id }

func (p *Project) Validate() error {
	return validate.Struct(p) //nolint:wrapcheck // store classifies
}
