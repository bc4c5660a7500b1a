package entity

import (
	"go.mongodb.org/mongo-driver/v2/bson"
)

// Credential is the stored login identity: an email, the one-way hash of
// the secret, and the current session token. At most one Credential
// exists per email. A nil session token means no active session.
type Credential struct {
	ID           bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Email        string        `bson:"email" json:"email" validate:"required,email,max=128"`
	PasswordHash string        `bson:"password,omitempty" json:"-" validate:"required"`
	SessionToken string        `bson:"sessionToken,omitempty" json:"-"`
	ProfileID    bson.ObjectID `bson:"profileId,omitempty" json:"profileId,omitempty"`
}

// SecretRule is the validation tag for the plaintext secret. The secret
// itself is never persisted; only its hash is, so the length bound is
// enforced before hashing.
const SecretRule = "required,min=8,max=128"

func (*Credential) Collection() string { return CollectionCredentials }

func (c *Credential) DocumentID() bson.ObjectID      { return c.ID }
func (c *Credential) SetDocumentID(id bson.ObjectID) { c.ID = id }

// Validate checks the field constraints. The store runs this before
// every Save.
func (c *Credential) Validate() error {
	return validate.Struct(c) //nolint:wrapcheck // store classifies
}
