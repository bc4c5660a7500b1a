package entity

import (
	"regexp"

	"go.mongodb.org/mongo-driver/v2/bson"

	"folio/internal/errors"
)

// phonePattern accepts regional numbers like "45 12 34 56 78" or "12 34 56 78".
var phonePattern = regexp.MustCompile(`(?:45\s)?(?:\d{2}\s){3}\d{2}`)

// Contact holds a profile's contact info. Owned 1:1 by a Profile and
// linked by reference; created on first write, updated in place after.
type Contact struct {
	ID       bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Address  string        `bson:"address,omitempty" json:"address,omitempty" validate:"omitempty,max=1024"`
	Phone    string        `bson:"phone,omitempty" json:"phone,omitempty"`
	Complete bool          `bson:"complete" json:"complete"`
}

func (*Contact) Collection() string { return CollectionContacts }

func (c *Contact) DocumentID() bson.ObjectID      { return c.ID }
func (c *Contact) SetDocumentID(id bson.ObjectID) { c.ID = id }

func (c *Contact) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err //nolint:wrapcheck // store classifies
	}
	if c.Phone != "" {
		if len(c.Phone) < 8 {
			return errors.New("phone must be at least 8 characters")
		}
		if !phonePattern.MatchString(c.Phone) {
			return errors.New("phone does not match the regional pattern")
		}
	}

	return nil
}

func (c *Contact) DeriveCompleteness() {
	c.Complete = c.Address != "" && c.Phone != ""
}
