package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// ErrorLog is an append-only record written as a side effect of error
// handling. It is never updated or deleted.
type ErrorLog struct {
	ID           bson.ObjectID `bson:"_id,omitempty" json:"id"`
	FunctionName string        `bson:"functionName" json:"functionName" validate:"required"`
	Message      string        `bson:"message" json:"message" validate:"required"`
	TimeStamp    time.Time     `bson:"timeStamp" json:"timeStamp" validate:"required"`
}

func (*ErrorLog) Collection() string { return CollectionErrorLogs }

func (l *ErrorLog) DocumentID() bson.ObjectID      { return l.ID }
func (l *ErrorLog) SetDocumentID(id bson.ObjectID) { l.ID = id }

func (l *ErrorLog) Validate() error {
	return validate.Struct(l) //nolint:wrapcheck // store classifies
}
