package usecase

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"

	"folio/internal/domain/entity"
)

// UpdateProfileInput patches the profile scalars. Nil fields are left
// untouched so partial updates do not erase earlier values.
type UpdateProfileInput struct {
	Name         *string `json:"name"`
	PersonalText *string `json:"personalText"`
	Username     *string `json:"username"`
	AboutText    *string `json:"aboutText"`
	Profession   *string `json:"profession"`
	ProfileImage *string `json:"profileImage"`
}

// UpsertContactInput creates or overwrites the profile's contact card.
type UpsertContactInput struct {
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

// UpsertSocialMediaInput creates or overwrites the profile's links.
type UpsertSocialMediaInput struct {
	Facebook string `json:"facebook"`
	LinkedIn string `json:"linkedIn"`
	GitHub   string `json:"github"`
}

// AddProjectInput carries a new portfolio project.
type AddProjectInput struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Technologies   []string `json:"technologies"`
	Image          string   `json:"image"`
	WebLink        string   `json:"webLink"`
	GithubLink     string   `json:"githubLink"`
	BuildingReason string   `json:"buildingReason"`
}

// AddSkillInput carries a new skill entry.
type AddSkillInput struct {
	Name string `json:"name"`
}

// PortfolioUsecase owns the profile aggregate and its sub-documents.
type PortfolioUsecase interface {
	// GetProfile loads the profile with every reference resolved.
	GetProfile(ctx context.Context, profileID bson.ObjectID) (*entity.Profile, error)

	// UpdateProfile applies the non-nil scalar fields and re-derives
	// the completeness flag.
	UpdateProfile(ctx context.Context, profileID bson.ObjectID, input *UpdateProfileInput) (*entity.Profile, error)

	// UpsertContact updates the existing contact in place, or creates
	// one and points the profile at it.
	UpsertContact(ctx context.Context, profileID bson.ObjectID, input *UpsertContactInput) (*entity.Contact, error)

	// UpsertSocialMedia updates the existing links in place, or
	// creates them and points the profile at them.
	UpsertSocialMedia(ctx context.Context, profileID bson.ObjectID, input *UpsertSocialMediaInput) (*entity.SocialMedia, error)

	// AddProject stores a project and appends it to the profile.
	AddProject(ctx context.Context, profileID bson.ObjectID, input *AddProjectInput) (*entity.Project, error)

	// RemoveProject detaches and deletes a project.
	RemoveProject(ctx context.Context, profileID, projectID bson.ObjectID) error

	// ListProjects returns the profile's projects.
	ListProjects(ctx context.Context, profileID bson.ObjectID) ([]entity.Project, error)

	// AddSkill stores a skill and appends it to the profile.
	AddSkill(ctx context.Context, profileID bson.ObjectID, input *AddSkillInput) (*entity.Skill, error)

	// RemoveSkill detaches and deletes a skill.
	RemoveSkill(ctx context.Context, profileID, skillID bson.ObjectID) error
}
