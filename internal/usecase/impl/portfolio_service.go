package impl

import (
	"context"
	"log/slog"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/fx"

	deliverycontext "folio/internal/delivery/context"
	"folio/internal/domain/entity"
	"folio/internal/domain/fault"
	"folio/internal/domain/store"
	"folio/internal/usecase"
)

// portfolioService implements the PortfolioUsecase interface.
type portfolioService struct {
	store  store.Store
	logger *slog.Logger
}

// PortfolioServiceParams holds dependencies for portfolioService, injected by Fx.
type PortfolioServiceParams struct {
	fx.In

	Store  store.Store
	Logger *slog.Logger
}

// NewPortfolioService is the constructor for portfolioService.
func NewPortfolioService(params PortfolioServiceParams) usecase.PortfolioUsecase {
	return &portfolioService{
		store:  params.Store,
		logger: params.Logger,
	}
}

func (srv *portfolioService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// GetProfile loads the profile with contact, social media, projects and
// skills resolved in one call.
func (srv *portfolioService) GetProfile(ctx context.Context, profileID bson.ObjectID) (*entity.Profile, error) {
	var profile entity.Profile
	if err := srv.store.FindByIDRequired(ctx, entity.CollectionProfiles, profileID, &profile,
		store.WithPopulate(store.ProfileReferences()...)); err != nil {
		return nil, errors.Wrap(err, "failed to load profile")
	}

	return &profile, nil
}

// UpdateProfile applies the non-nil scalars and saves, re-deriving the
// completeness flag on the way down. Concurrent updates are last-write-wins.
func (srv *portfolioService) UpdateProfile(ctx context.Context, profileID bson.ObjectID, input *usecase.UpdateProfileInput) (*entity.Profile, error) {
	var profile entity.Profile
	if err := srv.store.FindByIDRequired(ctx, entity.CollectionProfiles, profileID, &profile); err != nil {
		return nil, errors.Wrap(err, "failed to load profile")
	}

	applyIfSet := func(target *string, value *string) {
		if value != nil {
			*target = *value
		}
	}
	applyIfSet(&profile.Name, input.Name)
	applyIfSet(&profile.PersonalText, input.PersonalText)
	applyIfSet(&profile.Username, input.Username)
	applyIfSet(&profile.AboutText, input.AboutText)
	applyIfSet(&profile.Profession, input.Profession)
	applyIfSet(&profile.ProfileImage, input.ProfileImage)

	if err := srv.store.Save(ctx, &profile); err != nil {
		return nil, errors.Wrap(err, "failed to save profile")
	}

	srv.log(ctx).Debug("Profile updated", slog.Any("profileID", profileID), slog.Bool("complete", profile.Complete))

	return &profile, nil
}

// UpsertContact either patches the contact the profile already points
// at, or creates the contact first and only then points the profile at
// it. Creating before pointing means a failed create never leaves the
// profile referencing a contact that does not exist.
func (srv *portfolioService) UpsertContact(ctx context.Context, profileID bson.ObjectID, input *usecase.UpsertContactInput) (*entity.Contact, error) {
	const fn = "PortfolioService.UpsertContact"

	var profile entity.Profile
	if err := srv.store.FindByIDRequired(ctx, entity.CollectionProfiles, profileID, &profile); err != nil {
		return nil, errors.Wrap(err, "failed to load profile")
	}

	contact := &entity.Contact{ID: profile.ContactID, Address: input.Address, Phone: input.Phone}
	if err := contact.Validate(); err != nil {
		return nil, fault.Wrap(fault.Validation, fn, "The contact details are invalid.", err)
	}

	if !profile.ContactID.IsZero() {
		contact.DeriveCompleteness()
		if err := srv.store.Update(ctx, entity.CollectionContacts, store.Filter{"_id": profile.ContactID},
			store.Patch{"address": contact.Address, "phone": contact.Phone, "complete": contact.Complete}); err != nil {
			return nil, errors.Wrap(err, "failed to update contact")
		}

		return contact, nil
	}

	if err := srv.store.Save(ctx, contact); err != nil {
		return nil, errors.Wrap(err, "failed to create contact")
	}
	if err := srv.store.Update(ctx, entity.CollectionProfiles, store.Filter{"_id": profileID},
		store.Patch{"contact": contact.ID}); err != nil {
		return nil, errors.Wrap(err, "failed to attach contact to profile")
	}

	srv.log(ctx).Debug("Contact created", slog.Any("profileID", profileID), slog.Any("contactID", contact.ID))

	return contact, nil
}

// UpsertSocialMedia follows the same create-before-point pattern as
// UpsertContact.
func (srv *portfolioService) UpsertSocialMedia(ctx context.Context, profileID bson.ObjectID, input *usecase.UpsertSocialMediaInput) (*entity.SocialMedia, error) {
	var profile entity.Profile
	if err := srv.store.FindByIDRequired(ctx, entity.CollectionProfiles, profileID, &profile); err != nil {
		return nil, errors.Wrap(err, "failed to load profile")
	}

	socialMedia := &entity.SocialMedia{
		ID:       profile.SocialMediaID,
		Facebook: input.Facebook,
		LinkedIn: input.LinkedIn,
		GitHub:   input.GitHub,
	}

	if !profile.SocialMediaID.IsZero() {
		socialMedia.DeriveCompleteness()
		if err := srv.store.Update(ctx, entity.CollectionSocialMedia, store.Filter{"_id": profile.SocialMediaID},
			store.Patch{
				"facebook": socialMedia.Facebook,
				"linkedIn": socialMedia.LinkedIn,
				"github":   socialMedia.GitHub,
				"complete": socialMedia.Complete,
			}); err != nil {
			return nil, errors.Wrap(err, "failed to update social media links")
		}

		return socialMedia, nil
	}

	if err := srv.store.Save(ctx, socialMedia); err != nil {
		return nil, errors.Wrap(err, "failed to create social media links")
	}
	if err := srv.store.Update(ctx, entity.CollectionProfiles, store.Filter{"_id": profileID},
		store.Patch{"socialMedias": socialMedia.ID}); err != nil {
		return nil, errors.Wrap(err, "failed to attach social media links to profile")
	}

	return socialMedia, nil
}

// AddProject stores the project first, then appends it to the profile
// so a failed insert never leaves a dangling reference.
func (srv *portfolioService) AddProject(ctx context.Context, profileID bson.ObjectID, input *usecase.AddProjectInput) (*entity.Project, error) {
	var profile entity.Profile
	if err := srv.store.FindByIDRequired(ctx, entity.CollectionProfiles, profileID, &profile); err != nil {
		return nil, errors.Wrap(err, "failed to load profile")
	}

	project := &entity.Project{
		Title:          input.Title,
		Description:    input.Description,
		Technologies:   input.Technologies,
		Image:          input.Image,
		WebLink:        input.WebLink,
		GithubLink:     input.GithubLink,
		BuildingReason: input.BuildingReason,
	}
	if err := srv.store.Save(ctx, project); err != nil {
		return nil, errors.Wrap(err, "failed to create project")
	}

	profile.ProjectIDs = append(profile.ProjectIDs, project.ID)
	if err := srv.store.Save(ctx, &profile); err != nil {
		return nil, errors.Wrap(err, "failed to attach project to profile")
	}

	srv.log(ctx).Debug("Project added", slog.Any("profileID", profileID), slog.Any("projectID", project.ID))

	return project, nil
}

// RemoveProject detaches the project from the profile before deleting
// it, mirroring AddProject's ordering in reverse.
func (srv *portfolioService) RemoveProject(ctx context.Context, profileID, projectID bson.ObjectID) error {
	var profile entity.Profile
	if err := srv.store.FindByIDRequired(ctx, entity.CollectionProfiles, profileID, &profile); err != nil {
		return errors.Wrap(err, "failed to load profile")
	}

	kept := profile.ProjectIDs[:0]
	for _, id := range profile.ProjectIDs {
		if id != projectID {
			kept = append(kept, id)
		}
	}
	profile.ProjectIDs = kept

	if err := srv.store.Save(ctx, &profile); err != nil {
		return errors.Wrap(err, "failed to detach project from profile")
	}
	if err := srv.store.RemoveMany(ctx, entity.CollectionProjects, store.Filter{"_id": projectID}); err != nil {
		return errors.Wrap(err, "failed to delete project")
	}

	return nil
}

// ListProjects returns the profile's projects in insertion order.
func (srv *portfolioService) ListProjects(ctx context.Context, profileID bson.ObjectID) ([]entity.Project, error) {
	var profile entity.Profile
	if err := srv.store.FindByIDRequired(ctx, entity.CollectionProfiles, profileID, &profile); err != nil {
		return nil, errors.Wrap(err, "failed to load profile")
	}
	if len(profile.ProjectIDs) == 0 {
		return []entity.Project{}, nil
	}

	var projects []entity.Project
	if err := srv.store.Find(ctx, entity.CollectionProjects,
		store.Filter{"_id": bson.M{"$in": profile.ProjectIDs}}, &projects); err != nil {
		return nil, errors.Wrap(err, "failed to list projects")
	}

	byID := make(map[bson.ObjectID]entity.Project, len(projects))
	for _, project := range projects {
		byID[project.ID] = project
	}
	ordered := make([]entity.Project, 0, len(projects))
	for _, id := range profile.ProjectIDs {
		if project, ok := byID[id]; ok {
			ordered = append(ordered, project)
		}
	}

	return ordered, nil
}

// AddSkill stores the skill first, then appends it to the profile.
func (srv *portfolioService) AddSkill(ctx context.Context, profileID bson.ObjectID, input *usecase.AddSkillInput) (*entity.Skill, error) {
	var profile entity.Profile
	if err := srv.store.FindByIDRequired(ctx, entity.CollectionProfiles, profileID, &profile); err != nil {
		return nil, errors.Wrap(err, "failed to load profile")
	}

	skill := &entity.Skill{Name: input.Name}
	if err := srv.store.Save(ctx, skill); err != nil {
		return nil, errors.Wrap(err, "failed to create skill")
	}

	profile.SkillIDs = append(profile.SkillIDs, skill.ID)
	if err := srv.store.Save(ctx, &profile); err != nil {
		return nil, errors.Wrap(err, "failed to attach skill to profile")
	}

	return skill, nil
}

// RemoveSkill detaches the skill from the profile before deleting it.
func (srv *portfolioService) RemoveSkill(ctx context.Context, profileID, skillID bson.ObjectID) error {
	var profile entity.Profile
	if err := srv.store.FindByIDRequired(ctx, entity.CollectionProfiles, profileID, &profile); err != nil {
		return errors.Wrap(err, "failed to load profile")
	}

	kept := profile.SkillIDs[:0]
	for _, id := range profile.SkillIDs {
		if id != skillID {
			kept = append(kept, id)
		}
	}
	profile.SkillIDs = kept

	if err := srv.store.Save(ctx, &profile); err != nil {
		return errors.Wrap(err, "failed to detach skill from profile")
	}
	if err := srv.store.RemoveMany(ctx, entity.CollectionSkills, store.Filter{"_id": skillID}); err != nil {
		return errors.Wrap(err, "failed to delete skill")
	}

	return nil
}
