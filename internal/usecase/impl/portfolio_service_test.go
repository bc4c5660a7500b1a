package impl

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"folio/internal/domain/entity"
	"folio/internal/domain/fault"
	"folio/internal/domain/store"
	"folio/internal/infra/persistence/memory"
	"folio/internal/usecase"
)

func newPortfolioFixture(t *testing.T) (store.Store, usecase.PortfolioUsecase, bson.ObjectID) {
	t.Helper()

	docStore := memory.NewStore()
	service := NewPortfolioService(PortfolioServiceParams{Store: docStore, Logger: discardLogger()})

	profile := &entity.Profile{}
	require.NoError(t, docStore.Save(context.Background(), profile))

	return docStore, service, profile.ID
}

func strPtr(s string) *string { return &s }

func TestPortfolioService_GetProfile_UnknownIsNotFound(t *testing.T) {
	_, service, _ := newPortfolioFixture(t)

	_, err := service.GetProfile(context.Background(), bson.NewObjectID())
	require.Error(t, err)
	assert.Equal(t, fault.NotFound, fault.KindOf(err))
}

func TestPortfolioService_UpdateProfile_PartialPatch(t *testing.T) {
	_, service, profileID := newPortfolioFixture(t)
	ctx := context.Background()

	profile, err := service.UpdateProfile(ctx, profileID, &usecase.UpdateProfileInput{
		Name:     strPtr("Ada"),
		Username: strPtr("ada"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Ada", profile.Name)
	assert.Equal(t, "ada", profile.Username)
	assert.False(t, profile.Complete)

	// A later patch must not erase the earlier fields.
	profile, err = service.UpdateProfile(ctx, profileID, &usecase.UpdateProfileInput{
		Profession: strPtr("engineer"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Ada", profile.Name)
	assert.Equal(t, "engineer", profile.Profession)
}

func TestPortfolioService_UpsertContact_CreatesThenPoints(t *testing.T) {
	docStore, service, profileID := newPortfolioFixture(t)
	ctx := context.Background()

	contact, err := service.UpsertContact(ctx, profileID, &usecase.UpsertContactInput{
		Address: "Somewhere 1",
		Phone:   "12 34 56 78",
	})
	require.NoError(t, err)
	assert.False(t, contact.ID.IsZero())
	assert.True(t, contact.Complete)

	var profile entity.Profile
	require.NoError(t, docStore.FindByIDRequired(ctx, entity.CollectionProfiles, profileID, &profile))
	assert.Equal(t, contact.ID, profile.ContactID)
}

func TestPortfolioService_UpsertContact_UpdatesInPlace(t *testing.T) {
	docStore, service, profileID := newPortfolioFixture(t)
	ctx := context.Background()

	first, err := service.UpsertContact(ctx, profileID, &usecase.UpsertContactInput{
		Address: "Somewhere 1",
		Phone:   "12 34 56 78",
	})
	require.NoError(t, err)

	second, err := service.UpsertContact(ctx, profileID, &usecase.UpsertContactInput{
		Address: "Elsewhere 2",
		Phone:   "12 34 56 78",
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	count, err := docStore.Count(ctx, entity.CollectionContacts, store.Filter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	var contact entity.Contact
	require.NoError(t, docStore.FindByIDRequired(ctx, entity.CollectionContacts, first.ID, &contact))
	assert.Equal(t, "Elsewhere 2", contact.Address)
}

func TestPortfolioService_UpsertContact_InvalidPhone(t *testing.T) {
	_, service, profileID := newPortfolioFixture(t)

	_, err := service.UpsertContact(context.Background(), profileID, &usecase.UpsertContactInput{
		Address: "Somewhere 1",
		Phone:   "11",
	})
	require.Error(t, err)
	assert.Equal(t, fault.Validation, fault.KindOf(err))
}

func TestPortfolioService_UpsertSocialMedia_DerivesCompleteness(t *testing.T) {
	_, service, profileID := newPortfolioFixture(t)
	ctx := context.Background()

	partial, err := service.UpsertSocialMedia(ctx, profileID, &usecase.UpsertSocialMediaInput{
		GitHub: "https://github.com/ada",
	})
	require.NoError(t, err)
	assert.False(t, partial.Complete)

	full, err := service.UpsertSocialMedia(ctx, profileID, &usecase.UpsertSocialMediaInput{
		Facebook: "https://facebook.com/ada",
		LinkedIn: "https://linkedin.com/in/ada",
		GitHub:   "https://github.com/ada",
	})
	require.NoError(t, err)
	assert.Equal(t, partial.ID, full.ID)
	assert.True(t, full.Complete)
}

func TestPortfolioService_AddAndListProjects(t *testing.T) {
	_, service, profileID := newPortfolioFixture(t)
	ctx := context.Background()

	first, err := service.AddProject(ctx, profileID, &usecase.AddProjectInput{
		Title:          "folio",
		Description:    "portfolio backend",
		Technologies:   []string{"go"},
		GithubLink:     "https://example.com/folio",
		BuildingReason: "learning",
	})
	require.NoError(t, err)
	second, err := service.AddProject(ctx, profileID, &usecase.AddProjectInput{
		Title:          "radar",
		Description:    "another one",
		Technologies:   []string{"go", "postgres"},
		GithubLink:     "https://example.com/radar",
		BuildingReason: "fun",
	})
	require.NoError(t, err)

	projects, err := service.ListProjects(ctx, profileID)
	require.NoError(t, err)
	require.Len(t, projects, 2)
	// Insertion order is preserved.
	assert.Equal(t, first.ID, projects[0].ID)
	assert.Equal(t, second.ID, projects[1].ID)
}

func TestPortfolioService_AddProject_InvalidInput(t *testing.T) {
	_, service, profileID := newPortfolioFixture(t)

	_, err := service.AddProject(context.Background(), profileID, &usecase.AddProjectInput{
		Title: "missing everything else",
	})
	require.Error(t, err)
	assert.Equal(t, fault.Database, fault.KindOf(err))
}

func TestPortfolioService_RemoveProject(t *testing.T) {
	docStore, service, profileID := newPortfolioFixture(t)
	ctx := context.Background()

	project, err := service.AddProject(ctx, profileID, &usecase.AddProjectInput{
		Title:          "folio",
		Description:    "portfolio backend",
		Technologies:   []string{"go"},
		GithubLink:     "https://example.com/folio",
		BuildingReason: "learning",
	})
	require.NoError(t, err)

	require.NoError(t, service.RemoveProject(ctx, profileID, project.ID))

	projects, err := service.ListProjects(ctx, profileID)
	require.NoError(t, err)
	assert.Empty(t, projects)

	count, err := docStore.Count(ctx, entity.CollectionProjects, store.Filter{})
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestPortfolioService_CompletenessAfterFullBuildOut(t *testing.T) {
	_, service, profileID := newPortfolioFixture(t)
	ctx := context.Background()

	_, err := service.UpsertContact(ctx, profileID, &usecase.UpsertContactInput{
		Address: "Somewhere 1", Phone: "12 34 56 78",
	})
	require.NoError(t, err)
	_, err = service.AddProject(ctx, profileID, &usecase.AddProjectInput{
		Title:          "folio",
		Description:    "portfolio backend",
		Technologies:   []string{"go"},
		GithubLink:     "https://example.com/folio",
		BuildingReason: "learning",
	})
	require.NoError(t, err)
	_, err = service.AddSkill(ctx, profileID, &usecase.AddSkillInput{Name: "go"})
	require.NoError(t, err)

	profile, err := service.UpdateProfile(ctx, profileID, &usecase.UpdateProfileInput{
		Name:         strPtr("Ada"),
		PersonalText: strPtr("hello"),
		Username:     strPtr("ada"),
		AboutText:    strPtr("about"),
		Profession:   strPtr("engineer"),
		ProfileImage: strPtr("ada.png"),
	})
	require.NoError(t, err)
	assert.True(t, profile.Complete)

	populated, err := service.GetProfile(ctx, profileID)
	require.NoError(t, err)
	require.NotNil(t, populated.Contact)
	assert.Len(t, populated.Projects, 1)
	assert.Len(t, populated.Skills, 1)
}
