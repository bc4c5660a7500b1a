package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"folio/config"
	"folio/internal/domain/entity"
	"folio/internal/domain/fault"
	"folio/internal/domain/store"
	"folio/internal/errors"
	"folio/internal/infra/auth"
	"folio/internal/infra/persistence/memory"
	"folio/internal/usecase"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newAccountService(docStore store.Store) usecase.AccountUsecase {
	cfg := &config.Config{Auth: &config.AuthConfig{BcryptCost: 4}}

	return NewAccountService(AccountServiceParams{
		Store:  docStore,
		Hasher: auth.NewBcryptHasher(cfg),
		Tokens: auth.NewUUIDTokenSource(),
		Logger: discardLogger(),
	})
}

// profileSaveFailingStore fails every profile save, leaving the rest of
// the store untouched.
type profileSaveFailingStore struct {
	store.Store
}

func (s *profileSaveFailingStore) Save(ctx context.Context, doc store.Document) error {
	if _, ok := doc.(*entity.Profile); ok {
		return errors.New("profile save refused")
	}

	return s.Store.Save(ctx, doc)
}

func TestAccountService_Register_Success(t *testing.T) {
	docStore := memory.NewStore()
	service := newAccountService(docStore)
	ctx := context.Background()

	output, err := service.Register(ctx, &usecase.RegisterInput{
		Email:    "ada@example.com",
		Password: "correct horse battery staple",
	})
	require.NoError(t, err)
	assert.False(t, output.ID.IsZero())
	assert.False(t, output.ProfileID.IsZero())
	assert.Equal(t, "ada@example.com", output.Email)

	var credential entity.Credential
	require.NoError(t, docStore.FindByIDRequired(ctx, entity.CollectionCredentials,
		output.ID, &credential, store.Fields("password")))
	assert.Equal(t, output.ProfileID, credential.ProfileID)
	// The plaintext never reaches the store.
	assert.NotEmpty(t, credential.PasswordHash)
	assert.NotEqual(t, "correct horse battery staple", credential.PasswordHash)

	var profile entity.Profile
	require.NoError(t, docStore.FindByIDRequired(ctx, entity.CollectionProfiles, output.ProfileID, &profile))
	assert.False(t, profile.Complete)
}

func TestAccountService_Register_ShortPassword(t *testing.T) {
	service := newAccountService(memory.NewStore())

	_, err := service.Register(context.Background(), &usecase.RegisterInput{
		Email:    "ada@example.com",
		Password: "short",
	})
	require.Error(t, err)
	assert.Equal(t, fault.Validation, fault.KindOf(err))
}

func TestAccountService_Register_DuplicateEmail(t *testing.T) {
	service := newAccountService(memory.NewStore())
	ctx := context.Background()

	input := &usecase.RegisterInput{Email: "ada@example.com", Password: "correct horse battery staple"}
	_, err := service.Register(ctx, input)
	require.NoError(t, err)

	_, err = service.Register(ctx, input)
	require.Error(t, err)
	assert.Equal(t, fault.Database, fault.KindOf(err))
}

func TestAccountService_Register_CompensatesCredentialOnProfileFailure(t *testing.T) {
	docStore := memory.NewStore()
	service := newAccountService(&profileSaveFailingStore{Store: docStore})
	ctx := context.Background()

	_, err := service.Register(ctx, &usecase.RegisterInput{
		Email:    "ada@example.com",
		Password: "correct horse battery staple",
	})
	require.Error(t, err)

	// The credential created by the first step must be gone again.
	count, err := docStore.Count(ctx, entity.CollectionCredentials, store.Filter{})
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestAccountService_Login_Success(t *testing.T) {
	docStore := memory.NewStore()
	service := newAccountService(docStore)
	ctx := context.Background()

	registered, err := service.Register(ctx, &usecase.RegisterInput{
		Email:    "ada@example.com",
		Password: "correct horse battery staple",
	})
	require.NoError(t, err)

	output, err := service.Login(ctx, &usecase.LoginInput{
		Email:    "ada@example.com",
		Password: "correct horse battery staple",
	})
	require.NoError(t, err)
	assert.Equal(t, registered.ID, output.ID)
	assert.NotEmpty(t, output.SessionToken)

	var credential entity.Credential
	require.NoError(t, docStore.FindByIDRequired(ctx, entity.CollectionCredentials,
		output.ID, &credential, store.Fields("sessionToken", "password")))
	assert.Equal(t, output.SessionToken, credential.SessionToken)
	// The hash must survive the token rotation.
	assert.NotEmpty(t, credential.PasswordHash)
}

func TestAccountService_Login_RotatesToken(t *testing.T) {
	service := newAccountService(memory.NewStore())
	ctx := context.Background()

	_, err := service.Register(ctx, &usecase.RegisterInput{
		Email:    "ada@example.com",
		Password: "correct horse battery staple",
	})
	require.NoError(t, err)

	input := &usecase.LoginInput{Email: "ada@example.com", Password: "correct horse battery staple"}
	first, err := service.Login(ctx, input)
	require.NoError(t, err)
	second, err := service.Login(ctx, input)
	require.NoError(t, err)

	assert.NotEqual(t, first.SessionToken, second.SessionToken)
}

func TestAccountService_Login_WrongPassword(t *testing.T) {
	service := newAccountService(memory.NewStore())
	ctx := context.Background()

	_, err := service.Register(ctx, &usecase.RegisterInput{
		Email:    "ada@example.com",
		Password: "correct horse battery staple",
	})
	require.NoError(t, err)

	_, err = service.Login(ctx, &usecase.LoginInput{
		Email:    "ada@example.com",
		Password: "wrong horse battery staple",
	})
	require.Error(t, err)
	assert.Equal(t, fault.Restriction, fault.KindOf(err))
}

func TestAccountService_Login_UnknownEmailLooksLikeWrongPassword(t *testing.T) {
	service := newAccountService(memory.NewStore())

	_, err := service.Login(context.Background(), &usecase.LoginInput{
		Email:    "nobody@example.com",
		Password: "correct horse battery staple",
	})
	require.Error(t, err)
	assert.Equal(t, fault.Restriction, fault.KindOf(err))
}

func TestAccountService_DeleteAccount_WrongPasswordIsValidation(t *testing.T) {
	docStore := memory.NewStore()
	service := newAccountService(docStore)
	ctx := context.Background()

	registered, err := service.Register(ctx, &usecase.RegisterInput{
		Email:    "ada@example.com",
		Password: "correct horse battery staple",
	})
	require.NoError(t, err)

	err = service.DeleteAccount(ctx, registered.ID, &usecase.DeleteAccountInput{Password: "wrong"})
	require.Error(t, err)
	// A wrong re-auth password is a validation failure, not the
	// unauthorized denial the gate hands out.
	assert.Equal(t, fault.Validation, fault.KindOf(err))

	count, err := docStore.Count(ctx, entity.CollectionCredentials, store.Filter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestAccountService_DeleteAccount_RemovesEverythingOwned(t *testing.T) {
	docStore := memory.NewStore()
	accountService := newAccountService(docStore)
	portfolioService := NewPortfolioService(PortfolioServiceParams{Store: docStore, Logger: discardLogger()})
	ctx := context.Background()

	registered, err := accountService.Register(ctx, &usecase.RegisterInput{
		Email:    "ada@example.com",
		Password: "correct horse battery staple",
	})
	require.NoError(t, err)

	_, err = portfolioService.UpsertContact(ctx, registered.ProfileID, &usecase.UpsertContactInput{
		Address: "Somewhere 1", Phone: "12 34 56 78",
	})
	require.NoError(t, err)
	_, err = portfolioService.UpsertSocialMedia(ctx, registered.ProfileID, &usecase.UpsertSocialMediaInput{
		GitHub: "https://github.com/ada",
	})
	require.NoError(t, err)
	_, err = portfolioService.AddProject(ctx, registered.ProfileID, &usecase.AddProjectInput{
		Title:          "folio",
		Description:    "portfolio backend",
		Technologies:   []string{"go"},
		GithubLink:     "https://example.com/folio",
		BuildingReason: "learning",
	})
	require.NoError(t, err)
	_, err = portfolioService.AddSkill(ctx, registered.ProfileID, &usecase.AddSkillInput{Name: "go"})
	require.NoError(t, err)

	err = accountService.DeleteAccount(ctx, registered.ID,
		&usecase.DeleteAccountInput{Password: "correct horse battery staple"})
	require.NoError(t, err)

	for _, collection := range []string{
		entity.CollectionCredentials,
		entity.CollectionProfiles,
		entity.CollectionContacts,
		entity.CollectionSocialMedia,
		entity.CollectionProjects,
		entity.CollectionSkills,
	} {
		count, err := docStore.Count(ctx, collection, store.Filter{})
		require.NoError(t, err)
		assert.Zero(t, count, collection)
	}
}

func TestAccountService_DeleteAccount_UnknownCredentialIsNotFound(t *testing.T) {
	service := newAccountService(memory.NewStore())

	err := service.DeleteAccount(context.Background(), bson.NewObjectID(),
		&usecase.DeleteAccountInput{Password: "whatever"})
	require.Error(t, err)
	assert.Equal(t, fault.NotFound, fault.KindOf(err))
}
