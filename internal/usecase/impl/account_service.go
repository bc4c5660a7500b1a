// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/fx"
	"golang.org/x/sync/errgroup"

	deliverycontext "folio/internal/delivery/context"
	"folio/internal/domain/entity"
	"folio/internal/domain/fault"
	"folio/internal/domain/service"
	"folio/internal/domain/store"
	"folio/internal/saga"
	"folio/internal/usecase"
)

// accountService implements the AccountUsecase interface.
type accountService struct {
	store  store.Store
	hasher service.PasswordHasher
	tokens service.TokenSource
	logger *slog.Logger
}

// AccountServiceParams holds dependencies for accountService, injected by Fx.
type AccountServiceParams struct {
	fx.In

	Store  store.Store
	Hasher service.PasswordHasher
	Tokens service.TokenSource
	Logger *slog.Logger
}

// NewAccountService is the constructor for accountService.
func NewAccountService(params AccountServiceParams) usecase.AccountUsecase {
	return &accountService{
		store:  params.Store,
		hasher: params.Hasher,
		tokens: params.Tokens,
		logger: params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *accountService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register creates the credential and its empty profile as a unit. The
// profile write can fail after the credential committed, so the created
// credential is compensated away on any later step failure.
func (srv *accountService) Register(ctx context.Context, input *usecase.RegisterInput) (*usecase.RegisterOutput, error) {
	const fn = "AccountService.Register"

	srv.log(ctx).Info("Starting registration", slog.String("email", input.Email))

	if err := entity.ValidateVar(input.Password, entity.SecretRule); err != nil {
		return nil, fault.New(fault.Validation, fn, "The password must be between 8 and 128 characters long.")
	}

	hash, err := srv.hasher.Hash(input.Password)
	if err != nil {
		return nil, errors.Wrap(err, "failed to hash password")
	}

	credential := &entity.Credential{Email: input.Email, PasswordHash: hash}
	profile := &entity.Profile{}

	registration := saga.New(srv.log(ctx),
		saga.Step{
			Name: "create-credential",
			Action: func(ctx context.Context) error {
				return srv.store.Save(ctx, credential)
			},
			Compensate: func(ctx context.Context) error {
				return srv.store.RemoveMany(ctx, entity.CollectionCredentials, store.Filter{"_id": credential.ID})
			},
		},
		saga.Step{
			Name: "create-profile",
			Action: func(ctx context.Context) error {
				return srv.store.Save(ctx, profile)
			},
			Compensate: func(ctx context.Context) error {
				return srv.store.RemoveMany(ctx, entity.CollectionProfiles, store.Filter{"_id": profile.ID})
			},
		},
		saga.Step{
			Name: "link-profile",
			Action: func(ctx context.Context) error {
				return srv.store.Update(ctx, entity.CollectionCredentials,
					store.Filter{"_id": credential.ID}, store.Patch{"profileId": profile.ID})
			},
		},
	)

	if err := registration.Run(ctx); err != nil {
		srv.log(ctx).Error("Registration failed", slog.String("email", input.Email), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to register account")
	}

	srv.log(ctx).Debug("Registration completed", slog.Any("credentialID", credential.ID))

	return &usecase.RegisterOutput{
		ID:        credential.ID,
		Email:     credential.Email,
		ProfileID: profile.ID,
	}, nil
}

// Login verifies the secret against the stored hash and rotates the
// session token. Both an unknown email and a wrong password collapse
// into the same unauthorized failure so the response does not reveal
// which accounts exist.
func (srv *accountService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.LoginOutput, error) {
	const fn = "AccountService.Login"

	var credential entity.Credential
	found, err := srv.store.FindOne(ctx, entity.CollectionCredentials,
		store.Filter{"email": input.Email}, &credential, store.Fields("password"))
	if err != nil {
		return nil, errors.Wrap(err, "failed to look up credential")
	}
	if !found || !srv.hasher.Check(input.Password, credential.PasswordHash) {
		return nil, fault.Unauthorized(fn, "The email or password is incorrect.")
	}

	credential.SessionToken = srv.tokens.NewSessionToken()
	if err := srv.store.Save(ctx, &credential); err != nil {
		return nil, errors.Wrap(err, "failed to persist session token")
	}

	srv.log(ctx).Debug("Login completed", slog.Any("credentialID", credential.ID))

	return &usecase.LoginOutput{ID: credential.ID, SessionToken: credential.SessionToken}, nil
}

// DeleteAccount re-authenticates with the plaintext secret and then
// removes the credential, the profile, and every profile-owned
// sub-document. The removals are independent and run in parallel; each
// is idempotent so a partially failed delete can be retried.
func (srv *accountService) DeleteAccount(ctx context.Context, credentialID bson.ObjectID, input *usecase.DeleteAccountInput) error {
	const fn = "AccountService.DeleteAccount"

	var credential entity.Credential
	if err := srv.store.FindByIDRequired(ctx, entity.CollectionCredentials,
		credentialID, &credential, store.Fields("password")); err != nil {
		return errors.Wrap(err, "failed to load credential")
	}

	if !srv.hasher.Check(input.Password, credential.PasswordHash) {
		return fault.New(fault.Validation, fn, "The provided password does not match the account password.")
	}

	var profile entity.Profile
	hasProfile := false
	if !credential.ProfileID.IsZero() {
		found, err := srv.store.FindByID(ctx, entity.CollectionProfiles, credential.ProfileID, &profile)
		if err != nil {
			return errors.Wrap(err, "failed to load profile")
		}
		hasProfile = found
	}

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		return srv.store.RemoveMany(groupCtx, entity.CollectionCredentials, store.Filter{"_id": credentialID})
	})
	if !credential.ProfileID.IsZero() {
		profileID := credential.ProfileID
		group.Go(func() error {
			return srv.store.RemoveMany(groupCtx, entity.CollectionProfiles, store.Filter{"_id": profileID})
		})
	}
	if hasProfile {
		if !profile.ContactID.IsZero() {
			contactID := profile.ContactID
			group.Go(func() error {
				return srv.store.RemoveMany(groupCtx, entity.CollectionContacts, store.Filter{"_id": contactID})
			})
		}
		if !profile.SocialMediaID.IsZero() {
			socialMediaID := profile.SocialMediaID
			group.Go(func() error {
				return srv.store.RemoveMany(groupCtx, entity.CollectionSocialMedia, store.Filter{"_id": socialMediaID})
			})
		}
		if len(profile.ProjectIDs) > 0 {
			projectIDs := profile.ProjectIDs
			group.Go(func() error {
				return srv.store.RemoveMany(groupCtx, entity.CollectionProjects, store.Filter{"_id": bson.M{"$in": projectIDs}})
			})
		}
		if len(profile.SkillIDs) > 0 {
			skillIDs := profile.SkillIDs
			group.Go(func() error {
				return srv.store.RemoveMany(groupCtx, entity.CollectionSkills, store.Filter{"_id": bson.M{"$in": skillIDs}})
			})
		}
	}

	if err := group.Wait(); err != nil {
		srv.log(ctx).Error("Account deletion failed", slog.Any("credentialID", credentialID), slog.Any("error", err))

		return errors.Wrap(err, "failed to delete account")
	}

	srv.log(ctx).Info("Account deleted", slog.Any("credentialID", credentialID))

	return nil
}
