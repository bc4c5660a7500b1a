package handler

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/v2/bson"

	deliverycontext "folio/internal/delivery/context"
	"folio/internal/delivery/http/response"
	"folio/internal/domain/fault"
	"folio/internal/usecase"
)

// PortfolioHandler holds dependencies for profile-related handlers.
type PortfolioHandler struct {
	uc     usecase.PortfolioUsecase
	logger *slog.Logger
}

// NewPortfolioHandler is the constructor for PortfolioHandler, injected by Fx.
func NewPortfolioHandler(uc usecase.PortfolioUsecase, logger *slog.Logger) *PortfolioHandler {
	return &PortfolioHandler{
		uc:     uc,
		logger: logger,
	}
}

// ownProfileID resolves the authenticated caller's profile id.
func ownProfileID(c echo.Context, fn string) (bson.ObjectID, error) {
	credential, ok := deliverycontext.GetCredential(c.Request().Context())
	if !ok {
		return bson.ObjectID{}, fault.Unauthorized(fn, "No authenticated credential attached to the request.")
	}
	if credential.ProfileID.IsZero() {
		return bson.ObjectID{}, fault.Missing(fn, "The account has no profile.")
	}

	return credential.ProfileID, nil
}

// pathID parses an object id path parameter.
func pathID(c echo.Context, name, fn string) (bson.ObjectID, error) {
	id, err := bson.ObjectIDFromHex(c.Param(name))
	if err != nil {
		return bson.ObjectID{}, fault.New(fault.Validation, fn, "The "+name+" path parameter is not a valid id.")
	}

	return id, nil
}

// GetProfile returns the caller's profile with references resolved.
func (h *PortfolioHandler) GetProfile(c echo.Context) error {
	profileID, err := ownProfileID(c, "PortfolioHandler.GetProfile")
	if err != nil {
		return err
	}

	profile, err := h.uc.GetProfile(c.Request().Context(), profileID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, profile)
}

// GetPublicProfile returns any profile by id, for rendering a
// portfolio page without a session.
func (h *PortfolioHandler) GetPublicProfile(c echo.Context) error {
	profileID, err := pathID(c, "profileID", "PortfolioHandler.GetPublicProfile")
	if err != nil {
		return err
	}

	profile, err := h.uc.GetProfile(c.Request().Context(), profileID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, profile)
}

// UpdateProfile patches the caller's profile scalars.
func (h *PortfolioHandler) UpdateProfile(c echo.Context) error {
	const fn = "PortfolioHandler.UpdateProfile"

	profileID, err := ownProfileID(c, fn)
	if err != nil {
		return err
	}

	var input *usecase.UpdateProfileInput
	if err := c.Bind(&input); err != nil {
		return fault.New(fault.Validation, fn, "Invalid profile input.")
	}

	profile, err := h.uc.UpdateProfile(c.Request().Context(), profileID, input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, profile)
}

// UpsertContact creates or replaces the caller's contact card.
func (h *PortfolioHandler) UpsertContact(c echo.Context) error {
	const fn = "PortfolioHandler.UpsertContact"

	profileID, err := ownProfileID(c, fn)
	if err != nil {
		return err
	}

	var input *usecase.UpsertContactInput
	if err := c.Bind(&input); err != nil {
		return fault.New(fault.Validation, fn, "Invalid contact input.")
	}

	contact, err := h.uc.UpsertContact(c.Request().Context(), profileID, input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, contact)
}

// UpsertSocialMedia creates or replaces the caller's social links.
func (h *PortfolioHandler) UpsertSocialMedia(c echo.Context) error {
	const fn = "PortfolioHandler.UpsertSocialMedia"

	profileID, err := ownProfileID(c, fn)
	if err != nil {
		return err
	}

	var input *usecase.UpsertSocialMediaInput
	if err := c.Bind(&input); err != nil {
		return fault.New(fault.Validation, fn, "Invalid social media input.")
	}

	socialMedia, err := h.uc.UpsertSocialMedia(c.Request().Context(), profileID, input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, socialMedia)
}

// ListProjects returns the caller's projects.
func (h *PortfolioHandler) ListProjects(c echo.Context) error {
	profileID, err := ownProfileID(c, "PortfolioHandler.ListProjects")
	if err != nil {
		return err
	}

	projects, err := h.uc.ListProjects(c.Request().Context(), profileID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, projects)
}

// AddProject stores a new project on the caller's profile.
func (h *PortfolioHandler) AddProject(c echo.Context) error {
	const fn = "PortfolioHandler.AddProject"

	profileID, err := ownProfileID(c, fn)
	if err != nil {
		return err
	}

	var input *usecase.AddProjectInput
	if err := c.Bind(&input); err != nil {
		return fault.New(fault.Validation, fn, "Invalid project input.")
	}

	project, err := h.uc.AddProject(c.Request().Context(), profileID, input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, project)
}

// RemoveProject deletes one of the caller's projects.
func (h *PortfolioHandler) RemoveProject(c echo.Context) error {
	const fn = "PortfolioHandler.RemoveProject"

	profileID, err := ownProfileID(c, fn)
	if err != nil {
		return err
	}
	projectID, err := pathID(c, "projectID", fn)
	if err != nil {
		return err
	}

	if err := h.uc.RemoveProject(c.Request().Context(), profileID, projectID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"status": "deleted"})
}

// AddSkill stores a new skill on the caller's profile.
func (h *PortfolioHandler) AddSkill(c echo.Context) error {
	const fn = "PortfolioHandler.AddSkill"

	profileID, err := ownProfileID(c, fn)
	if err != nil {
		return err
	}

	var input *usecase.AddSkillInput
	if err := c.Bind(&input); err != nil {
		return fault.New(fault.Validation, fn, "Invalid skill input.")
	}

	skill, err := h.uc.AddSkill(c.Request().Context(), profileID, input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, skill)
}

// RemoveSkill deletes one of the caller's skills.
func (h *PortfolioHandler) RemoveSkill(c echo.Context) error {
	const fn = "PortfolioHandler.RemoveSkill"

	profileID, err := ownProfileID(c, fn)
	if err != nil {
		return err
	}
	skillID, err := pathID(c, "skillID", fn)
	if err != nil {
		return err
	}

	if err := h.uc.RemoveSkill(c.Request().Context(), profileID, skillID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"status": "deleted"})
}
