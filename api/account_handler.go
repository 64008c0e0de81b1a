package api

import (
	"net/http"

	"github.com/jhzhou002/blog-yk/database"
	"github.com/jhzhou002/blog-yk/errs"
	"github.com/jhzhou002/blog-yk/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

type accountHandler struct {
	responder Responder
	logger    zerolog.Logger
	userRepo  *database.UserRepo
	jwtSecret []byte
}

func newAccountHandler(userRepo *database.UserRepo, jwtSecret []byte) accountHandler {
	logger := log.With().Str("handlerName", "accountHandler").Logger()

	return accountHandler{
		responder: NewResponder(logger),
		logger:    logger,
		userRepo:  userRepo,
		jwtSecret: jwtSecret,
	}
}

// register creates a new account and its profile row. Profile creation is an
// explicit step here, not a side effect of the user insert.
func (h accountHandler) register() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if apiErr := decodeAndValidate(r, &req); apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		if _, err := h.userRepo.FindByUsername(req.Username); err == nil {
			h.responder.WriteError(w, errs.NewConflictError("username already taken"))
			return
		}
		if _, err := h.userRepo.FindByEmail(req.Email); err == nil {
			h.responder.WriteError(w, errs.NewConflictError("email already registered"))
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			h.logger.Error().Err(err).Msg("Failed to hash password")
			h.responder.WriteError(w, errs.NewInternalError("failed to create account"))
			return
		}

		user := models.User{
			Username:     req.Username,
			Email:        req.Email,
			PasswordHash: string(hash),
		}
		if err := h.userRepo.Add(&user); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create user", "users", err))
			return
		}

		profile := models.Profile{UserID: user.ID}
		if err := h.userRepo.AddProfile(&profile); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create profile", "profiles", err))
			return
		}

		token, err := issueToken(&user, h.jwtSecret)
		if err != nil {
			h.logger.Error().Err(err).Msg("Failed to issue token")
			h.responder.WriteError(w, errs.NewInternalError("failed to create session"))
			return
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, map[string]interface{}{
			"token": token,
			"user":  user,
		})
	}
}

// login verifies credentials and issues an access token
func (h accountHandler) login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if apiErr := decodeAndValidate(r, &req); apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		user, err := h.userRepo.FindByUsername(req.Username)
		if err != nil {
			// same response as a bad password, no user enumeration
			h.responder.WriteError(w, errs.NewUnauthorizedError("invalid credentials"))
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
			h.responder.WriteError(w, errs.NewUnauthorizedError("invalid credentials"))
			return
		}

		token, err := issueToken(user, h.jwtSecret)
		if err != nil {
			h.logger.Error().Err(err).Msg("Failed to issue token")
			h.responder.WriteError(w, errs.NewInternalError("failed to create session"))
			return
		}

		h.responder.WriteJSON(w, map[string]interface{}{
			"token": token,
			"user":  user,
		})
	}
}

// getProfile returns the requester's account with profile
func (h accountHandler) getProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := ctxGetUser(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.Unauthorized)
			return
		}

		h.responder.WriteJSON(w, user)
	}
}

// updateProfile saves the requester's profile fields
func (h accountHandler) updateProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := ctxGetUser(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.Unauthorized)
			return
		}

		var req updateProfileRequest
		if apiErr := decodeAndValidate(r, &req); apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		profile, err := h.userRepo.FindProfileByUserID(user.ID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find profile", "profiles", err))
			return
		}

		profile.Avatar = req.Avatar
		profile.Bio = req.Bio
		profile.Website = req.Website
		profile.Github = req.Github
		profile.Location = req.Location

		if err := h.userRepo.UpdateProfile(profile); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update profile", "profiles", err))
			return
		}

		h.responder.WriteJSON(w, profile)
	}
}
