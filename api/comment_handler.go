package api

import (
	"net"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/jhzhou002/blog-yk/config"
	"github.com/jhzhou002/blog-yk/database"
	"github.com/jhzhou002/blog-yk/errs"
	"github.com/jhzhou002/blog-yk/models"
	"github.com/jhzhou002/blog-yk/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type commentHandler struct {
	responder   Responder
	logger      zerolog.Logger
	postRepo    *database.PostRepo
	commentRepo *database.CommentRepo
	settings    config.SiteSettings
}

func newCommentHandler(db database.Database, settings config.SiteSettings) commentHandler {
	logger := log.With().Str("handlerName", "commentHandler").Logger()

	return commentHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		postRepo:    db.PostRepo(),
		commentRepo: db.CommentRepo(),
		settings:    settings,
	}
}

// submitComment stores a new comment on a published post. A logged-in
// submitter is recorded as the author; otherwise the guest name and email from
// the body are used, which requires anonymous comments to be enabled. With
// moderation on, the comment starts hidden and the moderator may be notified
// by email.
func (h commentHandler) submitComment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "slug")
		if slug == "" {
			h.responder.WriteError(w, errs.NewBadRequestError("missing slug"))
			return
		}

		var req submitCommentRequest
		if apiErr := decodeAndValidate(r, &req); apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		post, err := h.postRepo.FindBySlug(slug)
		if err != nil {
			if database.IsNotFound(err) {
				h.responder.WriteError(w, errs.NewNotFoundError("post not found"))
				return
			}
			h.responder.WriteError(w, wrapDatabaseError("find post", "posts", err))
			return
		}
		if !post.Published() {
			h.responder.WriteError(w, errs.NewNotFoundError("post not found"))
			return
		}

		comment := models.Comment{
			PostID:     post.ID,
			Content:    req.Content,
			IsApproved: !h.settings.CommentModeration,
			IPAddress:  clientIP(r),
		}

		if user, ctxErr := ctxGetUser(r.Context()); ctxErr == nil {
			comment.UserID = &user.ID
			// carry the association too so the display name resolves to the
			// user's handle in the response and the moderation notification
			comment.User = user
		} else {
			if !h.settings.AllowAnonymousComments {
				h.responder.WriteError(w, errs.NewUnauthorizedError("log in to comment"))
				return
			}
			comment.Name = req.Name
			comment.Email = req.Email
		}

		if err := h.commentRepo.Add(&comment, req.ParentID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create comment", "comments", err))
			return
		}

		if !comment.IsApproved && h.settings.NotifyModerationByEmail {
			services.NotifyCommentPending(h.settings.ModerationEmail, post.Title, comment.DisplayName())
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, map[string]interface{}{
			"id":       comment.ID,
			"approved": comment.IsApproved,
			"author":   comment.DisplayName(),
		})
	}
}

// clientIP extracts the submitter address, preferring the first entry of
// X-Forwarded-For when the server sits behind a proxy.
func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		return strings.TrimSpace(parts[0])
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
