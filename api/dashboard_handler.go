package api

import (
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/jhzhou002/blog-yk/database"
	"github.com/jhzhou002/blog-yk/errs"
	"github.com/jhzhou002/blog-yk/models"
	"github.com/jhzhou002/blog-yk/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// maxUploadSize limits dashboard image uploads to 10 MiB
const maxUploadSize = 10 << 20

type dashboardHandler struct {
	responder    Responder
	logger       zerolog.Logger
	postRepo     *database.PostRepo
	categoryRepo *database.CategoryRepo
	tagRepo      *database.TagRepo
	commentRepo  *database.CommentRepo
	userRepo     *database.UserRepo
	uploader     *services.Uploader
}

func newDashboardHandler(db database.Database, uploader *services.Uploader) dashboardHandler {
	logger := log.With().Str("handlerName", "dashboardHandler").Logger()

	return dashboardHandler{
		responder:    NewResponder(logger),
		logger:       logger,
		postRepo:     db.PostRepo(),
		categoryRepo: db.CategoryRepo(),
		tagRepo:      db.TagRepo(),
		commentRepo:  db.CommentRepo(),
		userRepo:     db.UserRepo(),
		uploader:     uploader,
	}
}

// idParam reads a numeric path parameter
func idParam(r *http.Request, name string) (uint, *errs.ApiErr) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, errs.NewBadRequestError("invalid " + name)
	}
	return uint(id), nil
}

// getStats returns the dashboard overview: entity counts, total views and the
// newest activity.
func (h dashboardHandler) getStats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		totalPosts, err := h.postRepo.Count("")
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("count posts", "posts", err))
			return
		}
		publishedPosts, err := h.postRepo.Count(models.StatusPublished)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("count published posts", "posts", err))
			return
		}
		draftPosts, err := h.postRepo.Count(models.StatusDraft)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("count draft posts", "posts", err))
			return
		}
		totalComments, err := h.commentRepo.Count(false)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("count comments", "comments", err))
			return
		}
		pendingComments, err := h.commentRepo.Count(true)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("count pending comments", "comments", err))
			return
		}
		categories, err := h.categoryRepo.Count()
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("count categories", "categories", err))
			return
		}
		tags, err := h.tagRepo.Count()
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("count tags", "tags", err))
			return
		}
		users, err := h.userRepo.Count()
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("count users", "users", err))
			return
		}

		recentPosts, err := h.postRepo.Recent(5)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find recent posts", "posts", err))
			return
		}
		recentComments, err := h.commentRepo.Recent(5)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find recent comments", "comments", err))
			return
		}
		popular, err := h.postRepo.Popular(5)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find popular posts", "posts", err))
			return
		}

		h.responder.WriteJSON(w, map[string]interface{}{
			"totalPosts":      totalPosts,
			"publishedPosts":  publishedPosts,
			"draftPosts":      draftPosts,
			"totalComments":   totalComments,
			"pendingComments": pendingComments,
			"categories":      categories,
			"tags":            tags,
			"users":           users,
			"recentPosts":     recentPosts,
			"recentComments":  recentComments,
			"popularPosts":    popular,
		})
	}
}

// listAllPosts returns one page of posts across every status, filtered by the
// optional search, status and category query parameters.
func (h dashboardHandler) listAllPosts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := database.StaffFilter{
			Search: r.URL.Query().Get("search"),
			Status: r.URL.Query().Get("status"),
		}
		if raw := r.URL.Query().Get("category"); raw != "" {
			categoryID, err := strconv.ParseUint(raw, 10, 64)
			if err != nil {
				h.responder.WriteError(w, errs.NewBadRequestError("invalid category"))
				return
			}
			filter.CategoryID = uint(categoryID)
		}

		posts, info, err := h.postRepo.StaffPage(filter, pageParam(r))
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find posts", "posts", err))
			return
		}

		h.responder.WriteJSON(w, PostPage{Posts: posts, Page: info})
	}
}

// createPost stores a new post authored by the requester
func (h dashboardHandler) createPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := ctxGetUser(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.Unauthorized)
			return
		}

		var req postRequest
		if apiErr := decodeAndValidate(r, &req); apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		tags, apiErr := h.resolveTags(req.TagIDs)
		if apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		post := models.Post{
			Title:      req.Title,
			Content:    req.Content,
			Excerpt:    req.Excerpt,
			CoverImage: req.CoverImage,
			Status:     req.Status,
			IsFeatured: req.IsFeatured,
			CategoryID: req.CategoryID,
			AuthorID:   user.ID,
			Tags:       tags,
		}
		if post.Status == "" {
			post.Status = models.StatusDraft
		}

		if err := h.postRepo.Add(&post); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create post", "posts", err))
			return
		}

		created, err := h.postRepo.FindByID(post.ID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find created post", "posts", err))
			return
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, created)
	}
}

// updatePost saves changes to an existing post. The slug never changes, and
// moving a published post back to draft clears its publication date.
func (h dashboardHandler) updatePost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, apiErr := idParam(r, "postID")
		if apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		post, err := h.postRepo.FindByID(postID)
		if err != nil {
			if database.IsNotFound(err) {
				h.responder.WriteError(w, errs.NewNotFoundError("post not found"))
				return
			}
			h.responder.WriteError(w, wrapDatabaseError("find post", "posts", err))
			return
		}

		var req postRequest
		if apiErr := decodeAndValidate(r, &req); apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		tags, apiErr := h.resolveTags(req.TagIDs)
		if apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		post.Title = req.Title
		post.Content = req.Content
		post.Excerpt = req.Excerpt
		post.CoverImage = req.CoverImage
		post.IsFeatured = req.IsFeatured
		post.CategoryID = req.CategoryID
		if req.Status != "" {
			post.Status = req.Status
		}

		if err := h.postRepo.ReplaceTags(post, tags); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update post tags", "posts", err))
			return
		}
		post.Tags = tags

		if err := h.postRepo.Update(post); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update post", "posts", err))
			return
		}

		updated, err := h.postRepo.FindByID(postID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find updated post", "posts", err))
			return
		}

		h.responder.WriteJSON(w, updated)
	}
}

// deletePost removes a post with its comments and tag links
func (h dashboardHandler) deletePost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, apiErr := idParam(r, "postID")
		if apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		if _, err := h.postRepo.FindByID(postID); err != nil {
			if database.IsNotFound(err) {
				h.responder.WriteError(w, errs.NewNotFoundError("post not found"))
				return
			}
			h.responder.WriteError(w, wrapDatabaseError("find post", "posts", err))
			return
		}

		if err := h.postRepo.Delete(postID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete post", "posts", err))
			return
		}

		h.responder.WriteJSON(w, map[string]string{
			"status":  "success",
			"message": "post deleted successfully",
		})
	}
}

func (h dashboardHandler) resolveTags(ids []uint) ([]models.Tag, *errs.ApiErr) {
	tags, err := h.tagRepo.FindByIDs(ids)
	if err != nil {
		return nil, errs.NewInternalError("failed to load tags")
	}
	if len(tags) != len(ids) {
		return nil, errs.NewBadRequestError("unknown tag id")
	}
	return tags, nil
}

// listComments returns one page of the moderation queue. The approved query
// parameter ("true"/"false") filters by moderation state.
func (h dashboardHandler) listComments() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var approved *bool
		if raw := r.URL.Query().Get("approved"); raw != "" {
			value, err := strconv.ParseBool(raw)
			if err != nil {
				h.responder.WriteError(w, errs.NewBadRequestError("invalid approved filter"))
				return
			}
			approved = &value
		}

		comments, info, err := h.commentRepo.StaffPage(approved, pageParam(r))
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find comments", "comments", err))
			return
		}

		h.responder.WriteJSON(w, map[string]interface{}{
			"comments": comments,
			"page":     info,
		})
	}
}

// approveComment makes a comment publicly visible. Approving twice is a no-op.
func (h dashboardHandler) approveComment() http.HandlerFunc {
	return h.moderateComment("approve", h.commentRepo.Approve)
}

// rejectComment hides a comment from public listings
func (h dashboardHandler) rejectComment() http.HandlerFunc {
	return h.moderateComment("reject", h.commentRepo.Reject)
}

func (h dashboardHandler) moderateComment(action string, apply func(uint) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		commentID, apiErr := idParam(r, "commentID")
		if apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		if err := apply(commentID); err != nil {
			if database.IsNotFound(err) {
				h.responder.WriteError(w, errs.NewNotFoundError("comment not found"))
				return
			}
			h.responder.WriteError(w, wrapDatabaseError(action+" comment", "comments", err))
			return
		}

		h.responder.WriteJSON(w, map[string]string{"status": "success"})
	}
}

// deleteComment removes a comment and its replies
func (h dashboardHandler) deleteComment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		commentID, apiErr := idParam(r, "commentID")
		if apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		if err := h.commentRepo.Delete(commentID); err != nil {
			if database.IsNotFound(err) {
				h.responder.WriteError(w, errs.NewNotFoundError("comment not found"))
				return
			}
			h.responder.WriteError(w, wrapDatabaseError("delete comment", "comments", err))
			return
		}

		h.responder.WriteJSON(w, map[string]string{
			"status":  "success",
			"message": "comment deleted successfully",
		})
	}
}

// createCategory stores a new category
func (h dashboardHandler) createCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req categoryRequest
		if apiErr := decodeAndValidate(r, &req); apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		category := models.Category{
			Name:        req.Name,
			Description: req.Description,
		}
		if err := h.categoryRepo.Add(&category); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create category", "categories", err))
			return
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, category)
	}
}

// updateCategory renames a category; the slug stays stable
func (h dashboardHandler) updateCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categoryID, apiErr := idParam(r, "categoryID")
		if apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		category, err := h.categoryRepo.FindByID(categoryID)
		if err != nil {
			if database.IsNotFound(err) {
				h.responder.WriteError(w, errs.NewNotFoundError("category not found"))
				return
			}
			h.responder.WriteError(w, wrapDatabaseError("find category", "categories", err))
			return
		}

		var req categoryRequest
		if apiErr := decodeAndValidate(r, &req); apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		category.Name = req.Name
		category.Description = req.Description

		if err := h.categoryRepo.Update(category); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update category", "categories", err))
			return
		}

		h.responder.WriteJSON(w, category)
	}
}

// deleteCategory removes a category; its posts stay, uncategorized
func (h dashboardHandler) deleteCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categoryID, apiErr := idParam(r, "categoryID")
		if apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		if _, err := h.categoryRepo.FindByID(categoryID); err != nil {
			if database.IsNotFound(err) {
				h.responder.WriteError(w, errs.NewNotFoundError("category not found"))
				return
			}
			h.responder.WriteError(w, wrapDatabaseError("find category", "categories", err))
			return
		}

		if err := h.categoryRepo.Delete(categoryID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete category", "categories", err))
			return
		}

		h.responder.WriteJSON(w, map[string]string{
			"status":  "success",
			"message": "category deleted successfully",
		})
	}
}

// bulkCreateCategories creates several categories from a name list, skipping
// names that already exist. Colliding slugs get numeric suffixes.
func (h dashboardHandler) bulkCreateCategories() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req bulkNamesRequest
		if apiErr := decodeAndValidate(r, &req); apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		var created []models.Category
		for _, name := range req.Names {
			category := models.Category{
				Name: name,
				Slug: models.UniqueSlug(name, h.categoryRepo.SlugTaken),
			}
			if err := h.categoryRepo.Add(&category); err != nil {
				h.logger.Error().Err(err).Str("name", name).Msg("Failed to create category")
				continue
			}
			created = append(created, category)
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, map[string]interface{}{"created": created})
	}
}

// createTag stores a new tag
func (h dashboardHandler) createTag() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req tagRequest
		if apiErr := decodeAndValidate(r, &req); apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		tag := models.Tag{
			Name:  req.Name,
			Color: req.Color,
		}
		if err := h.tagRepo.Add(&tag); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create tag", "tags", err))
			return
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, tag)
	}
}

// updateTag renames or recolors a tag; the slug stays stable
func (h dashboardHandler) updateTag() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tagID, apiErr := idParam(r, "tagID")
		if apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		tag, err := h.tagRepo.FindByID(tagID)
		if err != nil {
			if database.IsNotFound(err) {
				h.responder.WriteError(w, errs.NewNotFoundError("tag not found"))
				return
			}
			h.responder.WriteError(w, wrapDatabaseError("find tag", "tags", err))
			return
		}

		var req tagRequest
		if apiErr := decodeAndValidate(r, &req); apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		tag.Name = req.Name
		if req.Color != "" {
			tag.Color = req.Color
		}

		if err := h.tagRepo.Update(tag); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update tag", "tags", err))
			return
		}

		h.responder.WriteJSON(w, tag)
	}
}

// deleteTag removes a tag and its post links
func (h dashboardHandler) deleteTag() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tagID, apiErr := idParam(r, "tagID")
		if apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		if _, err := h.tagRepo.FindByID(tagID); err != nil {
			if database.IsNotFound(err) {
				h.responder.WriteError(w, errs.NewNotFoundError("tag not found"))
				return
			}
			h.responder.WriteError(w, wrapDatabaseError("find tag", "tags", err))
			return
		}

		if err := h.tagRepo.Delete(tagID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete tag", "tags", err))
			return
		}

		h.responder.WriteJSON(w, map[string]string{
			"status":  "success",
			"message": "tag deleted successfully",
		})
	}
}

// bulkCreateTags creates several tags from a name list
func (h dashboardHandler) bulkCreateTags() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req bulkNamesRequest
		if apiErr := decodeAndValidate(r, &req); apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		var created []models.Tag
		for _, name := range req.Names {
			tag := models.Tag{
				Name: name,
				Slug: models.UniqueSlug(name, h.tagRepo.SlugTaken),
			}
			if err := h.tagRepo.Add(&tag); err != nil {
				h.logger.Error().Err(err).Str("name", name).Msg("Failed to create tag")
				continue
			}
			created = append(created, tag)
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, map[string]interface{}{"created": created})
	}
}

// uploadImage stores a dashboard image upload and returns its public URL. The
// folder query parameter selects the destination prefix, defaulting to covers.
func (h dashboardHandler) uploadImage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.uploader == nil {
			h.responder.WriteError(w, errs.NewInternalError("image storage is not configured"))
			return
		}

		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid multipart form"))
			return
		}

		file, header, err := r.FormFile("image")
		if err != nil {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("image"))
			return
		}
		defer file.Close()

		folder := r.URL.Query().Get("folder")
		if folder == "" {
			folder = "covers"
		}

		ext := strings.TrimPrefix(filepath.Ext(header.Filename), ".")
		contentType := header.Header.Get("Content-Type")
		if contentType == "" {
			contentType = "application/octet-stream"
		}

		url, err := h.uploader.UploadImage(r.Context(), folder, ext, file, contentType)
		if err != nil {
			h.logger.Error().Err(err).Str("filename", header.Filename).Msg("Failed to upload image")
			h.responder.WriteError(w, errs.NewInternalError("failed to store image"))
			return
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, map[string]string{"url": url})
	}
}
