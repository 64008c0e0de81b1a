package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/jhzhou002/blog-yk/config"
	"github.com/jhzhou002/blog-yk/database"
	"github.com/jhzhou002/blog-yk/errs"
	"github.com/jhzhou002/blog-yk/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type postHandler struct {
	responder    Responder
	logger       zerolog.Logger
	postRepo     *database.PostRepo
	categoryRepo *database.CategoryRepo
	tagRepo      *database.TagRepo
	commentRepo  *database.CommentRepo
	settings     config.SiteSettings
}

func newPostHandler(db database.Database, settings config.SiteSettings) postHandler {
	logger := log.With().Str("handlerName", "postHandler").Logger()

	return postHandler{
		responder:    NewResponder(logger),
		logger:       logger,
		postRepo:     db.PostRepo(),
		categoryRepo: db.CategoryRepo(),
		tagRepo:      db.TagRepo(),
		commentRepo:  db.CommentRepo(),
		settings:     settings,
	}
}

// PostPage is one page of a post listing
type PostPage struct {
	Posts []*models.Post    `json:"posts"`
	Page  database.PageInfo `json:"page"`
}

// CommentView is a comment as shown on a post page. The author is collapsed
// into a display name so guest emails and user records stay server-side.
type CommentView struct {
	ID        string        `json:"id"`
	Content   string        `json:"content"`
	Author    string        `json:"author"`
	CreatedAt string        `json:"createdAt"`
	Replies   []CommentView `json:"replies,omitempty"`
}

func newCommentView(c models.Comment) CommentView {
	view := CommentView{
		ID:        strconv.FormatUint(uint64(c.ID), 10),
		Content:   c.Content,
		Author:    c.DisplayName(),
		CreatedAt: c.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	for _, reply := range c.Replies {
		view.Replies = append(view.Replies, newCommentView(reply))
	}
	return view
}

// pageParam reads the page query parameter, defaulting to the first page.
// Out-of-range values are clamped by the repositories, not rejected here.
func pageParam(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// getHome returns everything the landing page needs in one request
func (h postHandler) getHome() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		featured, err := h.postRepo.Featured(5)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find featured posts", "posts", err))
			return
		}

		popular, err := h.postRepo.Popular(5)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find popular posts", "posts", err))
			return
		}

		latest, err := h.postRepo.Latest(5)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find latest posts", "posts", err))
			return
		}

		categories, err := h.categoryRepo.FindAll()
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find categories", "categories", err))
			return
		}

		tags, err := h.tagRepo.FindAll(20)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find tags", "tags", err))
			return
		}

		h.responder.WriteJSON(w, map[string]interface{}{
			"siteName":        h.settings.SiteName,
			"siteDescription": h.settings.SiteDescription,
			"featured":        featured,
			"popular":         popular,
			"latest":          latest,
			"categories":      categories,
			"tags":            tags,
		})
	}
}

// listPosts returns one page of the public listing, newest publication first
func (h postHandler) listPosts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		posts, info, err := h.postRepo.PublishedPage(pageParam(r))
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find published posts", "posts", err))
			return
		}

		h.responder.WriteJSON(w, PostPage{Posts: posts, Page: info})
	}
}

// getPost returns a published post by slug together with its visible comment
// tree, neighbors in publication order, and related posts. Reading the post
// counts as a view.
func (h postHandler) getPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "slug")
		if slug == "" {
			h.responder.WriteError(w, errs.NewBadRequestError("missing slug"))
			return
		}

		post, err := h.postRepo.GetPublished(slug)
		if err != nil {
			if database.IsNotFound(err) {
				h.responder.WriteError(w, errs.NewNotFoundError("post not found"))
				return
			}
			h.responder.WriteError(w, wrapDatabaseError("find post", "posts", err))
			return
		}

		comments, err := h.commentRepo.VisibleForPost(post.ID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find comments", "comments", err))
			return
		}

		previous, err := h.postRepo.Previous(post)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find previous post", "posts", err))
			return
		}

		next, err := h.postRepo.Next(post)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find next post", "posts", err))
			return
		}

		related, err := h.postRepo.Related(post, 4)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find related posts", "posts", err))
			return
		}

		commentViews := make([]CommentView, 0, len(comments))
		for _, comment := range comments {
			commentViews = append(commentViews, newCommentView(comment))
		}

		h.responder.WriteJSON(w, map[string]interface{}{
			"post":     post,
			"comments": commentViews,
			"previous": previous,
			"next":     next,
			"related":  related,
		})
	}
}

// listCategories returns all categories with post counts
func (h postHandler) listCategories() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categories, err := h.categoryRepo.FindAllWithCounts()
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find categories", "categories", err))
			return
		}

		h.responder.WriteJSON(w, map[string]interface{}{"categories": categories})
	}
}

// categoryPosts returns one page of published posts in a category
func (h postHandler) categoryPosts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "slug")

		category, err := h.categoryRepo.FindBySlug(slug)
		if err != nil {
			if database.IsNotFound(err) {
				h.responder.WriteError(w, errs.NewNotFoundError("category not found"))
				return
			}
			h.responder.WriteError(w, wrapDatabaseError("find category", "categories", err))
			return
		}

		posts, info, err := h.postRepo.ByCategory(category.ID, pageParam(r))
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find category posts", "posts", err))
			return
		}

		h.responder.WriteJSON(w, map[string]interface{}{
			"category": category,
			"posts":    posts,
			"page":     info,
		})
	}
}

// listTags returns all tags with post counts
func (h postHandler) listTags() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tags, err := h.tagRepo.FindAllWithCounts()
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find tags", "tags", err))
			return
		}

		h.responder.WriteJSON(w, map[string]interface{}{"tags": tags})
	}
}

// tagPosts returns one page of published posts carrying a tag
func (h postHandler) tagPosts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "slug")

		tag, err := h.tagRepo.FindBySlug(slug)
		if err != nil {
			if database.IsNotFound(err) {
				h.responder.WriteError(w, errs.NewNotFoundError("tag not found"))
				return
			}
			h.responder.WriteError(w, wrapDatabaseError("find tag", "tags", err))
			return
		}

		posts, info, err := h.postRepo.ByTag(tag.ID, pageParam(r))
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find tag posts", "posts", err))
			return
		}

		h.responder.WriteJSON(w, map[string]interface{}{
			"tag":   tag,
			"posts": posts,
			"page":  info,
		})
	}
}

// searchPosts returns one page of published posts matching a query string.
// An empty query yields an empty result, not an error.
func (h postHandler) searchPosts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query().Get("q")
		if query == "" {
			h.responder.WriteJSON(w, map[string]interface{}{
				"query": "",
				"posts": []*models.Post{},
			})
			return
		}

		posts, info, err := h.postRepo.Search(query, pageParam(r))
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("search posts", "posts", err))
			return
		}

		h.responder.WriteJSON(w, map[string]interface{}{
			"query": query,
			"posts": posts,
			"page":  info,
		})
	}
}

// getArchive returns publication counts grouped by month, newest first
func (h postHandler) getArchive() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := h.postRepo.Archive()
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("load archive", "posts", err))
			return
		}

		h.responder.WriteJSON(w, map[string]interface{}{"archive": entries})
	}
}

// getArchiveMonth returns one page of posts published in a calendar month
func (h postHandler) getArchiveMonth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		year, err := strconv.Atoi(chi.URLParam(r, "year"))
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid year"))
			return
		}

		month, err := strconv.Atoi(chi.URLParam(r, "month"))
		if err != nil || month < 1 || month > 12 {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid month"))
			return
		}

		posts, info, err := h.postRepo.ArchiveMonth(year, month, pageParam(r))
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("load archive month", "posts", err))
			return
		}

		h.responder.WriteJSON(w, map[string]interface{}{
			"year":  year,
			"month": month,
			"posts": posts,
			"page":  info,
		})
	}
}
