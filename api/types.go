package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/jhzhou002/blog-yk/errs"
)

var validate = validator.New()

// decodeAndValidate decodes a JSON request body into dst and runs struct
// validation, translating the first failure into a field-level ApiErr.
func decodeAndValidate(r *http.Request, dst any) *errs.ApiErr {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errs.NewInvalidJSONError(err)
	}
	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return errs.NewInvalidFieldError(fe.Field(), "failed on the '"+fe.Tag()+"' rule")
		}
		return errs.NewBadRequestError("invalid request body")
	}
	return nil
}

type postRequest struct {
	Title      string `json:"title" validate:"required,max=255"`
	Content    string `json:"content" validate:"required"`
	Excerpt    string `json:"excerpt"`
	CoverImage string `json:"coverImage" validate:"omitempty,url"`
	Status     string `json:"status" validate:"omitempty,oneof=draft published"`
	IsFeatured bool   `json:"isFeatured"`
	CategoryID *uint  `json:"categoryId"`
	TagIDs     []uint `json:"tagIds"`
}

type submitCommentRequest struct {
	Content string `json:"content" validate:"required"`
	Name    string `json:"name" validate:"max=100"`
	Email   string `json:"email" validate:"omitempty,email"`
	// raw on purpose: an unresolvable parent id falls back to a top-level
	// comment instead of failing validation
	ParentID string `json:"parentId"`
}

type registerRequest struct {
	Username string `json:"username" validate:"required,max=150"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type updateProfileRequest struct {
	Avatar   string `json:"avatar" validate:"omitempty,url"`
	Bio      string `json:"bio" validate:"max=500"`
	Website  string `json:"website" validate:"omitempty,url"`
	Github   string `json:"github" validate:"max=100"`
	Location string `json:"location" validate:"max=100"`
}

type categoryRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description"`
}

type tagRequest struct {
	Name  string `json:"name" validate:"required,max=50"`
	Color string `json:"color" validate:"omitempty,hexcolor"`
}

// bulkNamesRequest feeds the bulk category/tag creation tooling
type bulkNamesRequest struct {
	Names []string `json:"names" validate:"required,min=1,dive,required,max=100"`
}
