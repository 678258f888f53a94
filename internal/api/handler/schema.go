package handler

import (
	"github.com/growshop/admin-console/internal/core/domain"
	"github.com/growshop/admin-console/internal/core/ports"
	"github.com/growshop/admin-console/internal/core/service"
	"github.com/growshop/admin-console/internal/core/session"
	"github.com/growshop/admin-console/internal/core/table"
)

// parseImages turns the form's free-text image field into clean URLs.
func parseImages(raw string) []string {
	return service.ParseImageURLs(raw)
}

// --- Requests ---

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type productRequest struct {
	Title               string `json:"title" validate:"required"`
	Category            string `json:"category"`
	Price               int64  `json:"price" validate:"required"`
	OldPrice            int64  `json:"oldPrice"`
	Stock               int    `json:"stock"`
	Badge               string `json:"badge"`
	Description         string `json:"description"`
	DetailedDescription string `json:"detailedDescription"`
	// Images is free text: comma or newline separated URLs, junk skipped.
	Images string `json:"images"`
}

func (r productRequest) toInput() ports.ProductInput {
	return ports.ProductInput{
		Title:               r.Title,
		Category:            r.Category,
		Price:               r.Price,
		OldPrice:            r.OldPrice,
		Stock:               r.Stock,
		Badge:               r.Badge,
		Description:         r.Description,
		DetailedDescription: r.DetailedDescription,
		Images:              parseImages(r.Images),
	}
}

type broadcastRequest struct {
	Message string `json:"message" validate:"required,max=500"`
}

// --- Responses ---

type identityResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

func toIdentityResponse(i domain.Identity) identityResponse {
	return identityResponse{ID: i.ID, Email: i.Email, Name: i.Name, Role: i.Role}
}

type sessionResponse struct {
	Token    string           `json:"token,omitempty"`
	User     identityResponse `json:"user"`
	Decision session.Decision `json:"decision"`
}

type productPageResponse struct {
	Rows        []domain.Product `json:"rows"`
	TotalItems  int              `json:"totalItems"`
	TotalPages  int              `json:"totalPages"`
	CurrentPage int              `json:"currentPage"`
	PageSize    int              `json:"pageSize"`
	Sort        table.SortState  `json:"sort"`
	Query       string           `json:"query"`
	Stale       bool             `json:"stale,omitempty"`
}

type userPageResponse struct {
	Rows        []domain.User   `json:"rows"`
	TotalItems  int             `json:"totalItems"`
	TotalPages  int             `json:"totalPages"`
	CurrentPage int             `json:"currentPage"`
	PageSize    int             `json:"pageSize"`
	Sort        table.SortState `json:"sort"`
	Query       string          `json:"query"`
}

type statusResponse struct {
	Status string `json:"status"`
}
