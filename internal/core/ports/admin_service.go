package ports

import (
	"context"

	"github.com/growshop/admin-console/internal/core/domain"
	"github.com/growshop/admin-console/internal/core/session"
	"github.com/growshop/admin-console/internal/core/table"
)

// LoginResult is returned after a successful admin login.
type LoginResult struct {
	SessionID string
	Identity  domain.Identity
	Decision  session.Decision
}

// RestoreResult is returned when an existing session is revalidated.
type RestoreResult struct {
	Identity domain.Identity
	Decision session.Decision
}

// TableCommand mutates one collection's view state before computing a page.
// Nil/empty fields leave the corresponding state untouched. Sort alone
// toggles like a header click; Sort plus Dir ("asc"/"desc") sets the state
// explicitly. Page accepts "next", "prev", or an absolute 1-based number.
type TableCommand struct {
	Search *string
	Sort   string
	Dir    string
	Page   string
}

// ProductTableView is one computed render cycle of the product table.
type ProductTableView struct {
	Page  table.PageResult[domain.Product]
	Sort  table.SortState
	Query string
	// Stale is true when the rows come from the offline snapshot because the
	// storefront was unreachable at load time.
	Stale bool
}

// UserTableView is one computed render cycle of the user table.
type UserTableView struct {
	Page  table.PageResult[domain.User]
	Sort  table.SortState
	Query string
}

// DashboardData is the stats header plus the recent-activity feed.
type DashboardData struct {
	TotalProducts  int               `json:"totalProducts"`
	TotalUsers     int               `json:"totalUsers"`
	TotalRevenue   int64             `json:"totalRevenue"`
	TopSeller      *domain.Product   `json:"topSeller,omitempty"`
	TopSellerSales int               `json:"topSellerSales"`
	Activity       []domain.Activity `json:"activity"`
	Channel        ChannelState      `json:"channel"`
}

// AdminService is the console's use-case layer consumed by the HTTP surface.
type AdminService interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Restore(ctx context.Context, sid string) (*RestoreResult, error)
	Logout(ctx context.Context, sid string) error

	ProductTable(ctx context.Context, sid string, cmd TableCommand) (*ProductTableView, error)
	UserTable(ctx context.Context, sid string, cmd TableCommand) (*UserTableView, error)
	Dashboard(ctx context.Context, sid string) (*DashboardData, error)

	CreateProduct(ctx context.Context, sid string, input ProductInput) error
	UpdateProduct(ctx context.Context, sid, id string, input ProductInput) error
	DeleteProduct(ctx context.Context, sid, id string) error
	PromoteUser(ctx context.Context, sid, id string) error
	BanUser(ctx context.Context, sid, id string) error

	SendBroadcast(ctx context.Context, sid, message string) error
	Reload(ctx context.Context, sid string) error
}
