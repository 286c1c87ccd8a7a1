// Package router maps navigation requests to page activations, gating
// protected and admin pages on the session identity.
package router

import (
	"context"

	"go.uber.org/zap"

	"github.com/arveyy/intraportal/internal/models"
	"github.com/arveyy/intraportal/internal/repository"
	"github.com/arveyy/intraportal/internal/service"
)

// Route names. The table is fixed; unknown names fall back to home.
const (
	RouteHome        = "home"
	RouteRegister    = "register"
	RouteVerify      = "verify"
	RouteLogin       = "login"
	RouteProfile     = "profile"
	RouteRequests    = "requests"
	RouteAccounts    = "accounts"
	RouteDepartments = "departments"
	RouteEmployees   = "employees"
)

// Access classifies a route.
type Access int

const (
	// Public routes are reachable by anyone.
	Public Access = iota
	// Authenticated routes require a logged-in account.
	Authenticated
	// Admin routes additionally require the admin role.
	Admin
)

// Decision is the guard's verdict for one navigation.
type Decision int

const (
	// Allow activates the requested page.
	Allow Decision = iota
	// RedirectLogin sends an anonymous visitor to the login page.
	RedirectLogin
	// RedirectHome sends a non-admin away from an admin page.
	RedirectHome
)

// Decide is the guard: it maps a route's access class and the current
// identity to an allow/redirect decision. It is a pure function.
func Decide(access Access, identity *models.Account) Decision {
	switch {
	case access == Public:
		return Allow
	case identity == nil:
		return RedirectLogin
	case access == Admin && identity.Role != models.RoleAdmin:
		return RedirectHome
	default:
		return Allow
	}
}

// PageData carries the repository views a render hook needs. Only the
// fields relevant to the activated page are populated; hooks never read
// the store themselves.
type PageData struct {
	Accounts    []models.Account
	Departments []models.Department
	Employees   []repository.EmployeeView
	Requests    []models.Request
}

// RenderFunc is a page's render hook. It receives the current identity
// (nil when anonymous) and the page's view data, and produces the visual
// representation. The router never inspects its output.
type RenderFunc func(identity *models.Account, data PageData)

// Hooks binds one render hook per page. Nil hooks are allowed; the page
// still activates.
type Hooks struct {
	Home        RenderFunc
	Register    RenderFunc
	Verify      RenderFunc
	Login       RenderFunc
	Profile     RenderFunc
	Accounts    RenderFunc
	Departments RenderFunc
	Employees   RenderFunc
	Requests    RenderFunc
}

type route struct {
	access Access
	render RenderFunc
}

// Router evaluates the guard on every navigation event and keeps exactly
// one page active.
type Router struct {
	session     *service.Session
	accounts    *repository.Accounts
	departments *repository.Departments
	employees   *repository.Employees
	requests    *repository.Requests
	log         *zap.Logger

	routes map[string]route
	active string
}

// New constructs a Router over the session and repositories with the
// given render hooks.
func New(
	session *service.Session,
	accounts *repository.Accounts,
	departments *repository.Departments,
	employees *repository.Employees,
	requests *repository.Requests,
	log *zap.Logger,
	hooks Hooks,
) *Router {
	return &Router{
		session:     session,
		accounts:    accounts,
		departments: departments,
		employees:   employees,
		requests:    requests,
		log:         log,
		routes: map[string]route{
			RouteHome:        {Public, hooks.Home},
			RouteRegister:    {Public, hooks.Register},
			RouteVerify:      {Public, hooks.Verify},
			RouteLogin:       {Public, hooks.Login},
			RouteProfile:     {Authenticated, hooks.Profile},
			RouteRequests:    {Authenticated, hooks.Requests},
			RouteAccounts:    {Admin, hooks.Accounts},
			RouteDepartments: {Admin, hooks.Departments},
			RouteEmployees:   {Admin, hooks.Employees},
		},
	}
}

// Active returns the name of the currently activated page, or "" before
// the first navigation.
func (r *Router) Active() string {
	return r.active
}

// Navigate resolves the route name, runs the guard and activates the
// resulting page, invoking its render hook. It returns the name of the
// page that ended up active. Navigating to the active route again
// re-renders it.
func (r *Router) Navigate(ctx context.Context, name string) (string, error) {
	rt, ok := r.routes[name]
	if !ok {
		if name != "" {
			r.log.Debug("unknown route, falling back to home", zap.String("route", name))
		}
		name = RouteHome
		rt = r.routes[RouteHome]
	}

	identity, err := r.session.Current(ctx)
	if err != nil {
		return "", err
	}

	switch Decide(rt.access, identity) {
	case RedirectLogin:
		r.log.Debug("guard redirect to login", zap.String("route", name))
		return r.Navigate(ctx, RouteLogin)
	case RedirectHome:
		r.log.Debug("guard redirect to home", zap.String("route", name))
		return r.Navigate(ctx, RouteHome)
	}

	data, err := r.pageData(ctx, name, identity)
	if err != nil {
		return "", err
	}

	r.active = name
	if rt.render != nil {
		rt.render(identity, data)
	}
	return name, nil
}

// Refresh re-runs the guard and render for the active route. It must be
// called after anything that changes the identity while a page is shown,
// logout in particular, so a stale protected view never survives.
func (r *Router) Refresh(ctx context.Context) (string, error) {
	if r.active == "" {
		return r.Navigate(ctx, RouteHome)
	}
	return r.Navigate(ctx, r.active)
}

func (r *Router) pageData(ctx context.Context, name string, identity *models.Account) (PageData, error) {
	var data PageData
	var err error

	switch name {
	case RouteAccounts:
		data.Accounts, err = r.accounts.List(ctx)
	case RouteDepartments:
		data.Departments, err = r.departments.List(ctx)
	case RouteEmployees:
		data.Employees, err = r.employees.ListViews(ctx)
		if err == nil {
			data.Departments, err = r.departments.List(ctx)
		}
	case RouteRequests:
		data.Requests, err = r.requests.ListByOwner(ctx, identity.Email)
	}
	return data, err
}
