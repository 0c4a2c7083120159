// Package viewdata provides the shared view model embedded by every page.
package viewdata

import (
	"net/http"

	"github.com/dalemusser/waffle/pantry/httpnav"
	"github.com/gorilla/csrf"

	"github.com/JamesMorphed/immersive-agency-sub000/internal/app/system/auth"
	"github.com/JamesMorphed/immersive-agency-sub000/internal/domain/models"
)

// BaseVM contains common fields for all view models.
// Embed this struct in your feature-specific view models.
//
// Usage:
//
//	type myPageData struct {
//	    viewdata.BaseVM
//	    // page-specific fields...
//	}
//
//	data := myPageData{
//	    BaseVM: viewdata.New(r),
//	    // page-specific fields...
//	}
type BaseVM struct {
	SiteName string

	// User context (from auth middleware)
	IsLoggedIn bool
	UserID     string
	UserName   string
	UserEmail  string
	Role       string

	// Page context
	Title       string
	BackURL     string
	CurrentPath string

	// CSRF token for forms (use in hidden input field)
	CSRFToken string
}

// New creates a BaseVM populated from the request. This is the standard
// way to create a BaseVM for most handlers.
func New(r *http.Request) BaseVM {
	vm := BaseVM{
		SiteName:    models.DefaultSiteName,
		CurrentPath: httpnav.CurrentPath(r),
		CSRFToken:   csrf.Token(r),
	}

	if user, ok := auth.CurrentUser(r); ok {
		vm.IsLoggedIn = true
		vm.UserID = user.ID
		vm.UserName = user.Name
		vm.UserEmail = user.Email
		vm.Role = user.Role
	}

	return vm
}

// NewBaseVM creates a fully populated BaseVM for a page with a title and a
// back-button default.
func NewBaseVM(r *http.Request, title, backDefault string) BaseVM {
	vm := New(r)
	vm.Title = title
	vm.BackURL = httpnav.ResolveBackURL(r, backDefault)
	return vm
}
