// Package nav models the client's screens as locations in a history stack
// and decides which locations need a session.
package nav

import "strings"

// Route is a screen pattern.
type Route string

const (
	Root        Route = "/"
	Login       Route = "/login"
	Products    Route = "/products"
	ProductNew  Route = "/products/new"
	ProductEdit Route = "/products/:id/edit"
)

// Location is a concrete screen. ID is only set for ProductEdit.
type Location struct {
	Route Route
	ID    string
}

// At returns a Location for a parameterless route.
func At(r Route) Location {
	return Location{Route: r}
}

// EditProduct returns the edit location for the product id.
func EditProduct(id string) Location {
	return Location{Route: ProductEdit, ID: id}
}

// Path renders the location.
func (l Location) Path() string {
	if l.Route == ProductEdit {
		return "/products/" + l.ID + "/edit"
	}
	return string(l.Route)
}

func (l Location) String() string {
	return l.Path()
}

// Known reports whether l names one of the declared routes.
func (l Location) Known() bool {
	switch l.Route {
	case Root, Login, Products, ProductNew:
		return true
	case ProductEdit:
		return l.ID != ""
	}
	return false
}

// Protected reports whether l requires an authenticated session.
func (l Location) Protected() bool {
	switch l.Route {
	case Products, ProductNew, ProductEdit:
		return true
	}
	return false
}

// Parse maps a path onto a Location. Unknown paths keep their raw text as the
// route so that Known reports false.
func Parse(path string) Location {
	p := strings.TrimSuffix(strings.TrimSpace(path), "/")
	if p == "" {
		return At(Root)
	}
	switch Route(p) {
	case Login, Products, ProductNew:
		return At(Route(p))
	}
	parts := strings.Split(strings.TrimPrefix(p, "/"), "/")
	if len(parts) == 3 && parts[0] == "products" && parts[2] == "edit" && parts[1] != "" {
		return EditProduct(parts[1])
	}
	return Location{Route: Route(p)}
}
