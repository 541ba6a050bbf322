package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	// OAuth connection routes
	RouteOAuthConnect  = "/oauth/connect"
	RouteOAuthCallback = "/oauth/callback"
	RouteOAuthStatus   = "/oauth/status"

	// Form sync routes
	RouteFormsSync   = "/forms/sync"
	RouteFormsStatus = "/forms/status"

	// Remote lookup routes
	RouteLookupGroups = "/cleverreach/groups"
	RouteLookupForms  = "/cleverreach/forms"

	// Submission route
	RouteSubmit = "/submit"
)
