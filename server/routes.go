package server

func (s *Server) initRoutes() {
	// OAuth connection
	s.RegisterRouteFunc("GET "+RouteOAuthConnect, ChainMiddleware(s.ConnectHandler(), s.APIMiddleware()...))
	s.RegisterRouteFunc("GET "+RouteOAuthCallback, ChainMiddleware(s.CallbackHandler(), s.APIMiddleware()...))
	s.RegisterRouteFunc("GET "+RouteOAuthStatus, ChainMiddleware(s.ConnectionStatusHandler(), s.APIMiddleware()...))

	// Form sync
	s.RegisterRouteFunc("POST "+RouteFormsSync, ChainMiddleware(s.SyncHandler(), s.APIMiddleware()...))
	s.RegisterRouteFunc("GET "+RouteFormsStatus, ChainMiddleware(s.SyncStatusHandler(), s.APIMiddleware()...))

	// Remote lookups (cached)
	s.RegisterRouteFunc("GET "+RouteLookupGroups, ChainMiddleware(s.GroupsHandler(), s.APIMiddleware()...))
	s.RegisterRouteFunc("GET "+RouteLookupForms, ChainMiddleware(s.FormsHandler(), s.APIMiddleware()...))

	// End-user submissions
	s.RegisterRouteFunc("POST "+RouteSubmit, ChainMiddleware(s.SubmitHandler(), s.APIMiddleware()...))
}
