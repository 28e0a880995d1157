package config

type SecurityLevel int

const (
	SecurityPublic    SecurityLevel = iota // No authentication
	SecurityAnonymous                      // Caller must NOT be authenticated
	SecurityUser                           // Any authenticated user
	SecurityAdmin                          // Authenticated user with the admin role
)

// Route names, shared by the router and the security table.
const (
	RouteRegistrationSubmit  = "registration.submit"
	RouteRegistrationList    = "registration.list"
	RouteRegistrationGet     = "registration.get"
	RouteRegistrationApprove = "registration.approve"
	RouteRegistrationReject  = "registration.reject"
	RouteTranslateStart      = "translate.start"
	RouteTranslateStatus     = "translate.status"
	RouteTranslateDownload   = "translate.download"
	RouteTranslateLanguages  = "translate.languages"
	RouteLogin               = "auth.login"
	RouteHealth              = "health"
	RouteMetrics             = "metrics"
)

// EndpointSecurityConfig maps route names to their required security level
var EndpointSecurityConfig = map[string]SecurityLevel{
	RouteLogin:   SecurityPublic,
	RouteHealth:  SecurityPublic,
	RouteMetrics: SecurityPublic,

	RouteRegistrationSubmit: SecurityAnonymous,

	RouteRegistrationList:    SecurityAdmin,
	RouteRegistrationGet:     SecurityAdmin,
	RouteRegistrationApprove: SecurityAdmin,
	RouteRegistrationReject:  SecurityAdmin,

	RouteTranslateStart:     SecurityUser,
	RouteTranslateStatus:    SecurityUser,
	RouteTranslateDownload:  SecurityUser,
	RouteTranslateLanguages: SecurityUser,
}

// GetSecurityLevel returns the security level for a route, defaulting to SecurityAdmin
func GetSecurityLevel(route string) SecurityLevel {
	if level, ok := EndpointSecurityConfig[route]; ok {
		return level
	}
	return SecurityAdmin
}
