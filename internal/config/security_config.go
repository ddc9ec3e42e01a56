package config

import "strings"

type SecurityLevel int

const (
	SecurityPublic SecurityLevel = iota // No authentication
	SecurityStaff                       // Any logged-in operator
	SecurityAdmin                       // ADMIN role required
)

// EndpointSecurityConfig maps "METHOD /route/template" to its required
// security level. Route templates are the gorilla/mux path templates below /api/v1.
var EndpointSecurityConfig = map[string]SecurityLevel{
	// Public
	"POST /auth/login": SecurityPublic,
	"GET /healthz":     SecurityPublic,
	"GET /settings":    SecurityPublic,

	// Catalog
	"GET /products":         SecurityStaff,
	"POST /products":        SecurityStaff,
	"GET /products/{id}":    SecurityStaff,
	"PUT /products/{id}":    SecurityStaff,
	"DELETE /products/{id}": SecurityAdmin,

	// Customers and credit book
	"GET /customers":                   SecurityStaff,
	"POST /customers":                  SecurityStaff,
	"GET /customers/{id}":              SecurityStaff,
	"PUT /customers/{id}":              SecurityStaff,
	"DELETE /customers/{id}":           SecurityAdmin,
	"GET /customers/{id}/ledger":       SecurityStaff,
	"POST /customers/{id}/settle-debt": SecurityStaff,
	"GET /debtors":                     SecurityStaff,

	// Rentals
	"GET /rentals":               SecurityStaff,
	"POST /rentals":              SecurityStaff,
	"GET /rentals/{id}":          SecurityStaff,
	"DELETE /rentals/{id}":       SecurityAdmin,
	"PUT /rentals/{id}/status":   SecurityStaff,
	"POST /rentals/{id}/returns": SecurityStaff,
	"POST /rentals/{id}/quote":   SecurityStaff,

	// Invoices and reports
	"GET /invoices":          SecurityStaff,
	"GET /invoices/{id}":     SecurityStaff,
	"GET /reports/revenue":   SecurityStaff,
	"GET /reports/dashboard": SecurityStaff,

	// Users
	"GET /users":         SecurityAdmin,
	"POST /users":        SecurityAdmin,
	"DELETE /users/{id}": SecurityAdmin,
}

// GRPCSecurityConfig maps full gRPC method names to their security level
var GRPCSecurityConfig = map[string]SecurityLevel{
	"/grpc.health.v1.Health/Check": SecurityPublic,
	"/grpc.health.v1.Health/Watch": SecurityPublic,
}

// GetSecurityLevel returns the security level for an HTTP method and route template
func GetSecurityLevel(method, route string) SecurityLevel {
	route = strings.TrimPrefix(route, "/api/v1")
	if level, exists := EndpointSecurityConfig[method+" "+route]; exists {
		return level
	}
	// Default to highest security for unknown endpoints
	return SecurityAdmin
}

// GetGRPCSecurityLevel returns the security level for a gRPC method
func GetGRPCSecurityLevel(fullMethod string) SecurityLevel {
	if strings.HasPrefix(fullMethod, "/grpc.reflection.") {
		return SecurityPublic
	}
	if level, exists := GRPCSecurityConfig[fullMethod]; exists {
		return level
	}
	return SecurityStaff
}
