package middleware

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"facility/infras/jwt"
	"facility/infras/otel"
	"facility/permissions"
	"facility/shared/constant"
	"facility/shared/failure"
	"facility/shared/identity"
	"facility/transport/http/response"
)

// Auth establishes the caller identity from the bearer token. Authorization decisions
// are made later by the policy, never here.
type Auth interface {
	Auth(http.Handler) http.Handler
}

type authImpl struct {
	jwtService jwt.JWT
	otel       otel.Otel
	permission *permissions.PermissionData
}

func NewAuthMiddleware(jwtService jwt.JWT, otel otel.Otel, permissions *permissions.PermissionData) Auth {
	return &authImpl{
		jwtService: jwtService,
		otel:       otel,
		permission: permissions,
	}
}

func (m *authImpl) routePattern(request *http.Request) string {
	rctx := chi.RouteContext(request.Context())
	if rctx == nil || rctx.Routes == nil {
		return request.URL.Path
	}

	return rctx.Routes.Find(chi.NewRouteContext(), request.Method, request.URL.Path)
}

func (m *authImpl) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		ctx, scope := m.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, "auth.middleware")
		defer scope.End()

		path := m.routePattern(request)

		scope.SetAttributes(map[string]any{
			"middleware.type": "auth",
			"http.path":       path,
			"http.method":     request.Method,
		})

		// unknown routes fall through to the router's 404
		if path == constant.Empty || (m.permission != nil && m.permission.IsPublic(path, request.Method)) {
			next.ServeHTTP(writer, request)

			return
		}

		authHeader := request.Header.Get(constant.RequestHeaderAuthorization)
		if authHeader == constant.Empty {
			err := failure.Unauthorized("Missing authorization header")
			scope.TraceError(err)
			response.WithError(writer, err)

			return
		}

		tokenString, err := jwt.ExtractTokenFromHeader(authHeader)
		if err != nil {
			err := failure.Unauthorized("Invalid authorization header format")
			scope.TraceError(err)
			response.WithError(writer, err)

			return
		}

		claims, err := m.jwtService.Validate(tokenString)
		if err != nil {
			var message string

			switch {
			case errors.Is(err, jwt.ErrExpiredToken):
				message = "Token has expired"
			case errors.Is(err, jwt.ErrInvalidClaim):
				message = "Invalid token claims"
			default:
				message = "Invalid token"
			}

			err := failure.Unauthorized(message)
			scope.TraceError(err)
			response.WithError(writer, err)

			return
		}

		id := claims.Identity()
		scope.SetAttribute("auth.subject", id.Subject)

		ctx = identity.WithContext(ctx, id)

		next.ServeHTTP(writer, request.WithContext(ctx))
	})
}
