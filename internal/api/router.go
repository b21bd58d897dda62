package api

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/erazemk/loja/internal/auth"
	"github.com/erazemk/loja/internal/model"
)

// Login attempts allowed per client address: a burst of 5, then one every
// 12 seconds.
const (
	loginBurst    = 5
	loginInterval = 12 * time.Second
)

// resource is the handler set of one CRUD collection.
type resource interface {
	List(http.ResponseWriter, *http.Request)
	Create(http.ResponseWriter, *http.Request)
	Get(http.ResponseWriter, *http.Request)
	Update(http.ResponseWriter, *http.Request)
	Delete(http.ResponseWriter, *http.Request)
}

// NewRouter creates the API router with all endpoints registered.
func NewRouter(db *sql.DB, issuer *auth.Issuer) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{DB: db, Issuer: issuer}
	usersHandler := &UsersHandler{DB: db}
	productsHandler := &ProductsHandler{DB: db}
	ordersHandler := &OrdersHandler{DB: db}
	limiter := newLoginLimiter(loginInterval, loginBurst)

	authMW := AuthMiddleware(issuer, db)
	requireAdmin := RequireRole(model.RoleAdmin)
	requireManager := RequireRole(model.RoleManager)

	read := func(h http.HandlerFunc) http.Handler { return authMW(h) }
	write := func(h http.HandlerFunc) http.Handler { return authMW(requireManager(h)) }
	admin := func(h http.HandlerFunc) http.Handler { return authMW(requireAdmin(h)) }

	mux.HandleFunc("GET /healthz", Healthz(db))

	// Public: login.
	mux.Handle("POST /api/auth/login", limiter.middleware(http.HandlerFunc(authHandler.Login)))

	// Authenticated routes.
	mux.Handle("PUT /api/auth/password", read(authHandler.ChangePassword))
	mux.Handle("POST /api/auth/logout", read(authHandler.Logout))

	// Users (admin only).
	mux.Handle("GET /api/users", admin(usersHandler.List))
	mux.Handle("POST /api/users", admin(usersHandler.Create))
	mux.Handle("GET /api/users/{id}", admin(usersHandler.Get))
	mux.Handle("PUT /api/users/{id}", admin(usersHandler.Update))
	mux.Handle("PUT /api/users/{id}/password", admin(usersHandler.ResetPassword))
	mux.Handle("DELETE /api/users/{id}", admin(usersHandler.Delete))

	// Catalog: read (all roles), write (manager+).
	resources := map[string]resource{
		"brands":      &BrandsHandler{DB: db},
		"categories":  &CategoriesHandler{DB: db},
		"customers":   &CustomersHandler{DB: db},
		"products":    productsHandler,
		"orders":      ordersHandler,
		"order-items": &OrderItemsHandler{DB: db},
		"sales":       &SalesHandler{DB: db},
	}
	for name, h := range resources {
		base := "/api/" + name
		mux.Handle("GET "+base, read(h.List))
		mux.Handle("POST "+base, write(h.Create))
		mux.Handle("GET "+base+"/{id}", read(h.Get))
		mux.Handle("PUT "+base+"/{id}", write(h.Update))
		mux.Handle("DELETE "+base+"/{id}", write(h.Delete))
	}

	mux.Handle("GET /api/orders/{id}/items", read(ordersHandler.Items))
	mux.Handle("PUT /api/products/{id}/image", write(productsHandler.UploadImage))
	mux.Handle("GET /api/products/{id}/image", read(productsHandler.GetImage))

	return mux
}
