package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/dkozyr/gomarket/docs"
	authhandlers "github.com/dkozyr/gomarket/internal/handlers/auth"
	ordershandlers "github.com/dkozyr/gomarket/internal/handlers/orders"
	usershandlers "github.com/dkozyr/gomarket/internal/handlers/users"
	"github.com/dkozyr/gomarket/internal/service"
	pkgauth "github.com/dkozyr/gomarket/pkg/auth"
)

type AuthHandler interface {
	Register(w http.ResponseWriter, r *http.Request)
	Login(w http.ResponseWriter, r *http.Request)
	Refresh(w http.ResponseWriter, r *http.Request)
	RequestPasswordReset(w http.ResponseWriter, r *http.Request)
	ChangePassword(w http.ResponseWriter, r *http.Request)
	VerifyEmail(w http.ResponseWriter, r *http.Request)
}

type UserHandler interface {
	GetMe(w http.ResponseWriter, r *http.Request)
	UpdateMe(w http.ResponseWriter, r *http.Request)
	DeleteMe(w http.ResponseWriter, r *http.Request)
	GetUser(w http.ResponseWriter, r *http.Request)
	UpdateRole(w http.ResponseWriter, r *http.Request)
	UpdateStatus(w http.ResponseWriter, r *http.Request)
	DeleteUser(w http.ResponseWriter, r *http.Request)
}

type OrderHandler interface {
	CreateOrder(w http.ResponseWriter, r *http.Request)
	GetOrders(w http.ResponseWriter, r *http.Request)
	GetOrder(w http.ResponseWriter, r *http.Request)
	CancelOrder(w http.ResponseWriter, r *http.Request)
	UpdateStatus(w http.ResponseWriter, r *http.Request)
	RefundOrder(w http.ResponseWriter, r *http.Request)
	PayOrder(w http.ResponseWriter, r *http.Request)
	UpdateShipping(w http.ResponseWriter, r *http.Request)
	AddItem(w http.ResponseWriter, r *http.Request)
	RemoveItem(w http.ResponseWriter, r *http.Request)
}

type Handlers struct {
	AuthHandler  AuthHandler
	UserHandler  UserHandler
	OrderHandler OrderHandler

	jwtService pkgauth.JWTServiceInterface
}

func New(s *service.Services, jwtService pkgauth.JWTServiceInterface) *Handlers {
	return &Handlers{
		AuthHandler:  authhandlers.New(s.AuthService),
		UserHandler:  usershandlers.New(s.AccountService),
		OrderHandler: ordershandlers.New(s.OrderService),
		jwtService:   jwtService,
	}
}

func (h *Handlers) InitRoutes(r chi.Router) chi.Router {
	r.Use(
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
	)
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("doc.json"),
	))
	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.AuthHandler.Register)
			r.Post("/login", h.AuthHandler.Login)
			r.Post("/refresh", h.AuthHandler.Refresh)
			r.Post("/password-reset", h.AuthHandler.RequestPasswordReset)

			r.Group(func(r chi.Router) {
				r.Use(pkgauth.AuthMiddleware(h.jwtService))
				r.Post("/password", h.AuthHandler.ChangePassword)
				r.Post("/verify-email", h.AuthHandler.VerifyEmail)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(pkgauth.AuthMiddleware(h.jwtService))

			r.Route("/users", func(r chi.Router) {
				r.Get("/me", h.UserHandler.GetMe)
				r.Put("/me", h.UserHandler.UpdateMe)
				r.Delete("/me", h.UserHandler.DeleteMe)
				r.Get("/{id}", h.UserHandler.GetUser)
				r.Put("/{id}/role", h.UserHandler.UpdateRole)
				r.Put("/{id}/status", h.UserHandler.UpdateStatus)
				r.Delete("/{id}", h.UserHandler.DeleteUser)
			})

			r.Route("/orders", func(r chi.Router) {
				r.Post("/", h.OrderHandler.CreateOrder)
				r.Get("/", h.OrderHandler.GetOrders)
				r.Get("/{id}", h.OrderHandler.GetOrder)
				r.Post("/{id}/cancel", h.OrderHandler.CancelOrder)
				r.Post("/{id}/status", h.OrderHandler.UpdateStatus)
				r.Post("/{id}/refund", h.OrderHandler.RefundOrder)
				r.Post("/{id}/pay", h.OrderHandler.PayOrder)
				r.Put("/{id}/shipping", h.OrderHandler.UpdateShipping)
				r.Post("/{id}/items", h.OrderHandler.AddItem)
				r.Delete("/{id}/items/{itemID}", h.OrderHandler.RemoveItem)
			})
		})
	})

	return r
}
