package service

import (
	"time"

	"github.com/dkozyr/gomarket/internal/cache"
	"github.com/dkozyr/gomarket/internal/handlers/auth"
	"github.com/dkozyr/gomarket/internal/handlers/orders"
	"github.com/dkozyr/gomarket/internal/handlers/users"
	"github.com/dkozyr/gomarket/internal/notify"

	pkgauth "github.com/dkozyr/gomarket/pkg/auth"

	"github.com/dkozyr/gomarket/internal/repo"
	accountservice "github.com/dkozyr/gomarket/internal/service/accountservice"
	authservice "github.com/dkozyr/gomarket/internal/service/authservice"
	orderservice "github.com/dkozyr/gomarket/internal/service/orderservice"
)

type Services struct {
	AuthService    auth.Service
	AccountService users.Service
	OrderService   orders.Service
}

func New(repo *repo.Repositories, c cache.Cache, notifier notify.Notifier,
	jwtService pkgauth.JWTServiceInterface, tokenTTL time.Duration) *Services {
	authService := authservice.New(repo.UserRepo, &pkgauth.HashService{}, jwtService, c, notifier, tokenTTL)
	accountService := accountservice.New(repo.UserRepo, c)
	orderService := orderservice.New(repo.OrderRepo, repo.UserRepo, c, notifier)

	return &Services{
		AuthService:    authService,
		AccountService: accountService,
		OrderService:   orderService,
	}
}
