package repo

import (
	"github.com/dkozyr/gomarket/internal/pg"
	orderrepo "github.com/dkozyr/gomarket/internal/repo/order-repo"
	userrepo "github.com/dkozyr/gomarket/internal/repo/user-repo"
	"github.com/dkozyr/gomarket/internal/service/authservice"
	"github.com/dkozyr/gomarket/internal/service/orderservice"
)

type Repositories struct {
	UserRepo  authservice.UserRepo
	OrderRepo orderservice.OrderRepo
}

func New(conn pg.Database, txManager pg.TXManager) *Repositories {
	userRepo := userrepo.New(conn)
	orderRepo := orderrepo.New(conn, txManager)

	return &Repositories{
		UserRepo:  userRepo,
		OrderRepo: orderRepo,
	}
}
