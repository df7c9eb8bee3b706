package components

import (
	"storefront-engine/internal/infra/db"
	repo_impl "storefront-engine/internal/infra/repository"
	"storefront-engine/internal/infra/uow"
	"storefront-engine/internal/usecase/queries"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		NewDBTX,
		uow.NewPostgresUoW,
		// Pool-bound repositories for the read side; write paths go
		// through the unit of work instead.
		fx.Annotate(
			repo_impl.NewLotRepository,
			fx.As(new(queries.CatalogReadStore)),
		),
		fx.Annotate(
			repo_impl.NewShopperRepository,
			fx.As(new(queries.ShopperReadStore)),
		),
		fx.Annotate(
			repo_impl.NewSaleRepository,
			fx.As(new(queries.SaleReadStore)),
		),
	),
)

func NewDBTX(pool *pgxpool.Pool) db.DBTX {
	return pool
}
