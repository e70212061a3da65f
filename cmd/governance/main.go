package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iota-uz/governance/modules/governance"
	"github.com/iota-uz/governance/modules/governance/infrastructure/idp"
	"github.com/iota-uz/governance/modules/governance/infrastructure/persistence"
	"github.com/iota-uz/governance/pkg/composables"
	"github.com/iota-uz/governance/pkg/configuration"
	"github.com/iota-uz/governance/pkg/eventbus"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			log.Println(r)
			debug.PrintStack()
			os.Exit(1)
		}
	}()

	conf := configuration.Use()
	logger := conf.Logger()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	pool, err := pgxpool.New(ctx, conf.Database.Opts)
	if err != nil {
		panic(err)
	}
	defer pool.Close()

	if err := persistence.EnsureSchema(composables.WithPool(ctx, pool)); err != nil {
		panic(err)
	}

	_, err = governance.New(governance.Options{
		Repos: governance.Repositories{
			Org:            persistence.NewOrgRepository(),
			CustomRoles:    persistence.NewCustomRoleRepository(),
			Datasets:       persistence.NewDatasetRepository(),
			Grants:         persistence.NewGrantRepository(),
			ChangeRequests: persistence.NewChangeRequestRepository(),
			Approvals:      persistence.NewApprovalRepository(),
			PortalMenus:    persistence.NewPortalMenuRepository(),
			Audit:          persistence.NewAuditRepository(),
			SysConfig:      persistence.NewSysConfigRepository(),
		},
		Provider:    idp.NewClient(conf.IdentityProvider, logger),
		EventBus:    eventbus.NewEventPublisher(logger),
		Logger:      logger,
		SyncTimeout: conf.IdentityProvider.SyncTimeout,
	})
	if err != nil {
		panic(err)
	}

	logger.Info("governance core started")

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	logger.Info("governance core shutting down")
}
