package http

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/orris-inc/visitorpass/internal/application/visitor/services"
	"github.com/orris-inc/visitorpass/internal/application/visitor/usecases"
	"github.com/orris-inc/visitorpass/internal/domain/visitor"
	"github.com/orris-inc/visitorpass/internal/infrastructure/auth"
	"github.com/orris-inc/visitorpass/internal/infrastructure/config"
	"github.com/orris-inc/visitorpass/internal/infrastructure/permission"
	"github.com/orris-inc/visitorpass/internal/infrastructure/ratelimit"
	"github.com/orris-inc/visitorpass/internal/infrastructure/repository"
	"github.com/orris-inc/visitorpass/internal/infrastructure/scheduler"
	"github.com/orris-inc/visitorpass/internal/interfaces/http/handlers"
	visitorhandlers "github.com/orris-inc/visitorpass/internal/interfaces/http/handlers/visitor"
	"github.com/orris-inc/visitorpass/internal/interfaces/http/middleware"
	"github.com/orris-inc/visitorpass/internal/shared/biztime"
	"github.com/orris-inc/visitorpass/internal/shared/logger"
)

// Container wires infrastructure, use cases, handlers and background jobs
// together and owns their shutdown.
type Container struct {
	engine *gin.Engine
	db     *gorm.DB
	cfg    *config.Config
	log    logger.Interface
	redis  *redis.Client

	jwtSvc   *auth.JWTService
	enforcer *permission.Enforcer
	limiter  ratelimit.RateLimiter

	authMiddleware *middleware.AuthMiddleware
	submitLimiter  *middleware.RateLimiter

	visitorHandler *visitorhandlers.Handler
	healthHandler  *handlers.HealthHandler

	expireUC         usecases.ExpireDueRequestsExecutor
	schedulerManager *scheduler.SchedulerManager
}

func NewContainer(db *gorm.DB, cfg *config.Config, log logger.Interface) (*Container, error) {
	c := &Container{
		engine: gin.New(),
		db:     db,
		cfg:    cfg,
		log:    log,
	}

	if err := c.initInfrastructure(); err != nil {
		c.Shutdown()
		return nil, err
	}

	c.initVisitor()

	if err := c.initScheduler(); err != nil {
		c.Shutdown()
		return nil, err
	}

	return c, nil
}

func (c *Container) initInfrastructure() error {
	c.jwtSvc = auth.NewJWTService(c.cfg.Auth.JWT.Secret, c.cfg.Auth.JWT.Issuer)

	enforcer, err := permission.NewEnforcerWithDB(c.db, c.cfg.Permission.ModelPath, c.log)
	if err != nil {
		return fmt.Errorf("failed to create permission enforcer: %w", err)
	}
	if err := permission.InitVisitorPermissions(enforcer, c.log); err != nil {
		return fmt.Errorf("failed to seed visitor permissions: %w", err)
	}
	c.enforcer = enforcer

	if c.cfg.Redis.Enabled {
		client, err := initRedis(c.cfg, c.log)
		if err != nil {
			return err
		}
		c.redis = client
		c.limiter = ratelimit.NewRedisRateLimiter(client)
	} else {
		c.log.Warnw("redis disabled, submission rate limits are per process")
		c.limiter = ratelimit.NewMemoryRateLimiter()
	}

	c.authMiddleware = middleware.NewAuthMiddleware(c.jwtSvc, c.log.Named("auth"))
	c.submitLimiter = middleware.NewRateLimiter(c.limiter, "visitor_submit", c.cfg.Visitor.SubmitRatePerMinute, c.log)
	c.healthHandler = handlers.NewHealthHandler(c.db)

	return nil
}

func initRedis(cfg *config.Config, log logger.Interface) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.GetAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Redis.GetAddr(), err)
	}
	log.Infow("redis connection established", "addr", cfg.Redis.GetAddr())

	return client, nil
}

func (c *Container) initVisitor() {
	log := c.log.Named("visitor")

	repo := repository.NewVisitorRequestRepository(c.db, log)
	accounts := repository.NewUserAccountDirectory(c.db)
	lifecycle := services.NewLifecycle(repo, c.enforcer, biztime.NowUTC, log)
	validator := visitor.NewValidator(biztime.NowUTC)

	c.visitorHandler = visitorhandlers.NewHandler(
		usecases.NewCreateVisitorRequestUseCase(repo, accounts, lifecycle, validator, log),
		usecases.NewReviewVisitorRequestUseCase(lifecycle, visitor.GenerateApprovalCode, c.cfg.Visitor.ApprovalCodeAttempts, log),
		usecases.NewCheckInVisitorUseCase(lifecycle, log),
		usecases.NewCheckOutVisitorUseCase(lifecycle, log),
		usecases.NewGetVisitorRequestUseCase(lifecycle, log),
		usecases.NewListVisitorRequestsUseCase(repo, lifecycle, log),
		usecases.NewLookupByApprovalCodeUseCase(repo, lifecycle, log),
		log,
	)

	c.expireUC = usecases.NewExpireDueRequestsUseCase(repo, lifecycle, c.cfg.Visitor.SweepBatchSize, log)
}

func (c *Container) initScheduler() error {
	manager, err := scheduler.NewSchedulerManager(c.log.Named("scheduler"))
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}

	sweep := scheduler.BatchJobFunc(func(ctx context.Context) (int, error) {
		result, err := c.expireUC.Execute(ctx)
		if err != nil {
			return 0, err
		}
		return result.Expired, nil
	})
	if err := manager.RegisterExpirySweep(sweep, c.cfg.Visitor.SweepInterval); err != nil {
		return fmt.Errorf("failed to register expiry sweep: %w", err)
	}

	c.schedulerManager = manager
	return nil
}

// Shutdown stops background jobs and releases the redis client. The database
// handle stays with the caller.
func (c *Container) Shutdown() {
	if c.schedulerManager != nil {
		if err := c.schedulerManager.Stop(); err != nil {
			c.log.Errorw("failed to stop scheduler", "error", err)
		}
	}

	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			c.log.Errorw("failed to close redis client", "error", err)
		}
	}
}
