package provider

import (
	"github.com/calcledger/internal/cache"
	"github.com/calcledger/internal/config"
	"github.com/calcledger/internal/identity"
	"github.com/calcledger/internal/logger"
	"github.com/calcledger/internal/models"
	"github.com/calcledger/internal/repository"
	"github.com/calcledger/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config *config.Config

	// Repositories
	UserRepo             repository.UserRepository
	VerificationCodeRepo repository.VerificationCodeRepository
	CalculationRepo      repository.CalculationRepository

	// Services
	EmailService       *service.EmailService
	TwoFactorService   *service.TwoFactorService
	CalculationService *service.CalculationService

	// Identity
	IdentityVerifier identity.Verifier
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	c := &Container{Config: cfg}

	c.initRepositories()
	c.initServices()
	c.initIdentity()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.UserRepo = repository.NewUserRepository(db)
	c.VerificationCodeRepo = repository.NewVerificationCodeRepository(db)
	c.CalculationRepo = repository.NewCalculationRepository(db)
}

func (c *Container) initServices() {
	c.EmailService = service.NewEmailService(&c.Config.Email)
	c.TwoFactorService = service.NewTwoFactorService(
		c.UserRepo,
		c.VerificationCodeRepo,
		c.EmailService,
		&c.Config.TwoFactor,
	)
	c.CalculationService = service.NewCalculationService(c.CalculationRepo)
}

func (c *Container) initIdentity() {
	fb := c.Config.Firebase
	if fb.PrivateKey != "" {
		// 启动期校验服务账号私钥，配置坏了尽早暴露
		if _, err := identity.ParseServiceAccountKey(fb.PrivateKey); err != nil {
			logger.Errorw("provider_service_account_key_invalid",
				"client_email", fb.ClientEmail,
				"error", err,
			)
		}
	}
	source := identity.NewGoogleCertSource(fb.CertURL, fb.CertCacheSeconds)
	c.IdentityVerifier = identity.NewFirebaseVerifier(fb.ProjectID, source)
}
