package routes

import (
	"database/sql"

	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"family-registry/internal/repositories"
	"family-registry/internal/services"
	"family-registry/pkg/config"
	"family-registry/pkg/filestorage"
	"family-registry/pkg/logger"
	"family-registry/pkg/middleware"
	"family-registry/pkg/service"
)

// Dependencies - внешние ресурсы, из которых собирается приложение.
type Dependencies struct {
	DB      *pgxpool.Pool
	SQL     *sql.DB
	Redis   *redis.Client
	JWT     service.JWTService
	Files   filestorage.FileStorageInterface
	Loggers *logger.Loggers
	Config  *config.Config
}

type Services struct {
	Auth       services.AuthServiceInterface
	Family     services.FamilyServiceInterface
	Member     services.FamilyMemberServiceInterface
	Support    services.SupportServiceInterface
	Document   services.DocumentServiceInterface
	History    services.HistoryServiceInterface
	User       services.UserServiceInterface
	Statistics services.StatisticsServiceInterface
	Report     services.ReportServiceInterface
	Settings   services.SettingsServiceInterface
}

func NewServices(deps *Dependencies) *Services {
	loggers := deps.Loggers

	// --- 1. РЕПОЗИТОРИИ ---
	txManager := repositories.NewTxManager(deps.DB)
	cacheRepo := repositories.NewRedisCacheRepository(deps.Redis)
	userRepo := repositories.NewUserRepository(deps.DB, loggers.User)
	familyRepo := repositories.NewFamilyRepository(deps.DB, loggers.Family)
	memberRepo := repositories.NewFamilyMemberRepository(deps.DB)
	supportRepo := repositories.NewSupportRepository(deps.DB)
	documentRepo := repositories.NewDocumentRepository(deps.DB)
	historyRepo := repositories.NewHistoryRepository(deps.DB)
	statisticsRepo := repositories.NewStatisticsRepository(deps.SQL, loggers.Main)

	// --- 2. СЕРВИСЫ ---
	historyService := services.NewHistoryService(historyRepo, familyRepo, memberRepo, loggers.History)
	return &Services{
		Auth: services.NewAuthService(userRepo, cacheRepo, deps.JWT, loggers.Auth, &deps.Config.Auth),
		Family: services.NewFamilyService(
			txManager, familyRepo, memberRepo, supportRepo, documentRepo, historyService, deps.Files, loggers.Family,
		),
		Member:     services.NewFamilyMemberService(memberRepo, familyRepo, historyService, loggers.Family),
		Support:    services.NewSupportService(supportRepo, familyRepo, historyService, loggers.Family),
		Document:   services.NewDocumentService(documentRepo, familyRepo, memberRepo, historyService, deps.Files, loggers.Family),
		History:    historyService,
		User:       services.NewUserService(userRepo, loggers.User),
		Statistics: services.NewStatisticsService(statisticsRepo, loggers.Main),
		Report:     services.NewReportService(supportRepo, familyRepo, loggers.Main),
		Settings:   services.NewSettingsService(cacheRepo, &deps.Config.Auth, loggers.Main),
	}
}

func InitRouter(e *echo.Echo, deps *Dependencies) {
	deps.Loggers.Main.Info("InitRouter: начало создания маршрутов")
	RegisterRoutes(e, NewServices(deps), deps.JWT, deps.Loggers)
	deps.Loggers.Main.Info("InitRouter: создание маршрутов завершено")
}

// RegisterRoutes монтирует API на /api. Все маршруты, кроме входа и обновления токена, требуют access-токен.
func RegisterRoutes(e *echo.Echo, svcs *Services, jwtSvc service.JWTService, loggers *logger.Loggers) {
	api := e.Group("/api")
	authMW := middleware.NewAuthMiddleware(jwtSvc, svcs.Auth, loggers.Auth)
	secureGroup := api.Group("", authMW.Auth)

	runAuthRouter(api, secureGroup, svcs.Auth, jwtSvc, loggers.Auth)
	runFamilyRouter(secureGroup, svcs, loggers.Family, authMW)
	runFamilyMemberRouter(secureGroup, svcs.Member, loggers.Family)
	runSupportRouter(secureGroup, svcs.Support, loggers.Family)
	runDocumentRouter(secureGroup, svcs.Document, loggers.Family, authMW)
	runHistoryRouter(secureGroup, svcs.History, loggers.History, authMW)
	runUserRouter(secureGroup, svcs.User, loggers.User, authMW)
	runDashboardRouter(secureGroup, svcs, loggers.Main, authMW)
}

func nopIfNil(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}
