package api

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/questguild/questboard-api/docs"
	v1 "github.com/questguild/questboard-api/internal/api/handler/v1"
	"github.com/questguild/questboard-api/internal/api/middleware"
	"github.com/questguild/questboard-api/internal/config"
	"github.com/questguild/questboard-api/internal/repository"
	"github.com/questguild/questboard-api/internal/repository/dao"
	"github.com/questguild/questboard-api/internal/service"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine
}

func NewServer(conf *config.AppConfig, db *gorm.DB) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
	}

	s.MountMiddlewares()

	ledger := s.initLedgerService(db)
	orderSvc := s.initOrderService(db, ledger)
	redemptionSvc := s.initRedemptionService(db, ledger)
	approvalSvc := service.NewApprovalService(orderSvc, redemptionSvc)
	moderatorSvc := s.initAuthService(db)

	authHandler := v1.NewAuthHandler(s.Config.API, moderatorSvc)
	moderatorHandler := v1.NewModeratorHandler(moderatorSvc)
	orderHandler := v1.NewOrderHandler(orderSvc, approvalSvc, moderatorSvc)
	rewardHandler := v1.NewRewardHandler(redemptionSvc, approvalSvc, moderatorSvc)
	studentHandler := v1.NewStudentHandler(ledger, moderatorSvc)

	s.MountHandlers(authHandler, moderatorHandler, orderHandler, rewardHandler, studentHandler)

	return s
}

func (s *Server) initAuthService(db *gorm.DB) *service.AuthService {
	moderatorDAO := dao.NewModeratorDAO(db)
	repo := repository.NewModeratorRepository(moderatorDAO)

	return service.NewAuthService(repo)
}

func (s *Server) initLedgerService(db *gorm.DB) *service.LedgerService {
	studentDAO := dao.NewStudentDAO(db)
	repo := repository.NewStudentRepository(studentDAO)

	return service.NewLedgerService(repo)
}

func (s *Server) initOrderService(db *gorm.DB, ledger *service.LedgerService) *service.OrderService {
	orderDAO := dao.NewOrderDAO(db)
	repo := repository.NewOrderRepository(orderDAO)

	return service.NewOrderService(repo, ledger, s.Config.Engine.AutoCloseOrders)
}

func (s *Server) initRedemptionService(db *gorm.DB, ledger *service.LedgerService) *service.RedemptionService {
	rewardDAO := dao.NewRewardDAO(db)
	repo := repository.NewRewardRepository(rewardDAO)

	return service.NewRedemptionService(repo, ledger)
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(
	authHandler *v1.AuthHandler,
	moderatorHandler *v1.ModeratorHandler,
	orderHandler *v1.OrderHandler,
	rewardHandler *v1.RewardHandler,
	studentHandler *v1.StudentHandler,
) {
	const basePath = "/api/v1"

	auth := s.Router.Group(basePath)
	{
		auth.POST("/auth/signup", authHandler.HandleSignup)
		auth.POST("/auth/login", authHandler.HandleLogin)
	}

	// Participant-facing routes are unauthenticated; participants are
	// identified by name and group, not by accounts.
	board := s.Router.Group(basePath)
	{
		board.GET("/orders", orderHandler.HandleListOrders)
		board.GET("/orders/:orderID", orderHandler.HandleGetOrder)
		board.POST("/orders/:orderID/claims", orderHandler.HandleSubmitClaim)
		board.GET("/rewards", rewardHandler.HandleListRewards)
		board.POST("/rewards/:rewardID/purchases", rewardHandler.HandleSubmitPurchase)
		board.GET("/students", studentHandler.HandleListStudents)
		board.GET("/students/:studentID", studentHandler.HandleGetStudent)
	}

	guild := s.Router.Group(basePath, middleware.NewAuthenticator(s.Config.API.JWTSigningKey).VerifyJWT())
	{
		guild.GET("/moderators/me", moderatorHandler.HandleGetMe)

		guild.POST("/orders", orderHandler.HandleCreateOrder)
		guild.DELETE("/orders/:orderID", orderHandler.HandleDeleteOrder)
		guild.POST("/orders/:orderID/reopen", orderHandler.HandleReopenOrder)
		guild.GET("/claims", orderHandler.HandleListClaims)
		guild.GET("/claims/:claimID", orderHandler.HandleGetClaim)
		guild.POST("/claims/:claimID/decision", orderHandler.HandleDecideClaim)

		guild.POST("/rewards", rewardHandler.HandleCreateReward)
		guild.DELETE("/rewards/:rewardID", rewardHandler.HandleDeleteReward)
		guild.PATCH("/rewards/:rewardID/active", rewardHandler.HandleSetRewardActive)
		guild.GET("/purchases", rewardHandler.HandleListPurchases)
		guild.GET("/purchases/:purchaseID", rewardHandler.HandleGetPurchase)
		guild.POST("/purchases/:purchaseID/decision", rewardHandler.HandleDecidePurchase)

		guild.PUT("/students/:studentID/points", studentHandler.HandleAdjustPoints)
		guild.DELETE("/students/:studentID", studentHandler.HandleDeleteStudent)
	}

	s.Router.GET("/", v1.HandleHealthcheck)

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "Questboard API"
	docs.SwaggerInfo.Description = "Quest board with ranked orders, a points ledger and a reward shop."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
