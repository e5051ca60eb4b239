package api

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/sunridge-camp/portal-api/docs"
	v1 "github.com/sunridge-camp/portal-api/internal/api/handler/v1"
	"github.com/sunridge-camp/portal-api/internal/api/middleware"
	"github.com/sunridge-camp/portal-api/internal/config"
	"github.com/sunridge-camp/portal-api/internal/domain"
	"github.com/sunridge-camp/portal-api/internal/notify"
	"github.com/sunridge-camp/portal-api/internal/photos"
	"github.com/sunridge-camp/portal-api/internal/repository"
	"github.com/sunridge-camp/portal-api/internal/repository/dao"
	"github.com/sunridge-camp/portal-api/internal/service"
	"github.com/sunridge-camp/portal-api/internal/storage/draftstore"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine

	drafts *draftstore.Store
	mailer *notify.Mailer
	photos *photos.Client
}

func NewServer(conf *config.AppConfig, db *gorm.DB, redisClient *redis.Client) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
		drafts: draftstore.NewStore(redisClient),
		mailer: notify.NewMailer(conf.Resend.APIKey, conf.Camp.RegistrationEmail),
		photos: photos.NewClient(conf.Photos.BaseURL, conf.Photos.APIKey),
	}

	s.MountMiddlewares()

	authHandler := s.initAuthHandler(db)
	userHandler := s.initUserHandler(db)
	onboardingHandler := s.initOnboardingHandler(db)
	camperHandler := s.initCamperHandler(db)
	contactHandler := s.initContactHandler(db)
	registrationHandler := s.initRegistrationHandler(db)
	messageHandler := s.initMessageHandler(db)
	historyHandler := s.initHistoryHandler(db)
	s.MountHandlers(
		authHandler,
		userHandler,
		onboardingHandler,
		camperHandler,
		contactHandler,
		registrationHandler,
		messageHandler,
		historyHandler,
	)

	return s
}

func (s *Server) userService(db *gorm.DB) *service.UserService {
	repo := repository.NewUserRepository(dao.NewUserDAO(db))
	return service.NewUserService(repo, s.photos)
}

func (s *Server) initAuthHandler(db *gorm.DB) *v1.AuthHandler {
	userDAO := dao.NewUserDAO(db)
	repo := repository.NewUserRepository(userDAO)
	svc := service.NewAuthService(repo, s.Config.API.JWTSigningKey)
	handler := v1.NewAuthHandler(s.Config.API, svc)

	return handler
}

func (s *Server) initUserHandler(db *gorm.DB) *v1.UserHandler {
	handler := v1.NewUserHandler(s.userService(db))

	return handler
}

func (s *Server) initOnboardingHandler(db *gorm.DB) *v1.OnboardingHandler {
	repo := repository.NewOnboardingRepository(dao.NewOnboardingDAO(db, domain.ChangeHistoryCap))
	userRepo := repository.NewUserRepository(dao.NewUserDAO(db))
	svc := service.NewOnboardingService(s.drafts, repo, userRepo, s.mailer, s.photos, s.Config.API.JWTSigningKey)
	handler := v1.NewOnboardingHandler(svc)

	return handler
}

func (s *Server) initCamperHandler(db *gorm.DB) *v1.CamperHandler {
	repo := repository.NewCamperRepository(dao.NewCamperDAO(db))
	svc := service.NewCamperService(repo, s.photos)
	handler := v1.NewCamperHandler(svc, s.userService(db))

	return handler
}

func (s *Server) initContactHandler(db *gorm.DB) *v1.ContactHandler {
	repo := repository.NewContactRepository(dao.NewContactDAO(db), dao.NewUserDAO(db))
	camperRepo := repository.NewCamperRepository(dao.NewCamperDAO(db))
	svc := service.NewContactService(repo, camperRepo, s.photos)
	handler := v1.NewContactHandler(svc, s.userService(db))

	return handler
}

func (s *Server) initRegistrationHandler(db *gorm.DB) *v1.RegistrationHandler {
	repo := repository.NewRegistrationRepository(dao.NewRegistrationDAO(db))
	scheduleRepo := repository.NewScheduleRepository(dao.NewScheduleDAO(db))
	camperRepo := repository.NewCamperRepository(dao.NewCamperDAO(db))
	userRepo := repository.NewUserRepository(dao.NewUserDAO(db))
	historyRepo := repository.NewHistoryRepository(dao.NewHistoryDAO(db, domain.ChangeHistoryCap))
	svc := service.NewRegistrationService(
		repo,
		scheduleRepo,
		camperRepo,
		userRepo,
		s.drafts,
		s.mailer,
		historyRepo,
		s.photos,
		s.Config.CampContent,
	)
	handler := v1.NewRegistrationHandler(svc, s.userService(db))

	return handler
}

func (s *Server) initMessageHandler(db *gorm.DB) *v1.MessageHandler {
	repo := repository.NewMessageRepository(dao.NewMessageDAO(db))
	userRepo := repository.NewUserRepository(dao.NewUserDAO(db))
	svc := service.NewMessageService(repo, userRepo, s.mailer, s.Config.CampContent)
	handler := v1.NewMessageHandler(svc, s.userService(db))

	return handler
}

func (s *Server) initHistoryHandler(db *gorm.DB) *v1.HistoryHandler {
	repo := repository.NewHistoryRepository(dao.NewHistoryDAO(db, domain.ChangeHistoryCap))
	svc := service.NewHistoryService(repo)
	handler := v1.NewHistoryHandler(svc, s.userService(db))

	return handler
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
	userHandler *v1.UserHandler,
	onboardingHandler *v1.OnboardingHandler,
	camperHandler *v1.CamperHandler,
	contactHandler *v1.ContactHandler,
	registrationHandler *v1.RegistrationHandler,
	messageHandler *v1.MessageHandler,
	historyHandler *v1.HistoryHandler,
) {
	const basePath = "/api/v1"

	public := s.Router.Group(basePath)
	{
		public.POST("/auth/signup", authHandler.HandleSignup)
		public.POST("/auth/login", authHandler.HandleLogin)

		public.POST("/onboarding", onboardingHandler.HandleStartWizard)
		public.GET("/onboarding/:wizardID", onboardingHandler.HandleGetWizard)
		public.PUT("/onboarding/:wizardID/step", onboardingHandler.HandleSaveStep)
		public.POST("/onboarding/:wizardID/next", onboardingHandler.HandleNext)
		public.POST("/onboarding/:wizardID/back", onboardingHandler.HandleBack)
		public.POST("/onboarding/:wizardID/skip-to-policies", onboardingHandler.HandleSkipToPolicies)
		public.POST("/onboarding/:wizardID/complete", onboardingHandler.HandleComplete)
	}

	private := s.Router.Group(basePath, middleware.NewAuthenticator(s.Config.API.JWTSigningKey).VerifyJWT())
	{
		private.GET("/users/:userID", userHandler.HandleGetUser)
		private.PUT("/users/me", userHandler.HandleUpdateProfile)

		private.GET("/campers", camperHandler.HandleListCampers)
		private.POST("/campers", camperHandler.HandleCreateCamper)
		private.GET("/campers/:camperID", camperHandler.HandleGetCamper)
		private.PUT("/campers/:camperID", camperHandler.HandleUpdateCamper)

		private.GET("/campers/:camperID/contacts", contactHandler.HandleListContacts)
		private.POST("/campers/:camperID/contacts", contactHandler.HandleAddContact)
		private.DELETE("/campers/:camperID/contacts/:contactID", contactHandler.HandleRemoveContact)
		private.PUT("/contacts/:contactID", contactHandler.HandleUpdateContact)

		private.GET("/schedule", registrationHandler.HandleGetSchedule)
		private.GET("/registrations/draft", registrationHandler.HandleGetDraft)
		private.PUT("/registrations/draft", registrationHandler.HandleSaveDraft)
		private.DELETE("/registrations/draft", registrationHandler.HandleDiscardDraft)
		private.POST("/registrations/quote", registrationHandler.HandleQuote)
		private.POST("/registrations", registrationHandler.HandleSubmitOrder)
		private.GET("/registrations", registrationHandler.HandleListRegistrations)
		private.GET("/registrations/amount-due", registrationHandler.HandleAmountDue)
		private.PUT("/orders/:orderID", registrationHandler.HandleEditOrder)
		private.POST("/orders/:orderID/payment-sent", registrationHandler.HandlePaymentSent)
		private.GET("/orders/:orderID/venmo-qr", registrationHandler.HandleVenmoQR)
		private.POST("/orders/:orderID/payment/confirm", registrationHandler.HandleConfirmPayment)
		private.POST("/orders/:orderID/approve", registrationHandler.HandleApproveOrder)

		private.GET("/messages", messageHandler.HandleGetThread)
		private.POST("/messages", messageHandler.HandleSendMessage)
		private.GET("/messages/threads", messageHandler.HandleListThreads)

		private.GET("/history", historyHandler.HandleGetHistory)
	}

	s.Router.GET("/", v1.HandleHealthcheck)

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "Sunridge Day Camp Parent Portal API"
	docs.SwaggerInfo.Description = "Parent-facing API for day-camp onboarding, registration and messaging."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
