package app

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/rpmonteiro/hackathon-starter/internal/auth"
	"github.com/rpmonteiro/hackathon-starter/internal/auth/credentials"
	"github.com/rpmonteiro/hackathon-starter/internal/auth/handler"
	"github.com/rpmonteiro/hackathon-starter/internal/auth/provider"
	"github.com/rpmonteiro/hackathon-starter/internal/auth/provider/facebook"
	"github.com/rpmonteiro/hackathon-starter/internal/auth/provider/google"
	"github.com/rpmonteiro/hackathon-starter/internal/auth/provider/twitter"
	"github.com/rpmonteiro/hackathon-starter/internal/auth/resolver"
	"github.com/rpmonteiro/hackathon-starter/internal/config"
	"github.com/rpmonteiro/hackathon-starter/internal/middleware"
	"github.com/rpmonteiro/hackathon-starter/internal/session"
	"github.com/rpmonteiro/hackathon-starter/internal/user"
)

func setupHTTP(ctx context.Context, cfg config.Config) (*gin.Engine, func() error, error) {

	infra, err := setupInfra(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	// ----------------------------
	// Dependencies
	// ----------------------------

	userStore := user.NewPGStore(infra.DB)
	sessionStore := session.NewRedisStore(infra.Redis.Client)
	identityAdapter := session.NewIdentityAdapter(userStore)
	identityResolver := resolver.NewStoreResolver(userStore)
	credentialService := credentials.NewService(userStore)

	fbCfg := cfg.Provider(auth.ProviderFacebook)
	facebookProvider, err := facebook.New(
		fbCfg.ClientID,
		fbCfg.ClientSecret,
		fbCfg.CallbackURL,
	)
	if err != nil {
		return nil, nil, err
	}

	twCfg := cfg.Provider(auth.ProviderTwitter)
	twitterProvider, err := twitter.New(
		twCfg.ClientID,
		twCfg.ClientSecret,
		twCfg.CallbackURL,
	)
	if err != nil {
		return nil, nil, err
	}

	gCfg := cfg.Provider(auth.ProviderGoogle)
	googleProvider, err := google.New(
		ctx,
		gCfg.ClientID,
		gCfg.ClientSecret,
		gCfg.CallbackURL,
	)
	if err != nil {
		return nil, nil, err
	}

	registry := provider.NewRegistry(
		facebookProvider,
		twitterProvider,
		googleProvider,
	)

	authHandler := handler.NewHandler(
		registry,
		sessionStore,
		identityAdapter,
		identityResolver,
		credentialService,
	)

	authMiddleware := middleware.NewAuthMiddleware(sessionStore, identityAdapter)

	// ----------------------------
	// Router
	// ----------------------------

	router := gin.New()
	router.Use(gin.Recovery())

	// ----------------------------
	// Public Routes
	// ----------------------------

	authHandler.RegisterRoutes(router)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ----------------------------
	// Protected Routes
	// ----------------------------

	account := router.Group("/")
	account.Use(middleware.GinRequireAuth(authMiddleware))
	account.GET("/account", authHandler.Account)

	// Provider API routes need both gates: a session and a stored token
	// for the provider named by the path.
	api := router.Group("/api")
	api.Use(middleware.GinRequireAuth(authMiddleware))
	api.Use(middleware.GinRequireProviderAuthorized(authMiddleware))
	api.GET("/:provider", authHandler.ProviderToken)

	// ----------------------------
	// Cleanup
	// ----------------------------

	return router, func() error {
		return infra.DB.Close()
	}, nil
}
