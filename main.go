package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"example.com/storefront/internal/config"
	"example.com/storefront/internal/infra/cache/redis"
	"example.com/storefront/internal/infra/events/kafka"
	"example.com/storefront/internal/infra/mail"
	"example.com/storefront/internal/infra/payment"
	"example.com/storefront/internal/infra/persistence/mongo"
	"example.com/storefront/internal/infra/persistence/mysql"
	"example.com/storefront/internal/infra/security"
	httpapi "example.com/storefront/internal/interface/http"
	"example.com/storefront/internal/logging"
	authuc "example.com/storefront/internal/usecase/auth"
	branduc "example.com/storefront/internal/usecase/brand"
	cartuc "example.com/storefront/internal/usecase/cart"
	categoryuc "example.com/storefront/internal/usecase/category"
	checkoutuc "example.com/storefront/internal/usecase/checkout"
	commentuc "example.com/storefront/internal/usecase/comment"
	departmentuc "example.com/storefront/internal/usecase/department"
	orderuc "example.com/storefront/internal/usecase/order"
	productuc "example.com/storefront/internal/usecase/product"
	questionuc "example.com/storefront/internal/usecase/question"
	subcategoryuc "example.com/storefront/internal/usecase/subcategory"
	useruc "example.com/storefront/internal/usecase/user"
	vendoruc "example.com/storefront/internal/usecase/vendor"
)

func main() {
	cfg := config.Load()
	log := logging.New(logging.Options{
		Service: "storefront",
		Env:     cfg.AppEnv,
		Level:   cfg.LogLevel,
	})

	if err := run(cfg, log); err != nil {
		log.Error().Err(err).Msg("storefront stopped")
		os.Exit(1)
	}
}

func run(cfg config.Config, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	startCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	mongoDB, err := mongo.Connect(startCtx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		return err
	}
	defer func() {
		if err := mongoDB.Client().Disconnect(context.Background()); err != nil {
			log.Warn().Err(err).Msg("mongo disconnect")
		}
	}()
	if err := mongo.EnsureIndexes(startCtx, mongoDB); err != nil {
		return err
	}

	sqlDB, err := mysql.Open(startCtx, cfg.MySQLDSN)
	if err != nil {
		return err
	}
	defer sqlDB.Close()
	if err := mysql.Migrate(startCtx, sqlDB); err != nil {
		return err
	}

	redisClient := redis.NewClient(cfg.RedisAddress, cfg.RedisPassword)
	defer redisClient.Close()
	if err := redisClient.Ping(startCtx).Err(); err != nil {
		log.Warn().Err(err).Msg("redis unreachable, product reads go straight to mysql")
	}

	var publisher interface {
		cartuc.EventPublisher
		Close() error
	} = kafka.NopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		publisher = kafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaCartTopic)
	} else {
		log.Info().Msg("KAFKA_BROKERS not set, cart events are dropped")
	}
	defer publisher.Close()

	userRepo := mongo.NewUserRepository(mongoDB)
	cartStore := mongo.NewCartStore(mongoDB)
	departmentRepo := mysql.NewDepartmentRepository(sqlDB)
	categoryRepo := mysql.NewCategoryRepository(sqlDB)
	subCategoryRepo := mysql.NewSubCategoryRepository(sqlDB)
	brandRepo := mysql.NewBrandRepository(sqlDB)
	vendorRepo := mysql.NewVendorRepository(sqlDB)
	productRepo := redis.NewProductCache(mysql.NewProductRepository(sqlDB), redisClient, cfg.PriceCacheTTL, log)
	orderRepo := mysql.NewOrderRepository(sqlDB)
	commentRepo := mongo.NewCommentRepository(mongoDB)
	questionRepo := mongo.NewQuestionRepository(mongoDB)

	tokens := security.NewJWTService(cfg.JWTSecret, cfg.JWTEmailSecret, cfg.JWTTTL)
	passwords := security.NewBcryptService(security.DefaultPasswordCost)
	mailer := mail.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.MailFrom)

	cartSvc := cartuc.NewService(cartStore, productRepo, publisher, log)
	api := httpapi.NewAPI(httpapi.Dependencies{
		AuthService:        authuc.NewService(userRepo, passwords, tokens, mailer, cfg.ClientOrigin, log),
		UserService:        useruc.NewService(userRepo),
		DepartmentService:  departmentuc.NewService(departmentRepo, categoryRepo),
		CategoryService:    categoryuc.NewService(categoryRepo),
		SubCategoryService: subcategoryuc.NewService(subCategoryRepo, categoryRepo),
		BrandService:       branduc.NewService(brandRepo),
		VendorService:      vendoruc.NewService(vendorRepo, productRepo),
		ProductService:     productuc.NewService(productRepo, categoryRepo, vendorRepo),
		CommentService:     commentuc.NewService(commentRepo, productRepo, orderRepo, log),
		QuestionService:    questionuc.NewService(questionRepo, productRepo),
		CartService:        cartSvc,
		CheckoutService:    checkoutuc.NewService(cartSvc, orderRepo, payment.NewFakeGateway(""), cfg.PaymentSuccessURL, cfg.PaymentCancelURL, log),
		OrderService:       orderuc.NewService(orderRepo),
		TokenService:       tokens,
		Logger:             log,
		ClientOrigin:       cfg.ClientOrigin,
		TokenTTL:           cfg.JWTTTL,
		SecureCookie:       cfg.IsProduction(),
		HealthChecks: map[string]httpapi.HealthCheck{
			"mongo": func(ctx context.Context) error { return mongoDB.Client().Ping(ctx, nil) },
			"mysql": sqlDB.PingContext,
			"redis": func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
		},
	})

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           api.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	return srv.Shutdown(shutdownCtx)
}
