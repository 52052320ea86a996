package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
	_ "github.com/go-sql-driver/mysql"
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"vendorpro/internal/api"
	"vendorpro/internal/config"
	"vendorpro/internal/consumer"
	"vendorpro/internal/repository"
	"vendorpro/internal/service"
	"vendorpro/migrations"
)

func connectDB(cfg config.DatabaseConfig) (*sql.DB, error) {
	var db *sql.DB
	var err error
	for i := 0; i < 10; i++ {
		db, err = sql.Open("mysql", cfg.DSN)
		if err == nil {
			err = db.Ping()
			if err == nil {
				db.SetMaxOpenConns(cfg.MaxOpenConns)
				db.SetMaxIdleConns(cfg.MaxIdleConns)
				log.Printf("Connected to DB")
				return db, nil
			}
		}
		log.Printf("Retry %d: Failed to connect to DB: %v", i+1, err)
		time.Sleep(3 * time.Second)
	}
	return nil, fmt.Errorf("failed to connect to DB after retries: %v", err)
}

func main() {
	cfg := config.Load()

	db, err := connectDB(cfg.Database)
	if err != nil {
		panic(err)
	}

	if err := migrations.AutoMigrate(3, db); err != nil {
		log.Fatalf("Failed to migrate tables: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.Redis.Addr,
	})

	saleWriter := config.NewKafkaWriter(cfg.Kafka.Brokers, cfg.Kafka.SaleTopic)
	saleReader := config.NewKafkaReader(cfg.Kafka.Brokers, cfg.Kafka.SaleTopic, "vendorpro-group")

	userRepo := repository.NewUserRepository(db)
	shopRepo := repository.NewShopRepository(db)
	productRepo := repository.NewProductRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	ruleRepo := repository.NewRuleRepository(db)
	commissionRepo := repository.NewCommissionRepository(db)

	userService := service.NewUserService(userRepo, rdb, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	shopService := service.NewShopService(shopRepo, userRepo)
	productService := service.NewProductService(productRepo, shopRepo)
	saleService := service.NewSaleService(saleRepo, productRepo, shopRepo, saleWriter, rdb)
	commissionService := service.NewCommissionService(ruleRepo, saleRepo, shopRepo, commissionRepo, rdb, saleWriter)

	userHandler := api.NewUserHandler(userService)
	shopHandler := api.NewShopHandler(shopService)
	productHandler := api.NewProductHandler(productService)
	saleHandler := api.NewSaleHandler(saleService)
	commissionHandler := api.NewCommissionHandler(commissionService)

	saleConsumer := consumer.NewConsumer(productService, commissionService, saleReader)
	go saleConsumer.Start(context.Background())

	e := echo.New()

	limiterConfig := middleware.RateLimiterConfig{
		Skipper: middleware.DefaultSkipper,
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(
			middleware.RateLimiterMemoryStoreConfig{
				Rate:      rate.Limit(10),
				Burst:     30,
				ExpiresIn: 3 * time.Minute,
			}),
		IdentifierExtractor: func(context echo.Context) (string, error) {
			return context.Request().RemoteAddr, nil
		},
		ErrorHandler: func(context echo.Context, err error) error {
			return context.JSON(429, map[string]string{"error": "rate limit exceeded"})
		},
		DenyHandler: func(context echo.Context, identifier string, err error) error {
			return context.JSON(429, map[string]string{"error": "rate limit exceeded"})
		},
	}

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.RateLimiterWithConfig(limiterConfig))

	e.POST("/register", userHandler.Register)
	e.POST("/login", userHandler.Login)

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]interface{}{
			"status":  "ok",
			"service": "vendorpro",
			"time":    time.Now().Format(time.RFC3339),
		})
	})

	g := e.Group("")
	g.Use(echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(cfg.Auth.JWTSecret),
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(service.JwtCustomClaims)
		},
	}))

	g.GET("/users/:id", userHandler.GetUserByID)
	g.GET("/sessions/validate", userHandler.ValidateSession)

	g.GET("/shops", shopHandler.ListShops)
	g.POST("/shops", shopHandler.CreateShop)
	g.GET("/shops/:id", shopHandler.GetShop)
	g.PUT("/shops/:id", shopHandler.UpdateShop)
	g.DELETE("/shops/:id", shopHandler.DeleteShop)
	g.GET("/shops/:id/salesmen", shopHandler.ListSalesmen)
	g.POST("/shops/:id/salesmen", shopHandler.AssignSalesman)
	g.DELETE("/shops/:id/salesmen/:salesmanId", shopHandler.RemoveSalesman)

	g.GET("/shops/:id/products", productHandler.ListProducts)
	g.POST("/shops/:id/products", productHandler.CreateProduct)
	g.GET("/products/:id", productHandler.GetProduct)
	g.PUT("/products/:id", productHandler.UpdateProduct)
	g.DELETE("/products/:id", productHandler.DeleteProduct)

	g.POST("/sales", saleHandler.CreateSale)
	g.GET("/sales/:id", saleHandler.GetSale)
	g.GET("/shops/:id/sales", saleHandler.ListShopSales)
	g.GET("/salesmen/:id/sales", saleHandler.ListSalesmanSales)
	g.PUT("/sales/:id/approve", saleHandler.ApproveSale)
	g.PUT("/sales/:id/reject", saleHandler.RejectSale)

	g.GET("/shops/:id/commission-rules", commissionHandler.ListRules)
	g.POST("/shops/:id/commission-rules", commissionHandler.CreateRule)
	g.PUT("/commission-rules/:id", commissionHandler.UpdateRule)
	g.DELETE("/commission-rules/:id", commissionHandler.DeleteRule)

	g.POST("/sales/:id/commission", commissionHandler.CalculateCommission)
	g.GET("/sales/:id/commission", commissionHandler.GetCommission)
	g.PUT("/commissions/:id/pay", commissionHandler.MarkPaid)
	g.GET("/shops/:id/commission-summary", commissionHandler.SalesmanSummary)

	e.Logger.Fatal(e.Start(":" + cfg.Server.Port))
}
