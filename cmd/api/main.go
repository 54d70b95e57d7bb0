package main

import (
	"log"

	"minimart/internal/config"
	"minimart/internal/domain/model"
	"minimart/internal/handler"
	"minimart/internal/infra/db"
	infraRepo "minimart/internal/infra/repository"
	"minimart/internal/infra/upload"
	"minimart/internal/metrics"
	"minimart/internal/server"
	"minimart/internal/usecase"

	"github.com/joho/godotenv"
)

func main() {
	//.envは無くてもよい（本番はenv直指定）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	//DB接続
	gormDB, err := db.Connect()
	if err != nil {
		log.Fatalf("db: %v", err)
	}

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Shop{},
		&model.Product{},
		&model.Cart{},
		&model.CartItem{},
		&model.Address{},
		&model.Order{},
		&model.OrderItem{},
		&model.OrderFragment{},
		&model.AuditLog{},
	); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	shopRepo := infraRepo.NewShopGormRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	cartRepo := infraRepo.NewCartGormRepository(gormDB)
	cartItemRepo := infraRepo.NewCartItemGormRepository(gormDB)
	addressRepo := infraRepo.NewAddressGormRepository(gormDB)
	auditRepo := infraRepo.NewAuditLogGormRepository(gormDB)
	txManager := infraRepo.NewTxManagerGorm(gormDB)

	//画像アップロード（CLOUDINARY_URL未設定なら無効）
	var uploader usecase.ImageUploader
	if cfg.CloudinaryURL != "" {
		cld, err := upload.NewCloudinaryUploader(cfg.CloudinaryURL)
		if err != nil {
			log.Fatalf("cloudinary: %v", err)
		}
		uploader = cld
	}

	orderMetrics := metrics.NewOrderMetrics()

	//Usecase生成
	authUC := usecase.NewAuthUsecase(userRepo, cfg.JWTSecret)
	shopUC := usecase.NewShopUsecase(shopRepo)
	productUC := usecase.NewProductUsecase(productRepo, shopRepo, uploader)
	cartUC := usecase.NewCartUsecase(cartRepo, cartItemRepo, productRepo, shopRepo)
	orderUC := usecase.NewOrderUsecase(txManager, addressRepo, orderMetrics)
	shopOrderUC := usecase.NewShopOrderUsecase(txManager, shopRepo, userRepo, auditRepo, orderMetrics)
	addressUC := usecase.NewAddressUsecase(addressRepo)
	analyticsUC := usecase.NewAnalyticsUsecase(txManager, shopRepo)

	//Handler生成とサーバー起動
	e := server.New(cfg, server.Handlers{
		Auth:      handler.NewAuthHandler(authUC),
		Shop:      handler.NewShopHandler(shopUC),
		Product:   handler.NewProductHandler(productUC),
		Cart:      handler.NewCartHandler(cartUC),
		Order:     handler.NewOrderHandler(orderUC),
		ShopOrder: handler.NewShopOrderHandler(shopOrderUC),
		Address:   handler.NewAddressHandler(addressUC),
		Analytics: handler.NewAnalyticsHandler(analyticsUC),
	})

	if err := server.Start(e, cfg); err != nil {
		log.Fatalf("server: %v", err)
	}
}
