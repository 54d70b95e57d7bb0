package config

import (
	"fmt"
	"os"
)

// Configはアプリ全体の設定
type Config struct {
	Port string // サーバーポート（8080）

	JWTSecret string // JWT署名シークレット

	GoEnv string // dev/prod
	FEURL string // フロントURL（CORSで使う）

	// cloudinary://... 形式。空なら画像アップロードは無効
	CloudinaryURL string
}

// Loadは環境変数から読む（DB接続はinfra/dbが直接envを見る）
func Load() (Config, error) {
	cfg := Config{
		Port:          os.Getenv("PORT"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		GoEnv:         os.Getenv("GO_ENV"),
		FEURL:         os.Getenv("FE_URL"),
		CloudinaryURL: os.Getenv("CLOUDINARY_URL"),
	}

	//必須チェック
	if cfg.Port == "" {
		return Config{}, fmt.Errorf("PORT is required")
	}
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.FEURL == "" {
		return Config{}, fmt.Errorf("FE_URL is required")
	}

	return cfg, nil
}
