package usecase

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"minimart/internal/domain/model"
	repo "minimart/internal/repository"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

// AuthUsecase はユーザー登録・ログイン・自分情報の取得。
type AuthUsecase struct {
	userRepo  repo.UserRepository
	jwtSecret string
}

func NewAuthUsecase(userRepo repo.UserRepository, jwtSecret string) *AuthUsecase {
	return &AuthUsecase{userRepo: userRepo, jwtSecret: jwtSecret}
}

type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	City     string `json:"city"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UserResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
	City  string `json:"city"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// Register は新規ユーザーを作ってトークンを返す。
func (u *AuthUsecase) Register(ctx context.Context, in RegisterInput) (AuthResponse, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	city := strings.TrimSpace(in.City)

	if name == "" || email == "" || in.Password == "" || city == "" {
		return AuthResponse{}, NewHTTPError(http.StatusBadRequest, "name, email, password and city are required")
	}
	if !strings.Contains(email, "@") {
		return AuthResponse{}, NewHTTPError(http.StatusBadRequest, "invalid email")
	}
	if len(in.Password) < 6 {
		return AuthResponse{}, NewHTTPError(http.StatusBadRequest, "password too short")
	}

	role := model.Role(in.Role)
	if role == "" {
		role = model.RoleCustomer
	}
	if role != model.RoleCustomer && role != model.RoleAdmin {
		return AuthResponse{}, NewHTTPError(http.StatusBadRequest, "invalid role")
	}

	//メール重複チェック
	if _, err := u.userRepo.FindByEmail(ctx, email); err == nil {
		return AuthResponse{}, NewHTTPError(http.StatusConflict, "email already registered")
	} else if err != repo.ErrNotFound {
		return AuthResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return AuthResponse{}, NewHTTPError(http.StatusInternalServerError, "hash error")
	}

	created, err := u.userRepo.Create(ctx, model.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		City:         city,
	})
	if err != nil {
		return AuthResponse{}, NewHTTPError(http.StatusConflict, "email already registered")
	}

	token, err := u.issueToken(created)
	if err != nil {
		return AuthResponse{}, NewHTTPError(http.StatusInternalServerError, "token error")
	}

	return AuthResponse{Token: token, User: toUserResponse(created)}, nil
}

// Login はメール＋パスワードでトークンを発行する。
// ユーザー不在とパスワード不一致は同じメッセージにする
func (u *AuthUsecase) Login(ctx context.Context, in LoginInput) (AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" {
		return AuthResponse{}, NewHTTPError(http.StatusBadRequest, "email and password are required")
	}

	user, err := u.userRepo.FindByEmail(ctx, email)
	if err == repo.ErrNotFound {
		return AuthResponse{}, NewHTTPError(http.StatusUnauthorized, "invalid email or password")
	}
	if err != nil {
		return AuthResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return AuthResponse{}, NewHTTPError(http.StatusUnauthorized, "invalid email or password")
	}

	token, err := u.issueToken(user)
	if err != nil {
		return AuthResponse{}, NewHTTPError(http.StatusInternalServerError, "token error")
	}

	return AuthResponse{Token: token, User: toUserResponse(user)}, nil
}

// Me はトークンのユーザー本人を返す。
func (u *AuthUsecase) Me(ctx context.Context, userID int64) (UserResponse, error) {
	if userID <= 0 {
		return UserResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	user, err := u.userRepo.FindByID(ctx, userID)
	if err == repo.ErrNotFound {
		return UserResponse{}, NewHTTPError(http.StatusNotFound, "user not found")
	}
	if err != nil {
		return UserResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return toUserResponse(user), nil
}

// HS256、有効期限24時間
func (u *AuthUsecase) issueToken(user model.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":  strconv.FormatInt(user.ID, 10),
		"role": string(user.Role),
		"exp":  time.Now().Add(24 * time.Hour).Unix(),
		"iat":  time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(u.jwtSecret))
}

func toUserResponse(user model.User) UserResponse {
	return UserResponse{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Role:  string(user.Role),
		City:  user.City,
	}
}
