package usecase_test

import (
	"context"
	"testing"

	"minimart/internal/domain/model"
	repo "minimart/internal/repository"
	"minimart/internal/usecase"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "unit-test-secret"

func TestAuthUsecase_Register_Success(t *testing.T) {
	userRepo := new(UserRepoMock)
	uc := usecase.NewAuthUsecase(userRepo, testSecret)
	ctx := context.Background()

	userRepo.On("FindByEmail", ctx, "asha@example.com").Return(model.User{}, repo.ErrNotFound)
	userRepo.On("Create", ctx, mock.MatchedBy(func(u model.User) bool {
		//パスワードは平文では保存されない
		return u.Email == "asha@example.com" && u.Role == model.RoleCustomer &&
			u.PasswordHash != "" && u.PasswordHash != "secret123"
	})).Return(model.User{ID: 1, Name: "Asha", Email: "asha@example.com", Role: model.RoleCustomer, City: "Pune"}, nil)

	out, err := uc.Register(ctx, usecase.RegisterInput{
		Name: "Asha", Email: "Asha@Example.com", Password: "secret123", City: "Pune",
	})
	assert.NoError(t, err)
	assert.NotEmpty(t, out.Token)
	assert.Equal(t, "customer", out.User.Role)

	//発行されたトークンにsubとroleが入っている
	token, err := jwt.Parse(out.Token, func(t *jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	assert.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, "1", claims["sub"])
	assert.Equal(t, "customer", claims["role"])
}

func TestAuthUsecase_Register_DuplicateEmail(t *testing.T) {
	userRepo := new(UserRepoMock)
	uc := usecase.NewAuthUsecase(userRepo, testSecret)
	ctx := context.Background()

	userRepo.On("FindByEmail", ctx, "asha@example.com").Return(model.User{ID: 1}, nil)

	_, err := uc.Register(ctx, usecase.RegisterInput{
		Name: "Asha", Email: "asha@example.com", Password: "secret123", City: "Pune",
	})
	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, 409, he.Status)
	userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAuthUsecase_Register_InvalidRole(t *testing.T) {
	uc := usecase.NewAuthUsecase(new(UserRepoMock), testSecret)

	_, err := uc.Register(context.Background(), usecase.RegisterInput{
		Name: "Asha", Email: "asha@example.com", Password: "secret123", City: "Pune", Role: "superuser",
	})
	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, 400, he.Status)
}

func TestAuthUsecase_Login_WrongPassword(t *testing.T) {
	userRepo := new(UserRepoMock)
	uc := usecase.NewAuthUsecase(userRepo, testSecret)
	ctx := context.Background()

	hash, _ := bcrypt.GenerateFromPassword([]byte("correct"), bcrypt.DefaultCost)
	userRepo.On("FindByEmail", ctx, "asha@example.com").Return(model.User{
		ID: 1, Email: "asha@example.com", PasswordHash: string(hash),
	}, nil)

	_, err := uc.Login(ctx, usecase.LoginInput{Email: "asha@example.com", Password: "wrong"})
	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, 401, he.Status)
	assert.Equal(t, "invalid email or password", he.Message)
}

func TestAuthUsecase_Login_UnknownEmailSameMessage(t *testing.T) {
	//ユーザー不在とパスワード不一致は同じ応答
	userRepo := new(UserRepoMock)
	uc := usecase.NewAuthUsecase(userRepo, testSecret)
	ctx := context.Background()

	userRepo.On("FindByEmail", ctx, "nobody@example.com").Return(model.User{}, repo.ErrNotFound)

	_, err := uc.Login(ctx, usecase.LoginInput{Email: "nobody@example.com", Password: "whatever"})
	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, 401, he.Status)
	assert.Equal(t, "invalid email or password", he.Message)
}

func TestAuthUsecase_Login_Success(t *testing.T) {
	userRepo := new(UserRepoMock)
	uc := usecase.NewAuthUsecase(userRepo, testSecret)
	ctx := context.Background()

	hash, _ := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.DefaultCost)
	userRepo.On("FindByEmail", ctx, "asha@example.com").Return(model.User{
		ID: 1, Name: "Asha", Email: "asha@example.com", PasswordHash: string(hash),
		Role: model.RoleAdmin, City: "Pune",
	}, nil)

	out, err := uc.Login(ctx, usecase.LoginInput{Email: "asha@example.com", Password: "secret123"})
	assert.NoError(t, err)
	assert.NotEmpty(t, out.Token)
	assert.Equal(t, "admin", out.User.Role)
	assert.Equal(t, "Pune", out.User.City)
}
