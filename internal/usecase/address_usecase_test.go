package usecase_test

import (
	"context"
	"testing"

	"minimart/internal/domain/model"
	"minimart/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func validAddressInput() usecase.AddressInput {
	return usecase.AddressInput{
		FullName:      "Asha Patel",
		StreetAddress: "12 MG Road",
		City:          "Pune",
		State:         "MH",
		PostalCode:    "411001",
		PhoneNumber:   "9876543210",
	}
}

func TestAddressUsecase_Create_FirstAddressBecomesDefault(t *testing.T) {
	addrRepo := new(AddressRepoMock)
	uc := usecase.NewAddressUsecase(addrRepo)
	ctx := context.Background()

	addrRepo.On("ListByUserID", ctx, int64(1)).Return([]model.Address{}, nil)
	addrRepo.On("Create", ctx, mock.Anything).Return(model.Address{ID: 5, UserID: 1}, nil)
	addrRepo.On("SetDefault", ctx, int64(1), int64(5)).Return(nil)

	out, err := uc.CreateAddress(ctx, 1, validAddressInput())
	assert.NoError(t, err)
	assert.True(t, out.IsDefault)
	addrRepo.AssertCalled(t, "SetDefault", ctx, int64(1), int64(5))
}

func TestAddressUsecase_Create_SecondAddressNotDefault(t *testing.T) {
	addrRepo := new(AddressRepoMock)
	uc := usecase.NewAddressUsecase(addrRepo)
	ctx := context.Background()

	addrRepo.On("ListByUserID", ctx, int64(1)).Return([]model.Address{{ID: 5, IsDefault: true}}, nil)
	addrRepo.On("Create", ctx, mock.Anything).Return(model.Address{ID: 6, UserID: 1}, nil)

	out, err := uc.CreateAddress(ctx, 1, validAddressInput())
	assert.NoError(t, err)
	assert.False(t, out.IsDefault)
	addrRepo.AssertNotCalled(t, "SetDefault", mock.Anything, mock.Anything, mock.Anything)
}

func TestAddressUsecase_Create_ValidationErrors(t *testing.T) {
	uc := usecase.NewAddressUsecase(new(AddressRepoMock))
	ctx := context.Background()

	//郵便番号は6桁固定
	in := validAddressInput()
	in.PostalCode = "41100"
	_, err := uc.CreateAddress(ctx, 1, in)
	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, 400, he.Status)

	in = validAddressInput()
	in.PostalCode = "41100a"
	_, err = uc.CreateAddress(ctx, 1, in)
	he, _ = usecase.AsHTTPError(err)
	assert.Equal(t, 400, he.Status)

	//電話番号は10桁固定
	in = validAddressInput()
	in.PhoneNumber = "12345"
	_, err = uc.CreateAddress(ctx, 1, in)
	he, _ = usecase.AsHTTPError(err)
	assert.Equal(t, 400, he.Status)

	in = validAddressInput()
	in.FullName = "  "
	_, err = uc.CreateAddress(ctx, 1, in)
	he, _ = usecase.AsHTTPError(err)
	assert.Equal(t, 400, he.Status)
}

func TestAddressUsecase_Delete_ReassignsDefault(t *testing.T) {
	//デフォルト住所を消したら残りの先頭に引き継ぐ
	addrRepo := new(AddressRepoMock)
	uc := usecase.NewAddressUsecase(addrRepo)
	ctx := context.Background()

	addrRepo.On("FindByID", ctx, int64(5)).Return(model.Address{ID: 5, UserID: 1, IsDefault: true}, nil)
	addrRepo.On("Delete", ctx, int64(5)).Return(nil)
	addrRepo.On("ListByUserID", ctx, int64(1)).Return([]model.Address{{ID: 6, UserID: 1}}, nil)
	addrRepo.On("SetDefault", ctx, int64(1), int64(6)).Return(nil)

	err := uc.DeleteAddress(ctx, 1, 5)
	assert.NoError(t, err)
	addrRepo.AssertCalled(t, "SetDefault", ctx, int64(1), int64(6))
}

func TestAddressUsecase_Delete_LastAddressLeavesNoDefault(t *testing.T) {
	addrRepo := new(AddressRepoMock)
	uc := usecase.NewAddressUsecase(addrRepo)
	ctx := context.Background()

	addrRepo.On("FindByID", ctx, int64(5)).Return(model.Address{ID: 5, UserID: 1, IsDefault: true}, nil)
	addrRepo.On("Delete", ctx, int64(5)).Return(nil)
	addrRepo.On("ListByUserID", ctx, int64(1)).Return([]model.Address{}, nil)

	err := uc.DeleteAddress(ctx, 1, 5)
	assert.NoError(t, err)
	addrRepo.AssertNotCalled(t, "SetDefault", mock.Anything, mock.Anything, mock.Anything)
}

func TestAddressUsecase_ForeignAddressIs404(t *testing.T) {
	addrRepo := new(AddressRepoMock)
	uc := usecase.NewAddressUsecase(addrRepo)
	ctx := context.Background()

	addrRepo.On("FindByID", ctx, int64(5)).Return(model.Address{ID: 5, UserID: 99}, nil)

	err := uc.DeleteAddress(ctx, 1, 5)
	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, 404, he.Status)

	err = uc.SetDefaultAddress(ctx, 1, 5)
	he, _ = usecase.AsHTTPError(err)
	assert.Equal(t, 404, he.Status)
}
