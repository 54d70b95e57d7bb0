package usecase

import (
	"context"
	"net/http"
	"regexp"
	"strings"

	"minimart/internal/domain/model"
	repo "minimart/internal/repository"
)

var (
	postalCodeRe = regexp.MustCompile(`^[0-9]{6}$`)
	phoneRe      = regexp.MustCompile(`^[0-9]{10}$`)
)

// AddressUsecase は配送先住所のCRUD。
// デフォルト住所はユーザーごとに最大1つ
type AddressUsecase struct {
	addressRepo repo.AddressRepository
}

func NewAddressUsecase(addressRepo repo.AddressRepository) *AddressUsecase {
	return &AddressUsecase{addressRepo: addressRepo}
}

type AddressInput struct {
	FullName      string `json:"full_name"`
	StreetAddress string `json:"street_address"`
	City          string `json:"city"`
	State         string `json:"state"`
	PostalCode    string `json:"postal_code"`
	PhoneNumber   string `json:"phone_number"`
	IsDefault     bool   `json:"is_default"`
}

type AddressResponse struct {
	ID            int64  `json:"id"`
	FullName      string `json:"full_name"`
	StreetAddress string `json:"street_address"`
	City          string `json:"city"`
	State         string `json:"state"`
	PostalCode    string `json:"postal_code"`
	PhoneNumber   string `json:"phone_number"`
	IsDefault     bool   `json:"is_default"`
}

func (u *AddressUsecase) CreateAddress(ctx context.Context, userID int64, in AddressInput) (AddressResponse, error) {
	if userID <= 0 {
		return AddressResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err := validateAddressInput(in); err != nil {
		return AddressResponse{}, err
	}

	existing, err := u.addressRepo.ListByUserID(ctx, userID)
	if err != nil {
		return AddressResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//最初の住所は自動的にデフォルトになる
	isDefault := in.IsDefault || len(existing) == 0

	created, err := u.addressRepo.Create(ctx, model.Address{
		UserID:        userID,
		FullName:      strings.TrimSpace(in.FullName),
		StreetAddress: strings.TrimSpace(in.StreetAddress),
		City:          strings.TrimSpace(in.City),
		State:         strings.TrimSpace(in.State),
		PostalCode:    in.PostalCode,
		PhoneNumber:   in.PhoneNumber,
		IsDefault:     false,
	})
	if err != nil {
		return AddressResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if isDefault {
		if err := u.addressRepo.SetDefault(ctx, userID, created.ID); err != nil {
			return AddressResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		created.IsDefault = true
	}

	return toAddressResponse(created), nil
}

func (u *AddressUsecase) ListAddresses(ctx context.Context, userID int64) ([]AddressResponse, error) {
	if userID <= 0 {
		return []AddressResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	addresses, err := u.addressRepo.ListByUserID(ctx, userID)
	if err != nil {
		return []AddressResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	out := make([]AddressResponse, 0, len(addresses))
	for _, a := range addresses {
		out = append(out, toAddressResponse(a))
	}
	return out, nil
}

func (u *AddressUsecase) UpdateAddress(ctx context.Context, userID int64, addressID int64, in AddressInput) (AddressResponse, error) {
	if userID <= 0 {
		return AddressResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err := validateAddressInput(in); err != nil {
		return AddressResponse{}, err
	}

	addr, err := u.findOwnedAddress(ctx, userID, addressID)
	if err != nil {
		return AddressResponse{}, err
	}

	addr.FullName = strings.TrimSpace(in.FullName)
	addr.StreetAddress = strings.TrimSpace(in.StreetAddress)
	addr.City = strings.TrimSpace(in.City)
	addr.State = strings.TrimSpace(in.State)
	addr.PostalCode = in.PostalCode
	addr.PhoneNumber = in.PhoneNumber

	if err := u.addressRepo.Update(ctx, addr); err != nil {
		if err == repo.ErrNotFound {
			return AddressResponse{}, NewHTTPError(http.StatusNotFound, "address not found")
		}
		return AddressResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if in.IsDefault && !addr.IsDefault {
		if err := u.addressRepo.SetDefault(ctx, userID, addr.ID); err != nil {
			return AddressResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		addr.IsDefault = true
	}

	return toAddressResponse(addr), nil
}

// DeleteAddress は住所を削除する。デフォルト住所を消したときは
// 残りの先頭をデフォルトに引き継ぐ（残りが無ければそのまま）
func (u *AddressUsecase) DeleteAddress(ctx context.Context, userID int64, addressID int64) error {
	if userID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	addr, err := u.findOwnedAddress(ctx, userID, addressID)
	if err != nil {
		return err
	}

	if err := u.addressRepo.Delete(ctx, addressID); err != nil {
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "address not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if addr.IsDefault {
		remaining, err := u.addressRepo.ListByUserID(ctx, userID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if len(remaining) > 0 {
			if err := u.addressRepo.SetDefault(ctx, userID, remaining[0].ID); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
		}
	}

	return nil
}

func (u *AddressUsecase) SetDefaultAddress(ctx context.Context, userID int64, addressID int64) error {
	if userID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	if _, err := u.findOwnedAddress(ctx, userID, addressID); err != nil {
		return err
	}

	if err := u.addressRepo.SetDefault(ctx, userID, addressID); err != nil {
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "address not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func (u *AddressUsecase) findOwnedAddress(ctx context.Context, userID, addressID int64) (model.Address, error) {
	if addressID <= 0 {
		return model.Address{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	addr, err := u.addressRepo.FindByID(ctx, addressID)
	if err == repo.ErrNotFound {
		return model.Address{}, NewHTTPError(http.StatusNotFound, "address not found")
	}
	if err != nil {
		return model.Address{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if addr.UserID != userID {
		//他人の住所は存在しない扱い
		return model.Address{}, NewHTTPError(http.StatusNotFound, "address not found")
	}
	return addr, nil
}

func validateAddressInput(in AddressInput) error {
	if strings.TrimSpace(in.FullName) == "" || strings.TrimSpace(in.StreetAddress) == "" ||
		strings.TrimSpace(in.City) == "" || strings.TrimSpace(in.State) == "" {
		return NewHTTPError(http.StatusBadRequest, "all address fields are required")
	}
	if !postalCodeRe.MatchString(in.PostalCode) {
		return NewHTTPError(http.StatusBadRequest, "postal code must be 6 digits")
	}
	if !phoneRe.MatchString(in.PhoneNumber) {
		return NewHTTPError(http.StatusBadRequest, "phone number must be 10 digits")
	}
	return nil
}

func toAddressResponse(a model.Address) AddressResponse {
	return AddressResponse{
		ID:            a.ID,
		FullName:      a.FullName,
		StreetAddress: a.StreetAddress,
		City:          a.City,
		State:         a.State,
		PostalCode:    a.PostalCode,
		PhoneNumber:   a.PhoneNumber,
		IsDefault:     a.IsDefault,
	}
}
