package usecase

import (
	"context"
	"io"
	"net/http"
	"strings"

	"minimart/internal/domain/model"
	repo "minimart/internal/repository"
)

// 画像アップロード先（Cloudinary）。未設定ならnil
type ImageUploader interface {
	Upload(ctx context.Context, file io.Reader) (string, error)
}

// ProductUsecase は商品のCRUDと閲覧。
// 書き込みはオーナー自身の店舗の商品に限る
type ProductUsecase struct {
	productRepo repo.ProductRepository
	shopRepo    repo.ShopRepository
	uploader    ImageUploader
}

func NewProductUsecase(productRepo repo.ProductRepository, shopRepo repo.ShopRepository, uploader ImageUploader) *ProductUsecase {
	return &ProductUsecase{
		productRepo: productRepo,
		shopRepo:    shopRepo,
		uploader:    uploader,
	}
}

type ProductInput struct {
	Name               string `json:"name"`
	Price              int64  `json:"price"`
	Stock              int64  `json:"quantity_in_stock"`
	Category           string `json:"category"`
	DiscountPercentage *int64 `json:"discount_percentage"`
	Featured           bool   `json:"featured"`

	// multipartで来た画像（無ければnil）
	Image io.Reader `json:"-"`
}

type ProductResponse struct {
	ID                 int64  `json:"id"`
	Name               string `json:"name"`
	Price              int64  `json:"price"`
	Stock              int64  `json:"quantity_in_stock"`
	ImageURL           string `json:"image_url"`
	Category           string `json:"category"`
	DiscountPercentage *int64 `json:"discount_percentage,omitempty"`
	Featured           bool   `json:"featured"`
	ShopID             int64  `json:"shop_id"`
	ShopName           string `json:"shop_name,omitempty"`
}

func (u *ProductUsecase) CreateProduct(ctx context.Context, ownerID int64, in ProductInput) (ProductResponse, error) {
	if ownerID <= 0 {
		return ProductResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	if err := validateProductInput(in); err != nil {
		return ProductResponse{}, err
	}

	//商品は店舗にぶら下がる。先に店舗を作っておくこと
	shop, err := u.shopRepo.FindByOwnerID(ctx, ownerID)
	if err == repo.ErrNotFound {
		return ProductResponse{}, NewHTTPError(http.StatusNotFound, "create a shop first")
	}
	if err != nil {
		return ProductResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	imageURL, err := u.maybeUpload(ctx, in.Image)
	if err != nil {
		return ProductResponse{}, err
	}

	created, err := u.productRepo.Create(ctx, model.Product{
		Name:               strings.TrimSpace(in.Name),
		Price:              in.Price,
		Stock:              in.Stock,
		ImageURL:           imageURL,
		Category:           strings.TrimSpace(in.Category),
		DiscountPercentage: in.DiscountPercentage,
		Featured:           in.Featured,
		ShopID:             shop.ID,
	})
	if err != nil {
		return ProductResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	resp := toProductResponse(created)
	resp.ShopName = shop.Name
	return resp, nil
}

func (u *ProductUsecase) UpdateProduct(ctx context.Context, ownerID int64, productID int64, in ProductInput) (ProductResponse, error) {
	if ownerID <= 0 {
		return ProductResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if productID <= 0 {
		return ProductResponse{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	if err := validateProductInput(in); err != nil {
		return ProductResponse{}, err
	}

	shop, p, err := u.findOwnedProduct(ctx, ownerID, productID)
	if err != nil {
		return ProductResponse{}, err
	}

	imageURL := p.ImageURL
	if in.Image != nil {
		imageURL, err = u.maybeUpload(ctx, in.Image)
		if err != nil {
			return ProductResponse{}, err
		}
	}

	p.Name = strings.TrimSpace(in.Name)
	p.Price = in.Price
	p.Stock = in.Stock
	p.ImageURL = imageURL
	p.Category = strings.TrimSpace(in.Category)
	p.DiscountPercentage = in.DiscountPercentage
	p.Featured = in.Featured

	if err := u.productRepo.Update(ctx, p); err != nil {
		if err == repo.ErrNotFound {
			return ProductResponse{}, NewHTTPError(http.StatusNotFound, "product not found")
		}
		return ProductResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	resp := toProductResponse(p)
	resp.ShopName = shop.Name
	return resp, nil
}

// DeleteProduct は論理削除。過去の注文明細はスナップショットなので影響しない
func (u *ProductUsecase) DeleteProduct(ctx context.Context, ownerID int64, productID int64) error {
	if ownerID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if productID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	if _, _, err := u.findOwnedProduct(ctx, ownerID, productID); err != nil {
		return err
	}

	if err := u.productRepo.Delete(ctx, productID); err != nil {
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "product not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

// ListMyProducts はオーナー自身の店舗の商品一覧。
func (u *ProductUsecase) ListMyProducts(ctx context.Context, ownerID int64) ([]ProductResponse, error) {
	if ownerID <= 0 {
		return []ProductResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	shop, err := u.shopRepo.FindByOwnerID(ctx, ownerID)
	if err == repo.ErrNotFound {
		return []ProductResponse{}, NewHTTPError(http.StatusNotFound, "shop not found")
	}
	if err != nil {
		return []ProductResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	products, err := u.productRepo.ListByShopID(ctx, shop.ID)
	if err != nil {
		return []ProductResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	out := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		resp := toProductResponse(p)
		resp.ShopName = shop.Name
		out = append(out, resp)
	}
	return out, nil
}

// ListByShop は店舗ページ用の商品一覧（公開）。
func (u *ProductUsecase) ListByShop(ctx context.Context, shopID int64) ([]ProductResponse, error) {
	if shopID <= 0 {
		return []ProductResponse{}, NewHTTPError(http.StatusBadRequest, "invalid shop id")
	}

	shop, err := u.shopRepo.FindByID(ctx, shopID)
	if err == repo.ErrNotFound {
		return []ProductResponse{}, NewHTTPError(http.StatusNotFound, "shop not found")
	}
	if err != nil {
		return []ProductResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	products, err := u.productRepo.ListByShopID(ctx, shop.ID)
	if err != nil {
		return []ProductResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	out := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		resp := toProductResponse(p)
		resp.ShopName = shop.Name
		out = append(out, resp)
	}
	return out, nil
}

// ListByCity は都市ページ用。都市内の全店舗の商品を集める。
// categoryが空でなければそのカテゴリだけに絞る
func (u *ProductUsecase) ListByCity(ctx context.Context, city string, category string) ([]ProductResponse, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return []ProductResponse{}, NewHTTPError(http.StatusBadRequest, "city is required")
	}

	shops, err := u.shopRepo.ListByCity(ctx, city)
	if err != nil {
		return []ProductResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if len(shops) == 0 {
		return []ProductResponse{}, nil
	}

	shopIDs := make([]int64, 0, len(shops))
	shopNames := make(map[int64]string, len(shops))
	for _, s := range shops {
		shopIDs = append(shopIDs, s.ID)
		shopNames[s.ID] = s.Name
	}

	products, err := u.productRepo.ListByShopIDs(ctx, shopIDs, strings.TrimSpace(category))
	if err != nil {
		return []ProductResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	out := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		resp := toProductResponse(p)
		resp.ShopName = shopNames[p.ShopID]
		out = append(out, resp)
	}
	return out, nil
}

func (u *ProductUsecase) findOwnedProduct(ctx context.Context, ownerID, productID int64) (model.Shop, model.Product, error) {
	shop, err := u.shopRepo.FindByOwnerID(ctx, ownerID)
	if err == repo.ErrNotFound {
		return model.Shop{}, model.Product{}, NewHTTPError(http.StatusNotFound, "shop not found")
	}
	if err != nil {
		return model.Shop{}, model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	p, err := u.productRepo.FindByID(ctx, productID)
	if err == repo.ErrNotFound {
		return model.Shop{}, model.Product{}, NewHTTPError(http.StatusNotFound, "product not found")
	}
	if err != nil {
		return model.Shop{}, model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//他店舗の商品は触らせない
	if p.ShopID != shop.ID {
		return model.Shop{}, model.Product{}, NewHTTPError(http.StatusForbidden, "forbidden")
	}

	return shop, p, nil
}

func (u *ProductUsecase) maybeUpload(ctx context.Context, file io.Reader) (string, error) {
	if file == nil {
		return "", nil
	}
	if u.uploader == nil {
		return "", NewHTTPError(http.StatusBadRequest, "image upload not configured")
	}
	url, err := u.uploader.Upload(ctx, file)
	if err != nil {
		return "", NewHTTPError(http.StatusInternalServerError, "upload failed")
	}
	return url, nil
}

func validateProductInput(in ProductInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return NewHTTPError(http.StatusBadRequest, "name is required")
	}
	if in.Price < 0 {
		return NewHTTPError(http.StatusBadRequest, "price must not be negative")
	}
	if in.Stock < 0 {
		return NewHTTPError(http.StatusBadRequest, "stock must not be negative")
	}
	if in.DiscountPercentage != nil && (*in.DiscountPercentage < 0 || *in.DiscountPercentage > 100) {
		return NewHTTPError(http.StatusBadRequest, "discount must be between 0 and 100")
	}
	return nil
}

func toProductResponse(p model.Product) ProductResponse {
	return ProductResponse{
		ID:                 p.ID,
		Name:               p.Name,
		Price:              p.Price,
		Stock:              p.Stock,
		ImageURL:           p.ImageURL,
		Category:           p.Category,
		DiscountPercentage: p.DiscountPercentage,
		Featured:           p.Featured,
		ShopID:             p.ShopID,
	}
}
