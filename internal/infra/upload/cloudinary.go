package upload

import (
	"context"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// 商品画像をCloudinaryへアップロードする。
// CLOUDINARY_URL（cloudinary://...形式）で初期化する
type CloudinaryUploader struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinaryUploader(url string) (*CloudinaryUploader, error) {
	cld, err := cloudinary.NewFromURL(url)
	if err != nil {
		return nil, err
	}
	return &CloudinaryUploader{cld: cld}, nil
}

// Upload は画像を上げて公開URLを返す
func (u *CloudinaryUploader) Upload(ctx context.Context, file io.Reader) (string, error) {
	res, err := u.cld.Upload.Upload(ctx, file, uploader.UploadParams{Folder: "products"})
	if err != nil {
		return "", err
	}
	return res.SecureURL, nil
}
