package cloudinary

import (
	"context"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/cloudinary/cloudinary-go/v2/config"
)

// Client wraps Cloudinary upload for post media. Paid posts keep the raw
// upload private-by-obscurity; access control lives in the post handlers.
type Client interface {
	UploadImage(ctx context.Context, file io.Reader, folder, publicID string) (url, thumbnailURL string, err error)
	UploadVideo(ctx context.Context, file io.Reader, folder, publicID string) (url, thumbnailURL string, err error)
}

const (
	ImageWidth = 1080
	ThumbWidth = 320
)

// Eager transformations applied at upload time (single string per SDK).
const (
	imageEager = "q_auto,f_auto,w_1080,c_fill"
	videoEager = "q_auto:low,f_auto,w_1280"
)

var eagerAsyncFalse = false

// BuildOptimizedImageURL returns a delivery URL with resize/quality transforms.
func BuildOptimizedImageURL(cloudName, publicID string, width int) string {
	if width <= 0 {
		width = ImageWidth
	}
	return fmt.Sprintf("https://res.cloudinary.com/%s/image/upload/q_auto,f_auto,w_%d,c_fill/%s",
		cloudName, width, publicID)
}

type clientImpl struct {
	cloudName string
	uploader  *uploader.API
}

func (c *clientImpl) UploadImage(ctx context.Context, file io.Reader, folder, publicID string) (string, string, error) {
	result, err := c.uploader.Upload(ctx, file, uploader.UploadParams{
		Folder:     folder,
		PublicID:   publicID,
		Eager:      imageEager,
		EagerAsync: &eagerAsyncFalse,
	})
	if err != nil {
		return "", "", err
	}
	thumb := ""
	if len(result.Eager) > 0 {
		thumb = result.Eager[0].SecureURL
	}
	if thumb == "" {
		thumb = BuildOptimizedImageURL(c.cloudName, result.PublicID, ThumbWidth)
	}
	return result.SecureURL, thumb, nil
}

func (c *clientImpl) UploadVideo(ctx context.Context, file io.Reader, folder, publicID string) (string, string, error) {
	result, err := c.uploader.Upload(ctx, file, uploader.UploadParams{
		Folder:       folder,
		PublicID:     publicID,
		ResourceType: "video",
		Eager:        videoEager,
		EagerAsync:   &eagerAsyncFalse,
	})
	if err != nil {
		return "", "", err
	}
	thumb := ""
	if len(result.Eager) > 0 {
		thumb = result.Eager[0].SecureURL
	}
	if thumb == "" {
		thumb = fmt.Sprintf("https://res.cloudinary.com/%s/video/upload/so_0/%s.jpg", c.cloudName, result.PublicID)
	}
	return result.SecureURL, thumb, nil
}

// NewClientFromParams builds a Client from cloud name, API key, and secret.
func NewClientFromParams(cloudName, apiKey, apiSecret string) (Client, error) {
	cfg, err := config.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, err
	}
	up, err := uploader.NewWithConfiguration(cfg)
	if err != nil {
		return nil, err
	}
	return &clientImpl{cloudName: cloudName, uploader: up}, nil
}
