package utils

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

const maxImageSize = 10 * 1024 * 1024

var cld *cloudinary.Cloudinary

var versionSegment = regexp.MustCompile(`^v\d+$`)

// InitCloudinary connects the image uploader and checks the credentials with a ping.
func InitCloudinary(cloudName, apiKey, apiSecret string) error {
	if cloudName == "" || apiKey == "" || apiSecret == "" {
		return fmt.Errorf("cloudinary environment variables are not set")
	}

	client, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return fmt.Errorf("error initializing cloudinary: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := client.Admin.Ping(ctx); err != nil {
		return fmt.Errorf("error reaching cloudinary: %w", err)
	}

	cld = client
	LogSuccess("Cloudinary initialized")
	return nil
}

func boolPointer(b bool) *bool {
	return &b
}

func isValidImageType(filename string) bool {
	validExtensions := []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".bmp", ".svg"}
	lowerFilename := strings.ToLower(filename)

	for _, ext := range validExtensions {
		if strings.HasSuffix(lowerFilename, ext) {
			return true
		}
	}
	return false
}

// ValidateImage checks extension and size before anything is sent to Cloudinary.
func ValidateImage(file *multipart.FileHeader) error {
	if !isValidImageType(file.Filename) {
		return fmt.Errorf("unsupported image format, use JPG, PNG, GIF, WEBP, BMP or SVG")
	}
	if file.Size > maxImageSize {
		return fmt.Errorf("image too large, maximum is 10MB")
	}
	return nil
}

// UploadImage stores file under folder and returns its secure URL.
func UploadImage(file *multipart.FileHeader, folder string, prefix string) (string, error) {
	if err := ValidateImage(file); err != nil {
		return "", err
	}
	if cld == nil {
		return "", fmt.Errorf("image uploads are disabled: cloudinary is not configured")
	}

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("error opening file: %w", err)
	}
	defer src.Close()

	// reject files whose content is not an image, whatever their extension
	head := make([]byte, 512)
	n, err := src.Read(head)
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("error reading file: %w", err)
	}
	if !looksLikeImage(head[:n], file.Filename) {
		return "", fmt.Errorf("file content is not an image")
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("error rewinding file: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	uploadResult, err := cld.Upload.Upload(ctx, src, uploader.UploadParams{
		Folder:         folder,
		PublicID:       fmt.Sprintf("%s_%d", prefix, time.Now().UnixNano()),
		UniqueFilename: boolPointer(true),
		Overwrite:      boolPointer(true),
		ResourceType:   "image",
	})
	if err != nil {
		return "", fmt.Errorf("error uploading to cloudinary: %w", err)
	}
	if uploadResult.SecureURL == "" {
		return "", fmt.Errorf("cloudinary returned no URL for %s", uploadResult.PublicID)
	}

	return uploadResult.SecureURL, nil
}

// DeleteImage removes a previously uploaded image given its URL.
func DeleteImage(imageURL string) error {
	if cld == nil {
		return fmt.Errorf("cloudinary is not configured")
	}

	publicID, err := PublicIDFromURL(imageURL)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err = cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	return err
}

// PublicIDFromURL extracts "folder/name" from https://res.cloudinary.com/<cloud>/image/upload/v123/folder/name.png.
func PublicIDFromURL(imageURL string) (string, error) {
	parsed, err := url.Parse(imageURL)
	if err != nil {
		return "", fmt.Errorf("invalid image URL: %w", err)
	}

	_, rest, found := strings.Cut(parsed.Path, "/upload/")
	if !found || rest == "" {
		return "", fmt.Errorf("not a cloudinary upload URL: %s", imageURL)
	}

	segments := strings.Split(rest, "/")
	if len(segments) > 1 && versionSegment.MatchString(segments[0]) {
		segments = segments[1:]
	}

	publicID := strings.Join(segments, "/")
	return strings.TrimSuffix(publicID, path.Ext(publicID)), nil
}

func looksLikeImage(head []byte, filename string) bool {
	if strings.HasSuffix(strings.ToLower(filename), ".svg") {
		return strings.Contains(strings.ToLower(string(head)), "<svg") || strings.Contains(string(head), "<?xml")
	}
	return strings.HasPrefix(http.DetectContentType(head), "image/")
}
