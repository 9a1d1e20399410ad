// internal/services/storage_service.go
package services

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"

	"github.com/artledger/registry-backend/internal/config"
	"github.com/artledger/registry-backend/internal/utils"
)

// StorageService stores asset media. With AWS credentials configured it
// uploads to S3; without them it hands back relative keys that resolve
// against the configured media base URL.
type StorageService struct {
	s3Client *s3.S3
	config   *config.Config
}

type UploadResult struct {
	URL         string `json:"url"`
	Key         string `json:"key"`
	Size        int64  `json:"size"`
	MimeType    string `json:"mime_type"`
	ContentHash string `json:"content_hash"`
}

type UploadOptions struct {
	Folder       string
	MaxSize      int64 // in bytes
	AllowedTypes []string
	IsPublic     bool
}

func NewStorageService(config *config.Config) (*StorageService, error) {
	if config.AWS.AccessKeyID == "" {
		// Return service without S3 for local development
		return &StorageService{config: config}, nil
	}

	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(config.AWS.Region),
		Credentials: credentials.NewStaticCredentials(
			config.AWS.AccessKeyID,
			config.AWS.SecretAccessKey,
			"",
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return &StorageService{
		s3Client: s3.New(sess),
		config:   config,
	}, nil
}

// MediaUploadOptions returns the constraints applied to asset media.
func (s *StorageService) MediaUploadOptions() UploadOptions {
	return UploadOptions{
		Folder:       "asset-media",
		MaxSize:      50 * 1024 * 1024, // 50MB
		AllowedTypes: []string{".jpg", ".jpeg", ".png", ".gif", ".svg", ".mp4", ".mp3", ".wav", ".glb"},
		IsPublic:     true,
	}
}

// UploadMedia validates and stores one media file. The returned content
// hash lets clients prove what bytes a minted asset points at.
func (s *StorageService) UploadMedia(file multipart.File, header *multipart.FileHeader) (*UploadResult, error) {
	options := s.MediaUploadOptions()

	if options.MaxSize > 0 && header.Size > options.MaxSize {
		return nil, fmt.Errorf("file size %d bytes exceeds maximum allowed size %d bytes", header.Size, options.MaxSize)
	}

	fileExt := strings.ToLower(filepath.Ext(header.Filename))
	allowed := false
	for _, allowedType := range options.AllowedTypes {
		if fileExt == allowedType {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, fmt.Errorf("file type %s is not allowed", fileExt)
	}

	contentType := header.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "image/") && fileExt != ".svg" {
		if err := s.validateImage(file); err != nil {
			return nil, err
		}
	}

	fileBytes, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	key, err := s.buildMediaKey(header.Filename, options.Folder)
	if err != nil {
		return nil, err
	}
	contentHash := utils.HashBytes(fileBytes)

	var result *UploadResult
	if s.s3Client != nil {
		result, err = s.uploadToS3(fileBytes, key, contentType, options.IsPublic)
	} else {
		result, err = s.uploadToLocal(fileBytes, key, contentType)
	}
	if err != nil {
		return nil, err
	}

	result.ContentHash = contentHash
	return result, nil
}

func (s *StorageService) uploadToS3(fileBytes []byte, key, contentType string, isPublic bool) (*UploadResult, error) {
	params := &s3.PutObjectInput{
		Bucket:        aws.String(s.config.AWS.S3Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(fileBytes),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(fileBytes))),
	}

	if isPublic {
		params.ACL = aws.String("public-read")
	}

	_, err := s.s3Client.PutObject(params)
	if err != nil {
		return nil, fmt.Errorf("failed to upload to S3: %w", err)
	}

	return &UploadResult{
		URL:      s.getS3URL(key),
		Key:      key,
		Size:     int64(len(fileBytes)),
		MimeType: contentType,
	}, nil
}

// uploadToLocal stands in for S3 during development. The returned URL is
// the bare key; asset reads resolve it against Registry.MediaBaseURL.
func (s *StorageService) uploadToLocal(fileBytes []byte, key, contentType string) (*UploadResult, error) {
	return &UploadResult{
		URL:      key,
		Key:      key,
		Size:     int64(len(fileBytes)),
		MimeType: contentType,
	}, nil
}

func (s *StorageService) buildMediaKey(originalName, folder string) (string, error) {
	suffix, err := utils.GenerateRandomString(12)
	if err != nil {
		return "", fmt.Errorf("failed to generate media key: %w", err)
	}

	ext := filepath.Ext(originalName)
	timestamp := time.Now().Format("20060102")
	filename := fmt.Sprintf("%s_%s%s", timestamp, suffix, ext)

	if folder != "" {
		return fmt.Sprintf("%s/%s", folder, filename), nil
	}
	return filename, nil
}

func (s *StorageService) getS3URL(key string) string {
	if s.config.AWS.CloudFrontURL != "" {
		return fmt.Sprintf("%s/%s", s.config.AWS.CloudFrontURL, key)
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s",
		s.config.AWS.S3Bucket, s.config.AWS.Region, key)
}

func (s *StorageService) validateImage(file multipart.File) error {
	buffer := make([]byte, 512)
	_, err := file.Read(buffer)
	if err != nil && err != io.EOF {
		return fmt.Errorf("failed to read file: %w", err)
	}

	// Reset so the upload reads the whole file
	if _, err := file.Seek(0, 0); err != nil {
		return fmt.Errorf("failed to rewind file: %w", err)
	}

	if !isValidImageType(buffer) {
		return fmt.Errorf("invalid image file")
	}

	return nil
}

func isValidImageType(buffer []byte) bool {
	// JPEG
	if len(buffer) >= 3 && buffer[0] == 0xFF && buffer[1] == 0xD8 && buffer[2] == 0xFF {
		return true
	}

	// PNG
	if len(buffer) >= 8 && buffer[0] == 0x89 && buffer[1] == 0x50 && buffer[2] == 0x4E && buffer[3] == 0x47 {
		return true
	}

	// GIF
	if len(buffer) >= 6 && (string(buffer[0:6]) == "GIF87a" || string(buffer[0:6]) == "GIF89a") {
		return true
	}

	return false
}
