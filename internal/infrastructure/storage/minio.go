package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/echovault/echovault/pkg/config"
)

const audioContentType = "audio/webm"

// MinIOClient wraps object storage operations for the recordings bucket
type MinIOClient struct {
	client    *minio.Client
	bucket    string
	publicURL string // Public URL when MinIO sits behind a reverse proxy
}

// NewMinIOClient creates a new MinIO client and prepares the bucket
func NewMinIOClient(cfg *config.StorageConfig) (*MinIOClient, error) {
	minioClient, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	client := &MinIOClient{
		client:    minioClient,
		bucket:    cfg.BucketName,
		publicURL: cfg.PublicURL,
	}

	// Initialize bucket with public read policy
	ctx := context.Background()
	if err := client.ensureBucketWithPolicy(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize bucket: %w", err)
	}

	return client, nil
}

// ensureBucketWithPolicy ensures the bucket exists and is publicly readable
// so saved audio URLs can be fetched without credentials
func (m *MinIOClient) ensureBucketWithPolicy(ctx context.Context) error {
	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	if !exists {
		err = m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{})
		if err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	policy := fmt.Sprintf(`{
		"Version": "2012-10-17",
		"Statement": [
			{
				"Effect": "Allow",
				"Principal": {"AWS": ["*"]},
				"Action": ["s3:GetObject"],
				"Resource": ["arn:aws:s3:::%s/*"]
			}
		]
	}`, m.bucket)

	err = m.client.SetBucketPolicy(ctx, m.bucket, policy)
	if err != nil {
		return fmt.Errorf("failed to set bucket policy: %w", err)
	}

	return nil
}

// UploadAudio stores a finished recording under the owner's namespace with a
// collision-resistant timestamp key and returns its public URL
func (m *MinIOClient) UploadAudio(ctx context.Context, userID uuid.UUID, data []byte) (string, error) {
	objectName := fmt.Sprintf("%s/%d.webm", userID.String(), time.Now().UnixMilli())

	_, err := m.client.PutObject(ctx, m.bucket, objectName, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: audioContentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload audio: %w", err)
	}

	return m.objectURL(objectName), nil
}

// UploadAvatar stores a profile image under the avatars prefix and returns
// its public URL. The extension comes from the uploaded filename.
func (m *MinIOClient) UploadAvatar(ctx context.Context, userID uuid.UUID, ext string, data []byte, contentType string) (string, error) {
	ext = strings.TrimPrefix(strings.ToLower(ext), ".")
	if ext == "" {
		ext = "png"
	}
	objectName := fmt.Sprintf("avatars/%s/avatar.%s", userID.String(), ext)

	_, err := m.client.PutObject(ctx, m.bucket, objectName, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload avatar: %w", err)
	}

	return m.objectURL(objectName), nil
}

// RemoveByURL deletes the object a stored audio URL points at. The owner
// prefix in the key keeps one user from addressing another's objects.
func (m *MinIOClient) RemoveByURL(ctx context.Context, audioURL string) error {
	objectName, err := m.objectNameFromURL(audioURL)
	if err != nil {
		return err
	}
	if err := m.client.RemoveObject(ctx, m.bucket, objectName, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to remove object: %w", err)
	}
	return nil
}

// GetFileURL gets a presigned URL for accessing an object
func (m *MinIOClient) GetFileURL(ctx context.Context, objectName string, expiry time.Duration) (string, error) {
	url, err := m.client.PresignedGetObject(ctx, m.bucket, objectName, expiry, nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	// When MinIO is behind a reverse proxy, swap the internal endpoint for
	// the public one while keeping path and query intact
	if m.publicURL != "" {
		urlStr := url.String()
		bucketPos := len(url.Scheme) + 3 + len(url.Host)
		if bucketPos < len(urlStr) {
			return m.publicURL + urlStr[bucketPos:], nil
		}
	}

	return url.String(), nil
}

// objectURL builds the stable public URL for an object in the public-read bucket
func (m *MinIOClient) objectURL(objectName string) string {
	if m.publicURL != "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimRight(m.publicURL, "/"), m.bucket, objectName)
	}
	return fmt.Sprintf("%s/%s/%s", strings.TrimRight(m.client.EndpointURL().String(), "/"), m.bucket, objectName)
}

// objectNameFromURL extracts the object key from a URL produced by objectURL
func (m *MinIOClient) objectNameFromURL(audioURL string) (string, error) {
	marker := "/" + m.bucket + "/"
	idx := strings.Index(audioURL, marker)
	if idx < 0 {
		return "", fmt.Errorf("url does not reference bucket %q: %s", m.bucket, audioURL)
	}
	objectName := audioURL[idx+len(marker):]
	if objectName == "" {
		return "", fmt.Errorf("url has no object key: %s", audioURL)
	}
	// Strip any presign query string
	if q := strings.IndexByte(objectName, '?'); q >= 0 {
		objectName = objectName[:q]
	}
	return objectName, nil
}
