package minio

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/DRSN-tech/inventory-backend/internal/cfg"
	"github.com/DRSN-tech/inventory-backend/internal/domain"
	"github.com/DRSN-tech/inventory-backend/internal/infrastructure"
	"github.com/DRSN-tech/inventory-backend/internal/usecase"
	"github.com/DRSN-tech/inventory-backend/pkg/e"
	"github.com/DRSN-tech/inventory-backend/pkg/jitter"
	"github.com/DRSN-tech/inventory-backend/pkg/logger"

	"github.com/google/uuid"
)

// ImageRepository — низкоуровневое хранилище объектов в бакете.
type ImageRepository interface {
	Upload(ctx context.Context, image *domain.Image) (string, error)
	Delete(ctx context.Context, key string) error
	PresignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// PhotoInfrastructure управляет фото продуктов и файлами импорта в MinIO.
type PhotoInfrastructure struct {
	minioRepo   ImageRepository
	cfg         *cfg.MinIOCfg
	logger      logger.Logger
	shutdownCtx context.Context
	wg          sync.WaitGroup
}

func NewPhotoInfrastructure(minioRepo ImageRepository, cfg *cfg.MinIOCfg, logger logger.Logger, shutdownCtx context.Context) *PhotoInfrastructure {
	return &PhotoInfrastructure{
		minioRepo:   minioRepo,
		cfg:         cfg,
		logger:      logger,
		shutdownCtx: shutdownCtx,
		wg:          sync.WaitGroup{},
	}
}

// UploadPhoto загружает фото продукта и возвращает ключ объекта.
// Ключ включает SKU и uuid, так что повторные загрузки не затирают друг друга.
func (m *PhotoInfrastructure) UploadPhoto(ctx context.Context, req *usecase.UploadPhotoReq) (string, error) {
	const op = "PhotoInfrastructure.UploadPhoto"

	photoID := uuid.NewString()
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(req.Photo.Name), "."))
	objKey := fmt.Sprintf("%s%s-%s.%s", m.cfg.PhotoPrefix, req.SKU, photoID, ext)

	contentType := infrastructure.ContentTypeForFilename(req.Photo.Name)
	image := domain.NewImage(photoID, m.cfg.BucketName, objKey, req.Photo.Data, &req.Photo.Size, &contentType)

	key, err := m.minioRepo.Upload(ctx, image)
	if err != nil {
		return "", e.Wrap(op, err)
	}

	return key, nil
}

// StoreImportFile сохраняет CSV-файл импорта и возвращает ключ объекта.
func (m *PhotoInfrastructure) StoreImportFile(ctx context.Context, fileName string, data []byte) (string, error) {
	const op = "PhotoInfrastructure.StoreImportFile"

	fileID := uuid.NewString()
	objKey := fmt.Sprintf("%s%s-%s", m.cfg.ImportPrefix, fileID, filepath.Base(fileName))

	size := int64(len(data))
	contentType := infrastructure.ContentTypeForFilename(fileName)
	object := domain.NewImage(fileID, m.cfg.BucketName, objKey, data, &size, &contentType)

	key, err := m.minioRepo.Upload(ctx, object)
	if err != nil {
		return "", e.Wrap(op, err)
	}

	return key, nil
}

// PhotoURL возвращает временную подписанную ссылку на объект.
func (m *PhotoInfrastructure) PhotoURL(ctx context.Context, objectKey string) (string, error) {
	const op = "PhotoInfrastructure.PhotoURL"

	url, err := m.minioRepo.PresignedURL(ctx, objectKey, m.cfg.PhotoURLTTL)
	if err != nil {
		return "", e.Wrap(op, err)
	}

	return url, nil
}

// CleanupPhotos запускает фоновую очистку указанных ключей MinIO.
func (m *PhotoInfrastructure) CleanupPhotos(keys []string) {
	if len(keys) == 0 {
		return
	}
	m.wg.Add(1)
	go m.cleanupUploadedKeys(keys)
}

// cleanupUploadedKeys удаляет указанные объекты из MinIO с экспоненциальной задержкой и jitter.
func (m *PhotoInfrastructure) cleanupUploadedKeys(keys []string) {
	defer m.wg.Done() // сигнализируем завершение компенсации
	const op = "PhotoInfrastructure.cleanupUploadedKeys"
	m.logger.Infof("%s: Cleaning up uploaded keys", op)

	// Создаём контекст с таймаутом на основе shutdownCtx
	ctx, cancel := context.WithTimeout(m.shutdownCtx, 30*time.Second)
	defer cancel()

	for _, key := range keys {
		for attempt := 0; attempt < 3; attempt++ {
			if err := m.minioRepo.Delete(ctx, key); err == nil {
				break // Успешно удалено
			}

			// Проверяем, не отменён ли контекст
			select {
			case <-ctx.Done():
				m.logger.Warnf("cleanup interrupted by shutdown, key=%v", key)
				return
			default:
			}

			if attempt < 2 {
				sleepTime := jitter.ExponentialBackoff(time.Second, 10*time.Second, attempt, jitter.DefaultJitter)

				select {
				case <-time.After(sleepTime):
				case <-ctx.Done():
					m.logger.Warnf("cleanup interrupted by shutdown during backoff, key=%v", key)
					return
				}
			}
		}
	}
}

// WaitForCleanup ожидает завершения всех фоновых задач очистки с учётом таймаута завершения приложения.
func (m *PhotoInfrastructure) WaitForCleanup(shutdownTimeoutCtx context.Context) error {
	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-shutdownTimeoutCtx.Done():
		return fmt.Errorf("minio cleanup timeout during shutdown: %w", shutdownTimeoutCtx.Err())
	}
}
