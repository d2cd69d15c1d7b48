package usecase

import "context"

// PhotoInfra управляет объектами в S3-совместимом хранилище.
type PhotoInfra interface {
	// UploadPhoto сохраняет фото и возвращает ключ объекта.
	UploadPhoto(ctx context.Context, req *UploadPhotoReq) (string, error)
	// CleanupPhotos запускает фоновую очистку объектов по ключам.
	CleanupPhotos(keys []string)
	// PhotoURL возвращает временную подписанную ссылку на объект.
	PhotoURL(ctx context.Context, objectKey string) (string, error)
	// StoreImportFile сохраняет файл импорта и возвращает ключ объекта.
	StoreImportFile(ctx context.Context, fileName string, data []byte) (string, error)
}

// MessageProducer отправляет события в брокер.
type MessageProducer interface {
	WriteRawMessage(ctx context.Context, req *WriteRawMessageReq) error
}

// ProviderDirectory возвращает названия поставщиков по их идентификаторам.
type ProviderDirectory interface {
	ProviderNames(ctx context.Context, ids []string) (map[string]string, error)
}
