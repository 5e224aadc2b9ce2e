package blobstore_client

// DTO для ответа хранилища на удаление файла
type deleteFileResponse struct {
	Success bool `json:"success"`
}
