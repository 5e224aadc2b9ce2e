package constants

// Имена очередей
const (
	QueueBlobCleanup = "bookmark_blob_cleanup"
)

// Обменники и ключи маршрутизации
const (
	BlobCleanupExchange   = "bookmark_blob_cleanup_exchange"
	RoutingKeyBlobCleanup = "bookmark.blob.cleanup"
)
