package util

const (
	StorageLocal = "local"
	StorageHTTP  = "http"
	StorageMinio = "minio"
	StorageOSS   = "oss"
)

// 分页
const (
	DefaultPage  = 1
	DefaultLimit = 5
	MaxLimit     = 100
)

// SuggestionFallback is stored when the text service cannot produce a suggestion.
const SuggestionFallback = "suggestion unavailable"
