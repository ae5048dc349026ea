// internal/vtypes/file_info.go
package vtypes

// FileInfo describes an object stored through a StorageService.
type FileInfo struct {
	URL      string `json:"url"`      // publicly reachable URL (may be signed)
	Key      string `json:"key"`      // storage key, the stable internal identifier
	Size     int64  `json:"size"`     // size in bytes
	MimeType string `json:"mimeType"` // MIME type reported at upload time
	FileName string `json:"fileName"` // original file name
}
