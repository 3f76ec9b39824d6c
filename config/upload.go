package config

type UploadConfig struct {
	AllowedMimeTypes []string
	MaxSizeMB        int64
	PathPrefix       string
}

var UploadContexts = map[string]UploadConfig{
	"family_document": {
		AllowedMimeTypes: []string{
			"image/jpeg", "image/png", "image/jpg", "image/webp",
			"application/pdf",
			"application/zip", // docx и xlsx определяются как zip
			"application/msword",
		},
		MaxSizeMB:  20,
		PathPrefix: "families",
	},
}
