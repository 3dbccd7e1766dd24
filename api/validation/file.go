package validation

import (
	"bytes"
	"io"
	"mime/multipart"
)

type FileType string

const (
	FileTypePNG  FileType = "png"
	FileTypeJPEG FileType = "jpeg"
	FileTypeGIF  FileType = "gif"
	FileTypeXLSX FileType = "xlsx"
	FileTypeCSV  FileType = "csv"
)

var magicBytes = map[FileType][]byte{
	FileTypePNG:  {0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A},
	FileTypeJPEG: {0xFF, 0xD8, 0xFF},
	FileTypeGIF:  {0x47, 0x49, 0x46, 0x38},
	// xlsx is a zip container
	FileTypeXLSX: {0x50, 0x4B, 0x03, 0x04},
}

// DetectFileType sniffs the leading bytes. Anything that is not a known
// binary signature but looks like text is treated as CSV.
func DetectFileType(file multipart.File) (FileType, error) {
	buffer := make([]byte, 512)
	n, err := file.Read(buffer)
	if err != nil && err != io.EOF {
		return "", err
	}

	if _, err := file.Seek(0, 0); err != nil {
		return "", err
	}

	for fileType, signature := range magicBytes {
		if bytes.HasPrefix(buffer[:n], signature) {
			return fileType, nil
		}
	}

	if isPlainText(buffer[:n]) {
		return FileTypeCSV, nil
	}

	return "", ErrInvalidFileType
}

func IsAllowedImageType(fileType FileType) bool {
	switch fileType {
	case FileTypePNG, FileTypeJPEG, FileTypeGIF:
		return true
	default:
		return false
	}
}

func IsAllowedDataType(fileType FileType) bool {
	return fileType == FileTypeCSV || fileType == FileTypeXLSX
}

func isPlainText(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	for _, b := range data {
		if b == 0 {
			return false
		}
		if b < 0x09 && b != 0 {
			return false
		}
	}
	return true
}
