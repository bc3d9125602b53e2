package files

import (
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// DefaultAudioContentType is sent upstream when nothing better is known.
const DefaultAudioContentType = "audio/mpeg"

// AudioContentType picks the content type to send upstream: the declared
// type when it is specific, else a sniff of the leading bytes, else
// audio/mpeg.
func AudioContentType(declared string, head []byte) string {
	declared = strings.TrimSpace(declared)
	if declared != "" && declared != "application/octet-stream" {
		return declared
	}
	if len(head) > 0 {
		mt := mimetype.Detect(head)
		if strings.HasPrefix(mt.String(), "audio/") || strings.HasPrefix(mt.String(), "video/") {
			return mt.String()
		}
	}
	return DefaultAudioContentType
}

// ValidateAvatar accepts images up to MaxAvatarSize and returns the detected
// content type and canonical extension.
func ValidateAvatar(data []byte) (contentType, ext string, err error) {
	if len(data) == 0 {
		return "", "", fmt.Errorf("Nenhum arquivo selecionado")
	}
	if int64(len(data)) > MaxAvatarSize {
		return "", "", fmt.Errorf("Imagem muito grande. Máximo: 2MB")
	}
	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return "", "", fmt.Errorf("Apenas imagens são permitidas")
	}
	return mt.String(), mt.Extension(), nil
}
