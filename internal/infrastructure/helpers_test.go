package infrastructure

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContentTypeForFilename(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{name: "caja.jpg", want: "image/jpeg"},
		{name: "caja.JPEG", want: "image/jpeg"},
		{name: "etiqueta.png", want: "image/png"},
		{name: "banner.gif", want: "image/gif"},
		{name: "productos.csv", want: "text/csv"},
		{name: "archivo.bin", want: "application/octet-stream"},
		{name: "sin_extension", want: "application/octet-stream"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ContentTypeForFilename(tt.name))
		})
	}
}
