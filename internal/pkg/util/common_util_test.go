package util

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetSafeContentType(t *testing.T) {
	mp4Header := append([]byte{0x00, 0x00, 0x00, 0x18}, []byte("ftypmp42")...)
	reader := bytes.NewReader(append(mp4Header, make([]byte, 64)...))

	contentType, err := GetSafeContentType(reader)
	require.NoError(t, err)
	require.Equal(t, "video/mp4", contentType)

	// 嗅探后读取位置必须回到开头
	head := make([]byte, 4)
	_, err = io.ReadFull(reader, head)
	require.NoError(t, err)
	require.Equal(t, []byte{0x00, 0x00, 0x00, 0x18}, head)
}

func TestGetSafeContentTypeTextFallback(t *testing.T) {
	reader := bytes.NewReader([]byte("not a video at all"))

	contentType, err := GetSafeContentType(reader)
	require.NoError(t, err)
	require.Contains(t, contentType, "text/plain")
}
