package utils

import (
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublicIDFromURL(t *testing.T) {
	id, err := PublicIDFromURL("https://res.cloudinary.com/demo/image/upload/v1712345678/doctor_pictures/doctor_1.png")
	require.NoError(t, err)
	assert.Equal(t, "doctor_pictures/doctor_1", id)

	id, err = PublicIDFromURL("https://res.cloudinary.com/demo/image/upload/profile_pictures/user_2.jpg")
	require.NoError(t, err)
	assert.Equal(t, "profile_pictures/user_2", id)

	_, err = PublicIDFromURL("https://example.com/picture.png")
	assert.Error(t, err)
}

func TestValidateImage(t *testing.T) {
	assert.NoError(t, ValidateImage(&multipart.FileHeader{Filename: "me.PNG", Size: 1024}))
	assert.Error(t, ValidateImage(&multipart.FileHeader{Filename: "me.exe", Size: 1024}))
	assert.Error(t, ValidateImage(&multipart.FileHeader{Filename: "me.jpg", Size: maxImageSize + 1}))
}

func TestLooksLikeImage(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n0000")
	assert.True(t, looksLikeImage(png, "a.png"))
	assert.False(t, looksLikeImage([]byte("hello world"), "a.png"))
	assert.True(t, looksLikeImage([]byte(`<svg xmlns="http://www.w3.org/2000/svg"></svg>`), "a.svg"))
}
