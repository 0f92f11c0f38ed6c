package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasAvailableStorage(t *testing.T) {
	user := &User{StorageLimit: 1000, UsedStorage: 600}

	assert.True(t, user.HasAvailableStorage(399))
	// Landing exactly on the limit is allowed.
	assert.True(t, user.HasAvailableStorage(400))
	assert.False(t, user.HasAvailableStorage(401))
	assert.True(t, user.HasAvailableStorage(0))
}

func TestHasAvailableStorageFull(t *testing.T) {
	user := &User{StorageLimit: 1000, UsedStorage: 1000}

	assert.True(t, user.HasAvailableStorage(0))
	assert.False(t, user.HasAvailableStorage(1))
}

func TestAvailableStorage(t *testing.T) {
	user := &User{StorageLimit: 1000, UsedStorage: 250}
	assert.Equal(t, int64(750), user.AvailableStorage())
}

func TestFullName(t *testing.T) {
	assert.Equal(t, "Ada Lovelace", (&User{FirstName: "Ada", LastName: "Lovelace"}).FullName())
	assert.Equal(t, "Ada", (&User{FirstName: "Ada"}).FullName())
}

func TestStoragePercentage(t *testing.T) {
	assert.Equal(t, 60, (&User{StorageLimit: 1000, UsedStorage: 600}).StoragePercentage())
	assert.Equal(t, 100, (&User{StorageLimit: 0, UsedStorage: 0}).StoragePercentage())
}
