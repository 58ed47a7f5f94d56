package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func restorePasswordGlobals() {
	bcryptGenerateFromPassword = bcrypt.GenerateFromPassword
	bcryptCompareHashAndPassword = bcrypt.CompareHashAndPassword
}

func TestHashPassword(t *testing.T) {
	t.Cleanup(restorePasswordGlobals)
	pwd := "secret"
	hash, err := HashPassword(pwd)
	require.NoError(t, err)
	require.NotEqual(t, pwd, hash)
	require.NoError(t, ComparePassword(hash, pwd))

	// 相同明文每次哈希皆不同
	hash2, err := HashPassword(pwd)
	require.NoError(t, err)
	require.NotEqual(t, hash, hash2)

	bcryptGenerateFromPassword = func(_ []byte, _ int) ([]byte, error) {
		return nil, errors.New("gen")
	}
	_, err = HashPassword(pwd)
	require.Error(t, err)
}

func TestComparePassword(t *testing.T) {
	t.Cleanup(restorePasswordGlobals)
	hash, err := HashPassword("pw")
	require.NoError(t, err)
	require.NoError(t, ComparePassword(hash, "pw"))
	require.Error(t, ComparePassword(hash, "bad"))

	// 損壞的哈希回傳錯誤而非 panic
	require.Error(t, ComparePassword("not-a-bcrypt-digest", "pw"))
}
