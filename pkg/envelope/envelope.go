// Package envelope implements the pre-shared-key encryption wrapper used by the
// admin frontend for selected request bodies.
//
// Ciphertexts use the OpenSSL passphrase format that CryptoJS emits for
// AES.encrypt(text, passphrase): base64("Salted__" | salt | AES-256-CBC(text)),
// with key and IV derived from the passphrase through EVP_BytesToKey(MD5).
// The scheme only obscures payloads from casual inspection; anyone holding the
// passphrase can read and forge them.
package envelope

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/md5" //nolint:gosec
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	appErrors "github.com/abelkristv/magang-sub001/pkg/errors"
)

const (
	saltHeader = "Salted__"
	saltLen    = 8
	keyLen     = 32
)

// WrapperField is the JSON field carrying the ciphertext in request bodies.
const WrapperField = "encryptedData"

// Codec decrypts and encrypts envelope payloads with a shared passphrase.
type Codec struct {
	passphrase []byte
}

// New builds a codec for the given passphrase.
func New(passphrase string) *Codec {
	return &Codec{passphrase: []byte(passphrase)}
}

// Open recovers the JSON document carried by input. input may be the
// ciphertext string itself or an object holding it under "encryptedData";
// only one level of wrapping is removed.
func (c *Codec) Open(input json.RawMessage) (json.RawMessage, error) {
	cipherText, err := unwrap(input)
	if err != nil {
		return nil, err
	}

	plain, err := c.decrypt(cipherText)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrDecryptionFailed.Code, appErrors.ErrDecryptionFailed.Status, appErrors.ErrDecryptionFailed.Message)
	}
	if len(plain) == 0 || !utf8.Valid(plain) {
		return nil, appErrors.Clone(appErrors.ErrDecryptionFailed, "")
	}
	if !json.Valid(plain) {
		return nil, appErrors.Clone(appErrors.ErrMalformedPayload, "")
	}
	return json.RawMessage(plain), nil
}

// Decode opens input and unmarshals the recovered document into v.
func (c *Codec) Decode(input json.RawMessage, v interface{}) error {
	plain, err := c.Open(input)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(plain, v); err != nil {
		return appErrors.Wrap(err, appErrors.ErrMalformedPayload.Code, appErrors.ErrMalformedPayload.Status, "decrypted payload does not match the expected shape")
	}
	return nil
}

// Seal marshals v to JSON and encrypts it with a random salt.
func (c *Codec) Seal(v interface{}) (string, error) {
	plain, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("marshal envelope payload: %w", err)
	}
	return c.Encrypt(plain)
}

// Encrypt encrypts raw bytes into the OpenSSL salted format.
func (c *Codec) Encrypt(plain []byte) (string, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	key, iv := deriveKeyIV(c.passphrase, salt)

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", fmt.Errorf("init cipher: %w", err)
	}
	padded := pkcs7Pad(plain, aes.BlockSize)
	out := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(out, padded)

	buf := make([]byte, 0, len(saltHeader)+saltLen+len(out))
	buf = append(buf, saltHeader...)
	buf = append(buf, salt...)
	buf = append(buf, out...)
	return base64.StdEncoding.EncodeToString(buf), nil
}

func (c *Codec) decrypt(cipherText string) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(cipherText))
	if err != nil {
		return nil, fmt.Errorf("decode base64: %w", err)
	}
	if len(raw) < len(saltHeader)+saltLen+aes.BlockSize || !bytes.HasPrefix(raw, []byte(saltHeader)) {
		return nil, fmt.Errorf("missing salt header")
	}
	salt := raw[len(saltHeader) : len(saltHeader)+saltLen]
	body := raw[len(saltHeader)+saltLen:]
	if len(body)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("ciphertext is not a multiple of the block size")
	}

	key, iv := deriveKeyIV(c.passphrase, salt)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("init cipher: %w", err)
	}
	out := make([]byte, len(body))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(out, body)
	return pkcs7Unpad(out, aes.BlockSize)
}

func unwrap(input json.RawMessage) (string, error) {
	trimmed := bytes.TrimSpace(input)
	if len(trimmed) == 0 {
		return "", appErrors.Clone(appErrors.ErrInvalidFormat, "")
	}

	var value interface{}
	if err := json.Unmarshal(trimmed, &value); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInvalidFormat.Code, appErrors.ErrInvalidFormat.Status, appErrors.ErrInvalidFormat.Message)
	}

	if obj, ok := value.(map[string]interface{}); ok {
		value = obj[WrapperField]
	}

	s, ok := value.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", appErrors.Clone(appErrors.ErrInvalidFormat, "")
	}
	return s, nil
}

// deriveKeyIV is OpenSSL's EVP_BytesToKey with MD5 and a single iteration.
func deriveKeyIV(passphrase, salt []byte) ([]byte, []byte) {
	var (
		derived []byte
		prev    []byte
	)
	for len(derived) < keyLen+aes.BlockSize {
		h := md5.New() //nolint:gosec
		h.Write(prev)
		h.Write(passphrase)
		h.Write(salt)
		prev = h.Sum(nil)
		derived = append(derived, prev...)
	}
	return derived[:keyLen], derived[keyLen : keyLen+aes.BlockSize]
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	return append(append([]byte{}, data...), bytes.Repeat([]byte{byte(n)}, n)...)
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, fmt.Errorf("invalid padded length")
	}
	n := int(data[len(data)-1])
	if n == 0 || n > blockSize {
		return nil, fmt.Errorf("invalid padding")
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, fmt.Errorf("invalid padding")
		}
	}
	return data[:len(data)-n], nil
}
