package pdf

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/md5"
	"crypto/rc4"
	"crypto/sha256"
	"crypto/sha512"
	"errors"
)

// EncryptionType represents the PDF encryption algorithm
type EncryptionType int

const (
	EncryptionNone EncryptionType = iota
	EncryptionRC4_40
	EncryptionRC4_128
	EncryptionAES_128
	EncryptionAES_256 // PDF 2.0
)

// SecurityHandler handles PDF encryption/decryption
type SecurityHandler struct {
	Type           EncryptionType
	Version        int // V value (1-5)
	Revision       int // R value (2-6)
	KeyLength      int // in bits
	Permissions    int32
	OwnerKey       []byte // O value
	UserKey        []byte // U value
	OwnerEncrypted []byte // OE value (AES-256)
	UserEncrypted  []byte // UE value (AES-256)
	Perms          []byte // Perms value (AES-256)
	EncryptMeta    bool
	documentID     []byte
	encryptionKey  []byte
}

// PDF password padding
var passwordPadding = []byte{
	0x28, 0xBF, 0x4E, 0x5E, 0x4E, 0x75, 0x8A, 0x41,
	0x64, 0x00, 0x4E, 0x56, 0xFF, 0xFA, 0x01, 0x08,
	0x2E, 0x2E, 0x00, 0xB6, 0xD0, 0x68, 0x3E, 0x80,
	0x2F, 0x0C, 0xA9, 0xFE, 0x64, 0x53, 0x69, 0x7A,
}

// parseEncryption parses the Encrypt dictionary from the trailer
func parseEncryption(doc *Document) (*SecurityHandler, error) {
	encryptRef := doc.trailer.Get("Encrypt")
	if encryptRef == nil {
		return nil, nil // Not encrypted
	}

	encryptObj, err := doc.Resolve(encryptRef)
	if err != nil {
		return nil, err
	}

	encryptDict, ok := encryptObj.(Dictionary)
	if !ok {
		return nil, errors.New("invalid Encrypt dictionary")
	}

	sh := &SecurityHandler{
		EncryptMeta: true,
		KeyLength:   40,
	}

	filter, _ := encryptDict.GetName("Filter")
	if filter != "Standard" {
		return nil, errors.New("unsupported encryption filter: " + string(filter))
	}

	if v, ok := encryptDict.GetInt("V"); ok {
		sh.Version = int(v)
	}
	if r, ok := encryptDict.GetInt("R"); ok {
		sh.Revision = int(r)
	}
	if length, ok := encryptDict.GetInt("Length"); ok {
		sh.KeyLength = int(length)
	}
	if p, ok := encryptDict.GetInt("P"); ok {
		sh.Permissions = int32(p)
	}

	if o, ok := encryptDict.Get("O").(String); ok {
		sh.OwnerKey = o.Value
	}
	if u, ok := encryptDict.Get("U").(String); ok {
		sh.UserKey = u.Value
	}

	// AES-256 specific values
	if sh.Version == 5 {
		if oe, ok := encryptDict.Get("OE").(String); ok {
			sh.OwnerEncrypted = oe.Value
		}
		if ue, ok := encryptDict.Get("UE").(String); ok {
			sh.UserEncrypted = ue.Value
		}
		if perms, ok := encryptDict.Get("Perms").(String); ok {
			sh.Perms = perms.Value
		}
	}

	switch sh.Version {
	case 1:
		sh.Type = EncryptionRC4_40
	case 2:
		if sh.KeyLength <= 40 {
			sh.Type = EncryptionRC4_40
		} else {
			sh.Type = EncryptionRC4_128
		}
	case 4:
		sh.Type = EncryptionAES_128
	case 5:
		sh.Type = EncryptionAES_256
	default:
		sh.Type = EncryptionRC4_128
	}

	if b, ok := encryptDict.Get("EncryptMetadata").(Boolean); ok {
		sh.EncryptMeta = bool(b)
	}

	// First element of the trailer ID feeds key derivation
	if ids, ok := doc.trailer.GetArray("ID"); ok && len(ids) > 0 {
		if id, ok := ids[0].(String); ok {
			sh.documentID = id.Value
		}
	}

	return sh, nil
}

// Authenticate attempts to authenticate with the given password
func (sh *SecurityHandler) Authenticate(password string) bool {
	if sh.Revision >= 5 {
		return sh.authenticateUserR6(password) || sh.authenticateOwnerR6(password)
	}
	if sh.authenticateUser(password) {
		return true
	}
	return sh.authenticateOwner(password)
}

// authenticateUser checks the user password (revisions 2-4)
func (sh *SecurityHandler) authenticateUser(password string) bool {
	key := sh.computeEncryptionKey(password)
	computed := sh.computeUserKey(key)

	n := len(computed)
	if sh.Revision >= 3 {
		n = 16
	}
	if len(computed) < n || len(sh.UserKey) < n {
		return false
	}
	if !bytes.Equal(computed[:n], sh.UserKey[:n]) {
		return false
	}
	sh.encryptionKey = key
	return true
}

// authenticateOwner checks the owner password (revisions 2-4)
func (sh *SecurityHandler) authenticateOwner(password string) bool {
	hash := md5.Sum(padPassword(password))
	if sh.Revision >= 3 {
		for i := 0; i < 50; i++ {
			hash = md5.Sum(hash[:])
		}
	}

	keyLen := sh.KeyLength / 8
	if keyLen > 16 {
		keyLen = 16
	}
	key := hash[:keyLen]

	// Decrypting O with the owner key yields the padded user password
	userPwd := make([]byte, len(sh.OwnerKey))
	copy(userPwd, sh.OwnerKey)
	if sh.Revision >= 3 {
		for i := 19; i >= 0; i-- {
			tmpKey := make([]byte, len(key))
			for j := range key {
				tmpKey[j] = key[j] ^ byte(i)
			}
			c, _ := rc4.NewCipher(tmpKey)
			c.XORKeyStream(userPwd, userPwd)
		}
	} else {
		c, _ := rc4.NewCipher(key)
		c.XORKeyStream(userPwd, sh.OwnerKey)
	}

	return sh.authenticateUser(string(userPwd))
}

// authenticateUserR6 checks the user password for AES-256 (R5/R6)
func (sh *SecurityHandler) authenticateUserR6(password string) bool {
	if len(sh.UserKey) < 48 || len(sh.UserEncrypted) < 32 {
		return false
	}
	pwd := truncateUTF8(password)
	validationSalt := sh.UserKey[32:40]
	keySalt := sh.UserKey[40:48]

	hash := sh.hash2B(pwd, validationSalt, nil)
	if !bytes.Equal(hash, sh.UserKey[:32]) {
		return false
	}

	intermediate := sh.hash2B(pwd, keySalt, nil)
	fileKey, err := aesCBCNoPad(intermediate, sh.UserEncrypted[:32])
	if err != nil {
		return false
	}
	sh.encryptionKey = fileKey
	return true
}

// authenticateOwnerR6 checks the owner password for AES-256 (R5/R6)
func (sh *SecurityHandler) authenticateOwnerR6(password string) bool {
	if len(sh.OwnerKey) < 48 || len(sh.OwnerEncrypted) < 32 || len(sh.UserKey) < 48 {
		return false
	}
	pwd := truncateUTF8(password)
	validationSalt := sh.OwnerKey[32:40]
	keySalt := sh.OwnerKey[40:48]

	hash := sh.hash2B(pwd, validationSalt, sh.UserKey[:48])
	if !bytes.Equal(hash, sh.OwnerKey[:32]) {
		return false
	}

	intermediate := sh.hash2B(pwd, keySalt, sh.UserKey[:48])
	fileKey, err := aesCBCNoPad(intermediate, sh.OwnerEncrypted[:32])
	if err != nil {
		return false
	}
	sh.encryptionKey = fileKey
	return true
}

// hash2B implements the hardened hash of ISO 32000-2 algorithm 2.B.
// Revision 5 stops after the initial SHA-256.
func (sh *SecurityHandler) hash2B(password, salt, userData []byte) []byte {
	first := sha256.New()
	first.Write(password)
	first.Write(salt)
	first.Write(userData)
	k := first.Sum(nil)

	if sh.Revision == 5 {
		return k
	}

	var e []byte
	for round := 0; ; round++ {
		k1 := make([]byte, 0, 64*(len(password)+len(k)+len(userData)))
		for i := 0; i < 64; i++ {
			k1 = append(k1, password...)
			k1 = append(k1, k...)
			k1 = append(k1, userData...)
		}

		block, _ := aes.NewCipher(k[:16])
		mode := cipher.NewCBCEncrypter(block, k[16:32])
		e = make([]byte, len(k1))
		mode.CryptBlocks(e, k1)

		sum := 0
		for _, b := range e[:16] {
			sum += int(b)
		}
		switch sum % 3 {
		case 0:
			h := sha256.Sum256(e)
			k = h[:]
		case 1:
			h := sha512.Sum384(e)
			k = h[:]
		case 2:
			h := sha512.Sum512(e)
			k = h[:]
		}

		if round >= 63 && int(e[len(e)-1]) <= round-32 {
			break
		}
	}
	return k[:32]
}

// computeEncryptionKey computes the file key from a password (algorithm 2)
func (sh *SecurityHandler) computeEncryptionKey(password string) []byte {
	h := md5.New()
	h.Write(padPassword(password))
	h.Write(sh.OwnerKey)

	p := sh.Permissions
	h.Write([]byte{byte(p), byte(p >> 8), byte(p >> 16), byte(p >> 24)})
	h.Write(sh.documentID)

	if sh.Revision >= 4 && !sh.EncryptMeta {
		h.Write([]byte{0xFF, 0xFF, 0xFF, 0xFF})
	}

	hash := h.Sum(nil)

	keyLen := sh.KeyLength / 8
	if keyLen > 16 {
		keyLen = 16
	}

	if sh.Revision >= 3 {
		for i := 0; i < 50; i++ {
			sum := md5.Sum(hash[:keyLen])
			hash = sum[:]
		}
	}

	return hash[:keyLen]
}

// computeUserKey computes the U value for verification (algorithms 4 and 5)
func (sh *SecurityHandler) computeUserKey(key []byte) []byte {
	if sh.Revision >= 3 {
		h := md5.New()
		h.Write(passwordPadding)
		h.Write(sh.documentID)
		hash := h.Sum(nil)

		c, _ := rc4.NewCipher(key)
		result := make([]byte, 16)
		c.XORKeyStream(result, hash[:16])

		for i := 1; i <= 19; i++ {
			tmpKey := make([]byte, len(key))
			for j := range key {
				tmpKey[j] = key[j] ^ byte(i)
			}
			c, _ := rc4.NewCipher(tmpKey)
			c.XORKeyStream(result, result)
		}

		padded := make([]byte, 32)
		copy(padded, result)
		return padded
	}

	c, _ := rc4.NewCipher(key)
	result := make([]byte, 32)
	c.XORKeyStream(result, passwordPadding)
	return result
}

// DecryptData decrypts a string or stream body belonging to an object
func (sh *SecurityHandler) DecryptData(data []byte, objNum, genNum int) ([]byte, error) {
	if sh.encryptionKey == nil {
		return nil, errors.New("not authenticated")
	}

	switch sh.Type {
	case EncryptionRC4_40, EncryptionRC4_128:
		return decryptRC4(data, sh.computeObjectKey(objNum, genNum))
	case EncryptionAES_128:
		return decryptAES(data, sh.computeObjectKey(objNum, genNum))
	case EncryptionAES_256:
		// AES-256 uses the file key directly
		return decryptAES(data, sh.encryptionKey)
	default:
		return nil, errors.New("unsupported encryption type")
	}
}

// computeObjectKey derives the per-object key (algorithm 1)
func (sh *SecurityHandler) computeObjectKey(objNum, genNum int) []byte {
	h := md5.New()
	h.Write(sh.encryptionKey)
	h.Write([]byte{byte(objNum), byte(objNum >> 8), byte(objNum >> 16)})
	h.Write([]byte{byte(genNum), byte(genNum >> 8)})

	if sh.Type == EncryptionAES_128 {
		h.Write([]byte("sAlT"))
	}

	hash := h.Sum(nil)

	keyLen := len(sh.encryptionKey) + 5
	if keyLen > 16 {
		keyLen = 16
	}
	return hash[:keyLen]
}

// decryptRC4 decrypts data using RC4
func decryptRC4(data, key []byte) ([]byte, error) {
	c, err := rc4.NewCipher(key)
	if err != nil {
		return nil, err
	}
	result := make([]byte, len(data))
	c.XORKeyStream(result, data)
	return result, nil
}

// decryptAES decrypts data using AES-CBC with a leading IV
func decryptAES(data, key []byte) ([]byte, error) {
	if len(data) < 16 {
		return nil, errors.New("data too short for AES")
	}

	iv := data[:16]
	ciphertext := data[16:]

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	if len(ciphertext)%aes.BlockSize != 0 {
		return nil, errors.New("ciphertext not multiple of block size")
	}

	mode := cipher.NewCBCDecrypter(block, iv)
	plaintext := make([]byte, len(ciphertext))
	mode.CryptBlocks(plaintext, ciphertext)

	// Strip PKCS7 padding
	if len(plaintext) > 0 {
		padLen := int(plaintext[len(plaintext)-1])
		if padLen > 0 && padLen <= 16 && padLen <= len(plaintext) {
			plaintext = plaintext[:len(plaintext)-padLen]
		}
	}
	return plaintext, nil
}

// aesCBCNoPad decrypts with a zero IV and no padding, as used for the
// UE and OE values.
func aesCBCNoPad(key, data []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	if len(data)%aes.BlockSize != 0 {
		return nil, errors.New("ciphertext not multiple of block size")
	}
	iv := make([]byte, 16)
	out := make([]byte, len(data))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(out, data)
	return out, nil
}

// padPassword pads a password to 32 bytes
func padPassword(password string) []byte {
	pwd := []byte(password)
	if len(pwd) > 32 {
		pwd = pwd[:32]
	}
	result := make([]byte, 32)
	copy(result, pwd)
	copy(result[len(pwd):], passwordPadding)
	return result
}

// truncateUTF8 limits an AES-256 password to 127 bytes
func truncateUTF8(password string) []byte {
	pwd := []byte(password)
	if len(pwd) > 127 {
		pwd = pwd[:127]
	}
	return pwd
}

// CanPrint returns true if printing is allowed
func (sh *SecurityHandler) CanPrint() bool {
	return sh.Permissions&0x04 != 0
}

// CanModify returns true if modification is allowed
func (sh *SecurityHandler) CanModify() bool {
	return sh.Permissions&0x08 != 0
}

// CanCopy returns true if copying is allowed
func (sh *SecurityHandler) CanCopy() bool {
	return sh.Permissions&0x10 != 0
}
