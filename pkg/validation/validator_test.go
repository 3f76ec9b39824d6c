package validation

import (
	"bytes"
	"mime/multipart"
	"testing"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
)

type loginPayload struct {
	IIN string `validate:"required,iin"`
}

type familyPayload struct {
	RiskLevel null.String  `validate:"omitempty,risk_level"`
	Income    null.Float64 `validate:"omitempty,gte=0"`
	Role      string       `validate:"omitempty,role"`
}

func TestIIN(t *testing.T) {
	v := New()
	assert.NoError(t, v.Validate(loginPayload{IIN: "123456789013"}))

	for _, bad := range []string{"", "12345678901", "1234567890123", "12345678901a", " 23456789012"} {
		assert.Error(t, v.Validate(loginPayload{IIN: bad}), bad)
	}
}

func TestNullAdapters(t *testing.T) {
	v := New()
	assert.NoError(t, v.Validate(familyPayload{}))
	assert.NoError(t, v.Validate(familyPayload{RiskLevel: null.StringFrom("high"), Income: null.Float64From(1500)}))
	assert.Error(t, v.Validate(familyPayload{RiskLevel: null.StringFrom("extreme")}))
	assert.Error(t, v.Validate(familyPayload{Income: null.Float64From(-1)}))
}

func TestRoleRule(t *testing.T) {
	v := New()
	assert.NoError(t, v.Validate(familyPayload{Role: "Районный специалист"}))
	assert.Error(t, v.Validate(familyPayload{Role: "superuser"}))
}

func TestValidateFile(t *testing.T) {
	pdf := []byte("%PDF-1.4\n%âãÏÓ\n1 0 obj\n<<>>\nendobj\n")
	mime, err := ValidateFile(&multipart.FileHeader{Size: int64(len(pdf))}, bytes.NewReader(pdf), "family_document")
	assert.NoError(t, err)
	assert.Equal(t, "application/pdf", mime)

	text := []byte("просто текст")
	_, err = ValidateFile(&multipart.FileHeader{Size: int64(len(text))}, bytes.NewReader(text), "family_document")
	assert.Error(t, err)

	_, err = ValidateFile(&multipart.FileHeader{Size: 30 * 1024 * 1024}, bytes.NewReader(pdf), "family_document")
	assert.Error(t, err)

	_, err = ValidateFile(&multipart.FileHeader{Size: 1}, bytes.NewReader(pdf), "unknown")
	assert.Error(t, err)
}
